package rest

import (
	"fmt"
	"net/http"

	"github.com/restforge/rest-sdk-go/transport"
)

// Response is the validated outcome of a successful exchange.
type Response struct {
	StatusCode int
	Body       string
	Headers    http.Header
}

// Header returns the first value of the named response header, or the
// empty string if the header is absent.
func (r *Response) Header(name string) string {
	return r.Headers.Get(name)
}

// APIError reports a well-formed HTTP exchange whose status was neither
// 200 nor 201. The raw response body is preserved so callers can inspect
// the server-reported reason.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// buildResponse validates a transport response. Status codes 200 and 201
// are the only success codes; everything else, other 2xx and 3xx
// included, becomes an *APIError carrying the code and body.
func buildResponse(resp *transport.Response) (*Response, error) {
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
		Headers:    resp.Headers,
	}, nil
}
