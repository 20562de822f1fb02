// Package httpx executes transport requests over net/http clients built
// from transport.Options.
package httpx

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/restforge/rest-sdk-go/transport"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ReleaseError reports a failure to release the connection after the
// response was already obtained. It is distinct from a transport failure
// so callers don't confuse it with a failed request.
type ReleaseError struct {
	Err error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release connection: %s", e.Err)
}

func (e *ReleaseError) Unwrap() error {
	return e.Err
}

// Client is a transport.HTTPClient backed by a net/http client. Redirects
// are never followed; callers read a 3xx response's Location header
// themselves.
type Client struct {
	client httpDoer
}

// NewClient builds a Client from the given transport options.
//
// Trust-all mode installs a TLS config that accepts any certificate and
// any hostname. It is a separate path from the default client and is
// never enabled implicitly.
func NewClient(opts transport.Options) (*Client, error) {
	tr := &http.Transport{}

	if opts.ProxyHost != "" && opts.ProxyPort != transport.NoProxyPort {
		proxyURL, err := url.Parse(fmt.Sprintf("http://%s:%d", opts.ProxyHost, opts.ProxyPort))
		if err != nil {
			return nil, fmt.Errorf("proxy %s:%d: %w", opts.ProxyHost, opts.ProxyPort, err)
		}
		tr.Proxy = http.ProxyURL(proxyURL)
	}

	if opts.TrustAllCerts {
		// Accepts any server certificate. Only enable for testing!
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		client: &http.Client{
			Transport: tr,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// NewDefaultClient builds a Client with no proxy and certificate
// verification left on.
func NewDefaultClient() *Client {
	c, _ := NewClient(transport.Options{ProxyPort: transport.NoProxyPort})
	return c
}

// Do executes the request and buffers the response. The connection is
// released on every exit path; a release failure after the body was read
// is returned as a *ReleaseError.
func (c *Client) Do(ctx context.Context, r *transport.Request) (*transport.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.FullURL, r.Body)
	if err != nil {
		return nil, err
	}

	if r.Headers != nil {
		for k, vs := range r.Headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		// A response whose body cannot be read is a transport fault,
		// not a partial success.
		return nil, readErr
	}
	if closeErr != nil {
		return nil, &ReleaseError{Err: closeErr}
	}

	return &transport.Response{
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
	}, nil
}
