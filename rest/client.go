// Package rest builds and executes requests against a remote HTTP API.
//
// A Client accumulates headers and parameters for a single endpoint and
// issues GET, POST, and multipart POST calls against it:
//
//	client := rest.New("https://api.example.com/v1/things").
//		SetHeader("Accept", "application/json").
//		AddParameter("q", "value")
//	resp, err := client.Get(ctx)
//
// Status codes 200 and 201 are the only success codes; every other status
// is returned as an error carrying the code and raw body so callers can
// inspect the server-reported reason.
package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/restforge/rest-sdk-go/internal/httpx"
	"github.com/restforge/rest-sdk-go/oauth"
	"github.com/restforge/rest-sdk-go/sdkerr"
	"github.com/restforge/rest-sdk-go/transport"
)

const subsys = "rest"

// Client accumulates request intent for a single endpoint and executes
// calls against it. Mutators return the receiver for chaining. Headers
// and parameters set between calls persist on the instance until
// replaced.
//
// The accumulated state is not safe for concurrent mutation; concurrent
// execution without mutation is safe. Each call independently acquires
// and releases its connection; no transport state carries over between
// calls.
type Client struct {
	cfg        Config
	client     transport.HTTPClient
	headers    *multimap
	parameters *multimap
}

// NewClient creates a Client for the given endpoint configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		headers:    newMultimap(),
		parameters: newMultimap(),
	}
}

// New creates a Client for the given URL with no proxy and certificate
// verification left on.
func New(url string) *Client {
	return NewClient(NewConfig(url))
}

// WithHTTPClient sets the HTTP client used to execute requests. When not
// set, a client is constructed from the endpoint configuration on each
// call.
func (c *Client) WithHTTPClient(client transport.HTTPClient) *Client {
	c.client = client
	return c
}

// AddParameter appends a parameter value without disturbing values
// already set for name. Duplicates are allowed.
func (c *Client) AddParameter(name, value string) *Client {
	c.parameters.add(name, value)
	return c
}

// SetParameter replaces all values for name with value.
func (c *Client) SetParameter(name, value string) *Client {
	c.parameters.set(name, value)
	return c
}

// AddHeader appends a header value without disturbing values already set
// for name. Duplicates are allowed.
func (c *Client) AddHeader(name, value string) *Client {
	c.headers.add(name, value)
	return c
}

// SetHeader replaces all values for name with value.
func (c *Client) SetHeader(name, value string) *Client {
	c.headers.set(name, value)
	return c
}

// AddAuthorizationHeader sets the Authorization header to a bearer
// credential taken from token.
func (c *Client) AddAuthorizationHeader(token *oauth.Token) *Client {
	return c.SetHeader("Authorization", "Bearer "+token.AccessToken())
}

// BuildQuery encodes the accumulated parameters as a form-encoded query
// string: names in insertion order, each value its own name=value
// segment, with "&" only between distinct names. Same-name repeats are
// emitted back to back with no separator; this format is a wire contract
// with the receiving API. Returns the empty string when no parameters
// are set.
//
// Names and values are UTF-8 form encoded, which cannot fail.
func (c *Client) BuildQuery() string {
	if c.parameters.empty() {
		return ""
	}

	var sb strings.Builder
	for i, name := range c.parameters.names {
		if i > 0 {
			sb.WriteByte('&')
		}
		for _, value := range c.parameters.get(name) {
			sb.WriteString(url.QueryEscape(name))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(value))
		}
	}
	return sb.String()
}

// Get sends a GET request using the parameters and headers previously
// set. The query string is appended to the endpoint URL.
func (c *Client) Get(ctx context.Context) (*Response, error) {
	req := &transport.Request{
		Method:  http.MethodGet,
		FullURL: c.cfg.URL + "?" + c.BuildQuery(),
		Headers: c.headerValues(),
	}
	return c.do(ctx, "Client.Get", req)
}

// Post sends a POST request whose body is the form-encoded accumulated
// parameters, i.e. the same encoding Get puts in the query string.
func (c *Client) Post(ctx context.Context) (*Response, error) {
	return c.post(ctx, "Client.Post", c.BuildQuery())
}

// PostBody sends a POST request with the given literal body. An empty
// body string sends no body; headers are still sent.
func (c *Client) PostBody(ctx context.Context, body string) (*Response, error) {
	return c.post(ctx, "Client.PostBody", body)
}

func (c *Client) post(ctx context.Context, op, body string) (*Response, error) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := &transport.Request{
		Method:  http.MethodPost,
		FullURL: c.cfg.URL,
		Headers: c.headerValues(),
		Body:    r,
	}
	return c.do(ctx, op, req)
}

func (c *Client) do(ctx context.Context, op string, req *transport.Request) (*Response, error) {
	client, err := c.httpClient(op)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		kind := sdkerr.ErrRequestFailed
		var relErr *httpx.ReleaseError
		if errors.As(err, &relErr) {
			kind = sdkerr.ErrReleaseFailed
		}
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp(op).
			WithKind(kind).
			WithCause(err)
	}

	apiResp, err := buildResponse(resp)
	if err != nil {
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp(op).
			WithKind(sdkerr.ErrAPIError).
			WithCause(err)
	}
	return apiResp, nil
}

func (c *Client) httpClient(op string) (transport.HTTPClient, error) {
	if c.client != nil {
		return c.client, nil
	}
	client, err := httpx.NewClient(c.cfg.transportOptions())
	if err != nil {
		return nil, sdkerr.NewSDKError().
			WithSubsys(subsys).
			WithOp(op).
			WithKind(sdkerr.ErrConfiguration).
			WithCause(err)
	}
	return client, nil
}

// headerValues snapshots the header multimap. Keys keep their stored
// spelling; canonicalization is left to the transport.
func (c *Client) headerValues() http.Header {
	h := make(http.Header, len(c.headers.names))
	for _, name := range c.headers.names {
		h[name] = append([]string(nil), c.headers.get(name)...)
	}
	return h
}
