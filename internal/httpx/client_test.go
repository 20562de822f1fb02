package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/restforge/rest-sdk-go/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Client_Do(t *testing.T) {
	expectedBody := []byte(`{"ok": true}`)
	expectedStatus := 200
	expectedHeader := http.Header{"Content-Type": []string{"application/json"}}
	expectedMethod := http.MethodPost
	expectedURL := "https://fake.com/test"
	expectedCustomHeader := "X-Test"
	expectedCustomHeaderValue := "123"

	client := &fakeHttpDoer{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, expectedMethod, req.Method)
			assert.Equal(t, expectedURL, req.URL.String())
			assert.Equal(t, expectedCustomHeaderValue, req.Header.Get(expectedCustomHeader))

			return &http.Response{
				StatusCode: expectedStatus,
				Header:     expectedHeader,
				Body:       io.NopCloser(bytes.NewReader(expectedBody)),
			}, nil
		},
	}

	executor := Client{client: client}

	req := &transport.Request{
		Method:  expectedMethod,
		FullURL: expectedURL,
		Headers: http.Header{expectedCustomHeader: []string{expectedCustomHeaderValue}},
	}

	resp, err := executor.Do(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, expectedBody, resp.Body)
	assert.Equal(t, expectedStatus, resp.StatusCode)
	assert.Equal(t, expectedHeader, resp.Headers)
}

func Test_Client_Do_BodyReadFailure(t *testing.T) {
	readErr := errors.New("unexpected EOF")
	client := &fakeHttpDoer{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Body:       io.NopCloser(&failingReader{err: readErr}),
			}, nil
		},
	}
	executor := Client{client: client}

	_, err := executor.Do(context.Background(), &transport.Request{Method: http.MethodGet, FullURL: "http://fake.com"})

	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)

	var relErr *ReleaseError
	assert.False(t, errors.As(err, &relErr), "read failure is a transport fault, not a release failure")
}

func Test_Client_Do_ReleaseFailure(t *testing.T) {
	closeErr := errors.New("close: broken pipe")
	client := &fakeHttpDoer{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: 200,
				Body:       &failingCloser{Reader: bytes.NewReader([]byte("payload")), err: closeErr},
			}, nil
		},
	}
	executor := Client{client: client}

	_, err := executor.Do(context.Background(), &transport.Request{Method: http.MethodGet, FullURL: "http://fake.com"})

	require.Error(t, err)
	var relErr *ReleaseError
	require.ErrorAs(t, err, &relErr)
	assert.ErrorIs(t, relErr, closeErr)
}

func Test_NewClient_Proxy(t *testing.T) {
	sample, err := http.NewRequest(http.MethodGet, "https://api.example.com/", nil)
	require.NoError(t, err)

	t.Run("host and port configured", func(t *testing.T) {
		c, err := NewClient(transport.Options{ProxyHost: "proxy.local", ProxyPort: 8080})
		require.NoError(t, err)

		tr := clientTransport(t, c)
		require.NotNil(t, tr.Proxy)
		proxyURL, err := tr.Proxy(sample)
		require.NoError(t, err)
		assert.Equal(t, "http://proxy.local:8080", proxyURL.String())
	})

	t.Run("sentinel port disables the proxy", func(t *testing.T) {
		c, err := NewClient(transport.Options{ProxyHost: "proxy.local", ProxyPort: transport.NoProxyPort})
		require.NoError(t, err)
		assert.Nil(t, clientTransport(t, c).Proxy)
	})

	t.Run("no host disables the proxy", func(t *testing.T) {
		c, err := NewClient(transport.Options{ProxyPort: 8080})
		require.NoError(t, err)
		assert.Nil(t, clientTransport(t, c).Proxy)
	})
}

func Test_NewClient_TrustAllCerts(t *testing.T) {
	t.Run("off by default", func(t *testing.T) {
		c := NewDefaultClient()
		assert.Nil(t, clientTransport(t, c).TLSClientConfig)
	})

	t.Run("enabled skips verification", func(t *testing.T) {
		c, err := NewClient(transport.Options{ProxyPort: transport.NoProxyPort, TrustAllCerts: true})
		require.NoError(t, err)

		cfg := clientTransport(t, c).TLSClientConfig
		require.NotNil(t, cfg)
		assert.True(t, cfg.InsecureSkipVerify)
	})
}

func Test_Client_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer srv.Close()

	req := &transport.Request{Method: http.MethodGet, FullURL: srv.URL}

	t.Run("self-signed certificate accepted in trust-all mode", func(t *testing.T) {
		c, err := NewClient(transport.Options{ProxyPort: transport.NoProxyPort, TrustAllCerts: true})
		require.NoError(t, err)

		resp, err := c.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, []byte("secure"), resp.Body)
	})

	t.Run("self-signed certificate rejected otherwise", func(t *testing.T) {
		c := NewDefaultClient()

		_, err := c.Do(context.Background(), req)
		assert.Error(t, err)
	})
}

func Test_Client_RedirectsNotFollowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/moved" {
			t.Error("redirect was followed")
		}
		w.Header().Set("Location", "/moved")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	c := NewDefaultClient()
	resp, err := c.Do(context.Background(), &transport.Request{Method: http.MethodGet, FullURL: srv.URL})

	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/moved", resp.Headers.Get("Location"))
}

func clientTransport(t *testing.T, c *Client) *http.Transport {
	t.Helper()
	stdClient, ok := c.client.(*http.Client)
	require.True(t, ok)
	tr, ok := stdClient.Transport.(*http.Transport)
	require.True(t, ok)
	return tr
}

type fakeHttpDoer struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (f *fakeHttpDoer) Do(req *http.Request) (*http.Response, error) {
	return f.DoFunc(req)
}

var _ httpDoer = (*fakeHttpDoer)(nil)

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failingCloser struct {
	io.Reader
	err error
}

func (c *failingCloser) Close() error {
	return c.err
}
