package rest

import "github.com/restforge/rest-sdk-go/transport"

// NoProxyPort is the sentinel proxy port meaning "no proxy configured".
const NoProxyPort = transport.NoProxyPort

// Config describes a target endpoint: the URL requests are sent to, an
// optional HTTP proxy, and whether to trust any server certificate.
//
// TrustAllCerts disables TLS certificate and hostname verification
// entirely. It is intended for test and sandbox use only and must never
// be enabled in production configurations.
type Config struct {
	URL           string
	ProxyHost     string
	ProxyPort     int
	TrustAllCerts bool
}

// NewConfig returns a Config for the given URL with no proxy and
// certificate verification left on.
func NewConfig(url string) Config {
	return Config{URL: url, ProxyPort: NoProxyPort}
}

// NewProxiedConfig returns a Config for the given URL that routes all
// requests through the given HTTP proxy.
func NewProxiedConfig(url, proxyHost string, proxyPort int) Config {
	return Config{URL: url, ProxyHost: proxyHost, ProxyPort: proxyPort}
}

func (c Config) transportOptions() transport.Options {
	return transport.Options{
		ProxyHost:     c.ProxyHost,
		ProxyPort:     c.ProxyPort,
		TrustAllCerts: c.TrustAllCerts,
	}
}
