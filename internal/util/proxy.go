package util

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// NewProxyFunc returns the transport proxy selector for the wiki client.
// Configured proxies take precedence; with none configured the usual
// HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment applies.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	cfg := httpproxy.FromEnvironment()
	if httpProxy != "" {
		cfg.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTPSProxy = httpsProxy
	} else {
		cfg.HTTPSProxy = httpProxy
	}
	if noProxy != "" {
		cfg.NoProxy = noProxy
	}

	pick := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return pick(req.URL)
	}
}
