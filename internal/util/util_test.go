package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "internal.example")

	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "en.wikipedia.org"}}
	got, err := proxy(req)
	if err != nil {
		t.Fatalf("proxy failed: %v", err)
	}
	if got == nil || got.Host != "proxy.local:3128" {
		t.Errorf("expected HTTP proxy to serve https too, got %v", got)
	}

	req = &http.Request{URL: &url.URL{Scheme: "https", Host: "internal.example"}}
	if got, _ := proxy(req); got != nil {
		t.Errorf("expected no proxy for excluded host, got %v", got)
	}
}

func TestNewProxyFunc_SeparateSchemes(t *testing.T) {
	proxy := NewProxyFunc("http://plain.local:80", "http://secure.local:443", "")

	got, _ := proxy(&http.Request{URL: &url.URL{Scheme: "https", Host: "en.wikipedia.org"}})
	if got == nil || got.Host != "secure.local:443" {
		t.Errorf("expected https proxy, got %v", got)
	}
	got, _ = proxy(&http.Request{URL: &url.URL{Scheme: "http", Host: "en.wikipedia.org"}})
	if got == nil || got.Host != "plain.local:80" {
		t.Errorf("expected http proxy, got %v", got)
	}
}

func TestRobotsChecker(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&fetches, 1)
		_, _ = w.Write([]byte("User-agent: geolore\nDisallow: /private/\nCrawl-delay: 2\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "geolore/1.0 (+https://example.org)", nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/w/api.php")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected /w/api.php to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("expected 2s crawl delay, got %v", delay)
	}

	allowed, _, _ = checker.CanFetch(ctx, server.URL+"/private/page")
	if allowed {
		t.Error("expected /private/ to be disallowed")
	}

	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("expected robots.txt to be fetched once, got %d", n)
	}
}

func TestRobotsChecker_Unreachable(t *testing.T) {
	checker := NewRobotsChecker(&http.Client{Timeout: 100 * time.Millisecond}, "geolore", nil)
	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/w/api.php")
	if err != nil || !allowed {
		t.Errorf("expected unreachable robots.txt to allow, got allowed=%v err=%v", allowed, err)
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"geolore/0.3 (+https://github.com/ppiankov/geolore)", "geolore"},
		{"curl", "curl"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeUserAgent(c.in); got != c.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
