// Package wikiapi talks to a MediaWiki site: the action API for article
// summaries, lead markup and coordinates, and the REST feed for "on this
// day" events.
package wikiapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/geolore/internal/model"
	"github.com/ppiankov/geolore/internal/util"
	"github.com/ppiankov/geolore/internal/worker"
)

// ErrNotFound is returned when a title does not resolve to an existing page,
// or the page lacks the requested data.
var ErrNotFound = errors.New("not found")

// ErrDisallowed is returned when robots.txt forbids a request
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Client is a throttled MediaWiki client
type Client struct {
	httpClient *http.Client
	baseURL    string
	restURL    string
	userAgent  string
	thumbSize  int
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	logger     *slog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from the config
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter shares a rate limiter between clients
func WithLimiter(l *worker.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the client logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the wiki described by cfg
func New(cfg model.WikiConfig, opts ...Option) *Client {
	defaults := model.DefaultConfig().Wiki
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.RESTBaseURL == "" {
		cfg.RESTBaseURL = cfg.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.ThumbSize <= 0 {
		cfg.ThumbSize = defaults.ThumbSize
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		restURL:   strings.TrimRight(cfg.RESTBaseURL, "/"),
		userAgent: cfg.UserAgent,
		thumbSize: cfg.ThumbSize,
		maxBytes:  cfg.MaxBodyBytes,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if c.limiter == nil {
		c.limiter = worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}
	for host, rps := range cfg.HostRates {
		c.limiter.SetHostRate(host, rps, cfg.Burst)
	}
	if cfg.RespectRobots {
		c.robots = util.NewRobotsChecker(c.httpClient, c.userAgent, c.logger)
	}
	return c
}

// actionURL builds an action API URL; format=json is always added
func (c *Client) actionURL(params url.Values) string {
	params.Set("format", "json")
	return c.baseURL + "/w/api.php?" + params.Encode()
}

// getJSON performs a throttled GET and decodes the JSON body into v
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	var delay time.Duration
	if c.robots != nil {
		allowed, crawlDelay, err := c.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return fmt.Errorf("check robots: %w", err)
		}
		if !allowed {
			return ErrDisallowed
		}
		delay = crawlDelay
	}
	if err := c.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("wiki request", "url", rawURL, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
