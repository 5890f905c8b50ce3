package model

import "time"

// DefaultUserAgent identifies geolore to the encyclopedia API (which requires one)
const DefaultUserAgent = "geolore/0.3 (+https://github.com/ppiankov/geolore)"

// Config is the complete geolore configuration
type Config struct {
	Wiki     WikiConfig     `yaml:"wiki" mapstructure:"wiki"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Events   EventsConfig   `yaml:"events" mapstructure:"events"`
	Fallback FallbackConfig `yaml:"fallback" mapstructure:"fallback"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Describe DescribeConfig `yaml:"describe" mapstructure:"describe"`
	LogLevel string         `yaml:"log_level" mapstructure:"log_level"`
}

// WikiConfig configures the encyclopedia HTTP client
type WikiConfig struct {
	BaseURL           string             `yaml:"base_url" mapstructure:"base_url"`           // Action API host, e.g. https://en.wikipedia.org
	RESTBaseURL       string             `yaml:"rest_base_url" mapstructure:"rest_base_url"` // REST feed host (defaults to BaseURL)
	UserAgent         string             `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration      `yaml:"timeout" mapstructure:"timeout"`
	ThumbSize         int                `yaml:"thumb_size" mapstructure:"thumb_size"`
	MaxBodyBytes      int64              `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64            `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int                `yaml:"burst" mapstructure:"burst"`
	HostRates         map[string]float64 `yaml:"host_rates,omitempty" mapstructure:"host_rates"` // Per-host requests/second overrides, keyed by host[:port]
	RespectRobots     bool               `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy         string             `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string             `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// ResolverConfig configures article resolution
type ResolverConfig struct {
	MaxStats int `yaml:"max_stats" mapstructure:"max_stats"` // Stats kept per resolved article
}

// EventsConfig configures the historical event normalizer
type EventsConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // Concurrent coordinate lookups
}

// FallbackConfig configures geometry-property stats for unresolved features
type FallbackConfig struct {
	MaxStats     int `yaml:"max_stats" mapstructure:"max_stats"`           // Stats returned by the fallback endpoint
	CardMaxStats int `yaml:"card_max_stats" mapstructure:"card_max_stats"` // Stats on an entity card when no article matched, at most 3
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// DescribeConfig configures placeholder descriptions for unresolved features
type DescribeConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "" (templates) or "openai"
	Model    string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey   string `yaml:"-" mapstructure:"api_key"` // Never written to config files
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Wiki: WikiConfig{
			BaseURL:           "https://en.wikipedia.org",
			UserAgent:         DefaultUserAgent,
			Timeout:           15 * time.Second,
			ThumbSize:         800,
			MaxBodyBytes:      4 << 20,
			RequestsPerSecond: 10,
			Burst:             10,
		},
		Resolver: ResolverConfig{MaxStats: 12},
		Events:   EventsConfig{Workers: 16},
		Fallback: FallbackConfig{MaxStats: 3, CardMaxStats: 3},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Describe: DescribeConfig{Model: "gpt-4o-mini"},
		LogLevel: "info",
	}
}
