package config

import (
	"fmt"
	"os"
	"time"

	"eduhub/models"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort         = 3000
	DefaultFeedLimit    = 5
	DefaultTimeoutMs    = 10000
	DefaultRetries      = 2
	DefaultRetryDelayMs = 200
)

// TomlServer represents HTTP server configuration from TOML
type TomlServer struct {
	Port          int    `toml:"port"`
	CorsOrigins   string `toml:"cors_origins"`
	SearchDelayMs int    `toml:"search_delay_ms"`
	CacheSeconds  int    `toml:"cache_seconds"`
}

// TomlProvider represents one social media provider
type TomlProvider struct {
	Platform     string            `toml:"platform"`
	Endpoint     string            `toml:"endpoint,omitempty"` // {items: [...]} endpoint
	Host         string            `toml:"host,omitempty"`     // Bluesky AppView host
	Actor        string            `toml:"actor,omitempty"`    // Bluesky handle or DID
	Headers      map[string]string `toml:"headers,omitempty"`
	TimeoutMs    int               `toml:"timeout_ms,omitempty"`
	Retries      *int              `toml:"retries,omitempty"`
	RetryDelayMs int               `toml:"retry_delay_ms,omitempty"`
}

// TomlSocial holds the feed aggregator configuration
type TomlSocial struct {
	DefaultLimit int            `toml:"default_limit"`
	Languages    []string       `toml:"languages,omitempty"`
	Providers    []TomlProvider `toml:"providers"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Catalog string     `toml:"catalog"` // Path to a TOML catalog, empty to read from the database
	Server  TomlServer `toml:"server"`
	Social  TomlSocial `toml:"social"`
}

func (s TomlServer) SearchDelay() time.Duration {
	return time.Duration(s.SearchDelayMs) * time.Millisecond
}

func (p TomlProvider) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

func (p TomlProvider) RetryDelay() time.Duration {
	return time.Duration(p.RetryDelayMs) * time.Millisecond
}

func (p TomlProvider) RetryCount() int {
	if p.Retries == nil {
		return DefaultRetries
	}
	return *p.Retries
}

func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &config, nil
}

func (c *TomlConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Social.DefaultLimit <= 0 {
		c.Social.DefaultLimit = DefaultFeedLimit
	}
	for i := range c.Social.Providers {
		p := &c.Social.Providers[i]
		if p.TimeoutMs <= 0 {
			p.TimeoutMs = DefaultTimeoutMs
		}
		if p.RetryDelayMs <= 0 {
			p.RetryDelayMs = DefaultRetryDelayMs
		}
	}
}

func (c *TomlConfig) validate() error {
	seen := map[string]bool{}
	for i, p := range c.Social.Providers {
		if p.Platform == "" {
			return fmt.Errorf("provider %d: platform is required", i)
		}
		if seen[p.Platform] {
			return fmt.Errorf("provider %s: configured twice", p.Platform)
		}
		seen[p.Platform] = true

		if models.Platform(p.Platform) == models.PlatformBluesky {
			if p.Actor == "" {
				return fmt.Errorf("provider %s: actor is required", p.Platform)
			}
			continue
		}
		if p.Endpoint == "" {
			return fmt.Errorf("provider %s: endpoint is required", p.Platform)
		}
	}
	if c.Server.SearchDelayMs < 0 {
		return fmt.Errorf("server.search_delay_ms must be non-negative")
	}
	return nil
}
