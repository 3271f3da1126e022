package ratelimit

import (
	"time"

	"github.com/jonathan/applicant-screener/internal/config"
)

// EndpointConfig is the budget for one route.
type EndpointConfig struct {
	Path   string // exact path, or a prefix when it ends with "/"
	Method string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromServerConfig builds the limiter configuration for the API server.
// Unmatched endpoints share RequestsPerMinute per client.
func FromServerConfig(cfg config.ServerConfig) *Config {
	return &Config{
		Enabled:         cfg.RateLimitEnabled,
		DefaultLimit:    cfg.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route budgets. Document parsing and
// posting import do real I/O and get the strictest limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/jobs/import", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/documents/parse", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/evaluate", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/recommendations", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
	}
}
