package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method; empty matches any method
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables.
func LoadConfig() *Config {
	v := viper.New()
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_default_limit", 300)
	v.SetDefault("rate_limit_default_window", time.Minute)
	v.SetDefault("rate_limit_cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit_whitelist", "")
	v.SetDefault("rate_limit_blacklist", "")
	v.AutomaticEnv()

	if !v.GetBool("rate_limit_enabled") {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt("rate_limit_default_limit"),
		DefaultWindow:   v.GetDuration("rate_limit_default_window"),
		CleanupInterval: v.GetDuration("rate_limit_cleanup_interval"),
		Whitelist:       parseIPList(v.GetString("rate_limit_whitelist")),
		Blacklist:       parseIPList(v.GetString("rate_limit_blacklist")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls (strictest limits)
		{Path: "/api/agent", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/summarize", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Enrichment triggers may reach the provider or the model
		{Path: "/api/enrich", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},

		// Polling runs every few seconds per pending job
		{Path: "/api/enrich/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 30},

		// Provider webhooks must never be throttled
		{Path: "/api/clay-callback", Limit: 0},
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/metrics", Method: "GET", Limit: 0},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
