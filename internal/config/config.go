// Package config loads service configuration from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service and CLI.
type Config struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// Gemini
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	// GeminiModel pins every model tier to one model when set.
	GeminiModel string `mapstructure:"gemini_model"`

	// Enrichment provider
	ClayWebhookURL  string        `mapstructure:"clay_webhook_url" validate:"omitempty,url"`
	ClayAPIKey      string        `mapstructure:"clay_api_key"`
	CallbackBaseURL string        `mapstructure:"callback_base_url" validate:"required,url"`
	CallbackSecret  string        `mapstructure:"clay_callback_secret"`
	ProviderTimeout time.Duration `mapstructure:"enrich_provider_timeout" validate:"min=0"`

	// Correlation store
	RetentionWindow time.Duration `mapstructure:"enrich_retention" validate:"min=1s"`
	RedisURL        string        `mapstructure:"redis_url" validate:"omitempty,url"`
	HistorySize     int           `mapstructure:"history_size" validate:"min=1"`

	// Logging
	LogLevel  string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=json console"`
}

var defaults = map[string]any{
	"port":                    8080,
	"gemini_api_key":          "",
	"gemini_model":            "",
	"clay_webhook_url":        "",
	"clay_api_key":            "",
	"callback_base_url":       "http://localhost:3000",
	"clay_callback_secret":    "",
	"enrich_provider_timeout": "0s",
	"enrich_retention":        "30m",
	"redis_url":               "",
	"history_size":            20,
	"log_level":               "info",
	"log_format":              "console",
}

var validate = validator.New()

// Load reads configuration. Environment variables (PORT, GEMINI_API_KEY,
// CLAY_WEBHOOK_URL, ...) override values from the file at path; path may be
// empty, in which case only the environment and defaults are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDerived fills values that depend on other settings.
func (c *Config) applyDerived() {
	if host := strings.TrimSpace(os.Getenv("VERCEL_URL")); host != "" {
		c.CallbackBaseURL = "https://" + host
	}
	c.CallbackBaseURL = strings.TrimRight(c.CallbackBaseURL, "/")
	if c.CallbackSecret == "" {
		c.CallbackSecret = c.ClayAPIKey
	}
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			parts := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(parts, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// CallbackURL is the absolute URL the provider posts results to.
func (c *Config) CallbackURL() string {
	return c.CallbackBaseURL + "/api/clay-callback"
}

// ProviderEnabled reports whether a provider webhook is configured.
func (c *Config) ProviderEnabled() bool {
	return c.ClayWebhookURL != ""
}
