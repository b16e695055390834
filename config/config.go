package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Sources   SourcesConfig
	Matching  MatchingConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourcesConfig holds the tabular source URLs and provider settings
type SourcesConfig struct {
	// CatalogURL is the published-CSV sheet enumerating known instruments
	CatalogURL string `mapstructure:"catalog_url"`
	// Offers maps provider id -> published-CSV offer sheet URL
	Offers map[string]string `mapstructure:"offers"`
	// ProviderPriority is the dedup traversal order; first listed wins
	ProviderPriority []string `mapstructure:"provider_priority"`
	// VariantNoteProviders are providers whose variant restrictions are
	// surfaced as a user-visible note
	VariantNoteProviders []string      `mapstructure:"variant_note_providers"`
	FetchTimeout         time.Duration `mapstructure:"fetch_timeout"`
	FetchesPerMinute     int           `mapstructure:"fetches_per_minute"`
}

// MatchingConfig holds fuzzy-matching configuration
type MatchingConfig struct {
	RelevanceThreshold float64 `mapstructure:"relevance_threshold"`
	SuggestionLimit    int     `mapstructure:"suggestion_limit"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/offerdeck/")

	v.SetEnvPrefix("OFFERDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("sources.catalog_url", "")
	v.SetDefault("sources.offers.swiggy", "")
	v.SetDefault("sources.offers.zomato", "")
	v.SetDefault("sources.offers.eazydiner", "")
	v.SetDefault("sources.offers.magicpin", "")
	v.SetDefault("sources.offers.district", "")
	v.SetDefault("sources.provider_priority", []string{
		"swiggy", "zomato", "eazydiner", "magicpin", "district",
	})
	v.SetDefault("sources.variant_note_providers", []string{"swiggy", "zomato"})
	v.SetDefault("sources.fetch_timeout", "30s")
	v.SetDefault("sources.fetches_per_minute", 60)

	v.SetDefault("matching.relevance_threshold", 30.0)
	v.SetDefault("matching.suggestion_limit", 20)

	v.SetDefault("cache.ttl", "15m")

	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Sources.CatalogURL == "" {
		return fmt.Errorf("catalog source URL is required (set OFFERDECK_SOURCES_CATALOG_URL)")
	}

	if config.Matching.RelevanceThreshold < 0 || config.Matching.RelevanceThreshold > 100 {
		return fmt.Errorf("matching.relevance_threshold must be within [0, 100], got: %v",
			config.Matching.RelevanceThreshold)
	}

	if config.Matching.SuggestionLimit < 1 {
		return fmt.Errorf("matching.suggestion_limit must be positive, got: %d",
			config.Matching.SuggestionLimit)
	}

	return nil
}
