package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("OFFERDECK_SERVER_PORT")
		os.Unsetenv("OFFERDECK_SERVER_ENVIRONMENT")
		os.Unsetenv("OFFERDECK_SOURCES_CATALOG_URL")
		os.Unsetenv("OFFERDECK_SOURCES_OFFERS_SWIGGY")
		os.Unsetenv("OFFERDECK_SOURCES_FETCH_TIMEOUT")
		os.Unsetenv("OFFERDECK_MATCHING_RELEVANCE_THRESHOLD")
		os.Unsetenv("OFFERDECK_MATCHING_SUGGESTION_LIMIT")
		os.Unsetenv("OFFERDECK_CACHE_TTL")
		os.Unsetenv("OFFERDECK_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required catalog URL
		os.Setenv("OFFERDECK_SOURCES_CATALOG_URL", "https://sheets.test/catalog")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Sources.ProviderPriority) != 5 || cfg.Sources.ProviderPriority[0] != "swiggy" {
			t.Errorf("Sources.ProviderPriority = %v, want swiggy first of five", cfg.Sources.ProviderPriority)
		}
		if cfg.Sources.FetchTimeout != 30*time.Second {
			t.Errorf("Sources.FetchTimeout = %v, want 30s", cfg.Sources.FetchTimeout)
		}
		if cfg.Sources.FetchesPerMinute != 60 {
			t.Errorf("Sources.FetchesPerMinute = %d, want 60", cfg.Sources.FetchesPerMinute)
		}
		if cfg.Matching.RelevanceThreshold != 30.0 {
			t.Errorf("Matching.RelevanceThreshold = %v, want 30", cfg.Matching.RelevanceThreshold)
		}
		if cfg.Matching.SuggestionLimit != 20 {
			t.Errorf("Matching.SuggestionLimit = %d, want 20", cfg.Matching.SuggestionLimit)
		}
		if cfg.Cache.TTL != 15*time.Minute {
			t.Errorf("Cache.TTL = %v, want 15m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("OFFERDECK_SERVER_PORT", "9090")
		os.Setenv("OFFERDECK_SERVER_ENVIRONMENT", "production")
		os.Setenv("OFFERDECK_SOURCES_CATALOG_URL", "https://sheets.test/catalog")
		os.Setenv("OFFERDECK_SOURCES_OFFERS_SWIGGY", "https://sheets.test/swiggy")
		os.Setenv("OFFERDECK_SOURCES_FETCH_TIMEOUT", "10s")
		os.Setenv("OFFERDECK_MATCHING_RELEVANCE_THRESHOLD", "45")
		os.Setenv("OFFERDECK_MATCHING_SUGGESTION_LIMIT", "10")
		os.Setenv("OFFERDECK_CACHE_TTL", "1h")
		os.Setenv("OFFERDECK_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Sources.CatalogURL != "https://sheets.test/catalog" {
			t.Errorf("Sources.CatalogURL = %s, want https://sheets.test/catalog", cfg.Sources.CatalogURL)
		}
		if cfg.Sources.Offers["swiggy"] != "https://sheets.test/swiggy" {
			t.Errorf("Sources.Offers[swiggy] = %s, want https://sheets.test/swiggy", cfg.Sources.Offers["swiggy"])
		}
		if cfg.Sources.FetchTimeout != 10*time.Second {
			t.Errorf("Sources.FetchTimeout = %v, want 10s", cfg.Sources.FetchTimeout)
		}
		if cfg.Matching.RelevanceThreshold != 45.0 {
			t.Errorf("Matching.RelevanceThreshold = %v, want 45", cfg.Matching.RelevanceThreshold)
		}
		if cfg.Matching.SuggestionLimit != 10 {
			t.Errorf("Matching.SuggestionLimit = %d, want 10", cfg.Matching.SuggestionLimit)
		}
		if cfg.Cache.TTL != 1*time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation when catalog URL is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing catalog URL")
		}
	})

	t.Run("fails validation for out-of-range threshold", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("OFFERDECK_SOURCES_CATALOG_URL", "https://sheets.test/catalog")
		os.Setenv("OFFERDECK_MATCHING_RELEVANCE_THRESHOLD", "150")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for threshold above 100")
		}
	})
}

func TestValidate(t *testing.T) {
	validConfig := func() *Config {
		return &Config{
			Sources: SourcesConfig{
				CatalogURL: "https://sheets.test/catalog",
			},
			Matching: MatchingConfig{
				RelevanceThreshold: 30,
				SuggestionLimit:    20,
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when catalog URL is empty", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sources.CatalogURL = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty catalog URL")
		}
	})

	t.Run("fails for negative threshold", func(t *testing.T) {
		cfg := validConfig()
		cfg.Matching.RelevanceThreshold = -1
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative threshold")
		}
	})

	t.Run("fails for non-positive suggestion limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Matching.SuggestionLimit = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero suggestion limit")
		}
	})
}
