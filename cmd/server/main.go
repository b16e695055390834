package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/offerdeck/backend/config"
	"github.com/offerdeck/backend/internal/delivery/http"
	"github.com/offerdeck/backend/internal/domain"
	"github.com/offerdeck/backend/internal/infrastructure/cache"
	"github.com/offerdeck/backend/internal/infrastructure/sheets"
	"github.com/offerdeck/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg.Server.Environment)
	log.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("Starting offerdeck-backend v1.0.0")

	// Infrastructure
	memoryCache := cache.NewMemoryCache()
	sheetClient := sheets.NewClient(cfg.Sources.FetchTimeout, cfg.Sources.FetchesPerMinute, log)

	// Usecase layer
	matcher := usecase.NewMatcherService(usecase.MatchConfig{
		RelevanceThreshold: cfg.Matching.RelevanceThreshold,
		SuggestionLimit:    cfg.Matching.SuggestionLimit,
	})
	catalogSvc := usecase.NewCatalogService(log)
	offerSvc := usecase.NewOfferService(usecase.OfferConfig{
		ProviderPriority:     toProviders(cfg.Sources.ProviderPriority),
		VariantNoteProviders: toProviders(cfg.Sources.VariantNoteProviders),
	}, log)

	searchSvc := usecase.NewSearchService(
		sheetClient,
		memoryCache,
		matcher,
		catalogSvc,
		offerSvc,
		usecase.SearchConfig{
			CatalogURL: cfg.Sources.CatalogURL,
			OfferURLs:  offerURLs(cfg.Sources.Offers),
			CacheTTL:   cfg.Cache.TTL,
		},
		log,
	)

	// Initial load runs in the background so the server comes up
	// immediately; endpoints answer 503 until the catalog settles
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := searchSvc.LoadSources(ctx); err != nil {
			log.WithError(err).Warn("Initial source load finished without a usable catalog")
		}
	}()

	handler := http.NewHandler(searchSvc)
	router := http.SetupRouter(cfg, handler, log)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.WithField("addr", addr).Info("Server listening")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newLogger configures logrus for the environment: JSON in production,
// colored text elsewhere
func newLogger(environment string) *logrus.Logger {
	log := logrus.New()
	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// toProviders converts configured provider ids to typed providers
func toProviders(ids []string) []domain.Provider {
	providers := make([]domain.Provider, 0, len(ids))
	for _, id := range ids {
		providers = append(providers, domain.Provider(id))
	}
	return providers
}

// offerURLs keeps only providers with a configured sheet URL
func offerURLs(offers map[string]string) map[domain.Provider]string {
	urls := make(map[domain.Provider]string, len(offers))
	for id, url := range offers {
		if url != "" {
			urls[domain.Provider(id)] = url
		}
	}
	return urls
}
