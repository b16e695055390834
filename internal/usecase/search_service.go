package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/offerdeck/backend/internal/domain"
)

// SearchConfig holds configuration for the search service
type SearchConfig struct {
	CatalogURL string
	OfferURLs  map[domain.Provider]string
	CacheTTL   time.Duration
}

// SearchService owns the loaded catalog and offer tables and answers
// suggestion and offer queries against them. Loaded state is write-once
// per load generation: LoadSources swaps in a complete snapshot under the
// lock, readers only ever see a settled generation.
type SearchService struct {
	mu         sync.RWMutex
	catalog    *domain.Catalog
	offers     map[domain.Provider][]domain.OfferRow
	generation uint64

	source     domain.RowSource
	cache      domain.CacheRepository
	matcher    *MatcherService
	catalogSvc *CatalogService
	offerSvc   *OfferService
	config     SearchConfig
	log        *logrus.Logger
}

// NewSearchService wires the search service with its dependencies
func NewSearchService(
	source domain.RowSource,
	cache domain.CacheRepository,
	matcher *MatcherService,
	catalogSvc *CatalogService,
	offerSvc *OfferService,
	config SearchConfig,
	logger *logrus.Logger,
) *SearchService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 15 * time.Minute
	}
	return &SearchService{
		catalog:    domain.NewCatalog(),
		offers:     make(map[domain.Provider][]domain.OfferRow),
		source:     source,
		cache:      cache,
		matcher:    matcher,
		catalogSvc: catalogSvc,
		offerSvc:   offerSvc,
		config:     config,
		log:        logger,
	}
}

// sourceResult carries one source load outcome back from its goroutine
type sourceResult struct {
	provider domain.Provider // "" for the catalog source
	rows     []map[string]string
	err      error
}

// LoadSources fetches the catalog sheet and every provider sheet
// concurrently. The phase settles when every fetch has finished, success
// or failure; a failed source contributes an empty row set and a warning,
// never an abort. The built state replaces the previous generation
// atomically.
func (s *SearchService) LoadSources(ctx context.Context) error {
	urls := make(map[domain.Provider]string, len(s.config.OfferURLs)+1)
	urls[""] = s.config.CatalogURL
	for provider, url := range s.config.OfferURLs {
		urls[provider] = url
	}

	results := make(chan sourceResult, len(urls))
	var wg sync.WaitGroup
	for provider, url := range urls {
		if url == "" {
			continue
		}
		wg.Add(1)
		go func(provider domain.Provider, url string) {
			defer wg.Done()
			rows, err := s.source.FetchRows(ctx, url)
			results <- sourceResult{provider: provider, rows: rows, err: err}
		}(provider, url)
	}
	wg.Wait()
	close(results)

	var catalogRows []map[string]string
	offers := make(map[domain.Provider][]domain.OfferRow)
	failed := 0
	for res := range results {
		if res.err != nil {
			failed++
			s.log.WithError(res.err).WithField("provider", string(res.provider)).
				Warn("Source load failed, continuing without it")
			continue
		}
		if res.provider == "" {
			catalogRows = res.rows
			continue
		}
		offers[res.provider] = s.offerSvc.ParseRows(res.provider, res.rows)
	}

	catalog := s.catalogSvc.Build(catalogRows)

	s.mu.Lock()
	s.catalog = catalog
	s.offers = offers
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"generation": generation,
		"entries":    catalog.Size(),
		"providers":  len(offers),
		"failed":     failed,
	}).Info("Source load settled")

	if catalog.Empty() {
		return domain.ErrCatalogUnavailable
	}
	return nil
}

// Generation returns the current load generation. Results computed
// against an older generation are stale and must not be surfaced.
func (s *SearchService) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Ready reports whether at least one load has produced a usable catalog
func (s *SearchService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.catalog.Empty()
}

// snapshot returns the current catalog, offer tables and generation
func (s *SearchService) snapshot() (*domain.Catalog, map[domain.Provider][]domain.OfferRow, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.offers, s.generation
}

// Suggest returns ranked, type-grouped suggestions for the query.
// Results are cached per (generation, normalized query), so a reload
// naturally invalidates every cached suggestion list.
func (s *SearchService) Suggest(ctx context.Context, query string) ([]domain.SuggestionGroup, error) {
	if Normalize(query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	catalog, _, generation := s.snapshot()
	if catalog.Empty() {
		return nil, domain.ErrCatalogUnavailable
	}

	cacheKey := fmt.Sprintf("suggest:%d:%s", generation, Normalize(query))
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			if groups, ok := cached.([]domain.SuggestionGroup); ok {
				return groups, nil
			}
		}
	}

	groups := s.matcher.Suggest(query, catalog)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, groups, s.config.CacheTTL); err != nil {
			s.log.WithError(err).Debug("Suggestion cache write failed")
		}
	}
	return groups, nil
}

// OfferQuery identifies the instrument to search offers for: either a
// committed catalog entry (BaseNorm+Type) or raw query text to resolve
// with the scorer.
type OfferQuery struct {
	Query    string
	BaseNorm string
	Type     domain.InstrumentType
}

// Offers resolves the queried instrument and returns its deduplicated,
// provider-grouped offers with the tri-state outcome. A reload landing
// mid-computation bumps the generation; the stale pass is retried against
// the fresh snapshot so a late result can never clobber newer state.
func (s *SearchService) Offers(ctx context.Context, q OfferQuery) (domain.ResultState, domain.CatalogEntry, []domain.ProviderOffers, error) {
	for {
		catalog, offers, generation := s.snapshot()
		if catalog.Empty() {
			return "", domain.CatalogEntry{}, nil, domain.ErrCatalogUnavailable
		}

		selected, state, err := s.resolveSelection(catalog, q)
		if err != nil {
			return state, domain.CatalogEntry{}, nil, err
		}

		groups := s.offerSvc.MatchAll(selected, offers)

		if s.Generation() != generation {
			s.log.WithField("generation", generation).Debug("Discarding stale offer result")
			continue
		}

		if len(groups) == 0 {
			return domain.ResultNoOffers, selected, nil, nil
		}
		return domain.ResultMatched, selected, groups, nil
	}
}

// resolveSelection turns an OfferQuery into a concrete catalog entry
func (s *SearchService) resolveSelection(catalog *domain.Catalog, q OfferQuery) (domain.CatalogEntry, domain.ResultState, error) {
	if q.BaseNorm != "" {
		if !q.Type.Valid() {
			return domain.CatalogEntry{}, "", domain.ErrInvalidRequest
		}
		if entry, ok := catalog.Lookup(q.BaseNorm, q.Type); ok {
			return entry, "", nil
		}
		return domain.CatalogEntry{}, domain.ResultNoInstrument, domain.ErrNoCatalogMatch
	}

	entry, _, err := s.matcher.ResolveBest(q.Query, catalog)
	if err != nil {
		if errors.Is(err, domain.ErrNoCatalogMatch) {
			return domain.CatalogEntry{}, domain.ResultNoInstrument, err
		}
		return domain.CatalogEntry{}, "", err
	}
	return entry, "", nil
}
