package domain

import "errors"

var (
	// ErrNoCatalogMatch is returned when a query scores below the relevance
	// threshold against every catalog entry
	ErrNoCatalogMatch = errors.New("no matching instrument in catalog")

	// ErrCatalogUnavailable is returned when no source contributed any
	// catalog entries
	ErrCatalogUnavailable = errors.New("instrument catalog unavailable")

	// ErrSourceFetchFailure is returned when a tabular source fails to
	// fetch or parse
	ErrSourceFetchFailure = errors.New("source fetch failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
