package domain

import (
	"context"
	"time"
)

// RowSource fetches one tabular source and yields its rows as string-keyed
// records. The dynamic mapping must not travel past the ingestion and
// alias-resolution step; callers project rows into typed structures
// immediately.
type RowSource interface {
	FetchRows(ctx context.Context, url string) ([]map[string]string, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
