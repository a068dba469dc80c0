package fetcher

import (
	"context"

	"gammascope/pkg/csfloat"
	"gammascope/pkg/models"
)

// LookupClient defines the remote operations the fetcher needs
type LookupClient interface {
	Lookup(ctx context.Context, sig, inspect string) (*csfloat.ScreenshotResponse, error)
	ImageURL(path string) string
}

// CacheStore persists the lookup cache
type CacheStore interface {
	Load() (models.Cache, error)
	Save(models.Cache) error
}

// FailedStore persists the failed id list
type FailedStore interface {
	Save(ids []string) error
}
