package ports

import (
	"context"
	"time"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// ReferenceRepository reads the read-only taxonomy and county tables.
type ReferenceRepository interface {
	ListServiceCategories(ctx context.Context) ([]domain.ServiceCategory, error)
	ListCounties(ctx context.Context) ([]domain.County, error)
}

// Cache stores JSON-serialisable values by key.
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
