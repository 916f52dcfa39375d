package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

const (
	defaultReferenceTTL = 10 * time.Minute

	keyServiceCategories = "reference:service_categories"
	keyCounties          = "reference:counties"
)

// ReferenceService serves read-only reference data through a cache. Cache
// failures fall back to the store.
type ReferenceService struct {
	repo  ports.ReferenceRepository
	cache ports.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewReferenceService returns a ReferenceService. cache may be nil.
func NewReferenceService(repo ports.ReferenceRepository, cache ports.Cache, ttl time.Duration, log zerolog.Logger) *ReferenceService {
	if ttl <= 0 {
		ttl = defaultReferenceTTL
	}
	return &ReferenceService{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (s *ReferenceService) ServiceCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	return cached(ctx, s, keyServiceCategories, s.repo.ListServiceCategories)
}

func (s *ReferenceService) Counties(ctx context.Context) ([]domain.County, error) {
	return cached(ctx, s, keyCounties, s.repo.ListCounties)
}

func cached[T any](ctx context.Context, s *ReferenceService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var hit []T
		ok, err := s.cache.Get(ctx, key, &hit)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("key", key).Msg("reference cache read failed")
		case ok:
			return hit, nil
		}
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("reference cache write failed")
		}
	}
	return items, nil
}
