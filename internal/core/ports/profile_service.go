package ports

import (
	"context"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// ProfileService covers the owner-only profile use cases and the public
// directory listing.
type ProfileService interface {
	Get(ctx context.Context, id int64) (*domain.Profile, error)
	UpdateInfo(ctx context.Context, id int64, in UpdateInfoInput) error
	ChangePassword(ctx context.Context, id int64, current, next string) error
	ReplaceServices(ctx context.Context, id int64, mainServices, subservices []string) (int, error)
	ReplaceAreas(ctx context.Context, id int64, counties []string) (int, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, limit int) (*domain.Page[domain.Surveyor], error)
}

// ReferenceService serves taxonomy and county lists.
type ReferenceService interface {
	ServiceCategories(ctx context.Context) ([]domain.ServiceCategory, error)
	Counties(ctx context.Context) ([]domain.County, error)
}
