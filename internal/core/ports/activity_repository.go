package ports

import (
	"context"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// ActivityRepository appends account events to the audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.Activity) error
}
