package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

// recordActivity appends to the activity log. Failures are logged and
// swallowed; the audit trail never fails a request.
func recordActivity(ctx context.Context, repo ports.ActivityRepository, log zerolog.Logger, a *domain.Activity) {
	if repo == nil {
		return
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}
	if err := repo.Insert(ctx, a); err != nil {
		log.Warn().Err(err).
			Str("type", string(a.Type)).
			Int64("surveyor_id", a.SurveyorID).
			Msg("failed to record activity")
	}
}
