package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

type ProfileService struct {
	repo     ports.SurveyorRepository
	creds    ports.Credentials
	activity ports.ActivityRepository
	logger   zerolog.Logger
}

func NewProfileService(repo ports.SurveyorRepository, creds ports.Credentials, activity ports.ActivityRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, creds: creds, activity: activity, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context, id int64) (*domain.Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

// UpdateInfo applies a partial update. A request that sets no field is
// rejected rather than only touching updated_at.
func (s *ProfileService) UpdateInfo(ctx context.Context, id int64, in ports.UpdateInfoInput) error {
	if in.Empty() {
		return domain.NewValidationError([]domain.FieldError{{Field: "body", Message: "at least one field must be provided"}})
	}
	if err := s.repo.UpdateInfo(ctx, id, in); err != nil {
		return err
	}

	details := map[string]any{}
	if in.Email != nil {
		details["email_changed"] = true
	}
	recordActivity(ctx, s.activity, s.logger, &domain.Activity{
		Type:       domain.ActivityProfileUpdated,
		SurveyorID: id,
		Details:    details,
	})
	return nil
}

// ChangePassword hashes next up front, then verifies current against the
// locked row inside the store transaction.
func (s *ProfileService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	nextHash, err := s.creds.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.repo.ChangePassword(ctx, id, func(stored string) (string, error) {
		if !s.creds.Verify(current, stored) {
			return "", domain.ErrWrongPassword
		}
		return nextHash, nil
	})
	if err != nil {
		return err
	}

	recordActivity(ctx, s.activity, s.logger, &domain.Activity{Type: domain.ActivityPasswordChanged, SurveyorID: id})
	s.logger.Info().Int64("surveyor_id", id).Msg("password changed")
	return nil
}

// ReplaceServices replaces the offered subservices. mainServices is accepted
// for the record only; categories are implied by the subservices.
func (s *ProfileService) ReplaceServices(ctx context.Context, id int64, mainServices, subservices []string) (int, error) {
	n, err := s.repo.ReplaceServices(ctx, id, subservices)
	if err != nil {
		return 0, err
	}

	recordActivity(ctx, s.activity, s.logger, &domain.Activity{
		Type:       domain.ActivityServicesReplaced,
		SurveyorID: id,
		Details: map[string]any{
			"main_services": mainServices,
			"requested":     len(subservices),
			"written":       n,
		},
	})
	return n, nil
}

func (s *ProfileService) ReplaceAreas(ctx context.Context, id int64, counties []string) (int, error) {
	n, err := s.repo.ReplaceCounties(ctx, id, counties)
	if err != nil {
		return 0, err
	}

	recordActivity(ctx, s.activity, s.logger, &domain.Activity{
		Type:       domain.ActivityAreasReplaced,
		SurveyorID: id,
		Details:    map[string]any{"requested": len(counties), "written": n},
	})
	return n, nil
}

func (s *ProfileService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordActivity(ctx, s.activity, s.logger, &domain.Activity{Type: domain.ActivityDeleted, SurveyorID: id})
	s.logger.Info().Int64("surveyor_id", id).Msg("surveyor deleted")
	return nil
}

// List returns one page of the public directory.
func (s *ProfileService) List(ctx context.Context, page, limit int) (*domain.Page[domain.Surveyor], error) {
	var fields []domain.FieldError
	if page < 1 {
		fields = append(fields, domain.FieldError{Field: "page", Message: "must be at least 1", Value: page})
	}
	if limit < 1 {
		fields = append(fields, domain.FieldError{Field: "limit", Message: "must be at least 1", Value: limit})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}
	return s.repo.List(ctx, page, limit)
}
