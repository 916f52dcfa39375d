package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

type emailService struct {
	sender   ports.EmailSender
	activity ports.ActivityRepository
	log      zerolog.Logger
}

// NewEmailService returns an EmailService that delivers through sender and
// records every outcome in the activity log.
func NewEmailService(sender ports.EmailSender, activity ports.ActivityRepository, log zerolog.Logger) ports.EmailService {
	return &emailService{sender: sender, activity: activity, log: log}
}

// Deliver sends one message. The outcome is recorded whether or not the send
// succeeds.
func (s *emailService) Deliver(ctx context.Context, msg domain.EmailMessage) error {
	err := s.sender.Send(ctx, msg)

	a := &domain.Activity{
		Type:    domain.ActivityEmailSent,
		Email:   msg.To,
		Details: map[string]any{"subject": msg.Subject},
	}
	if err != nil {
		a.Type = domain.ActivityEmailFailed
		a.Details["error"] = err.Error()
	}
	recordActivity(ctx, s.activity, s.log, a)

	if err != nil {
		return fmt.Errorf("deliver email: %w", err)
	}
	s.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email delivered")
	return nil
}
