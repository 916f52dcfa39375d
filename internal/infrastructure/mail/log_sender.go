package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// LogSender writes messages to the log instead of delivering them. Used when
// no SMTP relay is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg domain.EmailMessage) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("text_bytes", len(msg.Text)).
		Int("html_bytes", len(msg.HTML)).
		Msg("email not sent: no SMTP relay configured")
	return nil
}
