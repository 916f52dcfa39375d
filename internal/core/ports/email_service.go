package ports

import (
	"context"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// EmailSender delivers a message synchronously.
type EmailSender interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// EmailQueue accepts messages for asynchronous delivery.
type EmailQueue interface {
	Enqueue(msg domain.EmailMessage) error
}

// EmailService delivers queued messages and records the outcome.
type EmailService interface {
	Deliver(ctx context.Context, msg domain.EmailMessage) error
}
