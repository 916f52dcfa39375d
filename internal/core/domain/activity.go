package domain

import "time"

// ActivityType names an account event recorded in the activity log.
type ActivityType string

const (
	ActivityRegistered       ActivityType = "registered"
	ActivityLogin            ActivityType = "login"
	ActivityProfileUpdated   ActivityType = "profile_updated"
	ActivityPasswordChanged  ActivityType = "password_changed"
	ActivityServicesReplaced ActivityType = "services_replaced"
	ActivityAreasReplaced    ActivityType = "areas_replaced"
	ActivityDeleted          ActivityType = "deleted"
	ActivityEmailSent        ActivityType = "email_sent"
	ActivityEmailFailed      ActivityType = "email_failed"
)

// Activity is an append-only audit record.
type Activity struct {
	Type       ActivityType
	SurveyorID int64 // zero for events not tied to an account
	Email      string
	Details    map[string]any
	OccurredAt time.Time
}

// EmailMessage is a queued outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
