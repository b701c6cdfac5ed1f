package domain

import "time"

// Run lifecycle events a webhook can subscribe to.
const (
	EventRunCompleted = "run.completed"
	EventRunFailed    = "run.failed"
)

// Webhook represents a subscription to a run lifecycle notification.
type Webhook struct {
	WebhookID string
	Event     string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
