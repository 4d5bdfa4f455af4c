package notify

import (
	"context"

	"jobtrack-backend/models"
)

// Notifier delivers a reminder to the user through some external channel.
// The sweep calls it once per reminder it marks sent.
type Notifier interface {
	Notify(ctx context.Context, reminder *models.Reminder) error
}

// Noop is a Notifier that delivers nothing. Actual dispatch (email, chat)
// is out of scope; this keeps the sweep's side-effect seam in place.
type Noop struct{}

// NewNoop creates a no-op notifier
func NewNoop() *Noop {
	return &Noop{}
}

// Notify does nothing
func (n *Noop) Notify(ctx context.Context, reminder *models.Reminder) error {
	return nil
}
