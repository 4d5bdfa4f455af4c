package service

import (
	"context"
	"errors"
	"time"

	"jobtrack-backend/models"
	"jobtrack-backend/notify"

	"github.com/google/uuid"
)

// ReminderSweeper marks the caller's due reminders as sent and returns them
type ReminderSweeper interface {
	MarkDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Reminder, error)
}

// ReminderService runs the due-reminder sweep
type ReminderService struct {
	reminders ReminderSweeper
	notifier  notify.Notifier
}

// ReminderServiceOption is a functional option for ReminderService
type ReminderServiceOption func(*ReminderService)

// WithReminderSweeper sets the reminder store
func WithReminderSweeper(reminders ReminderSweeper) ReminderServiceOption {
	return func(s *ReminderService) {
		s.reminders = reminders
	}
}

// WithNotifier sets the notifier invoked for each swept reminder
func WithNotifier(notifier notify.Notifier) ReminderServiceOption {
	return func(s *ReminderService) {
		s.notifier = notifier
	}
}

// NewReminderService creates a new reminder service
func NewReminderService(opts ...ReminderServiceOption) *ReminderService {
	s := &ReminderService{
		notifier: notify.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunDue sweeps the user's unsent reminders whose due time has passed,
// marking each as sent, and returns the count processed. A reminder is
// swept at most once: sent never reverts.
func (s *ReminderService) RunDue(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.reminders == nil {
		return 0, errors.New("reminder store not set")
	}

	swept, err := s.reminders.MarkDue(ctx, userID, time.Now())
	if err != nil {
		return 0, err
	}

	for _, reminder := range swept {
		// Delivery failures don't undo the sweep; the mark is already committed.
		_ = s.notifier.Notify(ctx, reminder)
	}

	return len(swept), nil
}
