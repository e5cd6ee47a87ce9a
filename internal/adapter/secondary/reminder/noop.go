package reminder

import (
	"context"

	"checkin-manager/internal/domain"
)

// NoopReminder implements domain.Reminder with no-op behavior.
// Useful for testing or when only the schedule is being edited.
type NoopReminder struct{}

// NewNoopReminder creates a new no-op reminder.
func NewNoopReminder() *NoopReminder {
	return &NoopReminder{}
}

// Remind does nothing and always succeeds.
func (n *NoopReminder) Remind(ctx context.Context, checkIn domain.CheckIn) error {
	return nil
}
