package domain

import (
	"context"
	"time"
)

// SettingsRepository is a secondary port that defines how to persist the
// settings aggregate together with the pending bulk-shift undo snapshot.
// This interface is defined in the domain layer and implemented by adapters.
type SettingsRepository interface {
	Load() (*Settings, ShiftSnapshot, error)
	Save(settings *Settings, undo ShiftSnapshot) error
}

// Reminder is a secondary port that is told when a check-in is due.
type Reminder interface {
	Remind(ctx context.Context, checkIn CheckIn) error
}

// Clock provides the current instant for testability.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
