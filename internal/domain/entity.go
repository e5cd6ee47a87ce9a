package domain

import "time"

// Settings is the aggregate the check-in system is configured by.
// This is a pure domain model with no dependencies on external concerns.
type Settings struct {
	Enabled  bool
	Pause    PauseState
	Weekdays WeekdaySet
	Schedule *Schedule
}

// DefaultSettings returns the state of a fresh installation: disabled, not
// paused, every weekday selected and no check-in times.
func DefaultSettings() *Settings {
	return &Settings{
		Weekdays: NewWeekdaySet(true),
		Schedule: NewSchedule(),
	}
}

// CheckIn is one firing of the schedule.
type CheckIn struct {
	At    time.Time
	Entry Entry
}

// Snapshot is a read-only view handed to primary adapters.
type Snapshot struct {
	Enabled       bool
	Pause         PauseState
	PauseActive   bool
	Weekdays      WeekdaySet
	Entries       []Entry
	Conflicts     map[EntryID]bool
	OutOfOrder    bool
	NextCheckIn   time.Time
	HasNext       bool
	UndoAvailable bool
}
