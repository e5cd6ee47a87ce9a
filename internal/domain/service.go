package domain

import (
	"sort"
	"time"
)

// lookaheadDays bounds the search for the next check-in once any pause has
// ended. A week plus one day always covers every selected weekday.
const lookaheadDays = 8

// CheckInService decides whether and when check-ins fire.
// This service has no side effects and no dependencies on external concerns.
type CheckInService struct{}

// NewCheckInService creates a new check-in service.
func NewCheckInService() *CheckInService {
	return &CheckInService{}
}

// ShouldFire reports whether a check-in is due exactly at the given instant.
func (s *CheckInService) ShouldFire(settings *Settings, at time.Time) bool {
	if !s.Eligible(settings, at) {
		return false
	}
	secs := WallClockFromTime(at).SecondsOfDay()
	for _, e := range settings.Schedule.Entries() {
		if e.Time.SecondsOfDay() == secs {
			return true
		}
	}
	return false
}

// Eligible reports whether check-ins may fire at all at the given instant:
// the system is enabled, the weekday is selected and no pause is active.
func (s *CheckInService) Eligible(settings *Settings, at time.Time) bool {
	return settings.Enabled &&
		settings.Weekdays.IsTimeSelected(at) &&
		!settings.Pause.Active(at)
}

// NextCheckIn returns the first check-in strictly after now. The second
// result is false when nothing can fire: the system is disabled, the
// schedule is empty or no weekday is selected.
func (s *CheckInService) NextCheckIn(settings *Settings, now time.Time) (CheckIn, bool) {
	if !settings.Enabled || settings.Schedule.Len() == 0 || settings.Weekdays.NoneSelected() {
		return CheckIn{}, false
	}
	start := now
	if settings.Pause.Active(now) {
		start = settings.Pause.ResumeAt
	}
	y, m, d := start.Date()
	for i := 0; i <= lookaheadDays; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, start.Location())
		for _, c := range s.occurrencesOn(settings, day) {
			if c.At.After(now) && s.Eligible(settings, c.At) {
				return c, true
			}
		}
	}
	return CheckIn{}, false
}

// DueBetween lists every check-in in the half-open interval (from, to],
// ascending by time.
func (s *CheckInService) DueBetween(settings *Settings, from, to time.Time) []CheckIn {
	if !settings.Enabled || !to.After(from) {
		return nil
	}
	var due []CheckIn
	to = to.In(from.Location())
	y, m, d := from.Date()
	for i := 0; ; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, from.Location())
		if day.After(to) {
			break
		}
		for _, c := range s.occurrencesOn(settings, day) {
			if c.At.After(from) && !c.At.After(to) && s.Eligible(settings, c.At) {
				due = append(due, c)
			}
		}
	}
	return due
}

func (s *CheckInService) occurrencesOn(settings *Settings, day time.Time) []CheckIn {
	entries := settings.Schedule.Entries()
	out := make([]CheckIn, 0, len(entries))
	for _, e := range entries {
		out = append(out, CheckIn{At: e.Time.On(day), Entry: e})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// Snapshot builds the read-only view of settings at now.
func (s *CheckInService) Snapshot(settings *Settings, undo ShiftSnapshot, now time.Time) Snapshot {
	snap := Snapshot{
		Enabled:       settings.Enabled,
		Pause:         settings.Pause,
		PauseActive:   settings.Pause.Active(now),
		Weekdays:      settings.Weekdays,
		Entries:       settings.Schedule.Entries(),
		Conflicts:     settings.Schedule.Conflicts(),
		OutOfOrder:    settings.Schedule.IsOutOfOrder(),
		UndoAvailable: undo != nil,
	}
	if next, ok := s.NextCheckIn(settings, now); ok {
		snap.NextCheckIn = next.At
		snap.HasNext = true
	}
	return snap
}
