package domain

import (
	"strings"
	"time"
)

// MaxPauseDays bounds how far ahead an explicit resume moment may be picked.
const MaxPauseDays = 40

// MaxPauseForDays is the largest day count for ResumeAfterDays whose result,
// rounded up to the next hour, stays inside AllowedResumeWindow.
const MaxPauseForDays = MaxPauseDays - 1

// PauseState suspends check-ins until ResumeAt.
type PauseState struct {
	Enabled  bool
	ResumeAt time.Time
}

// Active reports whether check-ins are suspended at now.
func (p PauseState) Active(now time.Time) bool {
	return p.Enabled && now.Before(p.ResumeAt)
}

// Message renders the resume moment, e.g. "PAUSED until: Jan 2, 7:00 am.".
func (p PauseState) Message() string {
	return "PAUSED until: " + p.ResumeAt.Format("Jan 2") + ", " +
		strings.ToLower(p.ResumeAt.Format("3:04 PM")) + "."
}

// ResumeAtNextHour returns the first instant strictly after now, in now's
// location, whose hour is targetHour and whose minute and second are zero.
func ResumeAtNextHour(targetHour int, now time.Time) time.Time {
	targetHour %= 24
	if targetHour < 0 {
		targetHour += 24
	}
	y, m, d := now.Date()
	loc := now.Location()
	// A DST gap can remove the target hour for a day; look a few days ahead.
	for i := 0; ; i++ {
		c := time.Date(y, m, d+i, targetHour, 0, 0, 0, loc)
		if c.After(now) && c.Hour() == targetHour {
			return c
		}
	}
}

// ResumeAfterDays moves now forward by days calendar days and then up to
// the start of the following hour. An instant already on an hour boundary
// still advances by one hour.
func ResumeAfterDays(days int, now time.Time) time.Time {
	shifted := now.AddDate(0, 0, days)
	return ResumeAtNextHour(shifted.Hour()+1, shifted)
}

// AllowedResumeWindow returns the range offered when picking an explicit
// resume moment. Stored values outside it are not rejected.
func AllowedResumeWindow(now time.Time) (time.Time, time.Time) {
	return now, now.AddDate(0, 0, MaxPauseDays)
}

// ClampResume pulls t into AllowedResumeWindow(now).
func ClampResume(t, now time.Time) time.Time {
	lo, hi := AllowedResumeWindow(now)
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}
