package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// shiftReferenceDay anchors wall-clock arithmetic to a fixed UTC day so that
// shifting never observes a DST transition.
var shiftReferenceDay = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// WallClockTime is an immutable time of day with second precision.
// It is stored as seconds since midnight in [0, 86399].
type WallClockTime struct {
	secs int
}

// NewWallClockTime builds a time of day from components.
// Out-of-range components roll over modulo one day.
func NewWallClockTime(hour, minute, second int) WallClockTime {
	return WallClockFromSecondsOfDay(hour*3600 + minute*60 + second)
}

// WallClockFromSecondsOfDay decomposes n seconds since midnight.
// Negative values and values beyond one day wrap around.
func WallClockFromSecondsOfDay(n int) WallClockTime {
	n %= secondsPerDay
	if n < 0 {
		n += secondsPerDay
	}
	return WallClockTime{secs: n}
}

// WallClockFromTime extracts the wall-clock components of t in t's location.
// The calendar day is ignored.
func WallClockFromTime(t time.Time) WallClockTime {
	return NewWallClockTime(t.Hour(), t.Minute(), t.Second())
}

// ParseWallClockTime accepts "H:MM" or "H:MM:SS" in 24-hour notation.
func ParseWallClockTime(s string) (WallClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return WallClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	limits := []int{23, 59, 59}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return WallClockTime{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		vals[i] = v
	}
	return NewWallClockTime(vals[0], vals[1], vals[2]), nil
}

func (w WallClockTime) Hour() int   { return w.secs / 3600 }
func (w WallClockTime) Minute() int { return (w.secs / 60) % 60 }
func (w WallClockTime) Second() int { return w.secs % 60 }

// SecondsOfDay returns the canonical representation.
func (w WallClockTime) SecondsOfDay() int {
	return w.secs
}

// On places the time of day on the calendar day of ref, in ref's location.
func (w WallClockTime) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, w.Hour(), w.Minute(), w.Second(), 0, ref.Location())
}

// Shifted moves the time by the given hours and then minutes, rolling over
// midnight in either direction. Offsets are reduced to less than a day
// first so huge values cannot overflow a time.Duration.
func (w WallClockTime) Shifted(hours, minutes int) WallClockTime {
	hours %= 24
	minutes %= 24 * 60
	t := w.On(shiftReferenceDay)
	t = t.Add(time.Duration(hours) * time.Hour)
	t = t.Add(time.Duration(minutes) * time.Minute)
	return WallClockFromTime(t)
}

// Before reports whether w is earlier in the day than o.
func (w WallClockTime) Before(o WallClockTime) bool {
	return w.secs < o.secs
}

// Equal reports whether both values name the same second of the day.
func (w WallClockTime) Equal(o WallClockTime) bool {
	return w.secs == o.secs
}

func (w WallClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", w.Hour(), w.Minute(), w.Second())
}
