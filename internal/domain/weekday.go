package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday uses a Monday-first ordinal: Mon=0 ... Sun=6.
type Weekday int

const (
	Mon Weekday = iota
	Tue
	Wed
	Thu
	Fri
	Sat
	Sun
)

// AllWeekdays lists the days in canonical Mon→Sun order.
var AllWeekdays = []Weekday{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

var (
	threeLetterNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	twoLetterNames   = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	fullNames        = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

// Valid reports whether d is one of the seven days.
func (d Weekday) Valid() bool {
	return d >= Mon && d <= Sun
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return threeLetterNames[d]
}

// TwoLetter returns the abbreviated label used by compact pickers.
func (d Weekday) TwoLetter() string {
	if !d.Valid() {
		return "??"
	}
	return twoLetterNames[d]
}

// CalendarOrdinal converts to the 1=Sun..7=Sat numbering.
func (d Weekday) CalendarOrdinal() int {
	if d == Sun {
		return 1
	}
	return int(d) + 2
}

// WeekdayFromCalendarOrdinal converts from the 1=Sun..7=Sat numbering.
func WeekdayFromCalendarOrdinal(ordinal int) Weekday {
	if ordinal == 1 {
		return Sun
	}
	return Weekday(ordinal - 2)
}

// WeekdayOf returns the weekday of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday is 0=Sun..6=Sat, one less than the calendar ordinal.
	return WeekdayFromCalendarOrdinal(int(t.Weekday()) + 1)
}

// TimeWeekday converts to the standard library's numbering.
func (d Weekday) TimeWeekday() time.Weekday {
	return time.Weekday(d.CalendarOrdinal() - 1)
}

// ParseWeekday accepts two-letter, three-letter or full English names,
// case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i := range fullNames {
		if key == fullNames[i] ||
			key == strings.ToLower(threeLetterNames[i]) ||
			key == strings.ToLower(twoLetterNames[i]) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}
