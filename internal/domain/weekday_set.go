package domain

import (
	"strings"
	"time"
)

// WeekdaySet selects which weekdays the check-in schedule applies to.
// The zero value has no day selected.
type WeekdaySet struct {
	selections [7]bool
}

// NewWeekdaySet returns a set with every day set to all.
func NewWeekdaySet(all bool) WeekdaySet {
	var s WeekdaySet
	for i := range s.selections {
		s.selections[i] = all
	}
	return s
}

// WeekdaySetOf returns a set with exactly the given days selected.
func WeekdaySetOf(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s.Set(d, true)
	}
	return s
}

// Set changes the selection state of one day. Invalid days are ignored.
func (s *WeekdaySet) Set(day Weekday, selected bool) {
	if !day.Valid() {
		return
	}
	s.selections[day] = selected
}

// Toggle flips one day. With preventEmpty, clearing the last selected day
// is refused with ErrEmptySelection and the set is left unchanged.
func (s *WeekdaySet) Toggle(day Weekday, preventEmpty bool) error {
	if !day.Valid() {
		return ErrInvalidWeekday
	}
	was := s.selections[day]
	if preventEmpty && was && s.SelectedCount() <= 1 {
		return ErrEmptySelection
	}
	s.selections[day] = !was
	return nil
}

func (s WeekdaySet) IsSelected(day Weekday) bool {
	return day.Valid() && s.selections[day]
}

// IsTimeSelected reports whether the weekday of t is selected.
func (s WeekdaySet) IsTimeSelected(t time.Time) bool {
	return s.IsSelected(WeekdayOf(t))
}

func (s WeekdaySet) SelectedCount() int {
	n := 0
	for _, sel := range s.selections {
		if sel {
			n++
		}
	}
	return n
}

// Selected returns the selected days in Mon→Sun order.
func (s WeekdaySet) Selected() []Weekday {
	days := make([]Weekday, 0, 7)
	for i, sel := range s.selections {
		if sel {
			days = append(days, Weekday(i))
		}
	}
	return days
}

func (s WeekdaySet) AllSelected() bool {
	return s.SelectedCount() == 7
}

func (s WeekdaySet) NoneSelected() bool {
	return s.SelectedCount() == 0
}

// ContiguousRange returns the endpoints of the selection when it holds two
// to six days forming one unbroken Mon→Sun run. Runs do not wrap from Sun
// back to Mon.
func (s WeekdaySet) ContiguousRange() (first, last Weekday, ok bool) {
	count := s.SelectedCount()
	if count < 2 || count == 7 {
		return 0, 0, false
	}
	lo, hi := -1, -1
	for i, sel := range s.selections {
		if !sel {
			continue
		}
		if lo < 0 {
			lo = i
		}
		hi = i
	}
	if hi-lo+1 != count {
		return 0, 0, false
	}
	return Weekday(lo), Weekday(hi), true
}

// Summary renders the selection for humans: "daily", "every Mon",
// "Mon and Sun", "Tue-Thu" or "Mon, Wed, and Fri". An empty set is "never".
func (s WeekdaySet) Summary() string {
	days := s.Selected()
	switch {
	case len(days) == 7:
		return "daily"
	case len(days) == 0:
		return "never"
	case len(days) == 1:
		return "every " + days[0].String()
	case len(days) == 2:
		return days[0].String() + " and " + days[1].String()
	}
	if first, last, ok := s.ContiguousRange(); ok {
		return first.String() + "-" + last.String()
	}
	return joinWithAnd(days)
}

// RepeatMessage is the sentence shown above the list of check-in times.
func (s WeekdaySet) RepeatMessage() string {
	days := s.Selected()
	switch {
	case len(days) == 7:
		return "The Check Ins will repeat daily."
	case len(days) == 0:
		return "The Check Ins will not repeat on any weekday."
	case len(days) == 1:
		return "The Check Ins will repeat every " + days[0].String() + "."
	case len(days) == 2:
		return "The Check Ins will repeat on " + days[0].String() + " and " + days[1].String() + "."
	}
	if first, last, ok := s.ContiguousRange(); ok {
		return "The Check Ins will repeat " + first.String() + "-" + last.String() + "."
	}
	return "The Check Ins will repeat on:\n" + joinWithAnd(days) + "."
}

func (s WeekdaySet) String() string {
	parts := make([]string, 0, 7)
	for i, sel := range s.selections {
		mark := "-"
		if sel {
			mark = "x"
		}
		parts = append(parts, Weekday(i).String()+":"+mark)
	}
	return strings.Join(parts, " ")
}

func joinWithAnd(days []Weekday) string {
	var b strings.Builder
	for i, d := range days {
		if i == len(days)-1 {
			b.WriteString("and ")
			b.WriteString(d.String())
			break
		}
		b.WriteString(d.String())
		b.WriteString(", ")
	}
	return b.String()
}
