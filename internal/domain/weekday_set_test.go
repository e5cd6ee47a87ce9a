package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarOrdinalConversion(t *testing.T) {
	want := map[int]Weekday{1: Sun, 2: Mon, 3: Tue, 4: Wed, 5: Thu, 6: Fri, 7: Sat}
	for ordinal, day := range want {
		assert.Equal(t, day, WeekdayFromCalendarOrdinal(ordinal))
		assert.Equal(t, ordinal, day.CalendarOrdinal())
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2024-01-01 was a Monday.
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, day := range AllWeekdays {
		assert.Equal(t, day, WeekdayOf(start.AddDate(0, 0, i)))
		assert.Equal(t, start.AddDate(0, 0, i).Weekday(), day.TimeWeekday())
	}
}

func TestParseWeekday(t *testing.T) {
	for _, in := range []string{"mon", "Mon", "MO", "monday"} {
		d, err := ParseWeekday(in)
		require.NoError(t, err)
		assert.Equal(t, Mon, d)
	}
	d, err := ParseWeekday("Su")
	require.NoError(t, err)
	assert.Equal(t, Sun, d)

	_, err = ParseWeekday("funday")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestWeekdaySetCounts(t *testing.T) {
	all := NewWeekdaySet(true)
	assert.True(t, all.AllSelected())
	assert.Equal(t, 7, all.SelectedCount())

	none := NewWeekdaySet(false)
	assert.True(t, none.NoneSelected())
	assert.Empty(t, none.Selected())

	s := WeekdaySetOf(Sun, Wed, Mon)
	assert.Equal(t, []Weekday{Mon, Wed, Sun}, s.Selected())
	assert.True(t, s.IsSelected(Wed))
	assert.False(t, s.IsSelected(Tue))
	assert.False(t, s.IsSelected(Weekday(9)))
}

func TestContiguousRange(t *testing.T) {
	first, last, ok := WeekdaySetOf(Tue, Wed, Thu).ContiguousRange()
	require.True(t, ok)
	assert.Equal(t, Tue, first)
	assert.Equal(t, Thu, last)

	first, last, ok = WeekdaySetOf(Mon, Tue, Wed, Thu, Fri, Sat).ContiguousRange()
	require.True(t, ok)
	assert.Equal(t, Mon, first)
	assert.Equal(t, Sat, last)

	cases := map[string]WeekdaySet{
		"none":       NewWeekdaySet(false),
		"single":     WeekdaySetOf(Fri),
		"all":        NewWeekdaySet(true),
		"gap":        WeekdaySetOf(Mon, Tue, Thu),
		"wraparound": WeekdaySetOf(Sat, Sun, Mon),
	}
	for name, s := range cases {
		_, _, ok := s.ContiguousRange()
		assert.False(t, ok, name)
	}
}

func TestSummary(t *testing.T) {
	cases := []struct {
		set  WeekdaySet
		want string
	}{
		{NewWeekdaySet(true), "daily"},
		{WeekdaySetOf(Wed), "every Wed"},
		{WeekdaySetOf(Sun, Mon), "Mon and Sun"},
		{WeekdaySetOf(Mon, Tue), "Mon and Tue"},
		{WeekdaySetOf(Tue, Wed, Thu), "Tue-Thu"},
		{WeekdaySetOf(Mon, Tue, Wed, Thu, Fri), "Mon-Fri"},
		{WeekdaySetOf(Mon, Wed, Fri), "Mon, Wed, and Fri"},
		{WeekdaySetOf(Sat, Sun, Mon), "Mon, Sat, and Sun"},
		{NewWeekdaySet(false), "never"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.set.Summary())
	}
}

func TestRepeatMessage(t *testing.T) {
	assert.Equal(t, "The Check Ins will repeat daily.", NewWeekdaySet(true).RepeatMessage())
	assert.Equal(t, "The Check Ins will repeat every Fri.", WeekdaySetOf(Fri).RepeatMessage())
	assert.Equal(t, "The Check Ins will repeat on Sat and Sun.", WeekdaySetOf(Sat, Sun).RepeatMessage())
	assert.Equal(t, "The Check Ins will repeat Mon-Fri.", WeekdaySetOf(Mon, Tue, Wed, Thu, Fri).RepeatMessage())
	assert.Equal(t, "The Check Ins will repeat on:\nMon, Wed, and Fri.", WeekdaySetOf(Mon, Wed, Fri).RepeatMessage())
}

func TestToggle(t *testing.T) {
	s := WeekdaySetOf(Mon)
	err := s.Toggle(Mon, true)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.True(t, s.IsSelected(Mon))

	require.NoError(t, s.Toggle(Tue, true))
	assert.Equal(t, []Weekday{Mon, Tue}, s.Selected())

	require.NoError(t, s.Toggle(Mon, true))
	assert.Equal(t, []Weekday{Tue}, s.Selected())

	require.NoError(t, s.Toggle(Tue, false))
	assert.True(t, s.NoneSelected())

	assert.ErrorIs(t, s.Toggle(Weekday(-1), false), ErrInvalidWeekday)
}

func TestIsTimeSelected(t *testing.T) {
	s := WeekdaySetOf(Sat, Sun)
	assert.True(t, s.IsTimeSelected(time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)))  // Saturday
	assert.True(t, s.IsTimeSelected(time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC)))  // Sunday
	assert.False(t, s.IsTimeSelected(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC))) // Monday
}
