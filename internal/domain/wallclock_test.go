package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallClockRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 1, 29, 59} {
			for _, s := range []int{0, 30, 59} {
				w := NewWallClockTime(h, m, s)
				assert.Equal(t, w, WallClockFromSecondsOfDay(w.SecondsOfDay()))
				assert.Equal(t, h, w.Hour())
				assert.Equal(t, m, w.Minute())
				assert.Equal(t, s, w.Second())
			}
		}
	}
}

func TestWallClockFromSecondsOfDayWraps(t *testing.T) {
	assert.Equal(t, NewWallClockTime(0, 0, 0), WallClockFromSecondsOfDay(86400))
	assert.Equal(t, NewWallClockTime(23, 59, 59), WallClockFromSecondsOfDay(-1))
	assert.Equal(t, NewWallClockTime(1, 0, 5), WallClockFromSecondsOfDay(2*86400+3605))
	assert.Equal(t, NewWallClockTime(1, 0, 0), NewWallClockTime(25, 0, 0))
}

func TestWallClockFromTimeIgnoresDate(t *testing.T) {
	loc := time.FixedZone("test", 9*3600)
	a := WallClockFromTime(time.Date(2024, 3, 1, 7, 15, 42, 0, loc))
	b := WallClockFromTime(time.Date(1999, 12, 31, 7, 15, 42, 999, loc))
	assert.Equal(t, a, b)
	assert.Equal(t, "07:15:42", a.String())
}

func TestWallClockOn(t *testing.T) {
	ref := time.Date(2024, 5, 6, 22, 0, 0, 0, time.UTC)
	got := NewWallClockTime(8, 30, 0).On(ref)
	assert.Equal(t, time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC), got)
}

func TestShiftedWrapsAroundMidnight(t *testing.T) {
	assert.Equal(t, NewWallClockTime(1, 15, 0), NewWallClockTime(23, 45, 0).Shifted(1, 30))
	assert.Equal(t, NewWallClockTime(0, 10, 0), NewWallClockTime(23, 50, 0).Shifted(0, 20))
	assert.Equal(t, NewWallClockTime(23, 50, 0), NewWallClockTime(0, 10, 0).Shifted(0, -20))
}

func TestShiftedHugeOffsets(t *testing.T) {
	start := NewWallClockTime(8, 0, 0)
	assert.Equal(t, start, start.Shifted(3_000_000, 0))
	assert.Equal(t, start, start.Shifted(-3_000_000, 0))
	assert.Equal(t, NewWallClockTime(8, 30, 0), start.Shifted(0, 1440*5_000_000+30))

	for _, hours := range []int{1 << 40, -(1 << 40) - 7} {
		want := WallClockFromSecondsOfDay(start.SecondsOfDay() + (hours%24)*3600 + 45*60)
		assert.Equal(t, want, start.Shifted(hours, 45), "%+dh", hours)
	}
}

func TestShiftedMatchesModularArithmetic(t *testing.T) {
	starts := []WallClockTime{
		NewWallClockTime(0, 0, 0),
		NewWallClockTime(8, 0, 30),
		NewWallClockTime(23, 59, 59),
	}
	for _, start := range starts {
		for hours := -50; hours <= 50; hours += 7 {
			for minutes := -130; minutes <= 130; minutes += 13 {
				want := WallClockFromSecondsOfDay(start.SecondsOfDay() + hours*3600 + minutes*60)
				assert.Equal(t, want, start.Shifted(hours, minutes), "%s %+dh %+dm", start, hours, minutes)
			}
		}
	}
}

func TestParseWallClockTime(t *testing.T) {
	w, err := ParseWallClockTime("7:05")
	require.NoError(t, err)
	assert.Equal(t, NewWallClockTime(7, 5, 0), w)

	w, err = ParseWallClockTime(" 23:59:58 ")
	require.NoError(t, err)
	assert.Equal(t, NewWallClockTime(23, 59, 58), w)

	for _, bad := range []string{"", "7", "24:00", "12:60", "1:2:3:4", "ab:cd"} {
		_, err := ParseWallClockTime(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}
