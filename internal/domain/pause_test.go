package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestResumeAtNextHour(t *testing.T) {
	assert.Equal(t, at(2024, 1, 1, 7, 0), ResumeAtNextHour(7, at(2024, 1, 1, 6, 59)))
	assert.Equal(t, at(2024, 1, 2, 7, 0), ResumeAtNextHour(7, at(2024, 1, 1, 7, 0)))
	assert.Equal(t, at(2024, 1, 2, 7, 0), ResumeAtNextHour(7, at(2024, 1, 1, 7, 30)))
	assert.Equal(t, at(2024, 1, 2, 0, 0), ResumeAtNextHour(24, at(2024, 1, 1, 7, 30)))
	assert.Equal(t, at(2025, 1, 1, 7, 0), ResumeAtNextHour(7, at(2024, 12, 31, 20, 0)))
}

func TestResumeAtNextHourSkipsDSTGap(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 2024-03-10 02:00 does not exist in New York.
	now := time.Date(2024, 3, 10, 0, 30, 0, 0, loc)
	got := ResumeAtNextHour(2, now)
	assert.Equal(t, time.Date(2024, 3, 11, 2, 0, 0, 0, loc), got)
}

func TestResumeAfterDays(t *testing.T) {
	assert.Equal(t, at(2024, 1, 3, 0, 0), ResumeAfterDays(1, at(2024, 1, 1, 23, 30)))
	assert.Equal(t, at(2024, 1, 4, 11, 0), ResumeAfterDays(3, at(2024, 1, 1, 10, 0)))
	assert.Equal(t, at(2024, 1, 3, 15, 0), ResumeAfterDays(2, at(2024, 1, 1, 14, 1)))
}

func TestAllowedResumeWindowAndClamp(t *testing.T) {
	now := at(2024, 1, 1, 12, 0)
	lo, hi := AllowedResumeWindow(now)
	assert.Equal(t, now, lo)
	assert.Equal(t, at(2024, 2, 10, 12, 0), hi)

	assert.Equal(t, now, ClampResume(at(2023, 12, 1, 0, 0), now))
	assert.Equal(t, hi, ClampResume(at(2024, 6, 1, 0, 0), now))
	mid := at(2024, 1, 15, 9, 0)
	assert.Equal(t, mid, ClampResume(mid, now))
}

func TestPauseStateActive(t *testing.T) {
	p := PauseState{Enabled: true, ResumeAt: at(2024, 1, 2, 7, 0)}
	assert.True(t, p.Active(at(2024, 1, 2, 6, 59)))
	assert.False(t, p.Active(at(2024, 1, 2, 7, 0)))

	p.Enabled = false
	assert.False(t, p.Active(at(2024, 1, 1, 0, 0)))
}

func TestPauseStateMessage(t *testing.T) {
	p := PauseState{Enabled: true, ResumeAt: at(2024, 1, 2, 7, 0)}
	assert.Equal(t, "PAUSED until: Jan 2, 7:00 am.", p.Message())
	p.ResumeAt = at(2024, 11, 23, 19, 5)
	assert.Equal(t, "PAUSED until: Nov 23, 7:05 pm.", p.Message())
}
