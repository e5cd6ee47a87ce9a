package crontab

import (
	"testing"
	"time"

	"github.com/adhocore/gronx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-manager/internal/domain"
)

func settingsWith(t *testing.T, days []domain.Weekday, times ...string) *domain.Settings {
	t.Helper()
	s := domain.DefaultSettings()
	s.Enabled = true
	if days != nil {
		s.Weekdays = domain.WeekdaySetOf(days...)
	}
	for _, raw := range times {
		e, err := s.Schedule.Add()
		require.NoError(t, err)
		wc, err := domain.ParseWallClockTime(raw)
		require.NoError(t, err)
		require.NoError(t, s.Schedule.SetTime(e.ID, wc))
	}
	return s
}

func TestExpressionsDailyDedupesAndSorts(t *testing.T) {
	s := settingsWith(t, nil, "18:00", "08:30:45", "08:30")

	exprs, err := Expressions(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"30 8 * * *", "0 18 * * *"}, exprs)
}

func TestExpressionsWeekdayField(t *testing.T) {
	s := settingsWith(t, []domain.Weekday{domain.Sun, domain.Mon, domain.Fri}, "07:05")

	exprs, err := Expressions(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"5 7 * * 0,1,5"}, exprs)
}

func TestExpressionsNothingToExport(t *testing.T) {
	s := settingsWith(t, nil)
	_, err := Expressions(s)
	assert.ErrorIs(t, err, ErrNothingToExport)

	s = settingsWith(t, nil, "09:00")
	s.Enabled = false
	_, err = Expressions(s)
	assert.ErrorIs(t, err, ErrNothingToExport)

	s = settingsWith(t, nil, "09:00")
	s.Weekdays = domain.NewWeekdaySet(false)
	_, err = Expressions(s)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestLinesDefaultCommand(t *testing.T) {
	s := settingsWith(t, nil, "09:00")

	lines, err := Lines(s, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"0 9 * * * " + DefaultCommand}, lines)

	lines, err = Lines(s, "notify-send 'check in'")
	require.NoError(t, err)
	assert.Equal(t, []string{"0 9 * * * notify-send 'check in'"}, lines)
}

func TestRenderHeader(t *testing.T) {
	s := settingsWith(t, []domain.Weekday{domain.Tue, domain.Wed, domain.Thu}, "09:00")
	s.Pause = domain.PauseState{Enabled: true, ResumeAt: time.Date(2024, 1, 2, 7, 0, 0, 0, time.UTC)}

	out, err := Render(s, "echo hi")
	require.NoError(t, err)
	assert.Equal(t,
		"# check-ins: Tue-Thu\n"+
			"# PAUSED until: Jan 2, 7:00 am. (not enforced by cron)\n"+
			"0 9 * * 2,3,4 echo hi\n",
		out)
}

// The earliest cron tick agrees with the scheduler's own next check-in.
func TestExpressionsMatchNextCheckIn(t *testing.T) {
	s := settingsWith(t, []domain.Weekday{domain.Mon, domain.Sat}, "06:15", "21:40", "12:00")
	service := domain.NewCheckInService()

	for _, now := range []time.Time{
		time.Date(2024, 3, 4, 5, 0, 0, 0, time.UTC),    // Monday morning
		time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC),   // Monday night
		time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC),   // Wednesday noon
		time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), // Sunday
	} {
		exprs, err := Expressions(s)
		require.NoError(t, err)

		var earliest time.Time
		for _, expr := range exprs {
			next, err := gronx.NextTickAfter(expr, now, false)
			require.NoError(t, err)
			if earliest.IsZero() || next.Before(earliest) {
				earliest = next
			}
		}

		want, ok := service.NextCheckIn(s, now)
		require.True(t, ok)
		assert.True(t, want.At.Equal(earliest), "now=%s want=%s got=%s", now, want.At, earliest)
	}
}
