// Package crontab renders a check-in schedule as crontab lines so the
// reminders can be driven by the system cron instead of the daemon.
//
// Cron has no notion of a pause window, and its resolution is one minute:
// seconds are dropped and an active pause is reported in the header only.
package crontab

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/adhocore/gronx"

	"checkin-manager/internal/domain"
)

// DefaultCommand is written when no command is supplied.
const DefaultCommand = "checkin-manager remind"

// ErrNothingToExport indicates a schedule that would never fire.
var ErrNothingToExport = errors.New("no check-ins would fire")

// Expressions returns one 5-field cron expression per distinct minute of
// the day, ascending.
func Expressions(settings *domain.Settings) ([]string, error) {
	if !settings.Enabled || settings.Schedule.Len() == 0 || settings.Weekdays.NoneSelected() {
		return nil, ErrNothingToExport
	}

	dow := dayOfWeekField(settings.Weekdays)
	minutes := map[int]bool{}
	for _, e := range settings.Schedule.Entries() {
		minutes[e.Time.Hour()*60+e.Time.Minute()] = true
	}
	keys := make([]int, 0, len(minutes))
	for m := range minutes {
		keys = append(keys, m)
	}
	sort.Ints(keys)

	exprs := make([]string, 0, len(keys))
	for _, m := range keys {
		expr := fmt.Sprintf("%d %d * * %s", m%60, m/60, dow)
		if err := validate(expr); err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// Lines appends command to every expression.
func Lines(settings *domain.Settings, command string) ([]string, error) {
	exprs, err := Expressions(settings)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	lines := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		lines = append(lines, expr+" "+command)
	}
	return lines, nil
}

// Render returns a crontab fragment with a descriptive header.
func Render(settings *domain.Settings, command string) (string, error) {
	lines, err := Lines(settings, command)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# check-ins: %s\n", settings.Weekdays.Summary())
	if settings.Pause.Enabled {
		fmt.Fprintf(&b, "# %s (not enforced by cron)\n", settings.Pause.Message())
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// dayOfWeekField uses cron numbering, 0=Sun..6=Sat.
func dayOfWeekField(set domain.WeekdaySet) string {
	if set.AllSelected() {
		return "*"
	}
	nums := make([]int, 0, 7)
	for _, d := range set.Selected() {
		nums = append(nums, int(d.TimeWeekday()))
	}
	sort.Ints(nums)
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

// validate rejects anything but a 5-field expression; gronx alone also
// accepts a seconds field.
func validate(expr string) error {
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return fmt.Errorf("invalid cron expression %q", expr)
	}
	return nil
}
