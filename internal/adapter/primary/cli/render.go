package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"checkin-manager/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

// renderStatus formats a snapshot for the terminal. Entries are listed in
// stored order; entries closer than ten minutes to another are flagged.
func renderStatus(snap domain.Snapshot) string {
	var b strings.Builder

	state := warnStyle.Render("disabled")
	if snap.Enabled {
		state = okStyle.Render("enabled")
	}
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Check-ins:"), state)

	if snap.PauseActive {
		b.WriteString(warnStyle.Render(snap.Pause.Message()) + "\n")
	}
	b.WriteString(snap.Weekdays.RepeatMessage() + "\n\n")

	if len(snap.Entries) == 0 {
		b.WriteString(mutedStyle.Render("No check-in times. Add one with 'entry add'.") + "\n")
	}
	for i, e := range snap.Entries {
		mark := "[ ]"
		if e.Marked {
			mark = "[x]"
		}
		line := fmt.Sprintf("%3s  %s  %s  %s", fmt.Sprintf("#%d", i+1), e.Time, mark, mutedStyle.Render(shortID(e.ID)))
		if snap.Conflicts[e.ID] {
			line += "  " + warnStyle.Render("less than 10 minutes apart")
		}
		b.WriteString(line + "\n")
	}
	if snap.OutOfOrder {
		b.WriteString(mutedStyle.Render("Times are out of order; 'entry sort' orders them.") + "\n")
	}

	b.WriteString("\n")
	if snap.HasNext {
		fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Next check-in:"), snap.NextCheckIn.Format("Mon Jan 2 15:04"))
	} else {
		fmt.Fprintf(&b, "%s none\n", titleStyle.Render("Next check-in:"))
	}
	if snap.UndoAvailable {
		b.WriteString(mutedStyle.Render("The last shift can be reverted with 'undo'.") + "\n")
	}
	return b.String()
}
