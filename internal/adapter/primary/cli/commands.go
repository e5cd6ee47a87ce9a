package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"checkin-manager/internal/adapter/secondary/reminder"
	"checkin-manager/internal/crontab"
	"checkin-manager/internal/domain"
	"checkin-manager/internal/usecase"
)

// withUseCase opens the state store for the duration of fn.
func withUseCase(fn func(uc usecase.CheckInUseCase) error) error {
	uc, release, err := openUseCase(reminder.NewNoopReminder())
	if err != nil {
		return err
	}
	defer release()
	return fn(uc)
}

func printStatus(cmd *cobra.Command, uc usecase.CheckInUseCase) error {
	snap, err := uc.GetSnapshot()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderStatus(snap))
	return nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the schedule, weekdays, pause and the next check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				return printStatus(cmd, uc)
			})
		},
	}
}

func newEnableCmd(enabled bool) *cobra.Command {
	use, short := "enable", "Turn check-ins on"
	if !enabled {
		use, short = "disable", "Turn check-ins off"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.SetEnabled(enabled); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Check-ins %sd\n", use)
				return nil
			})
		},
	}
}

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Edit check-in times (refer to entries by #position or id prefix)",
	}
	cmd.AddCommand(
		newEntryAddCmd(),
		newEntryRmCmd(),
		newEntryClearCmd(),
		newEntrySetCmd(),
		newEntryMarkCmd(),
		newEntrySortCmd(),
	)
	return cmd
}

func newEntryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a check-in time after the latest one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				e, err := uc.AddEntry()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", e.Time, shortID(e.ID))
				return nil
			})
		},
	}
}

func newEntryRmCmd() *cobra.Command {
	var marked bool
	cmd := &cobra.Command{
		Use:   "rm [ref...]",
		Short: "Remove check-in times by reference, or every marked one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if marked == (len(args) > 0) {
				return errors.New("give either references or --marked")
			}
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				var (
					n   int
					err error
				)
				if marked {
					n, err = uc.RemoveMarked()
				} else {
					n, err = uc.RemoveEntries(args)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d check-in(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&marked, "marked", false, "remove every marked check-in")
	return cmd
}

func newEntryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every check-in time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				n, err := uc.RemoveAll()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d check-in(s)\n", n)
				return nil
			})
		},
	}
}

func newEntrySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <ref> <HH:MM[:SS]>",
		Short: "Change the time of one check-in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseWallClockTime(args[1])
			if err != nil {
				return err
			}
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				e, err := uc.SetEntryTime(args[0], t)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", shortID(e.ID), e.Time)
				return nil
			})
		},
	}
}

func newEntryMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <ref>...",
		Short: "Toggle the mark on check-ins",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.ToggleMarked(args); err != nil {
					return err
				}
				return printStatus(cmd, uc)
			})
		},
	}
}

func newEntrySortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort check-ins by time (clears marks)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.SortEntries(); err != nil {
					return err
				}
				return printStatus(cmd, uc)
			})
		},
	}
}

func newShiftCmd() *cobra.Command {
	var hours, minutes int
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Move every check-in by the same offset (undo with 'undo')",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.BulkShift(hours, minutes); err != nil {
					return err
				}
				return printStatus(cmd, uc)
			})
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 0, "hours to add (negative moves earlier)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "minutes to add (negative moves earlier)")
	return cmd
}

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the times from before the last shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.UndoBulkShift(); err != nil {
					return err
				}
				return printStatus(cmd, uc)
			})
		},
	}
}

func newWeekdaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekdays",
		Short: "Choose the weekdays check-ins repeat on",
	}

	set := &cobra.Command{
		Use:   "set <day>...",
		Short: "Select exactly the given days (Mon, tu, friday, ...)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := make([]domain.Weekday, 0, len(args))
			for _, a := range args {
				d, err := domain.ParseWeekday(a)
				if err != nil {
					return err
				}
				days = append(days, d)
			}
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.SetWeekdays(days); err != nil {
					return err
				}
				return printRepeat(cmd, uc)
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <day>",
		Short: "Flip one day (the last selected day cannot be removed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseWeekday(args[0])
			if err != nil {
				return err
			}
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.ToggleWeekday(d); err != nil {
					return err
				}
				return printRepeat(cmd, uc)
			})
		},
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Repeat daily",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.SelectAllWeekdays(); err != nil {
					return err
				}
				return printRepeat(cmd, uc)
			})
		},
	}

	cmd.AddCommand(set, toggle, all)
	return cmd
}

func printRepeat(cmd *cobra.Command, uc usecase.CheckInUseCase) error {
	settings, err := uc.Settings()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), settings.Weekdays.RepeatMessage())
	return nil
}

func newPauseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Suspend check-ins for a while",
	}

	hour := &cobra.Command{
		Use:   "hour <H>",
		Short: "Pause until the next time the clock reaches hour H (0-23)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid hour %q", args[0])
			}
			return pauseWith(cmd, func(uc usecase.CheckInUseCase) (domain.PauseState, error) {
				return uc.PauseUntilHour(h)
			})
		},
	}

	days := &cobra.Command{
		Use:   "days <N>",
		Short: fmt.Sprintf("Pause for N days, up to the following full hour (0-%d)", domain.MaxPauseForDays),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day count %q", args[0])
			}
			return pauseWith(cmd, func(uc usecase.CheckInUseCase) (domain.PauseState, error) {
				return uc.PauseForDays(n)
			})
		},
	}

	until := &cobra.Command{
		Use:   "until <RFC3339|YYYY-MM-DD HH:MM>",
		Short: fmt.Sprintf("Pause until a moment within the next %d days", domain.MaxPauseDays),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := appCfg.Location()
			if err != nil {
				return err
			}
			at, err := parseMoment(strings.Join(args, " "), loc)
			if err != nil {
				return err
			}
			return pauseWith(cmd, func(uc usecase.CheckInUseCase) (domain.PauseState, error) {
				return uc.PauseUntil(at)
			})
		},
	}

	cmd.AddCommand(hour, days, until)
	return cmd
}

func pauseWith(cmd *cobra.Command, fn func(uc usecase.CheckInUseCase) (domain.PauseState, error)) error {
	return withUseCase(func(uc usecase.CheckInUseCase) error {
		state, err := fn(uc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), state.Message())
		return nil
	})
}

func parseMoment(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid moment %q (use RFC3339 or YYYY-MM-DD HH:MM)", s)
}

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "End a pause now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				if err := uc.Resume(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Check-ins resumed")
				return nil
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the schedule to other tools",
	}

	var command string
	cron := &cobra.Command{
		Use:   "cron",
		Short: "Print crontab lines that run a command at every check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				settings, err := uc.Settings()
				if err != nil {
					return err
				}
				out, err := crontab.Render(settings, command)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cron.Flags().StringVar(&command, "command", crontab.DefaultCommand, "command each line runs")

	cmd.AddCommand(cron)
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration and stored state",
	}
	cmd.AddCommand(newConfigGetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the configuration and current state (JSON)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUseCase(func(uc usecase.CheckInUseCase) error {
				snap, err := uc.GetSnapshot()
				if err != nil {
					return err
				}

				entries := make([]map[string]any, 0, len(snap.Entries))
				for _, e := range snap.Entries {
					entries = append(entries, map[string]any{
						"id":     e.ID.String(),
						"time":   e.Time.String(),
						"marked": e.Marked,
					})
				}
				weekdays := []string{}
				for _, d := range snap.Weekdays.Selected() {
					weekdays = append(weekdays, d.String())
				}

				// Convert to display format
				display := map[string]any{
					"config": map[string]any{
						"statePath":    appCfg.StatePath,
						"storage":      appCfg.Storage,
						"addr":         appCfg.Addr,
						"timezone":     appCfg.Timezone,
						"tickInterval": appCfg.TickInterval.String(),
						"logLevel":     appCfg.LogLevel,
					},
					"enabled":       snap.Enabled,
					"paused":        snap.Pause.Enabled,
					"weekdays":      weekdays,
					"checkIns":      entries,
					"undoAvailable": snap.UndoAvailable,
				}
				if !snap.Pause.ResumeAt.IsZero() {
					display["resumeAt"] = snap.Pause.ResumeAt.Format(time.RFC3339)
				}

				out, err := json.MarshalIndent(display, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			})
		},
	}
}

func newRemindCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Deliver a check-in reminder now (the target of 'export cron')",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reminderLevel()
			uc, release, err := openUseCase(logReminder())
			if err != nil {
				return err
			}
			defer release()

			sent, err := uc.RemindNow(context.Background(), force)
			if err != nil {
				return err
			}
			if !sent {
				fmt.Fprintln(cmd.OutOrStdout(), "Skipped: check-ins are disabled, paused or not scheduled today")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "remind even when disabled or paused")
	return cmd
}

func shortID(id domain.EntryID) string {
	return id.String()[:8]
}
