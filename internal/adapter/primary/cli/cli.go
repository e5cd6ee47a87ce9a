package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"checkin-manager/internal/adapter/primary/web"
	"checkin-manager/internal/adapter/secondary/reminder"
	"checkin-manager/internal/adapter/secondary/repository"
	"checkin-manager/internal/config"
	"checkin-manager/internal/domain"
	"checkin-manager/internal/logging"
	"checkin-manager/internal/usecase"
)

var (
	cfgPath   string
	statePath string
	verbosity int

	// sessionVerbosity survives between shell lines; every line builds a
	// fresh root command, which resets verbosity.
	sessionVerbosity int

	appCfg *config.AppConfig
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "checkin-manager",
		Short:         "Schedule daily check-in reminders",
		Long:          "Scheduler + Web UI + CLI for a daily list of check-in times with weekday selection and pauses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "application config file")
	cmd.PersistentFlags().StringVar(&statePath, "state", "", "state file (overrides state_path from the config)")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging (-v, -vv, ... up to 4)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if statePath != "" {
			cfg.StatePath = statePath
		}
		appCfg = cfg

		v := verbosity
		if v == 0 {
			v = sessionVerbosity
		}
		if v > 0 {
			logging.SetVerbosity(v)
			return nil
		}
		return logging.SetLevel(cfg.LogLevel)
	}

	cmd.AddCommand(
		newDaemonCmd(),
		newWebCmd(),
		newServeCmd(),
		newShellCmd(),
		newStatusCmd(),
		newEnableCmd(true),
		newEnableCmd(false),
		newEntryCmd(),
		newShiftCmd(),
		newUndoCmd(),
		newWeekdaysCmd(),
		newPauseCmd(),
		newResumeCmd(),
		newExportCmd(),
		newConfigCmd(),
		newRemindCmd(),
	)

	return cmd
}

// openUseCase wires the configured repository and rem into the use case.
// The returned func releases the repository.
func openUseCase(rem domain.Reminder) (usecase.CheckInUseCase, func(), error) {
	if appCfg == nil {
		return nil, nil, errors.New("configuration not loaded")
	}

	var (
		repo    domain.SettingsRepository
		release = func() {}
	)
	switch appCfg.Storage {
	case config.StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(appCfg.StatePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create state dir: %w", err)
		}
		db, err := repository.NewSQLiteRepository(appCfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		repo = db
		release = func() { _ = db.Close() }
	default:
		file, err := repository.NewOSFileRepository(appCfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		repo = file
	}

	loc, err := appCfg.Location()
	if err != nil {
		release()
		return nil, nil, err
	}
	uc, err := usecase.NewCheckInUseCase(repo, rem, usecase.Options{
		Location:     loc,
		TickInterval: appCfg.TickInterval,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	logging.Debugf("state: %s (%s)", appCfg.StatePath, appCfg.Storage)
	return uc, release, nil
}

func logReminder() domain.Reminder {
	return reminder.NewLogReminder(logging.L())
}

// reminderLevel makes due check-ins visible unless the user asked for
// more (or less) output explicitly.
func reminderLevel() {
	if verbosity == 0 && sessionVerbosity == 0 && logging.Verbosity() < 1 {
		logging.SetVerbosity(1)
	}
}

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the scheduler only (no web server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			reminderLevel()
			uc, release, err := openUseCase(logReminder())
			if err != nil {
				return err
			}
			defer release()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Check-in Manager daemon started")
			logging.Infof("Scheduler daemon started (tick %s)", appCfg.TickInterval)
			uc.Start(ctx)

			<-ctx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon shutting down...")
			logging.Sync()
			return nil
		},
	}
}

func newWebCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Run the Web UI and REST API only (no scheduler)",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, release, err := openUseCase(reminder.NewNoopReminder())
			if err != nil {
				return err
			}
			defer release()

			if !cmd.Flags().Changed("addr") {
				addr = appCfg.Addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Check-in Manager Web UI running at http://%s\n", addr)
			logging.Infof("Web UI: http://%s (scheduler disabled)", addr)
			return serveUntilDone(ctx, web.NewServer(uc, addr, appCfg.AllowOrigins))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "HTTP listen address:port")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run both the Web UI and the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			reminderLevel()
			uc, release, err := openUseCase(logReminder())
			if err != nil {
				return err
			}
			defer release()

			if !cmd.Flags().Changed("addr") {
				addr = appCfg.Addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			// Start scheduler
			uc.Start(ctx)

			fmt.Fprintf(cmd.OutOrStdout(), "Check-in Manager UI running at http://%s\n", addr)
			logging.Infof("Check-in Manager UI: http://%s", addr)
			return serveUntilDone(ctx, web.NewServer(uc, addr, appCfg.AllowOrigins))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "HTTP listen address:port")
	return cmd
}

func serveUntilDone(ctx context.Context, srv *web.Server) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell that runs subcommands",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the editor sorts the list once; later edits keep their order.
			uc, release, err := openUseCase(reminder.NewNoopReminder())
			if err != nil {
				return err
			}
			err = uc.SortEntries()
			release()
			if err != nil {
				return err
			}
			return runInteractiveShell(prompt, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "checkin> ", "shell prompt")
	return cmd
}

func runInteractiveShell(prompt string, out io.Writer) error {
	historyFile := filepath.Join(os.TempDir(), "checkin-manager-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity = logging.Verbosity()
	fmt.Fprintln(out, "Interactive shell. Type 'help' for usage, 'exit' to quit.")

	// Global flags given to `shell` apply to every line.
	base := []string{"--config", cfgPath}
	if statePath != "" {
		base = append(base, "--state", statePath)
	}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "help":
			printShellHelp(out)
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], out); err != nil {
				fmt.Fprintf(out, "log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Fprintln(out, "Already inside the shell. Enter another command or 'exit'.")
			continue
		}

		if err := executeArgs(append(append([]string{}, base...), tokens...), out); err != nil {
			fmt.Fprintf(out, "command error: %v\n", err)
		}
	}
}

func executeArgs(args []string, out io.Writer) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetOut(out)
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		sessionVerbosity = count
	case vcount > 0:
		sessionVerbosity = vcount
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(sessionVerbosity)
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  status                      # show the schedule
  enable / disable            # turn check-ins on or off
  entry add                   # add a check-in time
  entry set #1 9:30           # change the first time
  entry mark #2 #3            # toggle marks
  entry rm --marked           # remove marked times
  entry sort                  # sort by time (clears marks)
  shift --hours 1 --minutes=-15
  undo                        # undo the last shift
  weekdays set Mon Wed Fri    # choose weekdays
  weekdays toggle Sat
  pause hour 7                # pause until 7 am
  pause days 2                # pause for two days
  resume
  export cron                 # print crontab lines
  log -vv                     # more logging
  log --show                  # show the log level
  exit / quit                 # leave the shell`)
}
