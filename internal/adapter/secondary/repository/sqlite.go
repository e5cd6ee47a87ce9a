package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"checkin-manager/internal/domain"
	"checkin-manager/internal/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteRepository implements domain.SettingsRepository on a SQLite file.
// This is a secondary adapter.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (and migrates) the database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writes serialized inside the driver.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetLogger(gooseLogger{})
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load reads the settings row and the ordered check-ins.
func (r *SQLiteRepository) Load() (*domain.Settings, domain.ShiftSnapshot, error) {
	settings := domain.DefaultSettings()

	var (
		enabled, paused    bool
		resumeAt, weekdays string
		bulkUndo           sql.NullString
	)
	err := r.db.QueryRow(`SELECT enabled, paused, resume_at, weekdays, bulk_undo FROM settings WHERE id = 1`).
		Scan(&enabled, &paused, &resumeAt, &weekdays, &bulkUndo)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query settings: %w", err)
	}

	settings.Enabled = enabled
	settings.Pause.Enabled = paused
	if resumeAt != "" {
		t, err := time.Parse(time.RFC3339, resumeAt)
		if err != nil {
			return nil, nil, fmt.Errorf("parse resume_at: %w", err)
		}
		settings.Pause.ResumeAt = t
	}
	set, err := parseWeekdays(splitList(weekdays))
	if err != nil {
		return nil, nil, err
	}
	settings.Weekdays = set

	entries, err := r.loadEntries()
	if err != nil {
		return nil, nil, err
	}
	schedule, err := domain.RestoreSchedule(entries)
	if err != nil {
		return nil, nil, err
	}
	settings.Schedule = schedule

	var undo domain.ShiftSnapshot
	if bulkUndo.Valid {
		undo = domain.ShiftSnapshot{}
		for _, s := range splitList(bulkUndo.String) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, nil, fmt.Errorf("parse bulk_undo: %w", err)
			}
			undo = append(undo, n)
		}
	}
	return settings, undo, nil
}

func (r *SQLiteRepository) loadEntries() ([]domain.Entry, error) {
	rows, err := r.db.Query(`SELECT id, seconds_of_day, marked FROM check_ins ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query check_ins: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var (
			id     string
			secs   int
			marked bool
		)
		if err := rows.Scan(&id, &secs, &marked); err != nil {
			return nil, fmt.Errorf("scan check_in: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse check in id %q: %w", id, err)
		}
		entries = append(entries, domain.Entry{
			ID:     parsed,
			Time:   domain.WallClockFromSecondsOfDay(secs),
			Marked: marked,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check_ins: %w", err)
	}
	return entries, nil
}

// Save replaces the stored settings in one transaction.
func (r *SQLiteRepository) Save(settings *domain.Settings, undo domain.ShiftSnapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	resumeAt := ""
	if !settings.Pause.ResumeAt.IsZero() {
		resumeAt = settings.Pause.ResumeAt.Format(time.RFC3339)
	}
	var bulkUndo sql.NullString
	if undo != nil {
		parts := make([]string, 0, len(undo))
		for _, n := range undo {
			parts = append(parts, strconv.Itoa(n))
		}
		bulkUndo = sql.NullString{String: strings.Join(parts, ","), Valid: true}
	}

	_, err = tx.Exec(`
        INSERT INTO settings (id, enabled, paused, resume_at, weekdays, bulk_undo)
        VALUES (1, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            enabled = excluded.enabled,
            paused = excluded.paused,
            resume_at = excluded.resume_at,
            weekdays = excluded.weekdays,
            bulk_undo = excluded.bulk_undo
    `, settings.Enabled, settings.Pause.Enabled, resumeAt,
		strings.Join(weekdayNames(settings.Weekdays), ","), bulkUndo)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM check_ins`); err != nil {
		return fmt.Errorf("clear check_ins: %w", err)
	}
	for i, e := range settings.Schedule.Entries() {
		_, err := tx.Exec(`INSERT INTO check_ins (position, id, seconds_of_day, marked) VALUES (?, ?, ?, ?)`,
			i, e.ID.String(), e.Time.SecondsOfDay(), e.Marked)
		if err != nil {
			return fmt.Errorf("save check_in: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// gooseLogger routes migration output through the application logger.
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logging.Errorf("goose: "+format, v...)
}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logging.Debugf("goose: "+strings.TrimSuffix(format, "\n"), v...)
}
