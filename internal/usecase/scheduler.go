package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkin-manager/internal/domain"
	"checkin-manager/internal/logging"
)

// DefaultTickInterval is how often the daemon loop looks for due check-ins.
const DefaultTickInterval = 30 * time.Second

// CheckInUseCase is the primary port for check-in operations.
// This represents the application's use cases.
type CheckInUseCase interface {
	Start(ctx context.Context)
	GetSnapshot() (domain.Snapshot, error)
	NextCheckIn() (domain.CheckIn, bool, error)
	Settings() (*domain.Settings, error)

	SetEnabled(enabled bool) error
	RemindNow(ctx context.Context, force bool) (bool, error)

	AddEntry() (domain.Entry, error)
	RemoveEntries(refs []string) (int, error)
	RemoveMarked() (int, error)
	RemoveAll() (int, error)
	SetEntryTime(ref string, t domain.WallClockTime) (domain.Entry, error)
	ToggleMarked(refs []string) error
	SortEntries() error

	BulkShift(hours, minutes int) error
	UndoBulkShift() error

	SetWeekdays(days []domain.Weekday) error
	ToggleWeekday(day domain.Weekday) error
	SelectAllWeekdays() error

	PauseUntilHour(hour int) (domain.PauseState, error)
	PauseForDays(days int) (domain.PauseState, error)
	PauseUntil(at time.Time) (domain.PauseState, error)
	Resume() error
}

// Options tune the interactor. Zero values select defaults.
type Options struct {
	Clock        domain.Clock
	Location     *time.Location
	TickInterval time.Duration
}

// checkInInteractor implements CheckInUseCase.
// It depends only on domain layer and secondary ports. Every edit runs
// load, mutate and save under one mutex, so the daemon loop and concurrent
// web requests never interleave.
type checkInInteractor struct {
	repo     domain.SettingsRepository
	reminder domain.Reminder
	service  *domain.CheckInService
	clock    domain.Clock
	loc      *time.Location
	interval time.Duration

	mu sync.Mutex
}

// NewCheckInUseCase creates a new check-in use case.
// Dependencies are injected (secondary ports).
func NewCheckInUseCase(
	repo domain.SettingsRepository,
	reminder domain.Reminder,
	opts Options,
) (CheckInUseCase, error) {
	if repo == nil {
		return nil, errors.New("settings repository is required")
	}
	if reminder == nil {
		return nil, errors.New("reminder is required")
	}
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	// Fail early on unreadable state.
	if _, _, err := repo.Load(); err != nil {
		return nil, err
	}

	return &checkInInteractor{
		repo:     repo,
		reminder: reminder,
		service:  domain.NewCheckInService(),
		clock:    opts.Clock,
		loc:      opts.Location,
		interval: opts.TickInterval,
	}, nil
}

func (s *checkInInteractor) now() time.Time {
	now := s.clock.Now()
	if s.loc != nil {
		now = now.In(s.loc)
	}
	return now
}

// Start begins the daemon loop.
func (s *checkInInteractor) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *checkInInteractor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			s.fire(ctx, last, now)
			last = now
		}
	}
}

// fire delivers every check-in due in (from, to] and returns how many
// reminders succeeded.
func (s *checkInInteractor) fire(ctx context.Context, from, to time.Time) int {
	s.mu.Lock()
	settings, _, err := s.repo.Load()
	s.mu.Unlock()
	if err != nil {
		logging.Errorf("load settings: %v", err)
		return 0
	}

	delivered := 0
	for _, c := range s.service.DueBetween(settings, from, to) {
		// Execute side effect through secondary port
		if err := s.reminder.Remind(ctx, c); err != nil {
			logging.Warnf("reminder for %s failed: %v", c.At.Format(time.RFC3339), err)
			continue
		}
		delivered++
	}
	if delivered > 0 {
		logging.Debugf("delivered %d check-in(s) up to %s", delivered, to.Format(time.RFC3339))
	}
	return delivered
}

// read loads the settings under the lock without saving.
func (s *checkInInteractor) read() (*domain.Settings, domain.ShiftSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Load()
}

// update loads, applies fn and persists. Nothing is saved when fn fails.
func (s *checkInInteractor) update(fn func(settings *domain.Settings, undo *domain.ShiftSnapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, undo, err := s.repo.Load()
	if err != nil {
		return err
	}
	if err := fn(settings, &undo); err != nil {
		return err
	}
	if err := s.repo.Save(settings, undo); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// GetSnapshot returns the current system state.
func (s *checkInInteractor) GetSnapshot() (domain.Snapshot, error) {
	settings, undo, err := s.read()
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.service.Snapshot(settings, undo, s.now()), nil
}

// NextCheckIn reports the next firing instant, if any.
func (s *checkInInteractor) NextCheckIn() (domain.CheckIn, bool, error) {
	settings, _, err := s.read()
	if err != nil {
		return domain.CheckIn{}, false, err
	}
	c, ok := s.service.NextCheckIn(settings, s.now())
	return c, ok, nil
}

// Settings returns a freshly loaded copy of the aggregate.
func (s *checkInInteractor) Settings() (*domain.Settings, error) {
	settings, _, err := s.read()
	return settings, err
}

func (s *checkInInteractor) SetEnabled(enabled bool) error {
	return s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		settings.Enabled = enabled
		return nil
	})
}

// RemindNow delivers one reminder immediately, attributed to the latest
// entry at or before the current time of day. Unless force is set it is
// skipped (false, nil) while check-ins are disabled, paused or the weekday
// is not selected.
func (s *checkInInteractor) RemindNow(ctx context.Context, force bool) (bool, error) {
	settings, _, err := s.read()
	if err != nil {
		return false, err
	}
	now := s.now()
	if !force && !s.service.Eligible(settings, now) {
		logging.Debugf("reminder skipped at %s", now.Format(time.RFC3339))
		return false, nil
	}

	checkIn := domain.CheckIn{At: now}
	current := domain.WallClockFromTime(now)
	found := false
	for _, e := range settings.Schedule.Entries() {
		if e.Time.Before(current) || e.Time.Equal(current) {
			if !found || checkIn.Entry.Time.Before(e.Time) {
				checkIn.Entry = e
				found = true
			}
		}
	}

	// Execute side effect through secondary port
	if err := s.reminder.Remind(ctx, checkIn); err != nil {
		return false, err
	}
	return true, nil
}

func (s *checkInInteractor) AddEntry() (domain.Entry, error) {
	var added domain.Entry
	err := s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		e, err := settings.Schedule.Add()
		added = e
		return err
	})
	return added, err
}

// RemoveEntries resolves every reference before removing anything, so an
// unknown reference leaves the schedule untouched.
func (s *checkInInteractor) RemoveEntries(refs []string) (int, error) {
	removed := 0
	err := s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		ids, err := resolveAll(settings.Schedule, refs)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := settings.Schedule.Remove(id); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

func (s *checkInInteractor) RemoveMarked() (int, error) {
	removed := 0
	err := s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		removed = settings.Schedule.RemoveMarked()
		return nil
	})
	return removed, err
}

func (s *checkInInteractor) RemoveAll() (int, error) {
	removed := 0
	err := s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		removed = settings.Schedule.Len()
		settings.Schedule.RemoveAll()
		return nil
	})
	return removed, err
}

func (s *checkInInteractor) SetEntryTime(ref string, t domain.WallClockTime) (domain.Entry, error) {
	var updated domain.Entry
	err := s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		id, err := settings.Schedule.Resolve(ref)
		if err != nil {
			return err
		}
		if err := settings.Schedule.SetTime(id, t); err != nil {
			return err
		}
		updated, _ = settings.Schedule.Get(id)
		return nil
	})
	return updated, err
}

func (s *checkInInteractor) ToggleMarked(refs []string) error {
	return s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		ids, err := resolveAll(settings.Schedule, refs)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := settings.Schedule.ToggleMarked(id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *checkInInteractor) SortEntries() error {
	return s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		settings.Schedule.SortByTime()
		return nil
	})
}

// BulkShift shifts every entry. The undo snapshot is taken only when none
// is pending, so one undo reverts every shift since the last undo. A zero
// offset or an empty schedule changes nothing.
func (s *checkInInteractor) BulkShift(hours, minutes int) error {
	return s.update(func(settings *domain.Settings, undo *domain.ShiftSnapshot) error {
		if settings.Schedule.Len() == 0 || (hours == 0 && minutes == 0) {
			return nil
		}
		if *undo == nil {
			*undo = settings.Schedule.BulkShiftSnapshot()
		}
		settings.Schedule.BulkShift(hours, minutes)
		return nil
	})
}

// UndoBulkShift restores the stored snapshot and consumes it.
func (s *checkInInteractor) UndoBulkShift() error {
	return s.update(func(settings *domain.Settings, undo *domain.ShiftSnapshot) error {
		if *undo == nil {
			return domain.ErrNoUndo
		}
		settings.Schedule.UndoBulkShift(*undo)
		*undo = nil
		return nil
	})
}

func (s *checkInInteractor) SetWeekdays(days []domain.Weekday) error {
	return s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		for _, d := range days {
			if !d.Valid() {
				return fmt.Errorf("%w: %d", domain.ErrInvalidWeekday, int(d))
			}
		}
		settings.Weekdays = domain.WeekdaySetOf(days...)
		return nil
	})
}

// ToggleWeekday flips one day and refuses to clear the last one.
func (s *checkInInteractor) ToggleWeekday(day domain.Weekday) error {
	return s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		return settings.Weekdays.Toggle(day, true)
	})
}

func (s *checkInInteractor) SelectAllWeekdays() error {
	return s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		settings.Weekdays = domain.NewWeekdaySet(true)
		return nil
	})
}

func (s *checkInInteractor) PauseUntilHour(hour int) (domain.PauseState, error) {
	if hour < 0 || hour > 23 {
		return domain.PauseState{}, fmt.Errorf("hour must be between 0 and 23, got %d", hour)
	}
	return s.pause(domain.ResumeAtNextHour(hour, s.now()))
}

func (s *checkInInteractor) PauseForDays(days int) (domain.PauseState, error) {
	if days < 0 || days > domain.MaxPauseForDays {
		return domain.PauseState{}, fmt.Errorf("days must be between 0 and %d, got %d", domain.MaxPauseForDays, days)
	}
	return s.pause(domain.ResumeAfterDays(days, s.now()))
}

// PauseUntil pauses until at, clamped into the allowed window.
func (s *checkInInteractor) PauseUntil(at time.Time) (domain.PauseState, error) {
	return s.pause(domain.ClampResume(at, s.now()))
}

func (s *checkInInteractor) pause(resumeAt time.Time) (domain.PauseState, error) {
	state := domain.PauseState{Enabled: true, ResumeAt: resumeAt}
	err := s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		settings.Pause = state
		return nil
	})
	if err != nil {
		return domain.PauseState{}, err
	}
	logging.Infof("check-ins paused until %s", resumeAt.Format(time.RFC3339))
	return state, nil
}

// Resume clears the pause but keeps the last resume instant for display.
func (s *checkInInteractor) Resume() error {
	return s.update(func(settings *domain.Settings, _ *domain.ShiftSnapshot) error {
		settings.Pause.Enabled = false
		return nil
	})
}

func resolveAll(schedule *domain.Schedule, refs []string) ([]domain.EntryID, error) {
	ids := make([]domain.EntryID, 0, len(refs))
	seen := make(map[domain.EntryID]bool, len(refs))
	for _, ref := range refs {
		id, err := schedule.Resolve(ref)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
