package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"checkin-manager/internal/domain"
)

// persistedData represents the document written by FileRepository.
type persistedData struct {
	Enabled       bool             `json:"enabled" yaml:"enabled" toml:"enabled"`
	Paused        bool             `json:"paused" yaml:"paused" toml:"paused"`
	ResumeAt      string           `json:"resumeAt,omitempty" yaml:"resumeAt,omitempty" toml:"resumeAt,omitempty"`
	Weekdays      []string         `json:"weekdays" yaml:"weekdays" toml:"weekdays"`
	CheckIns      []persistedEntry `json:"checkIns" yaml:"checkIns" toml:"checkIns"`
	UndoAvailable bool             `json:"undoAvailable" yaml:"undoAvailable" toml:"undoAvailable"`
	BulkUndo      []int            `json:"bulkUndo,omitempty" yaml:"bulkUndo,omitempty" toml:"bulkUndo,omitempty"`
}

type persistedEntry struct {
	ID     string `json:"id" yaml:"id" toml:"id"`
	Time   string `json:"time" yaml:"time" toml:"time"`
	Marked bool   `json:"marked,omitempty" yaml:"marked,omitempty" toml:"marked,omitempty"`
}

func toPersisted(settings *domain.Settings, undo domain.ShiftSnapshot) persistedData {
	p := persistedData{
		Enabled:       settings.Enabled,
		Paused:        settings.Pause.Enabled,
		Weekdays:      weekdayNames(settings.Weekdays),
		CheckIns:      []persistedEntry{},
		UndoAvailable: undo != nil,
		BulkUndo:      undo,
	}
	if !settings.Pause.ResumeAt.IsZero() {
		p.ResumeAt = settings.Pause.ResumeAt.Format(time.RFC3339)
	}
	for _, e := range settings.Schedule.Entries() {
		p.CheckIns = append(p.CheckIns, persistedEntry{
			ID:     e.ID.String(),
			Time:   e.Time.String(),
			Marked: e.Marked,
		})
	}
	return p
}

func fromPersisted(p persistedData) (*domain.Settings, domain.ShiftSnapshot, error) {
	settings := domain.DefaultSettings()
	settings.Enabled = p.Enabled
	settings.Pause.Enabled = p.Paused

	if p.ResumeAt != "" {
		t, err := time.Parse(time.RFC3339, p.ResumeAt)
		if err != nil {
			return nil, nil, fmt.Errorf("parse resumeAt: %w", err)
		}
		settings.Pause.ResumeAt = t
	}

	// A document without the key predates weekday selection: keep all days.
	if p.Weekdays != nil {
		set, err := parseWeekdays(p.Weekdays)
		if err != nil {
			return nil, nil, err
		}
		settings.Weekdays = set
	}

	entries := make([]domain.Entry, 0, len(p.CheckIns))
	for _, pe := range p.CheckIns {
		e, err := entryFromStrings(pe.ID, pe.Time, pe.Marked)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, e)
	}
	schedule, err := domain.RestoreSchedule(entries)
	if err != nil {
		return nil, nil, err
	}
	settings.Schedule = schedule

	var undo domain.ShiftSnapshot
	if p.UndoAvailable {
		undo = append(domain.ShiftSnapshot{}, p.BulkUndo...)
	}
	return settings, undo, nil
}

func weekdayNames(set domain.WeekdaySet) []string {
	names := []string{}
	for _, d := range set.Selected() {
		names = append(names, d.String())
	}
	return names
}

func parseWeekdays(names []string) (domain.WeekdaySet, error) {
	var set domain.WeekdaySet
	for _, n := range names {
		d, err := domain.ParseWeekday(n)
		if err != nil {
			return set, err
		}
		set.Set(d, true)
	}
	return set, nil
}

func entryFromStrings(id, clock string, marked bool) (domain.Entry, error) {
	t, err := domain.ParseWallClockTime(clock)
	if err != nil {
		return domain.Entry{}, err
	}
	e := domain.Entry{Time: t, Marked: marked}
	if id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("parse check in id %q: %w", id, err)
		}
		e.ID = parsed
	}
	return e, nil
}
