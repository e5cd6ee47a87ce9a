package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Schedule owns the check-in entries. Entries live in an arena keyed by
// EntryID; order holds the insertion order, which is not necessarily
// sorted by time.
//
// Schedule does no locking: callers serialize every mutation.
type Schedule struct {
	entries map[EntryID]Entry
	order   []EntryID
}

// ShiftSnapshot records seconds-of-day per position before a bulk shift.
type ShiftSnapshot []int

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{entries: make(map[EntryID]Entry)}
}

// RestoreSchedule rebuilds a schedule from persisted entries in the given
// order. Missing or duplicate IDs are replaced with fresh ones.
func RestoreSchedule(entries []Entry) (*Schedule, error) {
	if len(entries) > MaxEntries {
		return nil, fmt.Errorf("%w: %d entries stored", ErrCapacity, len(entries))
	}
	s := NewSchedule()
	for _, e := range entries {
		if _, dup := s.entries[e.ID]; dup || e.ID == uuid.Nil {
			e.ID = NewEntryID()
		}
		s.insert(e)
	}
	return s, nil
}

func (s *Schedule) insert(e Entry) {
	s.entries[e.ID] = e
	s.order = append(s.order, e.ID)
}

func (s *Schedule) Len() int {
	return len(s.order)
}

// Entries returns copies of all entries in insertion order.
func (s *Schedule) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Get returns the entry with the given id.
func (s *Schedule) Get(id EntryID) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Latest returns the entry with the greatest seconds-of-day.
func (s *Schedule) Latest() (Entry, bool) {
	return s.extreme(func(a, b WallClockTime) bool { return b.Before(a) })
}

// Earliest returns the entry with the smallest seconds-of-day.
func (s *Schedule) Earliest() (Entry, bool) {
	return s.extreme(func(a, b WallClockTime) bool { return a.Before(b) })
}

func (s *Schedule) extreme(better func(a, b WallClockTime) bool) (Entry, bool) {
	var best Entry
	found := false
	for _, id := range s.order {
		e := s.entries[id]
		if !found || better(e.Time, best.Time) {
			best = e
			found = true
		}
	}
	return best, found
}

// Add appends a new entry. The first entry defaults to 13:00; later ones
// follow the latest existing time by one hour, or by one minute once the
// latest entry is at 17:00 or after.
func (s *Schedule) Add() (Entry, error) {
	if s.Len() >= MaxEntries {
		return Entry{}, fmt.Errorf("%w: limit is %d per day", ErrCapacity, MaxEntries)
	}
	t := NewWallClockTime(13, 0, 0)
	if latest, ok := s.Latest(); ok {
		if latest.Time.Hour() < 17 {
			t = latest.Time.Shifted(1, 0)
		} else {
			t = latest.Time.Shifted(0, 1)
		}
	}
	e := Entry{ID: NewEntryID(), Time: t}
	s.insert(e)
	return e, nil
}

// SetTime replaces the time of one entry.
func (s *Schedule) SetTime(id EntryID, t WallClockTime) error {
	e, ok := s.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	e.Time = t
	s.entries[id] = e
	return nil
}

// SetMarked sets the bulk-selection flag of one entry.
func (s *Schedule) SetMarked(id EntryID, marked bool) error {
	e, ok := s.entries[id]
	if !ok {
		return ErrEntryNotFound
	}
	e.Marked = marked
	s.entries[id] = e
	return nil
}

// ToggleMarked flips the bulk-selection flag and returns the new value.
func (s *Schedule) ToggleMarked(id EntryID) (bool, error) {
	e, ok := s.entries[id]
	if !ok {
		return false, ErrEntryNotFound
	}
	e.Marked = !e.Marked
	s.entries[id] = e
	return e.Marked, nil
}

func (s *Schedule) MarkedCount() int {
	n := 0
	for _, e := range s.entries {
		if e.Marked {
			n++
		}
	}
	return n
}

// Remove deletes one entry.
func (s *Schedule) Remove(id EntryID) error {
	if _, ok := s.entries[id]; !ok {
		return ErrEntryNotFound
	}
	s.removeWhere(func(e Entry) bool { return e.ID == id })
	return nil
}

// RemoveAll deletes every entry.
func (s *Schedule) RemoveAll() {
	s.entries = make(map[EntryID]Entry)
	s.order = nil
}

// RemoveMarked deletes the marked entries and returns how many were removed.
func (s *Schedule) RemoveMarked() int {
	return s.removeWhere(func(e Entry) bool { return e.Marked })
}

func (s *Schedule) removeWhere(match func(Entry) bool) int {
	kept := s.order[:0]
	removed := 0
	for _, id := range s.order {
		if match(s.entries[id]) {
			delete(s.entries, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// SortByTime stable-sorts the entries by time of day and clears every
// marked flag.
func (s *Schedule) SortByTime() {
	sort.SliceStable(s.order, func(i, j int) bool {
		return s.entries[s.order[i]].Time.Before(s.entries[s.order[j]].Time)
	})
	for id, e := range s.entries {
		e.Marked = false
		s.entries[id] = e
	}
}

// IsOutOfOrder reports whether insertion order is not ascending by time.
func (s *Schedule) IsOutOfOrder() bool {
	prev := -1
	for _, id := range s.order {
		cur := s.entries[id].Time.SecondsOfDay()
		if prev > cur {
			return true
		}
		prev = cur
	}
	return false
}

// Conflicts returns the ids of entries lying within MinSpacingSeconds of
// another entry. Both members of a too-close pair are reported.
func (s *Schedule) Conflicts() map[EntryID]bool {
	out := make(map[EntryID]bool)
	entries := s.Entries()
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if tooClose(entries[i], entries[j]) {
				out[entries[i].ID] = true
				out[entries[j].ID] = true
			}
		}
	}
	return out
}

// IsTooClose reports whether the entry is part of a too-close pair.
func (s *Schedule) IsTooClose(id EntryID) bool {
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	for _, other := range s.entries {
		if other.ID != id && tooClose(e, other) {
			return true
		}
	}
	return false
}

// BulkShiftSnapshot captures every entry's seconds-of-day in insertion
// order so a later bulk shift can be undone.
func (s *Schedule) BulkShiftSnapshot() ShiftSnapshot {
	snap := make(ShiftSnapshot, 0, len(s.order))
	for _, id := range s.order {
		snap = append(snap, s.entries[id].Time.SecondsOfDay())
	}
	return snap
}

// BulkShift moves every entry by the given hours and minutes. It does
// nothing when the schedule is empty or both offsets are zero.
func (s *Schedule) BulkShift(hours, minutes int) {
	if s.Len() == 0 || (hours == 0 && minutes == 0) {
		return
	}
	for id, e := range s.entries {
		e.Time = e.Time.Shifted(hours, minutes)
		s.entries[id] = e
	}
}

// UndoBulkShift restores times by position from snap. Entries are appended
// or trimmed from the end until the count matches, then every entry gets
// its snapshot time and an unmarked flag. Positions past MaxEntries are
// ignored.
func (s *Schedule) UndoBulkShift(snap ShiftSnapshot) {
	if len(snap) > MaxEntries {
		snap = snap[:MaxEntries]
	}
	for s.Len() < len(snap) {
		s.insert(Entry{ID: NewEntryID()})
	}
	for s.Len() > len(snap) {
		last := s.order[len(s.order)-1]
		delete(s.entries, last)
		s.order = s.order[:len(s.order)-1]
	}
	for i, id := range s.order {
		s.entries[id] = Entry{ID: id, Time: WallClockFromSecondsOfDay(snap[i])}
	}
}

// Resolve finds an entry by "#n" (1-based position) or by a unique prefix
// of its id.
func (s *Schedule) Resolve(ref string) (EntryID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if strings.HasPrefix(ref, "#") {
		n, err := strconv.Atoi(ref[1:])
		if err != nil || n < 1 || n > s.Len() {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrEntryNotFound, ref)
		}
		return s.order[n-1], nil
	}
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: empty reference", ErrEntryNotFound)
	}
	var match EntryID
	found := 0
	for _, id := range s.order {
		if strings.HasPrefix(id.String(), ref) {
			match = id
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s", ErrEntryNotFound, ref)
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
	}
}
