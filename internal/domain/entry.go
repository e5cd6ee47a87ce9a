package domain

import "github.com/google/uuid"

const (
	// MaxEntries caps how many check-ins a single day may hold.
	MaxEntries = 30
	// MinSpacingSeconds is the advisory minimum gap between two check-ins.
	MinSpacingSeconds = 10 * 60
)

// EntryID identifies a schedule slot independently of its time value.
type EntryID = uuid.UUID

// NewEntryID generates a fresh random identifier.
func NewEntryID() EntryID {
	return uuid.New()
}

// Entry is one scheduled check-in time. Marked is a transient flag used to
// batch-select entries for deletion.
type Entry struct {
	ID     EntryID
	Time   WallClockTime
	Marked bool
}

// ConflictsWithAny reports whether another entry precedes e by less than
// MinSpacingSeconds. Later entries are treated as belonging to the previous
// day, so the check is one-directional per pair. Entries sharing e's ID are
// skipped.
func (e Entry) ConflictsWithAny(others []Entry) bool {
	self := e.Time.SecondsOfDay()
	for _, o := range others {
		if o.ID == e.ID {
			continue
		}
		other := o.Time.SecondsOfDay()
		if other > self {
			other -= secondsPerDay
		}
		if self-other < MinSpacingSeconds {
			return true
		}
	}
	return false
}

// tooClose is the symmetric form of ConflictsWithAny for a single pair.
func tooClose(a, b Entry) bool {
	return a.ConflictsWithAny([]Entry{b}) || b.ConflictsWithAny([]Entry{a})
}
