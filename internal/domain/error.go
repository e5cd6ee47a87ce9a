package domain

import "errors"

var (
	// ErrCapacity indicates that the schedule already holds MaxEntries entries.
	ErrCapacity = errors.New("can not create more than 30 check ins per day")

	// ErrEmptySelection indicates an attempt to deselect the last weekday.
	ErrEmptySelection = errors.New("the custom weekdays list cannot be empty")

	// ErrEntryNotFound indicates that no entry matches the given reference.
	ErrEntryNotFound = errors.New("check in not found")

	// ErrAmbiguousID indicates that an id prefix matches several entries.
	ErrAmbiguousID = errors.New("check in reference is ambiguous")

	// ErrInvalidTime indicates a malformed time of day.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrInvalidWeekday indicates an unknown weekday name or ordinal.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrNoUndo indicates that no bulk shift snapshot is stored.
	ErrNoUndo = errors.New("no bulk edit to undo")
)
