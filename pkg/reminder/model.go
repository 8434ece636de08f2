// Package reminder holds the reminder model, its SQLite-backed store and the
// poller that turns stored reminders into batches of currently due ones.
package reminder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Type classifies what a reminder points at.
type Type string

const (
	TypeTask Type = "TASK"
	TypeNote Type = "NOTE"
)

// Valid reports whether t is a known reminder type.
func (t Type) Valid() bool {
	return t == TypeTask || t == TypeNote
}

var (
	ErrNotFound      = errors.New("reminder not found")
	ErrEmptyTitle    = errors.New("reminder title is empty")
	ErrInvalidType   = errors.New("invalid reminder type")
	ErrMissingDueAt  = errors.New("reminder due time is not set")
	ErrInvalidCron   = errors.New("invalid recurrence expression")
	ErrNoOccurrences = errors.New("recurrence has no occurrence within a year")
)

// Reminder is a snapshot of a stored reminder. The scheduler only reads it.
type Reminder struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Type  Type      `json:"type"`
	DueAt time.Time `json:"dueAt"`
	// RelatedID is the task or note the reminder belongs to, if any.
	RelatedID string `json:"relatedId,omitempty"`
	// Recurrence is a 5-field cron expression. Empty means one-shot.
	Recurrence string `json:"recurrence,omitempty"`
}

// IsRecurring reports whether the reminder re-arms after being done.
func (r *Reminder) IsRecurring() bool {
	return r.Recurrence != ""
}

// Validate checks the fields a reminder needs before it can be stored.
func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}
	if r.DueAt.IsZero() {
		return ErrMissingDueAt
	}
	if r.Recurrence != "" {
		return ValidateRecurrence(r.Recurrence)
	}
	return nil
}

// DueBatch is every reminder due at one evaluation tick, oldest first.
type DueBatch []Reminder

// Oldest returns the first reminder of the batch. The batch must not be empty.
func (b DueBatch) Oldest() Reminder {
	return b[0]
}

// IDs returns the reminder ids in batch order.
func (b DueBatch) IDs() []string {
	ids := make([]string, len(b))
	for i, r := range b {
		ids[i] = r.ID
	}
	return ids
}

// SortOldestFirst orders reminders by due time, breaking ties by id so that
// repeated evaluations yield the same batch order.
func SortOldestFirst(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].DueAt.Equal(rs[j].DueAt) {
			return rs[i].DueAt.Before(rs[j].DueAt)
		}
		return rs[i].ID < rs[j].ID
	})
}
