package reminder

import (
	"errors"
	"testing"
	"time"
)

func TestReminderValidate(t *testing.T) {
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		r       Reminder
		wantErr error
	}{
		{"valid task", Reminder{Title: "Buy milk", Type: TypeTask, DueAt: due}, nil},
		{"valid recurring note", Reminder{Title: "Water plants", Type: TypeNote, DueAt: due, Recurrence: "0 9 * * 1"}, nil},
		{"blank title", Reminder{Title: "  ", Type: TypeTask, DueAt: due}, ErrEmptyTitle},
		{"unknown type", Reminder{Title: "x", Type: "EVENT", DueAt: due}, ErrInvalidType},
		{"missing due", Reminder{Title: "x", Type: TypeTask}, ErrMissingDueAt},
		{"six field cron", Reminder{Title: "x", Type: TypeTask, DueAt: due, Recurrence: "0 0 9 * * 1"}, ErrInvalidCron},
		{"garbage cron", Reminder{Title: "x", Type: TypeTask, DueAt: due, Recurrence: "every monday"}, ErrInvalidCron},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSortOldestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rs := []Reminder{
		{ID: "c", DueAt: base.Add(time.Hour)},
		{ID: "b", DueAt: base},
		{ID: "a", DueAt: base},
	}
	SortOldestFirst(rs)
	got := DueBatch(rs).IDs()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if DueBatch(rs).Oldest().ID != "a" {
		t.Errorf("Oldest = %s, want a", DueBatch(rs).Oldest().ID)
	}
}

func TestNextOccurrence(t *testing.T) {
	from := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday
	next, err := NextOccurrence("0 9 * * *", from)
	if err != nil {
		t.Fatalf("NextOccurrence: %v", err)
	}
	want := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}
