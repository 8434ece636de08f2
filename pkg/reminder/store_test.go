package reminder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "reminders.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestSQLiteStore_AddGetList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	later := &Reminder{Title: "Stand-up", Type: TypeTask, DueAt: base.Add(time.Hour), RelatedID: "task-1"}
	sooner := &Reminder{ID: "fixed", Title: "Call mom", Type: TypeNote, DueAt: base}
	for _, r := range []*Reminder{later, sooner} {
		if err := s.Add(ctx, r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if later.ID == "" {
		t.Fatal("Add should assign an id")
	}

	got, err := s.Get(ctx, later.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Stand-up" || got.Type != TypeTask || got.RelatedID != "task-1" || !got.DueAt.Equal(later.DueAt) {
		t.Errorf("Get returned %+v", got)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "fixed" || all[1].ID != later.ID {
		t.Errorf("List order wrong: %+v", all)
	}
}

func TestSQLiteStore_AddRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	err := s.Add(context.Background(), &Reminder{Type: TypeTask, DueAt: time.Now()})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestSQLiteStore_Due(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	add := func(id string, due time.Time) {
		t.Helper()
		if err := s.Add(ctx, &Reminder{ID: id, Title: id, Type: TypeTask, DueAt: due}); err != nil {
			t.Fatalf("Add %s: %v", id, err)
		}
	}
	add("late", now.Add(-time.Minute))
	add("oldest", now.Add(-time.Hour))
	add("exact", now)
	add("future", now.Add(time.Minute))

	batch, err := s.Due(ctx, now)
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	ids := batch.IDs()
	want := []string{"oldest", "late", "exact"}
	if len(ids) != len(want) {
		t.Fatalf("Due = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Due = %v, want %v", ids, want)
		}
	}
}

func TestSQLiteStore_SnoozeAndRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Add(ctx, &Reminder{ID: "r1", Title: "x", Type: TypeTask, DueAt: now}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Snooze(ctx, "r1", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	batch, _ := s.Due(ctx, now)
	if len(batch) != 0 {
		t.Errorf("snoozed reminder still due: %v", batch.IDs())
	}
	if err := s.Remove(ctx, "r1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove: expected ErrNotFound, got %v", err)
	}
	if err := s.Snooze(ctx, "missing", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("Snooze missing: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get removed: expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Done(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := s.Add(ctx, &Reminder{ID: "once", Title: "once", Type: TypeTask, DueAt: now}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(ctx, &Reminder{ID: "daily", Title: "daily", Type: TypeTask, DueAt: now, Recurrence: "0 9 * * *"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	r, err := s.Done(ctx, "once", now)
	if err != nil || r != nil {
		t.Fatalf("Done one-shot = %v, %v; want nil, nil", r, err)
	}
	if _, err := s.Get(ctx, "once"); !errors.Is(err, ErrNotFound) {
		t.Errorf("one-shot reminder should be deleted, got %v", err)
	}

	r, err = s.Done(ctx, "daily", now)
	if err != nil {
		t.Fatalf("Done recurring: %v", err)
	}
	want := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	if r == nil || !r.DueAt.Equal(want) {
		t.Fatalf("re-armed reminder = %+v, want due %v", r, want)
	}
	stored, err := s.Get(ctx, "daily")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !stored.DueAt.Equal(want) {
		t.Errorf("stored due = %v, want %v", stored.DueAt, want)
	}
}
