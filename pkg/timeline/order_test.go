package timeline

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(min int) time.Time {
	return t0.Add(time.Duration(min) * time.Minute)
}

func types(entries []Entry) []EntryType {
	out := make([]EntryType, len(entries))
	for i, e := range entries {
		out[i] = e.Type
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		typ  EntryType
		want int
	}{
		{DayCrossing, 0},
		{WorkdayStart, 1},
		{WorkdayEnd, 2},
		{ScheduledTask, 3},
		{ScheduledRepeatTaskProjection, 3},
		{CustomEvent, 3},
		{CalendarEvent, 3},
		{Task, 4},
		{TaskPlannedForDay, 5},
		{SplitTask, 6},
		{SplitTaskContinued, 7},
		{SplitTaskContinuedLast, 8},
		{LunchBreak, 9},
		{EntryType("Holiday"), rankUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := Rank(tt.typ); got != tt.want {
				t.Errorf("Rank(%s) = %d, want %d", tt.typ, got, tt.want)
			}
		})
	}
}

func TestIsMoveable(t *testing.T) {
	moveable := []EntryType{Task, SplitTask, SplitTaskContinued, SplitTaskContinuedLast, TaskPlannedForDay}
	fixed := []EntryType{ScheduledTask, ScheduledRepeatTaskProjection, CustomEvent, CalendarEvent,
		WorkdayStart, WorkdayEnd, DayCrossing, LunchBreak, EntryType("Holiday")}
	for _, typ := range moveable {
		if !IsMoveable(typ) {
			t.Errorf("IsMoveable(%s) = false, want true", typ)
		}
	}
	for _, typ := range fixed {
		if IsMoveable(typ) {
			t.Errorf("IsMoveable(%s) = true, want false", typ)
		}
	}
}

func TestSort_TaskAfterWorkdayStartAtSameInstant(t *testing.T) {
	entries := []Entry{
		{ID: "task", Type: Task, Start: at(10)},
		{ID: "start", Type: WorkdayStart, Start: at(10)},
	}
	Sort(entries)
	if entries[0].Type != WorkdayStart || entries[1].Type != Task {
		t.Fatalf("order = %v, want [WorkdayStart Task]", types(entries))
	}
}

func TestSort_TimeBeatsRank(t *testing.T) {
	entries := []Entry{
		{ID: "lunch", Type: LunchBreak, Start: at(5)},
		{ID: "start", Type: WorkdayStart, Start: at(10)},
	}
	Sort(entries)
	if entries[0].ID != "lunch" {
		t.Fatalf("earlier entry should come first regardless of rank, got %v", types(entries))
	}
}

func TestSort_SplitChainInContinuationOrder(t *testing.T) {
	entries := []Entry{
		{ID: "lunch", Type: LunchBreak, Start: at(60)},
		{ID: "last", Type: SplitTaskContinuedLast, Start: at(60)},
		{ID: "cont", Type: SplitTaskContinued, Start: at(60)},
		{ID: "split", Type: SplitTask, Start: at(60)},
		{ID: "planned", Type: TaskPlannedForDay, Start: at(60)},
		{ID: "cal", Type: CalendarEvent, Start: at(60)},
		{ID: "end", Type: WorkdayEnd, Start: at(60)},
	}
	Sort(entries)
	want := []string{"end", "cal", "planned", "split", "cont", "last", "lunch"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("position %d = %s, want %s (full: %v)", i, entries[i].ID, id, types(entries))
		}
	}
}

func TestSort_StableForEqualKeys(t *testing.T) {
	entries := []Entry{
		{ID: "sched", Type: ScheduledTask, Start: at(30)},
		{ID: "custom", Type: CustomEvent, Start: at(30)},
		{ID: "cal", Type: CalendarEvent, Start: at(30)},
	}
	for i := 0; i < 3; i++ {
		Sort(entries)
		if entries[0].ID != "sched" || entries[1].ID != "custom" || entries[2].ID != "cal" {
			t.Fatalf("equal entries reordered on pass %d: %v", i, entries)
		}
	}
}

func TestCompare(t *testing.T) {
	a := Entry{Type: WorkdayStart, Start: at(10)}
	b := Entry{Type: Task, Start: at(10)}
	if Compare(a, b) >= 0 || Compare(b, a) <= 0 {
		t.Error("WorkdayStart should compare before Task at the same time")
	}
	if Compare(a, a) != 0 {
		t.Error("an entry should compare equal to itself")
	}
}
