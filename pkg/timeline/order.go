package timeline

import "sort"

// rankUnknown places kinds missing from the table after every known kind.
const rankUnknown = 10

var typeOrder = map[EntryType]int{
	DayCrossing:                   0,
	WorkdayStart:                  1,
	WorkdayEnd:                    2,
	ScheduledTask:                 3,
	ScheduledRepeatTaskProjection: 3,
	CustomEvent:                   3,
	CalendarEvent:                 3,
	Task:                          4,
	TaskPlannedForDay:             5,
	SplitTask:                     6,
	SplitTaskContinued:            7,
	SplitTaskContinuedLast:        8,
	LunchBreak:                    9,
}

var moveableTypes = map[EntryType]struct{}{
	Task:                   {},
	SplitTask:              {},
	SplitTaskContinued:     {},
	SplitTaskContinuedLast: {},
	TaskPlannedForDay:      {},
}

// Rank returns the tie-break rank of t. Lower ranks come first.
func Rank(t EntryType) int {
	if r, ok := typeOrder[t]; ok {
		return r
	}
	return rankUnknown
}

// IsMoveable reports whether entries of type t may be dragged in a timeline.
func IsMoveable(t EntryType) bool {
	_, ok := moveableTypes[t]
	return ok
}

// Compare orders a before b by start time, then by rank. It returns a
// negative number, zero or a positive number like strings.Compare.
func Compare(a, b Entry) int {
	switch {
	case a.Start.Before(b.Start):
		return -1
	case a.Start.After(b.Start):
		return 1
	}
	return Rank(a.Type) - Rank(b.Type)
}

// Sort orders entries in place. Entries that compare equal keep their
// input order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(entries[i], entries[j]) < 0
	})
}
