// Package timeline orders heterogeneous schedulable entries (tasks, split
// tasks, calendar events, workday boundaries, breaks) into one display
// sequence and classifies which of them a user may reorder.
package timeline

import "time"

// EntryType tags the variant of an Entry.
type EntryType string

const (
	Task                          EntryType = "Task"
	TaskPlannedForDay             EntryType = "TaskPlannedForDay"
	ScheduledTask                 EntryType = "ScheduledTask"
	ScheduledRepeatTaskProjection EntryType = "ScheduledRepeatTaskProjection"
	SplitTask                     EntryType = "SplitTask"
	SplitTaskContinued            EntryType = "SplitTaskContinued"
	SplitTaskContinuedLast        EntryType = "SplitTaskContinuedLast"
	CustomEvent                   EntryType = "CustomEvent"
	CalendarEvent                 EntryType = "CalendarEvent"
	WorkdayStart                  EntryType = "WorkdayStart"
	WorkdayEnd                    EntryType = "WorkdayEnd"
	DayCrossing                   EntryType = "DayCrossing"
	LunchBreak                    EntryType = "LunchBreak"
)

// Entry is one item of a timeline. Start is the primary sort key; Type
// decides the order among entries starting at the same instant.
type Entry struct {
	ID       string        `json:"id"`
	Type     EntryType     `json:"type"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration,omitempty"`
	Title    string        `json:"title,omitempty"`
	// RefID points at the task, reminder or event the entry was built from.
	RefID string `json:"refId,omitempty"`
}

// End returns Start plus Duration.
func (e Entry) End() time.Time {
	return e.Start.Add(e.Duration)
}
