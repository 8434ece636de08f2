package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/warpdl/warpremind/pkg/reminder"
)

var ErrInvalidDay = errors.New("invalid day configuration")

// ClockTime is a time of day as an offset from midnight.
type ClockTime time.Duration

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: clock time %q, expected HH:MM", ErrInvalidDay, s)
	}
	return ClockTime(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

func (c ClockTime) on(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(c))
}

// DayConfig describes the fixed structure of a working day.
type DayConfig struct {
	WorkdayStart ClockTime
	WorkdayEnd   ClockTime
	LunchStart   ClockTime
	LunchEnd     ClockTime
	// ReminderDuration is the length given to entries built from reminders.
	ReminderDuration time.Duration
}

// Validate rejects reversed ranges.
func (c DayConfig) Validate() error {
	if c.WorkdayEnd <= c.WorkdayStart {
		return fmt.Errorf("%w: workday ends before it starts", ErrInvalidDay)
	}
	if c.LunchEnd < c.LunchStart {
		return fmt.Errorf("%w: lunch ends before it starts", ErrInvalidDay)
	}
	return nil
}

// BuildDay lays out the day containing day: workday boundaries, the lunch
// break, the crossing into the next day and one entry per reminder due on
// that day, sorted for display.
func BuildDay(reminders []reminder.Reminder, cfg DayConfig, day time.Time) ([]Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	midnight := ClockTime(0).on(day)
	next := midnight.AddDate(0, 0, 1)
	key := midnight.Format("2006-01-02")

	entries := []Entry{
		{ID: "workday-start-" + key, Type: WorkdayStart, Start: cfg.WorkdayStart.on(day)},
		{ID: "workday-end-" + key, Type: WorkdayEnd, Start: cfg.WorkdayEnd.on(day)},
		{ID: "day-crossing-" + key, Type: DayCrossing, Start: next},
	}
	if cfg.LunchEnd > cfg.LunchStart {
		entries = append(entries, Entry{
			ID:       "lunch-" + key,
			Type:     LunchBreak,
			Start:    cfg.LunchStart.on(day),
			Duration: time.Duration(cfg.LunchEnd - cfg.LunchStart),
		})
	}
	for _, r := range reminders {
		due := r.DueAt.In(day.Location())
		if due.Before(midnight) || !due.Before(next) {
			continue
		}
		entries = append(entries, Entry{
			ID:       "reminder-" + r.ID,
			Type:     entryTypeFor(r),
			Start:    due,
			Duration: cfg.ReminderDuration,
			Title:    r.Title,
			RefID:    r.ID,
		})
	}
	Sort(entries)
	return entries, nil
}

func entryTypeFor(r reminder.Reminder) EntryType {
	switch {
	case r.Type == reminder.TypeNote:
		return CustomEvent
	case r.IsRecurring():
		return ScheduledRepeatTaskProjection
	case r.RelatedID != "":
		// A one-shot reminder for a task plans that task into the day, which
		// the user may drag around.
		return TaskPlannedForDay
	default:
		return ScheduledTask
	}
}
