package common

import (
	"time"

	"github.com/warpdl/warpremind/pkg/reminder"
	"github.com/warpdl/warpremind/pkg/timeline"
)

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// AddParams is the input for reminder.add.
type AddParams struct {
	Title      string        `json:"title"`
	Type       reminder.Type `json:"type,omitempty"` // defaults to TASK
	DueAt      time.Time     `json:"dueAt"`
	RelatedID  string        `json:"relatedId,omitempty"`
	Recurrence string        `json:"recurrence,omitempty"`
}

// IDParam is a common input with just an id.
type IDParam struct {
	ID string `json:"id"`
}

// ListParams is the input for reminder.list.
type ListParams struct {
	// Due restricts the list to reminders due now.
	Due bool `json:"due,omitempty"`
}

// ListResult is the response for reminder.list.
type ListResult struct {
	Reminders []reminder.Reminder `json:"reminders"`
}

// SnoozeParams is the input for reminder.snooze. Until wins over Minutes;
// with neither the daemon's default snooze applies.
type SnoozeParams struct {
	ID      string     `json:"id"`
	Until   *time.Time `json:"until,omitempty"`
	Minutes int        `json:"minutes,omitempty"`
}

// SnoozeResult is the response for reminder.snooze.
type SnoozeResult struct {
	Until time.Time `json:"until"`
}

// DoneResult is the response for reminder.done. Next is set when a
// recurring reminder was re-armed.
type DoneResult struct {
	Next *reminder.Reminder `json:"next,omitempty"`
}

// ComposerParams is the input for composer.set.
type ComposerParams struct {
	Open bool `json:"open"`
}

// Dialog is an open reminder dialog. It is also the dialog.open payload.
type Dialog struct {
	ID        string              `json:"id"`
	Reminders []reminder.Reminder `json:"reminders"`
}

// DialogListResult is the response for dialog.list.
type DialogListResult struct {
	Dialogs []Dialog `json:"dialogs"`
}

// RegisterParams is the input for host.register.
type RegisterParams struct {
	// Desktop is true when the host runs in a desktop shell that owns a
	// focusable window.
	Desktop bool `json:"desktop"`
}

// DayParams is the input for timeline.day. Date is YYYY-MM-DD, today if empty.
type DayParams struct {
	Date string `json:"date,omitempty"`
}

// ReorderParams is the input for timeline.reorder.
type ReorderParams struct {
	Date     string `json:"date,omitempty"`
	FromID   string `json:"fromId"`
	BeforeID string `json:"beforeId"`
}

// DayResult is the response for the timeline methods.
type DayResult struct {
	Date    string           `json:"date"`
	Entries []timeline.Entry `json:"entries"`
}

// NotificationParams is the notification.show payload.
type NotificationParams struct {
	Title              string `json:"title"`
	Tag                string `json:"tag"`
	RequireInteraction bool   `json:"requireInteraction"`
}

// FocusParams is the window.focus payload.
type FocusParams struct{}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}
