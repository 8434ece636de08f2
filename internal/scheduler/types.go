package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/warpdl/warpremind/pkg/reminder"
)

// ErrNoHost is returned by collaborators when no UI host is connected to
// receive a push.
var ErrNoHost = errors.New("no ui host connected")

// Fixed delays of the scheduling pipeline.
const (
	// SyncSettleDelay is waited after the sync gate conditions are met.
	SyncSettleDelay = 1000 * time.Millisecond
	// ComposerCeiling bounds how long an open composer can hold a batch.
	ComposerCeiling = 10000 * time.Millisecond
	// ComposerSettleDelay is waited after the composer releases a batch.
	ComposerSettleDelay = 1000 * time.Millisecond
	// NotifyInterval is the global minimum spacing of delivered notifications.
	NotifyInterval = 60000 * time.Millisecond
)

// State is the scheduler's position in its lifecycle.
type State int32

const (
	// StateIdle means the gate is open and no batch is held.
	StateIdle State = iota
	// StateAwaitingSync means the sync gate has not opened yet.
	StateAwaitingSync
	// StateAwaitingComposerRelease means a batch is held by the composer.
	StateAwaitingComposerRelease
	// StateDispatching means a batch is being handed to the dispatcher.
	StateDispatching
	// StateStopped means the handle was stopped.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSync:
		return "awaiting_sync"
	case StateAwaitingComposerRelease:
		return "awaiting_composer_release"
	case StateDispatching:
		return "dispatching"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Notification is what the dispatcher asks the delivery layer to show.
type Notification struct {
	Title string `json:"title"`
	// Tag collapses duplicate notifications on platforms that dedupe by tag.
	Tag                string `json:"tag"`
	RequireInteraction bool   `json:"requireInteraction"`
}

// DueSource produces batches of currently due reminders. Each Subscribe call
// starts a fresh sequence that ends when ctx is done.
type DueSource interface {
	Subscribe(ctx context.Context) <-chan reminder.DueBatch
}

// ComposerWatcher reports whether the task composer is open. The channel
// delivers the current value first and then every change.
type ComposerWatcher interface {
	Watch(ctx context.Context) <-chan bool
}

// DialogHost presents reminder dialogs.
type DialogHost interface {
	// OpenCount returns the number of reminder dialogs currently open.
	OpenCount() int
	// OpenIfNone opens a dialog for batch unless one is already open. The
	// check and the open happen atomically; it reports whether it opened.
	OpenIfNone(ctx context.Context, batch reminder.DueBatch) (bool, error)
}

// WindowFocuser brings the host window to the front. Implementations are
// no-ops outside a desktop shell.
type WindowFocuser interface {
	Focus(ctx context.Context)
}

// Notifier delivers a notification to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type nopFocuser struct{}

func (nopFocuser) Focus(context.Context) {}
