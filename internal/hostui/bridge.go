// Package hostui connects the scheduler to whatever UI hosts it. Hosts
// talk to the daemon over JSON-RPC; the Bridge keeps the UI state they
// report (composer, dialogs, shell kind, sync) and pushes scheduler
// output back to them.
package hostui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/internal/scheduler"
	"github.com/warpdl/warpremind/pkg/logger"
	"github.com/warpdl/warpremind/pkg/reminder"
)

var (
	// ErrNoHost is returned when a push reached no connected host.
	ErrNoHost = scheduler.ErrNoHost
	// ErrDialogNotFound is returned when closing an unknown dialog.
	ErrDialogNotFound = errors.New("reminder dialog not found")
)

// Broadcaster pushes a method call to every connected host and reports
// how many received it.
type Broadcaster interface {
	Broadcast(method string, params any) int
}

// Bridge implements the scheduler's UI collaborators on top of a
// Broadcaster. It is safe for concurrent use.
type Bridge struct {
	push Broadcaster
	log  logger.Logger

	mu           sync.Mutex
	composerOpen bool
	watchers     map[chan bool]struct{}
	dialogs      map[string]common.Dialog
	nextDialog   uint64
	desktop      bool

	syncOnce sync.Once
	synced   chan struct{}
}

// New creates a Bridge pushing through push.
func New(push Broadcaster, l logger.Logger) *Bridge {
	return &Bridge{
		push:     push,
		log:      logger.OrNop(l),
		watchers: make(map[chan bool]struct{}),
		dialogs:  make(map[string]common.Dialog),
		synced:   make(chan struct{}),
	}
}

// SetComposer records whether the task composer is open and notifies
// watchers of changes.
func (b *Bridge) SetComposer(open bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.composerOpen == open {
		return
	}
	b.composerOpen = open
	for ch := range b.watchers {
		// Watchers only need the latest value.
		select {
		case <-ch:
		default:
		}
		ch <- open
	}
}

// ComposerOpen returns the latched composer state.
func (b *Bridge) ComposerOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.composerOpen
}

// Watch delivers the current composer state and then every change until
// ctx is done. A slow reader skips intermediate values.
func (b *Bridge) Watch(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)
	b.mu.Lock()
	b.watchers[ch] = struct{}{}
	ch <- b.composerOpen
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

// OpenCount returns the number of open reminder dialogs.
func (b *Bridge) OpenCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.dialogs)
}

// OpenIfNone reserves a dialog for batch unless one is open and pushes it
// to the hosts. If no host receives it the reservation is dropped.
func (b *Bridge) OpenIfNone(_ context.Context, batch reminder.DueBatch) (bool, error) {
	b.mu.Lock()
	if len(b.dialogs) > 0 {
		b.mu.Unlock()
		return false, nil
	}
	b.nextDialog++
	d := common.Dialog{
		ID:        "dlg-" + strconv.FormatUint(b.nextDialog, 10),
		Reminders: append([]reminder.Reminder(nil), batch...),
	}
	b.dialogs[d.ID] = d
	b.mu.Unlock()

	if b.push.Broadcast(common.PushDialogOpen, d) == 0 {
		b.mu.Lock()
		delete(b.dialogs, d.ID)
		b.mu.Unlock()
		return false, fmt.Errorf("push %s: %w", common.PushDialogOpen, ErrNoHost)
	}
	b.log.Info("hostui: opened dialog %s for %d reminder(s)", d.ID, len(batch))
	return true, nil
}

// CloseDialog marks a dialog as closed.
func (b *Bridge) CloseDialog(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.dialogs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrDialogNotFound, id)
	}
	delete(b.dialogs, id)
	return nil
}

// Dialogs returns the open dialogs ordered by id.
func (b *Bridge) Dialogs() []common.Dialog {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]common.Dialog, 0, len(b.dialogs))
	for _, d := range b.dialogs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Register records the kind of shell the host runs in. Window focusing
// only happens inside a desktop shell.
func (b *Bridge) Register(desktop bool) {
	b.mu.Lock()
	b.desktop = desktop
	b.mu.Unlock()
}

// Desktop reports whether a desktop shell registered.
func (b *Bridge) Desktop() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.desktop
}

func (b *Bridge) Focus(context.Context) {
	if !b.Desktop() {
		return
	}
	if b.push.Broadcast(common.PushWindowFocus, common.FocusParams{}) == 0 {
		b.log.Warning("hostui: window focus reached no host")
	}
}

func (b *Bridge) Notify(_ context.Context, n scheduler.Notification) error {
	if b.push.Broadcast(common.PushNotificationShow, n) == 0 {
		return fmt.Errorf("push %s: %w", common.PushNotificationShow, ErrNoHost)
	}
	return nil
}

// MarkSynced closes the sync signal. Later calls are no-ops.
func (b *Bridge) MarkSynced() {
	b.syncOnce.Do(func() { close(b.synced) })
}

// Synced is closed once MarkSynced was called.
func (b *Bridge) Synced() <-chan struct{} {
	return b.synced
}

var (
	_ scheduler.ComposerWatcher = (*Bridge)(nil)
	_ scheduler.DialogHost      = (*Bridge)(nil)
	_ scheduler.WindowFocuser   = (*Bridge)(nil)
	_ scheduler.Notifier        = (*Bridge)(nil)
)
