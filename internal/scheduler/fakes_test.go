package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/warpdl/warpremind/pkg/reminder"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func task(id, title string) reminder.Reminder {
	return reminder.Reminder{ID: id, Title: title, Type: reminder.TypeTask, DueAt: epoch}
}

func note(id, title string) reminder.Reminder {
	return reminder.Reminder{ID: id, Title: title, Type: reminder.TypeNote, DueAt: epoch}
}

type fakeDialogs struct {
	mu     sync.Mutex
	open   int
	opened []reminder.DueBatch
	err    error
}

func (d *fakeDialogs) OpenCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *fakeDialogs) OpenIfNone(_ context.Context, b reminder.DueBatch) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	if d.open > 0 {
		return false, nil
	}
	d.open++
	d.opened = append(d.opened, b)
	return true, nil
}

func (d *fakeDialogs) setOpen(n int) {
	d.mu.Lock()
	d.open = n
	d.mu.Unlock()
}

func (d *fakeDialogs) openedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.opened)
}

type fakeNotifier struct {
	ch  chan Notification
	err error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan Notification, 16)}
}

func (n *fakeNotifier) Notify(_ context.Context, msg Notification) error {
	n.ch <- msg
	return n.err
}

func (n *fakeNotifier) expect(t *testing.T) Notification {
	t.Helper()
	select {
	case got := <-n.ch:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a notification")
	}
	return Notification{}
}

func (n *fakeNotifier) expectNone(t *testing.T) {
	t.Helper()
	select {
	case got := <-n.ch:
		t.Fatalf("unexpected notification %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeWindow struct {
	focused atomic.Int32
}

func (w *fakeWindow) Focus(context.Context) {
	w.focused.Add(1)
}

// waitUntil polls cond for up to two seconds.
func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}
