package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/warpdl/warpremind/pkg/logger"
	"github.com/warpdl/warpremind/pkg/reminder"
)

type chanSource struct {
	ch         chan reminder.DueBatch
	subscribed atomic.Int32
}

func (s *chanSource) Subscribe(ctx context.Context) <-chan reminder.DueBatch {
	s.subscribed.Add(1)
	out := make(chan reminder.DueBatch)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case b := <-s.ch:
				select {
				case out <- b:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

type chanComposer struct {
	ch chan bool
}

func (c *chanComposer) Watch(ctx context.Context) <-chan bool {
	out := make(chan bool, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v := <-c.ch:
				out <- v
			}
		}
	}()
	return out
}

type testRig struct {
	deps     *Dependencies
	clock    *FakeClock
	source   *chanSource
	composer *chanComposer
	synced   chan struct{}
	notifier *fakeNotifier
	dialogs  *fakeDialogs
	log      *logger.Recorder
}

func newRig() *testRig {
	r := &testRig{
		clock:    NewFakeClock(epoch),
		source:   &chanSource{ch: make(chan reminder.DueBatch)},
		composer: &chanComposer{ch: make(chan bool)},
		synced:   make(chan struct{}),
		notifier: newFakeNotifier(),
		dialogs:  &fakeDialogs{},
		log:      logger.NewRecorder(),
	}
	r.deps = &Dependencies{
		Init:     func(context.Context) error { return nil },
		Synced:   r.synced,
		Source:   r.source,
		Composer: r.composer,
		Dialogs:  r.dialogs,
		Notifier: r.notifier,
		Window:   &fakeWindow{},
		Clock:    r.clock,
		Logger:   r.log,
	}
	return r
}

func (r *testRig) start(t *testing.T) *Handle {
	t.Helper()
	h, err := Start(context.Background(), r.deps)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(h.Stop)
	return h
}

// openGate closes the sync signal and fires the settle timer.
func (r *testRig) openGate(t *testing.T, h *Handle) {
	t.Helper()
	close(r.synced)
	waitUntil(t, "gate timer", func() bool { return r.clock.Pending() == 1 })
	r.clock.Advance(SyncSettleDelay)
	waitUntil(t, "gate open", func() bool { return h.State() == StateIdle })
	waitUntil(t, "subscription", func() bool { return r.source.subscribed.Load() == 1 })
}

func TestStart_MissingDependency(t *testing.T) {
	if _, err := Start(context.Background(), nil); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("nil deps: err = %v", err)
	}
	mutations := map[string]func(*Dependencies){
		"Init":     func(d *Dependencies) { d.Init = nil },
		"Synced":   func(d *Dependencies) { d.Synced = nil },
		"Source":   func(d *Dependencies) { d.Source = nil },
		"Composer": func(d *Dependencies) { d.Composer = nil },
		"Dialogs":  func(d *Dependencies) { d.Dialogs = nil },
		"Notifier": func(d *Dependencies) { d.Notifier = nil },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := newRig()
			mutate(r.deps)
			_, err := Start(context.Background(), r.deps)
			if !errors.Is(err, ErrMissingDependency) {
				t.Errorf("err = %v, want ErrMissingDependency", err)
			}
		})
	}
}

func TestHandle_DeliversAfterGate(t *testing.T) {
	r := newRig()
	h := r.start(t)
	if h.State() != StateAwaitingSync {
		t.Fatalf("state = %s, want awaiting_sync", h.State())
	}
	if r.source.subscribed.Load() != 0 {
		t.Fatal("source subscribed before the gate opened")
	}
	r.openGate(t, h)

	r.source.ch <- reminder.DueBatch{task("1", "Buy milk")}
	got := r.notifier.expect(t)
	if got.Title != "Buy milk" || got.Tag != "_1" {
		t.Errorf("notification = %+v", got)
	}
	waitUntil(t, "dialog", func() bool { return r.dialogs.openedCount() == 1 })

	// An open dialog filters the re-emitted batch.
	r.source.ch <- reminder.DueBatch{task("1", "Buy milk")}
	r.notifier.expectNone(t)
}

func TestHandle_ComposerHoldsBatch(t *testing.T) {
	r := newRig()
	h := r.start(t)
	r.composer.ch <- true
	r.openGate(t, h)
	// Give the composer event time to reach the machine.
	time.Sleep(20 * time.Millisecond)

	r.source.ch <- reminder.DueBatch{task("1", "Buy milk")}
	waitUntil(t, "composer wait", func() bool { return h.State() == StateAwaitingComposerRelease })
	r.notifier.expectNone(t)

	r.clock.Advance(4 * time.Second)
	r.composer.ch <- false
	// The ceiling is stopped and the settle timer armed.
	settleAt := r.clock.Now().Add(ComposerSettleDelay)
	waitUntil(t, "settle timer", func() bool {
		at, ok := r.clock.NextDeadline()
		return ok && at.Equal(settleAt) && r.clock.Pending() == 1
	})
	r.clock.Advance(ComposerSettleDelay)
	r.notifier.expect(t)
	waitUntil(t, "idle", func() bool { return h.State() == StateIdle })
}

func TestHandle_InitFailure(t *testing.T) {
	r := newRig()
	r.deps.Init = func(context.Context) error { return errors.New("boom") }
	h := r.start(t)
	close(r.synced)
	waitUntil(t, "warning", func() bool { return len(r.log.Warnings()) == 1 })
	r.clock.Advance(time.Minute)
	if h.State() != StateAwaitingSync || r.source.subscribed.Load() != 0 {
		t.Errorf("scheduler left the sync gate after init failure, state %s", h.State())
	}
}

func TestHandle_Stop(t *testing.T) {
	r := newRig()
	h := r.start(t)
	r.openGate(t, h)
	h.Stop()
	h.Stop()
	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
	if h.State() != StateStopped {
		t.Errorf("state = %s, want stopped", h.State())
	}
}

func TestHandle_ParentCancel(t *testing.T) {
	r := newRig()
	ctx, cancel := context.WithCancel(context.Background())
	h, err := Start(ctx, r.deps)
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not exit on parent cancel")
	}
}
