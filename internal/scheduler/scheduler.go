package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/warpdl/warpremind/pkg/logger"
	"github.com/warpdl/warpremind/pkg/reminder"
)

// ErrMissingDependency is returned by Start when a required collaborator is nil.
var ErrMissingDependency = errors.New("scheduler: missing dependency")

// Dependencies are the collaborators of a running scheduler.
type Dependencies struct {
	// Init prepares local reminder state. Required.
	Init func(ctx context.Context) error
	// Synced is closed once initial sync and data load are done. Required.
	Synced <-chan struct{}
	// Source yields due batches once the gate opens. Required.
	Source DueSource
	// Composer reports the composer state. Required.
	Composer ComposerWatcher
	// Dialogs hosts reminder dialogs. Required.
	Dialogs DialogHost
	// Notifier delivers notifications. Required.
	Notifier Notifier

	// Window is focused before each dispatch. Optional.
	Window WindowFocuser
	// Clock defaults to RealClock.
	Clock Clock
	// Throttle defaults to a NotifyInterval Throttle on Clock.
	Throttle RateLimiter
	Logger   logger.Logger
}

func (d *Dependencies) validate() error {
	switch {
	case d == nil:
		return fmt.Errorf("%w: dependencies", ErrMissingDependency)
	case d.Init == nil:
		return fmt.Errorf("%w: Init", ErrMissingDependency)
	case d.Synced == nil:
		return fmt.Errorf("%w: Synced", ErrMissingDependency)
	case d.Source == nil:
		return fmt.Errorf("%w: Source", ErrMissingDependency)
	case d.Composer == nil:
		return fmt.Errorf("%w: Composer", ErrMissingDependency)
	case d.Dialogs == nil:
		return fmt.Errorf("%w: Dialogs", ErrMissingDependency)
	case d.Notifier == nil:
		return fmt.Errorf("%w: Notifier", ErrMissingDependency)
	}
	return nil
}

// Handle controls a running scheduler.
type Handle struct {
	ctx    context.Context
	cancel context.CancelFunc
	events chan any
	done   chan struct{}
	m      *machine
}

// Start validates deps and launches the scheduler goroutine. The scheduler
// runs until Stop is called or ctx is done.
func Start(ctx context.Context, deps *Dependencies) (*Handle, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	clock := deps.Clock
	if clock == nil {
		clock = RealClock()
	}
	limiter := deps.Throttle
	if limiter == nil {
		limiter = NewThrottle(NotifyInterval, clock)
	}
	log := logger.OrNop(deps.Logger)

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		ctx:    ctx,
		cancel: cancel,
		events: make(chan any, 16),
		done:   make(chan struct{}),
	}
	dispatcher := NewDispatcher(deps.Notifier, deps.Dialogs, deps.Window, limiter, log)
	h.m = newMachine(ctx, clock, deps.Dialogs, dispatcher.Dispatch, log)
	h.m.post = h.post
	h.m.onGateOpen = func() {
		go h.forwardBatches(deps.Source.Subscribe(ctx))
	}

	go h.run()
	go func() {
		h.post(initDoneEvent{err: deps.Init(ctx)})
	}()
	go func() {
		select {
		case <-deps.Synced:
			h.post(syncedEvent{})
		case <-ctx.Done():
		}
	}()
	go h.forwardComposer(deps.Composer.Watch(ctx))
	return h, nil
}

// Stop cancels pending waits and blocks until the scheduler goroutine exits.
// It is safe to call more than once.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed when the scheduler goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// State returns the current machine state.
func (h *Handle) State() State {
	return h.m.State()
}

func (h *Handle) run() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.m.handle(stopEvent{})
			return
		case ev := <-h.events:
			h.m.handle(ev)
		}
	}
}

func (h *Handle) post(ev any) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	}
}

func (h *Handle) forwardBatches(batches <-chan reminder.DueBatch) {
	for b := range batches {
		h.post(batchEvent{batch: b})
	}
}

func (h *Handle) forwardComposer(states <-chan bool) {
	for open := range states {
		h.post(composerEvent{open: open})
	}
}
