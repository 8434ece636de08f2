package scheduler

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/warpdl/warpremind/pkg/logger"
	"github.com/warpdl/warpremind/pkg/reminder"
)

// Messages consumed by the machine.
type (
	initDoneEvent struct{ err error }
	syncedEvent   struct{}
	gateOpenEvent struct{}
	batchEvent    struct{ batch reminder.DueBatch }
	composerEvent struct{ open bool }
	// releaseEvent fires when the composer ceiling elapses.
	releaseEvent struct{ gen uint64 }
	// settleEvent fires when the post-release settle delay elapses.
	settleEvent struct{ gen uint64 }
	stopEvent   struct{}
)

type dispatchFunc func(ctx context.Context, batch reminder.DueBatch) (Outcome, error)

// machine holds all scheduling state. It is only touched by the goroutine
// that calls handle, so it needs no locking; state is mirrored atomically
// for Handle.State.
type machine struct {
	ctx     context.Context
	clock   Clock
	dialogs DialogHost
	log     logger.Logger

	dispatch   dispatchFunc
	post       func(any)
	onGateOpen func()

	state atomic.Int32

	initDone      bool
	synced        bool
	gateScheduled bool
	composerOpen  bool

	// gen identifies the current composer wait; timers carry the
	// generation they were armed for and are ignored once it moves on.
	gen      uint64
	pending  reminder.DueBatch
	released bool
	ceiling  Timer
	settle   Timer

	// noHostTag is the last batch that found no host to show it.
	noHostTag string
}

func newMachine(ctx context.Context, clock Clock, dialogs DialogHost, dispatch dispatchFunc, l logger.Logger) *machine {
	m := &machine{
		ctx:      ctx,
		clock:    clock,
		dialogs:  dialogs,
		dispatch: dispatch,
		log:      logger.OrNop(l),
	}
	m.setState(StateAwaitingSync)
	return m
}

func (m *machine) State() State {
	return State(m.state.Load())
}

func (m *machine) setState(s State) {
	m.state.Store(int32(s))
}

func (m *machine) handle(ev any) {
	if m.State() == StateStopped {
		return
	}
	switch ev := ev.(type) {
	case initDoneEvent:
		if ev.err != nil {
			m.log.Warning("scheduler: reminder init failed, staying silent: %v", ev.err)
			return
		}
		m.initDone = true
		m.maybeOpenGate()
	case syncedEvent:
		m.synced = true
		m.maybeOpenGate()
	case gateOpenEvent:
		m.openGate()
	case batchEvent:
		m.onBatch(ev.batch)
	case composerEvent:
		m.onComposer(ev.open)
	case releaseEvent:
		if ev.gen == m.gen && m.State() == StateAwaitingComposerRelease && !m.released {
			m.release()
		}
	case settleEvent:
		if ev.gen == m.gen && m.State() == StateAwaitingComposerRelease && m.released {
			batch := m.pending
			m.pending = nil
			m.dispatchNow(batch)
		}
	case stopEvent:
		m.cancelPending()
		m.setState(StateStopped)
	}
}

func (m *machine) maybeOpenGate() {
	if !m.initDone || !m.synced || m.gateScheduled {
		return
	}
	m.gateScheduled = true
	m.clock.AfterFunc(SyncSettleDelay, func() { m.post(gateOpenEvent{}) })
}

func (m *machine) openGate() {
	if m.State() != StateAwaitingSync {
		return
	}
	m.setState(StateIdle)
	m.log.Info("scheduler: initial sync done, watching due reminders")
	if m.onGateOpen != nil {
		m.onGateOpen()
	}
}

func (m *machine) onBatch(batch reminder.DueBatch) {
	if m.State() == StateAwaitingSync {
		return
	}
	// Batches are re-emitted while reminders stay due; an open dialog
	// already shows them.
	if len(batch) == 0 || m.dialogs.OpenCount() > 0 {
		return
	}
	m.cancelPending()
	if !m.composerOpen {
		m.dispatchNow(batch)
		return
	}
	m.pending = batch
	m.released = false
	m.setState(StateAwaitingComposerRelease)
	gen := m.gen
	m.ceiling = m.clock.AfterFunc(ComposerCeiling, func() { m.post(releaseEvent{gen: gen}) })
}

func (m *machine) onComposer(open bool) {
	m.composerOpen = open
	if !open && m.State() == StateAwaitingComposerRelease && !m.released {
		m.release()
	}
}

func (m *machine) release() {
	m.released = true
	if m.ceiling != nil {
		m.ceiling.Stop()
		m.ceiling = nil
	}
	gen := m.gen
	m.settle = m.clock.AfterFunc(ComposerSettleDelay, func() { m.post(settleEvent{gen: gen}) })
}

// cancelPending abandons a held batch and its timers.
func (m *machine) cancelPending() {
	m.gen++
	for _, t := range []Timer{m.ceiling, m.settle} {
		if t != nil {
			t.Stop()
		}
	}
	m.ceiling, m.settle = nil, nil
	m.pending = nil
	m.released = false
	if m.State() == StateAwaitingComposerRelease {
		m.setState(StateIdle)
	}
}

func (m *machine) dispatchNow(batch reminder.DueBatch) {
	m.setState(StateDispatching)
	out, err := m.dispatch(m.ctx, batch)
	m.setState(StateIdle)
	tag := FormatTag(batch)
	switch {
	case errors.Is(err, ErrNoHost):
		// The source re-emits a due batch on every poll until someone
		// handles it.
		if tag != m.noHostTag {
			m.log.Warning("scheduler: dispatch %s: %v", tag, err)
			m.noHostTag = tag
		}
		return
	case err != nil:
		m.log.Error("scheduler: dispatch %s: %v", tag, err)
		return
	}
	m.noHostTag = ""
	if !out.Notified {
		m.log.Info("scheduler: notification for %s throttled", tag)
	}
}
