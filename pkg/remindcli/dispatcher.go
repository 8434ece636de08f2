package remindcli

import (
	"fmt"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/warpdl/warpremind/common"
)

// Handlers react to daemon pushes.
type Handlers struct {
	Notification func(common.NotificationParams) error
	DialogOpen   func(common.Dialog) error
	WindowFocus  func() error
}

// Dispatcher routes push notifications to Handlers.
type Dispatcher struct {
	Handlers *Handlers

	mu  sync.Mutex
	err error
}

func (d *Dispatcher) process(req *jrpc2.Request) {
	if err := d.route(req); err != nil {
		d.mu.Lock()
		d.err = fmt.Errorf("push %s: %w", req.Method(), err)
		d.mu.Unlock()
	}
}

func (d *Dispatcher) route(req *jrpc2.Request) error {
	h := d.Handlers
	if h == nil {
		return nil
	}
	switch req.Method() {
	case common.PushNotificationShow:
		if h.Notification == nil {
			return nil
		}
		n, err := decode[common.NotificationParams](req)
		if err != nil {
			return err
		}
		return h.Notification(n)
	case common.PushDialogOpen:
		if h.DialogOpen == nil {
			return nil
		}
		dlg, err := decode[common.Dialog](req)
		if err != nil {
			return err
		}
		return h.DialogOpen(dlg)
	case common.PushWindowFocus:
		if h.WindowFocus == nil {
			return nil
		}
		return h.WindowFocus()
	}
	return nil
}

// Err returns the last handler error.
func (d *Dispatcher) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
