package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/warpdl/warpremind/pkg/logger"
	"github.com/warpdl/warpremind/pkg/reminder"
)

// ErrEmptyBatch is returned when Dispatch is called without reminders.
var ErrEmptyBatch = errors.New("dispatch: empty reminder batch")

// Outcome reports what a Dispatch call did.
type Outcome struct {
	// Notified is false when the rate limiter dropped the notification.
	Notified bool
	// DialogOpened is false for note batches and when a dialog was open.
	DialogOpened bool
}

// Dispatcher surfaces one batch to the user.
type Dispatcher struct {
	notifier Notifier
	dialogs  DialogHost
	window   WindowFocuser
	limiter  RateLimiter
	log      logger.Logger
}

// NewDispatcher creates a Dispatcher. A nil window means no focusing; a nil
// limiter means the default NotifyInterval throttle on the real clock.
func NewDispatcher(n Notifier, d DialogHost, w WindowFocuser, limiter RateLimiter, l logger.Logger) *Dispatcher {
	if w == nil {
		w = nopFocuser{}
	}
	if limiter == nil {
		limiter = NewThrottle(NotifyInterval, RealClock())
	}
	return &Dispatcher{
		notifier: n,
		dialogs:  d,
		window:   w,
		limiter:  limiter,
		log:      logger.OrNop(l),
	}
}

// Dispatch focuses the host window, delivers a rate-limited notification for
// batch and, when the oldest reminder is a task, opens the reminder dialog.
// Delivery runs in the background; its failure is only logged.
func (d *Dispatcher) Dispatch(ctx context.Context, batch reminder.DueBatch) (Outcome, error) {
	var out Outcome
	if len(batch) == 0 {
		return out, ErrEmptyBatch
	}
	d.window.Focus(ctx)

	if d.limiter.Allow() {
		out.Notified = true
		n := BuildNotification(batch)
		go func() {
			if err := d.notifier.Notify(context.WithoutCancel(ctx), n); err != nil {
				d.log.Warning("notification %s not delivered: %v", n.Tag, err)
			}
		}()
	}

	if batch.Oldest().Type == reminder.TypeTask {
		opened, err := d.dialogs.OpenIfNone(ctx, batch)
		if err != nil {
			return out, fmt.Errorf("open reminder dialog: %w", err)
		}
		out.DialogOpened = opened
	}
	return out, nil
}

// BuildNotification renders the single notification shown for batch.
func BuildNotification(batch reminder.DueBatch) Notification {
	return Notification{
		Title:              FormatTitle(batch),
		Tag:                FormatTag(batch),
		RequireInteraction: true,
	}
}

// FormatTitle names the first reminder and counts the rest.
func FormatTitle(batch reminder.DueBatch) string {
	if len(batch) == 1 {
		return batch[0].Title
	}
	return fmt.Sprintf(`"%s" and %d other tasks are due.`, batch[0].Title, len(batch)-1)
}

// FormatTag concatenates "_"+id for every reminder, in batch order.
func FormatTag(batch reminder.DueBatch) string {
	var b strings.Builder
	for _, r := range batch {
		b.WriteByte('_')
		b.WriteString(r.ID)
	}
	return b.String()
}
