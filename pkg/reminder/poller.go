package reminder

import (
	"context"
	"time"

	"github.com/warpdl/warpremind/pkg/logger"
)

// DefaultPollInterval is how often the poller re-evaluates due reminders.
const DefaultPollInterval = 10 * time.Second

// Poller re-queries the store on a fixed cadence and emits the current due
// batch every time it is non-empty. Emissions repeat while reminders stay
// due; consumers are expected to de-duplicate.
type Poller struct {
	store    Store
	interval time.Duration
	log      logger.Logger
	// Now returns the current time; injectable for testing.
	Now func() time.Time
}

// NewPoller creates a poller over store. A non-positive interval falls back
// to DefaultPollInterval.
func NewPoller(store Store, interval time.Duration, l logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		store:    store,
		interval: interval,
		log:      logger.OrNop(l),
		Now:      time.Now,
	}
}

// Subscribe starts an independent poll loop that runs until ctx is done.
// The first evaluation happens immediately. The returned channel is closed
// when the loop exits.
func (p *Poller) Subscribe(ctx context.Context) <-chan DueBatch {
	out := make(chan DueBatch)
	go func() {
		defer close(out)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			if batch := p.evaluate(ctx); len(batch) > 0 {
				select {
				case out <- batch:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func (p *Poller) evaluate(ctx context.Context) DueBatch {
	batch, err := p.store.Due(ctx, p.Now())
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warning("reminder poll failed: %v", err)
		}
		return nil
	}
	return batch
}
