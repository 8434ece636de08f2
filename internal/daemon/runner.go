// Package daemon provides the core daemon runner for warpremind. It wires
// the reminder store, the RPC server, the host UI bridge and the
// notification scheduler, and tears them down in reverse order.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warpdl/warpremind/internal/config"
	"github.com/warpdl/warpremind/internal/hostui"
	"github.com/warpdl/warpremind/internal/scheduler"
	"github.com/warpdl/warpremind/internal/server"
	"github.com/warpdl/warpremind/pkg/logger"
	"github.com/warpdl/warpremind/pkg/reminder"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrMissingConfig is returned by New without an app config or secret.
	ErrMissingConfig = errors.New("daemon config is incomplete")
)

// DefaultShutdownTimeout bounds the graceful HTTP shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Config holds the configuration for the daemon runner.
type Config struct {
	// App is the loaded daemon configuration.
	App *config.Config

	// Secret is the RPC bearer token.
	Secret string

	Version   string
	Commit    string
	BuildType string

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// Dependencies holds the external dependencies for the daemon runner.
// This enables dependency injection for testing.
type Dependencies struct {
	// OpenStore opens the reminder store. If nil, SQLite at App.DBPath.
	OpenStore func(path string) (reminder.Store, error)

	// Clock drives the scheduler and the poller. If nil, the real clock.
	Clock scheduler.Clock

	Logger logger.Logger

	// Ready is called with the bound RPC address before serving starts.
	Ready func(addr string)
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config *Config
	deps   *Dependencies
	log    logger.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	addr    string
	sched   *scheduler.Handle
}

// New creates a new daemon runner.
func New(cfg *Config, deps *Dependencies) (*Runner, error) {
	if cfg == nil || cfg.App == nil {
		return nil, fmt.Errorf("%w: no app config", ErrMissingConfig)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: no rpc secret", ErrMissingConfig)
	}
	d := applyDependencyDefaults(deps)
	return &Runner{
		config: applyConfigDefaults(cfg),
		deps:   d,
		log:    logger.OrNop(d.Logger),
	}, nil
}

func applyConfigDefaults(cfg *Config) *Config {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return cfg
}

func applyDependencyDefaults(deps *Dependencies) *Dependencies {
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.OpenStore == nil {
		deps.OpenStore = func(path string) (reminder.Store, error) {
			return reminder.OpenSQLite(path)
		}
	}
	if deps.Clock == nil {
		deps.Clock = scheduler.RealClock()
	}
	return deps
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Start brings the daemon up and blocks until ctx is canceled, Shutdown is
// called or the RPC server fails.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	r.mu.Unlock()

	err := r.run(ctx)

	r.mu.Lock()
	r.running = false
	r.sched = nil
	cancel()
	close(r.done)
	r.mu.Unlock()
	return err
}

func (r *Runner) run(ctx context.Context) error {
	app := r.config.App
	store, err := r.deps.OpenStore(app.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			r.log.Warning("close reminder store: %v", err)
		}
	}()
	// The schema must exist before RPC calls arrive. The scheduler runs
	// Init again as its local-state-ready signal; it is idempotent.
	if err := store.Init(ctx); err != nil {
		return err
	}

	day, err := app.Day()
	if err != nil {
		return err
	}
	notifier := server.NewRPCNotifier(r.log)
	bridge := hostui.New(notifier, r.log)
	rs := server.NewRPCServer(&server.RPCConfig{
		Secret:        r.config.Secret,
		Version:       r.config.Version,
		Commit:        r.config.Commit,
		BuildType:     r.config.BuildType,
		Origins:       app.Origins,
		DefaultSnooze: time.Duration(app.DefaultSnooze),
		Day:           day,
		Now:           r.deps.Clock.Now,
	}, notifier, store, bridge, r.log)
	defer rs.Close()

	web := server.NewWebServer(r.log, app.Listen, rs)
	if err := web.Listen(); err != nil {
		return fmt.Errorf("listen on %s: %w", app.Listen, err)
	}

	poller := reminder.NewPoller(store, time.Duration(app.PollInterval), r.log)
	poller.Now = r.deps.Clock.Now
	if !app.AwaitHostSync {
		bridge.MarkSynced()
	}
	sched, err := scheduler.Start(ctx, &scheduler.Dependencies{
		Init:     store.Init,
		Synced:   bridge.Synced(),
		Source:   poller,
		Composer: bridge,
		Dialogs:  bridge,
		Notifier: bridge,
		Window:   bridge,
		Clock:    r.deps.Clock,
		Logger:   r.log,
	})
	if err != nil {
		_ = web.Shutdown(context.Background())
		return err
	}
	defer sched.Stop()

	r.mu.Lock()
	r.addr = web.Addr()
	r.sched = sched
	r.mu.Unlock()
	if r.deps.Ready != nil {
		r.deps.Ready(web.Addr())
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- web.Start() }()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("rpc server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
	defer cancel()
	if err := web.Shutdown(shutdownCtx); err != nil {
		r.log.Warning("rpc server shutdown: %v", err)
	}
	r.log.Info("daemon stopped")
	return ctx.Err()
}

// Shutdown stops the daemon and waits for Start to return.
// Returns ErrNotRunning if the daemon is not running.
// Returns ErrShutdownTimeout if teardown exceeds the configured timeout.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(r.config.ShutdownTimeout):
		return ErrShutdownTimeout
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Addr returns the bound RPC address once serving.
func (r *Runner) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr
}

// SchedulerState returns the scheduler state, or StateStopped when the
// scheduler is not running.
func (r *Runner) SchedulerState() scheduler.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sched == nil {
		return scheduler.StateStopped
	}
	return r.sched.State()
}
