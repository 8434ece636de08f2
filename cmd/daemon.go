package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"
	cmdcommon "github.com/warpdl/warpremind/cmd/common"
	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/internal/config"
	"github.com/warpdl/warpremind/internal/daemon"
	"github.com/warpdl/warpremind/internal/secret"
	"github.com/warpdl/warpremind/pkg/logger"
)

var (
	awaitSync   bool
	daemonFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "await-sync",
			Usage:       "hold notifications until a host calls sync.done (default: false)",
			Destination: &awaitSync,
		},
	}
)

// startDaemon is swapped by tests to run the daemon on a cancelable context.
var startDaemon = func(r *daemon.Runner) error {
	ctx, cancel := setupShutdownHandler()
	defer cancel()
	return r.Start(ctx)
}

func runDaemon(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	dir := common.ConfigDir()
	if err := configFs.MkdirAll(dir, 0o700); err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "daemon", "config_dir", err)
		return nil
	}
	cfg, err := config.Load(configFs, dir)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "daemon", "load_config", err)
		return nil
	}
	if awaitSync {
		cfg.AwaitHostSync = true
	}
	token, err := secret.New(dir).LoadOrCreate()
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "daemon", "rpc_secret", err)
		return nil
	}
	l, err := newDaemonLogger(cfg)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "daemon", "log_file", err)
		return nil
	}
	defer l.Close()

	r, err := daemon.New(&daemon.Config{
		App:       cfg,
		Secret:    token,
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
	}, &daemon.Dependencies{
		Logger: l,
		Ready: func(addr string) {
			l.Info("listening on %s", addr)
		},
	})
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "daemon", "new_runner", err)
		return nil
	}
	err = startDaemon(r)
	if err != nil && !errors.Is(err, context.Canceled) {
		cmdcommon.PrintRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}

// newDaemonLogger logs to stderr and, if configured, to the log file.
// Info lines reach the console only in debug mode; the file gets all.
func newDaemonLogger(cfg *config.Config) (logger.Logger, error) {
	var console logger.Logger = logger.NewStandardLogger(log.New(os.Stderr, "warpremind: ", log.LstdFlags))
	if !cfg.Debug {
		console = quietLogger{console}
	}
	if cfg.LogFile == "" {
		return console, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return logger.NewMultiLogger(console, logger.NewWriterLogger(f, "")), nil
}

// quietLogger drops Info messages.
type quietLogger struct {
	logger.Logger
}

func (quietLogger) Info(string, ...interface{}) {}
