package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/internal/config"
	"github.com/warpdl/warpremind/internal/secret"
	"github.com/warpdl/warpremind/pkg/remindcli"
)

var (
	daemonAddr string

	// rpcTimeout bounds every single call made by a short-lived command.
	rpcTimeout = 10 * time.Second

	clientFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "addr",
			Usage:       "daemon RPC address (host:port), read from config.json if empty",
			Destination: &daemonAddr,
			EnvVar:      common.ListenEnv,
		},
	}

	configFs = afero.NewOsFs()
)

// errNoDaemonSecret wraps secret.ErrNotFound with a hint for first-time users.
var errNoDaemonSecret = errors.New(`no rpc secret, start the daemon once with "warpremind daemon"`)

func resolveDaemon() (addr, token string, err error) {
	dir := common.ConfigDir()
	addr = daemonAddr
	if addr == "" {
		cfg, err := config.Load(configFs, dir)
		if err != nil {
			return "", "", err
		}
		addr = cfg.Listen
	}
	token, err = secret.New(dir).Load()
	if errors.Is(err, secret.ErrNotFound) {
		return "", "", errNoDaemonSecret
	}
	if err != nil {
		return "", "", err
	}
	return addr, token, nil
}

func newClient(h *remindcli.Handlers) (*remindcli.Client, error) {
	addr, token, err := resolveDaemon()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	c, err := remindcli.Dial(ctx, remindcli.Options{Addr: addr, Secret: token, Handlers: h})
	if err != nil {
		return nil, fmt.Errorf("%w (is the daemon running?)", err)
	}
	return c, nil
}

func callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rpcTimeout)
}

// withClientFlags returns flags with the client flags appended.
func withClientFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, clientFlags...)
}
