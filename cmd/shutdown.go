package cmd

import (
	"context"
	"os"
	"os/signal"
)

// setupShutdownHandler returns a context that is canceled when one of
// shutdownSignals is received.
func setupShutdownHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, shutdownSignals...)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
