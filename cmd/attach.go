package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"
	cmdcommon "github.com/warpdl/warpremind/cmd/common"
	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/pkg/remindcli"
)

var (
	attachDesktop      bool
	attachSync         bool
	attachDismissAfter time.Duration

	attachFlags = withClientFlags(
		cli.BoolFlag{
			Name:        "desktop",
			Usage:       "register as a desktop host that accepts window focus (default: false)",
			Destination: &attachDesktop,
		},
		cli.BoolFlag{
			Name:        "sync",
			Usage:       "report the initial sync as done after attaching (default: false)",
			Destination: &attachSync,
		},
		cli.DurationFlag{
			Name:        "dismiss-after",
			Usage:       "close dialogs on their own after this long instead of waiting for enter",
			Destination: &attachDismissAfter,
		},
	)

	// attachInput is read line by line; every line dismisses the shown dialog.
	attachInput io.Reader = os.Stdin
)

func attach(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	dialogs := make(chan common.Dialog, 4)
	client, err := newClient(&remindcli.Handlers{
		Notification: func(n common.NotificationParams) error {
			fmt.Printf("[notification] %s\n", n.Title)
			return nil
		},
		DialogOpen: func(d common.Dialog) error {
			dialogs <- d
			return nil
		},
		WindowFocus: func() error {
			fmt.Println("[focus] window focus requested")
			return nil
		},
	})
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "attach", "new_client", err)
		return nil
	}
	defer client.Close()

	cctx, cancel := callCtx()
	err = client.Register(cctx, attachDesktop)
	if err == nil && attachSync {
		err = client.SyncDone(cctx)
	}
	var open []common.Dialog
	if err == nil {
		// Dialogs opened before this host attached are shown first.
		open, err = client.Dialogs(cctx)
	}
	cancel()
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "attach", "register_host", err)
		return nil
	}
	fmt.Println(">> Attached to the warpremind daemon, waiting for reminders <<")
	go func() {
		for _, d := range open {
			dialogs <- d
		}
	}()

	h := &host{
		client:       client,
		dialogs:      dialogs,
		lines:        scanLines(attachInput),
		dismissAfter: attachDismissAfter,
	}
	if err := h.run(); err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "attach", "close_dialog", err)
	}
	return nil
}

func scanLines(r io.Reader) <-chan struct{} {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- struct{}{}
		}
	}()
	return lines
}

// dialogHost is the part of the daemon client a host needs.
type dialogHost interface {
	CloseDialog(ctx context.Context, id string) error
	Done() <-chan struct{}
}

// host shows one dialog at a time and closes it on enter or after
// dismissAfter. It returns when the daemon connection drops, or when
// input ends and there is no dismiss timer to fall back to.
type host struct {
	client       dialogHost
	dialogs      <-chan common.Dialog
	lines        <-chan struct{}
	dismissAfter time.Duration
	dismissed    map[string]bool
}

func (h *host) run() error {
	for {
		select {
		case <-h.client.Done():
			fmt.Println("warpremind: daemon connection closed")
			return nil
		case _, ok := <-h.lines:
			if !ok && !h.endOfInput() {
				return nil
			}
		case d := <-h.dialogs:
			if h.dismissed[d.ID] {
				continue
			}
			fmt.Println(renderDialog(d))
			if !h.wait() {
				return nil
			}
			cctx, cancel := callCtx()
			err := h.client.CloseDialog(cctx, d.ID)
			cancel()
			if err != nil {
				return err
			}
			if h.dismissed == nil {
				h.dismissed = make(map[string]bool)
			}
			h.dismissed[d.ID] = true
			fmt.Printf("Dismissed dialog %s\n", d.ID)
		}
	}
}

// endOfInput stops reading input. It reports whether the host can go on.
func (h *host) endOfInput() bool {
	h.lines = nil
	return h.dismissAfter > 0
}

// wait blocks until the shown dialog should be dismissed. It returns false
// when the host has to stop instead.
func (h *host) wait() bool {
	var timeout <-chan time.Time
	if h.dismissAfter > 0 {
		t := time.NewTimer(h.dismissAfter)
		defer t.Stop()
		timeout = t.C
	}
	for {
		select {
		case <-h.client.Done():
			fmt.Println("warpremind: daemon connection closed")
			return false
		case <-timeout:
			return true
		case _, ok := <-h.lines:
			if ok {
				return true
			}
			if !h.endOfInput() {
				return false
			}
		}
	}
}

func renderDialog(d common.Dialog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nReminders due [%s]\n", d.ID)
	for i, r := range d.Reminders {
		fmt.Fprintf(&b, "  %d. %s (%s, due %s)\n", i+1, r.Title, strings.ToLower(string(r.Type)), formatDue(r.DueAt))
	}
	b.WriteString("Press enter to dismiss")
	return b.String()
}
