package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	cmdcommon "github.com/warpdl/warpremind/cmd/common"
	"github.com/warpdl/warpremind/pkg/reminder"
)

var (
	nextNoWait bool

	nextFlags = withClientFlags(
		cli.BoolFlag{
			Name:        "no-wait",
			Usage:       "print the next reminder and exit without a countdown (default: false)",
			Destination: &nextNoWait,
		},
	)

	countdownTick = time.Second
)

// nextReminder picks the earliest reminder due after now.
func nextReminder(rs []reminder.Reminder, now time.Time) (reminder.Reminder, bool) {
	var (
		best  reminder.Reminder
		found bool
	)
	for _, r := range rs {
		if !r.DueAt.After(now) {
			continue
		}
		if !found || r.DueAt.Before(best.DueAt) {
			best, found = r, true
		}
	}
	return best, found
}

func next(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "next", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	rs, err := client.List(cctx, false)
	cancel()
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "next", "get_list", err)
		return nil
	}
	now := time.Now()
	r, ok := nextReminder(rs, now)
	if !ok {
		fmt.Println("warpremind: no upcoming reminders")
		return nil
	}
	fmt.Printf("Next: %s, due %s (in %s)\n", r.Title, formatDue(r.DueAt), cmdcommon.FormatRemaining(r.DueAt.Sub(now)))
	if nextNoWait {
		return nil
	}
	countdown(r, now)
	return nil
}

// countdown fills a bar until r is due.
func countdown(r reminder.Reminder, start time.Time) {
	p := mpb.New(mpb.WithWidth(64), mpb.WithRefreshRate(countdownTick))
	bar := cmdcommon.InitCountdownBar(p, r.Title, start, r.DueAt)
	ticker := time.NewTicker(countdownTick)
	defer ticker.Stop()
	for !bar.Completed() {
		now := <-ticker.C
		if !now.Before(r.DueAt) {
			bar.SetTotal(-1, true)
			break
		}
		bar.SetCurrent(int64(now.Sub(start) / time.Second))
	}
	p.Wait()
	fmt.Printf("Due now: %s\n", r.Title)
}
