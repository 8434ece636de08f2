package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"
	cmdcommon "github.com/warpdl/warpremind/cmd/common"
	"github.com/warpdl/warpremind/common"
)

var (
	timelineMove   string
	timelineBefore string

	timelineFlags = withClientFlags(
		cli.StringFlag{
			Name:        "move, m",
			Usage:       "id of the entry to move",
			Destination: &timelineMove,
		},
		cli.StringFlag{
			Name:        "before, b",
			Usage:       "id of the entry to move it in front of",
			Destination: &timelineBefore,
		},
	)
)

var errMoveNeedsBoth = errors.New("--move and --before must be used together")

func timeline(ctx *cli.Context) error {
	date := ctx.Args().First()
	if date == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if date != "" {
		if _, err := time.Parse(common.DateLayout, date); err != nil {
			return cmdcommon.PrintErrWithCmdHelp(ctx, fmt.Errorf("invalid date %q, want YYYY-MM-DD", date))
		}
	}
	if (timelineMove == "") != (timelineBefore == "") {
		return cmdcommon.PrintErrWithCmdHelp(ctx, errMoveNeedsBoth)
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "timeline", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	defer cancel()

	var res *common.DayResult
	if timelineMove != "" {
		res, err = client.Reorder(cctx, date, timelineMove, timelineBefore)
	} else {
		res, err = client.Day(cctx, date)
	}
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "timeline", "get_day", err)
		return nil
	}
	fmt.Println(renderDay(res))
	return nil
}

func renderDay(d *common.DayResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan for %s:\n", d.Date)
	for _, e := range d.Entries {
		line := fmt.Sprintf("  %s  %-30s", e.Start.Local().Format("15:04"), string(e.Type))
		if e.Title != "" {
			line += "  " + e.Title
		}
		if e.Duration > 0 {
			line += fmt.Sprintf(" (%s)", e.Duration)
		}
		fmt.Fprintf(&b, "%s  [%s]\n", line, e.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}
