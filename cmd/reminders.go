package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"
	cmdcommon "github.com/warpdl/warpremind/cmd/common"
	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/pkg/reminder"
)

// dueLayouts are tried in order for --at. Layouts without a zone are read
// in local time.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"15:04",
}

var (
	addAt      string
	addIn      time.Duration
	addType    string
	addRelated string
	addRepeat  string

	addFlags = withClientFlags(
		cli.StringFlag{
			Name:        "at",
			Usage:       `due time, e.g. "2026-03-02 15:04" or "15:04" for today`,
			Destination: &addAt,
		},
		cli.DurationFlag{
			Name:        "in, i",
			Usage:       "due after this delay, e.g. 30m",
			Destination: &addIn,
		},
		cli.StringFlag{
			Name:        "type, t",
			Usage:       "reminder type: task or note",
			Value:       "task",
			Destination: &addType,
		},
		cli.StringFlag{
			Name:        "related, r",
			Usage:       "id of the task or note the reminder belongs to",
			Destination: &addRelated,
		},
		cli.StringFlag{
			Name:        "repeat",
			Usage:       `cron expression for recurring reminders, e.g. "0 9 * * 1-5"`,
			Destination: &addRepeat,
		},
	)

	listDue bool

	lsFlags = withClientFlags(
		cli.BoolFlag{
			Name:        "due, d",
			Usage:       "use this flag to list only reminders due now (default: false)",
			Destination: &listDue,
		},
	)

	snoozeFor time.Duration

	snoozeFlags = withClientFlags(
		cli.DurationFlag{
			Name:        "for, f",
			Usage:       "snooze length, the daemon default if not set",
			Destination: &snoozeFor,
		},
	)
)

var (
	errNoTitle    = errors.New("no title provided")
	errNoID       = errors.New("no reminder id provided")
	errNoDue      = errors.New("set a due time with --at or --in")
	errDueTwice   = errors.New("--at and --in cannot be used together")
	errBadDueTime = errors.New("unrecognized due time")
)

func parseType(s string) (reminder.Type, error) {
	t := reminder.Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", reminder.ErrInvalidType, s)
	}
	return t, nil
}

// parseDue resolves --at and --in against now.
func parseDue(at string, in time.Duration, now time.Time) (time.Time, error) {
	switch {
	case at != "" && in != 0:
		return time.Time{}, errDueTwice
	case in > 0:
		return now.Add(in), nil
	case in < 0:
		return time.Time{}, fmt.Errorf("%w: negative delay %s", errBadDueTime, in)
	case at == "":
		return time.Time{}, errNoDue
	}
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, at, now.Location())
		if err != nil {
			continue
		}
		if layout == "15:04" {
			y, m, d := now.Date()
			t = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location())
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadDueTime, at)
}

// idArg returns the first argument, printing command help when it is
// missing. ok is false when the caller should stop.
func idArg(ctx *cli.Context, missing error) (id string, ok bool, err error) {
	id = ctx.Args().First()
	switch id {
	case "":
		return "", false, cmdcommon.PrintErrWithCmdHelp(ctx, missing)
	case "help":
		return "", false, cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	return id, true, nil
}

func add(ctx *cli.Context) error {
	title, ok, err := idArg(ctx, errNoTitle)
	if !ok {
		return err
	}
	typ, err := parseType(addType)
	if err != nil {
		return cmdcommon.PrintErrWithCmdHelp(ctx, err)
	}
	due, err := parseDue(addAt, addIn, time.Now())
	if err != nil {
		return cmdcommon.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "add", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	defer cancel()
	r, err := client.Add(cctx, &common.AddParams{
		Title:      title,
		Type:       typ,
		DueAt:      due,
		RelatedID:  addRelated,
		Recurrence: addRepeat,
	})
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "add", "add_reminder", err)
		return nil
	}
	fmt.Printf("Added reminder %s, due %s\n", r.ID, formatDue(r.DueAt))
	return nil
}

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	defer cancel()
	rs, err := client.List(cctx, listDue)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	if len(rs) == 0 {
		fmt.Println("warpremind: no reminders found")
		return nil
	}
	fmt.Println(renderReminders(rs))
	return nil
}

func renderReminders(rs []reminder.Reminder) string {
	txt := "Here are your reminders:"
	txt += "\n\n-------------------------------------------------------------------------"
	txt += "\n|Num|          Title          | Type |        Due       |      Id       |"
	txt += "\n|---|-------------------------|------|------------------|---------------|"
	for i, r := range rs {
		title := r.Title
		if r.IsRecurring() {
			title = "* " + title
		}
		txt += fmt.Sprintf("\n|%s| %s | %s | %s | %s |",
			cmdcommon.Beaut(fmt.Sprint(i+1), 3),
			cmdcommon.Beaut(title, 23),
			cmdcommon.Beaut(string(r.Type), 4),
			formatDue(r.DueAt),
			cmdcommon.Beaut(r.ID, 13),
		)
	}
	txt += "\n-------------------------------------------------------------------------"
	return txt
}

func formatDue(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func remove(ctx *cli.Context) error {
	id, ok, err := idArg(ctx, errNoID)
	if !ok {
		return err
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "remove", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	defer cancel()
	if err := client.Remove(cctx, id); err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "remove", "remove_reminder", err)
		return nil
	}
	fmt.Printf("Removed reminder %s\n", id)
	return nil
}

func snooze(ctx *cli.Context) error {
	id, ok, err := idArg(ctx, errNoID)
	if !ok {
		return err
	}
	if snoozeFor < 0 {
		return cmdcommon.PrintErrWithCmdHelp(ctx, fmt.Errorf("negative snooze %s", snoozeFor))
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "snooze", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	defer cancel()
	until, err := client.Snooze(cctx, id, snoozeFor)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "snooze", "snooze_reminder", err)
		return nil
	}
	fmt.Printf("Snoozed reminder %s until %s\n", id, formatDue(until))
	return nil
}

func done(ctx *cli.Context) error {
	id, ok, err := idArg(ctx, errNoID)
	if !ok {
		return err
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "done", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	defer cancel()
	next, err := client.Complete(cctx, id)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "done", "complete_reminder", err)
		return nil
	}
	if next != nil {
		fmt.Printf("Completed reminder %s, next due %s\n", id, formatDue(next.DueAt))
		return nil
	}
	fmt.Printf("Completed reminder %s\n", id)
	return nil
}
