package common

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "warpremind"
	app.HelpName = "warpremind"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

func TestInitCountdownBar(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := mpb.New(mpb.WithOutput(io.Discard))
	bar := InitCountdownBar(p, "Buy milk", now, now.Add(90*time.Second))
	if bar == nil {
		t.Fatal("expected bar")
	}
	if bar.Completed() {
		t.Fatal("bar for a future reminder should not be complete")
	}
	bar.SetCurrent(90)
	if !bar.Completed() {
		t.Fatal("bar should complete when the countdown runs out")
	}
	p.Wait()
}

func TestInitCountdownBarPastDue(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := mpb.New(mpb.WithOutput(io.Discard))
	bar := InitCountdownBar(p, "late", now, now.Add(-time.Minute))
	if !bar.Completed() {
		t.Fatal("bar for an overdue reminder should be complete")
	}
	p.Wait()
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Minute, "0:00"},
		{59 * time.Second, "0:59"},
		{90 * time.Second, "1:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{1500 * time.Millisecond, "0:02"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.in); got != tt.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBeautAndReplic(t *testing.T) {
	if got := Beaut("hi", 4); got != " hi " {
		t.Fatalf("unexpected beaut output: %q", got)
	}
	vals := replic('x', 3)
	if len(vals) != 3 || vals[0] != 'x' {
		t.Fatalf("unexpected replic output: %v", vals)
	}
}

func TestBeautOddRemainder(t *testing.T) {
	if got := Beaut("hi", 5); got != " hi  " {
		t.Fatalf("unexpected beaut output for odd padding: %q", got)
	}
}

func TestBeautTruncates(t *testing.T) {
	if got := Beaut("a very long title", 8); got != "a ver..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Beaut("abcdef", 2); got != "ab" {
		t.Fatalf("unexpected short truncation: %q", got)
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	PrintRuntimeErr(nil, "cmd", "action", nil)
	PrintRuntimeErr(newTestContext(), "cmd", "action", errors.New("boom"))
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := SetShowAppHelpAndExit(func(*cli.Context, int) {
		called = true
	})
	defer SetShowAppHelpAndExit(orig)

	if err := PrintErrWithHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithHelpFlagHelpRequested(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := SetShowAppHelpAndExit(func(*cli.Context, int) {
		called = true
	})
	defer SetShowAppHelpAndExit(orig)

	if err := PrintErrWithHelp(ctx, errors.New("flag: help requested")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx := newTestContext()
	var got string
	orig := SetShowCommandHelp(func(_ *cli.Context, name string) error {
		got = name
		return nil
	})
	defer SetShowCommandHelp(orig)

	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if got != "cmd" {
		t.Fatalf("command help shown for %q, want cmd", got)
	}
}

func TestPrintErrWithCmdHelp_ShowCommandHelpError(t *testing.T) {
	ctx := newTestContext()
	orig := SetShowCommandHelp(func(*cli.Context, string) error {
		return errors.New("boom")
	})
	defer SetShowCommandHelp(orig)

	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
}

func TestPrintErrNil(t *testing.T) {
	if err := PrintErrWithCmdHelp(newTestContext(), nil); err != nil {
		t.Fatalf("nil error should print nothing, got %v", err)
	}
}

func TestHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := SetShowAppHelpAndExit(func(*cli.Context, int) {
		called = true
	})
	defer SetShowAppHelpAndExit(orig)

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestHelpWithCommandArg(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"add"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	var got string
	orig := SetShowCommandHelp(func(_ *cli.Context, name string) error {
		got = name
		return nil
	})
	defer SetShowCommandHelp(orig)

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if got != "add" {
		t.Fatalf("command help shown for %q, want add", got)
	}
}

func TestHelpWithCommandError(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"nope"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	orig := SetShowCommandHelp(func(*cli.Context, string) error {
		return errors.New("boom")
	})
	defer SetShowCommandHelp(orig)

	if err := Help(ctx); err == nil {
		t.Fatalf("expected error from Help")
	}
}

func TestGetVersion(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "v1.2.3"
	defer func() { VersionCmdStr = old }()

	if err := GetVersion(newTestContext()); err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
}

func TestPrintErrWithHelpVersion(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "v0"
	defer func() { VersionCmdStr = old }()
	called := false
	orig := SetShowAppHelpAndExit(func(*cli.Context, int) {
		called = true
	})
	defer SetShowAppHelpAndExit(orig)

	if err := PrintErrWithHelp(newTestContext(), errors.New("bad -version")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if called {
		t.Fatal("version errors should print the version, not help")
	}
}

func TestUsageErrorCallbackNoCommand(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: ""}
	called := false
	orig := SetShowAppHelpAndExit(func(*cli.Context, int) { called = true })
	defer SetShowAppHelpAndExit(orig)

	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	if !called {
		t.Fatal("expected app help")
	}
}
