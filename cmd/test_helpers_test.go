package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli"
	cmdcommon "github.com/warpdl/warpremind/cmd/common"
	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/internal/config"
	"github.com/warpdl/warpremind/internal/daemon"
	"github.com/warpdl/warpremind/internal/scheduler"
	"github.com/warpdl/warpremind/pkg/logger"
)

const testSecret = "cmd-test-secret"

// captureOutput captures stdout and stderr during function execution.
// It redirects os.Stdout and os.Stderr to pipes, runs the provided function,
// and returns the captured output as strings.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	outC := make(chan string)
	errC := make(chan string)
	go func() {
		var b bytes.Buffer
		io.Copy(&b, rOut)
		outC <- b.String()
	}()
	go func() {
		var b bytes.Buffer
		io.Copy(&b, rErr)
		errC <- b.String()
	}()

	f()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	stdout, stderr = <-outC, <-errC
	rOut.Close()
	rErr.Close()
	return stdout, stderr
}

// assertContains checks if output contains the expected substring.
func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// assertNotContains checks if output does NOT contain the specified substring.
func assertNotContains(t *testing.T, output, notExpected string) {
	t.Helper()
	if strings.Contains(output, notExpected) {
		t.Errorf("expected output to NOT contain %q, got:\n%s", notExpected, output)
	}
}

// assertErrorFormat checks that error output follows the standard format:
// warpremind: cmd[action]: msg
func assertErrorFormat(t *testing.T, output, cmd, action string) {
	t.Helper()
	pattern := "warpremind: " + cmd + "[" + action + "]:"
	if !strings.Contains(output, pattern) {
		t.Errorf("expected error format %q, got:\n%s", pattern, output)
	}
}

func newTestApp() *cli.App {
	app := cli.NewApp()
	app.Name = "warpremind"
	app.HelpName = "warpremind"
	return app
}

func newContext(app *cli.App, args []string, name string) *cli.Context {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	_ = set.Parse(args)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: name}
	return ctx
}

// stubHelp keeps help output from exiting the test binary.
func stubHelp(t *testing.T) {
	t.Helper()
	prevApp := cmdcommon.SetShowAppHelpAndExit(func(*cli.Context, int) {})
	prevCmd := cmdcommon.SetShowCommandHelp(func(*cli.Context, string) error { return nil })
	t.Cleanup(func() {
		cmdcommon.SetShowAppHelpAndExit(prevApp)
		cmdcommon.SetShowCommandHelp(prevCmd)
	})
}

// resetFlags restores every flag destination after the test.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		daemonAddr = ""
		awaitSync = false
		addAt, addIn, addType, addRelated, addRepeat = "", 0, "task", "", ""
		listDue = false
		snoozeFor = 0
		attachDesktop, attachSync, attachDismissAfter = false, false, 0
		timelineMove, timelineBefore = "", ""
		nextNoWait = false
	})
	addType = "task"
}

type testDaemon struct {
	addr   string
	clock  *scheduler.FakeClock
	runner *daemon.Runner
}

// startTestDaemon runs a daemon on a free port with its state in a temp
// dir and points the client flags at it.
func startTestDaemon(t *testing.T) *testDaemon {
	t.Helper()
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv(common.ConfigDirEnv, dir)
	t.Setenv(common.RPCSecretEnv, testSecret)

	app := config.Default(dir)
	app.Listen = "127.0.0.1:0"
	app.PollInterval = config.Duration(20 * time.Millisecond)
	clock := scheduler.NewFakeClock(time.Now())
	ready := make(chan string, 1)
	r, err := daemon.New(&daemon.Config{
		App:             app,
		Secret:          testSecret,
		Version:         "test",
		ShutdownTimeout: 2 * time.Second,
	}, &daemon.Dependencies{
		Clock:  clock,
		Logger: logger.NewRecorder(),
		Ready:  func(addr string) { ready <- addr },
	})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	errc := make(chan error, 1)
	go func() { errc <- r.Start(context.Background()) }()
	td := &testDaemon{clock: clock, runner: r}
	select {
	case td.addr = <-ready:
	case err := <-errc:
		t.Fatalf("daemon Start: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("daemon never became ready")
	}
	t.Cleanup(func() {
		if err := r.Shutdown(); err != nil {
			t.Errorf("daemon Shutdown: %v", err)
		}
		if err := <-errc; !errors.Is(err, context.Canceled) {
			t.Errorf("daemon Start returned %v", err)
		}
	})
	daemonAddr = td.addr
	return td
}
