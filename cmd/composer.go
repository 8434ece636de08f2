package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	cmdcommon "github.com/warpdl/warpremind/cmd/common"
)

var errComposerState = errors.New(`composer state must be "open" or "close"`)

func parseComposerState(s string) (open bool, err error) {
	switch s {
	case "open", "opened", "on":
		return true, nil
	case "close", "closed", "off":
		return false, nil
	}
	return false, fmt.Errorf("%w, got %q", errComposerState, s)
}

func composer(ctx *cli.Context) error {
	arg := ctx.Args().First()
	switch arg {
	case "":
		return cmdcommon.PrintErrWithCmdHelp(ctx, errComposerState)
	case "help":
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	open, err := parseComposerState(arg)
	if err != nil {
		return cmdcommon.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := newClient(nil)
	if err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "composer", "new_client", err)
		return nil
	}
	defer client.Close()
	cctx, cancel := callCtx()
	defer cancel()
	if err := client.SetComposer(cctx, open); err != nil {
		cmdcommon.PrintRuntimeErr(ctx, "composer", "set_composer", err)
		return nil
	}
	if open {
		fmt.Println("Composer marked open, reminders will wait")
	} else {
		fmt.Println("Composer marked closed")
	}
	return nil
}
