package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/warpremind/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "warpremind",
		HelpName:              "warpremind",
		Usage:                 "Reminder notifications that know when to wait.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "warpremind <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "daemon",
				Usage:              "run the reminder daemon",
				Action:             runDaemon,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DaemonDescription,
				Flags:              daemonFlags,
			},
			{
				Name:                   "add",
				Aliases:                []string{"a"},
				Usage:                  "add a reminder",
				Action:                 add,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            AddDescription,
				UseShortOptionHandling: true,
				Flags:                  addFlags,
			},
			{
				Name:                   "list",
				Aliases:                []string{"l"},
				Usage:                  "display stored reminders",
				Action:                 list,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ListDescription,
				UseShortOptionHandling: true,
				Flags:                  lsFlags,
			},
			{
				Name:               "remove",
				Aliases:            []string{"rm"},
				Usage:              "delete a reminder",
				Action:             remove,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        RemoveDescription,
				Flags:              clientFlags,
			},
			{
				Name:               "snooze",
				Aliases:            []string{"s"},
				Usage:              "push a reminder back",
				Action:             snooze,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        SnoozeDescription,
				Flags:              snoozeFlags,
			},
			{
				Name:               "done",
				Usage:              "complete a reminder",
				Action:             done,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DoneDescription,
				Flags:              clientFlags,
			},
			{
				Name:               "composer",
				Usage:              "report the composer as open or closed",
				Action:             composer,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ComposerDescription,
				Flags:              clientFlags,
			},
			{
				Name:               "attach",
				Usage:              "act as a UI host for notifications and dialogs",
				Action:             attach,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        AttachDescription,
				Flags:              attachFlags,
			},
			{
				Name:               "timeline",
				Aliases:            []string{"t"},
				Usage:              "print the plan for a day",
				Action:             timeline,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        TimelineDescription,
				Flags:              timelineFlags,
			},
			{
				Name:               "next",
				Aliases:            []string{"n"},
				Usage:              "count down to the next reminder",
				Action:             next,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        NextDescription,
				Flags:              nextFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of warpremind",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
