package cmd

const DESCRIPTION = `
warpremind keeps your task and note reminders and tells you when they
are due. The daemon holds notifications while the app is still syncing
or while you are in the middle of writing something, and it never stacks
a second reminder dialog on top of one that is already open.
`

const (
	DaemonDescription = `The daemon command starts the reminder daemon in the foreground.
Clients and UI hosts talk to it over JSON-RPC on the configured
listen address. The RPC secret is created on first start.

Example:
        warpremind daemon
        warpremind daemon --await-sync

`
	AddDescription = `The add command stores a new reminder. Give either an
absolute due time with --at or a delay with --in.

Example:
        warpremind add "Buy milk" --in 30m
        warpremind add "Standup" --at "2026-03-02 09:30" --repeat "30 9 * * 1-5"
        warpremind add "Read draft" --type note --related note-42 --in 2h

`
	ListDescription = `The list command displays stored reminders, soonest first.

Example:
        warpremind list
        warpremind list --due

`
	RemoveDescription = `The remove command deletes a reminder using its id.

Example:
        warpremind remove <reminder id>

`
	SnoozeDescription = `The snooze command pushes a reminder back. Without --for the
daemon's default snooze applies.

Example:
        warpremind snooze <reminder id>
        warpremind snooze <reminder id> --for 1h

`
	DoneDescription = `The done command completes a reminder. Recurring reminders are
re-armed at their next occurrence instead of being deleted.

Example:
        warpremind done <reminder id>

`
	ComposerDescription = `The composer command tells the daemon whether the text composer
is open. Due notifications wait while it is open.

Example:
        warpremind composer open
        warpremind composer close

`
	AttachDescription = `The attach command connects to the daemon as a UI host. Shown
notifications are printed, and every reminder dialog is printed and
stays open until you press enter.

Example:
        warpremind attach
        warpremind attach --desktop --sync

`
	TimelineDescription = `The timeline command prints the ordered plan for a day. With
--move and --before it shows the plan with one entry moved.

Example:
        warpremind timeline
        warpremind timeline 2026-03-02 --move <entry id> --before <entry id>

`
	NextDescription = `The next command shows a countdown to the next upcoming reminder.

Example:
        warpremind next
        warpremind next --no-wait

`
)
