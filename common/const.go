package common

// RPC methods served by the daemon.
const (
	MethodGetVersion      = "system.getVersion"
	MethodReminderAdd     = "reminder.add"
	MethodReminderList    = "reminder.list"
	MethodReminderRemove  = "reminder.remove"
	MethodReminderSnooze  = "reminder.snooze"
	MethodReminderDone    = "reminder.done"
	MethodComposerSet     = "composer.set"
	MethodDialogClose     = "dialog.close"
	MethodDialogList      = "dialog.list"
	MethodHostRegister    = "host.register"
	MethodSyncDone        = "sync.done"
	MethodTimelineDay     = "timeline.day"
	MethodTimelineReorder = "timeline.reorder"
)

// Push notifications sent from the daemon to connected hosts.
const (
	PushNotificationShow = "notification.show"
	PushDialogOpen       = "dialog.open"
	PushWindowFocus      = "window.focus"
)

// DefaultListenAddr is where the daemon serves RPC unless configured.
const DefaultListenAddr = "127.0.0.1:3850"

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"
