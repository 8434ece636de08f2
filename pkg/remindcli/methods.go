package remindcli

import (
	"context"
	"time"

	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/pkg/reminder"
)

func (c *Client) Version(ctx context.Context) (*common.VersionResult, error) {
	return invoke[common.VersionResult](ctx, c, common.MethodGetVersion, nil)
}

func (c *Client) Add(ctx context.Context, p *common.AddParams) (*reminder.Reminder, error) {
	return invoke[reminder.Reminder](ctx, c, common.MethodReminderAdd, p)
}

// List returns every reminder, or only the due ones when due is set.
func (c *Client) List(ctx context.Context, due bool) ([]reminder.Reminder, error) {
	res, err := invoke[common.ListResult](ctx, c, common.MethodReminderList, &common.ListParams{Due: due})
	if err != nil {
		return nil, err
	}
	return res.Reminders, nil
}

func (c *Client) Remove(ctx context.Context, id string) error {
	_, err := invoke[common.EmptyResult](ctx, c, common.MethodReminderRemove, &common.IDParam{ID: id})
	return err
}

// Snooze postpones a reminder by d, or by the daemon default if d is zero.
func (c *Client) Snooze(ctx context.Context, id string, d time.Duration) (time.Time, error) {
	p := &common.SnoozeParams{ID: id}
	if d > 0 {
		until := time.Now().Add(d)
		p.Until = &until
	}
	res, err := invoke[common.SnoozeResult](ctx, c, common.MethodReminderSnooze, p)
	if err != nil {
		return time.Time{}, err
	}
	return res.Until, nil
}

// Complete marks a reminder done and returns its next occurrence, if any.
func (c *Client) Complete(ctx context.Context, id string) (*reminder.Reminder, error) {
	res, err := invoke[common.DoneResult](ctx, c, common.MethodReminderDone, &common.IDParam{ID: id})
	if err != nil {
		return nil, err
	}
	return res.Next, nil
}

func (c *Client) SetComposer(ctx context.Context, open bool) error {
	_, err := invoke[common.EmptyResult](ctx, c, common.MethodComposerSet, &common.ComposerParams{Open: open})
	return err
}

func (c *Client) CloseDialog(ctx context.Context, id string) error {
	_, err := invoke[common.EmptyResult](ctx, c, common.MethodDialogClose, &common.IDParam{ID: id})
	return err
}

func (c *Client) Dialogs(ctx context.Context) ([]common.Dialog, error) {
	res, err := invoke[common.DialogListResult](ctx, c, common.MethodDialogList, nil)
	if err != nil {
		return nil, err
	}
	return res.Dialogs, nil
}

// Register announces this connection as a UI host.
func (c *Client) Register(ctx context.Context, desktop bool) error {
	_, err := invoke[common.EmptyResult](ctx, c, common.MethodHostRegister, &common.RegisterParams{Desktop: desktop})
	return err
}

// SyncDone reports that the host finished its initial sync.
func (c *Client) SyncDone(ctx context.Context) error {
	_, err := invoke[common.EmptyResult](ctx, c, common.MethodSyncDone, nil)
	return err
}

// Day fetches the timeline for date (YYYY-MM-DD, today if empty).
func (c *Client) Day(ctx context.Context, date string) (*common.DayResult, error) {
	return invoke[common.DayResult](ctx, c, common.MethodTimelineDay, &common.DayParams{Date: date})
}

func (c *Client) Reorder(ctx context.Context, date, fromID, beforeID string) (*common.DayResult, error) {
	return invoke[common.DayResult](ctx, c, common.MethodTimelineReorder, &common.ReorderParams{
		Date:     date,
		FromID:   fromID,
		BeforeID: beforeID,
	})
}
