package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/internal/hostui"
	"github.com/warpdl/warpremind/pkg/logger"
	"github.com/warpdl/warpremind/pkg/reminder"
	"github.com/warpdl/warpremind/pkg/timeline"
)

// Custom JSON-RPC error codes.
const (
	codeNotFound      = jrpc2.Code(-32001)
	codeNotMoveable   = jrpc2.Code(-32002)
	codeInvalidParams = jrpc2.Code(-32602)
	codeInternal      = jrpc2.Code(-32603)
)

// Host is the UI state the RPC methods update.
type Host interface {
	SetComposer(open bool)
	CloseDialog(id string) error
	Dialogs() []common.Dialog
	Register(desktop bool)
	MarkSynced()
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means every call is rejected)
	Version   string
	Commit    string
	BuildType string
	// Origins are extra host patterns allowed to open WebSockets.
	Origins []string
	// DefaultSnooze is used when reminder.snooze names no time.
	DefaultSnooze time.Duration
	Day           timeline.DayConfig
	// Now defaults to time.Now.
	Now func() time.Time
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge   jhttp.Bridge
	methods  handler.Map
	notifier *RPCNotifier
	secret   string
	origins  []string

	version   string
	commit    string
	buildType string

	store  reminder.Store
	host   Host
	snooze time.Duration
	day    timeline.DayConfig
	now    func() time.Time
	log    logger.Logger
}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
// WebSocket connections join notifier's broadcast set.
func NewRPCServer(cfg *RPCConfig, notifier *RPCNotifier, store reminder.Store, host Host, l logger.Logger) *RPCServer {
	log := logger.OrNop(l)
	if notifier == nil {
		notifier = NewRPCNotifier(log)
	}
	rs := &RPCServer{
		notifier:  notifier,
		secret:    cfg.Secret,
		origins:   cfg.Origins,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		store:     store,
		host:      host,
		snooze:    cfg.DefaultSnooze,
		day:       cfg.Day,
		now:       cfg.Now,
		log:       log,
	}
	if rs.now == nil {
		rs.now = time.Now
	}
	if rs.snooze <= 0 {
		rs.snooze = 10 * time.Minute
	}

	rs.methods = handler.Map{
		common.MethodGetVersion:      handler.New(rs.systemGetVersion),
		common.MethodReminderAdd:     handler.New(rs.reminderAdd),
		common.MethodReminderList:    handler.New(rs.reminderList),
		common.MethodReminderRemove:  handler.New(rs.reminderRemove),
		common.MethodReminderSnooze:  handler.New(rs.reminderSnooze),
		common.MethodReminderDone:    handler.New(rs.reminderDone),
		common.MethodComposerSet:     handler.New(rs.composerSet),
		common.MethodDialogClose:     handler.New(rs.dialogClose),
		common.MethodDialogList:      handler.New(rs.dialogList),
		common.MethodHostRegister:    handler.New(rs.hostRegister),
		common.MethodSyncDone:        handler.New(rs.syncDone),
		common.MethodTimelineDay:     handler.New(rs.timelineDay),
		common.MethodTimelineReorder: handler.New(rs.timelineReorder),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// Notifier returns the push broadcaster shared by all WebSocket hosts.
func (rs *RPCServer) Notifier() *RPCNotifier {
	return rs.notifier
}

// Handler returns the authenticated /jsonrpc and /jsonrpc/ws endpoints.
func (rs *RPCServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(rs.secret, rs.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(rs.secret, http.HandlerFunc(rs.serveWS)))
	return mux
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResult, error) {
	return &common.VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

func (rs *RPCServer) reminderAdd(ctx context.Context, p *common.AddParams) (*reminder.Reminder, error) {
	r := &reminder.Reminder{
		Title:      p.Title,
		Type:       p.Type,
		DueAt:      p.DueAt,
		RelatedID:  p.RelatedID,
		Recurrence: p.Recurrence,
	}
	if r.Type == "" {
		r.Type = reminder.TypeTask
	}
	if err := rs.store.Add(ctx, r); err != nil {
		return nil, rpcError(err)
	}
	return r, nil
}

func (rs *RPCServer) reminderList(ctx context.Context, p *common.ListParams) (*common.ListResult, error) {
	var (
		rems []reminder.Reminder
		err  error
	)
	if p.Due {
		rems, err = rs.store.Due(ctx, rs.now())
	} else {
		rems, err = rs.store.List(ctx)
	}
	if err != nil {
		return nil, rpcError(err)
	}
	if rems == nil {
		rems = []reminder.Reminder{}
	}
	return &common.ListResult{Reminders: rems}, nil
}

func (rs *RPCServer) reminderRemove(ctx context.Context, p *common.IDParam) (*common.EmptyResult, error) {
	if err := rs.store.Remove(ctx, p.ID); err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}

// reminderSnooze moves a reminder's due time forward.
func (rs *RPCServer) reminderSnooze(ctx context.Context, p *common.SnoozeParams) (*common.SnoozeResult, error) {
	now := rs.now()
	until := now.Add(rs.snooze)
	switch {
	case p.Until != nil:
		until = *p.Until
	case p.Minutes > 0:
		until = now.Add(time.Duration(p.Minutes) * time.Minute)
	case p.Minutes < 0:
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "minutes must be positive"}
	}
	if !until.After(now) {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "snooze time is in the past"}
	}
	if err := rs.store.Snooze(ctx, p.ID, until); err != nil {
		return nil, rpcError(err)
	}
	return &common.SnoozeResult{Until: until}, nil
}

func (rs *RPCServer) reminderDone(ctx context.Context, p *common.IDParam) (*common.DoneResult, error) {
	next, err := rs.store.Done(ctx, p.ID, rs.now())
	if err != nil {
		return nil, rpcError(err)
	}
	return &common.DoneResult{Next: next}, nil
}

func (rs *RPCServer) composerSet(_ context.Context, p *common.ComposerParams) (*common.EmptyResult, error) {
	rs.host.SetComposer(p.Open)
	return &common.EmptyResult{}, nil
}

func (rs *RPCServer) dialogClose(_ context.Context, p *common.IDParam) (*common.EmptyResult, error) {
	if err := rs.host.CloseDialog(p.ID); err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}

func (rs *RPCServer) dialogList(_ context.Context) (*common.DialogListResult, error) {
	return &common.DialogListResult{Dialogs: rs.host.Dialogs()}, nil
}

func (rs *RPCServer) hostRegister(_ context.Context, p *common.RegisterParams) (*common.EmptyResult, error) {
	rs.host.Register(p.Desktop)
	return &common.EmptyResult{}, nil
}

func (rs *RPCServer) syncDone(_ context.Context) (*common.EmptyResult, error) {
	rs.host.MarkSynced()
	return &common.EmptyResult{}, nil
}

func (rs *RPCServer) timelineDay(ctx context.Context, p *common.DayParams) (*common.DayResult, error) {
	day, entries, err := rs.buildDay(ctx, p.Date)
	if err != nil {
		return nil, err
	}
	return &common.DayResult{Date: day.Format(common.DateLayout), Entries: entries}, nil
}

// timelineReorder returns the day with one moveable entry placed before
// another. The order is not persisted.
func (rs *RPCServer) timelineReorder(ctx context.Context, p *common.ReorderParams) (*common.DayResult, error) {
	day, entries, err := rs.buildDay(ctx, p.Date)
	if err != nil {
		return nil, err
	}
	entries, err = timeline.Reorder(entries, p.FromID, p.BeforeID)
	if err != nil {
		return nil, rpcError(err)
	}
	return &common.DayResult{Date: day.Format(common.DateLayout), Entries: entries}, nil
}

func (rs *RPCServer) buildDay(ctx context.Context, date string) (time.Time, []timeline.Entry, error) {
	day := rs.now()
	if date != "" {
		parsed, err := time.ParseInLocation(common.DateLayout, date, day.Location())
		if err != nil {
			return time.Time{}, nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid date: " + err.Error()}
		}
		day = parsed
	}
	rems, err := rs.store.List(ctx)
	if err != nil {
		return time.Time{}, nil, rpcError(err)
	}
	entries, err := timeline.BuildDay(rems, rs.day, day)
	if err != nil {
		return time.Time{}, nil, rpcError(err)
	}
	return day, entries, nil
}

// rpcError maps domain errors onto JSON-RPC error codes.
func rpcError(err error) error {
	code := codeInternal
	switch {
	case errors.Is(err, reminder.ErrNotFound),
		errors.Is(err, hostui.ErrDialogNotFound),
		errors.Is(err, timeline.ErrEntryNotFound):
		code = codeNotFound
	case errors.Is(err, timeline.ErrNotMoveable):
		code = codeNotMoveable
	case errors.Is(err, reminder.ErrEmptyTitle),
		errors.Is(err, reminder.ErrInvalidType),
		errors.Is(err, reminder.ErrMissingDueAt),
		errors.Is(err, reminder.ErrInvalidCron),
		errors.Is(err, reminder.ErrNoOccurrences),
		errors.Is(err, timeline.ErrInvalidDay):
		code = codeInvalidParams
	}
	return &jrpc2.Error{Code: code, Message: err.Error()}
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
