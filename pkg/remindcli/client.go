// Package remindcli is the client side of the warpremind daemon's
// JSON-RPC WebSocket endpoint.
package remindcli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/warpdl/warpremind/common"
)

// ErrNoSecret is returned by Dial when no RPC secret was given.
var ErrNoSecret = errors.New("remindcli: rpc secret is required")

// Options configure Dial.
type Options struct {
	// Addr is the daemon's host:port; common.DefaultListenAddr if empty.
	Addr   string
	Secret string
	// Handlers receive push notifications. Nil fields ignore a push.
	Handlers *Handlers
}

type Client struct {
	rpc  *jrpc2.Client
	d    *Dispatcher
	done chan struct{}
}

// Dial connects to the daemon and starts receiving pushes.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Secret == "" {
		return nil, ErrNoSecret
	}
	addr := opts.Addr
	if addr == "" {
		addr = common.DefaultListenAddr
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/jsonrpc/ws"}
	conn, _, err := cws.Dial(ctx, u.String(), &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + opts.Secret}},
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon at %s: %w", addr, err)
	}
	conn.SetReadLimit(1 << 20)

	c := &Client{
		d:    &Dispatcher{Handlers: opts.Handlers},
		done: make(chan struct{}),
	}
	c.rpc = jrpc2.NewClient(&wsChannel{conn: conn, ctx: context.Background()}, &jrpc2.ClientOptions{
		OnNotify: c.d.process,
		OnStop:   func(*jrpc2.Client, error) { close(c.done) },
	})
	return c, nil
}

// Close drops the connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// DispatchErr returns the last error a push handler returned.
func (c *Client) DispatchErr() error {
	return c.d.Err()
}

func invoke[T any](ctx context.Context, c *Client, method string, params any) (*T, error) {
	var out T
	if err := c.rpc.CallResult(ctx, method, params, &out); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	return &out, nil
}

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel interface.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

func decode[T any](req *jrpc2.Request) (T, error) {
	var v T
	if !req.HasParams() {
		return v, nil
	}
	err := req.UnmarshalParams(&v)
	return v, err
}
