package server

import (
	"context"
	"net/http"
	"time"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

const (
	// maxMessageSize bounds a single inbound JSON-RPC message.
	maxMessageSize = 1 << 20
	// writeTimeout bounds a single write to a host.
	writeTimeout = 5 * time.Second
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel interface.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

// Send writes a JSON-RPC message to the WebSocket connection. A host that
// does not take the message within writeTimeout loses its connection.
func (c *wsChannel) Send(data []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, cws.MessageText, data)
}

// Recv reads a JSON-RPC message from the WebSocket connection.
func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

// Close shuts down the WebSocket connection with a normal closure status.
func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// serveWS upgrades the request and runs one push-enabled jrpc2 server on
// the connection until the peer goes away.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{OriginPatterns: rs.origins})
	if err != nil {
		rs.log.Warning("websocket accept: %v", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true})
	rs.notifier.Register(srv)
	defer rs.notifier.Unregister(srv)

	srv.Start(&wsChannel{conn: conn, ctx: r.Context()})
	if err := srv.Wait(); err != nil {
		rs.log.Info("websocket host disconnected: %v", err)
	}
}
