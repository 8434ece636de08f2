package server

import (
	"context"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/warpdl/warpremind/pkg/logger"
)

// pushTimeout bounds how long Broadcast waits for any one host.
const pushTimeout = 5 * time.Second

// RPCNotifier maintains a set of connected jrpc2 WebSocket servers
// and broadcasts push notifications to all of them.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger
	timeout time.Duration
}

// NewRPCNotifier creates a new notifier.
func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     logger.OrNop(l),
		timeout: pushTimeout,
	}
}

// Register adds a server to the broadcast set.
func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

// Unregister removes a server from the broadcast set.
func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast sends a push notification to all registered servers and
// returns how many accepted it. Hosts are pushed to concurrently; one that
// fails or has not taken the push within the timeout is unregistered.
func (n *RPCNotifier) Broadcast(method string, params any) int {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()
	if len(servers) == 0 {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	type result struct {
		srv *jrpc2.Server
		err error
	}
	results := make(chan result, len(servers))
	for _, srv := range servers {
		go func() {
			results <- result{srv: srv, err: srv.Notify(ctx, method, params)}
		}()
	}

	outstanding := make(map[*jrpc2.Server]struct{}, len(servers))
	for _, srv := range servers {
		outstanding[srv] = struct{}{}
	}
	var failed []*jrpc2.Server
wait:
	for len(outstanding) > 0 {
		select {
		case r := <-results:
			delete(outstanding, r.srv)
			if r.err != nil {
				n.log.Warning("RPC push %s failed: %v", method, r.err)
				failed = append(failed, r.srv)
			}
		case <-ctx.Done():
			n.log.Warning("RPC push %s: %d host(s) did not respond in %s", method, len(outstanding), n.timeout)
			for srv := range outstanding {
				failed = append(failed, srv)
			}
			break wait
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
	return len(servers) - len(failed)
}

// Count returns the number of registered servers.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}
