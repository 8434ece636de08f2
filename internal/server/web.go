package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/warpdl/warpremind/pkg/logger"
)

// WebServer serves the RPC endpoints over HTTP.
type WebServer struct {
	addr     string
	l        logger.Logger
	rpc      *RPCServer
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
}

func NewWebServer(l logger.Logger, addr string, rpc *RPCServer) *WebServer {
	return &WebServer{addr: addr, l: logger.OrNop(l), rpc: rpc}
}

func (s *WebServer) handler() http.Handler {
	return s.rpc.Handler()
}

// Listen binds the configured address. It is called by Start when needed
// and exists separately so callers can learn the port before serving.
func (s *WebServer) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.ToStdLogger(s.l),
	}
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *WebServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start serves until Shutdown. It returns nil on graceful shutdown.
func (s *WebServer) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.mu.Lock()
	srv, ln := s.server, s.listener
	s.mu.Unlock()

	s.l.Info("RPC listening on %s", ln.Addr())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil // Expected during shutdown
	}
	return err
}

// Shutdown gracefully stops the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	s.listener = nil
	return s.server.Shutdown(ctx)
}
