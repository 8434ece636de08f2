// Package logger provides the logging interface shared by every warpremind
// component. Components accept a Logger and treat nil as "discard".
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// Logger is the printf-style logging interface used by the scheduler, the
// daemon and the RPC layer.
type Logger interface {
	// Info logs an informational message (e.g., "scheduler started").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem (e.g., "notification delivery failed").
	Warning(format string, args ...interface{})

	// Error logs a failure that dropped work (e.g., "dispatch: empty batch").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call multiple times.
	Close() error
}

// StandardLogger writes prefixed lines through a *log.Logger.
type StandardLogger struct {
	logger *log.Logger
	closer io.Closer
}

// NewStandardLogger creates a logger that wraps the given *log.Logger.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

// NewWriterLogger creates a logger writing to w. If w is an io.Closer it is
// closed by Close, which is how the daemon hands over its log file.
func NewWriterLogger(w io.Writer, prefix string) *StandardLogger {
	s := &StandardLogger{logger: log.New(w, prefix, log.LstdFlags)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Info logs with an [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs with a [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs with an [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close closes the underlying writer if the logger owns one.
func (s *StandardLogger) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// NopLogger discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// OrNop returns l, or a NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}

// ToStdLogger exposes l as a *log.Logger for libraries that want one
// (net/http.Server.ErrorLog). Each write becomes one Info call.
func ToStdLogger(l Logger) *log.Logger {
	return log.New(&stdWriter{l: OrNop(l)}, "", 0)
}

type stdWriter struct {
	l Logger
}

func (w *stdWriter) Write(p []byte) (int, error) {
	w.l.Info("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Recorder keeps every message in memory. It is safe for concurrent use,
// which matters because the scheduler logs from its own goroutine.
type Recorder struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
	closed   bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Info(format string, args ...interface{}) {
	r.mu.Lock()
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *Recorder) Warning(format string, args ...interface{}) {
	r.mu.Lock()
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *Recorder) Error(format string, args ...interface{}) {
	r.mu.Lock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Infos returns a copy of the recorded info messages.
func (r *Recorder) Infos() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.infos...)
}

// Warnings returns a copy of the recorded warning messages.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

// Errors returns a copy of the recorded error messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*Recorder)(nil)
)
