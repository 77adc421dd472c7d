// Package testutil provides test helpers: a logger bound to the test and
// builders for schema fixtures.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// LoggerOption configures NewTestLogger.
type LoggerOption func(*loggerOptions)

type loggerOptions struct {
	level    slog.Leveler
	recorder *Recorder
}

// WithLevel sets the minimum level. The default is debug.
func WithLevel(level slog.Leveler) LoggerOption {
	return func(o *loggerOptions) { o.level = level }
}

// WithRecorder keeps every enabled record in r as well.
func WithRecorder(r *Recorder) LoggerOption {
	return func(o *loggerOptions) { o.recorder = r }
}

// NewTestLogger returns a logger that writes to t.Log(). Output shows on
// failure or with -v.
func NewTestLogger(t testing.TB, opts ...LoggerOption) *slog.Logger {
	t.Helper()
	o := loggerOptions{level: slog.LevelDebug}
	for _, opt := range opts {
		opt(&o)
	}
	var h slog.Handler = slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: o.level})
	if o.recorder != nil {
		h = &recordingHandler{Handler: h, rec: o.recorder}
	}
	return slog.New(h)
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Recorder collects log records. Attributes added with Logger.With are not
// part of the kept records.
type Recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

// Records returns a copy of the kept records in log order.
func (r *Recorder) Records() []slog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]slog.Record(nil), r.records...)
}

// Attr returns the value of the first attribute named key in rec.
func Attr(rec slog.Record, key string) (string, bool) {
	var (
		val   string
		found bool
	)
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			val, found = a.Value.String(), true
			return false
		}
		return true
	})
	return val, found
}

type recordingHandler struct {
	slog.Handler
	rec *Recorder
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.rec.mu.Lock()
	h.rec.records = append(h.rec.records, r.Clone())
	h.rec.mu.Unlock()
	return h.Handler.Handle(ctx, r)
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{Handler: h.Handler.WithAttrs(attrs), rec: h.rec}
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return &recordingHandler{Handler: h.Handler.WithGroup(name), rec: h.rec}
}
