package gpupool

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so log calls on a
// silent pool never build their attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

var silent = slog.New(nopHandler{})

// pkgLogger holds the logger shared by pools without WithLogger.
// A nil value means silent.
var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger installs the logger used by every Pool that was not given one
// with WithLogger. Passing nil makes gpupool silent again, which is also the
// initial state. It may be called while pools are logging.
//
// Levels:
//   - [slog.LevelDebug]: a resource was created or reused
//   - [slog.LevelInfo]: a pool was closed
//   - [slog.LevelWarn]: a creation failed or a release was rejected
//
// For example, to trace pool activity on stderr:
//
//	gpupool.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//		&slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

// Logger returns the logger installed with SetLogger, or a silent one.
func Logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return silent
}
