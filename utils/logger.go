package utils

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards everything and reports itself disabled so callers skip formatting
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

/*
SetLogger configures the logger shared by the analysis packages. Nothing is
logged until a logger is set; passing nil restores the silent default.

Levels in use:
  - Debug: iteration counts, pass sizes, cache hits
  - Info:  start/end of expensive passes (LIC synthesis)
  - Warn:  recoverable numerical trouble (NaN in a produced field)
*/
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

func Logger() *slog.Logger {
	return loggerPtr.Load()
}
