// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(NopLogger())
}

// SetLogger configures the logger for graphview and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels:
//   - [slog.LevelDebug]: buffer sizes, uploads, pipeline creation
//   - [slog.LevelInfo]: lifecycle events (backend selected, adapter opened)
//   - [slog.LevelWarn]: non-fatal issues (vertex budget truncation, release errors)
//
// Renderers created without an explicit logger read it at construction time.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = NopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// LoggerSetter is implemented by components that accept a logger after
// construction, such as render backends.
type LoggerSetter interface {
	SetLogger(*slog.Logger)
}

// PropagateLogger passes l to v when v implements LoggerSetter.
func PropagateLogger(v any, l *slog.Logger) {
	if ls, ok := v.(LoggerSetter); ok {
		ls.SetLogger(l)
	}
}
