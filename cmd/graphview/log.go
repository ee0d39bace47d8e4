// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// newLogger creates a console logger writing to w at level.
func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLevel maps a config level name to a charm level; unknown names
// mean info.
func parseLevel(s string) charmlog.Level {
	level, err := charmlog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return charmlog.InfoLevel
	}
	return level
}

// slogLogger exposes l as a *slog.Logger for the library packages.
func slogLogger(l *charmlog.Logger) *slog.Logger {
	return slog.New(l)
}

// progress logs the duration of an operation when it is done.
type progress struct {
	logger *charmlog.Logger
	start  time.Time
}

func newProgress(l *charmlog.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or charm's default.
func loggerFromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(loggerKey).(*charmlog.Logger); ok {
		return l
	}
	return charmlog.Default()
}
