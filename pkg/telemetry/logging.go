// Package telemetry builds the process logger.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
)

// Options configures NewLogger.
type Options struct {
	// Writer receives text output. Nil disables it.
	Writer io.Writer
	Level  slog.Leveler
	// Lines, when set, also receives each record as a short line, for
	// display in a terminal UI. Records are dropped while it is full.
	Lines chan<- string
}

// NewLogger returns a logger tagged with a fresh session id.
func NewLogger(opts Options) *slog.Logger {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	var handlers []slog.Handler
	if opts.Writer != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{Level: level}))
	}
	if opts.Lines != nil {
		handlers = append(handlers, &LineHandler{ch: opts.Lines, level: level})
	}

	return slog.New(slogmulti.Fanout(handlers...)).With(
		slog.String("session", uuid.NewString()),
	)
}

// LineHandler formats records as "[15:04:05] LEVEL msg k=v" and sends them
// to a channel without blocking.
type LineHandler struct {
	ch    chan<- string
	level slog.Leveler
	attrs []slog.Attr
}

// NewLineHandler returns a handler writing to ch.
func NewLineHandler(ch chan<- string, level slog.Leveler) *LineHandler {
	return &LineHandler{ch: ch, level: level}
}

func (h *LineHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s", r.Time.Format(time.TimeOnly), r.Level, r.Message)

	write := func(a slog.Attr) bool {
		// the session id is noise on a single-session display
		if a.Key != "session" {
			fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		}
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	select {
	case h.ch <- sb.String():
	default:
		// Drop if channel full
	}
	return nil
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup is a no-op; lines are flat.
func (h *LineHandler) WithGroup(string) slog.Handler {
	return h
}
