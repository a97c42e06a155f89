// Package logx configures the slog logger used by both binaries: an extra
// verbose level below debug and indentation for nested steps.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
)

// LevelVerbose sits below slog.LevelDebug and carries step-by-step detail.
const LevelVerbose = slog.Level(-8)

const indentKey = "logx.indent"

const indentUnit = "  "

// New returns a text logger writing to w at the given minimum level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}
			if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelVerbose {
				a.Value = slog.StringValue("VERBOSE")
			}
			return a
		},
	})
	return slog.New(&indentHandler{inner: h})
}

// ParseLevel accepts verbose, debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Indent returns a logger whose messages are nested one level deeper.
// Handlers not built by New just see an extra attribute.
func Indent(l *slog.Logger) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.Int(indentKey, 1))
}

// Verbose logs at LevelVerbose.
func Verbose(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	l.Log(ctx, LevelVerbose, msg, args...)
}

// Gold renders an amount with thousands separators.
func Gold(n int) string {
	return humanize.Comma(int64(n))
}

type indentHandler struct {
	inner slog.Handler
	depth int
}

func (h *indentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *indentHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.depth > 0 {
		nested := slog.NewRecord(r.Time, r.Level, strings.Repeat(indentUnit, h.depth)+r.Message, r.PC)
		r.Attrs(func(a slog.Attr) bool {
			nested.AddAttrs(a)
			return true
		})
		r = nested
	}
	return h.inner.Handle(ctx, r)
}

func (h *indentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	depth := h.depth
	rest := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Key == indentKey {
			depth += int(a.Value.Int64())
			continue
		}
		rest = append(rest, a)
	}
	inner := h.inner
	if len(rest) > 0 {
		inner = inner.WithAttrs(rest)
	}
	return &indentHandler{inner: inner, depth: depth}
}

func (h *indentHandler) WithGroup(name string) slog.Handler {
	return &indentHandler{inner: h.inner.WithGroup(name), depth: h.depth}
}
