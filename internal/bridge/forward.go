package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/reverig/internal/domain"
)

const forwardTimeout = 2 * time.Second

// forwardingKey marks the context of a call to the remote logger
type forwardingKey struct{}

// ForwardHandler wraps a handler and also sends records at or above
// Warn to the backend log. Forwarding is best-effort and never blocks the
// caller for longer than forwardTimeout.
//
// Records logged with the context handed to the remote logger are written
// locally but not forwarded again, so a failing forward cannot recurse.
// Concurrent warnings from other goroutines are all forwarded.
type ForwardHandler struct {
	next   slog.Handler
	remote domain.RemoteLogger
	attrs  []slog.Attr
	group  string
}

// NewForwardHandler creates a handler that tees warnings to remote
func NewForwardHandler(next slog.Handler, remote domain.RemoteLogger) *ForwardHandler {
	return &ForwardHandler{next: next, remote: remote}
}

// forwarding reports whether ctx belongs to a call to the remote logger
func forwarding(ctx context.Context) bool {
	return ctx != nil && ctx.Value(forwardingKey{}) != nil
}

func (h *ForwardHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.next.Enabled(ctx, level)
}

func (h *ForwardHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.next.Enabled(ctx, r.Level) {
		err = h.next.Handle(ctx, r)
	}

	if r.Level >= slog.LevelWarn && h.remote != nil && !forwarding(ctx) {
		if ctx == nil {
			ctx = context.Background()
		}
		fctx := context.WithValue(context.WithoutCancel(ctx), forwardingKey{}, true)
		fctx, cancel := context.WithTimeout(fctx, forwardTimeout)
		_ = h.remote.Warn(fctx, h.format(r))
		cancel()
	}
	return err
}

func (h *ForwardHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ForwardHandler{next: h.next.WithAttrs(attrs), remote: h.remote, attrs: merged, group: h.group}
}

func (h *ForwardHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &ForwardHandler{next: h.next.WithGroup(name), remote: h.remote, attrs: h.attrs, group: group}
}

// format renders "[reverig] msg key=value ..." for the backend log
func (h *ForwardHandler) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString("[reverig] ")
	b.WriteString(r.Message)

	write := func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, a.Value.Resolve())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	return b.String()
}
