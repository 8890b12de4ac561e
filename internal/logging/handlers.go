package logging

import (
	"context"
	"errors"
	"log/slog"
)

// levelFilter passes records at or above floor to the wrapped handler.
// It backs errors.log, which keeps only warnings and errors regardless of
// the handler's own level.
type levelFilter struct {
	next  slog.Handler
	floor slog.Leveler
}

func newLevelFilter(next slog.Handler, floor slog.Leveler) slog.Handler {
	return &levelFilter{next: next, floor: floor}
}

func (h *levelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.floor.Level() && h.next.Enabled(ctx, level)
}

func (h *levelFilter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.floor.Level() {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelFilter{next: h.next.WithAttrs(attrs), floor: h.floor}
}

func (h *levelFilter) WithGroup(name string) slog.Handler {
	return &levelFilter{next: h.next.WithGroup(name), floor: h.floor}
}

// fanout sends each record to every enabled handler.
// A failing sink does not starve the others; errors are joined.
type fanout []slog.Handler

func newFanout(handlers ...slog.Handler) slog.Handler {
	switch len(handlers) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return handlers[0]
	}
	return fanout(handlers)
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
