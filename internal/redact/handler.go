package redact

import (
	"context"
	"fmt"
	"log/slog"
)

// Handler wraps a slog.Handler and masks sensitive data before delegating.
// The record message is filtered with the Redactor; attributes whose key is
// a sensitive field have their value replaced with the redaction marker.
// Strings, errors and fmt.Stringer values are filtered as text.
type Handler struct {
	next     slog.Handler
	redactor *Redactor
}

// NewHandler creates a redacting decorator around next.
func NewHandler(next slog.Handler, redactor *Redactor) *Handler {
	return &Handler{next: next, redactor: redactor}
}

// Enabled reports whether the wrapped handler handles records at level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle rewrites the message and attributes of a copy of rec.
func (h *Handler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, h.redactor.Redact(rec.Message), rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs masks the attributes before binding them to the wrapped handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &Handler{next: h.next.WithAttrs(masked), redactor: h.redactor}
}

// WithGroup returns a decorator around the grouped wrapped handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name), redactor: h.redactor}
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if h.redactor.Sensitive(a.Key) {
		return slog.String(a.Key, h.redactor.Redaction())
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		return slog.Group(a.Key, masked...)
	case slog.KindString:
		return slog.String(a.Key, h.redactor.Redact(v.String()))
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return slog.String(a.Key, h.redactor.Redact(x.Error()))
		case fmt.Stringer:
			return slog.String(a.Key, h.redactor.Redact(x.String()))
		}
	}

	return slog.Attr{Key: a.Key, Value: v}
}
