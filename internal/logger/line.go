package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

const (
	linePrefix = "[APP]"
	timeLayout = "2006-01-02 15:04:05,000"
)

// LineHandler writes one record per line:
//
//	[APP] name LEVEL 2006-01-02 15:04:05,000: message key=value ...
type LineHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	name  string
	level slog.Leveler
	group string
	attrs []byte
}

var _ slog.Handler = (*LineHandler)(nil)

func NewLineHandler(out io.Writer, name string, opts *slog.HandlerOptions) *LineHandler {
	h := &LineHandler{
		mu:   &sync.Mutex{},
		out:  out,
		name: name,
	}
	if opts != nil {
		h.level = opts.Level
	}
	return h
}

func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.level != nil {
		minLevel = h.level.Level()
	}
	return level >= minLevel
}

func (h *LineHandler) Handle(_ context.Context, rec slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = fmt.Appendf(buf, "%s %s %s %s: %s",
		linePrefix, h.name, rec.Level, rec.Time.Format(timeLayout), rec.Message)
	buf = append(buf, h.attrs...)
	rec.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.group, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = appendAttr(clone.attrs, h.group, a)
	}
	return &clone
}

func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

func appendAttr(buf []byte, group string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, prefix, ga)
		}
		return buf
	}

	return fmt.Appendf(buf, " %s%s=%s", group, a.Key, quote(a.Value.String()))
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\n\t") {
		return strconv.Quote(s)
	}
	return s
}
