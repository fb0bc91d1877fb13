package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/dtroode/gatekeeper/internal/redact"
)

// Output formats.
const (
	FormatLine = "line"
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultName is the logger name printed by the line format.
const DefaultName = "user_data"

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

type options struct {
	format       string
	name         string
	out          io.Writer
	redactFields []string
}

// Option configures New.
type Option func(*options)

// WithFormat selects the output format. Unknown formats fall back to line.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithName sets the logger name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithOutput redirects records to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithRedactFields replaces the default PII field list.
func WithRedactFields(fields []string) Option {
	return func(o *options) { o.redactFields = fields }
}

// New creates new Logger instance with the specified level.
// Every record passes through a redacting handler before it is formatted.
func New(level int, opts ...Option) *Logger {
	o := options{
		format:       FormatLine,
		name:         DefaultName,
		out:          os.Stdout,
		redactFields: redact.PIIFields,
	}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: slog.Level(level)}

	var base slog.Handler
	switch o.format {
	case FormatJSON:
		base = slog.NewJSONHandler(o.out, handlerOpts)
	case FormatText:
		base = slog.NewTextHandler(o.out, handlerOpts)
	default:
		base = NewLineHandler(o.out, o.name, handlerOpts)
	}

	redactor := redact.NewRedactor(o.redactFields, redact.DefaultRedaction, redact.DefaultSeparator)

	return &Logger{
		Logger: slog.New(redact.NewHandler(base, redactor)),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
