// Package redact masks personally identifiable fields in log output.
package redact

import (
	"regexp"
	"strings"
)

const (
	// DefaultRedaction replaces every masked occurrence.
	DefaultRedaction = "***"
	// DefaultSeparator separates fields in a log message.
	DefaultSeparator = ";"
)

// PIIFields are the attributes treated as sensitive by default.
var PIIFields = []string{"email", "ssn", "password", "credit_card", "phone_number"}

// Filter replaces every literal occurrence of any of fields in message with
// redaction. Field names are matched literally, so characters that are
// special in regular expressions carry no meaning. The separator is part of
// the contract of the log format and does not change what is matched.
func Filter(fields []string, redaction, message, separator string) string {
	return NewRedactor(fields, redaction, separator).Redact(message)
}

// Redactor is a compiled Filter.
type Redactor struct {
	pattern   *regexp.Regexp
	fields    map[string]struct{}
	redaction string
	separator string
}

// NewRedactor compiles fields into a single alternation pattern.
// Empty field names are ignored.
func NewRedactor(fields []string, redaction, separator string) *Redactor {
	r := &Redactor{
		fields:    make(map[string]struct{}, len(fields)),
		redaction: redaction,
		separator: separator,
	}

	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if _, dup := r.fields[f]; dup {
			continue
		}
		r.fields[f] = struct{}{}
		quoted = append(quoted, regexp.QuoteMeta(f))
	}
	if len(quoted) > 0 {
		r.pattern = regexp.MustCompile(strings.Join(quoted, "|"))
	}

	return r
}

// Redact returns message with every configured field name masked.
func (r *Redactor) Redact(message string) string {
	if r == nil || r.pattern == nil {
		return message
	}
	return r.pattern.ReplaceAllLiteralString(message, r.redaction)
}

// Sensitive reports whether key names a configured field.
func (r *Redactor) Sensitive(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.fields[key]
	return ok
}

// Redaction returns the marker written in place of masked text.
func (r *Redactor) Redaction() string {
	return r.redaction
}

// Separator returns the field separator of the log format.
func (r *Redactor) Separator() string {
	return r.separator
}
