// Package validation provides field-level validation errors that services
// return and handlers serialize into 422 responses.
package validation

import (
	"errors"
	"sort"
	"strings"
)

// Errors maps field names to human-readable messages. It implements error so
// services can return it through ordinary error paths.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(e[f])
	}
	return b.String()
}

// Add records a message for a field. The first message for a field wins;
// later ones are dropped so the earliest check reports.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Any reports whether at least one field failed.
func (e Errors) Any() bool { return len(e) > 0 }

// AsErrors unwraps err into Errors if it is one.
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
