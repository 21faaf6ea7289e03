// Package diagnostics carries operator-facing events pushed over the diag
// socket.
package diagnostics

import (
	"errors"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Fields   []string       `json:"fields,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

// FromError describes a rejected control request. Parameter validation
// failures list the offending fields.
func FromError(code string, err error) Diagnostic {
	d := Diagnostic{Severity: Warn, Code: code, Summary: "request rejected", Detail: err.Error()}
	for _, fe := range fieldErrors(err) {
		d.Fields = append(d.Fields, fe.Field)
	}
	if len(d.Fields) > 0 {
		d.Summary = "invalid parameters"
	}
	return d
}

func fieldErrors(err error) []*pattern.FieldError {
	switch e := err.(type) {
	case *pattern.FieldError:
		return []*pattern.FieldError{e}
	case interface{ Unwrap() []error }:
		var out []*pattern.FieldError
		for _, inner := range e.Unwrap() {
			out = append(out, fieldErrors(inner)...)
		}
		return out
	}
	if inner := errors.Unwrap(err); inner != nil {
		return fieldErrors(inner)
	}
	return nil
}
