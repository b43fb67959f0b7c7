package core

// diagnostics.go is the reporting channel for expected failure modes.
//
// Nothing in this package returns an error for data-shape problems: a
// malformed cell, a missing header, or a stale row reference degrades to a
// default value or a skipped operation, and the condition is recorded here so
// batch operations can report partial success. Errors are reserved for
// programming-contract violations and store failures.

import (
	"fmt"
	"time"
)

// Level classifies a diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// String returns the level name used in JSON output and logs.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// MarshalText implements encoding.TextMarshaler so levels serialize as their
// names rather than integers.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Diagnostic kinds reported by the core. The Type field of a Diagnostic
// always holds one of these values.
const (
	DiagSchemaMismatch  = "schema_mismatch"
	DiagMissingHeader   = "missing_header"
	DiagExtraHeader     = "extra_header"
	DiagOutputNoFormula = "output_no_formula"
	DiagStaleRow        = "stale_row"
	DiagTransport       = "transport_failure"
	DiagValidation      = "validation"
)

// Diagnostic is a single reportable condition from a read, write, or
// validation operation.
type Diagnostic struct {
	Level   Level     `json:"level"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Time    time.Time `json:"timestamp"`
}

// Diagnostics accumulates conditions across one logical operation.
type Diagnostics []Diagnostic

// Add appends a diagnostic with the current timestamp.
func (d *Diagnostics) Add(level Level, typ, format string, args ...any) {
	*d = append(*d, Diagnostic{
		Level:   level,
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Time:    time.Now().UTC(),
	})
}

// Infof records an informational diagnostic.
func (d *Diagnostics) Infof(typ, format string, args ...any) {
	d.Add(LevelInfo, typ, format, args...)
}

// Warnf records a warning diagnostic.
func (d *Diagnostics) Warnf(typ, format string, args ...any) {
	d.Add(LevelWarning, typ, format, args...)
}

// Errorf records an error diagnostic.
func (d *Diagnostics) Errorf(typ, format string, args ...any) {
	d.Add(LevelError, typ, format, args...)
}

// HasErrors reports whether any diagnostic is at LevelError.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Level == LevelError {
			return true
		}
	}
	return false
}

// Errors returns only the LevelError diagnostics.
func (d Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Level == LevelError {
			out = append(out, diag)
		}
	}
	return out
}

// Warnings returns only the LevelWarning diagnostics.
func (d Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Level == LevelWarning {
			out = append(out, diag)
		}
	}
	return out
}
