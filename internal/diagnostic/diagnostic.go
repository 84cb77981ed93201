package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic event
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single backend error, warning, or info event.
// Line and Column are zero for events that have no source position, such as
// compile pipeline milestones.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
}

// Diagnostics is an append-only collection of diagnostic events. Backends
// never abort on warnings; callers decide what to do with errors.
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Errorf adds an error event with formatted message and no position
func (d *Diagnostics) Errorf(format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warningf adds a warning event with formatted message and no position
func (d *Diagnostics) Warningf(format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Infof adds an info event with formatted message and no position
func (d *Diagnostics) Infof(format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Info,
		Message:  fmt.Sprintf(format, args...),
	})
}

// ErrorfAt adds an error event at a source position
func (d *Diagnostics) ErrorfAt(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// WarningfAt adds a warning event at a source position
func (d *Diagnostics) WarningfAt(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// HasErrors returns true if there are any error-level events
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level events
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(Error)
}

// Warnings returns only the warning-level events
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(Warning)
}

// Infos returns only the info-level events
func (d *Diagnostics) Infos() []Diagnostic {
	return d.filter(Info)
}

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	out := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == sev {
			out = append(out, item)
		}
	}
	return out
}

// All returns all events regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of events
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level events
func (d *Diagnostics) ErrorCount() int {
	return len(d.filter(Error))
}

// WarningCount returns the number of warning-level events
func (d *Diagnostics) WarningCount() int {
	return len(d.filter(Warning))
}

// Format returns human-readable messages, one per line. Events with a
// source position are prefixed with it:
//
//	error[input:3:10]: unknown node type
//	info: compiled 1 unit
func (d *Diagnostics) Format(unit string) string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, item := range d.items {
		if item.Line > 0 || item.Column > 0 {
			builder.WriteString(fmt.Sprintf("%s[%s:%d:%d]: %s",
				item.Severity.String(), unit, item.Line, item.Column, item.Message))
		} else {
			builder.WriteString(fmt.Sprintf("%s: %s", item.Severity.String(), item.Message))
		}
		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

// Clear removes all events from the collection
func (d *Diagnostics) Clear() {
	d.items = make([]Diagnostic, 0)
}
