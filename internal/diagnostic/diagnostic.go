package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Kind classifies a compilation failure.
type Kind int

const (
	SyntaxError Kind = iota
	DuplicateDeclaration
	UndeclaredIdentifier
	TypeMismatch
	ArityMismatch
	IllegalReturn
	NotCallable
	ReadOnlyAssignment
	UnknownOutputKind
	Lint
)

var kindNames = [...]string{
	SyntaxError:          "SyntaxError",
	DuplicateDeclaration: "DuplicateDeclaration",
	UndeclaredIdentifier: "UndeclaredIdentifier",
	TypeMismatch:         "TypeMismatch",
	ArityMismatch:        "ArityMismatch",
	IllegalReturn:        "IllegalReturn",
	NotCallable:          "NotCallable",
	ReadOnlyAssignment:   "ReadOnlyAssignment",
	UnknownOutputKind:    "UnknownOutputKind",
	Lint:                 "Lint",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is a single located compiler message. It implements error so
// that the analyzer and compiler can return it directly.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Line     int
	Column   int
	File     string // optional file path
	Hint     string // optional suggestion
}

// Newf builds an error-level diagnostic of the given kind.
func Newf(kind Kind, line, col int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	}
}

// Error renders the diagnostic as "Kind at line:col: message". A diagnostic
// without a position omits the location.
func (d *Diagnostic) Error() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at %d:%d: %s", d.Kind, d.Line, d.Column, d.Message)
}

// At fills in the position when the diagnostic does not have one yet.
func (d *Diagnostic) At(line, col int) *Diagnostic {
	if d.Line == 0 {
		d.Line, d.Column = line, col
	}
	return d
}

// KindOf reports the kind of the first Diagnostic in err's chain.
func KindOf(err error) (Kind, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d.Kind, true
	}
	return 0, false
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Errorf adds a syntax error diagnostic with formatted message
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, *Newf(SyntaxError, line, col, format, args...))
}

// ErrorWithHint adds a syntax error diagnostic with an optional hint
func (d *Diagnostics) ErrorWithHint(line, col int, msg, hint string) {
	item := Newf(SyntaxError, line, col, "%s", msg)
	item.Hint = hint
	d.items = append(d.items, *item)
}

// Warningf adds a lint warning with formatted message
func (d *Diagnostics) Warningf(line, col int, format string, args ...interface{}) {
	item := Newf(Lint, line, col, format, args...)
	item.Severity = Warning
	d.items = append(d.items, *item)
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errs := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errs = append(errs, item)
		}
	}
	return errs
}

// First returns the first error-level diagnostic as an error, or nil.
func (d *Diagnostics) First() error {
	for i := range d.items {
		if d.items[i].Severity == Error {
			item := d.items[i]
			return &item
		}
	}
	return nil
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Format returns human-readable messages, one per diagnostic:
//
//	error[filename:3:10]: undeclared identifier 'x'
//	  hint: did you mean 'y'?
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i := range d.items {
		builder.WriteString(d.items[i].Format(filename))
		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// Format renders one diagnostic in the error[file:line:col] layout.
func (d *Diagnostic) Format(filename string) string {
	fileToUse := filename
	if d.File != "" {
		fileToUse = d.File
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s[%s:%d:%d]: %s",
		d.Severity.String(),
		fileToUse,
		d.Line,
		d.Column,
		d.Message,
	))
	if d.Hint != "" {
		builder.WriteString(fmt.Sprintf("\n  hint: %s", d.Hint))
	}
	return builder.String()
}
