package diagnostics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type ErrorCode string

const (
	// Type checker
	ErrT001 ErrorCode = "T001" // declared type differs from inferred type
	ErrT002 ErrorCode = "T002" // unbound variable
	ErrT003 ErrorCode = "T003" // first/second applied to a non-pair
	ErrT004 ErrorCode = "T004" // add applied to a non-Int32 operand
	ErrT005 ErrorCode = "T005" // dereference of a non-reference

	// Borrow checker
	ErrB001 ErrorCode = "B001" // conflicting borrow

	// Shared
	ErrD001 ErrorCode = "D001" // nesting depth limit exceeded
)

var errorTitles = map[ErrorCode]string{
	ErrT001: "type mismatch",
	ErrT002: "unbound variable",
	ErrT003: "not a pair",
	ErrT004: "not numeric",
	ErrT005: "not a reference",
	ErrB001: "conflicting borrow",
	ErrD001: "nesting too deep",
}

// Title returns the short human name of the code.
func (c ErrorCode) Title() string {
	if t, ok := errorTitles[c]; ok {
		return t
	}
	return "unknown error"
}

// Known reports whether c is in the catalogue.
func (c ErrorCode) Known() bool {
	_, ok := errorTitles[c]
	return ok
}

// Coded is implemented by checker errors that carry their own code.
type Coded interface {
	error
	ErrorCode() ErrorCode
}

// Path locates a statement: each element indexes into the enclosing
// statement list, descending through scopes.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "<program>"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Child returns a copy of p extended with idx.
func (p Path) Child(idx int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = idx
	return out
}

// DiagnosticError attaches a pass name and statement location to a checker error.
type DiagnosticError struct {
	Code ErrorCode
	Pass string
	Path Path
	Err  error
}

// NewError wraps err. The code is taken from err when it implements Coded.
func NewError(pass string, path Path, err error) *DiagnosticError {
	d := &DiagnosticError{Pass: pass, Path: path, Err: err}
	var coded Coded
	if errors.As(err, &coded) {
		d.Code = coded.ErrorCode()
	}
	return d
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s error %s at statement %s: %v", e.Pass, e.Code, e.Path, e.Err)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code carried anywhere in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var d *DiagnosticError
	if errors.As(err, &d) && d.Code != "" {
		return d.Code
	}
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}
