package typesystem

import (
	"fmt"

	"github.com/funvibe/refcheck/internal/diagnostics"
)

// TypeError is the single failure reported by the type checker.
// Code selects which of the remaining fields are meaningful.
type TypeError struct {
	Code diagnostics.ErrorCode

	Expected Type   // ErrT001
	Actual   Type   // ErrT001
	Name     string // ErrT002
	Context  string // ErrT003, ErrT004, ErrT005
	Limit    int    // ErrD001
}

func (e *TypeError) ErrorCode() diagnostics.ErrorCode {
	return e.Code
}

func (e *TypeError) Error() string {
	switch e.Code {
	case diagnostics.ErrT001:
		return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Actual)
	case diagnostics.ErrT002:
		return fmt.Sprintf("unbound variable: %s", e.Name)
	case diagnostics.ErrT003:
		return fmt.Sprintf("not a pair: %s", e.Context)
	case diagnostics.ErrT004:
		return fmt.Sprintf("not numeric: %s", e.Context)
	case diagnostics.ErrT005:
		return fmt.Sprintf("not a reference: %s", e.Context)
	case diagnostics.ErrD001:
		return fmt.Sprintf("nesting depth exceeds limit of %d", e.Limit)
	}
	return fmt.Sprintf("type error %s", e.Code)
}

func NewTypeMismatchError(expected, actual Type) *TypeError {
	return &TypeError{Code: diagnostics.ErrT001, Expected: expected, Actual: actual}
}

func NewUnboundVariableError(name string) *TypeError {
	return &TypeError{Code: diagnostics.ErrT002, Name: name}
}

func NewNotAPairError(context string) *TypeError {
	return &TypeError{Code: diagnostics.ErrT003, Context: context}
}

func NewNotNumericError(context string) *TypeError {
	return &TypeError{Code: diagnostics.ErrT004, Context: context}
}

func NewNotAReferenceError(context string) *TypeError {
	return &TypeError{Code: diagnostics.ErrT005, Context: context}
}

func NewNestingTooDeepError(limit int) *TypeError {
	return &TypeError{Code: diagnostics.ErrD001, Limit: limit}
}
