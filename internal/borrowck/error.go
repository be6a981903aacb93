package borrowck

import (
	"fmt"

	"github.com/funvibe/refcheck/internal/diagnostics"
)

// BorrowError is the single failure reported by the borrow checker.
type BorrowError struct {
	Code diagnostics.ErrorCode

	Target    string      // ErrB001
	Existing  BorrowState // ErrB001
	Requested BorrowState // ErrB001
	Limit     int         // ErrD001
}

func (e *BorrowError) ErrorCode() diagnostics.ErrorCode {
	return e.Code
}

func (e *BorrowError) Error() string {
	switch e.Code {
	case diagnostics.ErrB001:
		return fmt.Sprintf("cannot borrow %s as %s: already borrowed as %s", e.Target, e.Requested, e.Existing)
	case diagnostics.ErrD001:
		return fmt.Sprintf("nesting depth exceeds limit of %d", e.Limit)
	}
	return fmt.Sprintf("borrow error %s", e.Code)
}

func NewConflictingBorrowError(target string, existing, requested BorrowState) *BorrowError {
	return &BorrowError{Code: diagnostics.ErrB001, Target: target, Existing: existing, Requested: requested}
}

func NewNestingTooDeepError(limit int) *BorrowError {
	return &BorrowError{Code: diagnostics.ErrD001, Limit: limit}
}
