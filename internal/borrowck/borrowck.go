package borrowck

import (
	"fmt"

	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/diagnostics"
	"github.com/funvibe/refcheck/internal/typesystem"
)

// Checker enforces shared-xor-exclusive borrowing: any number of shared
// borrows of a binding, or exactly one exclusive borrow, within a scope chain.
//
// A borrow is declared by a Let (shared) or LetMut (exclusive) whose declared
// type is a reference and whose initializer is directly ReferenceOf(target).
// Every other binding is ignored. Borrows taken inside a Scope end with it.
type Checker struct {
	maxDepth int
}

type Option func(*Checker)

// WithMaxDepth bounds scope nesting.
func WithMaxDepth(n int) Option {
	return func(c *Checker) {
		c.maxDepth = n
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{maxDepth: config.DefaultMaxDepth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckProgram borrow-checks program starting from an empty borrow map.
// The first conflict is returned as a *diagnostics.DiagnosticError wrapping a *BorrowError.
func CheckProgram(program *ast.Program) error {
	return New().CheckProgram(program)
}

func (c *Checker) CheckProgram(program *ast.Program) error {
	if program == nil {
		panic("borrowck: nil program")
	}
	return c.checkStatements(program.Statements, newFrame(nil), nil)
}

func (c *Checker) checkStatements(stmts []ast.Statement, f *frame, path diagnostics.Path) error {
	for i, stmt := range stmts {
		if err := c.checkStatement(stmt, f, path.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStatement(stmt ast.Statement, f *frame, path diagnostics.Path) error {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if target, ok := borrowTarget(s); ok {
			requested := Shared
			if s.Mutable {
				requested = Exclusive
			}
			existing := f.lookup(target)
			if conflicts(existing, requested) {
				return diagnostics.NewError(config.BorrowsPassName, path, NewConflictingBorrowError(target, existing, requested))
			}
			f.set(target, requested)
		}
		// A declaration introduces a new binding; borrows of whatever it shadows do not carry over.
		if f.lookup(s.Name) != Unborrowed {
			f.set(s.Name, Unborrowed)
		}
		return nil

	case *ast.ScopeStatement:
		child := newFrame(f)
		if child.depth > c.maxDepth {
			return diagnostics.NewError(config.BorrowsPassName, path, NewNestingTooDeepError(c.maxDepth))
		}
		return c.checkStatements(s.Statements, child, path)

	default:
		panic(fmt.Sprintf("borrowck: unexpected statement %T", stmt))
	}
}

// borrowTarget returns the borrowed binding when s declares a reference
// initialized directly from ReferenceOf.
func borrowTarget(s *ast.LetStatement) (string, bool) {
	if !typesystem.IsReference(s.Type) {
		return "", false
	}
	ref, ok := s.Value.(*ast.ReferenceOf)
	if !ok || ref == nil {
		return "", false
	}
	return ref.Name, true
}
