package analyzer

import (
	"fmt"

	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/config"
	"github.com/funvibe/refcheck/internal/diagnostics"
	"github.com/funvibe/refcheck/internal/symbols"
	"github.com/funvibe/refcheck/internal/typesystem"
)

// Checker verifies that every binding's declared type equals the type
// inferred for its initializer. A Checker keeps no state between runs.
type Checker struct {
	maxDepth int
}

type Option func(*Checker)

// WithMaxDepth bounds the combined scope and expression nesting depth.
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

// CheckProgram type-checks program against a fresh, empty top-level environment.
// The first failure is returned as a *diagnostics.DiagnosticError wrapping a
// *typesystem.TypeError; statements after it are not checked.
func CheckProgram(program *ast.Program) error {
	return New().CheckProgram(program)
}

// Infer computes the type of expr with the default depth limit.
func Infer(expr ast.Expr, env *symbols.Environment) (typesystem.Type, error) {
	return New().Infer(expr, env)
}

func (c *Checker) CheckProgram(program *ast.Program) error {
	if program == nil {
		panic("analyzer: nil program")
	}
	return c.checkStatements(program.Statements, symbols.NewEnvironment(), nil)
}

func (c *Checker) checkStatements(stmts []ast.Statement, env *symbols.Environment, path diagnostics.Path) error {
	for i, stmt := range stmts {
		if err := c.checkStatement(stmt, env, path.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStatement(stmt ast.Statement, env *symbols.Environment, path diagnostics.Path) error {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		if s.Type == nil {
			panic(fmt.Sprintf("analyzer: binding %q has no declared type", s.Name))
		}
		// Let and LetMut are typed identically; mutability only matters to the borrow checker.
		actual, err := c.infer(s.Value, env, env.Depth()+1)
		if err != nil {
			return diagnostics.NewError(config.TypesPassName, path, err)
		}
		if !typesystem.Equal(s.Type, actual) {
			return diagnostics.NewError(config.TypesPassName, path, typesystem.NewTypeMismatchError(s.Type, actual))
		}
		env.Bind(s.Name, s.Type)
		return nil

	case *ast.ScopeStatement:
		child := env.EnterChild()
		if child.Depth() > c.maxDepth {
			return diagnostics.NewError(config.TypesPassName, path, typesystem.NewNestingTooDeepError(c.maxDepth))
		}
		return c.checkStatements(s.Statements, child, path)

	default:
		panic(fmt.Sprintf("analyzer: unexpected statement %T", stmt))
	}
}
