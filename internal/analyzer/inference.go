package analyzer

import (
	"fmt"

	"github.com/funvibe/refcheck/internal/ast"
	"github.com/funvibe/refcheck/internal/prettyprinter"
	"github.com/funvibe/refcheck/internal/symbols"
	"github.com/funvibe/refcheck/internal/typesystem"
)

// Infer computes the type of expr in env. No implicit coercion is applied anywhere.
func (c *Checker) Infer(expr ast.Expr, env *symbols.Environment) (typesystem.Type, error) {
	return c.infer(expr, env, env.Depth()+1)
}

func (c *Checker) infer(expr ast.Expr, env *symbols.Environment, depth int) (typesystem.Type, error) {
	if depth > c.maxDepth {
		return nil, typesystem.NewNestingTooDeepError(c.maxDepth)
	}

	switch e := expr.(type) {
	case *ast.IntLiteral:
		return typesystem.Int32, nil

	case *ast.StringLiteral:
		return typesystem.String, nil

	case *ast.PairExpr:
		left, err := c.infer(e.Left, env, depth+1)
		if err != nil {
			return nil, err
		}
		right, err := c.infer(e.Right, env, depth+1)
		if err != nil {
			return nil, err
		}
		return typesystem.NewPair(left, right), nil

	case *ast.FirstExpr:
		pair, err := c.inferPair(e, e.Pair, env, depth)
		if err != nil {
			return nil, err
		}
		return pair.Left, nil

	case *ast.SecondExpr:
		pair, err := c.inferPair(e, e.Pair, env, depth)
		if err != nil {
			return nil, err
		}
		return pair.Right, nil

	case *ast.ReferenceOf:
		t, ok := env.Lookup(e.Name)
		if !ok {
			return nil, typesystem.NewUnboundVariableError(e.Name)
		}
		return typesystem.NewRef(t), nil

	case *ast.AddExpr:
		left, err := c.infer(e.Left, env, depth+1)
		if err != nil {
			return nil, err
		}
		right, err := c.infer(e.Right, env, depth+1)
		if err != nil {
			return nil, err
		}
		if !typesystem.Equal(left, typesystem.Int32) || !typesystem.Equal(right, typesystem.Int32) {
			return nil, typesystem.NewNotNumericError(prettyprinter.Expr(e))
		}
		return typesystem.Int32, nil

	case *ast.GetExpr:
		t, ok := env.Lookup(e.Name)
		if !ok {
			return nil, typesystem.NewUnboundVariableError(e.Name)
		}
		return t, nil

	case *ast.DereferenceExpr:
		t, err := c.infer(e.Operand, env, depth+1)
		if err != nil {
			return nil, err
		}
		ref, ok := t.(typesystem.TRef)
		if !ok {
			return nil, typesystem.NewNotAReferenceError(prettyprinter.Expr(e))
		}
		return ref.Elem, nil

	case nil:
		panic("analyzer: nil expression")

	default:
		panic(fmt.Sprintf("analyzer: unexpected expression %T", expr))
	}
}

// inferPair infers operand and requires a pair type; node is the projection, used for the error context.
func (c *Checker) inferPair(node ast.Expr, operand ast.Expr, env *symbols.Environment, depth int) (typesystem.TPair, error) {
	t, err := c.infer(operand, env, depth+1)
	if err != nil {
		return typesystem.TPair{}, err
	}
	pair, ok := t.(typesystem.TPair)
	if !ok {
		return typesystem.TPair{}, typesystem.NewNotAPairError(prettyprinter.Expr(node))
	}
	return pair, nil
}
