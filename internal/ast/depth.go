package ast

import "fmt"

// Depth returns the nesting depth of n as the checkers count it. A literal,
// reference or variable read has depth 1 and every compound expression adds
// one to its deepest operand. A let is as deep as its initializer, a scope
// adds one to its deepest statement, and a program is as deep as its deepest
// top-level statement. Nil nodes have depth 0.
func Depth(n Node) int {
	switch n := n.(type) {
	case nil:
		return 0
	case *Program:
		return statementsDepth(n.Statements)
	case *ScopeStatement:
		return 1 + statementsDepth(n.Statements)
	case *LetStatement:
		return Depth(n.Value)
	case *IntLiteral, *StringLiteral, *ReferenceOf, *GetExpr:
		return 1
	case *PairExpr:
		return 1 + max(Depth(n.Left), Depth(n.Right))
	case *AddExpr:
		return 1 + max(Depth(n.Left), Depth(n.Right))
	case *FirstExpr:
		return 1 + Depth(n.Pair)
	case *SecondExpr:
		return 1 + Depth(n.Pair)
	case *DereferenceExpr:
		return 1 + Depth(n.Operand)
	}
	panic(fmt.Sprintf("ast: unexpected node %T", n))
}

func statementsDepth(stmts []Statement) int {
	d := 0
	for _, s := range stmts {
		d = max(d, Depth(s))
	}
	return d
}
