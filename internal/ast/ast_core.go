package ast

import (
	"fmt"
	"strings"

	"github.com/funvibe/refcheck/internal/typesystem"
)

// Node is the base interface for all AST nodes.
// String renders the node in constructor form, e.g. Let(x, Int32, Int32(5)).
type Node interface {
	Accept(v Visitor)
	String() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expr is a Node that represents an expression.
type Expr interface {
	Node
	expressionNode()
}

// Visitor walks every node kind. Implementations decide whether to recurse.
type Visitor interface {
	VisitProgram(*Program)
	VisitScopeStatement(*ScopeStatement)
	VisitLetStatement(*LetStatement)

	VisitIntLiteral(*IntLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitPairExpr(*PairExpr)
	VisitFirstExpr(*FirstExpr)
	VisitSecondExpr(*SecondExpr)
	VisitReferenceOf(*ReferenceOf)
	VisitAddExpr(*AddExpr)
	VisitGetExpr(*GetExpr)
	VisitDereferenceExpr(*DereferenceExpr)
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Name       string // Optional label, used in reports
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) String() string {
	lines := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		lines[i] = nodeString(s)
	}
	return strings.Join(lines, "\n")
}

// ScopeStatement opens a lexical scope. Bindings and borrows introduced
// inside it are discarded when its statements finish.
type ScopeStatement struct {
	Statements []Statement
}

func (ss *ScopeStatement) Accept(v Visitor) { v.VisitScopeStatement(ss) }
func (ss *ScopeStatement) statementNode()   {}
func (ss *ScopeStatement) String() string {
	parts := make([]string, len(ss.Statements))
	for i, s := range ss.Statements {
		parts[i] = nodeString(s)
	}
	return "Scope([" + strings.Join(parts, ", ") + "])"
}

// LetStatement introduces a binding with an explicit type annotation.
// Mutable distinguishes LetMut (exclusive use) from Let (shared use).
type LetStatement struct {
	Name    string
	Type    typesystem.Type
	Value   Expr
	Mutable bool
}

func (ls *LetStatement) Accept(v Visitor) { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()   {}
func (ls *LetStatement) String() string {
	kw := "Let"
	if ls.Mutable {
		kw = "LetMut"
	}
	typ := "<nil>"
	if ls.Type != nil {
		typ = ls.Type.String()
	}
	return fmt.Sprintf("%s(%s, %s, %s)", kw, ls.Name, typ, nodeString(ls.Value))
}

// nodeString tolerates nil children so that malformed trees can still be printed.
func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
