package ast

import (
	"fmt"
	"strconv"
)

// IntLiteral is a 32-bit integer constant.
type IntLiteral struct {
	Value int32
}

func (il *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(il) }
func (il *IntLiteral) expressionNode()  {}
func (il *IntLiteral) String() string {
	return "Int32(" + strconv.FormatInt(int64(il.Value), 10) + ")"
}

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
}

func (sl *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()  {}
func (sl *StringLiteral) String() string   { return "String(" + strconv.Quote(sl.Value) + ")" }

// PairExpr builds a pair value.
type PairExpr struct {
	Left  Expr
	Right Expr
}

func (pe *PairExpr) Accept(v Visitor) { v.VisitPairExpr(pe) }
func (pe *PairExpr) expressionNode()  {}
func (pe *PairExpr) String() string {
	return fmt.Sprintf("Pair(%s, %s)", nodeString(pe.Left), nodeString(pe.Right))
}

// FirstExpr projects the left component of a pair.
type FirstExpr struct {
	Pair Expr
}

func (fe *FirstExpr) Accept(v Visitor) { v.VisitFirstExpr(fe) }
func (fe *FirstExpr) expressionNode()  {}
func (fe *FirstExpr) String() string   { return "First(" + nodeString(fe.Pair) + ")" }

// SecondExpr projects the right component of a pair.
type SecondExpr struct {
	Pair Expr
}

func (se *SecondExpr) Accept(v Visitor) { v.VisitSecondExpr(se) }
func (se *SecondExpr) expressionNode()  {}
func (se *SecondExpr) String() string   { return "Second(" + nodeString(se.Pair) + ")" }

// ReferenceOf takes a reference to a named binding.
// Whether the borrow is shared or exclusive is decided by the enclosing Let/LetMut.
type ReferenceOf struct {
	Name string
}

func (ro *ReferenceOf) Accept(v Visitor) { v.VisitReferenceOf(ro) }
func (ro *ReferenceOf) expressionNode()  {}
func (ro *ReferenceOf) String() string   { return "Reference(" + ro.Name + ")" }

// AddExpr is integer addition.
type AddExpr struct {
	Left  Expr
	Right Expr
}

func (ae *AddExpr) Accept(v Visitor) { v.VisitAddExpr(ae) }
func (ae *AddExpr) expressionNode()  {}
func (ae *AddExpr) String() string {
	return fmt.Sprintf("Add(%s, %s)", nodeString(ae.Left), nodeString(ae.Right))
}

// GetExpr reads a named binding.
type GetExpr struct {
	Name string
}

func (ge *GetExpr) Accept(v Visitor) { v.VisitGetExpr(ge) }
func (ge *GetExpr) expressionNode()  {}
func (ge *GetExpr) String() string   { return "Get(" + ge.Name + ")" }

// DereferenceExpr reads through a reference.
type DereferenceExpr struct {
	Operand Expr
}

func (de *DereferenceExpr) Accept(v Visitor) { v.VisitDereferenceExpr(de) }
func (de *DereferenceExpr) expressionNode()  {}
func (de *DereferenceExpr) String() string   { return "Dereference(" + nodeString(de.Operand) + ")" }
