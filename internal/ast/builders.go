package ast

import "github.com/funvibe/refcheck/internal/typesystem"

// Constructor helpers for building programs in Go code.

func Int(v int32) *IntLiteral             { return &IntLiteral{Value: v} }
func Str(s string) *StringLiteral         { return &StringLiteral{Value: s} }
func Pair(left, right Expr) *PairExpr     { return &PairExpr{Left: left, Right: right} }
func First(pair Expr) *FirstExpr          { return &FirstExpr{Pair: pair} }
func Second(pair Expr) *SecondExpr        { return &SecondExpr{Pair: pair} }
func Ref(name string) *ReferenceOf        { return &ReferenceOf{Name: name} }
func Add(left, right Expr) *AddExpr       { return &AddExpr{Left: left, Right: right} }
func Get(name string) *GetExpr            { return &GetExpr{Name: name} }
func Deref(operand Expr) *DereferenceExpr { return &DereferenceExpr{Operand: operand} }

func Let(name string, typ typesystem.Type, value Expr) *LetStatement {
	return &LetStatement{Name: name, Type: typ, Value: value}
}

func LetMut(name string, typ typesystem.Type, value Expr) *LetStatement {
	return &LetStatement{Name: name, Type: typ, Value: value, Mutable: true}
}

func Scope(statements ...Statement) *ScopeStatement {
	return &ScopeStatement{Statements: statements}
}

func NewProgram(name string, statements ...Statement) *Program {
	return &Program{Name: name, Statements: statements}
}
