package typesystem

import (
	"github.com/funvibe/refcheck/internal/config"
)

// Type is the interface for all types in our system.
// The variant set is closed: TInt32, TString, TPair and TRef.
type Type interface {
	String() string
	// Equal reports structural equality.
	Equal(Type) bool
	typeNode()
}

var (
	Int32  Type = TInt32{}
	String Type = TString{}
)

// TInt32 is the 32-bit signed integer type.
type TInt32 struct{}

func (TInt32) typeNode()      {}
func (TInt32) String() string { return config.Int32TypeName }

func (TInt32) Equal(o Type) bool {
	_, ok := o.(TInt32)
	return ok
}

// TString is the string type.
type TString struct{}

func (TString) typeNode()      {}
func (TString) String() string { return config.StringTypeName }

func (TString) Equal(o Type) bool {
	_, ok := o.(TString)
	return ok
}

// TPair is the product of two types. It owns both components.
type TPair struct {
	Left  Type
	Right Type
}

func NewPair(left, right Type) TPair {
	return TPair{Left: left, Right: right}
}

func (TPair) typeNode() {}

func (t TPair) String() string {
	return pairOperand(t.Left) + " * " + pairOperand(t.Right)
}

// pairOperand parenthesizes nested pairs so that the rendering is unambiguous.
func pairOperand(t Type) string {
	if t == nil {
		return "<nil>"
	}
	if _, ok := t.(TPair); ok {
		return "(" + t.String() + ")"
	}
	return t.String()
}

func (t TPair) Equal(o Type) bool {
	other, ok := o.(TPair)
	if !ok {
		return false
	}
	return Equal(t.Left, other.Left) && Equal(t.Right, other.Right)
}

// TRef is a reference to a value of type Elem.
type TRef struct {
	Elem Type
}

func NewRef(elem Type) TRef {
	return TRef{Elem: elem}
}

func (TRef) typeNode() {}

func (t TRef) String() string {
	return "&" + pairOperand(t.Elem)
}

func (t TRef) Equal(o Type) bool {
	other, ok := o.(TRef)
	if !ok {
		return false
	}
	return Equal(t.Elem, other.Elem)
}

// Equal compares two types structurally. Two nil types are equal.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// IsReference reports whether t is a TRef.
func IsReference(t Type) bool {
	_, ok := t.(TRef)
	return ok
}
