package symbols

import (
	"reflect"
	"testing"

	"github.com/funvibe/refcheck/internal/typesystem"
)

func TestBindAndLookup(t *testing.T) {
	env := NewEnvironment()
	if _, ok := env.Lookup("x"); ok {
		t.Fatal("fresh environment should be empty")
	}
	env.Bind("x", typesystem.Int32)
	got, ok := env.Lookup("x")
	if !ok || !typesystem.Equal(got, typesystem.Int32) {
		t.Fatalf("Lookup(x) = %v, %v", got, ok)
	}
}

func TestRebindSameFrameOverwrites(t *testing.T) {
	env := NewEnvironment()
	env.Bind("x", typesystem.Int32)
	env.Bind("x", typesystem.String)
	got, _ := env.Lookup("x")
	if !typesystem.Equal(got, typesystem.String) {
		t.Errorf("Lookup(x) = %v, want String", got)
	}
}

func TestChildSeesParent(t *testing.T) {
	parent := NewEnvironment()
	parent.Bind("s", typesystem.String)
	child := parent.EnterChild()
	if got, ok := child.Lookup("s"); !ok || !typesystem.Equal(got, typesystem.String) {
		t.Errorf("child Lookup(s) = %v, %v", got, ok)
	}
	if child.Depth() != 1 || parent.Depth() != 0 {
		t.Errorf("depths = %d, %d", parent.Depth(), child.Depth())
	}
}

func TestChildWritesDoNotLeak(t *testing.T) {
	parent := NewEnvironment()
	parent.Bind("x", typesystem.Int32)

	child := parent.EnterChild()
	child.Bind("x", typesystem.String)
	child.Bind("y", typesystem.Int32)

	if got, _ := child.Lookup("x"); !typesystem.Equal(got, typesystem.String) {
		t.Errorf("child should shadow x, got %v", got)
	}
	if got, _ := parent.Lookup("x"); !typesystem.Equal(got, typesystem.Int32) {
		t.Errorf("parent x changed to %v", got)
	}
	if _, ok := parent.Lookup("y"); ok {
		t.Error("y leaked into parent")
	}

	sibling := parent.EnterChild()
	if _, ok := sibling.Lookup("y"); ok {
		t.Error("y leaked into sibling frame")
	}
}

func TestNames(t *testing.T) {
	parent := NewEnvironment()
	parent.Bind("b", typesystem.Int32)
	parent.Bind("a", typesystem.Int32)
	child := parent.EnterChild()
	child.Bind("c", typesystem.String)
	child.Bind("a", typesystem.String)

	want := []string{"a", "b", "c"}
	if got := child.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := parent.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("parent Names() = %v", got)
	}
}
