package borrowck

// BorrowState is the strongest borrow currently outstanding against a binding.
type BorrowState int

const (
	// Unborrowed marks a binding with no outstanding borrow. Stored explicitly
	// when a redeclaration must hide borrows recorded in an enclosing frame.
	Unborrowed BorrowState = iota
	Shared
	Exclusive
)

func (s BorrowState) String() string {
	switch s {
	case Unborrowed:
		return "unborrowed"
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return "?"
	}
}

// conflicts reports whether a new borrow of kind requested is refused while existing is outstanding.
func conflicts(existing, requested BorrowState) bool {
	switch requested {
	case Shared:
		return existing == Exclusive
	case Exclusive:
		return existing != Unborrowed
	}
	return false
}

// frame is one lexical scope's borrow map. Lookups fall through to outer;
// writes stay in this frame and vanish with it.
type frame struct {
	states map[string]BorrowState
	outer  *frame
	depth  int
}

func newFrame(outer *frame) *frame {
	f := &frame{states: make(map[string]BorrowState), outer: outer}
	if outer != nil {
		f.depth = outer.depth + 1
	}
	return f
}

func (f *frame) lookup(name string) BorrowState {
	for cur := f; cur != nil; cur = cur.outer {
		if state, ok := cur.states[name]; ok {
			return state
		}
	}
	return Unborrowed
}

func (f *frame) set(name string, state BorrowState) {
	f.states[name] = state
}
