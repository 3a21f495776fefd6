package term

// Unify attempts to make a and b equal under f, returning the extended
// frame and true on success. It never panics and never performs an
// occurs check: GDL rule-sets do not require one, and skipping it
// keeps unification cheap, matching spec.md §4.1.
func Unify(a, b Term, f *Frame) (*Frame, bool) {
	a = f.Walk(a)
	b = f.Walk(b)

	av, aIsVar := a.(*Var)
	bv, bIsVar := b.(*Var)

	switch {
	case aIsVar && bIsVar:
		if av == bv {
			return f, true
		}
		return f.Bind(av, bv), true
	case aIsVar:
		return f.Bind(av, b), true
	case bIsVar:
		return f.Bind(bv, a), true
	}

	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return f, ok && x == y
	case Int:
		y, ok := b.(Int)
		return f, ok && x == y
	case *Compound:
		y, ok := b.(*Compound)
		if !ok || x.Functor != y.Functor || len(x.Args) != len(y.Args) {
			return f, false
		}
		return UnifyArgs(x.Args, y.Args, f)
	default:
		return f, false
	}
}

// UnifyArgs unifies two equal-length argument lists pairwise,
// left-to-right, threading the frame through each pair.
func UnifyArgs(as, bs []Term, f *Frame) (*Frame, bool) {
	if len(as) != len(bs) {
		return f, false
	}
	for i := range as {
		var ok bool
		f, ok = Unify(as[i], bs[i], f)
		if !ok {
			return f, false
		}
	}
	return f, true
}

// IdenticalGround reports whether a and b, once resolved against f, are
// structurally identical ground terms. It is used by distinct/2: per
// spec.md §4.1, distinct is only meaningful once both sides are
// ground, so callers must check groundness themselves (see
// resolve/resolve.go's solveDistinct).
func IdenticalGround(a, b Term, f *Frame) bool {
	a = f.Resolve(a)
	b = f.Resolve(b)
	return equalTerms(a, b)
}

func equalTerms(a, b Term) bool {
	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case *Compound:
		y, ok := b.(*Compound)
		if !ok || x.Functor != y.Functor || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !equalTerms(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Var:
		y, ok := b.(*Var)
		return ok && x == y
	default:
		return false
	}
}
