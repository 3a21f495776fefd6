package term

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifyAtoms(t *testing.T) {
	f, ok := Unify(Atom("a"), Atom("a"), EmptyFrame)
	require.True(t, ok)
	require.NotNil(t, f)

	_, ok = Unify(Atom("a"), Atom("b"), EmptyFrame)
	require.False(t, ok)

	_, ok = Unify(Atom("a"), Int(1), EmptyFrame)
	require.False(t, ok)
}

func TestUnifyVariableBindsAndPropagates(t *testing.T) {
	x := NewVar("X")
	f, ok := Unify(x, Int(1), EmptyFrame)
	require.True(t, ok)
	require.Equal(t, Int(1), f.Walk(x))

	// Once bound, X must not unify with a different value.
	_, ok = Unify(x, Int(2), f)
	require.False(t, ok)
}

func TestUnifyVariableVariableAliases(t *testing.T) {
	x := NewVar("X")
	y := NewVar("Y")
	f, ok := Unify(x, y, EmptyFrame)
	require.True(t, ok)

	f, ok = Unify(x, Atom("foo"), f)
	require.True(t, ok)
	require.Equal(t, Term(Atom("foo")), f.Walk(y))
}

func TestUnifyCompoundArity(t *testing.T) {
	c1 := Comp("f", Atom("a"), Atom("b"))
	c2 := Comp("f", Atom("a"))
	_, ok := Unify(c1, c2, EmptyFrame)
	require.False(t, ok)
}

func TestUnifyCompoundArgsPairwise(t *testing.T) {
	x := NewVar("X")
	c1 := Comp("cell", Int(1), Int(2), Atom("mark"))
	c2 := Comp("cell", Int(1), Int(2), x)

	f, ok := Unify(c1, c2, EmptyFrame)
	require.True(t, ok)
	require.Equal(t, Term(Atom("mark")), f.Walk(x))
}

func TestUnifyDoesNotOccursCheck(t *testing.T) {
	// X unifies with f(X) without error - no occurs check per spec.md §4.1.
	x := NewVar("X")
	cyclic := Comp("f", x)
	_, ok := Unify(x, cyclic, EmptyFrame)
	require.True(t, ok)
}

func TestIdenticalGroundRequiresGroundTerms(t *testing.T) {
	f := EmptyFrame
	require.True(t, IdenticalGround(Int(1), Int(1), f))
	require.False(t, IdenticalGround(Int(1), Int(2), f))

	x := NewVar("X")
	require.False(t, IdenticalGround(x, Int(1), f))
}

func TestToSliceAndFromSlice(t *testing.T) {
	items := []Term{Atom("a"), Atom("b"), Int(3)}
	list := FromSlice(items)

	got, ok := ToSlice(list)
	require.True(t, ok)
	require.Equal(t, items, got)
}
