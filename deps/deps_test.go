package deps

import (
	"testing"

	"ggpengine/clause"
	"ggpengine/term"

	"github.com/stretchr/testify/require"
)

func TestComputeSeedsTrueAndDoes(t *testing.T) {
	sdp := Compute(nil)
	require.True(t, sdp.Contains(clause.True1))
	require.True(t, sdp.Contains(clause.Does2))
}

func TestComputePropagatesThroughDirectReference(t *testing.T) {
	rules := clause.RuleSet{
		clause.Rule(
			term.Comp("legal", term.Atom("counter"), term.Comp("countto", term.Int(2))),
			term.Comp("true", term.Comp("count", term.Int(1))),
		),
	}
	sdp := Compute(rules)
	require.True(t, sdp.Contains(clause.PredicateID{Name: "legal", Arity: 2}))
}

func TestComputeIsCycleSafeOnMutualRecursion(t *testing.T) {
	// even(0). even(s(X)) :- odd(X).
	// odd(s(X)) :- even(X).
	// Neither refers to true/1 or does/2, so neither should be in SDP,
	// and the fixpoint loop must still terminate.
	x := term.NewVar("X")
	rules := clause.RuleSet{
		clause.Fact(term.Comp("even", term.Int(0))),
		clause.Rule(term.Comp("even", term.Comp("s", x)), term.Comp("odd", x)),
		clause.Rule(term.Comp("odd", term.Comp("s", x)), term.Comp("even", x)),
	}
	sdp := Compute(rules)
	require.False(t, sdp.Contains(clause.PredicateID{Name: "even", Arity: 1}))
	require.False(t, sdp.Contains(clause.PredicateID{Name: "odd", Arity: 1}))
}

func TestComputePropagatesThroughNegationAndDisjunction(t *testing.T) {
	x := term.NewVar("X")
	rules := clause.RuleSet{
		clause.Rule(
			term.Comp("safe", x),
			clause.Not(term.Comp("true", x)),
		),
		clause.Rule(
			term.Comp("either", x),
			clause.Or(term.Comp("true", x), term.Atom("fallback")),
		),
	}
	sdp := Compute(rules)
	require.True(t, sdp.Contains(clause.PredicateID{Name: "safe", Arity: 1}))
	require.True(t, sdp.Contains(clause.PredicateID{Name: "either", Arity: 1}))
}

func TestComputeDoesNotMarkUnrelatedPredicates(t *testing.T) {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("counter"))),
	}
	sdp := Compute(rules)
	require.False(t, sdp.Contains(clause.PredicateID{Name: "role", Arity: 1}))
}
