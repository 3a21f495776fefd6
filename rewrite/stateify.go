// Package rewrite implements the stateifier (spec.md §4.4): rewriting
// clauses so state-dependent predicates carry an explicit game id,
// truth state and move set instead of consulting global oracles.
package rewrite

import (
	"ggpengine/clause"
	"ggpengine/deps"
	"ggpengine/term"
)

// StateArgs are the three fresh variables threaded through a single
// rewritten clause: the game id, the truth state, and the move set.
// A clause gets one fresh StateArgs; every injected reference inside
// that clause shares it (spec.md §4.4: "All three injected arguments
// share the same fresh variables across the single clause").
type StateArgs struct {
	GameID *term.Var
	Truth  *term.Var
	Moves  *term.Var
}

func freshStateArgs() StateArgs {
	return StateArgs{
		GameID: term.NewVar("GameId"),
		Truth:  term.NewVar("Truth"),
		Moves:  term.NewVar("Moves"),
	}
}

// FreshStateArgs allocates a new set of state arguments. Exported for
// callers (the resolver's top-level query preparation) that need to
// rewrite an ad-hoc goal the same way a clause body literal would be
// rewritten, then bind the three variables to concrete values.
func FreshStateArgs() StateArgs { return freshStateArgs() }

// Literal rewrites a single body-position literal against sdp. It is
// the exported form of rewriteLiteral, used both for clause bodies and
// for top-level queries issued directly against a game record.
func Literal(lit term.Term, a StateArgs, sdp deps.SDP) term.Term {
	return rewriteLiteral(lit, a, sdp)
}

// Clause rewrites a single clause against sdp, injecting fresh state
// arguments if the clause's head is state-dependent.
func Clause(c clause.Clause, sdp deps.SDP) clause.Clause {
	args := freshStateArgs()
	head := c.Head
	if pid, ok := c.HeadPredicate(); ok && sdp.Contains(pid) {
		head = wrapDynamic(args, c.Head)
	}
	body := rewriteBody(c.Body, args, sdp)
	return clause.Clause{Head: head, Body: body}
}

// RuleSet rewrites every clause in rules against sdp.
func RuleSet(rules clause.RuleSet, sdp deps.SDP) clause.RuleSet {
	out := make(clause.RuleSet, len(rules))
	for i, c := range rules {
		out[i] = Clause(c, sdp)
	}
	return out
}

// wrapDynamic builds state_dynamic(GameId, Truth, Moves, p(Args...)),
// the head-side wrapper (spec.md §4.4 rule 4).
func wrapDynamic(a StateArgs, p term.Term) term.Term {
	return term.Comp("state_dynamic", a.GameID, a.Truth, a.Moves, p)
}

// wrapQuery builds state(GameId, Truth, Moves, p(Args...)), the
// body-side wrapper (spec.md §4.4 rule 2).
func wrapQuery(a StateArgs, p term.Term) term.Term {
	return term.Comp("state", a.GameID, a.Truth, a.Moves, p)
}

func rewriteBody(body term.Term, a StateArgs, sdp deps.SDP) term.Term {
	literals := clause.Conjuncts(body)
	rewritten := make([]term.Term, len(literals))
	for i, lit := range literals {
		rewritten[i] = rewriteLiteral(lit, a, sdp)
	}
	return clause.And(rewritten...)
}

// rewriteLiteral applies the three body rewrite rules from spec.md
// §4.4, recursing through not(...) and or(...) so nested goals are
// rewritten too. The does/not/or special cases only apply to compound
// literals, but the SDP-membership check (rule 2) must run regardless
// of arity: a 0-arity state-dependent predicate is a term.Atom, not a
// *term.Compound (term/term.go's own convention), and its defining
// clause's head was rewritten into state_dynamic(...) by Clause, so it
// must be wrapped here the same as any other state-dependent literal.
func rewriteLiteral(lit term.Term, a StateArgs, sdp deps.SDP) term.Term {
	if c, isCompound := lit.(*term.Compound); isCompound {
		switch {
		case c.Functor == "does" && len(c.Args) == 2:
			// Rule 1: does(Role, Action) -> member(does(Role, Action), Moves).
			return term.Comp("member", lit, a.Moves)
		case c.Functor == "not" && len(c.Args) == 1:
			return term.Comp("not", rewriteLiteral(c.Args[0], a, sdp))
		case c.Functor == "or" && len(c.Args) == 2:
			return term.Comp("or",
				rewriteLiteral(c.Args[0], a, sdp),
				rewriteLiteral(c.Args[1], a, sdp))
		}
	}

	pid, ok := clause.Of(lit)
	if ok && sdp.Contains(pid) {
		// Rule 2: state-dependent predicate -> state(...) query wrapper.
		return wrapQuery(a, lit)
	}
	// Rule 3: non-state predicates (and anything with no functor, like
	// an unbound Var) pass through unchanged.
	return lit
}
