// Package deps computes the state-dependent predicate set (SDP) of a
// rule-set: the predicates whose evaluation transitively consults
// true/1 or does/2 (spec.md §4.3).
package deps

import (
	"ggpengine/clause"
	"ggpengine/term"
)

// SDP is a set of predicate identifiers.
type SDP map[clause.PredicateID]bool

// Contains reports whether p is state-dependent.
func (s SDP) Contains(p clause.PredicateID) bool {
	return s[p]
}

// Compute returns the state-dependent predicate set of rules, seeded
// with true/1 and does/2 per spec.md §9's unification of the two
// historical variants ("always treating true/1 and does/2 as
// state-dependent and propagating from both").
func Compute(rules clause.RuleSet) SDP {
	sdp := SDP{clause.True1: true, clause.Does2: true}

	// definingClauses indexes clauses by their head predicate so the
	// fixpoint loop can ask "which clauses define p" in O(1).
	definingClauses := make(map[clause.PredicateID][]clause.Clause)
	for _, c := range rules {
		if pid, ok := c.HeadPredicate(); ok {
			definingClauses[pid] = append(definingClauses[pid], c)
		}
	}

	// Iterate to a fixpoint: repeatedly scan every predicate with a
	// definition, and add it to sdp if any of its clause bodies embeds
	// a literal already known to be state-dependent. Stop when a full
	// pass adds nothing new.
	for {
		changed := false
		for pid, clauses := range definingClauses {
			if sdp[pid] {
				continue
			}
			for _, c := range clauses {
				if bodyDependsOn(c.Body, sdp, map[clause.PredicateID]bool{pid: true}) {
					sdp[pid] = true
					changed = true
					break
				}
			}
		}
		if !changed {
			return sdp
		}
	}
}

// bodyDependsOn reports whether body contains, anywhere in its literal
// or term structure, a reference to a predicate already in sdp.
// visiting guards against infinite recursion through mutually
// recursive predicate definitions (spec.md §4.3, §9): a predicate
// already being explored on the current path is treated as not (yet)
// dependent, letting the outer fixpoint loop converge instead.
func bodyDependsOn(body term.Term, sdp SDP, visiting map[clause.PredicateID]bool) bool {
	for _, lit := range clause.Conjuncts(body) {
		if literalDependsOn(lit, sdp, visiting) {
			return true
		}
	}
	return false
}

func literalDependsOn(lit term.Term, sdp SDP, visiting map[clause.PredicateID]bool) bool {
	pid, ok := clause.Of(lit)
	if !ok {
		// Variables carry no functor and match nothing (spec.md §4.3).
		return false
	}
	if sdp[pid] {
		return true
	}
	if visiting[pid] {
		return false
	}

	c, isCompound := lit.(*term.Compound)
	if !isCompound {
		return false
	}

	// not(L) and or(A,B) are transparent: dependency propagates
	// through their embedded subgoals exactly like any other argument.
	for _, arg := range c.Args {
		if termEmbedsDependency(arg, sdp, visiting) {
			return true
		}
	}
	return false
}

// termEmbedsDependency looks for a state-dependent literal nested
// inside an argument position, since GDL permits nesting terms that
// are themselves goals (e.g. inside not(...) or or(...)).
func termEmbedsDependency(t term.Term, sdp SDP, visiting map[clause.PredicateID]bool) bool {
	pid, ok := clause.Of(t)
	if !ok {
		return false
	}
	if sdp[pid] {
		return true
	}
	if visiting[pid] {
		return false
	}
	c, isCompound := t.(*term.Compound)
	if !isCompound {
		return false
	}
	for _, arg := range c.Args {
		if termEmbedsDependency(arg, sdp, visiting) {
			return true
		}
	}
	return false
}
