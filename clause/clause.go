// Package clause defines the rule-set data model: predicate
// identifiers, clauses, and the conjunction/disjunction/negation
// literal shapes a rule body is built from (spec.md §3).
package clause

import (
	"fmt"

	"ggpengine/term"
)

// PredicateID identifies a predicate by functor name and arity.
type PredicateID struct {
	Name  term.Atom
	Arity int
}

func (p PredicateID) String() string {
	return fmt.Sprintf("%s/%d", p.Name, p.Arity)
}

// True1 and Does2 are the two predicate identifiers the dependency
// analyser always seeds the state-dependent set with (spec.md §3, §4.3).
var (
	True1 = PredicateID{Name: "true", Arity: 1}
	Does2 = PredicateID{Name: "does", Arity: 2}
)

// Of returns the PredicateID of t, or the zero value and false if t
// has no functor (a Var or Int).
func Of(t term.Term) (PredicateID, bool) {
	name, arity, ok := term.Functor(t)
	if !ok {
		return PredicateID{}, false
	}
	return PredicateID{Name: name, Arity: arity}, true
}

// Clause is Head :- Body. A fact has an empty Body (represented as the
// atom "true", the vacuous conjunction).
type Clause struct {
	Head term.Term
	Body term.Term
}

// HeadPredicate returns the PredicateID of the clause's head.
func (c Clause) HeadPredicate() (PredicateID, bool) {
	return Of(c.Head)
}

func (c Clause) String() string {
	if c.Body == nil || c.Body == term.Term(term.Atom("true")) {
		return c.Head.String()
	}
	return fmt.Sprintf("%s :- %s", c.Head, c.Body)
}

// Fact builds a clause with an empty (vacuously true) body.
func Fact(head term.Term) Clause {
	return Clause{Head: head, Body: term.Atom("true")}
}

// Rule builds a clause with a non-empty body.
func Rule(head term.Term, body term.Term) Clause {
	return Clause{Head: head, Body: body}
}

// RuleSet is an ordered list of clauses, ordering matters: the
// resolver tries clauses in this order (Prolog order, spec.md §4.6).
type RuleSet []Clause

// And builds a right-nested conjunction of one or more literals.
// And() with no arguments returns the atom "true".
func And(literals ...term.Term) term.Term {
	if len(literals) == 0 {
		return term.Atom("true")
	}
	result := literals[len(literals)-1]
	for i := len(literals) - 2; i >= 0; i-- {
		result = term.Comp(",", literals[i], result)
	}
	return result
}

// Conjuncts flattens a right-nested "," conjunction back into a slice
// of literals, in left-to-right order. A non-conjunction term is
// returned as a single-element slice.
func Conjuncts(body term.Term) []term.Term {
	c, ok := body.(*term.Compound)
	if !ok || c.Functor != "," || len(c.Args) != 2 {
		return []term.Term{body}
	}
	return append([]term.Term{c.Args[0]}, Conjuncts(c.Args[1])...)
}

// Or builds the disjunction or(A, B), matching the explicit compound
// shape spec.md §3 requires ("Negation and disjunction appear as
// explicit term shapes not(L) and or(L, R)").
func Or(a, b term.Term) term.Term {
	return term.Comp("or", a, b)
}

// Not builds the negation not(L).
func Not(l term.Term) term.Term {
	return term.Comp("not", l)
}
