// Package httpapi is a JSON/HTTP transport wrapping an *engine.Engine,
// adapted from communication/'s ServerCommunicator/ClientCommunicator
// split and engine/remote.go's request/response shape. It is a client
// of the core engine, not part of it (spec.md §6: "Clients wrap the
// core with any transport they need") — nothing in engine or resolve
// imports this package.
package httpapi

import (
	"fmt"

	"ggpengine/clause"
	"ggpengine/state"
	"ggpengine/term"
)

// WireTerm is a JSON-safe rendering of a term.Term. Exactly one of Var,
// Atom, Int or Functor is set. Variables are scoped to whatever they
// were encoded from (one clause, one query, one move vector) — a Var
// binder is fresh for every ToWireVars call.
type WireTerm struct {
	Var     string     `json:"var,omitempty"`
	Atom    string     `json:"atom,omitempty"`
	Int     *int64     `json:"int,omitempty"`
	Functor string     `json:"functor,omitempty"`
	Args    []WireTerm `json:"args,omitempty"`
}

// ToWire renders t with no variable sharing, one binder per call. Use
// ToWireVars directly when multiple terms (e.g. a clause's head and
// body) must share variable identity.
func ToWire(t term.Term) WireTerm {
	return ToWireVars(t, make(map[*term.Var]string))
}

// ToWireVars renders t, naming each *term.Var the first time it's seen
// via seen and reusing that name on every later occurrence, so two
// terms encoded against the same seen map preserve shared variables.
func ToWireVars(t term.Term, seen map[*term.Var]string) WireTerm {
	switch x := t.(type) {
	case term.Atom:
		return WireTerm{Atom: string(x)}
	case term.Int:
		v := int64(x)
		return WireTerm{Int: &v}
	case *term.Var:
		name, ok := seen[x]
		if !ok {
			name = uniqueVarName(x, seen)
			seen[x] = name
		}
		return WireTerm{Var: name}
	case *term.Compound:
		args := make([]WireTerm, len(x.Args))
		for i, a := range x.Args {
			args[i] = ToWireVars(a, seen)
		}
		return WireTerm{Functor: string(x.Functor), Args: args}
	default:
		panic(fmt.Sprintf("httpapi: unknown term type %T", t))
	}
}

// uniqueVarName names v after its display Name where possible, so a
// query's wire form stays human-readable, falling back to a generated
// name for anonymous variables or ones that would collide with an
// already-assigned name in this call's binder.
func uniqueVarName(v *term.Var, seen map[*term.Var]string) string {
	base := v.Name
	if base == "" {
		base = fmt.Sprintf("_V%d", len(seen))
	}
	name := base
	for n := 1; nameTaken(seen, name); n++ {
		name = fmt.Sprintf("%s#%d", base, n)
	}
	return name
}

func nameTaken(seen map[*term.Var]string, name string) bool {
	for _, taken := range seen {
		if taken == name {
			return true
		}
	}
	return false
}

// FromWire reconstructs a term.Term from w, binding same-named
// variables to the same *term.Var via vars. Callers decoding several
// related WireTerms (a clause's head and body, a query and its answer
// frame) must share one vars map across the calls.
func FromWire(w WireTerm, vars map[string]*term.Var) term.Term {
	switch {
	case w.Var != "":
		v, ok := vars[w.Var]
		if !ok {
			v = term.NewVar(w.Var)
			vars[w.Var] = v
		}
		return v
	case w.Int != nil:
		return term.Int(*w.Int)
	case w.Functor != "":
		args := make([]term.Term, len(w.Args))
		for i, a := range w.Args {
			args[i] = FromWire(a, vars)
		}
		return term.Comp(w.Functor, args...)
	default:
		return term.Atom(w.Atom)
	}
}

// WireClause mirrors clause.Clause; Body is omitted for a fact.
type WireClause struct {
	Head WireTerm  `json:"head"`
	Body *WireTerm `json:"body,omitempty"`
}

// ToWireClause renders c with its own fresh variable binder — a
// clause's variables never need to be shared with any other clause.
func ToWireClause(c clause.Clause) WireClause {
	seen := make(map[*term.Var]string)
	head := ToWireVars(c.Head, seen)
	w := WireClause{Head: head}
	if c.Body != term.Term(term.Atom("true")) {
		body := ToWireVars(c.Body, seen)
		w.Body = &body
	}
	return w
}

// FromWireClause reconstructs a clause.Clause from w.
func FromWireClause(w WireClause) clause.Clause {
	vars := make(map[string]*term.Var)
	head := FromWire(w.Head, vars)
	if w.Body == nil {
		return clause.Fact(head)
	}
	return clause.Rule(head, FromWire(*w.Body, vars))
}

// ToWireRuleSet and FromWireRuleSet convert a whole clause.RuleSet.
func ToWireRuleSet(rules clause.RuleSet) []WireClause {
	out := make([]WireClause, len(rules))
	for i, c := range rules {
		out[i] = ToWireClause(c)
	}
	return out
}

func FromWireRuleSet(wire []WireClause) clause.RuleSet {
	out := make(clause.RuleSet, len(wire))
	for i, w := range wire {
		out[i] = FromWireClause(w)
	}
	return out
}

// ToWireMoves and FromWireMoves convert a state.MoveVector. Every
// prepared move vector is ground, so no variable sharing is needed.
func ToWireMoves(moves state.MoveVector) []WireTerm {
	out := make([]WireTerm, len(moves))
	for i, m := range moves {
		out[i] = ToWire(m)
	}
	return out
}

func FromWireMoves(wire []WireTerm) state.MoveVector {
	out := make(state.MoveVector, len(wire))
	for i, w := range wire {
		out[i] = FromWire(w, make(map[string]*term.Var))
	}
	return out
}

// ToWireTruth and FromWireTruth convert a state.TruthState. Truth
// states are always ground.
func ToWireTruth(truth state.TruthState) []WireTerm {
	facts := truth.Facts()
	out := make([]WireTerm, len(facts))
	for i, f := range facts {
		out[i] = ToWire(f)
	}
	return out
}

func FromWireTruth(wire []WireTerm) state.TruthState {
	facts := make([]term.Term, len(wire))
	for i, w := range wire {
		facts[i] = FromWire(w, make(map[string]*term.Var))
	}
	return state.NewTruthState(facts)
}

// WireFrame is one answer: the query's variables bound to the terms
// they resolved to, keyed by the same names ToWireVars assigned when
// the query itself was encoded.
type WireFrame map[string]WireTerm

// WireHistoryEntry mirrors state.HistoryEntry. Moves is omitted for
// the initial-state sentinel entry.
type WireHistoryEntry struct {
	Moves []WireTerm `json:"moves,omitempty"`
	Truth []WireTerm `json:"truth"`
}

// ToWireHistory and FromWireHistory convert a state.History, newest
// entry first, matching History's own storage order.
func ToWireHistory(h state.History) []WireHistoryEntry {
	out := make([]WireHistoryEntry, len(h))
	for i, entry := range h {
		var moves []WireTerm
		if entry.Moves != nil {
			moves = ToWireMoves(entry.Moves)
		}
		out[i] = WireHistoryEntry{Moves: moves, Truth: ToWireTruth(entry.Truth)}
	}
	return out
}

func FromWireHistory(wire []WireHistoryEntry) state.History {
	out := make(state.History, len(wire))
	for i, w := range wire {
		var moves state.MoveVector
		if w.Moves != nil {
			moves = FromWireMoves(w.Moves)
		}
		out[i] = state.HistoryEntry{Moves: moves, Truth: FromWireTruth(w.Truth)}
	}
	return out
}
