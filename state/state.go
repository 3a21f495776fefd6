// Package state holds the two runtime value shapes threaded through
// every query and transition: truth states (sets of ground facts) and
// move vectors (ordered does(Role, Action) terms), plus the truth
// history that chains them together (spec.md §3, §4.7).
//
// Both are kept as plain Go values, not resolver-internal terms, so
// the transition engine and the public Engine API can construct and
// compare them without going through unification. When a query needs
// to consult one, it is converted to a list term via ToTerm and fed
// through resolve.PrepareQuery like any other argument.
package state

import (
	"sort"

	"ggpengine/term"
)

// TruthState is an unordered set of ground facts, deduplicated by
// canonical string form.
type TruthState struct {
	facts map[string]term.Term
}

// NewTruthState builds a TruthState from facts, deduplicating.
func NewTruthState(facts []term.Term) TruthState {
	m := make(map[string]term.Term, len(facts))
	for _, f := range facts {
		m[f.String()] = f
	}
	return TruthState{facts: m}
}

// Facts returns the state's facts in a stable, sorted order so two
// TruthStates built from the same set always print and compare the
// same way.
func (t TruthState) Facts() []term.Term {
	out := make([]term.Term, 0, len(t.facts))
	for _, f := range t.facts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Contains reports whether f (already ground) is a member of t.
func (t TruthState) Contains(f term.Term) bool {
	_, ok := t.facts[f.String()]
	return ok
}

// Len reports the number of facts in t.
func (t TruthState) Len() int { return len(t.facts) }

// Equal reports whether t and other contain exactly the same facts.
func (t TruthState) Equal(other TruthState) bool {
	if len(t.facts) != len(other.facts) {
		return false
	}
	for k := range t.facts {
		if _, ok := other.facts[k]; !ok {
			return false
		}
	}
	return true
}

// ToTerm renders t as the ground list term the resolver's Truth
// argument expects.
func (t TruthState) ToTerm() term.Term {
	return term.FromSlice(t.Facts())
}

// MoveVector is a prepared, role-ordered sequence of does(Role, Action)
// terms (spec.md §3's "prepared move vector").
type MoveVector []term.Term

// ToTerm renders m as the ground list term the resolver's Moves
// argument expects.
func (m MoveVector) ToTerm() term.Term {
	return term.FromSlice([]term.Term(m))
}

// HistoryEntry is one step of a game's truth history: the moves that
// produced Truth from the prior entry's Truth, or a nil Moves for the
// initial state sentinel (spec.md §4.7).
type HistoryEntry struct {
	Moves MoveVector
	Truth TruthState
}

// History is stored newest-first: History[0] is the current state,
// History[len-1] is the initial state (spec.md §4.7).
type History []HistoryEntry

// Current returns the most recent truth state.
func (h History) Current() TruthState {
	return h[0].Truth
}

// TurnNumber is the number of moves applied so far: len(h)-1, since
// entry 0 is the current state and the last entry is the sentinel
// initial state with nil Moves (supplemented from
// original_source/ggp/gamestate.py's move-history-length turn
// counting, chosen over pygdl's mutable turn/1 dynamic predicate).
func (h History) TurnNumber() int {
	return len(h) - 1
}
