// Package ggperrors defines the structured error taxonomy of spec.md
// §7: malformed-clause, unknown-game, illegal-move, role-mismatch,
// unbound-in-negation and unbound-in-distinct. Each is a distinct
// type so callers can errors.As to recover the offending value.
package ggperrors

import (
	"fmt"

	"ggpengine/term"
)

// MalformedClauseError reports a clause that failed installation,
// naming the offending clause.
type MalformedClauseError struct {
	Clause fmt.Stringer
	Reason string
}

func (e *MalformedClauseError) Error() string {
	return fmt.Sprintf("malformed clause %s: %s", e.Clause, e.Reason)
}

// UnknownGameError reports a query or transition against a game id
// that has never been installed.
type UnknownGameError struct {
	GameID string
}

func (e *UnknownGameError) Error() string {
	return fmt.Sprintf("unknown game %q", e.GameID)
}

// IllegalMoveError reports a move that failed the legal/2 check during
// a transition, naming the offending (Role, Action).
type IllegalMoveError struct {
	GameID string
	Role   term.Term
	Action term.Term
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move in game %q: does(%s, %s)", e.GameID, e.Role, e.Action)
}

// RoleMismatchError reports that a prepared/unordered move list's
// roles disagree with the game's role set.
type RoleMismatchError struct {
	GameID string
	Reason string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("role mismatch in game %q: %s", e.GameID, e.Reason)
}

// UnboundInNegationError reports that not(G) was evaluated with G
// containing a variable unbound by its caller (spec.md §4.2: negation
// is only safe when the inner goal is fully bound by the time it
// runs).
type UnboundInNegationError struct {
	Goal term.Term
}

func (e *UnboundInNegationError) Error() string {
	return fmt.Sprintf("unbound variable in negated goal %s", e.Goal)
}

// UnboundInDistinctError reports that distinct(X, Y) was evaluated
// with an unbound argument (spec.md §4.1).
type UnboundInDistinctError struct {
	X, Y term.Term
}

func (e *UnboundInDistinctError) Error() string {
	return fmt.Sprintf("unbound variable in distinct(%s, %s)", e.X, e.Y)
}

// AmbiguousGoalError reports that goal(Role, Utility) yielded zero or
// more than one utility for a role, violating the exactly-one
// invariant original_source/ggp/gamestate.py asserts on utility().
type AmbiguousGoalError struct {
	GameID string
	Role   term.Term
	Count  int
}

func (e *AmbiguousGoalError) Error() string {
	return fmt.Sprintf("game %q: role %s has %d goal values, expected exactly 1", e.GameID, e.Role, e.Count)
}
