// Package transition implements the state-transition engine (spec.md
// §4.7): deriving the initial truth state, checking move legality and
// deriving successor states, canonicalizing prepared move vectors
// against the game's role order, and building truth histories with
// positional cache reuse.
package transition

import (
	"context"
	"fmt"

	"ggpengine/db"
	"ggpengine/ggperrors"
	"ggpengine/resolve"
	"ggpengine/state"
	"ggpengine/term"
)

// Roles solves role(R) against rec's no-state predicates, in the order
// the rule-set's role/1 clauses are tried (Prolog order), which is the
// canonical role order every prepared move vector is ordered by.
func Roles(ctx context.Context, rec *db.GameRecord) ([]term.Term, error) {
	r := term.NewVar("Role")
	answers, err := resolve.All(ctx, rec, term.Comp("role", r), term.EmptyFrame)
	if err != nil {
		return nil, err
	}
	roles := make([]term.Term, len(answers))
	for i, a := range answers {
		roles[i] = a.Resolve(r)
	}
	return roles, nil
}

// InitialState computes S0 = { f | init(f) is derivable in the
// no-state context } (spec.md §4.7).
func InitialState(ctx context.Context, rec *db.GameRecord) (state.TruthState, error) {
	x := term.NewVar("X")
	answers, err := resolve.All(ctx, rec, term.Comp("init", x), term.EmptyFrame)
	if err != nil {
		return state.TruthState{}, err
	}
	facts := make([]term.Term, len(answers))
	for i, a := range answers {
		facts[i] = a.Resolve(x)
	}
	return state.NewTruthState(facts), nil
}

// PrepareMoves reorders an unordered set of does(Role, Action) moves
// into the canonical role order (spec.md §4.7), failing with
// RoleMismatchError if the role multiset disagrees with the game's
// roles.
func PrepareMoves(ctx context.Context, rec *db.GameRecord, gameID string, unordered []term.Term) (state.MoveVector, error) {
	roles, err := Roles(ctx, rec)
	if err != nil {
		return nil, err
	}

	byRole := make(map[string]term.Term, len(unordered))
	for _, mv := range unordered {
		c, ok := mv.(*term.Compound)
		if !ok || c.Functor != "does" || len(c.Args) != 2 {
			return nil, &ggperrors.RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("not a does/2 move: %s", mv)}
		}
		key := c.Args[0].String()
		if _, dup := byRole[key]; dup {
			return nil, &ggperrors.RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("duplicate move for role %s", key)}
		}
		byRole[key] = mv
	}
	if len(byRole) != len(roles) {
		return nil, &ggperrors.RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("expected %d moves, got %d", len(roles), len(byRole))}
	}

	prepared := make(state.MoveVector, len(roles))
	for i, r := range roles {
		mv, ok := byRole[r.String()]
		if !ok {
			return nil, &ggperrors.RoleMismatchError{GameID: gameID, Reason: fmt.Sprintf("no move for role %s", r)}
		}
		prepared[i] = mv
	}
	return prepared, nil
}

// CheckLegal verifies every move in moves is legal against prev,
// returning IllegalMoveError naming the first offender.
func CheckLegal(ctx context.Context, rec *db.GameRecord, gameID string, prev state.TruthState, moves state.MoveVector) error {
	truthTerm, movesTerm := prev.ToTerm(), moves.ToTerm()
	gameIDTerm := term.Atom(gameID)

	for _, mv := range moves {
		c, ok := mv.(*term.Compound)
		if !ok || c.Functor != "does" || len(c.Args) != 2 {
			return &ggperrors.MalformedClauseError{Clause: mv, Reason: "move is not a does/2 term"}
		}
		role, action := c.Args[0], c.Args[1]
		goal := term.Comp("legal", role, action)
		rewritten, frame, ok := resolve.PrepareQuery(rec, goal, gameIDTerm, truthTerm, movesTerm, term.EmptyFrame)
		if !ok {
			return &ggperrors.IllegalMoveError{GameID: gameID, Role: role, Action: action}
		}
		_, found, err := resolve.One(ctx, rec, rewritten, frame)
		if err != nil {
			return err
		}
		if !found {
			return &ggperrors.IllegalMoveError{GameID: gameID, Role: role, Action: action}
		}
	}
	return nil
}

// Successor derives S_next from (S_prev, M): every move in M must be
// legal against S_prev, then S_next is the set of x for which next(x)
// is provable against (S_prev, M) (spec.md §4.7).
func Successor(ctx context.Context, rec *db.GameRecord, gameID string, prev state.TruthState, moves state.MoveVector) (state.TruthState, error) {
	if err := CheckLegal(ctx, rec, gameID, prev, moves); err != nil {
		return state.TruthState{}, err
	}

	gameIDTerm := term.Atom(gameID)
	truthTerm, movesTerm := prev.ToTerm(), moves.ToTerm()

	x := term.NewVar("X")
	goal := term.Comp("next", x)
	rewritten, frame, ok := resolve.PrepareQuery(rec, goal, gameIDTerm, truthTerm, movesTerm, term.EmptyFrame)
	if !ok {
		return state.TruthState{}, &ggperrors.UnknownGameError{GameID: gameID}
	}
	answers, err := resolve.All(ctx, rec, rewritten, frame)
	if err != nil {
		return state.TruthState{}, err
	}
	facts := make([]term.Term, len(answers))
	for i, a := range answers {
		facts[i] = a.Resolve(x)
	}
	return state.NewTruthState(facts), nil
}

// IsTerminal reports whether terminal/0 is provable against S.
func IsTerminal(ctx context.Context, rec *db.GameRecord, gameID string, s state.TruthState, moves state.MoveVector) (bool, error) {
	gameIDTerm := term.Atom(gameID)
	rewritten, frame, ok := resolve.PrepareQuery(rec, term.Atom("terminal"), gameIDTerm, s.ToTerm(), moves.ToTerm(), term.EmptyFrame)
	if !ok {
		return false, &ggperrors.UnknownGameError{GameID: gameID}
	}
	_, found, err := resolve.One(ctx, rec, rewritten, frame)
	return found, err
}
