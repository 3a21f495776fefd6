// Package resolve implements SLD resolution with negation-as-failure
// over a *db.GameRecord: the core proof engine that answers legal/2,
// next/1, goal/2, terminal/0 and ordinary queries against a rewritten
// rule-set (spec.md §4.6, §9's literal-kind dispatch design note).
package resolve

import (
	"context"

	"ggpengine/clause"
	"ggpengine/db"
	"ggpengine/ggperrors"
	"ggpengine/term"
)

// Continuation is called with each answer frame found. Returning true
// stops the search immediately (the caller has what it needs);
// returning false asks the resolver to keep looking for more answers
// by backtracking into the next alternative.
type Continuation func(*term.Frame) bool

// resolveState carries the per-query context: the game record being
// searched and a cancel-with-cause used both for caller-initiated
// cancellation (Cursor.Close) and for aborting on a built-in error
// (unbound negation/distinct, spec.md §4.8).
type resolveState struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	rec    *db.GameRecord
}

func (rs *resolveState) stopped() bool {
	select {
	case <-rs.ctx.Done():
		return true
	default:
		return false
	}
}

// reportError aborts the whole search with err, distinguishing an
// engine-level failure (surfaced via Cursor.Err) from an ordinary
// "this alternative didn't pan out" backtrack.
func reportError(rs *resolveState, err error) {
	rs.cancel(err)
}

// solve proves goal under frame, invoking k for each answer. It
// returns true if k ever returned true (search stopped on request),
// false if every alternative was exhausted.
func solve(rs *resolveState, goal term.Term, frame *term.Frame, k Continuation) bool {
	if rs.stopped() {
		return true
	}

	switch g := frame.Walk(goal).(type) {
	case term.Atom:
		switch g {
		case "true":
			return k(frame)
		case "fail", "false":
			return false
		default:
			return solveClauses(rs, clause.PredicateID{Name: g, Arity: 0}, goal, frame, k)
		}

	case *term.Compound:
		switch {
		case g.Functor == "," && len(g.Args) == 2:
			return solve(rs, g.Args[0], frame, func(f *term.Frame) bool {
				return solve(rs, g.Args[1], f, k)
			})

		case g.Functor == "state" && len(g.Args) == 4:
			return solveState(rs, g, frame, k)

		case g.Functor == "not" && len(g.Args) == 1:
			return solveNot(rs, g.Args[0], frame, k)

		case g.Functor == "distinct" && len(g.Args) == 2:
			return solveDistinct(rs, g, frame, k)

		case g.Functor == "member" && len(g.Args) == 2:
			return solveMemberValues(rs, g.Args[0], g.Args[1], frame, k)

		case (g.Functor == "findall" || g.Functor == "bagof" || g.Functor == "setof") && len(g.Args) == 3:
			return solveAggregate(rs, g, frame, k)

		case g.Functor == "or" && len(g.Args) == 2 && !rs.rec.HasClauses(clause.PredicateID{Name: "or", Arity: 2}):
			return solveOr(rs, g, frame, k)

		default:
			pid := clause.PredicateID{Name: g.Functor, Arity: len(g.Args)}
			return solveClauses(rs, pid, goal, frame, k)
		}

	case *term.Var:
		// An unbound goal cannot be called; fail rather than panic.
		return false

	default:
		return false
	}
}

// solveClauses tries every clause defining pid in Prolog order,
// renaming each apart before unifying its head with goal (spec.md
// §4.6: clause instantiation must not alias variables across trials
// or across concurrent proofs sharing the same installed rule-set).
func solveClauses(rs *resolveState, pid clause.PredicateID, goal term.Term, frame *term.Frame, k Continuation) bool {
	for _, c := range rs.rec.ClausesFor(pid) {
		if rs.stopped() {
			return true
		}
		mapping := make(map[*term.Var]*term.Var)
		head := term.RenameApart(c.Head, mapping)
		body := term.RenameApart(c.Body, mapping)

		f, ok := term.Unify(goal, head, frame)
		if !ok {
			continue
		}
		if solve(rs, body, f, k) {
			return true
		}
	}
	return false
}

// solveState resolves the state(GameId, Truth, Moves, G) wrapper the
// stateifier produces (spec.md §4.4, §4.6): true/1 and does/2 goals
// are answered directly from the threaded Truth/Moves lists, anything
// else delegates to the state_dynamic/4 clause the stateifier compiled
// the original head predicate into.
func solveState(rs *resolveState, g *term.Compound, frame *term.Frame, k Continuation) bool {
	gameID, truth, moves, inner := g.Args[0], g.Args[1], g.Args[2], g.Args[3]

	switch in := frame.Walk(inner).(type) {
	case *term.Compound:
		if in.Functor == "true" && len(in.Args) == 1 {
			return solveMemberValues(rs, in.Args[0], truth, frame, k)
		}
		if in.Functor == "does" && len(in.Args) == 2 {
			return solveMemberValues(rs, in, moves, frame, k)
		}
	}

	dyn := term.Comp("state_dynamic", gameID, truth, moves, inner)
	return solveClauses(rs, clause.PredicateID{Name: "state_dynamic", Arity: 4}, dyn, frame, k)
}

// solveMemberValues tries unifying x against every element of list, in
// order, backtracking on failure. It underlies both the member/2
// built-in and state/4's true/1 and does/2 special cases.
func solveMemberValues(rs *resolveState, x, list term.Term, frame *term.Frame, k Continuation) bool {
	elems, ok := term.ToSlice(frame.Walk(list))
	if !ok {
		return false
	}
	for _, e := range elems {
		if rs.stopped() {
			return true
		}
		f, ok := term.Unify(x, e, frame)
		if !ok {
			continue
		}
		if k(f) {
			return true
		}
	}
	return false
}

func solveOr(rs *resolveState, g *term.Compound, frame *term.Frame, k Continuation) bool {
	if solve(rs, g.Args[0], frame, k) {
		return true
	}
	return solve(rs, g.Args[1], frame, k)
}

// solveNot implements negation-as-failure: G must be ground by the
// time it runs, or the caller has violated the safety contract of
// spec.md §4.2 and gets ggperrors.UnboundInNegationError.
func solveNot(rs *resolveState, g term.Term, frame *term.Frame, k Continuation) bool {
	if !term.Ground(frame.Resolve(g)) {
		reportError(rs, &ggperrors.UnboundInNegationError{Goal: frame.Resolve(g)})
		return true
	}
	found := false
	solve(rs, g, frame, func(*term.Frame) bool {
		found = true
		return true
	})
	if found {
		return false
	}
	return k(frame)
}

func solveDistinct(rs *resolveState, g *term.Compound, frame *term.Frame, k Continuation) bool {
	x, y := frame.Resolve(g.Args[0]), frame.Resolve(g.Args[1])
	if !term.Ground(x) || !term.Ground(y) {
		reportError(rs, &ggperrors.UnboundInDistinctError{X: x, Y: y})
		return true
	}
	if term.IdenticalGround(x, y, frame) {
		return false
	}
	return k(frame)
}
