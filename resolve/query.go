package resolve

import (
	"ggpengine/db"
	"ggpengine/rewrite"
	"ggpengine/term"
)

// PrepareQuery rewrites an ad-hoc goal (as a caller would write it,
// e.g. legal(white, mark(2,2))) the same way the stateifier rewrites a
// clause body literal, then binds the injected game id, truth state
// and move set to the concrete values the caller supplied. The result
// can be handed to Solve/One/All directly.
//
// This lets callers query state-dependent predicates without the
// game's rule-set containing a clause for the literal they wrote: the
// query itself is not stored in the database, only rewritten the same
// way a stored clause's body would be (spec.md §4.6).
func PrepareQuery(rec *db.GameRecord, goal, gameID, truth, moves term.Term, frame *term.Frame) (term.Term, *term.Frame, bool) {
	args := rewrite.FreshStateArgs()
	rewritten := rewrite.Literal(goal, args, rec.SDP)

	f, ok := term.Unify(args.GameID, gameID, frame)
	if !ok {
		return nil, frame, false
	}
	f, ok = term.Unify(args.Truth, truth, f)
	if !ok {
		return nil, frame, false
	}
	f, ok = term.Unify(args.Moves, moves, f)
	if !ok {
		return nil, frame, false
	}
	return rewritten, f, true
}
