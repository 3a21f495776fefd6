// Package engine wires the analyser, stateifier, rule database,
// resolver and transition engine into the eight operations spec.md §6
// names as the module's public surface, plus the operations
// SPEC_FULL.md supplements from original_source/ggp/gamestate.py
// (Roles, BaseProps, AllActions, Goal, GameExists).
//
// Engine is a value, not a package of globals (spec.md §9's redesign
// note): every operation takes an *Engine explicitly, so a process can
// run more than one independent engine (e.g. one per test) without
// shared state.
package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"ggpengine/clause"
	"ggpengine/db"
	"ggpengine/deps"
	"ggpengine/ggperrors"
	"ggpengine/resolve"
	"ggpengine/rewrite"
	"ggpengine/state"
	"ggpengine/term"
	"ggpengine/transition"
)

// Engine holds the installed games and the small caches (canonical
// role order) that are safe to derive once per game and reuse across
// every subsequent query.
type Engine struct {
	rules *db.RuleDatabase

	cacheMu sync.RWMutex
	roles   map[string][]term.Term
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{
		rules: db.NewRuleDatabase(),
		roles: make(map[string][]term.Term),
	}
}

// CreateGame installs rules under gameID, computing the state-dependent
// predicate set and stateifying every clause (spec.md §4.5). It
// overwrites any prior record for the same id atomically; other games
// are unaffected.
func (e *Engine) CreateGame(gameID string, rules clause.RuleSet) error {
	for _, c := range rules {
		if _, ok := c.HeadPredicate(); !ok {
			return &ggperrors.MalformedClauseError{Clause: c, Reason: "head has no functor"}
		}
	}

	sdp := deps.Compute(rules)
	rewritten := rewrite.RuleSet(rules, sdp)
	rec := db.NewGameRecord(gameID, sdp, rewritten)
	e.rules.Install(rec)

	e.cacheMu.Lock()
	delete(e.roles, gameID) // role order is recomputed lazily against the fresh record
	e.cacheMu.Unlock()

	log.Info().Str("game", gameID).Int("clauses", len(rewritten)).Msg("installed game")
	return nil
}

// GameExists reports whether gameID has an installed record
// (supplemented from original_source/ggp/gamestate.py's
// GeneralGameManager.game_exists).
func (e *Engine) GameExists(gameID string) bool {
	return e.rules.Exists(gameID)
}

func (e *Engine) snapshot(gameID string) (*db.GameRecord, error) {
	rec, ok := e.rules.Snapshot(gameID)
	if !ok {
		return nil, &ggperrors.UnknownGameError{GameID: gameID}
	}
	return rec, nil
}

// Roles returns the game's canonical role order, computing and caching
// it on first use.
func (e *Engine) Roles(ctx context.Context, gameID string) ([]term.Term, error) {
	e.cacheMu.RLock()
	if roles, ok := e.roles[gameID]; ok {
		e.cacheMu.RUnlock()
		return roles, nil
	}
	e.cacheMu.RUnlock()

	rec, err := e.snapshot(gameID)
	if err != nil {
		return nil, err
	}
	roles, err := transition.Roles(ctx, rec)
	if err != nil {
		return nil, err
	}

	e.cacheMu.Lock()
	e.roles[gameID] = roles
	e.cacheMu.Unlock()
	return roles, nil
}

// GameState answers query against (truth, moves) in gameID, returning
// a lazy cursor over the answer bindings (spec.md §6's game_state).
// The caller owns the cursor and must Close it.
func (e *Engine) GameState(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector, query term.Term) (*resolve.Cursor, error) {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return nil, err
	}
	rewritten, frame, ok := resolve.PrepareQuery(rec, query, term.Atom(gameID), truth.ToTerm(), moves.ToTerm(), term.EmptyFrame)
	if !ok {
		return nil, &ggperrors.MalformedClauseError{Clause: query, Reason: "query could not be prepared"}
	}
	return resolve.Solve(ctx, rec, rewritten, frame), nil
}

// PrepareMoves reorders unordered moves into canonical role order
// (spec.md §6's prepare_moves).
func (e *Engine) PrepareMoves(ctx context.Context, gameID string, unordered []term.Term) (state.MoveVector, error) {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return nil, err
	}
	return transition.PrepareMoves(ctx, rec, gameID, unordered)
}

// LegalPreparedMoves verifies every move in moves is legal against
// truth (spec.md §6's legal_prepared_moves).
func (e *Engine) LegalPreparedMoves(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector) error {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return err
	}
	return transition.CheckLegal(ctx, rec, gameID, truth, moves)
}

// GameTruthState returns the truth state reached after moveHistory
// (the initial state when empty), spec.md §6's game_truth_state.
func (e *Engine) GameTruthState(ctx context.Context, gameID string, moveHistory []state.MoveVector) (state.TruthState, error) {
	history, err := e.TruthHistory(ctx, gameID, moveHistory, nil)
	if err != nil {
		return state.TruthState{}, err
	}
	return history.Current(), nil
}

// TruthHistory builds the truth history for moveHistory, reusing
// cached where the positional cache-reuse rule allows (spec.md §6's
// truth_history, §4.7). opts is forwarded to transition.BuildHistory,
// e.g. transition.WithCollector to instrument cache-reuse.
func (e *Engine) TruthHistory(ctx context.Context, gameID string, moveHistory []state.MoveVector, cached state.History, opts ...transition.HistoryOption) (state.History, error) {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return nil, err
	}
	initial, err := transition.InitialState(ctx, rec)
	if err != nil {
		return nil, err
	}
	return transition.BuildHistory(ctx, rec, gameID, initial, moveHistory, cached, opts...)
}

// FinalTruthState returns the newest truth state in a history (spec.md
// §6's final_truth_state).
func FinalTruthState(h state.History) state.TruthState {
	return h.Current()
}

// MoveHistoryGameState answers query against the state reached after
// moveHistory (spec.md §6's move_history_game_state).
func (e *Engine) MoveHistoryGameState(ctx context.Context, gameID string, moveHistory []state.MoveVector, query term.Term) (*resolve.Cursor, error) {
	history, err := e.TruthHistory(ctx, gameID, moveHistory, nil)
	if err != nil {
		return nil, err
	}
	var moves state.MoveVector
	if len(moveHistory) > 0 {
		moves = moveHistory[len(moveHistory)-1]
	}
	return e.GameState(ctx, gameID, history.Current(), moves, query)
}

// BaseProps returns every base proposition the rule-set declares via
// base/1 (supplemented from original_source/ggp/gamestate.py's
// base_propositions()).
func (e *Engine) BaseProps(ctx context.Context, gameID string) ([]term.Term, error) {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return nil, err
	}
	x := term.NewVar("X")
	answers, err := resolve.All(ctx, rec, term.Comp("base", x), term.EmptyFrame)
	if err != nil {
		return nil, err
	}
	out := make([]term.Term, len(answers))
	for i, a := range answers {
		out[i] = a.Resolve(x)
	}
	return out, nil
}

// AllActions returns every action role might ever take, as declared by
// input(Role, Action), independent of legality in any particular state
// (supplemented from original_source/ggp/gamestate.py's all_actions()).
func (e *Engine) AllActions(ctx context.Context, gameID string, role term.Term) ([]term.Term, error) {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return nil, err
	}
	x := term.NewVar("Action")
	answers, err := resolve.All(ctx, rec, term.Comp("input", role, x), term.EmptyFrame)
	if err != nil {
		return nil, err
	}
	out := make([]term.Term, len(answers))
	for i, a := range answers {
		out[i] = a.Resolve(x)
	}
	return out, nil
}

// IsTerminal reports whether terminal/0 is provable at (truth, moves),
// supplemented from original_source/ggp/gamestate.py's is_terminal().
func (e *Engine) IsTerminal(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector) (bool, error) {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return false, err
	}
	return transition.IsTerminal(ctx, rec, gameID, truth, moves)
}

// Goal returns role's utility in (truth, moves), requiring exactly one
// answer (supplemented from original_source/ggp/gamestate.py's
// utility(), the "exactly one goal value per role" invariant of
// well-formed GDL).
func (e *Engine) Goal(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector, role term.Term) (term.Term, error) {
	rec, err := e.snapshot(gameID)
	if err != nil {
		return nil, err
	}
	u := term.NewVar("Utility")
	rewritten, frame, ok := resolve.PrepareQuery(rec, term.Comp("goal", role, u), term.Atom(gameID), truth.ToTerm(), moves.ToTerm(), term.EmptyFrame)
	if !ok {
		return nil, &ggperrors.UnknownGameError{GameID: gameID}
	}
	answers, err := resolve.All(ctx, rec, rewritten, frame)
	if err != nil {
		return nil, err
	}
	if len(answers) != 1 {
		return nil, &ggperrors.AmbiguousGoalError{GameID: gameID, Role: role, Count: len(answers)}
	}
	return answers[0].Resolve(u), nil
}

