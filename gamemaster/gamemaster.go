// Package gamemaster drives a game installed in an *engine.Engine from
// its initial state to termination, generalizing
// christopherWilliams98-risk-agent/gamemaster.go's game-loop shape
// (fetch state, check game over, apply a move, publish the new state)
// from Risk's board-state mutation to repeated calls against Engine's
// stateless truth-state operations.
package gamemaster

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"ggpengine/engine"
	"ggpengine/metrics"
	"ggpengine/state"
	"ggpengine/term"
	"ggpengine/transition"
)

// Policy chooses the move a role makes at a truth state, given the
// actions that are actually legal there. legal is never empty: a role
// with no legal move is a malformed game, not something Policy decides.
type Policy interface {
	SelectMove(role term.Term, legal []term.Term) (term.Term, error)
}

// RandomPolicy picks uniformly among the legal actions for each role,
// the same playout policy searcher/uct.go's rollout step uses to
// advance a search node when no value function is being trained.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a RandomPolicy seeded deterministically, so a
// playout can be replayed exactly by reusing the same seed.
func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) SelectMove(role term.Term, legal []term.Term) (term.Term, error) {
	if len(legal) == 0 {
		return nil, fmt.Errorf("gamemaster: no legal move for role %s", role)
	}
	return legal[p.rng.Intn(len(legal))], nil
}

// GameMaster drives one installed game to completion, asking Policy for
// each role's move on every turn.
//
// Metrics, if set, attributes one TransitionMetric per turn to
// TurnMetrics and a summary to PlayoutMetric once PlayGame returns,
// generalizing experiments/throughput.go's per-episode instrumentation
// from search-tree rollouts to state-transition derivation counts. A
// nil Metrics costs nothing beyond the dummy collector transition
// already substitutes internally.
type GameMaster struct {
	Engine  *engine.Engine
	Policy  Policy
	Metrics metrics.Collector

	TurnMetrics   []metrics.TurnMetric
	PlayoutMetric metrics.PlayoutMetric
}

// New returns a GameMaster driving games in e with the given policy.
func New(e *engine.Engine, policy Policy) *GameMaster {
	return &GameMaster{Engine: e, Policy: policy}
}

// PlayGame drives gameID from its initial state until terminal/0 is
// reached or maxTurns is hit, whichever comes first. On success the
// returned state.History is newest-first, per spec.md §4.7's contract.
//
// If spectate is non-nil, every turn's HistoryEntry is sent on it as it
// is produced and the channel is closed when PlayGame returns, mirroring
// gamemaster/local.go's update-channel-closes-on-game-over idiom.
func (gm *GameMaster) PlayGame(ctx context.Context, gameID string, maxTurns int, spectate chan<- state.HistoryEntry) (state.History, error) {
	if spectate != nil {
		defer close(spectate)
	}

	gm.TurnMetrics = nil
	gm.PlayoutMetric = metrics.PlayoutMetric{GameID: gameID, StartTime: time.Now()}

	roles, err := gm.Engine.Roles(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var moveHistory []state.MoveVector
	history, err := gm.Engine.TruthHistory(ctx, gameID, moveHistory, nil)
	if err != nil {
		return nil, err
	}
	if spectate != nil {
		spectate <- history[0]
	}

	for turn := 0; turn < maxTurns; turn++ {
		truth := history.Current()
		var lastMoves state.MoveVector
		if len(moveHistory) > 0 {
			lastMoves = moveHistory[len(moveHistory)-1]
		}

		terminal, err := gm.Engine.IsTerminal(ctx, gameID, truth, lastMoves)
		if err != nil {
			return nil, err
		}
		if terminal {
			log.Info().Str("game", gameID).Int("turn", turn).Msg("game reached terminal state")
			gm.finishPlayout(turn, true)
			return history, nil
		}

		unordered := make([]term.Term, 0, len(roles))
		for _, role := range roles {
			legal, err := gm.legalActionsForRole(ctx, gameID, truth, lastMoves, role)
			if err != nil {
				return nil, err
			}
			move, err := gm.Policy.SelectMove(role, legal)
			if err != nil {
				return nil, err
			}
			unordered = append(unordered, term.Comp("does", role, move))
		}

		prepared, err := gm.Engine.PrepareMoves(ctx, gameID, unordered)
		if err != nil {
			return nil, err
		}
		if err := gm.Engine.LegalPreparedMoves(ctx, gameID, truth, prepared); err != nil {
			return nil, err
		}

		moveHistory = append(moveHistory, prepared)
		history, err = gm.Engine.TruthHistory(ctx, gameID, moveHistory, history, gm.historyOptions()...)
		if err != nil {
			return nil, err
		}
		if gm.Metrics != nil {
			gm.TurnMetrics = append(gm.TurnMetrics, metrics.TurnMetric{Turn: turn, TransitionMetric: gm.Metrics.Complete()})
		}
		log.Info().Str("game", gameID).Int("turn", turn).Str("moves", prepared.ToTerm().String()).Msg("turn played")
		if spectate != nil {
			spectate <- history[0]
		}
	}

	log.Info().Str("game", gameID).Int("maxTurns", maxTurns).Msg("game stopped at turn limit without reaching terminal")
	gm.finishPlayout(maxTurns, false)
	return history, nil
}

// historyOptions attributes this turn's TruthHistory call to gm.Metrics
// when a collector is set, restarting it first so gm.Metrics.Complete
// reports just this turn's derivations rather than a running total.
func (gm *GameMaster) historyOptions() []transition.HistoryOption {
	if gm.Metrics == nil {
		return nil
	}
	gm.Metrics.Start()
	return []transition.HistoryOption{transition.WithCollector(gm.Metrics)}
}

func (gm *GameMaster) finishPlayout(turns int, terminal bool) {
	gm.PlayoutMetric.EndTime = time.Now()
	gm.PlayoutMetric.Duration = gm.PlayoutMetric.EndTime.Sub(gm.PlayoutMetric.StartTime)
	gm.PlayoutMetric.Turns = turns
	gm.PlayoutMetric.Terminal = terminal
}

func (gm *GameMaster) legalActionsForRole(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector, role term.Term) ([]term.Term, error) {
	action := term.NewVar("Action")
	cursor, err := gm.Engine.GameState(ctx, gameID, truth, moves, term.Comp("legal", role, action))
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var legal []term.Term
	for {
		f, ok := cursor.Next()
		if !ok {
			break
		}
		legal = append(legal, f.Resolve(action))
	}
	return legal, cursor.Err()
}
