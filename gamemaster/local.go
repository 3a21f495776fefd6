package gamemaster

import (
	"context"
	"fmt"

	"ggpengine/engine"
	"ggpengine/state"
	"ggpengine/term"
)

// LiveGame drives one game turn-by-turn under external control: a
// caller supplies each turn's moves via Play instead of a Policy
// choosing them automatically. It generalizes localEngine's
// Init/Play/update-channel shape (Init returns the initial state plus
// an update getter, Play validates and applies one move, the update
// channel closes when the game ends) from a single mutable
// *game.GameState to Engine's stateless truth-state operations.
type LiveGame struct {
	engine      *engine.Engine
	gameID      string
	roles       []term.Term
	history     state.History
	moveHistory []state.MoveVector
	updates     chan state.HistoryEntry
	done        bool
}

// NewLiveGame starts a session over gameID, publishing the initial
// state as the first update. updateBuffer sizes the channel a
// spectator reads from; values below 1 are raised to 1, since the
// initial state is sent on the channel before NewLiveGame returns.
func NewLiveGame(ctx context.Context, e *engine.Engine, gameID string, updateBuffer int) (*LiveGame, error) {
	if updateBuffer < 1 {
		updateBuffer = 1
	}
	roles, err := e.Roles(ctx, gameID)
	if err != nil {
		return nil, err
	}
	history, err := e.TruthHistory(ctx, gameID, nil, nil)
	if err != nil {
		return nil, err
	}

	lg := &LiveGame{
		engine:  e,
		gameID:  gameID,
		roles:   roles,
		history: history,
		updates: make(chan state.HistoryEntry, updateBuffer),
	}
	lg.updates <- history[0]
	return lg, nil
}

// Updates returns the channel LiveGame publishes each turn's
// HistoryEntry on. It is closed once the game reaches terminal.
func (lg *LiveGame) Updates() <-chan state.HistoryEntry {
	return lg.updates
}

// State returns the truth state as of the last completed turn.
func (lg *LiveGame) State() state.TruthState {
	return lg.history.Current()
}

// Roles returns the game's canonical role order.
func (lg *LiveGame) Roles() []term.Term {
	return lg.roles
}

// Play validates unordered against the current state, applies it, and
// publishes the resulting HistoryEntry. It refuses moves once the game
// is over, mirroring localEngine.Play's "game is over - no moves
// allowed" guard.
func (lg *LiveGame) Play(ctx context.Context, unordered []term.Term) error {
	if lg.done {
		return fmt.Errorf("gamemaster: game %s is over, no moves allowed", lg.gameID)
	}

	prepared, err := lg.engine.PrepareMoves(ctx, lg.gameID, unordered)
	if err != nil {
		return err
	}
	if err := lg.engine.LegalPreparedMoves(ctx, lg.gameID, lg.State(), prepared); err != nil {
		return err
	}

	moveHistory := append(append([]state.MoveVector{}, lg.moveHistory...), prepared)
	history, err := lg.engine.TruthHistory(ctx, lg.gameID, moveHistory, lg.history)
	if err != nil {
		return err
	}

	terminal, err := lg.engine.IsTerminal(ctx, lg.gameID, history.Current(), prepared)
	if err != nil {
		return err
	}

	lg.moveHistory = moveHistory
	lg.history = history

	if terminal {
		lg.done = true
		lg.updates <- history[0]
		close(lg.updates)
	} else {
		lg.updates <- history[0]
	}
	return nil
}

// Done reports whether the game has reached a terminal state.
func (lg *LiveGame) Done() bool {
	return lg.done
}
