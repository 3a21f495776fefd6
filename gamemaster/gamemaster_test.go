package gamemaster

import (
	"context"
	"testing"

	"ggpengine/clause"
	"ggpengine/engine"
	"ggpengine/metrics"
	"ggpengine/state"
	"ggpengine/term"

	"github.com/stretchr/testify/require"
)

// singleMovePolicy always returns the given move regardless of role or
// the legal set, used to drive a deterministic playout in tests.
type singleMovePolicy struct {
	move term.Term
}

func (p singleMovePolicy) SelectMove(role term.Term, legal []term.Term) (term.Term, error) {
	return p.move, nil
}

func TestPlayGameDrivesCountToTwoToTermination(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.CreateGame("g1", countToTwoRules()))

	gm := New(e, singleMovePolicy{move: term.Comp("countto", term.Int(2))})
	spectate := make(chan state.HistoryEntry, 8)

	history, err := gm.PlayGame(context.Background(), "g1", 10, spectate)
	require.NoError(t, err)
	require.True(t, history.Current().Contains(term.Comp("count", term.Int(2))))

	var seen []state.HistoryEntry
	for entry := range spectate {
		seen = append(seen, entry)
	}
	require.Len(t, seen, 2) // initial state, then the one turn to terminal
}

func TestPlayGameReturnsErrorWhenProposedMoveIsIllegal(t *testing.T) {
	e := engine.New()
	// No legal/2 clause is installed at all, so whatever singleMovePolicy
	// proposes fails LegalPreparedMoves and PlayGame returns an error
	// instead of looping forever.
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("counter"))),
		clause.Fact(term.Comp("init", term.Atom("start"))),
	}
	require.NoError(t, e.CreateGame("g2", rules))

	gm := New(e, singleMovePolicy{move: term.Atom("noop")})
	_, err := gm.PlayGame(context.Background(), "g2", 3, nil)
	require.Error(t, err) // no legal/2 clauses at all: legalActionsForRole yields none
}

func TestPlayGameWithMetricsRecordsOneTurnMetricAndAPlayoutSummary(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.CreateGame("g1", countToTwoRules()))

	gm := New(e, singleMovePolicy{move: term.Comp("countto", term.Int(2))})
	gm.Metrics = metrics.NewCollector()

	history, err := gm.PlayGame(context.Background(), "g1", 10, nil)
	require.NoError(t, err)
	require.True(t, history.Current().Contains(term.Comp("count", term.Int(2))))

	require.Len(t, gm.TurnMetrics, 1)
	require.Equal(t, 0, gm.TurnMetrics[0].Turn)

	require.Equal(t, "g1", gm.PlayoutMetric.GameID)
	require.True(t, gm.PlayoutMetric.Terminal)
	require.Equal(t, 1, gm.PlayoutMetric.Turns)
	require.False(t, gm.PlayoutMetric.EndTime.Before(gm.PlayoutMetric.StartTime))
}

func TestRandomPolicyPicksAmongLegalMoves(t *testing.T) {
	p := NewRandomPolicy(42)
	legal := []term.Term{term.Atom("a"), term.Atom("b"), term.Atom("c")}
	move, err := p.SelectMove(term.Atom("role"), legal)
	require.NoError(t, err)
	require.Contains(t, legal, move)

	_, err = p.SelectMove(term.Atom("role"), nil)
	require.Error(t, err)
}
