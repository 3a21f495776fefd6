package concurrent

import (
	"context"
	"testing"

	"ggpengine/clause"
	"ggpengine/engine"
	"ggpengine/state"
	"ggpengine/term"

	"github.com/stretchr/testify/require"
)

func countToTwoRules() clause.RuleSet {
	return clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("counter"))),
		clause.Fact(term.Comp("init", term.Comp("count", term.Int(1)))),
		clause.Rule(
			term.Comp("legal", term.Atom("counter"), term.Comp("countto", term.Int(2))),
			term.Comp("true", term.Comp("count", term.Int(1))),
		),
	}
}

func TestQueryPoolRunsIndependentQueriesConcurrently(t *testing.T) {
	e := engine.New()
	require.NoError(t, e.CreateGame("g1", countToTwoRules()))
	require.NoError(t, e.CreateGame("g2", countToTwoRules()))
	ctx := context.Background()

	truth1, err := e.GameTruthState(ctx, "g1", nil)
	require.NoError(t, err)
	truth2, err := e.GameTruthState(ctx, "g2", nil)
	require.NoError(t, err)

	action := term.NewVar("Action")
	queries := []Query{
		{GameID: "g1", Truth: truth1, Goal: term.Comp("legal", term.Atom("counter"), action)},
		{GameID: "g2", Truth: truth2, Goal: term.Comp("legal", term.Atom("counter"), action)},
		{GameID: "nope", Truth: state.TruthState{}, Goal: term.Atom("terminal")},
	}

	pool := NewQueryPool(e, WithGoroutines(2))
	results := pool.Run(ctx, queries)

	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Answers, 1)
	require.NoError(t, results[1].Err)
	require.Len(t, results[1].Answers, 1)
	require.Error(t, results[2].Err)
}
