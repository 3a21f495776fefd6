package transition

import (
	"context"
	"testing"

	"ggpengine/clause"
	"ggpengine/db"
	"ggpengine/deps"
	"ggpengine/metrics"
	"ggpengine/rewrite"
	"ggpengine/state"
	"ggpengine/term"

	"github.com/stretchr/testify/require"
)

// countToTwo builds the S1 scenario from the spec's worked examples.
func countToTwo(t *testing.T) *db.GameRecord {
	t.Helper()
	x := term.NewVar("X")
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("counter"))),
		clause.Fact(term.Comp("init", term.Comp("count", term.Int(1)))),
		clause.Rule(
			term.Comp("legal", term.Atom("counter"), term.Comp("countto", term.Int(2))),
			term.Comp("true", term.Comp("count", term.Int(1))),
		),
		clause.Rule(
			term.Comp("next", term.Comp("count", term.Int(2))),
			clause.And(
				term.Comp("true", term.Comp("count", term.Int(1))),
				term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2))),
			),
		),
		clause.Rule(term.Atom("terminal"), term.Comp("true", term.Comp("count", term.Int(2)))),
		clause.Rule(
			term.Comp("goal", term.Atom("counter"), term.Int(100)),
			term.Comp("true", term.Comp("count", term.Int(2))),
		),
		clause.Rule(
			term.Comp("goal", term.Atom("counter"), term.Int(0)),
			clause.And(
				term.Comp("true", term.Comp("count", x)),
				term.Comp("distinct", x, term.Int(2)),
			),
		),
	}
	sdp := deps.Compute(rules)
	rewritten := rewrite.RuleSet(rules, sdp)
	return db.NewGameRecord("count-to-2", sdp, rewritten)
}

func TestInitialStateAndRoles(t *testing.T) {
	rec := countToTwo(t)
	roles, err := Roles(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, []term.Term{term.Atom("counter")}, roles)

	initial, err := InitialState(context.Background(), rec)
	require.NoError(t, err)
	require.True(t, initial.Contains(term.Comp("count", term.Int(1))))
	require.Equal(t, 1, initial.Len())
}

func TestSuccessorAppliesLegalMoveAndReachesTerminal(t *testing.T) {
	rec := countToTwo(t)
	initial, err := InitialState(context.Background(), rec)
	require.NoError(t, err)

	moves := state.MoveVector{term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2)))}
	next, err := Successor(context.Background(), rec, "count-to-2", initial, moves)
	require.NoError(t, err)
	require.True(t, next.Contains(term.Comp("count", term.Int(2))))

	terminal, err := IsTerminal(context.Background(), rec, "count-to-2", next, moves)
	require.NoError(t, err)
	require.True(t, terminal)

	notTerminal, err := IsTerminal(context.Background(), rec, "count-to-2", initial, moves)
	require.NoError(t, err)
	require.False(t, notTerminal)
}

func TestSuccessorRejectsIllegalMove(t *testing.T) {
	rec := countToTwo(t)
	initial, err := InitialState(context.Background(), rec)
	require.NoError(t, err)

	moves := state.MoveVector{term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(99)))}
	_, err = Successor(context.Background(), rec, "count-to-2", initial, moves)
	require.Error(t, err)
}

func TestPrepareMovesCanonicalizesRoleOrderAndRejectsMismatch(t *testing.T) {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("white"))),
		clause.Fact(term.Comp("role", term.Atom("black"))),
	}
	sdp := deps.Compute(rules)
	rec := db.NewGameRecord("g", sdp, rewrite.RuleSet(rules, sdp))

	unordered := []term.Term{
		term.Comp("does", term.Atom("black"), term.Atom("noop")),
		term.Comp("does", term.Atom("white"), term.Comp("mark", term.Int(1), term.Int(1))),
	}
	prepared, err := PrepareMoves(context.Background(), rec, "g", unordered)
	require.NoError(t, err)
	require.Equal(t, state.MoveVector{
		term.Comp("does", term.Atom("white"), term.Comp("mark", term.Int(1), term.Int(1))),
		term.Comp("does", term.Atom("black"), term.Atom("noop")),
	}, prepared)

	_, err = PrepareMoves(context.Background(), rec, "g", unordered[:1])
	require.Error(t, err)
}

func TestBuildHistoryReusesCachedPrefix(t *testing.T) {
	rec := countToTwo(t)
	initial, err := InitialState(context.Background(), rec)
	require.NoError(t, err)

	m1 := state.MoveVector{term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2)))}

	full, err := BuildHistory(context.Background(), rec, "count-to-2", initial, []state.MoveVector{m1}, nil)
	require.NoError(t, err)
	require.Len(t, full, 2)
	require.True(t, full.Current().Contains(term.Comp("count", term.Int(2))))

	// Rebuild the same one-move history using itself as cache: no move
	// differs, so every entry should be reused positionally.
	rebuilt, err := BuildHistory(context.Background(), rec, "count-to-2", initial, []state.MoveVector{m1}, full)
	require.NoError(t, err)
	require.Equal(t, full, rebuilt)
}

func TestBuildHistoryReuseMakesZeroDerivations(t *testing.T) {
	rec := countToTwo(t)
	initial, err := InitialState(context.Background(), rec)
	require.NoError(t, err)

	m1 := state.MoveVector{term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2)))}

	build := metrics.NewCollector()
	build.Start()
	full, err := BuildHistory(context.Background(), rec, "count-to-2", initial, []state.MoveVector{m1}, nil, WithCollector(build))
	require.NoError(t, err)
	require.Equal(t, 1, build.Complete().Derivations)

	reuse := metrics.NewCollector()
	reuse.Start()
	rebuilt, err := BuildHistory(context.Background(), rec, "count-to-2", initial, []state.MoveVector{m1}, full, WithCollector(reuse))
	require.NoError(t, err)
	require.Equal(t, full, rebuilt)
	got := reuse.Complete()
	require.Equal(t, 0, got.Derivations)
	require.Equal(t, 1, got.CacheHits)
}
