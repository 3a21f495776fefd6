package resolve

import (
	"context"
	"testing"

	"ggpengine/clause"
	"ggpengine/db"
	"ggpengine/deps"
	"ggpengine/rewrite"
	"ggpengine/term"

	"github.com/stretchr/testify/require"
)

func newRecord(t *testing.T, rules clause.RuleSet) *db.GameRecord {
	t.Helper()
	sdp := deps.Compute(rules)
	rewritten := rewrite.RuleSet(rules, sdp)
	return db.NewGameRecord("g1", sdp, rewritten)
}

func TestSolveOrdinaryClauseBacktracksOverAlternatives(t *testing.T) {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("white"))),
		clause.Fact(term.Comp("role", term.Atom("black"))),
	}
	rec := newRecord(t, rules)

	x := term.NewVar("X")
	answers, err := All(context.Background(), rec, term.Comp("role", x), term.EmptyFrame)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	require.Equal(t, term.Atom("white"), answers[0].Resolve(x))
	require.Equal(t, term.Atom("black"), answers[1].Resolve(x))
}

func TestSolveStateDependentPredicateAgainstThreadedTruthAndMoves(t *testing.T) {
	// legal(counter, countto(N)) :- true(count(N)).
	// next(count(N2))          :- true(count(N)), does(counter,countto(N2)).
	n := term.NewVar("N")
	n2 := term.NewVar("N2")
	rules := clause.RuleSet{
		clause.Rule(
			term.Comp("legal", term.Atom("counter"), term.Comp("countto", n)),
			term.Comp("true", term.Comp("count", n)),
		),
		clause.Rule(
			term.Comp("next", term.Comp("count", n2)),
			clause.And(
				term.Comp("true", term.Comp("count", n)),
				term.Comp("does", term.Atom("counter"), term.Comp("countto", n2)),
			),
		),
	}
	rec := newRecord(t, rules)

	truth := term.FromSlice([]term.Term{term.Comp("count", term.Int(1))})
	moves := term.FromSlice([]term.Term{term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2)))})

	action := term.NewVar("Action")
	goal := term.Comp("legal", term.Atom("counter"), action)
	rewritten, frame, ok := PrepareQuery(rec, goal, term.Atom("g1"), truth, moves, term.EmptyFrame)
	require.True(t, ok)

	answers, err := All(context.Background(), rec, rewritten, frame)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.Equal(t, term.Comp("countto", term.Int(1)), answers[0].Resolve(action))

	// next/1 exercises the does/2 -> member(Moves) rewrite too.
	nextState := term.NewVar("S")
	nextGoal := term.Comp("next", nextState)
	rewrittenNext, frameNext, ok := PrepareQuery(rec, nextGoal, term.Atom("g1"), truth, moves, term.EmptyFrame)
	require.True(t, ok)
	nextAnswers, err := All(context.Background(), rec, rewrittenNext, frameNext)
	require.NoError(t, err)
	require.Len(t, nextAnswers, 1)
	require.Equal(t, term.Comp("count", term.Int(2)), nextAnswers[0].Resolve(nextState))
}

func TestSolveNotSucceedsOnGroundFailure(t *testing.T) {
	rules := clause.RuleSet{clause.Fact(term.Comp("role", term.Atom("white")))}
	rec := newRecord(t, rules)

	goal := clause.Not(term.Comp("role", term.Atom("black")))
	f, ok, err := One(context.Background(), rec, goal, term.EmptyFrame)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, f)
}

func TestSolveNotFailsOnGroundSuccess(t *testing.T) {
	rules := clause.RuleSet{clause.Fact(term.Comp("role", term.Atom("white")))}
	rec := newRecord(t, rules)

	goal := clause.Not(term.Comp("role", term.Atom("white")))
	_, ok, err := One(context.Background(), rec, goal, term.EmptyFrame)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSolveNotReportsUnboundVariable(t *testing.T) {
	rec := newRecord(t, nil)
	x := term.NewVar("X")
	goal := clause.Not(term.Comp("role", x))
	_, ok, err := One(context.Background(), rec, goal, term.EmptyFrame)
	require.False(t, ok)
	require.Error(t, err)
}

func TestSolveDistinctRequiresGroundArgumentsAndReportsOtherwise(t *testing.T) {
	rec := newRecord(t, nil)

	_, ok, err := One(context.Background(), rec, term.Comp("distinct", term.Int(1), term.Int(2)), term.EmptyFrame)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = One(context.Background(), rec, term.Comp("distinct", term.Int(1), term.Int(1)), term.EmptyFrame)
	require.NoError(t, err)
	require.False(t, ok)

	x := term.NewVar("X")
	_, ok, err = One(context.Background(), rec, term.Comp("distinct", x, term.Int(1)), term.EmptyFrame)
	require.False(t, ok)
	require.Error(t, err)
}

func TestSolveOrBuiltinTriesBothBranches(t *testing.T) {
	rec := newRecord(t, nil)
	orGoal := clause.Or(term.Atom("fail"), term.Atom("true"))
	_, ok, err := One(context.Background(), rec, orGoal, term.EmptyFrame)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSolveOrFallsBackToUserClausesWhenDefined(t *testing.T) {
	a := term.NewVar("A")
	rules := clause.RuleSet{
		clause.Rule(term.Comp("or", a, term.NewVar("_1")), a),
	}
	rec := newRecord(t, rules)

	goal := term.Comp("or", term.Atom("true"), term.Atom("fail"))
	_, ok, err := One(context.Background(), rec, goal, term.EmptyFrame)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSolveFindallCollectsAllTemplatesAndSucceedsEmpty(t *testing.T) {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("white"))),
		clause.Fact(term.Comp("role", term.Atom("black"))),
	}
	rec := newRecord(t, rules)

	x := term.NewVar("X")
	bag := term.NewVar("Bag")
	goal := term.Comp("findall", x, term.Comp("role", x), bag)
	f, ok, err := One(context.Background(), rec, goal, term.EmptyFrame)
	require.NoError(t, err)
	require.True(t, ok)
	items, ok := term.ToSlice(f.Resolve(bag))
	require.True(t, ok)
	require.Len(t, items, 2)

	emptyGoal := term.Comp("findall", x, term.Comp("role", term.Atom("nobody")), bag)
	f, ok, err = One(context.Background(), rec, emptyGoal, term.EmptyFrame)
	require.NoError(t, err)
	require.True(t, ok)
	items, ok = term.ToSlice(f.Resolve(bag))
	require.True(t, ok)
	require.Empty(t, items)
}

func TestSolveBagofFailsOnNoSolutions(t *testing.T) {
	rec := newRecord(t, nil)
	x, bag := term.NewVar("X"), term.NewVar("Bag")
	goal := term.Comp("bagof", x, term.Comp("role", x), bag)
	_, ok, err := One(context.Background(), rec, goal, term.EmptyFrame)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSolveSetofDeduplicatesAndSorts(t *testing.T) {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("owns", term.Atom("b"))),
		clause.Fact(term.Comp("owns", term.Atom("a"))),
		clause.Fact(term.Comp("owns", term.Atom("a"))),
	}
	rec := newRecord(t, rules)
	x, bag := term.NewVar("X"), term.NewVar("Bag")
	goal := term.Comp("setof", x, term.Comp("owns", x), bag)
	f, ok, err := One(context.Background(), rec, goal, term.EmptyFrame)
	require.NoError(t, err)
	require.True(t, ok)
	items, ok := term.ToSlice(f.Resolve(bag))
	require.True(t, ok)
	require.Equal(t, []term.Term{term.Atom("a"), term.Atom("b")}, items)
}

func TestCursorCloseStopsSearchWithoutBlocking(t *testing.T) {
	rules := clause.RuleSet{
		clause.Fact(term.Comp("role", term.Atom("white"))),
		clause.Fact(term.Comp("role", term.Atom("black"))),
	}
	rec := newRecord(t, rules)
	c := Solve(context.Background(), rec, term.Comp("role", term.NewVar("X")), term.EmptyFrame)
	_, ok := c.Next()
	require.True(t, ok)
	c.Close()
}
