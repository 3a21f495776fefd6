package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"

	"ggpengine/clause"
	"ggpengine/engine"
	"ggpengine/games"
	"ggpengine/state"
	"ggpengine/term"

	"github.com/stretchr/testify/require"
)

func TestWireTermRoundTripsGroundAndVariableTerms(t *testing.T) {
	x := term.NewVar("X")
	original := term.Comp("does", term.Atom("counter"), term.Comp("countto", x))

	seen := make(map[*term.Var]string)
	wire := ToWireVars(original, seen)

	vars := make(map[string]*term.Var)
	back := FromWire(wire, vars)

	require.Equal(t, "does(counter, countto(X))", back.String())
}

func TestWireClauseRoundTripSharesVariablesBetweenHeadAndBody(t *testing.T) {
	x := term.NewVar("X")
	c := clause.Rule(
		term.Comp("goal", term.Atom("counter"), term.Int(0)),
		clause.And(term.Comp("true", term.Comp("count", x)), term.Comp("distinct", x, term.Int(2))),
	)
	wire := ToWireClause(c)
	back := FromWireClause(wire)

	require.Equal(t, c.Head.String(), back.Head.String())
	require.Equal(t, c.Body.String(), back.Body.String())
}

func newTestServer(t *testing.T) (*Client, func()) {
	t.Helper()
	e := engine.New()
	require.NoError(t, e.CreateGame("count", games.CountToTwo()))
	require.NoError(t, e.CreateGame("ttt", games.TicTacToe()))

	srv := httptest.NewServer(NewServer(e))
	client := NewClient(srv.URL)
	return client, srv.Close
}

func TestClientDrivesCountToTwoOverHTTP(t *testing.T) {
	ctx := context.Background()
	client, closeServer := newTestServer(t)
	defer closeServer()

	exists, err := client.GameExists(ctx, "count")
	require.NoError(t, err)
	require.True(t, exists)

	truth, err := client.GameTruthState(ctx, "count", nil)
	require.NoError(t, err)
	require.True(t, truth.Contains(term.Comp("count", term.Int(1))))

	terminal, err := client.IsTerminal(ctx, "count", truth, nil)
	require.NoError(t, err)
	require.False(t, terminal)

	moves := state.MoveVector{term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2)))}
	require.NoError(t, client.LegalPreparedMoves(ctx, "count", truth, moves))

	final, err := client.GameTruthState(ctx, "count", []state.MoveVector{moves})
	require.NoError(t, err)
	terminal, err = client.IsTerminal(ctx, "count", final, moves)
	require.NoError(t, err)
	require.True(t, terminal)

	goal, err := client.Goal(ctx, "count", final, moves, term.Atom("counter"))
	require.NoError(t, err)
	require.Equal(t, term.Int(100), goal)
}

func TestClientGameStateReturnsBindingsOverHTTP(t *testing.T) {
	ctx := context.Background()
	client, closeServer := newTestServer(t)
	defer closeServer()

	truth, err := client.GameTruthState(ctx, "ttt", nil)
	require.NoError(t, err)

	action := term.NewVar("Action")
	answers, err := client.GameState(ctx, "ttt", truth, nil, term.Comp("legal", term.Atom("black"), action))
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.Equal(t, term.Atom("noop"), answers[0]["Action"])
}

func TestClientRolesAndPrepareMovesOverHTTP(t *testing.T) {
	ctx := context.Background()
	client, closeServer := newTestServer(t)
	defer closeServer()

	roles, err := client.Roles(ctx, "ttt")
	require.NoError(t, err)
	require.Equal(t, []term.Term{term.Atom("white"), term.Atom("black")}, roles)

	unordered := []term.Term{
		term.Comp("does", term.Atom("black"), term.Atom("noop")),
		term.Comp("does", term.Atom("white"), term.Comp("mark", term.Int(1), term.Int(1))),
	}
	prepared, err := client.PrepareMoves(ctx, "ttt", unordered)
	require.NoError(t, err)
	require.Equal(t, state.MoveVector{
		term.Comp("does", term.Atom("white"), term.Comp("mark", term.Int(1), term.Int(1))),
		term.Comp("does", term.Atom("black"), term.Atom("noop")),
	}, prepared)
}

func TestClientTruthHistoryAndMoveHistoryGameStateOverHTTP(t *testing.T) {
	ctx := context.Background()
	client, closeServer := newTestServer(t)
	defer closeServer()

	moves := []state.MoveVector{{term.Comp("does", term.Atom("counter"), term.Comp("countto", term.Int(2)))}}

	history, err := client.TruthHistory(ctx, "count", moves)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.True(t, history.Current().Contains(term.Comp("count", term.Int(2))))
	require.True(t, history[len(history)-1].Truth.Contains(term.Comp("count", term.Int(1))))

	goalVar := term.NewVar("N")
	answers, err := client.MoveHistoryGameState(ctx, "count", moves, term.Comp("goal", term.Atom("counter"), goalVar))
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.Equal(t, term.Int(100), answers[0]["N"])
}

func TestClientUnknownGameReturnsError(t *testing.T) {
	ctx := context.Background()
	client, closeServer := newTestServer(t)
	defer closeServer()

	_, err := client.Roles(ctx, "nope")
	require.Error(t, err)
}
