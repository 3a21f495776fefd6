package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ggpengine/clause"
	"ggpengine/state"
	"ggpengine/term"
)

// Client is an HTTP client for a Server, one method per engine
// operation, adapted from communication/client's
// ClientCommunicator (a bare base URL plus one http.Get/http.Post per
// endpoint) but returning errors instead of swallowing them into zero
// values.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client targeting a Server listening at baseURL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
		return fmt.Errorf("httpapi: encoding request to %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("httpapi: building request to %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpapi: request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("httpapi: %s returned %d: %s", path, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("httpapi: %s returned status %d", path, resp.StatusCode)
	}
	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("httpapi: decoding response from %s: %w", path, err)
	}
	return nil
}

// CreateGame installs rules under gameID on the remote engine.
func (c *Client) CreateGame(ctx context.Context, gameID string, rules clause.RuleSet) error {
	req := struct {
		GameID string       `json:"game_id"`
		Rules  []WireClause `json:"rules"`
	}{GameID: gameID, Rules: ToWireRuleSet(rules)}
	return c.post(ctx, "/games/create", req, nil)
}

// GameExists reports whether gameID is installed on the remote engine.
func (c *Client) GameExists(ctx context.Context, gameID string) (bool, error) {
	req := struct {
		GameID string `json:"game_id"`
	}{GameID: gameID}
	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := c.post(ctx, "/games/exists", req, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// Roles returns gameID's canonical role order.
func (c *Client) Roles(ctx context.Context, gameID string) ([]term.Term, error) {
	req := struct {
		GameID string `json:"game_id"`
	}{GameID: gameID}
	var resp struct {
		Roles []WireTerm `json:"roles"`
	}
	if err := c.post(ctx, "/games/roles", req, &resp); err != nil {
		return nil, err
	}
	return fromWireTerms(resp.Roles), nil
}

// PrepareMoves reorders unordered into role-order canonical form.
func (c *Client) PrepareMoves(ctx context.Context, gameID string, unordered []term.Term) (state.MoveVector, error) {
	req := struct {
		GameID string     `json:"game_id"`
		Moves  []WireTerm `json:"moves"`
	}{GameID: gameID, Moves: toWireTerms(unordered)}
	var resp struct {
		Moves []WireTerm `json:"moves"`
	}
	if err := c.post(ctx, "/games/prepare-moves", req, &resp); err != nil {
		return nil, err
	}
	return FromWireMoves(resp.Moves), nil
}

// LegalPreparedMoves verifies moves is legal against truth.
func (c *Client) LegalPreparedMoves(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector) error {
	req := struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
	}{GameID: gameID, Truth: ToWireTruth(truth), Moves: ToWireMoves(moves)}
	return c.post(ctx, "/games/legal-prepared-moves", req, nil)
}

// GameTruthState returns the truth state reached after moveHistory.
func (c *Client) GameTruthState(ctx context.Context, gameID string, moveHistory []state.MoveVector) (state.TruthState, error) {
	req := struct {
		GameID      string       `json:"game_id"`
		MoveHistory [][]WireTerm `json:"move_history"`
	}{GameID: gameID, MoveHistory: toWireMoveHistory(moveHistory)}
	var resp struct {
		Truth []WireTerm `json:"truth"`
	}
	if err := c.post(ctx, "/games/truth-state", req, &resp); err != nil {
		return state.TruthState{}, err
	}
	return FromWireTruth(resp.Truth), nil
}

// TruthHistory returns the full newest-first truth history reached by
// applying moveHistory from gameID's initial state. Unlike the
// engine's own TruthHistory, this always derives from scratch: a
// remote client holds no cached prefix to reuse.
func (c *Client) TruthHistory(ctx context.Context, gameID string, moveHistory []state.MoveVector) (state.History, error) {
	req := struct {
		GameID      string       `json:"game_id"`
		MoveHistory [][]WireTerm `json:"move_history"`
	}{GameID: gameID, MoveHistory: toWireMoveHistory(moveHistory)}
	var resp struct {
		History []WireHistoryEntry `json:"history"`
	}
	if err := c.post(ctx, "/games/truth-history", req, &resp); err != nil {
		return nil, err
	}
	return FromWireHistory(resp.History), nil
}

// MoveHistoryGameState answers query against the state reached after
// moveHistory, using its last move vector as the does/2 context.
func (c *Client) MoveHistoryGameState(ctx context.Context, gameID string, moveHistory []state.MoveVector, query term.Term) ([]map[string]term.Term, error) {
	wireQuery := ToWireVars(query, make(map[*term.Var]string))

	req := struct {
		GameID      string       `json:"game_id"`
		MoveHistory [][]WireTerm `json:"move_history"`
		Query       WireTerm     `json:"query"`
	}{GameID: gameID, MoveHistory: toWireMoveHistory(moveHistory), Query: wireQuery}
	var resp struct {
		Answers []WireFrame `json:"answers"`
	}
	if err := c.post(ctx, "/games/move-history-query", req, &resp); err != nil {
		return nil, err
	}

	answers := make([]map[string]term.Term, len(resp.Answers))
	for i, frame := range resp.Answers {
		vars := make(map[string]*term.Var)
		bound := make(map[string]term.Term, len(frame))
		for name, wt := range frame {
			bound[name] = FromWire(wt, vars)
		}
		answers[i] = bound
	}
	return answers, nil
}

// GameState answers query against (truth, moves), returning every
// answer's bindings for query's variables. Unlike the engine's own
// GameState, this collects the full answer set eagerly: HTTP request/
// response has no notion of a lazy cursor.
func (c *Client) GameState(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector, query term.Term) ([]map[string]term.Term, error) {
	wireQuery := ToWireVars(query, make(map[*term.Var]string))

	req := struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
		Query  WireTerm   `json:"query"`
	}{GameID: gameID, Truth: ToWireTruth(truth), Moves: ToWireMoves(moves), Query: wireQuery}
	var resp struct {
		Answers []WireFrame `json:"answers"`
	}
	if err := c.post(ctx, "/games/query", req, &resp); err != nil {
		return nil, err
	}

	answers := make([]map[string]term.Term, len(resp.Answers))
	for i, frame := range resp.Answers {
		vars := make(map[string]*term.Var)
		bound := make(map[string]term.Term, len(frame))
		for name, wt := range frame {
			bound[name] = FromWire(wt, vars)
		}
		answers[i] = bound
	}
	return answers, nil
}

// IsTerminal reports whether terminal/0 holds at (truth, moves).
func (c *Client) IsTerminal(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector) (bool, error) {
	req := struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
	}{GameID: gameID, Truth: ToWireTruth(truth), Moves: ToWireMoves(moves)}
	var resp struct {
		Terminal bool `json:"terminal"`
	}
	if err := c.post(ctx, "/games/terminal", req, &resp); err != nil {
		return false, err
	}
	return resp.Terminal, nil
}

// Goal returns role's utility at (truth, moves).
func (c *Client) Goal(ctx context.Context, gameID string, truth state.TruthState, moves state.MoveVector, role term.Term) (term.Term, error) {
	req := struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
		Role   WireTerm   `json:"role"`
	}{GameID: gameID, Truth: ToWireTruth(truth), Moves: ToWireMoves(moves), Role: ToWire(role)}
	var resp struct {
		Goal WireTerm `json:"goal"`
	}
	if err := c.post(ctx, "/games/goal", req, &resp); err != nil {
		return nil, err
	}
	return FromWire(resp.Goal, make(map[string]*term.Var)), nil
}

// BaseProps returns every base/1 proposition gameID declares.
func (c *Client) BaseProps(ctx context.Context, gameID string) ([]term.Term, error) {
	req := struct {
		GameID string `json:"game_id"`
	}{GameID: gameID}
	var resp struct {
		Props []WireTerm `json:"props"`
	}
	if err := c.post(ctx, "/games/base-props", req, &resp); err != nil {
		return nil, err
	}
	return fromWireTerms(resp.Props), nil
}

// AllActions returns every action role might take, independent of
// legality in any particular state.
func (c *Client) AllActions(ctx context.Context, gameID string, role term.Term) ([]term.Term, error) {
	req := struct {
		GameID string   `json:"game_id"`
		Role   WireTerm `json:"role"`
	}{GameID: gameID, Role: ToWire(role)}
	var resp struct {
		Actions []WireTerm `json:"actions"`
	}
	if err := c.post(ctx, "/games/all-actions", req, &resp); err != nil {
		return nil, err
	}
	return fromWireTerms(resp.Actions), nil
}

func toWireTerms(terms []term.Term) []WireTerm {
	out := make([]WireTerm, len(terms))
	for i, t := range terms {
		out[i] = ToWire(t)
	}
	return out
}

func fromWireTerms(wire []WireTerm) []term.Term {
	out := make([]term.Term, len(wire))
	for i, w := range wire {
		out[i] = FromWire(w, make(map[string]*term.Var))
	}
	return out
}

func toWireMoveHistory(history []state.MoveVector) [][]WireTerm {
	out := make([][]WireTerm, len(history))
	for i, moves := range history {
		out[i] = ToWireMoves(moves)
	}
	return out
}
