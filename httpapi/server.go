package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"ggpengine/engine"
	"ggpengine/ggperrors"
	"ggpengine/state"
	"ggpengine/term"
)

// Server exposes an *engine.Engine over HTTP, one handler per public
// engine operation, adapting communication/server's
// ServerCommunicator (a fixed set of named endpoints backed by a
// shared, mutex-guarded value) from Risk's single-game-state model to
// GDL's per-game-id one.
type Server struct {
	engine *engine.Engine
	mux    *http.ServeMux
}

// NewServer builds a Server routing requests to e.
func NewServer(e *engine.Engine) *Server {
	s := &Server{engine: e, mux: http.NewServeMux()}
	s.mux.HandleFunc("/games/create", s.handleCreateGame)
	s.mux.HandleFunc("/games/exists", s.handleGameExists)
	s.mux.HandleFunc("/games/roles", s.handleRoles)
	s.mux.HandleFunc("/games/prepare-moves", s.handlePrepareMoves)
	s.mux.HandleFunc("/games/legal-prepared-moves", s.handleLegalPreparedMoves)
	s.mux.HandleFunc("/games/truth-state", s.handleGameTruthState)
	s.mux.HandleFunc("/games/query", s.handleGameState)
	s.mux.HandleFunc("/games/terminal", s.handleIsTerminal)
	s.mux.HandleFunc("/games/goal", s.handleGoal)
	s.mux.HandleFunc("/games/base-props", s.handleBaseProps)
	s.mux.HandleFunc("/games/all-actions", s.handleAllActions)
	s.mux.HandleFunc("/games/truth-history", s.handleTruthHistory)
	s.mux.HandleFunc("/games/move-history-query", s.handleMoveHistoryGameState)
	return s
}

// ServeHTTP lets Server plug directly into http.ListenAndServe.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("httpapi: failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Error().Err(err).Int("status", status).Msg("httpapi: request failed")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps the ggperrors taxonomy onto HTTP status codes: a
// missing game is a 404, a malformed request or illegal/mismatched
// move is a 422, anything else is a 500.
func statusFor(err error) int {
	var unknown *ggperrors.UnknownGameError
	if errors.As(err, &unknown) {
		return http.StatusNotFound
	}
	var malformed *ggperrors.MalformedClauseError
	var illegal *ggperrors.IllegalMoveError
	var mismatch *ggperrors.RoleMismatchError
	var unboundNeg *ggperrors.UnboundInNegationError
	var unboundDist *ggperrors.UnboundInDistinctError
	if errors.As(err, &malformed) || errors.As(err, &illegal) || errors.As(err, &mismatch) ||
		errors.As(err, &unboundNeg) || errors.As(err, &unboundDist) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string       `json:"game_id"`
		Rules  []WireClause `json:"rules"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.engine.CreateGame(req.GameID, FromWireRuleSet(req.Rules)); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGameExists(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"game_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Exists bool `json:"exists"`
	}{Exists: s.engine.GameExists(req.GameID)})
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"game_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	roles, err := s.engine.Roles(r.Context(), req.GameID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	out := make([]WireTerm, len(roles))
	for i, role := range roles {
		out[i] = ToWire(role)
	}
	writeJSON(w, http.StatusOK, struct {
		Roles []WireTerm `json:"roles"`
	}{Roles: out})
}

func (s *Server) handlePrepareMoves(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string     `json:"game_id"`
		Moves  []WireTerm `json:"moves"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	unordered := make([]term.Term, len(req.Moves))
	for i, m := range req.Moves {
		unordered[i] = FromWire(m, make(map[string]*term.Var))
	}
	prepared, err := s.engine.PrepareMoves(r.Context(), req.GameID, unordered)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Moves []WireTerm `json:"moves"`
	}{Moves: ToWireMoves(prepared)})
}

func (s *Server) handleLegalPreparedMoves(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	err := s.engine.LegalPreparedMoves(r.Context(), req.GameID, FromWireTruth(req.Truth), FromWireMoves(req.Moves))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGameTruthState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID      string       `json:"game_id"`
		MoveHistory [][]WireTerm `json:"move_history"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	moveHistory := make([]state.MoveVector, len(req.MoveHistory))
	for i, m := range req.MoveHistory {
		moveHistory[i] = FromWireMoves(m)
	}
	truth, err := s.engine.GameTruthState(r.Context(), req.GameID, moveHistory)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Truth []WireTerm `json:"truth"`
	}{Truth: ToWireTruth(truth)})
}

func (s *Server) handleTruthHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID      string       `json:"game_id"`
		MoveHistory [][]WireTerm `json:"move_history"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	moveHistory := make([]state.MoveVector, len(req.MoveHistory))
	for i, m := range req.MoveHistory {
		moveHistory[i] = FromWireMoves(m)
	}
	// No cached prefix crosses the wire: each request derives history
	// from scratch, since a remote client has no standing in-process
	// game record to reuse cache entries against.
	history, err := s.engine.TruthHistory(r.Context(), req.GameID, moveHistory, nil)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		History []WireHistoryEntry `json:"history"`
	}{History: ToWireHistory(history)})
}

func (s *Server) handleMoveHistoryGameState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID      string       `json:"game_id"`
		MoveHistory [][]WireTerm `json:"move_history"`
		Query       WireTerm     `json:"query"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	moveHistory := make([]state.MoveVector, len(req.MoveHistory))
	for i, m := range req.MoveHistory {
		moveHistory[i] = FromWireMoves(m)
	}
	vars := make(map[string]*term.Var)
	query := FromWire(req.Query, vars)

	cursor, err := s.engine.MoveHistoryGameState(r.Context(), req.GameID, moveHistory, query)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	defer cursor.Close()

	answers, err := collectAnswers(cursor, vars)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Answers []WireFrame `json:"answers"`
	}{Answers: answers})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
		Query  WireTerm   `json:"query"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	vars := make(map[string]*term.Var)
	query := FromWire(req.Query, vars)

	cursor, err := s.engine.GameState(r.Context(), req.GameID, FromWireTruth(req.Truth), FromWireMoves(req.Moves), query)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	defer cursor.Close()

	answers, err := collectAnswers(cursor, vars)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Answers []WireFrame `json:"answers"`
	}{Answers: answers})
}

// cursor is the minimal interface collectAnswers needs from
// *resolve.Cursor, so it doesn't have to import resolve just to spell
// the type out.
type cursor interface {
	Next() (*term.Frame, bool)
	Err() error
}

func collectAnswers(c cursor, vars map[string]*term.Var) ([]WireFrame, error) {
	var answers []WireFrame
	for {
		f, ok := c.Next()
		if !ok {
			break
		}
		seen := make(map[*term.Var]string)
		answer := make(WireFrame, len(vars))
		for name, v := range vars {
			answer[name] = ToWireVars(f.Resolve(v), seen)
		}
		answers = append(answers, answer)
	}
	return answers, c.Err()
}

func (s *Server) handleIsTerminal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	terminal, err := s.engine.IsTerminal(r.Context(), req.GameID, FromWireTruth(req.Truth), FromWireMoves(req.Moves))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Terminal bool `json:"terminal"`
	}{Terminal: terminal})
}

func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string     `json:"game_id"`
		Truth  []WireTerm `json:"truth"`
		Moves  []WireTerm `json:"moves"`
		Role   WireTerm   `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	role := FromWire(req.Role, make(map[string]*term.Var))
	goal, err := s.engine.Goal(r.Context(), req.GameID, FromWireTruth(req.Truth), FromWireMoves(req.Moves), role)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Goal WireTerm `json:"goal"`
	}{Goal: ToWire(goal)})
}

func (s *Server) handleBaseProps(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"game_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	props, err := s.engine.BaseProps(r.Context(), req.GameID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	out := make([]WireTerm, len(props))
	for i, p := range props {
		out[i] = ToWire(p)
	}
	writeJSON(w, http.StatusOK, struct {
		Props []WireTerm `json:"props"`
	}{Props: out})
}

func (s *Server) handleAllActions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string   `json:"game_id"`
		Role   WireTerm `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	role := FromWire(req.Role, make(map[string]*term.Var))
	actions, err := s.engine.AllActions(r.Context(), req.GameID, role)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	out := make([]WireTerm, len(actions))
	for i, a := range actions {
		out[i] = ToWire(a)
	}
	writeJSON(w, http.StatusOK, struct {
		Actions []WireTerm `json:"actions"`
	}{Actions: out})
}
