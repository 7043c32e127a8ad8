// Package server exposes the engine's command/query surface over HTTP. The
// engine is single-threaded, so a mutex serializes request handling.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"hexaequo/communication"
	"hexaequo/game"
)

// Server adapts a Commander to HTTP. Request and response bodies are JSON.
type Server struct {
	cmd communication.Commander
	mu  sync.Mutex
	log zerolog.Logger
}

// New returns a server around cmd.
func New(cmd communication.Commander, log zerolog.Logger) *Server {
	return &Server{cmd: cmd, log: log}
}

// Handler returns the HTTP routes of the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /moves", s.handleMoves)
	mux.HandleFunc("GET /tile-placements", s.handleTilePlacements)
	mux.HandleFunc("GET /piece-placements", s.handlePiecePlacements)
	mux.HandleFunc("POST /new-game", s.handleNewGame)
	mux.HandleFunc("POST /place-tile", s.handlePlaceTile)
	mux.HandleFunc("POST /place-piece", s.handlePlacePiece)
	mux.HandleFunc("POST /move-piece", s.handleMovePiece)
	mux.HandleFunc("POST /start-action", s.handleStartAction)
	mux.HandleFunc("POST /cancel-action", s.handleCancelAction)
	mux.HandleFunc("POST /complete-action", s.handleCompleteAction)
	mux.HandleFunc("POST /end-turn", s.handleEndTurn)
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("POST /load", s.handleLoad)
	return mux
}

// Start serves the API on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("serving hexaequo API")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

func coordParam(r *http.Request) (game.Coord, bool) {
	q, errQ := strconv.Atoi(r.URL.Query().Get("q"))
	rr, errR := strconv.Atoi(r.URL.Query().Get("r"))
	if errQ != nil || errR != nil {
		return game.Coord{}, false
	}
	return game.Coord{Q: q, R: rr}, true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.cmd.FullState()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	c, ok := coordParam(r)
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q and r are required integers"})
		return
	}
	s.mu.Lock()
	moves := s.cmd.ValidMoves(c)
	s.mu.Unlock()
	if moves == nil {
		moves = []game.ValidMove{}
	}
	s.writeJSON(w, http.StatusOK, moves)
}

func (s *Server) handleTilePlacements(w http.ResponseWriter, r *http.Request) {
	color := game.Color(r.URL.Query().Get("color"))
	s.mu.Lock()
	coords := s.cmd.ValidTilePlacements(color)
	s.mu.Unlock()
	if coords == nil {
		coords = []game.Coord{}
	}
	s.writeJSON(w, http.StatusOK, coords)
}

func (s *Server) handlePiecePlacements(w http.ResponseWriter, r *http.Request) {
	color := game.Color(r.URL.Query().Get("color"))
	t := game.PieceType(r.URL.Query().Get("type"))
	if t == "" {
		t = game.Disc
	}
	s.mu.Lock()
	coords := s.cmd.ValidPiecePlacements(color, t)
	s.mu.Unlock()
	if coords == nil {
		coords = []game.Coord{}
	}
	s.writeJSON(w, http.StatusOK, coords)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.cmd.StartNewGame()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlaceTile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coord game.Coord `json:"coord"`
		Color game.Color `json:"color"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	res := s.cmd.PlaceTile(req.Coord, req.Color)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlacePiece(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coord game.Coord     `json:"coord"`
		Color game.Color     `json:"color"`
		Type  game.PieceType `json:"type"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	res := s.cmd.PlacePiece(req.Coord, req.Color, req.Type)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMovePiece(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From game.Coord `json:"from"`
		To   game.Coord `json:"to"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	res := s.cmd.MovePiece(req.From, req.To)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStartAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action   game.ActionKind `json:"action"`
		Selected *game.Coord     `json:"selected"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	res := s.cmd.StartAction(req.Action, req.Selected)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCancelAction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.cmd.CancelAction()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompleteAction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.cmd.CompleteAction()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.cmd.EndTurn()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		req.Name = "autosave"
	}
	s.mu.Lock()
	snapshot, res := s.cmd.SaveGame(r.Context(), req.Name)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, struct {
		Success  bool            `json:"success"`
		State    any             `json:"state"`
		Snapshot json.RawMessage `json:"snapshot,omitempty"`
	}{res.Success, res.State, snapshot})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string          `json:"name"`
		Snapshot json.RawMessage `json:"snapshot"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(req.Snapshot) > 0 {
		s.writeJSON(w, http.StatusOK, s.cmd.LoadGame(req.Snapshot))
		return
	}
	res, err := s.cmd.LoadSaved(r.Context(), req.Name)
	if err != nil {
		s.log.Warn().Err(err).Str("name", req.Name).Msg("load saved game")
	}
	s.writeJSON(w, http.StatusOK, res)
}
