package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Snapshot is the serializable view of a game. It is always an independent
// copy: mutating a snapshot never touches live state, and vice versa.
type Snapshot struct {
	CurrentPlayer Color            `json:"currentPlayer"`
	GameStatus    Status           `json:"gameStatus"`
	Winner        Color            `json:"winner,omitempty"`
	DrawReason    DrawReason       `json:"drawReason,omitempty"`
	Board         BoardSnapshot    `json:"board"`
	Pieces        map[Color]*Stock `json:"pieces"`
	CurrentAction ActionKind       `json:"currentAction,omitempty"`
	SelectedPiece *SelectedPiece   `json:"selectedPiece,omitempty"`
	TurnHistory   []ActionRecord   `json:"turnHistory"`
}

// BoardSnapshot flattens the coordinate map into arrays. Tiles and pieces
// carry ids encoding their coordinate.
type BoardSnapshot struct {
	Tiles           []TileSnapshot  `json:"tiles"`
	Pieces          []PieceSnapshot `json:"pieces"`
	PositionHistory []string        `json:"positionHistory"`
}

// TileSnapshot is one tile in the flattened board.
type TileSnapshot struct {
	ID    string `json:"id"`
	Q     int    `json:"q"`
	R     int    `json:"r"`
	Color Color  `json:"color"`
}

// PieceSnapshot is one on-board piece in the flattened board.
type PieceSnapshot struct {
	ID    string    `json:"id"`
	Q     int       `json:"q"`
	R     int       `json:"r"`
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func tileID(c Coord) string {
	return fmt.Sprintf("tile_%d_%d", c.Q, c.R)
}

func pieceID(c Coord) string {
	return fmt.Sprintf("piece_%d_%d", c.Q, c.R)
}

// Snapshot returns the serializable view of the current state.
func (gs *GameState) Snapshot() *Snapshot {
	snap := &Snapshot{
		CurrentPlayer: gs.CurrentPlayer,
		GameStatus:    gs.Status,
		Winner:        gs.Winner,
		DrawReason:    gs.DrawReason,
		CurrentAction: gs.CurrentAction,
		Pieces: map[Color]*Stock{
			Black: gs.Stocks[Black].Copy(),
			White: gs.Stocks[White].Copy(),
		},
		TurnHistory: make([]ActionRecord, len(gs.TurnHistory)),
	}
	copy(snap.TurnHistory, gs.TurnHistory)
	if gs.Selected != nil {
		sel := *gs.Selected
		snap.SelectedPiece = &sel
	}
	snap.Board.PositionHistory = gs.Board.History()
	for _, c := range gs.Board.Coords() {
		t := gs.Board.TileAt(c)
		snap.Board.Tiles = append(snap.Board.Tiles, TileSnapshot{
			ID: tileID(c), Q: c.Q, R: c.R, Color: t.Color,
		})
		if t.Piece != nil {
			snap.Board.Pieces = append(snap.Board.Pieces, PieceSnapshot{
				ID: pieceID(c), Q: c.Q, R: c.R, Type: t.Piece.Type, Color: t.Piece.Color,
			})
		}
	}
	return snap
}

// MarshalSnapshot encodes the current state as JSON.
func (gs *GameState) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(gs.Snapshot())
}

// LoadSnapshot replaces the game state with the decoded snapshot. The load
// is atomic: everything is staged into a fresh state and committed only
// when the whole snapshot decodes and validates, so a malformed snapshot
// leaves the current state untouched. Returns false on any failure.
//
// Two board encodings are accepted: the current flattened arrays, and the
// legacy coordinate-keyed tile map ("q,r" keys, pieces embedded in their
// tile with the owner under "player").
func (gs *GameState) LoadSnapshot(data []byte) bool {
	staged, err := decodeSnapshot(data)
	if err != nil {
		return false
	}
	gs.restore(staged)
	// A snapshot taken mid-action has no rollback state to carry; the loaded
	// state itself becomes the point CancelAction falls back to.
	gs.saved = nil
	if gs.CurrentAction != "" {
		gs.saved = gs.Copy()
	}
	gs.notify(EventGameLoaded, nil)
	return true
}

// rawSnapshot defers board decoding so both formats can be probed.
type rawSnapshot struct {
	CurrentPlayer Color            `json:"currentPlayer"`
	GameStatus    Status           `json:"gameStatus"`
	Winner        Color            `json:"winner"`
	DrawReason    DrawReason       `json:"drawReason"`
	Board         rawBoard         `json:"board"`
	Pieces        map[Color]*Stock `json:"pieces"`
	CurrentAction ActionKind       `json:"currentAction"`
	SelectedPiece *SelectedPiece   `json:"selectedPiece"`
	TurnHistory   []ActionRecord   `json:"turnHistory"`
}

type rawBoard struct {
	Tiles           json.RawMessage `json:"tiles"`
	Pieces          json.RawMessage `json:"pieces"`
	PositionHistory []string        `json:"positionHistory"`
}

// legacyTile is the coordinate-keyed map entry of old saves. The embedded
// piece names its owner "player"; some saves also carry "color".
type legacyTile struct {
	Color Color        `json:"color"`
	Piece *legacyPiece `json:"piece"`
}

type legacyPiece struct {
	Type   PieceType `json:"type"`
	Player Color     `json:"player"`
	Color  Color     `json:"color"`
}

func decodeSnapshot(data []byte) (*GameState, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if !raw.CurrentPlayer.Valid() {
		return nil, fmt.Errorf("invalid current player %q", raw.CurrentPlayer)
	}
	status := raw.GameStatus
	if status == "" {
		status = StatusOngoing
	}
	switch status {
	case StatusOngoing, StatusBlackWin, StatusWhiteWin, StatusDraw:
	default:
		return nil, fmt.Errorf("invalid game status %q", raw.GameStatus)
	}
	if raw.Winner != "" && !raw.Winner.Valid() {
		return nil, fmt.Errorf("invalid winner %q", raw.Winner)
	}
	switch raw.DrawReason {
	case "", DrawRepetition, DrawNoMoves:
	default:
		return nil, fmt.Errorf("invalid draw reason %q", raw.DrawReason)
	}
	if raw.CurrentAction != "" && !raw.CurrentAction.Valid() {
		return nil, fmt.Errorf("invalid action kind %q", raw.CurrentAction)
	}

	staged := &GameState{
		Board:         NewBoard(),
		Stocks:        map[Color]*Stock{Black: {}, White: {}},
		CurrentPlayer: raw.CurrentPlayer,
		Status:        status,
		Winner:        raw.Winner,
		DrawReason:    raw.DrawReason,
		CurrentAction: raw.CurrentAction,
		Selected:      raw.SelectedPiece,
		TurnHistory:   raw.TurnHistory,
	}

	for _, color := range []Color{Black, White} {
		stock, ok := raw.Pieces[color]
		if !ok || stock == nil {
			return nil, fmt.Errorf("missing %s stock", color)
		}
		if stock.TilesAvailable < 0 || stock.DiscsAvailable < 0 || stock.RingsAvailable < 0 ||
			stock.DiscsCaptured < 0 || stock.RingsCaptured < 0 {
			return nil, fmt.Errorf("negative count in %s stock", color)
		}
		staged.Stocks[color] = stock.Copy()
	}

	if err := decodeBoard(staged.Board, raw.Board); err != nil {
		return nil, err
	}
	staged.Board.history = append(staged.Board.history, raw.Board.PositionHistory...)
	return staged, nil
}

func decodeBoard(board *Board, raw rawBoard) error {
	if len(raw.Tiles) == 0 {
		return fmt.Errorf("snapshot has no board tiles")
	}
	var tiles []TileSnapshot
	if err := json.Unmarshal(raw.Tiles, &tiles); err == nil {
		return decodeFlatBoard(board, tiles, raw.Pieces)
	}
	var legacy map[string]legacyTile
	if err := json.Unmarshal(raw.Tiles, &legacy); err != nil {
		return fmt.Errorf("tiles are neither an array nor a coordinate map: %w", err)
	}
	return decodeLegacyBoard(board, legacy)
}

func decodeFlatBoard(board *Board, tiles []TileSnapshot, rawPieces json.RawMessage) error {
	for _, t := range tiles {
		if !t.Color.Valid() {
			return fmt.Errorf("tile %s has invalid color %q", t.ID, t.Color)
		}
		if !board.AddTile(Coord{t.Q, t.R}, t.Color) {
			return fmt.Errorf("duplicate tile at (%d,%d)", t.Q, t.R)
		}
	}
	if len(rawPieces) == 0 {
		return nil
	}
	var pieces []PieceSnapshot
	if err := json.Unmarshal(rawPieces, &pieces); err != nil {
		return fmt.Errorf("decode pieces: %w", err)
	}
	for _, p := range pieces {
		if !p.Color.Valid() || !p.Type.Valid() {
			return fmt.Errorf("piece %s has invalid color or type", p.ID)
		}
		tile := board.TileAt(Coord{p.Q, p.R})
		if tile == nil {
			return fmt.Errorf("piece %s has no tile at (%d,%d)", p.ID, p.Q, p.R)
		}
		if tile.Piece != nil {
			return fmt.Errorf("two pieces at (%d,%d)", p.Q, p.R)
		}
		tile.Piece = &Piece{Type: p.Type, Color: p.Color}
	}
	return nil
}

func decodeLegacyBoard(board *Board, legacy map[string]legacyTile) error {
	for key, t := range legacy {
		c, err := parseCoordKey(key)
		if err != nil {
			return err
		}
		if !t.Color.Valid() {
			return fmt.Errorf("tile %q has invalid color %q", key, t.Color)
		}
		if !board.AddTile(c, t.Color) {
			return fmt.Errorf("duplicate tile at %q", key)
		}
		if t.Piece == nil {
			continue
		}
		owner := t.Piece.Player
		if owner == "" {
			owner = t.Piece.Color
		}
		if !owner.Valid() || !t.Piece.Type.Valid() {
			return fmt.Errorf("piece at %q has invalid owner or type", key)
		}
		board.TileAt(c).Piece = &Piece{Type: t.Piece.Type, Color: owner}
	}
	return nil
}

func parseCoordKey(key string) (Coord, error) {
	parts := strings.SplitN(key, ",", 2)
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("malformed coordinate key %q", key)
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Coord{}, fmt.Errorf("malformed coordinate key %q: %w", key, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Coord{}, fmt.Errorf("malformed coordinate key %q: %w", key, err)
	}
	return Coord{q, r}, nil
}
