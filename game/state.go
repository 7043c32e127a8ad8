package game

// Status is the lifecycle state of a game. Terminal statuses are never left
// except through Reset or a snapshot load.
type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusBlackWin Status = "black_win"
	StatusWhiteWin Status = "white_win"
	StatusDraw     Status = "draw"
)

// GameState owns the board, the per-color stocks, and the turn/action
// cursor. It is the sole writer of game state: callers mutate only through
// the command methods, which consult the rules evaluator before applying
// anything. Illegal commands return false and leave the state untouched.
//
// Single-threaded by design: commands run to completion and there is no
// concurrent command path, so no locking happens here. Transports that
// accept concurrent requests serialize them before calling in.
type GameState struct {
	Board         *Board
	Stocks        map[Color]*Stock
	CurrentPlayer Color
	Status        Status
	Winner        Color
	DrawReason    DrawReason
	CurrentAction ActionKind
	Selected      *SelectedPiece
	TurnHistory   []ActionRecord

	// saved is the rollback snapshot taken when an action opens. It is a
	// deep, independent copy: CancelAction restores it wholesale instead of
	// undoing sub-moves one by one.
	saved *GameState

	observers []Observer
}

// NewGameState returns a freshly reset game.
func NewGameState() *GameState {
	gs := &GameState{}
	gs.initialize()
	return gs
}

// Subscribe registers an observer for state-change events.
func (gs *GameState) Subscribe(obs Observer) {
	gs.observers = append(gs.observers, obs)
}

func (gs *GameState) notify(t EventType, history []ActionRecord) {
	if len(gs.observers) == 0 {
		return
	}
	ev := Event{Type: t, State: gs.Snapshot(), TurnHistory: history}
	for _, obs := range gs.observers {
		obs(ev)
	}
}

func (gs *GameState) initialize() {
	gs.Board = NewBoard()
	gs.Stocks = map[Color]*Stock{Black: NewStock(), White: NewStock()}
	gs.CurrentPlayer = Black
	gs.Status = StatusOngoing
	gs.Winner = ""
	gs.DrawReason = ""
	gs.CurrentAction = ""
	gs.Selected = nil
	gs.TurnHistory = nil
	gs.saved = nil
}

// Reset reinitializes the game to an empty board with full stocks and black
// to move, then notifies observers.
func (gs *GameState) Reset() {
	gs.initialize()
	gs.notify(EventReset, nil)
}

// SetupNewGame resets and lays the standard opening: two black tiles at
// (0,0) and (1,0), two white tiles at (0,1) and (1,1), a black disc on (0,0)
// and a white disc on (1,1), then records the opening position. Returns
// early if any placement is rejected, which cannot happen from an empty
// board.
func (gs *GameState) SetupNewGame() {
	gs.Reset()
	setup := []struct {
		coord Coord
		color Color
	}{
		{Coord{0, 0}, Black},
		{Coord{1, 0}, Black},
		{Coord{0, 1}, White},
		{Coord{1, 1}, White},
	}
	for _, s := range setup {
		if !gs.PlaceTile(s.coord, s.color) {
			return
		}
	}
	if !gs.PlacePiece(Coord{0, 0}, Black, Disc) {
		return
	}
	if !gs.PlacePiece(Coord{1, 1}, White, Disc) {
		return
	}
	gs.Board.RecordPosition()
	gs.notify(EventSetup, nil)
}

// PlaceTile lays a tile of the given color at c if the rules allow it.
func (gs *GameState) PlaceTile(c Coord, color Color) bool {
	if gs.Status != StatusOngoing {
		return false
	}
	if v := CanPlaceTile(gs, c, color); !v.Valid {
		return false
	}
	gs.Board.AddTile(c, color)
	gs.Stocks[color].TilesAvailable--
	if gs.CurrentAction == ActionPlaceTile {
		gs.TurnHistory = append(gs.TurnHistory, ActionRecord{
			Kind:  ActionPlaceTile,
			Color: color,
			To:    c,
		})
	}
	gs.notify(EventTilePlaced, nil)
	return true
}

// PlacePiece puts a piece from the color's stock onto the tile at c. A ring
// placed by the current player returns one captured disc to the opponent's
// stock; placements made for the other side skip the transfer.
func (gs *GameState) PlacePiece(c Coord, color Color, t PieceType) bool {
	if gs.Status != StatusOngoing {
		return false
	}
	if v := CanPlacePiece(gs, c, color, t); !v.Valid {
		return false
	}
	gs.Board.TileAt(c).Piece = &Piece{Type: t, Color: color}
	gs.Stocks[color].addAvailable(t, -1)
	if t == Ring && color == gs.CurrentPlayer {
		gs.Stocks[color].DiscsCaptured--
		gs.Stocks[color.Opponent()].DiscsAvailable++
	}
	if gs.CurrentAction == ActionPlacePiece {
		gs.TurnHistory = append(gs.TurnHistory, ActionRecord{
			Kind:  ActionPlacePiece,
			Color: color,
			Type:  t,
			To:    c,
		})
	}
	gs.notify(EventPiecePlaced, nil)
	return true
}

// MovePiece moves the current player's piece from one tile to another. A
// disc jumping an opposing piece captures it; a ring landing on an opposing
// piece captures it. Jumped pieces of the mover's own color survive.
func (gs *GameState) MovePiece(from, to Coord) bool {
	if gs.Status != StatusOngoing {
		return false
	}
	v := CanMovePiece(gs, from, to)
	if !v.Valid {
		return false
	}
	mover := gs.Board.PieceAt(from)
	if v.Jumped != nil {
		if jumped := gs.Board.PieceAt(*v.Jumped); jumped != nil && jumped.Color != mover.Color {
			gs.capture(*v.Jumped)
		}
	}
	if v.Capture != nil {
		gs.capture(*v.Capture)
	}
	moved := *mover
	gs.Board.TileAt(from).Piece = nil
	gs.Board.TileAt(to).Piece = &moved
	if gs.CurrentAction == ActionMovePiece {
		src := from
		gs.TurnHistory = append(gs.TurnHistory, ActionRecord{
			Kind:  ActionMovePiece,
			Color: moved.Color,
			Type:  moved.Type,
			From:  &src,
			To:    to,
		})
	}
	gs.notify(EventPieceMoved, nil)
	return true
}

// CapturePiece removes the piece at c and credits the capture to the piece
// owner's opponent. Returns false if no piece is present.
func (gs *GameState) CapturePiece(c Coord) bool {
	if gs.Board.PieceAt(c) == nil {
		return false
	}
	gs.capture(c)
	gs.notify(EventPieceCaptured, nil)
	return true
}

// capture removes the piece at c and increments the opponent-of-owner's
// captured tally. Callers have already checked a piece is present.
func (gs *GameState) capture(c Coord) {
	p := gs.Board.PieceAt(c)
	gs.Stocks[p.Color.Opponent()].addCaptured(p.Type, 1)
	gs.Board.TileAt(c).Piece = nil
}

// StartAction opens an action of the given kind, snapshotting the state for
// rollback. selected is the initially selected coordinate for move_piece
// actions and ignored otherwise.
func (gs *GameState) StartAction(kind ActionKind, selected *Coord) bool {
	if gs.Status != StatusOngoing || gs.CurrentAction != "" {
		return false
	}
	if !kind.Valid() {
		return false
	}
	gs.saved = gs.Copy()
	gs.CurrentAction = kind
	if kind == ActionMovePiece && selected != nil {
		sel := &SelectedPiece{Coord: *selected}
		if p := gs.Board.PieceAt(*selected); p != nil {
			sel.Type = p.Type
		}
		gs.Selected = sel
	}
	gs.notify(EventActionStarted, nil)
	return true
}

// CancelAction discards every sub-move applied since the action opened and
// restores the pre-action snapshot wholesale.
func (gs *GameState) CancelAction() bool {
	if gs.CurrentAction == "" || gs.saved == nil {
		return false
	}
	gs.restore(gs.saved)
	gs.CurrentAction = ""
	gs.Selected = nil
	gs.saved = nil
	gs.notify(EventActionCancelled, nil)
	return true
}

// CompleteAction closes the open action, keeping the board mutations it
// applied, and emits the accumulated turn history for that action.
func (gs *GameState) CompleteAction() bool {
	if gs.CurrentAction == "" {
		return false
	}
	history := make([]ActionRecord, len(gs.TurnHistory))
	copy(history, gs.TurnHistory)
	gs.CurrentAction = ""
	gs.Selected = nil
	gs.saved = nil
	gs.notify(EventActionCompleted, history)
	return true
}

// EndTurn closes the current player's turn: victory is evaluated first, then
// draw conditions for the player about to move. The closing position is
// recorded for repetition detection and, if the game is still ongoing, play
// passes to the opponent.
func (gs *GameState) EndTurn() bool {
	if gs.Status != StatusOngoing || gs.CurrentAction != "" {
		return false
	}
	next := gs.CurrentPlayer.Opponent()
	if v := CheckVictory(gs); v != nil {
		gs.Winner = v.Winner
		if v.Winner == Black {
			gs.Status = StatusBlackWin
		} else {
			gs.Status = StatusWhiteWin
		}
	} else if reason := CheckDraw(gs, next); reason != "" {
		gs.Status = StatusDraw
		gs.DrawReason = reason
	}
	gs.TurnHistory = nil
	gs.Board.RecordPosition()
	if gs.Status == StatusOngoing {
		gs.CurrentPlayer = next
	}
	gs.notify(EventTurnEnded, nil)
	return true
}

// onBoardCounts tallies color's discs and rings currently on the board.
func (gs *GameState) onBoardCounts(color Color) (discs, rings int) {
	for _, c := range gs.Board.Coords() {
		p := gs.Board.PieceAt(c)
		if p == nil || p.Color != color {
			continue
		}
		if p.Type == Ring {
			rings++
		} else {
			discs++
		}
	}
	return discs, rings
}

// Copy returns a deep, independent copy of the game state. Observers and
// any pending rollback snapshot are not carried over.
func (gs *GameState) Copy() *GameState {
	cp := &GameState{
		Board:         gs.Board.Copy(),
		Stocks:        map[Color]*Stock{Black: gs.Stocks[Black].Copy(), White: gs.Stocks[White].Copy()},
		CurrentPlayer: gs.CurrentPlayer,
		Status:        gs.Status,
		Winner:        gs.Winner,
		DrawReason:    gs.DrawReason,
		CurrentAction: gs.CurrentAction,
	}
	if gs.Selected != nil {
		sel := *gs.Selected
		cp.Selected = &sel
	}
	if len(gs.TurnHistory) > 0 {
		cp.TurnHistory = make([]ActionRecord, len(gs.TurnHistory))
		copy(cp.TurnHistory, gs.TurnHistory)
	}
	return cp
}

// restore adopts the contents of snap, keeping the receiver's observers.
func (gs *GameState) restore(snap *GameState) {
	gs.Board = snap.Board
	gs.Stocks = snap.Stocks
	gs.CurrentPlayer = snap.CurrentPlayer
	gs.Status = snap.Status
	gs.Winner = snap.Winner
	gs.DrawReason = snap.DrawReason
	gs.CurrentAction = snap.CurrentAction
	gs.Selected = snap.Selected
	gs.TurnHistory = snap.TurnHistory
}
