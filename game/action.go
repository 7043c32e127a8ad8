package game

// ActionKind identifies the interactive action a player has open. An action
// groups the sub-moves of one turn so it can be cancelled or completed as a
// unit.
type ActionKind string

const (
	ActionPlaceTile  ActionKind = "place_tile"
	ActionPlacePiece ActionKind = "place_piece"
	ActionMovePiece  ActionKind = "move_piece"
)

// Valid reports whether k names a known action kind.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionPlaceTile, ActionPlacePiece, ActionMovePiece:
		return true
	}
	return false
}

// SelectedPiece remembers the piece a move_piece action started from.
type SelectedPiece struct {
	Coord Coord     `json:"coord"`
	Type  PieceType `json:"type,omitempty"`
}

// ActionRecord is one sub-action performed during the current turn.
type ActionRecord struct {
	Kind  ActionKind `json:"kind"`
	Color Color      `json:"color,omitempty"`
	Type  PieceType  `json:"type,omitempty"`
	From  *Coord     `json:"from,omitempty"`
	To    Coord      `json:"to"`
}

// EventType labels a state-change notification.
type EventType string

const (
	EventReset           EventType = "game_reset"
	EventSetup           EventType = "game_setup"
	EventTilePlaced      EventType = "tile_placed"
	EventPiecePlaced     EventType = "piece_placed"
	EventPieceMoved      EventType = "piece_moved"
	EventPieceCaptured   EventType = "piece_captured"
	EventActionStarted   EventType = "action_started"
	EventActionCancelled EventType = "action_cancelled"
	EventActionCompleted EventType = "action_completed"
	EventTurnEnded       EventType = "turn_ended"
	EventGameLoaded      EventType = "game_loaded"
)

// Event is delivered to observers after every successful mutation, never on
// a failed command. State is a fresh, independent snapshot. TurnHistory is
// populated on action_completed with the sub-actions the action applied.
type Event struct {
	Type        EventType      `json:"type"`
	State       *Snapshot      `json:"state"`
	TurnHistory []ActionRecord `json:"turnHistory,omitempty"`
}

// Observer receives state-change events.
type Observer func(Event)
