// Package communication defines the contract between the game engine and the
// transports that drive it.
package communication

import (
	"context"
	"encoding/json"

	"hexaequo/engine"
	"hexaequo/game"
)

// Commander is the command/query surface a transport drives. engine.Engine
// implements it. Implementations are not required to be safe for concurrent
// use; transports serialize access.
type Commander interface {
	// Queries.
	FullState() *game.Snapshot
	ValidMoves(c game.Coord) []game.ValidMove
	ValidTilePlacements(color game.Color) []game.Coord
	ValidPiecePlacements(color game.Color, t game.PieceType) []game.Coord

	// Commands.
	StartNewGame() engine.CommandResult
	PlaceTile(c game.Coord, color game.Color) engine.CommandResult
	PlacePiece(c game.Coord, color game.Color, t game.PieceType) engine.CommandResult
	MovePiece(from, to game.Coord) engine.CommandResult
	StartAction(kind game.ActionKind, selected *game.Coord) engine.CommandResult
	CancelAction() engine.CommandResult
	CompleteAction() engine.CommandResult
	EndTurn() engine.CommandResult
	LoadGame(raw json.RawMessage) engine.CommandResult
	SaveGame(ctx context.Context, name string) (json.RawMessage, engine.CommandResult)
	LoadSaved(ctx context.Context, name string) (engine.CommandResult, error)
}
