// Package engine exposes the command/query surface external collaborators
// (transports, UIs, persistence) drive the game through. Every command
// returns the outcome plus a fresh serializable snapshot; every successful
// mutation is forwarded to subscribers.
package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"hexaequo/game"
)

// CommandResult is the uniform answer to every command.
type CommandResult struct {
	Success bool           `json:"success"`
	State   *game.Snapshot `json:"state"`
}

// SaveStore persists named snapshots. The engine treats the snapshot as an
// opaque document; the store decides where it lives.
type SaveStore interface {
	Put(ctx context.Context, name string, snapshot []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// Engine owns one game and serializes all access to it. It is not safe for
// concurrent use; transports that accept parallel requests must serialize
// calls (see communication/server).
type Engine struct {
	state *game.GameState
	store SaveStore
	log   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore attaches a snapshot store used by SaveGame and LoadSaved.
func WithStore(store SaveStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLogger sets the logger events are reported through.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New builds an engine around a fresh game.
func New(opts ...Option) *Engine {
	e := &Engine{
		state: game.NewGameState(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.Subscribe(func(ev game.Event) {
		e.log.Debug().
			Str("event", string(ev.Type)).
			Str("player", string(ev.State.CurrentPlayer)).
			Str("status", string(ev.State.GameStatus)).
			Msg("state changed")
	})
	return e
}

// Subscribe forwards state-change events to an external observer.
func (e *Engine) Subscribe(obs game.Observer) {
	e.state.Subscribe(obs)
}

func (e *Engine) result(success bool) CommandResult {
	return CommandResult{Success: success, State: e.state.Snapshot()}
}

// FullState returns an independent snapshot of the current game.
func (e *Engine) FullState() *game.Snapshot {
	return e.state.Snapshot()
}

// ValidMoves lists the destinations reachable by the piece at c.
func (e *Engine) ValidMoves(c game.Coord) []game.ValidMove {
	return game.ValidMoves(e.state, c)
}

// ValidTilePlacements lists legal tile placements for color; the current
// player when color is empty.
func (e *Engine) ValidTilePlacements(color game.Color) []game.Coord {
	if color == "" {
		color = e.state.CurrentPlayer
	}
	return game.ValidTilePlacements(e.state, color)
}

// ValidPiecePlacements lists legal placements of a piece type for color; the
// current player when color is empty.
func (e *Engine) ValidPiecePlacements(color game.Color, t game.PieceType) []game.Coord {
	if color == "" {
		color = e.state.CurrentPlayer
	}
	return game.ValidPiecePlacements(e.state, color, t)
}

// StartNewGame resets and lays the standard opening.
func (e *Engine) StartNewGame() CommandResult {
	e.state.SetupNewGame()
	return e.result(true)
}

// PlaceTile lays a tile for color at c.
func (e *Engine) PlaceTile(c game.Coord, color game.Color) CommandResult {
	return e.result(e.state.PlaceTile(c, color))
}

// PlacePiece puts a piece from color's stock on the tile at c.
func (e *Engine) PlacePiece(c game.Coord, color game.Color, t game.PieceType) CommandResult {
	return e.result(e.state.PlacePiece(c, color, t))
}

// MovePiece moves the current player's piece between tiles.
func (e *Engine) MovePiece(from, to game.Coord) CommandResult {
	return e.result(e.state.MovePiece(from, to))
}

// StartAction opens an interactive action.
func (e *Engine) StartAction(kind game.ActionKind, selected *game.Coord) CommandResult {
	return e.result(e.state.StartAction(kind, selected))
}

// CancelAction rolls back to the state the open action started from.
func (e *Engine) CancelAction() CommandResult {
	return e.result(e.state.CancelAction())
}

// CompleteAction commits the open action.
func (e *Engine) CompleteAction() CommandResult {
	return e.result(e.state.CompleteAction())
}

// EndTurn closes the current player's turn.
func (e *Engine) EndTurn() CommandResult {
	return e.result(e.state.EndTurn())
}

// LoadGame replaces the game with the snapshot decoded from raw JSON.
func (e *Engine) LoadGame(raw json.RawMessage) CommandResult {
	return e.result(e.state.LoadSnapshot(raw))
}

// SaveGame emits the current snapshot for external persistence and, when a
// store is attached, writes it under the given name.
func (e *Engine) SaveGame(ctx context.Context, name string) (json.RawMessage, CommandResult) {
	data, err := e.state.MarshalSnapshot()
	if err != nil {
		e.log.Error().Err(err).Msg("marshal snapshot")
		return nil, e.result(false)
	}
	if e.store != nil {
		if err := e.store.Put(ctx, name, data); err != nil {
			e.log.Error().Err(err).Str("name", name).Msg("persist snapshot")
			return nil, e.result(false)
		}
	}
	return data, e.result(true)
}

// LoadSaved loads a snapshot previously written to the store.
func (e *Engine) LoadSaved(ctx context.Context, name string) (CommandResult, error) {
	if e.store == nil {
		return e.result(false), fmt.Errorf("no save store configured")
	}
	data, err := e.store.Get(ctx, name)
	if err != nil {
		return e.result(false), fmt.Errorf("read save %q: %w", name, err)
	}
	res := e.LoadGame(data)
	if !res.Success {
		return res, fmt.Errorf("save %q does not decode", name)
	}
	return res, nil
}
