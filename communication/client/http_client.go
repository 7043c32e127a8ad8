// Package client is an HTTP client for the hexaequo API, the counterpart of
// communication/server.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hexaequo/engine"
	"hexaequo/game"
)

// Client talks to a hexaequo API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) getJSON(path string, out any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

func (c *Client) postCommand(path string, body any) (engine.CommandResult, error) {
	var res engine.CommandResult
	payload, err := json.Marshal(body)
	if err != nil {
		return res, fmt.Errorf("POST %s: encode request: %w", path, err)
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return res, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("POST %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("POST %s: decode response: %w", path, err)
	}
	return res, nil
}

// FullState fetches the current snapshot.
func (c *Client) FullState() (*game.Snapshot, error) {
	var snap game.Snapshot
	if err := c.getJSON("/state", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ValidMoves fetches the legal destinations of the piece at coord.
func (c *Client) ValidMoves(coord game.Coord) ([]game.ValidMove, error) {
	var moves []game.ValidMove
	path := fmt.Sprintf("/moves?q=%d&r=%d", coord.Q, coord.R)
	if err := c.getJSON(path, &moves); err != nil {
		return nil, err
	}
	return moves, nil
}

// StartNewGame resets the server game to the standard opening.
func (c *Client) StartNewGame() (engine.CommandResult, error) {
	return c.postCommand("/new-game", struct{}{})
}

// PlaceTile lays a tile.
func (c *Client) PlaceTile(coord game.Coord, color game.Color) (engine.CommandResult, error) {
	return c.postCommand("/place-tile", map[string]any{"coord": coord, "color": color})
}

// PlacePiece places a piece from stock.
func (c *Client) PlacePiece(coord game.Coord, color game.Color, t game.PieceType) (engine.CommandResult, error) {
	return c.postCommand("/place-piece", map[string]any{"coord": coord, "color": color, "type": t})
}

// MovePiece moves a piece between tiles.
func (c *Client) MovePiece(from, to game.Coord) (engine.CommandResult, error) {
	return c.postCommand("/move-piece", map[string]any{"from": from, "to": to})
}

// StartAction opens an interactive action.
func (c *Client) StartAction(kind game.ActionKind, selected *game.Coord) (engine.CommandResult, error) {
	return c.postCommand("/start-action", map[string]any{"action": kind, "selected": selected})
}

// CancelAction rolls back the open action.
func (c *Client) CancelAction() (engine.CommandResult, error) {
	return c.postCommand("/cancel-action", struct{}{})
}

// CompleteAction commits the open action.
func (c *Client) CompleteAction() (engine.CommandResult, error) {
	return c.postCommand("/complete-action", struct{}{})
}

// EndTurn closes the current turn.
func (c *Client) EndTurn() (engine.CommandResult, error) {
	return c.postCommand("/end-turn", struct{}{})
}

// SaveGame persists the current game under name on the server.
func (c *Client) SaveGame(name string) (engine.CommandResult, error) {
	return c.postCommand("/save", map[string]string{"name": name})
}

// LoadGame replaces the server game with a raw snapshot.
func (c *Client) LoadGame(snapshot json.RawMessage) (engine.CommandResult, error) {
	return c.postCommand("/load", map[string]any{"snapshot": snapshot})
}

// LoadSaved restores a snapshot previously saved under name.
func (c *Client) LoadSaved(name string) (engine.CommandResult, error) {
	return c.postCommand("/load", map[string]string{"name": name})
}
