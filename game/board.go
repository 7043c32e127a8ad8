package game

import (
	"fmt"
	"sort"
	"strings"
)

// Color identifies a player side and the color of tiles and pieces.
type Color string

const (
	Black Color = "black"
	White Color = "white"
)

// Valid reports whether c names one of the two sides.
func (c Color) Valid() bool {
	return c == Black || c == White
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

// PieceType distinguishes the two kinds of pieces.
type PieceType string

const (
	Disc PieceType = "disc"
	Ring PieceType = "ring"
)

// Valid reports whether t names a known piece type.
func (t PieceType) Valid() bool {
	return t == Disc || t == Ring
}

// Piece sits on exactly one tile, or in a player's stock when off board.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Tile occupies a unique coordinate. Its color never changes after placement
// and tiles are never removed. A tile hosts at most one piece.
type Tile struct {
	Color Color  `json:"color"`
	Piece *Piece `json:"piece,omitempty"`
}

// Board maps coordinates to tiles and keeps the serialized position history
// used for repetition detection. Positions are appended once per completed
// turn and never removed.
type Board struct {
	tiles   map[Coord]*Tile
	history []string
}

// NewBoard returns an empty board with no recorded positions.
func NewBoard() *Board {
	return &Board{tiles: make(map[Coord]*Tile)}
}

// TileAt returns the tile at c, or nil if no tile exists there.
func (b *Board) TileAt(c Coord) *Tile {
	return b.tiles[c]
}

// PieceAt returns the piece hosted at c, or nil.
func (b *Board) PieceAt(c Coord) *Piece {
	if t := b.tiles[c]; t != nil {
		return t.Piece
	}
	return nil
}

// AddTile places a tile of the given color at c. Legality is the rules
// evaluator's concern; AddTile only refuses to overwrite an existing tile.
func (b *Board) AddTile(c Coord, color Color) bool {
	if _, ok := b.tiles[c]; ok {
		return false
	}
	b.tiles[c] = &Tile{Color: color}
	return true
}

// TileCount returns the number of tiles on the board.
func (b *Board) TileCount() int {
	return len(b.tiles)
}

// Coords returns all tile coordinates sorted by (q, r) so that enumeration
// results are deterministic.
func (b *Board) Coords() []Coord {
	out := make([]Coord, 0, len(b.tiles))
	for c := range b.tiles {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Q != out[j].Q {
			return out[i].Q < out[j].Q
		}
		return out[i].R < out[j].R
	})
	return out
}

// AdjacentTiles counts existing tiles among the 6 neighbors of c, regardless
// of their color.
func (b *Board) AdjacentTiles(c Coord) int {
	n := 0
	for _, nb := range c.Neighbors() {
		if _, ok := b.tiles[nb]; ok {
			n++
		}
	}
	return n
}

// Position returns a canonical serialization of the tile and piece layout.
// Tiles are emitted in sorted coordinate order so that identical positions
// always serialize identically.
func (b *Board) Position() string {
	var sb strings.Builder
	for _, c := range b.Coords() {
		t := b.tiles[c]
		fmt.Fprintf(&sb, "%d,%d:%c", c.Q, c.R, t.Color[0])
		if t.Piece != nil {
			fmt.Fprintf(&sb, ":%c%c", t.Piece.Type[0], t.Piece.Color[0])
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

// RecordPosition appends the current position to the history.
func (b *Board) RecordPosition() {
	b.history = append(b.history, b.Position())
}

// PositionCount returns how many times pos appears in the recorded history.
func (b *Board) PositionCount(pos string) int {
	n := 0
	for _, p := range b.history {
		if p == pos {
			n++
		}
	}
	return n
}

// History returns a copy of the position history.
func (b *Board) History() []string {
	out := make([]string, len(b.history))
	copy(out, b.history)
	return out
}

// Copy returns a deep, independent copy of the board.
func (b *Board) Copy() *Board {
	nb := &Board{
		tiles:   make(map[Coord]*Tile, len(b.tiles)),
		history: make([]string, len(b.history)),
	}
	copy(nb.history, b.history)
	for c, t := range b.tiles {
		tc := &Tile{Color: t.Color}
		if t.Piece != nil {
			p := *t.Piece
			tc.Piece = &p
		}
		nb.tiles[c] = tc
	}
	return nb
}
