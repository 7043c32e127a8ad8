package game

import (
	"fmt"
	"sort"
)

// The rules evaluator is pure: every function here reads a state and renders
// a verdict without mutating anything. The state machine in state.go is the
// only writer.

// setupCoords are the four coordinates the opening tiles occupy. While fewer
// than four tiles are on the board, placement is restricted to these.
var setupCoords = [4]Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// Verdict is the structured answer to a legality question. Jumped carries
// the hex a disc jumps over; Capture carries the coordinate of the opposing
// piece a ring lands on.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Jumped  *Coord `json:"jumped,omitempty"`
	Capture *Coord `json:"capture,omitempty"`
}

func allow() Verdict {
	return Verdict{Valid: true}
}

func deny(reason string) Verdict {
	return Verdict{Reason: reason}
}

// CanPlaceTile decides whether color may lay a tile at c. On an empty board
// any coordinate is legal. While fewer than four tiles are down, only the
// still-empty setup coordinates are legal. After that a tile needs at least
// two existing neighbors, counting all six directions regardless of color.
func CanPlaceTile(gs *GameState, c Coord, color Color) Verdict {
	if !color.Valid() {
		return deny("invalid color")
	}
	if gs.Board.TileAt(c) != nil {
		return deny("coordinate already has a tile")
	}
	if gs.Stocks[color].TilesAvailable < 1 {
		return deny("no tiles available")
	}
	switch n := gs.Board.TileCount(); {
	case n == 0:
		return allow()
	case n < 4:
		for _, sc := range setupCoords {
			if sc == c {
				return allow()
			}
		}
		return deny("setup placements are restricted to the four starting coordinates")
	default:
		if gs.Board.AdjacentTiles(c) < 2 {
			return deny("tile must touch at least two existing tiles")
		}
		return allow()
	}
}

// CanPlacePiece decides whether color may put a piece of the given type on
// the tile at c. The disc-return precondition for rings only binds the
// current player; programmatic placements for the other side skip it.
func CanPlacePiece(gs *GameState, c Coord, color Color, t PieceType) Verdict {
	return canPlacePieceAs(gs, c, color, t, color == gs.CurrentPlayer)
}

func canPlacePieceAs(gs *GameState, c Coord, color Color, t PieceType, enforceRingReturn bool) Verdict {
	if !color.Valid() {
		return deny("invalid color")
	}
	if !t.Valid() {
		return deny("invalid piece type")
	}
	tile := gs.Board.TileAt(c)
	if tile == nil {
		return deny("no tile at coordinate")
	}
	if tile.Color != color {
		return deny("piece must be placed on a tile of its own color")
	}
	if tile.Piece != nil {
		return deny("tile is already occupied")
	}
	if gs.Stocks[color].Available(t) < 1 {
		return deny(fmt.Sprintf("no %ss available", t))
	}
	if t == Ring && enforceRingReturn && gs.Stocks[color].DiscsCaptured < 1 {
		return deny("placing a ring requires a captured disc to return")
	}
	return allow()
}

// CanMovePiece decides whether the piece at from may move to to on behalf of
// the current player.
func CanMovePiece(gs *GameState, from, to Coord) Verdict {
	return canMovePieceAs(gs, from, to, gs.CurrentPlayer)
}

func canMovePieceAs(gs *GameState, from, to Coord, mover Color) Verdict {
	src := gs.Board.TileAt(from)
	if src == nil {
		return deny("no tile at source")
	}
	piece := src.Piece
	if piece == nil {
		return deny("no piece at source")
	}
	if piece.Color != mover {
		return deny("piece belongs to the opponent")
	}
	dst := gs.Board.TileAt(to)
	if dst == nil {
		return deny("no tile at destination")
	}

	switch piece.Type {
	case Disc:
		if IsAdjacentMove(from, to) {
			if dst.Piece != nil {
				return deny("destination is occupied")
			}
			return allow()
		}
		if IsValidJump(from, to) {
			mid, _ := JumpedHex(from, to)
			if gs.Board.PieceAt(mid) == nil {
				return deny("jump requires a piece to jump over")
			}
			if dst.Piece != nil {
				return deny("destination is occupied")
			}
			v := allow()
			v.Jumped = &mid
			return v
		}
		return deny("disc moves one hex, or jumps two along a line")
	case Ring:
		if !IsRingMove(from, to) {
			return deny("ring moves exactly two hexes")
		}
		if dst.Piece != nil {
			if dst.Piece.Color == mover {
				return deny("cannot capture own piece")
			}
			v := allow()
			target := to
			v.Capture = &target
			return v
		}
		return allow()
	default:
		return deny("unknown piece type")
	}
}

// ValidMove pairs a reachable destination with its verdict metadata.
type ValidMove struct {
	To      Coord  `json:"to"`
	Jumped  *Coord `json:"jumped,omitempty"`
	Capture *Coord `json:"capture,omitempty"`
}

// ValidMoves enumerates every tile the piece at from can reach for the
// current player. A linear scan of the board: tile count is bounded by the
// two 9-tile pools, so O(tiles) is fine.
func ValidMoves(gs *GameState, from Coord) []ValidMove {
	return validMovesAs(gs, from, gs.CurrentPlayer)
}

func validMovesAs(gs *GameState, from Coord, mover Color) []ValidMove {
	var out []ValidMove
	for _, to := range gs.Board.Coords() {
		if to == from {
			continue
		}
		if v := canMovePieceAs(gs, from, to, mover); v.Valid {
			out = append(out, ValidMove{To: to, Jumped: v.Jumped, Capture: v.Capture})
		}
	}
	return out
}

// ValidTilePlacements enumerates the coordinates where color may lay a tile.
// Existing tiles span the candidate space: any legal placement outside the
// setup phase touches two tiles, so scanning the neighbors of existing tiles
// covers every candidate.
func ValidTilePlacements(gs *GameState, color Color) []Coord {
	if !color.Valid() || gs.Stocks[color].TilesAvailable < 1 {
		return nil
	}
	if gs.Board.TileCount() == 0 {
		// Every coordinate is legal on an empty board; report the canonical
		// origin as the representative placement.
		return []Coord{{0, 0}}
	}
	if gs.Board.TileCount() < 4 {
		var out []Coord
		for _, c := range setupCoords {
			if v := CanPlaceTile(gs, c, color); v.Valid {
				out = append(out, c)
			}
		}
		return out
	}
	seen := make(map[Coord]bool)
	var out []Coord
	for _, c := range gs.Board.Coords() {
		for _, nb := range c.Neighbors() {
			if seen[nb] {
				continue
			}
			seen[nb] = true
			if v := CanPlaceTile(gs, nb, color); v.Valid {
				out = append(out, nb)
			}
		}
	}
	sortCoords(out)
	return out
}

// ValidPiecePlacements enumerates the empty tiles of the given color where a
// piece of type t may be placed.
func ValidPiecePlacements(gs *GameState, color Color, t PieceType) []Coord {
	return validPiecePlacementsAs(gs, color, t, color == gs.CurrentPlayer)
}

func validPiecePlacementsAs(gs *GameState, color Color, t PieceType, enforceRingReturn bool) []Coord {
	var out []Coord
	for _, c := range gs.Board.Coords() {
		if v := canPlacePieceAs(gs, c, color, t, enforceRingReturn); v.Valid {
			out = append(out, c)
		}
	}
	return out
}

// VictoryResult names the winner and the condition that ended the game.
type VictoryResult struct {
	Winner Color  `json:"winner"`
	Reason string `json:"reason"`
}

// CheckVictory scans both sides for a met victory condition: a side with no
// discs left anywhere loses, then no rings, then no pieces on the board at
// all. Returns nil while the game should continue.
func CheckVictory(gs *GameState) *VictoryResult {
	for _, color := range []Color{Black, White} {
		stock := gs.Stocks[color]
		discs, rings := gs.onBoardCounts(color)
		switch {
		case discs+stock.DiscsAvailable == 0:
			return &VictoryResult{
				Winner: color.Opponent(),
				Reason: fmt.Sprintf("All %s discs captured", color),
			}
		case rings+stock.RingsAvailable == 0:
			return &VictoryResult{
				Winner: color.Opponent(),
				Reason: fmt.Sprintf("All %s rings captured", color),
			}
		case discs+rings == 0:
			return &VictoryResult{
				Winner: color.Opponent(),
				Reason: fmt.Sprintf("%s has no pieces on the board", color),
			}
		}
	}
	return nil
}

// DrawReason names the condition that drew the game.
type DrawReason string

const (
	DrawRepetition DrawReason = "repetition"
	DrawNoMoves    DrawReason = "no_moves"
)

// CheckDraw decides whether the game is drawn once next is to move. Checks
// run in order: repetition, then tile placement, then piece placement, then
// piece movement; the first available escape aborts with "not a draw".
// The position closing the current turn counts as one appearance, so a third
// occurrence of a position triggers the repetition draw.
func CheckDraw(gs *GameState, next Color) DrawReason {
	pos := gs.Board.Position()
	if gs.Board.PositionCount(pos)+1 >= 3 {
		return DrawRepetition
	}
	if len(ValidTilePlacements(gs, next)) > 0 {
		return ""
	}
	// The ring disc-return requirement binds the player whose options are
	// being probed, even though they are not the current player yet.
	if len(validPiecePlacementsAs(gs, next, Disc, true)) > 0 {
		return ""
	}
	if len(validPiecePlacementsAs(gs, next, Ring, true)) > 0 {
		return ""
	}
	for _, c := range gs.Board.Coords() {
		p := gs.Board.PieceAt(c)
		if p == nil || p.Color != next {
			continue
		}
		if len(validMovesAs(gs, c, next)) > 0 {
			return ""
		}
	}
	return DrawNoMoves
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Q != cs[j].Q {
			return cs[i].Q < cs[j].Q
		}
		return cs[i].R < cs[j].R
	})
}
