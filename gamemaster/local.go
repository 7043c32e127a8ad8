// Package gamemaster drives complete games against the rules engine. The
// local playout picks uniformly random legal turns; it exists for smoke
// testing the engine and for the CLI demo, not for playing well.
package gamemaster

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"hexaequo/game"
)

// DefaultMaxTurns caps runaway games; random play usually ends well before.
const DefaultMaxTurns = 1000

// Playout plays random legal turns until the game ends.
type Playout struct {
	rng      *rand.Rand
	MaxTurns int
}

// NewPlayout returns a playout driver seeded for reproducibility.
func NewPlayout(seed uint64) *Playout {
	return &Playout{
		rng:      rand.New(rand.NewSource(seed)),
		MaxTurns: DefaultMaxTurns,
	}
}

// A turn is one of: lay a tile, place a piece from stock, or move a piece.
type turnChoice struct {
	kind  game.ActionKind
	coord game.Coord
	piece game.PieceType
	from  game.Coord
}

// Run plays gs to completion and returns the number of turns taken. The
// state is mutated in place through its command methods only.
func (p *Playout) Run(gs *game.GameState) int {
	turns := 0
	for gs.Status == game.StatusOngoing && turns < p.MaxTurns {
		choice, ok := p.pick(gs)
		if ok {
			p.apply(gs, choice)
		}
		// With no playable choice the turn passes; the draw check at end
		// of turn decides whether the game is over.
		if !gs.EndTurn() {
			break
		}
		turns++
	}
	if gs.Status == game.StatusOngoing {
		log.Warn().Int("turns", turns).Msg("playout hit the turn cap")
	}
	return turns
}

// pick gathers every legal turn for the current player and samples one.
func (p *Playout) pick(gs *game.GameState) (turnChoice, bool) {
	player := gs.CurrentPlayer
	var choices []turnChoice

	for _, c := range game.ValidTilePlacements(gs, player) {
		choices = append(choices, turnChoice{kind: game.ActionPlaceTile, coord: c})
	}
	for _, t := range []game.PieceType{game.Disc, game.Ring} {
		for _, c := range game.ValidPiecePlacements(gs, player, t) {
			choices = append(choices, turnChoice{kind: game.ActionPlacePiece, coord: c, piece: t})
		}
	}
	for _, from := range gs.Board.Coords() {
		piece := gs.Board.PieceAt(from)
		if piece == nil || piece.Color != player {
			continue
		}
		for _, mv := range game.ValidMoves(gs, from) {
			choices = append(choices, turnChoice{kind: game.ActionMovePiece, from: from, coord: mv.To})
		}
	}

	if len(choices) == 0 {
		return turnChoice{}, false
	}
	return choices[p.rng.Intn(len(choices))], true
}

func (p *Playout) apply(gs *game.GameState, choice turnChoice) {
	var ok bool
	switch choice.kind {
	case game.ActionPlaceTile:
		ok = gs.PlaceTile(choice.coord, gs.CurrentPlayer)
	case game.ActionPlacePiece:
		ok = gs.PlacePiece(choice.coord, gs.CurrentPlayer, choice.piece)
	case game.ActionMovePiece:
		ok = gs.MovePiece(choice.from, choice.coord)
	}
	if !ok {
		log.Error().
			Str("kind", string(choice.kind)).
			Int("q", choice.coord.Q).
			Int("r", choice.coord.R).
			Msg("enumerated turn was rejected")
	}
}
