package gamemaster

import (
	"testing"

	"hexaequo/game"
)

// checkPools verifies every piece pool still sums to its starting size:
// available + on board + captured by the opponent.
func checkPools(t *testing.T, gs *game.GameState) {
	t.Helper()
	for _, color := range []game.Color{game.Black, game.White} {
		tiles, discs, rings := 0, 0, 0
		for _, c := range gs.Board.Coords() {
			if tile := gs.Board.TileAt(c); tile != nil && tile.Color == color {
				tiles++
			}
			if p := gs.Board.PieceAt(c); p != nil && p.Color == color {
				switch p.Type {
				case game.Disc:
					discs++
				case game.Ring:
					rings++
				}
			}
		}
		stock := gs.Stocks[color]
		opp := gs.Stocks[color.Opponent()]
		if got := stock.TilesAvailable + tiles; got != game.StartingTiles {
			t.Errorf("%s tiles: available+board = %d, want %d", color, got, game.StartingTiles)
		}
		if got := stock.DiscsAvailable + discs + opp.DiscsCaptured; got != game.StartingDiscs {
			t.Errorf("%s discs: available+board+captured = %d, want %d", color, got, game.StartingDiscs)
		}
		if got := stock.RingsAvailable + rings + opp.RingsCaptured; got != game.StartingRings {
			t.Errorf("%s rings: available+board+captured = %d, want %d", color, got, game.StartingRings)
		}
	}
}

func TestPlayoutTerminates(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		gs := game.NewGameState()
		gs.SetupNewGame()

		p := NewPlayout(seed)
		p.MaxTurns = 5000
		turns := p.Run(gs)

		if gs.Status == game.StatusOngoing {
			t.Fatalf("seed %d: game still ongoing after %d turns", seed, turns)
		}
		if turns == 0 {
			t.Fatalf("seed %d: playout took no turns", seed)
		}
		checkPools(t, gs)

		switch gs.Status {
		case game.StatusBlackWin, game.StatusWhiteWin:
			if !gs.Winner.Valid() {
				t.Errorf("seed %d: win without a winner", seed)
			}
		case game.StatusDraw:
			if gs.DrawReason == "" {
				t.Errorf("seed %d: draw without a reason", seed)
			}
		}
	}
}

func TestPlayoutIsReproducible(t *testing.T) {
	run := func() *game.Snapshot {
		gs := game.NewGameState()
		gs.SetupNewGame()
		NewPlayout(42).Run(gs)
		return gs.Snapshot()
	}
	a, b := run(), run()
	if a.GameStatus != b.GameStatus || a.Winner != b.Winner || a.DrawReason != b.DrawReason {
		t.Fatalf("same seed diverged: %+v vs %+v", a, b)
	}
	if len(a.Board.Tiles) != len(b.Board.Tiles) || len(a.Board.Pieces) != len(b.Board.Pieces) {
		t.Fatalf("same seed produced different boards")
	}
}
