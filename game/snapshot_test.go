package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	gs := NewGameState()
	gs.SetupNewGame()
	require.True(t, gs.PlaceTile(Coord{2, 0}, Black))
	require.True(t, gs.MovePiece(Coord{0, 0}, Coord{0, 1}))
	require.True(t, gs.EndTurn())

	data, err := gs.MarshalSnapshot()
	require.NoError(t, err)

	loaded := NewGameState()
	require.True(t, loaded.LoadSnapshot(data))

	assert.Equal(t, gs.CurrentPlayer, loaded.CurrentPlayer)
	assert.Equal(t, gs.Status, loaded.Status)
	assert.Equal(t, gs.Board.Position(), loaded.Board.Position())
	assert.Equal(t, gs.Board.History(), loaded.Board.History())
	assert.Equal(t, *gs.Stocks[Black], *loaded.Stocks[Black])
	assert.Equal(t, *gs.Stocks[White], *loaded.Stocks[White])

	// Idempotent reload: a second round trip produces the same snapshot.
	again, err := loaded.MarshalSnapshot()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	gs := NewGameState()
	gs.SetupNewGame()
	snap := gs.Snapshot()

	snap.Pieces[Black].TilesAvailable = 0
	assert.Equal(t, 7, gs.Stocks[Black].TilesAvailable, "mutating a snapshot must not touch live state")
}

func TestSnapshotShape(t *testing.T) {
	gs := NewGameState()
	gs.SetupNewGame()
	snap := gs.Snapshot()

	require.Len(t, snap.Board.Tiles, 4)
	require.Len(t, snap.Board.Pieces, 2)
	assert.Equal(t, "tile_0_0", snap.Board.Tiles[0].ID)
	assert.Equal(t, "piece_0_0", snap.Board.Pieces[0].ID)
	assert.Equal(t, Black, snap.CurrentPlayer)
	assert.Equal(t, StatusOngoing, snap.GameStatus)
	assert.NotNil(t, snap.TurnHistory, "turnHistory serializes as an array, not null")
}

func TestLoadLegacySnapshot(t *testing.T) {
	legacy := `{
		"currentPlayer": "white",
		"gameStatus": "ongoing",
		"board": {
			"tiles": {
				"0,0": {"color": "black", "piece": {"type": "disc", "player": "black"}},
				"1,0": {"color": "black"},
				"0,1": {"color": "white"},
				"-1,1": {"color": "white", "piece": {"type": "ring", "player": "white"}}
			},
			"positionHistory": []
		},
		"pieces": {
			"black": {"tilesAvailable": 7, "discsAvailable": 5, "ringsAvailable": 3, "discsCaptured": 0, "ringsCaptured": 0},
			"white": {"tilesAvailable": 7, "discsAvailable": 6, "ringsAvailable": 2, "discsCaptured": 0, "ringsCaptured": 0}
		}
	}`

	gs := NewGameState()
	require.True(t, gs.LoadSnapshot([]byte(legacy)))

	assert.Equal(t, White, gs.CurrentPlayer)
	assert.Equal(t, 4, gs.Board.TileCount())
	require.NotNil(t, gs.Board.PieceAt(Coord{0, 0}))
	assert.Equal(t, Piece{Type: Disc, Color: Black}, *gs.Board.PieceAt(Coord{0, 0}))
	require.NotNil(t, gs.Board.PieceAt(Coord{-1, 1}), "negative coordinate keys parse")
	assert.Equal(t, Piece{Type: Ring, Color: White}, *gs.Board.PieceAt(Coord{-1, 1}))
}

func TestLoadLegacySnapshotColorFallback(t *testing.T) {
	// Some legacy saves name the piece owner "color" instead of "player".
	legacy := `{
		"currentPlayer": "black",
		"board": {
			"tiles": {"0,0": {"color": "black", "piece": {"type": "disc", "color": "black"}}}
		},
		"pieces": {
			"black": {"tilesAvailable": 8, "discsAvailable": 5, "ringsAvailable": 3},
			"white": {"tilesAvailable": 9, "discsAvailable": 6, "ringsAvailable": 3}
		}
	}`
	gs := NewGameState()
	require.True(t, gs.LoadSnapshot([]byte(legacy)))
	require.NotNil(t, gs.Board.PieceAt(Coord{0, 0}))
	assert.Equal(t, Black, gs.Board.PieceAt(Coord{0, 0}).Color)
}

func TestLoadSnapshotFailuresAreAtomic(t *testing.T) {
	gs := NewGameState()
	gs.SetupNewGame()
	before, err := gs.MarshalSnapshot()
	require.NoError(t, err)

	bad := []string{
		`not json`,
		`{"currentPlayer": "purple", "board": {"tiles": []}, "pieces": {}}`,
		`{"currentPlayer": "black", "pieces": {}}`,
		`{"currentPlayer": "black", "gameStatus": "paused", "board": {"tiles": []}, "pieces": {
			"black": {}, "white": {}}}`,
		`{"currentPlayer": "black", "board": {"tiles": [{"id":"tile_0_0","q":0,"r":0,"color":"red"}]},
			"pieces": {"black": {}, "white": {}}}`,
		`{"currentPlayer": "black", "board": {"tiles": {"zero,zero": {"color":"black"}}},
			"pieces": {"black": {}, "white": {}}}`,
		`{"currentPlayer": "black", "board": {"tiles": [{"q":0,"r":0,"color":"black"}],
			"pieces": [{"q":5,"r":5,"type":"disc","color":"black"}]},
			"pieces": {"black": {}, "white": {}}}`,
		`{"currentPlayer": "black", "board": {"tiles": [{"q":0,"r":0,"color":"black"}]},
			"pieces": {"black": {"discsAvailable": -1}, "white": {}}}`,
		`{"currentPlayer": "black", "currentAction": "teleport",
			"board": {"tiles": [{"q":0,"r":0,"color":"black"}]},
			"pieces": {"black": {}, "white": {}}}`,
		`{"currentPlayer": "black", "winner": "purple",
			"board": {"tiles": [{"q":0,"r":0,"color":"black"}]},
			"pieces": {"black": {}, "white": {}}}`,
		`{"currentPlayer": "black", "gameStatus": "draw", "drawReason": "boredom",
			"board": {"tiles": [{"q":0,"r":0,"color":"black"}]},
			"pieces": {"black": {}, "white": {}}}`,
	}
	for _, input := range bad {
		assert.False(t, gs.LoadSnapshot([]byte(input)), "input: %s", input)
		after, err := gs.MarshalSnapshot()
		require.NoError(t, err)
		assert.JSONEq(t, string(before), string(after), "state must be untouched after a failed load")
	}
}

func TestLoadSnapshotMidActionThenCancel(t *testing.T) {
	source := NewGameState()
	source.SetupNewGame()
	require.True(t, source.StartAction(ActionPlaceTile, nil))
	require.True(t, source.PlaceTile(Coord{2, 0}, Black))
	data, err := source.MarshalSnapshot()
	require.NoError(t, err)

	gs := NewGameState()
	require.True(t, gs.LoadSnapshot(data))
	require.Equal(t, ActionPlaceTile, gs.CurrentAction)

	// The loaded state is the rollback point: cancelling keeps the tile
	// placed before the save and just closes the action.
	require.True(t, gs.CancelAction())
	assert.Equal(t, ActionKind(""), gs.CurrentAction)
	assert.NotNil(t, gs.Board.TileAt(Coord{2, 0}))
	assert.Equal(t, 6, gs.Stocks[Black].TilesAvailable)

	assert.True(t, gs.StartAction(ActionPlaceTile, nil), "action lifecycle usable after load")
}

func TestLoadSnapshotNotifiesObservers(t *testing.T) {
	source := NewGameState()
	source.SetupNewGame()
	data, err := source.MarshalSnapshot()
	require.NoError(t, err)

	gs := NewGameState()
	var got []EventType
	gs.Subscribe(func(ev Event) { got = append(got, ev.Type) })

	require.True(t, gs.LoadSnapshot(data))
	require.Len(t, got, 1)
	assert.Equal(t, EventGameLoaded, got[0])

	assert.False(t, gs.LoadSnapshot([]byte(`{"broken":`)))
	assert.Len(t, got, 1, "failed load must not notify")
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	gs := NewGameState()
	gs.SetupNewGame()
	data, err := gs.MarshalSnapshot()
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"currentPlayer", "gameStatus", "board", "pieces", "turnHistory"} {
		assert.Contains(t, doc, key)
	}
	var board map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["board"], &board))
	for _, key := range []string{"tiles", "pieces", "positionHistory"} {
		assert.Contains(t, board, key)
	}
}
