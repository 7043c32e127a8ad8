package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexaequo/game"
)

// memStore is an in-memory SaveStore for tests.
type memStore struct {
	saves   map[string][]byte
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{saves: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, name string, snapshot []byte) error {
	if m.failPut {
		return fmt.Errorf("store unavailable")
	}
	cp := make([]byte, len(snapshot))
	copy(cp, snapshot)
	m.saves[name] = cp
	return nil
}

func (m *memStore) Get(_ context.Context, name string) ([]byte, error) {
	data, ok := m.saves[name]
	if !ok {
		return nil, fmt.Errorf("no save named %q", name)
	}
	return data, nil
}

func TestCommandsReturnSnapshot(t *testing.T) {
	e := New()
	res := e.StartNewGame()
	require.True(t, res.Success)
	require.NotNil(t, res.State)
	assert.Equal(t, game.Black, res.State.CurrentPlayer)
	assert.Len(t, res.State.Board.Tiles, 4)

	res = e.PlaceTile(game.Coord{Q: 2, R: 0}, game.Black)
	require.True(t, res.Success)
	assert.Len(t, res.State.Board.Tiles, 5)

	res = e.PlaceTile(game.Coord{Q: 9, R: 9}, game.Black)
	assert.False(t, res.Success, "illegal command fails")
	assert.Len(t, res.State.Board.Tiles, 5, "and leaves the state alone")
}

func TestQueries(t *testing.T) {
	e := New()
	e.StartNewGame()

	moves := e.ValidMoves(game.Coord{Q: 0, R: 0})
	assert.NotEmpty(t, moves)

	assert.NotEmpty(t, e.ValidTilePlacements(""), "empty color defaults to the current player")
	assert.NotEmpty(t, e.ValidPiecePlacements(game.White, game.Disc))
	assert.Empty(t, e.ValidPiecePlacements("", game.Ring), "black has no captured disc yet")
}

func TestActionRoundTripThroughEngine(t *testing.T) {
	e := New()
	e.StartNewGame()

	sel := game.Coord{Q: 0, R: 0}
	require.True(t, e.StartAction(game.ActionMovePiece, &sel).Success)
	require.True(t, e.MovePiece(game.Coord{Q: 0, R: 0}, game.Coord{Q: 0, R: 1}).Success)

	res := e.CancelAction()
	require.True(t, res.Success)
	require.Len(t, res.State.Board.Pieces, 2)
	assert.Equal(t, "piece_0_0", res.State.Board.Pieces[0].ID, "disc restored to its tile")

	assert.False(t, e.CancelAction().Success, "nothing open anymore")
	assert.False(t, e.CompleteAction().Success)
}

func TestSaveAndLoadThroughStore(t *testing.T) {
	store := newMemStore()
	e := New(WithStore(store))
	e.StartNewGame()
	require.True(t, e.PlaceTile(game.Coord{Q: 2, R: 0}, game.Black).Success)
	require.True(t, e.EndTurn().Success)

	raw, res := e.SaveGame(context.Background(), "autosave")
	require.True(t, res.Success)
	require.NotEmpty(t, raw)
	require.Contains(t, store.saves, "autosave")

	other := New(WithStore(store))
	loaded, err := other.LoadSaved(context.Background(), "autosave")
	require.NoError(t, err)
	require.True(t, loaded.Success)
	assert.Equal(t, game.White, loaded.State.CurrentPlayer)
	assert.Len(t, loaded.State.Board.Tiles, 5)
}

func TestSaveGameStoreFailure(t *testing.T) {
	store := newMemStore()
	store.failPut = true
	e := New(WithStore(store))
	e.StartNewGame()

	raw, res := e.SaveGame(context.Background(), "autosave")
	assert.Nil(t, raw)
	assert.False(t, res.Success)
}

func TestLoadSavedErrors(t *testing.T) {
	e := New()
	_, err := e.LoadSaved(context.Background(), "missing")
	assert.Error(t, err, "no store configured")

	store := newMemStore()
	store.saves["broken"] = []byte(`{"nope":`)
	e = New(WithStore(store))
	res, err := e.LoadSaved(context.Background(), "broken")
	assert.Error(t, err)
	assert.False(t, res.Success)
}

func TestLoadGameRejectsMalformedSnapshot(t *testing.T) {
	e := New()
	e.StartNewGame()
	before := e.FullState()

	res := e.LoadGame([]byte(`{"currentPlayer":"purple"}`))
	assert.False(t, res.Success)
	assert.Equal(t, before.Board.Tiles, res.State.Board.Tiles, "state untouched")
}

func TestSubscribeSeesMutations(t *testing.T) {
	e := New()
	var events []game.EventType
	e.Subscribe(func(ev game.Event) { events = append(events, ev.Type) })

	e.StartNewGame()
	require.NotEmpty(t, events)
	n := len(events)

	e.PlaceTile(game.Coord{Q: 9, R: 9}, game.Black)
	assert.Len(t, events, n, "failed command does not notify")
}
