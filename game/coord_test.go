package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Coord
		want int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{1, 0}, 1},
		{Coord{0, 0}, Coord{0, 1}, 1},
		{Coord{0, 0}, Coord{1, -1}, 1},
		{Coord{0, 0}, Coord{1, 1}, 2},
		{Coord{0, 0}, Coord{2, 0}, 2},
		{Coord{0, 0}, Coord{2, -2}, 2},
		{Coord{0, 0}, Coord{-1, -1}, 2},
		{Coord{2, -1}, Coord{-1, 1}, 3},
		{Coord{-3, 2}, Coord{-3, 2}, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Distance(c.a, c.b), "distance %v -> %v", c.a, c.b)
		assert.Equal(t, c.want, Distance(c.b, c.a), "distance is symmetric")
	}
}

func TestIsAdjacentMoveMatchesDistance(t *testing.T) {
	// Property: adjacency is exactly distance 1, ring moves exactly distance 2.
	for q := -3; q <= 3; q++ {
		for r := -3; r <= 3; r++ {
			target := Coord{q, r}
			d := Distance(Coord{0, 0}, target)
			assert.Equal(t, d == 1, IsAdjacentMove(Coord{0, 0}, target), "adjacent %v", target)
			assert.Equal(t, d == 2, IsRingMove(Coord{0, 0}, target), "ring move %v", target)
		}
	}
}

func TestIsValidJump(t *testing.T) {
	from := Coord{1, -2}
	jumps := []Coord{
		{3, -2}, {-1, -2}, // along q
		{1, 0}, {1, -4}, // along r
		{3, -4}, {-1, 0}, // along the diagonal axis
	}
	for _, to := range jumps {
		require.True(t, IsValidJump(from, to), "expected jump %v -> %v", from, to)
		mid, ok := JumpedHex(from, to)
		require.True(t, ok)
		assert.Equal(t, 1, Distance(from, mid), "midpoint is adjacent to source")
		assert.Equal(t, 1, Distance(mid, to), "midpoint is adjacent to destination")
	}

	// Two away but not collinear: a ring move, never a jump.
	nonCollinear := []Coord{{2, -1}, {0, -3}, {2, -4}, {0, 0}}
	for _, to := range nonCollinear {
		assert.Equal(t, 2, Distance(from, to))
		assert.False(t, IsValidJump(from, to), "%v -> %v is not a jump", from, to)
	}

	assert.False(t, IsValidJump(from, Coord{2, -2}), "one hex is not a jump")
	assert.False(t, IsValidJump(from, Coord{4, -2}), "three hexes is not a jump")
	_, ok := JumpedHex(from, Coord{2, -1})
	assert.False(t, ok, "JumpedHex is undefined for non-jumps")
}
