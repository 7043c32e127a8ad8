package game

// Coord is an axial hex coordinate. The third cube coordinate is implicit
// (s = -q - r). Coordinates are unbounded; the board grows as tiles are laid.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// directions are the 6 neighbor offsets in axial coordinates.
var directions = [6]Coord{
	{1, 0}, {1, -1}, {0, -1},
	{-1, 0}, {-1, 1}, {0, 1},
}

// Distance returns the hex distance between two axial coordinates.
func Distance(a, b Coord) int {
	dq := b.Q - a.Q
	dr := b.R - a.R
	return max3(abs(dq), abs(dr), abs(dq+dr))
}

// Neighbors returns the 6 coordinates adjacent to c.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range directions {
		out[i] = Coord{c.Q + d.Q, c.R + d.R}
	}
	return out
}

// IsAdjacentMove reports whether a and b are exactly one hex apart.
func IsAdjacentMove(a, b Coord) bool {
	return Distance(a, b) == 1
}

// IsValidJump reports whether b is exactly two hexes from a along one of the
// three axial lines. Two-away positions that are not collinear with a hex
// edge direction (e.g. dq=1, dr=1) are not jumps.
func IsValidJump(a, b Coord) bool {
	dq := b.Q - a.Q
	dr := b.R - a.R
	switch {
	case dr == 0 && (dq == 2 || dq == -2):
		return true
	case dq == 0 && (dr == 2 || dr == -2):
		return true
	case dq == 2 && dr == -2, dq == -2 && dr == 2:
		return true
	}
	return false
}

// JumpedHex returns the hex jumped over when moving from a to b. It is only
// defined for coordinate pairs accepted by IsValidJump.
func JumpedHex(a, b Coord) (Coord, bool) {
	if !IsValidJump(a, b) {
		return Coord{}, false
	}
	return Coord{(a.Q + b.Q) / 2, (a.R + b.R) / 2}, true
}

// IsRingMove reports whether b is exactly two hexes from a in any direction.
// Broader than IsValidJump: collinearity is not required.
func IsRingMove(a, b Coord) bool {
	return Distance(a, b) == 2
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
