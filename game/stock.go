package game

// Starting pool sizes per color. No piece is ever created or destroyed; it
// only moves between the board, its owner's stock, and the capturer's tally.
const (
	StartingTiles = 9
	StartingDiscs = 6
	StartingRings = 3
)

// Stock tracks one color's off-board material. The captured counters live on
// the capturing side: Black's DiscsCaptured is the number of white discs
// black has taken, so for every color and type
//
//	available + on board + captured by opponent == starting pool
//
// holds after every command.
type Stock struct {
	TilesAvailable int `json:"tilesAvailable"`
	DiscsAvailable int `json:"discsAvailable"`
	RingsAvailable int `json:"ringsAvailable"`
	DiscsCaptured  int `json:"discsCaptured"`
	RingsCaptured  int `json:"ringsCaptured"`
}

// NewStock returns a full starting stock.
func NewStock() *Stock {
	return &Stock{
		TilesAvailable: StartingTiles,
		DiscsAvailable: StartingDiscs,
		RingsAvailable: StartingRings,
	}
}

// Available returns the in-stock count for the given piece type.
func (s *Stock) Available(t PieceType) int {
	if t == Ring {
		return s.RingsAvailable
	}
	return s.DiscsAvailable
}

func (s *Stock) addAvailable(t PieceType, n int) {
	if t == Ring {
		s.RingsAvailable += n
	} else {
		s.DiscsAvailable += n
	}
}

// Captured returns how many opposing pieces of the given type this side has
// captured.
func (s *Stock) Captured(t PieceType) int {
	if t == Ring {
		return s.RingsCaptured
	}
	return s.DiscsCaptured
}

func (s *Stock) addCaptured(t PieceType, n int) {
	if t == Ring {
		s.RingsCaptured += n
	} else {
		s.DiscsCaptured += n
	}
}

// Copy returns an independent copy.
func (s *Stock) Copy() *Stock {
	c := *s
	return &c
}
