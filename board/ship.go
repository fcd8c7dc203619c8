package board

import "broadside/types"

// Ship is a straight run of cells. Its geometry never changes after
// placement; only the set of alive cells shrinks as it is hit.
type Ship struct {
	origin      types.Vector
	length      int
	orientation types.Orientation
	alive       map[types.Vector]struct{}
}

func newShip(origin types.Vector, length int, orientation types.Orientation) *Ship {
	s := &Ship{
		origin:      origin,
		length:      length,
		orientation: orientation,
		alive:       make(map[types.Vector]struct{}, length),
	}
	for _, c := range s.Cells() {
		s.alive[c] = struct{}{}
	}
	return s
}

// Origin returns the top-left cell of the ship.
func (s *Ship) Origin() types.Vector { return s.origin }

// Length returns the number of cells the ship occupies.
func (s *Ship) Length() int { return s.length }

// Orientation returns the direction the ship extends from its origin.
func (s *Ship) Orientation() types.Orientation { return s.orientation }

// Cells returns the occupied cells starting at the origin.
func (s *Ship) Cells() []types.Vector {
	step := s.orientation.Step()
	cells := make([]types.Vector, 0, s.length)
	for i := 0; i < s.length; i++ {
		cells = append(cells, s.origin.Add(step.Mult(i)))
	}
	return cells
}

// Alive reports whether the ship has any unshot cell left.
func (s *Ship) Alive() bool { return len(s.alive) > 0 }

// AliveCells returns the number of unshot cells.
func (s *Ship) AliveCells() int { return len(s.alive) }

func (s *Ship) hit(p types.Vector) {
	delete(s.alive, p)
}
