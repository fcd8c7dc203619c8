// Package board implements the authoritative battleship board: ship
// placement under the no-touch rule and shot resolution.
package board

import (
	"fmt"

	"broadside/types"
)

// Cell is the state of a single board cell.
type Cell byte

const (
	CellEmpty    Cell = iota
	CellOccupied      // live ship cell
	CellHit           // ship cell that has been shot (wounded or sunk)
	CellMissed        // empty cell that has been shot
)

var cellNames = map[Cell]string{
	CellEmpty:    "empty",
	CellOccupied: "occupied",
	CellHit:      "hit",
	CellMissed:   "missed",
}

func (c Cell) String() string {
	if name, ok := cellNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Cell(%d)", byte(c))
}

const noShip = -1

// Map owns the cell grid and the ships placed on it. A Map is built for
// one match and never shared between matches.
type Map struct {
	bounds types.Bounds
	cells  []Cell
	owners []int // ship index per cell, noShip if empty
	ships  []*Ship
}

// New creates an empty width x height board.
func New(width, height int) *Map {
	b := types.Bounds{Width: width, Height: height}
	m := &Map{
		bounds: b,
		cells:  make([]Cell, b.Area()),
		owners: make([]int, b.Area()),
	}
	for i := range m.owners {
		m.owners[i] = noShip
	}
	return m
}

// Bounds returns the board dimensions.
func (m *Map) Bounds() types.Bounds { return m.bounds }

// Width returns the board width.
func (m *Map) Width() int { return m.bounds.Width }

// Height returns the board height.
func (m *Map) Height() int { return m.bounds.Height }

// InBounds reports whether p lies on the board.
func (m *Map) InBounds(p types.Vector) bool { return m.bounds.Contains(p) }

func (m *Map) index(p types.Vector) int { return p.Y*m.bounds.Width + p.X }

// At returns the state of p. Cells off the board read as empty so that
// neighbourhood checks need no extra bounds test.
func (m *Map) At(p types.Vector) Cell {
	if !m.InBounds(p) {
		return CellEmpty
	}
	return m.cells[m.index(p)]
}

// ShipAt returns the ship occupying p, or nil.
func (m *Map) ShipAt(p types.Vector) *Ship {
	if !m.InBounds(p) {
		return nil
	}
	idx := m.owners[m.index(p)]
	if idx == noShip {
		return nil
	}
	return m.ships[idx]
}

// Ships returns the placed ships in placement order.
func (m *Map) Ships() []*Ship {
	out := make([]*Ship, len(m.ships))
	copy(out, m.ships)
	return out
}

// PlaceShip puts a ship of the given length at location. It returns false
// without touching the board when the ship would leave the board, overlap
// another ship, or touch one, diagonals included.
func (m *Map) PlaceShip(location types.Vector, length int, orientation types.Orientation) bool {
	if length <= 0 || length > max(m.bounds.Width, m.bounds.Height) {
		return false
	}
	end := location.Add(orientation.Step().Mult(length - 1))
	if !m.InBounds(location) || !m.InBounds(end) {
		return false
	}
	ship := newShip(location, length, orientation)
	cells := ship.Cells()
	for _, c := range cells {
		if !m.InBounds(c) {
			return false
		}
		if m.At(c) != CellEmpty {
			return false
		}
		for _, n := range m.Neighbours(c) {
			if m.At(n) != CellEmpty {
				return false
			}
		}
	}

	idx := len(m.ships)
	for _, c := range cells {
		i := m.index(c)
		m.cells[i] = CellOccupied
		m.owners[i] = idx
	}
	m.ships = append(m.ships, ship)
	return true
}

// Shoot resolves a shot at target. Shots off the board and shots at cells
// that were already resolved are misses and change nothing.
func (m *Map) Shoot(target types.Vector) types.ShotEffect {
	if !m.InBounds(target) {
		return types.Miss
	}
	i := m.index(target)
	switch m.cells[i] {
	case CellOccupied:
		ship := m.ships[m.owners[i]]
		ship.hit(target)
		m.cells[i] = CellHit
		if ship.Alive() {
			return types.Wound
		}
		return types.Kill
	case CellEmpty:
		m.cells[i] = CellMissed
	}
	return types.Miss
}

// Neighbours returns the in-bounds cells of the 8-neighbourhood of cell.
func (m *Map) Neighbours(cell types.Vector) []types.Vector {
	return types.Around(cell, types.Neighbourhood8(), m.bounds)
}

// HasAliveShips reports whether any ship still has an unshot cell.
func (m *Map) HasAliveShips() bool {
	for _, s := range m.ships {
		if s.Alive() {
			return true
		}
	}
	return false
}

// String draws the board, one row per line: '.' empty, '#' ship,
// 'X' hit, 'o' miss.
func (m *Map) String() string {
	glyphs := map[Cell]byte{CellEmpty: '.', CellOccupied: '#', CellHit: 'X', CellMissed: 'o'}
	buf := make([]byte, 0, (m.bounds.Width+1)*m.bounds.Height)
	for y := 0; y < m.bounds.Height; y++ {
		for x := 0; x < m.bounds.Width; x++ {
			buf = append(buf, glyphs[m.At(types.Vector{X: x, Y: y})])
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
