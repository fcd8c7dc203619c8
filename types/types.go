// Package types contains shared data structures for broadside.
package types

import (
	"fmt"
	"strings"
)

// Vector is a cell position on the board. X grows to the right, Y grows down.
type Vector struct {
	X int
	Y int
}

// Add returns v+o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mult scales v by k.
func (v Vector) Mult(k int) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// String renders the vector the way the line protocol does: "x y".
func (v Vector) String() string {
	return fmt.Sprintf("%d %d", v.X, v.Y)
}

// Bounds holds the board dimensions.
type Bounds struct {
	Width  int
	Height int
}

// Contains reports whether v lies on the board.
func (b Bounds) Contains(v Vector) bool {
	return v.X >= 0 && v.X < b.Width && v.Y >= 0 && v.Y < b.Height
}

// Area returns the number of cells.
func (b Bounds) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// All returns every cell in row-major order.
func (b Bounds) All() []Vector {
	cells := make([]Vector, 0, b.Area())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cells = append(cells, Vector{X: x, Y: y})
		}
	}
	return cells
}

// Adjacent4 returns the edge-sharing offsets in the fixed order
// left, right, up, down.
func Adjacent4() []Vector {
	return []Vector{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
}

// Diagonal4 returns the corner-sharing offsets.
func Diagonal4() []Vector {
	return []Vector{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
}

// Neighbourhood8 returns the 3x3 block of offsets minus the centre.
func Neighbourhood8() []Vector {
	offsets := make([]Vector, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offsets = append(offsets, Vector{X: dx, Y: dy})
		}
	}
	return offsets
}

// Around returns the in-bounds cells v+offset for each offset.
func Around(v Vector, offsets []Vector, b Bounds) []Vector {
	cells := make([]Vector, 0, len(offsets))
	for _, o := range offsets {
		c := v.Add(o)
		if b.Contains(c) {
			cells = append(cells, c)
		}
	}
	return cells
}

// ShotEffect is the outcome of a single shot.
type ShotEffect int

const (
	Miss ShotEffect = iota
	Wound
	Kill
)

var shotEffectNames = map[ShotEffect]string{
	Miss:  "Miss",
	Wound: "Wound",
	Kill:  "Kill",
}

func (e ShotEffect) String() string {
	if name, ok := shotEffectNames[e]; ok {
		return name
	}
	return fmt.Sprintf("ShotEffect(%d)", int(e))
}

// ParseShotEffect accepts "Miss", "Wound" or "Kill" in any letter case.
func ParseShotEffect(s string) (ShotEffect, error) {
	for effect, name := range shotEffectNames {
		if strings.EqualFold(s, name) {
			return effect, nil
		}
	}
	return Miss, fmt.Errorf("invalid shot effect: %q", s)
}

// Orientation of a ship.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Step returns the unit vector a ship of this orientation grows along.
func (o Orientation) Step() Vector {
	if o == Vertical {
		return Vector{X: 0, Y: 1}
	}
	return Vector{X: 1, Y: 0}
}

func (o Orientation) String() string {
	if o == Vertical {
		return "v"
	}
	return "h"
}

// ParseOrientation accepts "h" or "v".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("invalid orientation: %q", s)
}
