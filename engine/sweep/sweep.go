// Package sweep implements a baseline shooter that walks the board column
// by column, skipping cells ruled out by earlier wounds and kills.
package sweep

import (
	"github.com/dolthub/swiss"

	"broadside/engine"
	"broadside/types"
)

// Sweeper fires at cells in column-major order starting at (0,0).
type Sweeper struct {
	bounds  types.Bounds
	aim     types.Vector
	started bool
	skip    *swiss.Map[types.Vector, struct{}]
}

// New creates a Sweeper.
func New() *Sweeper {
	return &Sweeper{skip: swiss.NewMap[types.Vector, struct{}](0)}
}

// Name implements engine.Shooter.
func (s *Sweeper) Name() string { return "sweep" }

// Init implements engine.Shooter.
func (s *Sweeper) Init(cfg engine.GameConfig) error {
	valid, err := engine.NewGameConfig(cfg.Width, cfg.Height, cfg.ShipSizes)
	if err != nil {
		return err
	}
	s.bounds = valid.Bounds()
	s.aim = types.Vector{}
	s.started = false
	s.skip = swiss.NewMap[types.Vector, struct{}](uint32(s.bounds.Area()))
	return nil
}

// Record implements engine.Shooter.
func (s *Sweeper) Record(effect types.ShotEffect, at types.Vector) {
	if !s.bounds.Contains(at) {
		return
	}
	s.skip.Put(at, struct{}{})
	switch effect {
	case types.Wound:
		s.skipAround(at, types.Diagonal4())
	case types.Kill:
		s.skipAround(at, types.Diagonal4())
		s.skipAround(at, types.Adjacent4())
	}
}

func (s *Sweeper) skipAround(at types.Vector, offsets []types.Vector) {
	for _, c := range types.Around(at, offsets, s.bounds) {
		s.skip.Put(c, struct{}{})
	}
}

// NextShot implements engine.Shooter.
func (s *Sweeper) NextShot() (types.Vector, bool) {
	if s.bounds.Area() == 0 || s.skip.Count() >= s.bounds.Area() {
		return types.Vector{}, false
	}
	if !s.started {
		s.started = true
	} else {
		s.aim = s.next(s.aim)
	}
	for s.skip.Has(s.aim) {
		s.aim = s.next(s.aim)
	}
	return s.aim, true
}

// next advances down the column, then to the top of the next column,
// wrapping back to (0,0) after the last cell.
func (s *Sweeper) next(c types.Vector) types.Vector {
	c.Y++
	if c.Y >= s.bounds.Height {
		c.Y = 0
		c.X++
	}
	if c.X >= s.bounds.Width {
		c = types.Vector{}
	}
	return c
}
