// Package targeting implements a hunt/target shooter that reasons only
// from the outcomes of its own shots.
//
// In hunt mode it samples unexplored cells, skipping any cell that cannot
// host the smallest ship still afloat. After a wound it switches to
// target mode and probes the edge-adjacent cells of the most recent wound
// until the ship is sunk. Because ships never touch, a wound rules out
// its four diagonal cells and a kill rules out the whole perimeter of the
// sunk ship.
package targeting

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/rs/zerolog"

	"broadside/engine"
	"broadside/types"
)

// Mode is the phase the engine is in.
type Mode byte

const (
	ModeHunt   Mode = iota // no known wounded ship
	ModeTarget             // finishing a wounded ship
)

func (m Mode) String() string {
	if m == ModeTarget {
		return "target"
	}
	return "hunt"
}

// mode is either hunt or *target.
type mode interface {
	kind() Mode
}

type hunt struct{}

func (hunt) kind() Mode { return ModeHunt }

// target holds wounded cells of ships not yet sunk, most recent last.
type target struct {
	stack []types.Vector
}

func (*target) kind() Mode { return ModeTarget }

// HuntStrategy selects how hunt mode picks among plausible cells.
type HuntStrategy byte

const (
	// HuntRandom draws uniformly among cells that pass the ship-fit check.
	HuntRandom HuntStrategy = iota
	// HuntDensity picks the cell covered by the most placements of the
	// remaining ships.
	HuntDensity
)

func (h HuntStrategy) String() string {
	if h == HuntDensity {
		return "density"
	}
	return "random"
}

// ParseHuntStrategy accepts "random" or "density".
func ParseHuntStrategy(s string) (HuntStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return HuntRandom, nil
	case "density":
		return HuntDensity, nil
	}
	return HuntRandom, fmt.Errorf("unknown hunt strategy: %q", s)
}

// Engine is the targeting shooter. It is not safe for concurrent use;
// each match gets its own Engine.
type Engine struct {
	bounds    types.Bounds
	excluded  *swiss.Map[types.Vector, struct{}]
	fired     *swiss.Map[types.Vector, struct{}]
	wounded   *swiss.Map[types.Vector, struct{}]
	remaining []int // ascending
	mode      mode

	hunt HuntStrategy
	rng  *rand.Rand
	log  zerolog.Logger
}

// New creates an engine drawing hunt candidates from rng.
func New(h HuntStrategy, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Engine{
		excluded: swiss.NewMap[types.Vector, struct{}](0),
		fired:    swiss.NewMap[types.Vector, struct{}](0),
		wounded:  swiss.NewMap[types.Vector, struct{}](0),
		mode:     hunt{},
		hunt:     h,
		rng:      rng,
		log:      zerolog.Nop(),
	}
}

// WithLogger sets the logger and returns the engine.
func (e *Engine) WithLogger(l zerolog.Logger) *Engine {
	e.log = l
	return e
}

// Name implements engine.Shooter.
func (e *Engine) Name() string { return "targeting/" + e.hunt.String() }

// Init implements engine.Shooter. It discards all knowledge from any
// previous match.
func (e *Engine) Init(cfg engine.GameConfig) error {
	valid, err := engine.NewGameConfig(cfg.Width, cfg.Height, cfg.ShipSizes)
	if err != nil {
		return err
	}
	e.bounds = valid.Bounds()
	size := uint32(e.bounds.Area())
	e.excluded = swiss.NewMap[types.Vector, struct{}](size)
	e.fired = swiss.NewMap[types.Vector, struct{}](size)
	e.wounded = swiss.NewMap[types.Vector, struct{}](size)
	e.remaining = valid.ShipSizes
	e.mode = hunt{}
	e.log.Debug().Int("width", e.bounds.Width).Int("height", e.bounds.Height).
		Ints("ships", e.remaining).Msg("targeting init")
	return nil
}

// Mode reports whether the engine is hunting or finishing a ship.
func (e *Engine) Mode() Mode { return e.mode.kind() }

// HuntStack returns a copy of the wounded cells driving target mode, most
// recent last.
func (e *Engine) HuntStack() []types.Vector {
	t, ok := e.mode.(*target)
	if !ok {
		return nil
	}
	return append([]types.Vector(nil), t.stack...)
}

// RemainingShipSizes returns the sizes of ships not yet sunk, ascending.
func (e *Engine) RemainingShipSizes() []int {
	return append([]int(nil), e.remaining...)
}

// Excluded reports whether p is known not to hold an unshot ship cell.
func (e *Engine) Excluded(p types.Vector) bool {
	return e.excluded.Has(p)
}

// Record implements engine.Shooter.
func (e *Engine) Record(effect types.ShotEffect, at types.Vector) {
	if !e.bounds.Contains(at) {
		e.log.Warn().Stringer("at", at).Stringer("effect", effect).Msg("ignoring outcome outside the board")
		return
	}
	e.exclude(at)
	e.fired.Put(at, struct{}{})
	switch effect {
	case types.Wound:
		e.excludeAround(at, types.Diagonal4())
		e.wounded.Put(at, struct{}{})
		e.push(at)
	case types.Kill:
		e.sink(at)
	}
}

func (e *Engine) exclude(p types.Vector) {
	e.excluded.Put(p, struct{}{})
}

func (e *Engine) excludeAround(p types.Vector, offsets []types.Vector) {
	for _, c := range types.Around(p, offsets, e.bounds) {
		e.exclude(c)
	}
}

func (e *Engine) push(p types.Vector) {
	switch m := e.mode.(type) {
	case *target:
		m.stack = append(m.stack, p)
	default:
		e.mode = &target{stack: []types.Vector{p}}
		e.log.Debug().Stringer("at", p).Msg("switching to target mode")
	}
}

// sink handles a kill at p: it recovers the sunk ship from the wounded
// cells in line with p, closes off its perimeter and forgets it.
func (e *Engine) sink(p types.Vector) {
	cells := []types.Vector{p}
	for _, step := range types.Adjacent4() {
		for c := p.Add(step); e.wounded.Has(c); c = c.Add(step) {
			cells = append(cells, c)
		}
	}

	sunk := make(map[types.Vector]struct{}, len(cells))
	for _, c := range cells {
		sunk[c] = struct{}{}
		e.wounded.Delete(c)
		e.excludeAround(c, types.Neighbourhood8())
	}
	e.removeSize(len(cells))

	if t, ok := e.mode.(*target); ok {
		kept := t.stack[:0]
		for _, c := range t.stack {
			if _, dead := sunk[c]; !dead {
				kept = append(kept, c)
			}
		}
		t.stack = kept
		if len(t.stack) == 0 {
			e.mode = hunt{}
		}
	}
	e.log.Debug().Stringer("at", p).Int("length", len(cells)).
		Ints("remaining", e.remaining).Msg("ship sunk")
}

// removeSize drops one ship of the given length from the remaining fleet.
// If the fleet has no ship of exactly that length, the smallest longer
// one is dropped instead.
func (e *Engine) removeSize(length int) {
	i := sort.SearchInts(e.remaining, length)
	if i == len(e.remaining) {
		e.log.Warn().Int("length", length).Ints("remaining", e.remaining).
			Msg("sunk ship longer than any remaining ship")
		return
	}
	e.remaining = append(e.remaining[:i], e.remaining[i+1:]...)
}

// NextShot implements engine.Shooter.
func (e *Engine) NextShot() (types.Vector, bool) {
	for {
		t, ok := e.mode.(*target)
		if !ok {
			break
		}
		top := t.stack[len(t.stack)-1]
		for _, c := range types.Around(top, types.Adjacent4(), e.bounds) {
			if !e.excluded.Has(c) {
				return c, true
			}
		}
		t.stack = t.stack[:len(t.stack)-1]
		if len(t.stack) == 0 {
			e.mode = hunt{}
			e.log.Debug().Msg("target stack exhausted, back to hunt mode")
		}
	}

	if e.hunt == HuntDensity {
		return e.huntDensity()
	}
	return e.huntRandom()
}

func (e *Engine) open(p types.Vector) bool {
	return e.bounds.Contains(p) && !e.excluded.Has(p)
}

func (e *Engine) openCells() []types.Vector {
	var cells []types.Vector
	for _, c := range e.bounds.All() {
		if !e.excluded.Has(c) {
			cells = append(cells, c)
		}
	}
	return cells
}

func (e *Engine) smallestRemaining() int {
	if len(e.remaining) == 0 {
		return 1
	}
	return e.remaining[0]
}

// runLength counts the open cells in an unbroken line through p along step.
func (e *Engine) runLength(p, step types.Vector) int {
	n := 1
	for c := p.Add(step); e.open(c); c = c.Add(step) {
		n++
	}
	for c := p.Sub(step); e.open(c); c = c.Sub(step) {
		n++
	}
	return n
}

// fits reports whether an open line of at least size cells runs through p.
func (e *Engine) fits(p types.Vector, size int) bool {
	return e.runLength(p, types.Horizontal.Step()) >= size ||
		e.runLength(p, types.Vertical.Step()) >= size
}

// huntRandom walks a shuffled list of open cells and fires at the first
// one that can host the smallest remaining ship. Cells that cannot are
// excluded for the rest of the match. If no cell fits, it falls back to
// any cell not yet shot.
func (e *Engine) huntRandom() (types.Vector, bool) {
	candidates := e.openCells()
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	size := e.smallestRemaining()
	for _, c := range candidates {
		if e.fits(c, size) {
			return c, true
		}
		e.exclude(c)
	}
	return e.fallback()
}

// fallback fires at a random cell that has not been fired at yet. It only
// runs when the fleet bookkeeping rules out every cell, which means the
// reported outcomes disagree with the announced fleet.
func (e *Engine) fallback() (types.Vector, bool) {
	var left []types.Vector
	for _, c := range e.bounds.All() {
		if !e.fired.Has(c) {
			left = append(left, c)
		}
	}
	if len(left) == 0 {
		return types.Vector{}, false
	}
	c := left[e.rng.Intn(len(left))]
	e.exclude(c)
	e.fired.Put(c, struct{}{})
	e.log.Warn().Stringer("at", c).Ints("remaining", e.remaining).
		Msg("no cell fits the remaining fleet, firing anyway")
	return c, true
}

// huntDensity scores every open cell by the number of remaining-ship
// placements covering it and fires at a best-scoring cell. Zero-score
// cells are excluded the same way huntRandom excludes misfits, with the
// same fallback.
func (e *Engine) huntDensity() (types.Vector, bool) {
	scores := e.densityMap()
	best := 0
	var ties []types.Vector
	for _, c := range e.openCells() {
		s := scores[c]
		switch {
		case s == 0:
			e.exclude(c)
		case s > best:
			best = s
			ties = append(ties[:0], c)
		case s == best:
			ties = append(ties, c)
		}
	}
	if len(ties) == 0 {
		return e.fallback()
	}
	return ties[e.rng.Intn(len(ties))], true
}

func (e *Engine) densityMap() map[types.Vector]int {
	sizes := e.remaining
	if len(sizes) == 0 {
		sizes = []int{1}
	}
	scores := make(map[types.Vector]int)
	for _, size := range sizes {
		for _, origin := range e.bounds.All() {
			for _, o := range []types.Orientation{types.Horizontal, types.Vertical} {
				if size == 1 && o == types.Vertical {
					continue
				}
				step := o.Step()
				if !e.lineOpen(origin, step, size) {
					continue
				}
				for i := 0; i < size; i++ {
					scores[origin.Add(step.Mult(i))]++
				}
			}
		}
	}
	return scores
}

func (e *Engine) lineOpen(origin, step types.Vector, size int) bool {
	for i := 0; i < size; i++ {
		if !e.open(origin.Add(step.Mult(i))) {
			return false
		}
	}
	return true
}
