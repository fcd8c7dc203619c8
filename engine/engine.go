// Package engine defines the interface for shooting engines.
package engine

import (
	"fmt"
	"sort"

	"broadside/types"
)

// Shooter plays the attacking side of one match. A Shooter is built
// fresh for each match; Init is called exactly once before any shot.
type Shooter interface {
	// Init records the board dimensions and the fleet to be found.
	Init(cfg GameConfig) error

	// Record feeds back the effect of the shot fired at at.
	Record(effect types.ShotEffect, at types.Vector)

	// NextShot returns the next cell to fire at. ok is false once the
	// shooter has no unexplored cell left.
	NextShot() (at types.Vector, ok bool)

	// Name returns a human-readable identifier for logs.
	Name() string
}

// Factory builds a fresh Shooter for a new match.
type Factory func() Shooter

// GameConfig holds the parameters announced at the start of a match.
type GameConfig struct {
	Width     int
	Height    int
	ShipSizes []int // sorted ascending
}

// Bounds returns the board dimensions.
func (c GameConfig) Bounds() types.Bounds {
	return types.Bounds{Width: c.Width, Height: c.Height}
}

// MaxBoardSide is the largest accepted board width or height.
const MaxBoardSide = 1000

// NewGameConfig validates the match parameters and returns a config with
// a sorted copy of sizes.
func NewGameConfig(width, height int, sizes []int) (GameConfig, error) {
	if width <= 0 || height <= 0 {
		return GameConfig{}, &ConfigurationError{fmt.Sprintf("non-positive board size %dx%d", width, height)}
	}
	if width > MaxBoardSide || height > MaxBoardSide {
		return GameConfig{}, &ConfigurationError{fmt.Sprintf("board %dx%d exceeds %d cells per side", width, height, MaxBoardSide)}
	}
	if len(sizes) == 0 {
		return GameConfig{}, &ConfigurationError{"no ships"}
	}
	sorted := append([]int(nil), sizes...)
	sort.Ints(sorted)
	if sorted[0] <= 0 {
		return GameConfig{}, &ConfigurationError{fmt.Sprintf("non-positive ship size %d", sorted[0])}
	}
	return GameConfig{Width: width, Height: height, ShipSizes: sorted}, nil
}

// ConfigurationError reports a malformed match setup. The match is
// rejected rather than started with guessed values.
type ConfigurationError struct {
	err string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.err)
}

// NewConfigurationError wraps a description in a ConfigurationError.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{fmt.Sprintf(format, args...)}
}

// EventKind identifies an inbound protocol event.
type EventKind byte

const (
	EventInit EventKind = iota
	EventMiss
	EventWound
	EventKill
)

var eventKindNames = map[EventKind]string{
	EventInit:  "Init",
	EventMiss:  "Miss",
	EventWound: "Wound",
	EventKill:  "Kill",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", byte(k))
}

// Effect maps a shot event to its shot effect.
func (k EventKind) Effect() (types.ShotEffect, bool) {
	switch k {
	case EventMiss:
		return types.Miss, true
	case EventWound:
		return types.Wound, true
	case EventKill:
		return types.Kill, true
	}
	return types.Miss, false
}

// Event is one inbound line of the match protocol.
type Event struct {
	Kind   EventKind
	At     types.Vector // shot events only
	Config GameConfig   // EventInit only
}
