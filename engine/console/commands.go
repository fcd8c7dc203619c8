package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"broadside/engine"
	"broadside/types"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMalformedEvent = errors.New("malformed event")
)

var commandKinds = map[string]engine.EventKind{
	"Init":  engine.EventInit,
	"Miss":  engine.EventMiss,
	"Wound": engine.EventWound,
	"Kill":  engine.EventKill,
}

// ParseEvent parses one inbound line:
//
//	Init <width> <height> <shipSize>+
//	Miss|Wound|Kill <x> <y>
//
// A malformed Init yields an *engine.ConfigurationError.
func ParseEvent(line string) (engine.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return engine.Event{}, fmt.Errorf("%w: empty line", ErrMalformedEvent)
	}
	kind, ok := commandKinds[fields[0]]
	if !ok {
		return engine.Event{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	if kind == engine.EventInit {
		cfg, err := parseInit(fields[1:])
		if err != nil {
			return engine.Event{}, err
		}
		return engine.Event{Kind: kind, Config: cfg}, nil
	}

	at, err := parseVector(fields[1:])
	if err != nil {
		return engine.Event{}, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, fields[0], err)
	}
	return engine.Event{Kind: kind, At: at}, nil
}

func parseInit(args []string) (engine.GameConfig, error) {
	if len(args) < 3 {
		return engine.GameConfig{}, engine.NewConfigurationError("Init needs width, height and at least one ship size, got %d values", len(args))
	}
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return engine.GameConfig{}, engine.NewConfigurationError("Init value %q is not an integer", a)
		}
		nums[i] = n
	}
	return engine.NewGameConfig(nums[0], nums[1], nums[2:])
}

func parseVector(args []string) (types.Vector, error) {
	if len(args) != 2 {
		return types.Vector{}, fmt.Errorf("expected x and y, got %d values", len(args))
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return types.Vector{}, fmt.Errorf("invalid x %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return types.Vector{}, fmt.Errorf("invalid y %q", args[1])
	}
	return types.Vector{X: x, Y: y}, nil
}

// FormatShot renders an outbound coordinate line without the newline.
func FormatShot(v types.Vector) string {
	return v.String()
}
