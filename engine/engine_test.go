package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"broadside/types"
)

func TestNewGameConfigSortsSizes(t *testing.T) {
	cfg, err := NewGameConfig(10, 10, []int{4, 1, 3, 2})
	if err != nil {
		t.Fatalf("NewGameConfig: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, cfg.ShipSizes); diff != "" {
		t.Fatalf("sizes not sorted (-want +got):\n%s", diff)
	}
}

func TestNewGameConfigDoesNotAliasInput(t *testing.T) {
	in := []int{3, 2}
	cfg, _ := NewGameConfig(5, 5, in)
	cfg.ShipSizes[0] = 99
	if in[0] != 3 || in[1] != 2 {
		t.Fatalf("input slice was modified: %v", in)
	}
}

func TestNewGameConfigRejects(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		sizes []int
	}{
		{"zero width", 0, 10, []int{1}},
		{"negative height", 10, -1, []int{1}},
		{"no ships", 10, 10, nil},
		{"zero size", 10, 10, []int{2, 0}},
		{"wide board", MaxBoardSide + 1, 10, []int{1}},
		{"area overflows int", 3037000500, 3037000500, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGameConfig(tt.w, tt.h, tt.sizes)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
		})
	}
}

func TestNewGameConfigAcceptsLargestBoard(t *testing.T) {
	if _, err := NewGameConfig(MaxBoardSide, MaxBoardSide, []int{1}); err != nil {
		t.Fatalf("NewGameConfig: %v", err)
	}
}

func TestEventEffectMapping(t *testing.T) {
	tests := map[EventKind]types.ShotEffect{
		EventMiss:  types.Miss,
		EventWound: types.Wound,
		EventKill:  types.Kill,
	}
	for kind, want := range tests {
		got, ok := kind.Effect()
		if !ok || got != want {
			t.Errorf("%v.Effect() = %v ok=%v, want %v", kind, got, ok, want)
		}
	}
	if _, ok := EventInit.Effect(); ok {
		t.Error("Init should not map to a shot effect")
	}
}
