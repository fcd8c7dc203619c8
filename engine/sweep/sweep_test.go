package sweep

import (
	"math/rand"
	"testing"

	"broadside/board"
	"broadside/engine"
	"broadside/types"
)

func TestSweepOrder(t *testing.T) {
	s := New()
	if err := s.Init(engine.GameConfig{Width: 2, Height: 2, ShipSizes: []int{1}}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	want := []types.Vector{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	for i, w := range want {
		got, ok := s.NextShot()
		if !ok || got != w {
			t.Fatalf("shot %d = %v ok=%v, want %v", i, got, ok, w)
		}
		s.Record(types.Miss, got)
	}
	if _, ok := s.NextShot(); ok {
		t.Fatal("board exhausted, expected no shot")
	}
}

func TestSweepSkipsAroundKill(t *testing.T) {
	s := New()
	s.Init(engine.GameConfig{Width: 3, Height: 3, ShipSizes: []int{1}})
	first, _ := s.NextShot()
	s.Record(types.Kill, first)
	got, _ := s.NextShot()
	// (0,1), (1,0) and (1,1) are around the kill; (0,2) is next in column 0.
	if got != (types.Vector{X: 0, Y: 2}) {
		t.Fatalf("expected (0,2), got %v", got)
	}
}

func TestSweepSinksFleet(t *testing.T) {
	sizes := []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}
	rng := rand.New(rand.NewSource(2))
	for game := 0; game < 10; game++ {
		m, err := board.RandomFleet(rng, 10, 10, sizes)
		if err != nil {
			t.Fatalf("RandomFleet: %v", err)
		}
		s := New()
		s.Init(engine.GameConfig{Width: 10, Height: 10, ShipSizes: sizes})
		shots := 0
		for m.HasAliveShips() {
			shot, ok := s.NextShot()
			if !ok {
				t.Fatalf("game %d: sweeper ran out of cells", game)
			}
			shots++
			if shots > 100 {
				t.Fatalf("game %d: more shots than cells", game)
			}
			s.Record(m.Shoot(shot), shot)
		}
	}
}
