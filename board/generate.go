package board

import (
	"errors"
	"math/rand"
	"sort"

	"broadside/types"
)

// ErrFleetDoesNotFit is returned when a fleet cannot be placed on a board
// within the attempt limits.
var ErrFleetDoesNotFit = errors.New("fleet does not fit on board")

const (
	placementAttempts = 200
	boardRestarts     = 50
)

// RandomFleet places ships of the given sizes at random, largest first.
// Each ship gets a bounded number of random positions; if one cannot be
// placed the whole board is restarted.
func RandomFleet(rng *rand.Rand, width, height int, sizes []int) (*Map, error) {
	order := append([]int(nil), sizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	for restart := 0; restart < boardRestarts; restart++ {
		m := New(width, height)
		if placeAll(rng, m, order) {
			return m, nil
		}
	}
	return nil, ErrFleetDoesNotFit
}

func placeAll(rng *rand.Rand, m *Map, sizes []int) bool {
	for _, size := range sizes {
		if !placeOne(rng, m, size) {
			return false
		}
	}
	return true
}

func placeOne(rng *rand.Rand, m *Map, size int) bool {
	if size <= 0 || m.Width() <= 0 || m.Height() <= 0 {
		return false
	}
	for attempt := 0; attempt < placementAttempts; attempt++ {
		orientation := types.Horizontal
		if rng.Intn(2) == 1 {
			orientation = types.Vertical
		}
		origin := types.Vector{X: rng.Intn(m.Width()), Y: rng.Intn(m.Height())}
		if m.PlaceShip(origin, size, orientation) {
			return true
		}
	}
	return false
}
