package config

// StandardFleet is the classic ten-ship fleet for a 10x10 board.
var StandardFleet = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

// DefaultConfig returns a fresh copy of the built-in settings.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			Strategy: "targeting",
			Hunt:     "random",
			Seed:     0,
		},
		Log: LogConfig{
			Level: "info",
		},
		Referee: RefereeConfig{
			Width:   10,
			Height:  10,
			Fleet:   append([]int(nil), StandardFleet...),
			Games:   1000,
			Workers: 4,
		},
	}
}
