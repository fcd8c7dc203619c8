package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	c.Referee.Fleet[0] = 9
	if StandardFleet[0] != 4 {
		t.Fatal("DefaultConfig aliases StandardFleet")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"strategy", func(c *Config) { c.Engine.Strategy = "psychic" }},
		{"hunt", func(c *Config) { c.Engine.Hunt = "spiral" }},
		{"board", func(c *Config) { c.Referee.Width = 0 }},
		{"empty fleet", func(c *Config) { c.Referee.Fleet = nil }},
		{"ship size", func(c *Config) { c.Referee.Fleet = []int{3, -1} }},
		{"fleet too big", func(c *Config) { c.Referee.Width, c.Referee.Height = 2, 2; c.Referee.Fleet = []int{3, 2} }},
		{"negative workers", func(c *Config) { c.Referee.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			var invalid *InvalidConfig
			if err := c.Validate(); !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidConfig, got %v", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BROADSIDE_STRATEGY":   "sweep",
		"BROADSIDE_HUNT":       "density",
		"BROADSIDE_SEED":       "99",
		"BROADSIDE_LOG_LEVEL":  "debug",
		"BROADSIDE_BOARD":      "8x6",
		"BROADSIDE_FLEET":      "3, 2,1",
		"BROADSIDE_GAMES":      "10",
		"BROADSIDE_WORKERS":    "2",
		"BROADSIDE_RECORD_DIR": "/tmp/games",
	}
	c := DefaultConfig()
	if err := c.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	want := Config{
		Engine:  EngineConfig{Strategy: "sweep", Hunt: "density", Seed: 99},
		Log:     LogConfig{Level: "debug"},
		Referee: RefereeConfig{Width: 8, Height: 6, Fleet: []int{3, 2, 1}, Games: 10, Workers: 2, RecordDir: "/tmp/games"},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("ApplyEnv mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	for _, kv := range [][2]string{
		{"BROADSIDE_SEED", "soon"},
		{"BROADSIDE_BOARD", "10by10"},
		{"BROADSIDE_FLEET", "4,three"},
		{"BROADSIDE_GAMES", "many"},
	} {
		c := DefaultConfig()
		err := c.ApplyEnv(func(k string) string {
			if k == kv[0] {
				return kv[1]
			}
			return ""
		})
		var invalid *InvalidConfig
		if !errors.As(err, &invalid) {
			t.Errorf("%s=%s: expected InvalidConfig, got %v", kv[0], kv[1], err)
		}
	}
}

func TestParseBoard(t *testing.T) {
	w, h, err := ParseBoard(" 12X7 ")
	if err != nil || w != 12 || h != 7 {
		t.Fatalf("ParseBoard = %d, %d, %v", w, h, err)
	}
	for _, bad := range []string{"", "10", "10x", "x10", "1x2x3"} {
		if _, _, err := ParseBoard(bad); err == nil {
			t.Errorf("ParseBoard(%q) should fail", bad)
		}
	}
}

func TestSaveAndInitConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("BROADSIDE_HUNT", "")
	t.Setenv("BROADSIDE_WORKERS", "3")
	xdg.Reload()
	defer xdg.Reload()

	c := DefaultConfig()
	c.Engine.Hunt = "density"
	c.Referee.Games = 7
	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "broadside", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := InitConfig()
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if loaded.Engine.Hunt != "density" || loaded.Referee.Games != 7 {
		t.Errorf("file values not applied: %+v", loaded)
	}
	if loaded.Referee.Workers != 3 {
		t.Errorf("env override not applied: workers = %d", loaded.Referee.Workers)
	}
}

func TestInitConfigRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	defer xdg.Reload()

	path := filepath.Join(dir, "broadside", "config.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"engine": {"strategy": 5}}`), 0644); err != nil {
		t.Fatal(err)
	}
	var invalid *InvalidConfig
	if _, err := InitConfig(); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

func TestLogPathExplicit(t *testing.T) {
	c := DefaultConfig()
	c.Log.File = filepath.Join(t.TempDir(), "logs", "play.log")
	got, err := c.LogPath()
	if err != nil || got != c.Log.File {
		t.Fatalf("LogPath = %q, %v", got, err)
	}
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Errorf("log dir not created: %v", err)
	}
}
