package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

var (
	cfgFile   = "broadside/config.json"
	logFile   = "broadside/debug.log"
	envPrefix = "BROADSIDE_"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// EngineConfig selects and seeds the shooter.
type EngineConfig struct {
	Strategy string `json:"strategy"` // targeting or sweep
	Hunt     string `json:"hunt"`     // random or density
	Seed     int64  `json:"seed"`     // 0 picks a seed from the clock
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// RefereeConfig drives simulate mode.
type RefereeConfig struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Fleet     []int  `json:"fleet"`
	Games     int    `json:"games"`
	Workers   int    `json:"workers"`
	RecordDir string `json:"record_dir"`
}

type Config struct {
	Engine  EngineConfig  `json:"engine"`
	Log     LogConfig     `json:"log"`
	Referee RefereeConfig `json:"referee"`
}

// InitConfig loads the defaults, the config file found through XDG, a
// .env file in the working directory and BROADSIDE_* variables, in that
// order, and validates the result.
func InitConfig() (*Config, error) {
	config := DefaultConfig()
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	_ = godotenv.Load()
	if err := config.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyEnv overrides fields from BROADSIDE_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	get := func(name string) string { return strings.TrimSpace(getenv(envPrefix + name)) }

	if v := get("STRATEGY"); v != "" {
		c.Engine.Strategy = v
	}
	if v := get("HUNT"); v != "" {
		c.Engine.Hunt = v
	}
	if v := get("SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &InvalidConfig{fmt.Sprintf("%sSEED: %q is not an integer", envPrefix, v)}
		}
		c.Engine.Seed = seed
	}
	if v := get("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := get("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := get("BOARD"); v != "" {
		w, h, err := ParseBoard(v)
		if err != nil {
			return err
		}
		c.Referee.Width, c.Referee.Height = w, h
	}
	if v := get("FLEET"); v != "" {
		fleet, err := ParseFleet(v)
		if err != nil {
			return err
		}
		c.Referee.Fleet = fleet
	}
	for name, dst := range map[string]*int{"GAMES": &c.Referee.Games, "WORKERS": &c.Referee.Workers} {
		if v := get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return &InvalidConfig{fmt.Sprintf("%s%s: %q is not an integer", envPrefix, name, v)}
			}
			*dst = n
		}
	}
	if v := get("RECORD_DIR"); v != "" {
		c.Referee.RecordDir = v
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Engine.Strategy {
	case "targeting", "sweep":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown strategy %q", c.Engine.Strategy)}
	}
	switch c.Engine.Hunt {
	case "random", "density":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown hunt strategy %q", c.Engine.Hunt)}
	}
	if c.Referee.Width <= 0 || c.Referee.Height <= 0 {
		return &InvalidConfig{fmt.Sprintf("board %dx%d must be positive", c.Referee.Width, c.Referee.Height)}
	}
	if len(c.Referee.Fleet) == 0 {
		return &InvalidConfig{"fleet is empty"}
	}
	cells := 0
	for _, s := range c.Referee.Fleet {
		if s <= 0 {
			return &InvalidConfig{fmt.Sprintf("ship size %d must be positive", s)}
		}
		cells += s
	}
	if cells > c.Referee.Width*c.Referee.Height {
		return &InvalidConfig{"fleet has more cells than the board"}
	}
	if c.Referee.Games < 0 || c.Referee.Workers < 0 {
		return &InvalidConfig{"games and workers cannot be negative"}
	}
	return nil
}

// LogPath returns the configured log file, or the default under
// $XDG_STATE_HOME, creating its directory.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0755); err != nil {
			return "", err
		}
		return c.Log.File, nil
	}
	return xdg.StateFile(logFile)
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

// ParseBoard parses "WxH".
func ParseBoard(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, &InvalidConfig{fmt.Sprintf("board %q is not WxH", s)}
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err := errors.Join(err1, err2); err != nil {
		return 0, 0, &InvalidConfig{fmt.Sprintf("board %q is not WxH", s)}
	}
	return w, h, nil
}

// ParseFleet parses a comma separated list of ship sizes.
func ParseFleet(s string) ([]int, error) {
	var fleet []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &InvalidConfig{fmt.Sprintf("ship size %q is not an integer", f)}
		}
		fleet = append(fleet, n)
	}
	return fleet, nil
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
