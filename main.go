// broadside is a battleship shooter. By default it plays the line protocol
// on stdin/stdout; it can also simulate matches locally and verify saved
// transcripts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"broadside/config"
	"broadside/engine"
	"broadside/engine/console"
	"broadside/engine/sweep"
	"broadside/engine/targeting"
	"broadside/referee"
	"broadside/transcript"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagSimulate = flag.Int("simulate", 0, "Play N local matches and print statistics (-1 uses the configured count)")
	flagVerify   = flag.String("verify", "", "Verify a transcript file, or every transcript in a directory")
	flagStrategy = flag.String("strategy", "", "Shooter: targeting or sweep")
	flagHunt     = flag.String("hunt", "", "Hunt mode of the targeting shooter: random or density")
	flagSeed     = flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	flagBoard    = flag.String("board", "", "Board size for simulate, as WxH")
	flagFleet    = flag.String("fleet", "", "Ship sizes for simulate, comma separated")
	flagWorkers  = flag.Int("workers", 0, "Matches simulated in parallel")
	flagRecord   = flag.String("record", "", "Save match transcripts into this directory")
	flagLogLevel = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flagVersion  = flag.Bool("version", false, "Print version and exit")
	flagWriteCfg = flag.Bool("write-config", false, "Save the effective settings to the config file and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("broadside %s\n", Version)
		return
	}

	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *flagWriteCfg {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "save config: %s\n", err)
			os.Exit(1)
		}
		return
	}

	playMode := *flagSimulate == 0 && *flagVerify == ""
	logger, closeLog, err := setupLogger(cfg, playMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log setup failed: %s\n", err)
		os.Exit(1)
	}
	defer closeLog()

	factory, err := shooterFactory(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("invalid shooter")
		os.Exit(2)
	}

	switch {
	case *flagVerify != "":
		err = verify(*flagVerify, logger)
	case *flagSimulate != 0:
		games := *flagSimulate
		if games < 0 {
			games = cfg.Referee.Games
		}
		err = simulate(cfg, games, factory, logger)
	default:
		logger.Info().Str("version", Version).Str("strategy", cfg.Engine.Strategy).Msg("playing on stdin/stdout")
		err = console.NewSession(os.Stdin, os.Stdout, factory).
			WithLogger(logger).
			RecordTo(cfg.Referee.RecordDir).
			Run()
	}
	if err != nil {
		logger.Error().Err(err).Msg("exiting")
		closeLog()
		os.Exit(1)
	}
}

// applyFlags overrides the loaded config with flags given on the command line.
func applyFlags(cfg *config.Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "strategy":
			cfg.Engine.Strategy = *flagStrategy
		case "hunt":
			cfg.Engine.Hunt = *flagHunt
		case "seed":
			cfg.Engine.Seed = *flagSeed
		case "board":
			cfg.Referee.Width, cfg.Referee.Height, err = config.ParseBoard(*flagBoard)
		case "fleet":
			cfg.Referee.Fleet, err = config.ParseFleet(*flagFleet)
		case "workers":
			cfg.Referee.Workers = *flagWorkers
		case "record":
			cfg.Referee.RecordDir = *flagRecord
		case "log-level":
			cfg.Log.Level = *flagLogLevel
		}
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// setupLogger logs to a file in play mode, since stdout carries the
// protocol, and to stderr otherwise.
func setupLogger(cfg *config.Config, toFile bool) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	closeFn := func() {}
	if toFile {
		path, err := cfg.LogPath()
		if err != nil {
			return zerolog.Nop(), closeFn, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closeFn, err
		}
		out = f
		closeFn = func() { f.Close() }
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closeFn, nil
}

// shooterFactory builds the configured shooter. Each shooter gets its own
// random source so concurrent matches never share one.
func shooterFactory(cfg *config.Config, logger zerolog.Logger) (engine.Factory, error) {
	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var n atomic.Int64

	switch cfg.Engine.Strategy {
	case "sweep":
		return func() engine.Shooter { return sweep.New() }, nil
	case "targeting":
		hunt, err := targeting.ParseHuntStrategy(cfg.Engine.Hunt)
		if err != nil {
			return nil, err
		}
		shooterLog := logger.With().Str("component", "targeting").Logger()
		return func() engine.Shooter {
			rng := rand.New(rand.NewSource(seed + n.Add(1)))
			return targeting.New(hunt, rng).WithLogger(shooterLog)
		}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", cfg.Engine.Strategy)
}

func simulate(cfg *config.Config, games int, factory engine.Factory, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := referee.New(cfg.Referee.Width, cfg.Referee.Height, cfg.Referee.Fleet, factory)
	if err != nil {
		return err
	}
	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.WithSeed(seed).
		WithWorkers(cfg.Referee.Workers).
		RecordTo(cfg.Referee.RecordDir).
		WithLogger(logger)

	start := time.Now()
	stats, err := r.Series(ctx, games)
	if err != nil {
		return err
	}
	logger.Info().Dur("took", time.Since(start)).Int64("seed", seed).Msg("simulation finished")
	fmt.Println(stats)
	return nil
}

func verify(path string, logger zerolog.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var files []transcript.Info
	if info.IsDir() {
		files, err = transcript.List(path)
		if err != nil {
			return err
		}
	} else {
		t, err := transcript.Load(path)
		if err != nil {
			return err
		}
		files = []transcript.Info{{FilePath: path, FileName: info.Name(), Transcript: t}}
	}

	failed := 0
	for _, f := range files {
		err := transcript.Verify(f.Transcript)
		if errors.Is(err, transcript.ErrNoLayout) {
			logger.Info().Str("file", f.FileName).Msg("no ship layout, skipped")
			continue
		}
		if err != nil {
			failed++
			logger.Error().Err(err).Str("file", f.FileName).Msg("transcript does not verify")
			continue
		}
		logger.Info().Str("file", f.FileName).Int("shots", len(f.Shots)).Bool("won", f.Won).Msg("ok")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d transcripts failed verification", failed, len(files))
	}
	return nil
}
