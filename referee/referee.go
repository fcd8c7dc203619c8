// Package referee plays local matches: it generates a fleet, lets a
// Shooter fire at it and keeps score.
package referee

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"broadside/board"
	"broadside/engine"
	"broadside/transcript"
	"broadside/types"
)

// Result is the outcome of one match.
type Result struct {
	MatchID  string
	Shooter  string
	Shots    int
	Hits     int
	BadShots int // out of bounds or already resolved
	Won      bool

	Transcript *transcript.Transcript
}

// Referee runs matches on boards of one size and fleet.
type Referee struct {
	cfg       engine.GameConfig
	factory   engine.Factory
	seed      int64
	workers   int
	recordDir string
	log       zerolog.Logger

	games atomic.Int64
}

// New creates a referee. The fleet is validated the same way an Init
// line is.
func New(width, height int, fleet []int, factory engine.Factory) (*Referee, error) {
	cfg, err := engine.NewGameConfig(width, height, fleet)
	if err != nil {
		return nil, err
	}
	return &Referee{
		cfg:     cfg,
		factory: factory,
		seed:    1,
		workers: 1,
		log:     zerolog.Nop(),
	}, nil
}

// WithSeed sets the base seed for fleet generation. Game n uses seed+n.
func (r *Referee) WithSeed(seed int64) *Referee {
	r.seed = seed
	return r
}

// WithWorkers sets how many games Series runs at once.
func (r *Referee) WithWorkers(n int) *Referee {
	if n < 1 {
		n = 1
	}
	r.workers = n
	return r
}

// RecordTo saves a transcript of every match into dir.
func (r *Referee) RecordTo(dir string) *Referee {
	r.recordDir = dir
	return r
}

// WithLogger sets the logger and returns the referee.
func (r *Referee) WithLogger(l zerolog.Logger) *Referee {
	r.log = l
	return r
}

// ShotLimit is the number of shots after which a match is abandoned.
func (r *Referee) ShotLimit() int {
	return 2 * r.cfg.Bounds().Area()
}

// Play runs the next match.
func (r *Referee) Play(ctx context.Context) (*Result, error) {
	return r.play(ctx, r.games.Add(1)-1)
}

func (r *Referee) play(ctx context.Context, game int64) (*Result, error) {
	rng := rand.New(rand.NewSource(r.seed + game))
	m, err := board.RandomFleet(rng, r.cfg.Width, r.cfg.Height, r.cfg.ShipSizes)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", game, err)
	}

	shooter := r.factory()
	if err := shooter.Init(r.cfg); err != nil {
		return nil, fmt.Errorf("game %d: init %s: %w", game, shooter.Name(), err)
	}

	id := uuid.NewString()
	res := &Result{
		MatchID:    id,
		Shooter:    shooter.Name(),
		Transcript: transcript.New(id, r.cfg.Width, r.cfg.Height, r.cfg.ShipSizes),
	}
	res.Transcript.SetLayout(m)
	log := r.log.With().Str("match", res.MatchID).Int64("game", game).Logger()

	limit := r.ShotLimit()
	for m.HasAliveShips() && res.Shots < limit {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		at, ok := shooter.NextShot()
		if !ok {
			log.Warn().Int("shots", res.Shots).Msg("shooter gave up")
			break
		}
		if !m.InBounds(at) || resolved(m.At(at)) {
			res.BadShots++
			log.Warn().Stringer("at", at).Msg("bad shot")
		}
		effect := m.Shoot(at)
		res.Shots++
		if effect != types.Miss {
			res.Hits++
		}
		res.Transcript.AddShot(at, effect)
		shooter.Record(effect, at)
	}
	res.Won = !m.HasAliveShips()
	res.Transcript.SetResult(res.Won)

	log.Debug().Str("shooter", res.Shooter).Int("shots", res.Shots).Bool("won", res.Won).Msg("match finished")

	if r.recordDir != "" {
		if err := save(r.recordDir, res.Transcript); err != nil {
			log.Warn().Err(err).Msg("transcript not saved")
		}
	}
	return res, nil
}

func resolved(c board.Cell) bool {
	return c == board.CellHit || c == board.CellMissed
}

func save(dir string, t *transcript.Transcript) error {
	rec, err := transcript.NewRecorder(dir, t)
	if err != nil {
		return err
	}
	return rec.Close()
}

// Series plays games matches on the worker pool and aggregates them.
// Every match gets its own board and shooter.
func (r *Referee) Series(ctx context.Context, games int) (Stats, error) {
	if games <= 0 {
		return Stats{}, errors.New("series needs at least one game")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int64)
	results := make(chan *Result)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range jobs {
				res, err := r.play(ctx, game)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				select {
				case results <- res:
				case <-ctx.Done():
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < games; i++ {
			select {
			case jobs <- r.games.Add(1) - 1:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var stats Stats
	for res := range results {
		stats.add(res)
		r.log.Debug().Int("done", stats.Games).Int("of", games).Msg("series progress")
	}
	if firstErr != nil {
		return stats, firstErr
	}
	if err := ctx.Err(); err != nil && stats.Games < games {
		return stats, err
	}
	return stats, nil
}
