// Package console runs a Shooter over the line protocol: one event per
// input line, one coordinate per output line.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"broadside/engine"
	"broadside/transcript"
	"broadside/types"
)

// Session serves consecutive matches read from one input stream. Every
// Init builds a fresh Shooter from the factory.
type Session struct {
	in      *bufio.Scanner
	out     *bufio.Writer
	factory engine.Factory
	log     zerolog.Logger

	recordDir string

	// current match, nil shooter means no live match
	shooter engine.Shooter
	matchID string
	cfg     engine.GameConfig
	last    types.Vector
	record  *transcript.Transcript
	rec     *transcript.Recorder // writes record to disk, nil when not recording
}

// NewSession creates a session reading events from r and writing shots to w.
func NewSession(r io.Reader, w io.Writer, factory engine.Factory) *Session {
	return &Session{
		in:      bufio.NewScanner(r),
		out:     bufio.NewWriter(w),
		factory: factory,
		log:     zerolog.Nop(),
	}
}

// WithLogger sets the logger and returns the session.
func (s *Session) WithLogger(l zerolog.Logger) *Session {
	s.log = l
	return s
}

// RecordTo enables transcript recording into dir. An empty dir disables it.
func (s *Session) RecordTo(dir string) *Session {
	s.recordDir = dir
	return s
}

// Run processes input until EOF. Protocol problems are logged and the
// offending line is skipped; only I/O errors are returned.
func (s *Session) Run() error {
	defer s.endMatch()
	for s.in.Scan() {
		if err := s.handle(s.in.Text()); err != nil {
			return err
		}
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	return nil
}

func (s *Session) handle(line string) error {
	if isBlank(line) {
		return nil
	}
	ev, err := ParseEvent(line)
	if err != nil {
		var cfgErr *engine.ConfigurationError
		if errors.As(err, &cfgErr) {
			s.log.Error().Err(err).Str("line", line).Msg("match rejected")
			s.endMatch()
			return nil
		}
		s.log.Warn().Err(err).Str("line", line).Msg("skipping line")
		return nil
	}

	if ev.Kind == engine.EventInit {
		return s.startMatch(ev.Config)
	}
	return s.outcome(ev)
}

func (s *Session) startMatch(cfg engine.GameConfig) error {
	s.endMatch()

	shooter := s.factory()
	if err := shooter.Init(cfg); err != nil {
		s.log.Error().Err(err).Msg("match rejected")
		return nil
	}
	s.shooter = shooter
	s.cfg = cfg
	s.matchID = uuid.NewString()
	s.record = transcript.New(s.matchID, cfg.Width, cfg.Height, cfg.ShipSizes)
	s.log.Info().Str("match", s.matchID).Str("shooter", shooter.Name()).
		Int("width", cfg.Width).Int("height", cfg.Height).Ints("ships", cfg.ShipSizes).
		Msg("match started")

	if s.recordDir != "" {
		rec, err := transcript.NewRecorder(s.recordDir, s.record)
		if err != nil {
			s.log.Warn().Err(err).Msg("transcript disabled for this match")
		} else {
			s.rec = rec
		}
	}
	return s.shoot()
}

func (s *Session) outcome(ev engine.Event) error {
	if s.shooter == nil {
		s.log.Warn().Stringer("event", ev.Kind).Stringer("at", ev.At).Msg("no live match, event skipped")
		return nil
	}
	if ev.At != s.last {
		s.log.Warn().Str("match", s.matchID).Stringer("at", ev.At).Stringer("last", s.last).
			Msg("outcome does not match last shot")
	}

	effect, _ := ev.Kind.Effect()
	s.shooter.Record(effect, ev.At)
	s.log.Debug().Str("match", s.matchID).Stringer("at", ev.At).Stringer("effect", effect).Msg("outcome")

	if s.rec != nil {
		if err := s.rec.AddShot(ev.At, effect); err != nil {
			s.dropRecorder(err)
		}
	} else {
		s.record.AddShot(ev.At, effect)
	}
	if effect == types.Kill && s.record.Kills() == len(s.cfg.ShipSizes) {
		s.log.Info().Str("match", s.matchID).Int("shots", len(s.record.Shots)).Msg("fleet sunk")
		if s.rec != nil {
			if err := s.rec.SetResult(true); err != nil {
				s.dropRecorder(err)
			}
		} else {
			s.record.SetResult(true)
		}
	}
	return s.shoot()
}

// shoot asks the shooter for its next cell and writes it out.
func (s *Session) shoot() error {
	at, ok := s.shooter.NextShot()
	if !ok {
		s.log.Warn().Str("match", s.matchID).Msg("no unexplored cell left")
	}
	s.last = at
	if _, err := s.out.WriteString(FormatShot(at) + "\n"); err != nil {
		return fmt.Errorf("write shot: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("write shot: %w", err)
	}
	return nil
}

func (s *Session) dropRecorder(err error) {
	s.log.Warn().Err(err).Str("match", s.matchID).Msg("transcript write failed")
	if cerr := s.rec.Close(); cerr != nil {
		s.log.Warn().Err(cerr).Str("match", s.matchID).Msg("transcript close failed")
	}
	s.rec = nil
}

// endMatch closes the current match, if any.
func (s *Session) endMatch() {
	if s.rec != nil {
		if err := s.rec.Close(); err != nil {
			s.log.Warn().Err(err).Str("match", s.matchID).Msg("transcript close failed")
		} else {
			s.log.Debug().Str("file", s.rec.FilePath).Msg("transcript saved")
		}
		s.rec = nil
	}
	s.shooter = nil
	s.record = nil
	s.matchID = ""
}

func isBlank(line string) bool {
	for _, r := range line {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
