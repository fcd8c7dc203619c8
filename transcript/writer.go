// Package transcript writes and reads plain-text match records.
//
// A transcript is line oriented:
//
//	BSR 1
//	match 7f0c2a1e-...
//	board 10 10
//	fleet 1 1 2 3 4
//	ship 0 0 4 h
//	shot 3 4 miss
//	result won 42
//
// ship records are present only when the board layout is known (matches
// played by the local referee).
package transcript

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"broadside/board"
	"broadside/types"
)

const (
	magic   = "BSR"
	version = 1
	// Ext is the file extension of saved transcripts.
	Ext = ".bsr"
)

// Shot is one fired shot and its effect.
type Shot struct {
	At     types.Vector
	Effect types.ShotEffect
}

// Placement is one ship of the board layout.
type Placement struct {
	Origin      types.Vector
	Length      int
	Orientation types.Orientation
}

// Transcript is a complete or in-progress match record.
type Transcript struct {
	MatchID  string
	Width    int
	Height   int
	Fleet    []int
	Ships    []Placement
	Shots    []Shot
	Finished bool
	Won      bool
}

// New starts a transcript for a match.
func New(matchID string, width, height int, fleet []int) *Transcript {
	return &Transcript{
		MatchID: matchID,
		Width:   width,
		Height:  height,
		Fleet:   append([]int(nil), fleet...),
	}
}

// SetLayout records the ship layout of m.
func (t *Transcript) SetLayout(m *board.Map) {
	t.Ships = t.Ships[:0]
	for _, s := range m.Ships() {
		t.Ships = append(t.Ships, Placement{Origin: s.Origin(), Length: s.Length(), Orientation: s.Orientation()})
	}
}

// AddShot appends a shot.
func (t *Transcript) AddShot(at types.Vector, effect types.ShotEffect) {
	t.Shots = append(t.Shots, Shot{At: at, Effect: effect})
}

// SetResult marks the match finished.
func (t *Transcript) SetResult(won bool) {
	t.Finished = true
	t.Won = won
}

// Kills counts the Kill shots.
func (t *Transcript) Kills() int {
	n := 0
	for _, s := range t.Shots {
		if s.Effect == types.Kill {
			n++
		}
	}
	return n
}

// WriteTo writes the transcript in its text form.
func (t *Transcript) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", magic, version)
	if t.MatchID != "" {
		fmt.Fprintf(&b, "match %s\n", t.MatchID)
	}
	fmt.Fprintf(&b, "board %d %d\n", t.Width, t.Height)
	b.WriteString("fleet")
	for _, s := range t.Fleet {
		fmt.Fprintf(&b, " %d", s)
	}
	b.WriteString("\n")
	for _, p := range t.Ships {
		fmt.Fprintf(&b, "ship %s %d %s\n", p.Origin, p.Length, p.Orientation)
	}
	for _, s := range t.Shots {
		fmt.Fprintf(&b, "shot %s %s\n", s.At, strings.ToLower(s.Effect.String()))
	}
	if t.Finished {
		outcome := "lost"
		if t.Won {
			outcome = "won"
		}
		fmt.Fprintf(&b, "result %s %d\n", outcome, len(t.Shots))
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Recorder keeps a transcript on disk, rewriting the file after every
// change so an interrupted match still leaves a readable record.
type Recorder struct {
	FilePath string
	t        *Transcript
	file     *os.File
}

// NewRecorder creates a transcript file for t in dir and writes the header.
func NewRecorder(dir string, t *Transcript) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}

	id := t.MatchID
	if len(id) > 8 {
		id = id[:8]
	}
	filename := fmt.Sprintf("%s_%dx%d_%s%s", time.Now().Format("2006-01-02_150405"), t.Width, t.Height, id, Ext)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transcript file: %w", err)
	}

	rec := &Recorder{FilePath: path, t: t, file: f}
	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

// AddShot appends a shot and rewrites the file.
func (r *Recorder) AddShot(at types.Vector, effect types.ShotEffect) error {
	r.t.AddShot(at, effect)
	return r.flush()
}

// SetResult marks the match finished and rewrites the file.
func (r *Recorder) SetResult(won bool) error {
	r.t.SetResult(won)
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *Recorder) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.flush()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file = nil
	return err
}

// flush rewrites the complete file from scratch.
func (r *Recorder) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}
	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.t.WriteTo(r.file); err != nil {
		return err
	}
	return r.file.Sync()
}
