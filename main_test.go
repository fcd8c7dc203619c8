package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"broadside/board"
	"broadside/transcript"
)

func writeTranscript(t *testing.T, dir, name string, tr *transcript.Transcript) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name+transcript.Ext))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := tr.WriteTo(f); err != nil {
		t.Fatal(err)
	}
}

func TestVerifySkipsPlayModeTranscripts(t *testing.T) {
	dir := t.TempDir()

	m, err := board.RandomFleet(rand.New(rand.NewSource(2)), 5, 5, []int{2, 1})
	if err != nil {
		t.Fatalf("RandomFleet: %v", err)
	}
	full := transcript.New("full", 5, 5, []int{1, 2})
	full.SetLayout(m)
	for _, c := range m.Bounds().All() {
		if !m.HasAliveShips() {
			break
		}
		full.AddShot(c, m.Shoot(c))
	}
	full.SetResult(true)
	writeTranscript(t, dir, "2024-01-01_120000_5x5_full", full)

	played := transcript.New("played", 5, 5, []int{1, 2})
	writeTranscript(t, dir, "2024-01-02_120000_5x5_played", played)

	if err := verify(dir, zerolog.Nop()); err != nil {
		t.Fatalf("verify: %v", err)
	}

	bad := transcript.New("bad", 5, 5, []int{1, 2})
	bad.SetLayout(m)
	bad.SetResult(true)
	writeTranscript(t, dir, "2024-01-03_120000_5x5_bad", bad)
	if err := verify(dir, zerolog.Nop()); err == nil {
		t.Fatal("expected a won record with ships afloat to fail")
	}
}
