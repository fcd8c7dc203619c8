package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"broadside/board"
	"broadside/engine"
	"broadside/types"
)

// ErrNoLayout is returned by Verify for transcripts without ship records.
var ErrNoLayout = errors.New("transcript has no ship layout")

// SyntaxError reports a malformed transcript line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("transcript line %d: %s", e.Line, e.Msg)
}

// Parse reads a transcript. Blank lines and lines starting with '#' are
// skipped.
func Parse(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	sawHeader := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		fail := func(format string, args ...interface{}) error {
			return &SyntaxError{Line: lineNo, Msg: fmt.Sprintf(format, args...)}
		}

		if !sawHeader {
			if fields[0] != magic || len(fields) != 2 {
				return nil, fail("missing %s header", magic)
			}
			if v, err := strconv.Atoi(fields[1]); err != nil || v != version {
				return nil, fail("unsupported version %q", fields[1])
			}
			sawHeader = true
			continue
		}

		args := fields[1:]
		switch fields[0] {
		case "match":
			if len(args) != 1 {
				return nil, fail("match takes one id")
			}
			t.MatchID = args[0]
		case "board":
			nums, err := atoiAll(args)
			if err != nil || len(nums) != 2 {
				return nil, fail("board takes width and height")
			}
			t.Width, t.Height = nums[0], nums[1]
		case "fleet":
			nums, err := atoiAll(args)
			if err != nil {
				return nil, fail("fleet: %v", err)
			}
			t.Fleet = nums
		case "ship":
			if len(args) != 4 {
				return nil, fail("ship takes x y length orientation")
			}
			nums, err := atoiAll(args[:3])
			if err != nil {
				return nil, fail("ship: %v", err)
			}
			o, err := types.ParseOrientation(args[3])
			if err != nil {
				return nil, fail("ship: %v", err)
			}
			t.Ships = append(t.Ships, Placement{
				Origin:      types.Vector{X: nums[0], Y: nums[1]},
				Length:      nums[2],
				Orientation: o,
			})
		case "shot":
			if len(args) != 3 {
				return nil, fail("shot takes x y effect")
			}
			nums, err := atoiAll(args[:2])
			if err != nil {
				return nil, fail("shot: %v", err)
			}
			effect, err := types.ParseShotEffect(args[2])
			if err != nil {
				return nil, fail("shot: %v", err)
			}
			t.AddShot(types.Vector{X: nums[0], Y: nums[1]}, effect)
		case "result":
			if len(args) < 1 {
				return nil, fail("result takes an outcome")
			}
			switch args[0] {
			case "won":
				t.SetResult(true)
			case "lost":
				t.SetResult(false)
			default:
				return nil, fail("unknown outcome %q", args[0])
			}
		default:
			return nil, fail("unknown record %q", fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, &SyntaxError{Line: lineNo, Msg: "empty transcript"}
	}
	return t, nil
}

func atoiAll(fields []string) ([]int, error) {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}

// Load reads a transcript file.
func Load(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Info is a listing entry for a saved transcript.
type Info struct {
	FilePath string
	FileName string
	*Transcript
}

// List scans a directory for transcript files and returns them parsed,
// newest first (file names start with a timestamp). Unreadable files are
// skipped.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read transcript dir: %w", err)
	}

	var out []Info
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		t, err := Load(path)
		if err != nil {
			continue
		}
		out = append(out, Info{FilePath: path, FileName: e.Name(), Transcript: t})
	}
	return out, nil
}

// MismatchError reports a shot whose recorded effect differs from the
// effect the board produces.
type MismatchError struct {
	Index    int
	At       types.Vector
	Recorded types.ShotEffect
	Actual   types.ShotEffect
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("shot %d at (%s): recorded %v, board says %v", e.Index, e.At, e.Recorded, e.Actual)
}

// Verify rebuilds the board from the ship records and replays every shot,
// checking the recorded effects and the recorded result.
func Verify(t *Transcript) error {
	if len(t.Ships) == 0 {
		return ErrNoLayout
	}
	if t.Width <= 0 || t.Height <= 0 || t.Width > engine.MaxBoardSide || t.Height > engine.MaxBoardSide {
		return fmt.Errorf("board %dx%d out of range", t.Width, t.Height)
	}
	m := board.New(t.Width, t.Height)
	for i, p := range t.Ships {
		if !m.PlaceShip(p.Origin, p.Length, p.Orientation) {
			return fmt.Errorf("ship %d at (%s) length %d cannot be placed", i, p.Origin, p.Length)
		}
	}
	for i, s := range t.Shots {
		if got := m.Shoot(s.At); got != s.Effect {
			return &MismatchError{Index: i, At: s.At, Recorded: s.Effect, Actual: got}
		}
	}
	if t.Finished && t.Won == m.HasAliveShips() {
		return fmt.Errorf("recorded result won=%v but ships alive=%v", t.Won, m.HasAliveShips())
	}
	return nil
}
