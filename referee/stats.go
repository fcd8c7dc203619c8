package referee

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats aggregates a series of matches.
type Stats struct {
	Games    int
	Wins     int
	Shots    int
	Hits     int
	BadShots int
	MinShots int // over won games
	MaxShots int // over won games
	wonShots int
}

func (s *Stats) add(r *Result) {
	s.Games++
	s.Shots += r.Shots
	s.Hits += r.Hits
	s.BadShots += r.BadShots
	if !r.Won {
		return
	}
	s.Wins++
	s.wonShots += r.Shots
	if s.Wins == 1 || r.Shots < s.MinShots {
		s.MinShots = r.Shots
	}
	if r.Shots > s.MaxShots {
		s.MaxShots = r.Shots
	}
}

// MeanShots is the average number of shots needed to win.
func (s Stats) MeanShots() float64 {
	if s.Wins == 0 {
		return 0
	}
	return float64(s.wonShots) / float64(s.Wins)
}

// Accuracy is the share of shots that hit a ship.
func (s Stats) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Shots)
}

func (s Stats) String() string {
	return fmt.Sprintf("%s games, %s won, shots to win mean %s min %d max %d, accuracy %s%%, %s bad shots",
		humanize.Comma(int64(s.Games)),
		humanize.Comma(int64(s.Wins)),
		humanize.FtoaWithDigits(s.MeanShots(), 2),
		s.MinShots, s.MaxShots,
		humanize.FtoaWithDigits(s.Accuracy()*100, 1),
		humanize.Comma(int64(s.BadShots)),
	)
}
