// Package stats computes aggregate statistics over tracked decks.
package stats

import (
	"fmt"
	"math"

	"github.com/magicdecks/tracker/internal/deck"
)

// Summary holds collection-wide aggregates across all tracked decks.
type Summary struct {
	DeckCount   int
	TotalGames  int
	TotalWins   int
	TotalLosses int

	// OverallWinrate is the win percentage across every recorded game,
	// not the average of per-deck winrates.
	OverallWinrate float64

	MostPlayed  *deck.Deck
	BestWinrate *deck.Deck
}

// MinGamesForBest is the sample size below which a deck's winrate does not
// qualify it as the best-performing deck.
const MinGamesForBest = 5

// Summarize calculates collection aggregates from a list of decks.
func Summarize(decks []*deck.Deck) *Summary {
	s := &Summary{DeckCount: len(decks)}

	for _, d := range decks {
		s.TotalGames += d.TotalGames
		s.TotalWins += d.Wins
		s.TotalLosses += d.Losses

		if s.MostPlayed == nil || d.TotalGames > s.MostPlayed.TotalGames {
			s.MostPlayed = d
		}
		if d.TotalGames >= MinGamesForBest {
			if s.BestWinrate == nil || d.Winrate > s.BestWinrate.Winrate {
				s.BestWinrate = d
			}
		}
	}

	if s.TotalGames > 0 {
		s.OverallWinrate = math.Round(float64(s.TotalWins) / float64(s.TotalGames) * 100)
	}
	return s
}

// FormatRecord returns a human-readable record line for the collection.
func (s *Summary) FormatRecord() string {
	draws := s.TotalGames - s.TotalWins - s.TotalLosses
	if draws > 0 {
		return fmt.Sprintf("%d-%d-%d over %d games", s.TotalWins, s.TotalLosses, draws, s.TotalGames)
	}
	return fmt.Sprintf("%d-%d over %d games", s.TotalWins, s.TotalLosses, s.TotalGames)
}
