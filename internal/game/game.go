// Package game records multiplayer game results against tracked decks. A
// game names two to six participating decks and at least one winner; every
// participant's lifetime statistics are updated from the outcome.
package game

import (
	"errors"
	"math"
	"time"

	"github.com/magicdecks/tracker/internal/deck"
)

// Mode distinguishes head-to-head games from pods.
type Mode string

const (
	Mode1v1         Mode = "1v1"
	ModeMultiplayer Mode = "multiplayer"
)

var (
	ErrTooFewDecks      = errors.New("a game requires at least 2 decks")
	ErrTooManyDecks     = errors.New("a game allows at most 6 decks")
	ErrDuplicateDeck    = errors.New("a deck cannot appear twice in one game")
	ErrNoWinner         = errors.New("a game requires at least one winner")
	ErrOneVOneWinner    = errors.New("a 1v1 game has exactly one winner")
	ErrOneVOneDeckCount = errors.New("a 1v1 game has exactly 2 decks")
)

// Participant is one deck's seat in a game.
type Participant struct {
	DeckID int64
	Won    bool
}

// Result describes a finished game prior to recording.
type Result struct {
	Mode         Mode
	Participants []Participant
	PlayedAt     time.Time
}

// Winners returns the winning deck IDs.
func (r *Result) Winners() []int64 {
	var ids []int64
	for _, p := range r.Participants {
		if p.Won {
			ids = append(ids, p.DeckID)
		}
	}
	return ids
}

// Validate checks the result against the game rules: 2-6 unique decks, at
// least one winner, and for 1v1 exactly two decks with a single winner.
func (r *Result) Validate() error {
	if len(r.Participants) < 2 {
		return ErrTooFewDecks
	}
	if len(r.Participants) > 6 {
		return ErrTooManyDecks
	}

	seen := make(map[int64]struct{}, len(r.Participants))
	winners := 0
	for _, p := range r.Participants {
		if _, dup := seen[p.DeckID]; dup {
			return ErrDuplicateDeck
		}
		seen[p.DeckID] = struct{}{}
		if p.Won {
			winners++
		}
	}

	if winners == 0 {
		return ErrNoWinner
	}
	if r.Mode == Mode1v1 {
		if len(r.Participants) != 2 {
			return ErrOneVOneDeckCount
		}
		if winners != 1 {
			return ErrOneVOneWinner
		}
	}
	return nil
}

// ApplyResult returns a copy of d with one more game applied. Wins or losses
// increment by outcome, and the winrate percentage is recomputed from the
// lifetime record rather than adjusted incrementally.
func ApplyResult(d *deck.Deck, won bool, playedAt time.Time) *deck.Deck {
	updated := *d
	updated.TotalGames = d.TotalGames + 1
	if won {
		updated.Wins = d.Wins + 1
	} else {
		updated.Losses = d.Losses + 1
	}
	updated.Winrate = math.Round(float64(updated.Wins) / float64(updated.TotalGames) * 100)

	t := playedAt
	updated.LastPlayed = &t
	return &updated
}
