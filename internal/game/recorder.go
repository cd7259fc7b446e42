package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/magicdecks/tracker/internal/deck"
	"github.com/magicdecks/tracker/internal/events"
)

// Recorder applies validated game results to decks through the registry.
// Each participant is updated independently: one deck failing to save does
// not roll back the others, and the report tells the caller exactly which
// decks were written.
type Recorder struct {
	registry *deck.Registry
}

// NewRecorder creates a recorder over the given registry.
func NewRecorder(registry *deck.Registry) *Recorder {
	return &Recorder{registry: registry}
}

// DeckReport is the per-deck outcome of recording a game.
type DeckReport struct {
	DeckID int64
	Won    bool
	Err    error
}

// Report summarizes one recorded game.
type Report struct {
	// GameID identifies this recording in logs; games themselves are not
	// persisted, only their effect on deck statistics.
	GameID   string
	PlayedAt time.Time
	Decks    []DeckReport
}

// Failed returns the reports of decks that could not be updated.
func (r *Report) Failed() []DeckReport {
	var failed []DeckReport
	for _, dr := range r.Decks {
		if dr.Err != nil {
			failed = append(failed, dr)
		}
	}
	return failed
}

// Record validates the result and updates every participating deck's
// statistics. A validation failure updates nothing. After the per-deck
// writes the registry cache is refreshed once.
func (rc *Recorder) Record(ctx context.Context, result *Result) (*Report, error) {
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game result: %w", err)
	}

	playedAt := result.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}

	report := &Report{
		GameID:   uuid.New().String(),
		PlayedAt: playedAt,
	}
	log := logrus.WithFields(logrus.Fields{
		"game_id": report.GameID,
		"mode":    result.Mode,
		"decks":   len(result.Participants),
	})

	for _, p := range result.Participants {
		err := rc.recordOne(ctx, p, playedAt)
		if err != nil {
			log.WithField("deck_id", p.DeckID).WithError(err).Error("Failed to record game for deck")
		}
		report.Decks = append(report.Decks, DeckReport{
			DeckID: p.DeckID,
			Won:    p.Won,
			Err:    err,
		})
	}

	if err := rc.registry.Refresh(ctx); err != nil {
		return report, fmt.Errorf("failed to refresh decks after recording: %w", err)
	}

	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("failed to record game for %d of %d decks", len(failed), len(result.Participants))
	}
	log.Info("Game recorded")
	rc.registry.Dispatch(events.Event{
		Type: events.TypeGameRecorded,
		Data: events.GameRecordedEvent{
			GameID:    report.GameID,
			DeckCount: len(report.Decks),
			WinnerIDs: result.Winners(),
		},
	})
	return report, nil
}

// recordOne loads the deck fresh, applies the result, and saves it.
func (rc *Recorder) recordOne(ctx context.Context, p Participant, playedAt time.Time) error {
	store := rc.registry.Store()
	current, err := store.GetDeckByID(ctx, p.DeckID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("deck %d not found", p.DeckID)
	}

	updated := ApplyResult(current, p.Won, playedAt)
	if _, err := store.UpdateDeck(ctx, updated); err != nil {
		return err
	}
	return nil
}
