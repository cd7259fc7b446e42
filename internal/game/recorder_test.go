package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicdecks/tracker/internal/deck"
	"github.com/magicdecks/tracker/internal/storage"
)

func newTestRecorder(t *testing.T) (*Recorder, *deck.Registry) {
	t.Helper()
	svc := storage.NewTestService(t)
	registry := deck.NewRegistry(deck.NewStore(svc.DB()))
	require.NoError(t, registry.Refresh(t.Context()))
	return NewRecorder(registry), registry
}

func TestRecorderRecordMultiplayer(t *testing.T) {
	rec, registry := newTestRecorder(t)
	ctx := t.Context()

	decks := registry.Decks()
	require.Len(t, decks, 3)

	before := make(map[int64]*deck.Deck, len(decks))
	for _, d := range decks {
		before[d.ID] = d
	}

	playedAt := time.Date(2025, 7, 4, 20, 0, 0, 0, time.UTC)
	result := &Result{
		Mode: ModeMultiplayer,
		Participants: []Participant{
			{DeckID: decks[0].ID, Won: true},
			{DeckID: decks[1].ID, Won: false},
			{DeckID: decks[2].ID, Won: false},
		},
		PlayedAt: playedAt,
	}

	report, err := rec.Record(ctx, result)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotEmpty(t, report.GameID)
	assert.Len(t, report.Decks, 3)
	assert.Empty(t, report.Failed())

	for _, d := range registry.Decks() {
		prev := before[d.ID]
		assert.Equal(t, prev.TotalGames+1, d.TotalGames, "deck %s total games", d.Name)
		require.NotNil(t, d.LastPlayed)
		assert.True(t, d.LastPlayed.Equal(playedAt), "deck %s last played", d.Name)

		if d.ID == decks[0].ID {
			assert.Equal(t, prev.Wins+1, d.Wins, "winner wins")
			assert.Equal(t, prev.Losses, d.Losses, "winner losses")
		} else {
			assert.Equal(t, prev.Wins, d.Wins)
			assert.Equal(t, prev.Losses+1, d.Losses)
		}
	}
}

func TestRecorderRecomputesWinrateFromRecord(t *testing.T) {
	rec, registry := newTestRecorder(t)
	ctx := t.Context()

	decks := registry.Decks()
	var target *deck.Deck
	for _, d := range decks {
		if d.Name == "Morska" { // 30-17 over 47 games
			target = d
		}
	}
	require.NotNil(t, target)

	result := &Result{
		Mode: Mode1v1,
		Participants: []Participant{
			{DeckID: target.ID, Won: true},
			{DeckID: otherDeckID(decks, target.ID), Won: false},
		},
	}
	_, err := rec.Record(ctx, result)
	require.NoError(t, err)

	var updated *deck.Deck
	for _, d := range registry.Decks() {
		if d.ID == target.ID {
			updated = d
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, 48, updated.TotalGames)
	assert.Equal(t, 31, updated.Wins)
	// round(31/48*100) = 65
	assert.Equal(t, 65.0, updated.Winrate)
}

func TestRecorderValidationFailureChangesNothing(t *testing.T) {
	rec, registry := newTestRecorder(t)
	ctx := t.Context()

	decks := registry.Decks()
	before := decks[0].TotalGames

	result := &Result{
		Mode: ModeMultiplayer,
		Participants: []Participant{
			{DeckID: decks[0].ID, Won: false},
			{DeckID: decks[1].ID, Won: false},
		},
	}
	report, err := rec.Record(ctx, result)
	assert.Error(t, err)
	assert.Nil(t, report)

	require.NoError(t, registry.Refresh(ctx))
	assert.Equal(t, before, registry.Decks()[0].TotalGames, "failed validation must not touch stats")
}

func TestRecorderUnknownDeckReported(t *testing.T) {
	rec, registry := newTestRecorder(t)
	ctx := t.Context()

	decks := registry.Decks()
	result := &Result{
		Mode: ModeMultiplayer,
		Participants: []Participant{
			{DeckID: decks[0].ID, Won: true},
			{DeckID: 424242, Won: false},
		},
	}

	report, err := rec.Record(ctx, result)
	assert.Error(t, err)
	require.NotNil(t, report, "a partial failure still yields a report")

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int64(424242), failed[0].DeckID)

	// The known deck was still updated.
	for _, d := range registry.Decks() {
		if d.ID == decks[0].ID {
			assert.NotNil(t, d.LastPlayed)
		}
	}
}

func otherDeckID(decks []*deck.Deck, not int64) int64 {
	for _, d := range decks {
		if d.ID != not {
			return d.ID
		}
	}
	return 0
}
