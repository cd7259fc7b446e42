package deck

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/magicdecks/tracker/internal/storage"
	"github.com/magicdecks/tracker/internal/storage/models"
	"github.com/magicdecks/tracker/internal/storage/repository"
)

// Store is the typed persistence facade for decks. It converts between the
// stored row representation and the domain Deck type in exactly one place:
// winrate probability to display percentage, JSON color arrays to []Color,
// and ISO timestamp strings to time.Time.
type Store struct {
	db    *storage.DB
	decks repository.DeckRepository
	cards repository.CardRepository
}

// NewStore creates a deck store over an opened database.
func NewStore(db *storage.DB) *Store {
	return &Store{
		db:    db,
		decks: repository.NewDeckRepository(db.Conn()),
		cards: repository.NewCardRepository(db.Conn()),
	}
}

// GetAllDecks returns every deck with its card entries hydrated.
func (s *Store) GetAllDecks(ctx context.Context) ([]*Deck, error) {
	rows, err := s.decks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load decks: %w", err)
	}

	decks := make([]*Deck, 0, len(rows))
	for _, row := range rows {
		d, err := s.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// GetDeckByID returns one deck with its cards, or nil if it does not exist.
func (s *Store) GetDeckByID(ctx context.Context, id int64) (*Deck, error) {
	row, err := s.decks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck %d: %w", id, err)
	}
	if row == nil {
		return nil, nil
	}
	return s.hydrate(ctx, row)
}

// CreateDeck inserts a new deck and its card entries. Game counts are forced
// to zero regardless of the request; the winrate percentage is accepted and
// converted to the stored probability.
func (s *Store) CreateDeck(ctx context.Context, req *CreateDeckRequest) (*Deck, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deck: %w", err)
	}

	row := &models.Deck{
		UserID:           repository.DefaultUserID,
		Name:             req.Name,
		Colors:           marshalColors(req.Colors),
		CommanderName:    optString(req.CommanderName),
		CommanderCMC:     optInt(req.CommanderCMC),
		AverageManaValue: optFloat(req.AverageManaValue),
		BracketLevel:     req.BracketLevel,
		Winrate:          toStorageWinrate(req.Winrate),
		TotalGames:       0,
		Wins:             0,
		Losses:           0,
		Description:      optString(req.Description),
	}
	if req.LastPlayed != nil {
		ts := req.LastPlayed.UTC().Format(time.RFC3339)
		row.LastPlayed = &ts
	}

	var deckID int64
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		decks := repository.NewDeckRepository(tx)
		id, err := decks.Insert(ctx, row)
		if err != nil {
			return err
		}
		deckID = id
		return insertCards(ctx, tx, deckID, req.Cards)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	return s.GetDeckByID(ctx, deckID)
}

// UpdateDeck persists the deck's fields and replaces its card entries with
// the given set, all in one transaction. Statistics are written as-is; use
// the game recorder for result updates.
func (s *Store) UpdateDeck(ctx context.Context, d *Deck) (*Deck, error) {
	row, err := s.toRow(d)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		decks := repository.NewDeckRepository(tx)
		if err := decks.Update(ctx, row); err != nil {
			return err
		}
		if err := decks.ClearCards(ctx, d.ID); err != nil {
			return err
		}
		return insertCards(ctx, tx, d.ID, d.Cards)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update deck %d: %w", d.ID, err)
	}

	return s.GetDeckByID(ctx, d.ID)
}

// DeleteDeck removes a deck; its card entries go with it via cascade.
func (s *Store) DeleteDeck(ctx context.Context, id int64) error {
	if err := s.decks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	}
	return nil
}

// insertCards writes card entries for a deck, registering unseen catalog
// cards first so the foreign key holds.
func insertCards(ctx context.Context, tx *sql.Tx, deckID int64, entries []DeckCard) error {
	decks := repository.NewDeckRepository(tx)
	cards := repository.NewCardRepository(tx)

	for _, entry := range entries {
		if entry.Card != nil {
			if err := cards.InsertIgnore(ctx, cardToRow(entry.Card)); err != nil {
				return err
			}
		}
		category := entry.Category
		if category == "" {
			category = CategoryMain
		}
		link := &models.DeckCard{
			DeckID:   deckID,
			CardID:   entry.CardID,
			Quantity: entry.Quantity,
			Category: string(category),
		}
		if err := decks.InsertCard(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

// hydrate converts a deck row to the domain type and attaches its cards.
func (s *Store) hydrate(ctx context.Context, row *models.Deck) (*Deck, error) {
	d, err := fromRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to decode deck %d: %w", row.ID, err)
	}

	details, err := s.decks.GetCards(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards for deck %d: %w", row.ID, err)
	}
	d.Cards = make([]DeckCard, 0, len(details))
	for _, detail := range details {
		d.Cards = append(d.Cards, fromCardDetail(detail))
	}
	return d, nil
}

// fromRow converts a stored deck row to the domain type.
func fromRow(row *models.Deck) (*Deck, error) {
	colors, err := unmarshalColors(row.Colors)
	if err != nil {
		return nil, err
	}

	createdAt, err := parseTimestamp(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTimestamp(row.UpdatedAt)
	if err != nil {
		return nil, err
	}

	d := &Deck{
		ID:               row.ID,
		Name:             row.Name,
		Colors:           colors,
		CommanderName:    deref(row.CommanderName),
		CommanderCMC:     deref(row.CommanderCMC),
		AverageManaValue: deref(row.AverageManaValue),
		BracketLevel:     row.BracketLevel,
		Winrate:          toDisplayWinrate(row.Winrate),
		TotalGames:       row.TotalGames,
		Wins:             row.Wins,
		Losses:           row.Losses,
		Description:      deref(row.Description),
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	if row.LastPlayed != nil {
		t, err := parseTimestamp(*row.LastPlayed)
		if err != nil {
			return nil, err
		}
		d.LastPlayed = &t
	}
	return d, nil
}

// toRow converts a domain deck back to its stored representation.
func (s *Store) toRow(d *Deck) (*models.Deck, error) {
	for _, c := range d.Colors {
		if !c.valid() {
			return nil, fmt.Errorf("unknown color %q", c)
		}
	}
	row := &models.Deck{
		ID:               d.ID,
		UserID:           repository.DefaultUserID,
		Name:             d.Name,
		Colors:           marshalColors(d.Colors),
		CommanderName:    optString(d.CommanderName),
		CommanderCMC:     optInt(d.CommanderCMC),
		AverageManaValue: optFloat(d.AverageManaValue),
		BracketLevel:     d.BracketLevel,
		Winrate:          toStorageWinrate(d.Winrate),
		TotalGames:       d.TotalGames,
		Wins:             d.Wins,
		Losses:           d.Losses,
		Description:      optString(d.Description),
	}
	if d.LastPlayed != nil {
		ts := d.LastPlayed.UTC().Format(time.RFC3339)
		row.LastPlayed = &ts
	}
	return row, nil
}

func cardToRow(c *Card) *models.Card {
	row := &models.Card{
		ID:       c.ID,
		Name:     c.Name,
		ManaCost: optString(c.ManaCost),
		CMC:      optInt(c.CMC),
		TypeLine: optString(c.TypeLine),
	}
	if c.Rarity != "" {
		r := string(c.Rarity)
		row.Rarity = &r
	}
	if len(c.Colors) > 0 {
		s := marshalColors(c.Colors)
		row.Colors = &s
	}
	return row
}

func fromCardDetail(detail *models.DeckCardDetail) DeckCard {
	entry := DeckCard{
		CardID:   detail.CardID,
		Quantity: detail.Quantity,
		Category: Category(detail.Category),
	}
	if detail.CardName != nil {
		card := &Card{
			ID:       detail.CardID,
			Name:     *detail.CardName,
			ManaCost: deref(detail.CardManaCost),
			CMC:      deref(detail.CardCMC),
			TypeLine: deref(detail.CardTypeLine),
		}
		if detail.CardRarity != nil {
			card.Rarity = Rarity(*detail.CardRarity)
		}
		if detail.CardColors != nil {
			if colors, err := unmarshalColors(*detail.CardColors); err == nil {
				card.Colors = colors
			}
		}
		entry.Card = card
	}
	return entry
}

// toDisplayWinrate converts a stored probability to a whole display
// percentage. This and toStorageWinrate are the only conversion points, so
// the value cannot be scaled twice.
func toDisplayWinrate(p float64) float64 {
	return math.Round(p * 100)
}

// toStorageWinrate converts a display percentage back to a probability.
func toStorageWinrate(pct float64) float64 {
	return pct / 100
}

func marshalColors(colors []Color) string {
	if len(colors) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(colors)
	return string(b)
}

func unmarshalColors(s string) ([]Color, error) {
	if s == "" {
		return nil, nil
	}
	var colors []Color
	if err := json.Unmarshal([]byte(s), &colors); err != nil {
		return nil, fmt.Errorf("failed to decode colors %q: %w", s, err)
	}
	return colors, nil
}

// parseTimestamp accepts both RFC 3339 strings and SQLite's
// CURRENT_TIMESTAMP format.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func optFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
