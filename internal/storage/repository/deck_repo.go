package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magicdecks/tracker/internal/storage/models"
)

// DeckRepository handles database operations for decks and their card links.
type DeckRepository interface {
	// Insert inserts a new deck row and returns its generated id.
	Insert(ctx context.Context, deck *models.Deck) (int64, error)

	// Update overwrites every mutable column of an existing deck and
	// refreshes updated_at.
	Update(ctx context.Context, deck *models.Deck) error

	// GetByID retrieves a deck row by id, or nil if no row matches.
	GetByID(ctx context.Context, id int64) (*models.Deck, error)

	// List retrieves all deck rows ordered by most recently updated first.
	List(ctx context.Context) ([]*models.Deck, error)

	// Count returns the number of deck rows.
	Count(ctx context.Context) (int, error)

	// Delete deletes a deck by id. Card links are removed by cascade.
	Delete(ctx context.Context, id int64) error

	// InsertCard inserts a deck-card link.
	InsertCard(ctx context.Context, card *models.DeckCard) error

	// GetCards retrieves a deck's card links joined against the catalog.
	GetCards(ctx context.Context, deckID int64) ([]*models.DeckCardDetail, error)

	// ClearCards removes all card links for a deck.
	ClearCards(ctx context.Context, deckID int64) error
}

// deckRepository is the concrete implementation of DeckRepository.
type deckRepository struct {
	db DBTX
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db DBTX) DeckRepository {
	return &deckRepository{db: db}
}

// Insert inserts a new deck row and returns its generated id.
func (r *deckRepository) Insert(ctx context.Context, deck *models.Deck) (int64, error) {
	query := `
		INSERT INTO decks (
			user_id, name, colors, commander_name, commander_cmc,
			average_mana_value, bracket_level, winrate, total_games,
			wins, losses, description, last_played
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		deck.UserID,
		deck.Name,
		deck.Colors,
		deck.CommanderName,
		deck.CommanderCMC,
		deck.AverageManaValue,
		deck.BracketLevel,
		deck.Winrate,
		deck.TotalGames,
		deck.Wins,
		deck.Losses,
		deck.Description,
		deck.LastPlayed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert deck: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get deck id: %w", err)
	}

	return id, nil
}

// Update overwrites every mutable column of an existing deck.
func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks
		SET user_id = ?, name = ?, colors = ?, commander_name = ?,
		    commander_cmc = ?, average_mana_value = ?, bracket_level = ?,
		    winrate = ?, total_games = ?, wins = ?, losses = ?,
		    description = ?, last_played = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.UserID,
		deck.Name,
		deck.Colors,
		deck.CommanderName,
		deck.CommanderCMC,
		deck.AverageManaValue,
		deck.BracketLevel,
		deck.Winrate,
		deck.TotalGames,
		deck.Wins,
		deck.Losses,
		deck.Description,
		deck.LastPlayed,
		deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	return nil
}

const deckColumns = `
	id, user_id, name, colors, commander_name, commander_cmc,
	average_mana_value, bracket_level, winrate, total_games,
	wins, losses, description, last_played, created_at, updated_at
`

// scanDeck scans a deck row from either a *sql.Row or *sql.Rows.
func scanDeck(scan func(dest ...any) error) (*models.Deck, error) {
	deck := &models.Deck{}
	err := scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Colors,
		&deck.CommanderName,
		&deck.CommanderCMC,
		&deck.AverageManaValue,
		&deck.BracketLevel,
		&deck.Winrate,
		&deck.TotalGames,
		&deck.Wins,
		&deck.Losses,
		&deck.Description,
		&deck.LastPlayed,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// GetByID retrieves a deck row by id.
func (r *deckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE id = ?`, id)

	deck, err := scanDeck(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	return deck, nil
}

// List retrieves all deck rows ordered by most recently updated first.
func (r *deckRepository) List(ctx context.Context) ([]*models.Deck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+deckColumns+` FROM decks ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []*models.Deck
	for rows.Next() {
		deck, err := scanDeck(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decks: %w", err)
	}

	return decks, nil
}

// Count returns the number of deck rows.
func (r *deckRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count decks: %w", err)
	}
	return count, nil
}

// Delete deletes a deck by id.
func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	return nil
}

// InsertCard inserts a deck-card link.
func (r *deckRepository) InsertCard(ctx context.Context, card *models.DeckCard) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO deck_cards (deck_id, card_id, quantity, category)
		VALUES (?, ?, ?, ?)
	`,
		card.DeckID,
		card.CardID,
		card.Quantity,
		card.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deck card: %w", err)
	}

	if card.ID == 0 {
		if id, err := result.LastInsertId(); err == nil {
			card.ID = id
		}
	}

	return nil
}

// GetCards retrieves a deck's card links joined against the catalog.
func (r *deckRepository) GetCards(ctx context.Context, deckID int64) ([]*models.DeckCardDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			dc.id, dc.deck_id, dc.card_id, dc.quantity, dc.category,
			c.name, c.mana_cost, c.cmc, c.type_line, c.rarity, c.colors
		FROM deck_cards dc
		LEFT JOIN cards c ON dc.card_id = c.id
		WHERE dc.deck_id = ?
		ORDER BY dc.category, dc.card_id
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.DeckCardDetail
	for rows.Next() {
		card := &models.DeckCardDetail{}
		err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.CardID,
			&card.Quantity,
			&card.Category,
			&card.CardName,
			&card.CardManaCost,
			&card.CardCMC,
			&card.CardTypeLine,
			&card.CardRarity,
			&card.CardColors,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck card: %w", err)
		}
		cards = append(cards, card)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck cards: %w", err)
	}

	return cards, nil
}

// ClearCards removes all card links for a deck.
func (r *deckRepository) ClearCards(ctx context.Context, deckID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, deckID)
	if err != nil {
		return fmt.Errorf("failed to clear deck cards: %w", err)
	}

	return nil
}
