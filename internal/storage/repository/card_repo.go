package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magicdecks/tracker/internal/storage/models"
)

// CardRepository handles database operations for the shared card catalog.
type CardRepository interface {
	// InsertIgnore inserts a card into the catalog, leaving any existing
	// row with the same id untouched.
	InsertIgnore(ctx context.Context, card *models.Card) error

	// GetByID retrieves a card by its external id, or nil if no row matches.
	GetByID(ctx context.Context, id string) (*models.Card, error)

	// List retrieves all catalog cards ordered by name.
	List(ctx context.Context) ([]*models.Card, error)

	// Count returns the number of rows in the catalog.
	Count(ctx context.Context) (int, error)
}

// cardRepository is the concrete implementation of CardRepository.
type cardRepository struct {
	db DBTX
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

// InsertIgnore inserts a card into the catalog if it does not already exist.
func (r *cardRepository) InsertIgnore(ctx context.Context, card *models.Card) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO cards (id, name, mana_cost, cmc, type_line, rarity, colors)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		card.ID,
		card.Name,
		card.ManaCost,
		card.CMC,
		card.TypeLine,
		card.Rarity,
		card.Colors,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	return nil
}

// GetByID retrieves a card by its external id.
func (r *cardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, mana_cost, cmc, type_line, rarity, colors, created_at
		FROM cards
		WHERE id = ?
	`, id).Scan(
		&card.ID,
		&card.Name,
		&card.ManaCost,
		&card.CMC,
		&card.TypeLine,
		&card.Rarity,
		&card.Colors,
		&card.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	return card, nil
}

// List retrieves all catalog cards ordered by name.
func (r *cardRepository) List(ctx context.Context) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, mana_cost, cmc, type_line, rarity, colors, created_at
		FROM cards
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		err := rows.Scan(
			&card.ID,
			&card.Name,
			&card.ManaCost,
			&card.CMC,
			&card.TypeLine,
			&card.Rarity,
			&card.Colors,
			&card.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

// Count returns the number of rows in the catalog.
func (r *cardRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}
