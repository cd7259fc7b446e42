package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/magicdecks/tracker/internal/storage/models"
	"github.com/magicdecks/tracker/internal/storage/repository"
)

// Service provides high-level operations over the tracker's tables and owns
// schema initialization and seeding.
type Service struct {
	db    *DB
	users repository.UserRepository
	cards repository.CardRepository
	decks repository.DeckRepository

	mu          sync.Mutex
	initialized bool
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:    db,
		users: repository.NewUserRepository(db.Conn()),
		cards: repository.NewCardRepository(db.Conn()),
		decks: repository.NewDeckRepository(db.Conn()),
	}
}

// DB returns the underlying database wrapper.
func (s *Service) DB() *DB {
	return s.db
}

// UserRepo returns the user repository.
func (s *Service) UserRepo() repository.UserRepository {
	return s.users
}

// CardRepo returns the card repository.
func (s *Service) CardRepo() repository.CardRepository {
	return s.cards
}

// DeckRepo returns the deck repository.
func (s *Service) DeckRepo() repository.DeckRepository {
	return s.decks
}

// Initialize prepares the store for use: it ensures the default owner row
// exists and seeds sample decks when the deck table is empty. The schema
// itself is created by migrations (see Open with AutoMigrate).
//
// Initialize is idempotent and safe to call from multiple entry points; an
// initialized flag plus the row-count check prevent double seeding.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.users.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	count, err := s.decks.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if count == 0 {
		if err := s.seed(ctx); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
	}

	s.initialized = true
	return nil
}

// Reset drops all core tables and re-runs initialization. Developer tooling
// only; never called from normal app flow.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()

	_, err := s.db.Conn().ExecContext(ctx, `
		DROP TABLE IF EXISTS deck_cards;
		DROP TABLE IF EXISTS cards;
		DROP TABLE IF EXISTS decks;
		DROP TABLE IF EXISTS users;
		DROP TABLE IF EXISTS schema_migrations;
	`)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	mgr, err := NewMigrationManager(s.db.Path())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to create migration manager: %w", err)
	}
	if err := mgr.Up(); err != nil {
		_ = mgr.Close()
		s.mu.Unlock()
		return fmt.Errorf("failed to re-run migrations: %w", err)
	}
	if err := mgr.Close(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to close migration manager: %w", err)
	}

	s.initialized = false
	s.mu.Unlock()

	return s.Initialize(ctx)
}

// seedDeck is one sample deck in stored representation.
type seedDeck struct {
	name             string
	colors           string
	commanderName    string
	commanderCMC     int
	averageManaValue float64
	bracketLevel     int
	winrate          float64
	totalGames       int
	wins             int
	losses           int
	description      string
	lastPlayed       string
}

// seed inserts the sample decks and their shared card catalog. Each deck and
// its card links are written in a single transaction.
func (s *Service) seed(ctx context.Context) error {
	logrus.Info("Seeding sample decks")

	sampleDecks := []seedDeck{
		{
			name:             "Morska",
			colors:           `["white","blue","green"]`,
			commanderName:    "Atraxa, Grand Unifier",
			commanderCMC:     7,
			averageManaValue: 3.2,
			bracketLevel:     4,
			winrate:          0.65,
			totalGames:       47,
			wins:             30,
			losses:           17,
			description:      "A control deck focused on card advantage and late game dominance.",
			lastPlayed:       "2024-10-20T00:00:00Z",
		},
		{
			name:             "Blaster",
			colors:           `["red","green"]`,
			commanderName:    "Xenagos, God of Revels",
			commanderCMC:     5,
			averageManaValue: 2.8,
			bracketLevel:     3,
			winrate:          0.55,
			totalGames:       32,
			wins:             18,
			losses:           14,
			description:      "An aggressive deck that aims to deal damage quickly.",
			lastPlayed:       "2024-10-22T00:00:00Z",
		},
		{
			name:             "War Doctor",
			colors:           `["white","red","green"]`,
			commanderName:    "Atla Palani, Nest Tender",
			commanderCMC:     3,
			averageManaValue: 4.1,
			bracketLevel:     3,
			winrate:          0.70,
			totalGames:       28,
			wins:             20,
			losses:           8,
			description:      "A midrange deck with powerful creatures and removal.",
			lastPlayed:       "2024-10-25T00:00:00Z",
		},
	}

	sampleCards := []*models.Card{
		sampleCard("lightning_bolt", "Lightning Bolt", "{R}", 1, "Instant", "common", `["red"]`),
		sampleCard("counterspell", "Counterspell", "{U}{U}", 2, "Instant", "common", `["blue"]`),
		sampleCard("wrath_of_god", "Wrath of God", "{2}{W}{W}", 4, "Sorcery", "rare", `["white"]`),
	}

	for _, sd := range sampleDecks {
		err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
			decks := repository.NewDeckRepository(tx)
			cards := repository.NewCardRepository(tx)

			row := &models.Deck{
				UserID:           repository.DefaultUserID,
				Name:             sd.name,
				Colors:           sd.colors,
				CommanderName:    ptr(sd.commanderName),
				CommanderCMC:     ptr(sd.commanderCMC),
				AverageManaValue: ptr(sd.averageManaValue),
				BracketLevel:     ptr(sd.bracketLevel),
				Winrate:          sd.winrate,
				TotalGames:       sd.totalGames,
				Wins:             sd.wins,
				Losses:           sd.losses,
				Description:      ptr(sd.description),
				LastPlayed:       ptr(sd.lastPlayed),
			}

			deckID, err := decks.Insert(ctx, row)
			if err != nil {
				return err
			}

			for i, card := range sampleCards {
				if err := cards.InsertIgnore(ctx, card); err != nil {
					return err
				}
				link := &models.DeckCard{
					DeckID:   deckID,
					CardID:   card.ID,
					Quantity: i + 1,
					Category: "main",
				}
				if err := decks.InsertCard(ctx, link); err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed deck %q: %w", sd.name, err)
		}
	}

	return nil
}

func sampleCard(id, name, manaCost string, cmc int, typeLine, rarity, colors string) *models.Card {
	return &models.Card{
		ID:       id,
		Name:     name,
		ManaCost: ptr(manaCost),
		CMC:      ptr(cmc),
		TypeLine: ptr(typeLine),
		Rarity:   ptr(rarity),
		Colors:   ptr(colors),
	}
}

func ptr[T any](v T) *T {
	return &v
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.db.Close()
}
