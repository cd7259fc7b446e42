// Package models defines the row-shaped types stored in the database.
//
// These types mirror the schema exactly: colors are JSON-encoded text,
// last_played is an ISO-8601 string, and winrate is a probability in [0, 1].
// The deck package owns the conversion to display types.
package models

// User represents an owner account. The tracker runs single-user, so in
// practice only the seeded default user (id 1) exists.
type User struct {
	ID        int64
	Name      string
	Email     *string // Nullable
	CreatedAt string
	UpdatedAt string
}

// Deck represents a deck row as stored.
type Deck struct {
	ID               int64
	UserID           int64
	Name             string
	Colors           string   // JSON-encoded string array
	CommanderName    *string  // Nullable
	CommanderCMC     *int     // Nullable
	AverageManaValue *float64 // Nullable
	BracketLevel     *int     // Nullable, 1-5
	Winrate          float64  // Probability in [0, 1]
	TotalGames       int
	Wins             int
	Losses           int
	Description      *string // Nullable
	LastPlayed       *string // Nullable, ISO-8601
	CreatedAt        string
	UpdatedAt        string
}

// Card represents a card catalog row. The ID is a stable external
// identifier, shared between decks.
type Card struct {
	ID        string
	Name      string
	ManaCost  *string // Nullable
	CMC       *int    // Nullable
	TypeLine  *string // Nullable
	Rarity    *string // Nullable: common, uncommon, rare, mythic
	Colors    *string // Nullable, JSON-encoded string array
	CreatedAt string
}

// DeckCard represents a deck-card link row. (DeckID, CardID, Category)
// is unique: a card appears in a deck at most once per category.
type DeckCard struct {
	ID       int64
	DeckID   int64
	CardID   string
	Quantity int
	Category string // main, sideboard, maybeboard
}

// DeckCardDetail is a deck-card link joined against the card catalog,
// produced when hydrating a deck.
type DeckCardDetail struct {
	DeckCard
	CardName     *string
	CardManaCost *string
	CardCMC      *int
	CardTypeLine *string
	CardRarity   *string
	CardColors   *string
}
