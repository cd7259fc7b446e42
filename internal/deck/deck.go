// Package deck provides the domain model for tracked decks: the typed deck
// entity, a store facade over the persistence layer, an in-memory registry
// holding application deck state, and list filtering and sorting.
package deck

import (
	"fmt"
	"strings"
	"time"
)

// Color is one of the five mana colors.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlue  Color = "blue"
	ColorBlack Color = "black"
	ColorRed   Color = "red"
	ColorGreen Color = "green"
)

// Colors lists all five colors in canonical WUBRG order.
func Colors() []Color {
	return []Color{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}
}

// valid reports whether c is one of the five known colors.
func (c Color) valid() bool {
	switch c {
	case ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen:
		return true
	}
	return false
}

// Rarity is a card's printed rarity.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

// Category is the board a card belongs to within a deck.
type Category string

const (
	CategoryMain       Category = "main"
	CategorySideboard  Category = "sideboard"
	CategoryMaybeboard Category = "maybeboard"
)

// Card is a catalog card referenced by deck entries.
type Card struct {
	ID       string
	Name     string
	ManaCost string
	CMC      int
	TypeLine string
	Rarity   Rarity
	Colors   []Color
}

// DeckCard is one card entry within a deck.
type DeckCard struct {
	CardID   string
	Quantity int
	Category Category

	// Card carries catalog details when the entry was loaded with a join;
	// nil when only the link row is known.
	Card *Card
}

// Deck is a tracked deck with its identity, composition, and lifetime game
// record. Winrate is a display percentage in [0, 100]; the store converts to
// and from the stored probability.
type Deck struct {
	ID               int64
	Name             string
	Colors           []Color
	CommanderName    string
	CommanderCMC     int
	AverageManaValue float64

	// BracketLevel is the power bracket 1-5, nil when unrated.
	BracketLevel *int

	Winrate    float64
	TotalGames int
	Wins       int
	Losses     int

	Description string
	LastPlayed  *time.Time
	Cards       []DeckCard

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasColor reports whether the deck's color identity includes c.
func (d *Deck) HasColor(c Color) bool {
	for _, dc := range d.Colors {
		if dc == c {
			return true
		}
	}
	return false
}

// Losses plus wins never exceed TotalGames, but games can end in draws, so
// Record reports the full W-L-D line.
func (d *Deck) Record() string {
	draws := d.TotalGames - d.Wins - d.Losses
	if draws > 0 {
		return fmt.Sprintf("%d-%d-%d", d.Wins, d.Losses, draws)
	}
	return fmt.Sprintf("%d-%d", d.Wins, d.Losses)
}

// CreateDeckRequest carries caller-supplied fields for a new deck. Game
// counts are not accepted here; new decks always start at zero games. An
// initial winrate percentage may be supplied for decks imported with a known
// history.
type CreateDeckRequest struct {
	Name             string
	Colors           []Color
	CommanderName    string
	CommanderCMC     int
	AverageManaValue float64
	BracketLevel     *int

	// Winrate is a display percentage in [0, 100].
	Winrate float64

	Description string
	LastPlayed  *time.Time
	Cards       []DeckCard
}

// Validate checks the request fields against the domain constraints enforced
// by the schema, so callers get a typed error instead of a database one.
func (r *CreateDeckRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("deck name is required")
	}
	for _, c := range r.Colors {
		if !c.valid() {
			return fmt.Errorf("unknown color %q", c)
		}
	}
	if r.BracketLevel != nil && (*r.BracketLevel < 1 || *r.BracketLevel > 5) {
		return fmt.Errorf("bracket level must be between 1 and 5, got %d", *r.BracketLevel)
	}
	if r.CommanderCMC < 0 {
		return fmt.Errorf("commander mana value cannot be negative")
	}
	if r.AverageManaValue < 0 {
		return fmt.Errorf("average mana value cannot be negative")
	}
	if r.Winrate < 0 || r.Winrate > 100 {
		return fmt.Errorf("winrate must be between 0 and 100, got %v", r.Winrate)
	}
	for _, dc := range r.Cards {
		if dc.Quantity <= 0 {
			return fmt.Errorf("card %s: quantity must be positive", dc.CardID)
		}
	}
	return nil
}
