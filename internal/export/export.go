// Package export writes tracked decks to portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/magicdecks/tracker/internal/deck"
)

// Format represents the export format.
type Format string

const (
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
	// FormatCSV represents CSV export format, one row per card entry.
	FormatCSV Format = "csv"
	// FormatText represents a plain decklist, one card per line.
	FormatText Format = "text"
)

// DeckJSON represents a complete deck in JSON format.
type DeckJSON struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	ColorIdentity string         `json:"color_identity,omitempty"`
	CommanderName string         `json:"commander_name,omitempty"`
	BracketLevel  *int           `json:"bracket_level,omitempty"`
	Winrate       float64        `json:"winrate"`
	TotalGames    int            `json:"total_games"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	Description   string         `json:"description,omitempty"`
	LastPlayed    string         `json:"last_played,omitempty"`
	MainDeck      []DeckCardJSON `json:"main_deck"`
	Sideboard     []DeckCardJSON `json:"sideboard,omitempty"`
	Maybeboard    []DeckCardJSON `json:"maybeboard,omitempty"`
	TotalCards    int            `json:"total_cards"`
}

// DeckCardJSON represents a card entry in JSON deck format.
type DeckCardJSON struct {
	Quantity int    `json:"quantity"`
	CardID   string `json:"card_id"`
	CardName string `json:"card_name,omitempty"`
	ManaCost string `json:"mana_cost,omitempty"`
	Rarity   string `json:"rarity,omitempty"`
}

// ExportDecks writes decks in the given format to outputPath, or to stdout
// when outputPath is empty.
func ExportDecks(decks []*deck.Deck, format Format, outputPath string) error {
	if len(decks) == 0 {
		return fmt.Errorf("no decks to export")
	}

	out, closeFn, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	switch format {
	case FormatJSON:
		return writeJSON(out, decks)
	case FormatCSV:
		return writeCSV(out, decks)
	case FormatText:
		return writeText(out, decks)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeJSON(w io.Writer, decks []*deck.Deck) error {
	views := make([]DeckJSON, 0, len(decks))
	for _, d := range decks {
		views = append(views, toJSON(d))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(views); err != nil {
		return fmt.Errorf("failed to encode decks: %w", err)
	}
	return nil
}

func toJSON(d *deck.Deck) DeckJSON {
	colors := make([]string, len(d.Colors))
	for i, c := range d.Colors {
		colors[i] = string(c)
	}
	view := DeckJSON{
		ID:            d.ID,
		Name:          d.Name,
		ColorIdentity: strings.Join(colors, ","),
		CommanderName: d.CommanderName,
		BracketLevel:  d.BracketLevel,
		Winrate:       d.Winrate,
		TotalGames:    d.TotalGames,
		Wins:          d.Wins,
		Losses:        d.Losses,
		Description:   d.Description,
	}
	if d.LastPlayed != nil {
		view.LastPlayed = d.LastPlayed.Format("2006-01-02")
	}
	for _, entry := range d.Cards {
		card := DeckCardJSON{
			Quantity: entry.Quantity,
			CardID:   entry.CardID,
		}
		if entry.Card != nil {
			card.CardName = entry.Card.Name
			card.ManaCost = entry.Card.ManaCost
			card.Rarity = string(entry.Card.Rarity)
		}
		view.TotalCards += entry.Quantity
		switch entry.Category {
		case deck.CategorySideboard:
			view.Sideboard = append(view.Sideboard, card)
		case deck.CategoryMaybeboard:
			view.Maybeboard = append(view.Maybeboard, card)
		default:
			view.MainDeck = append(view.MainDeck, card)
		}
	}
	return view
}

func writeCSV(w io.Writer, decks []*deck.Deck) error {
	cw := csv.NewWriter(w)
	header := []string{"deck_id", "deck_name", "board", "quantity", "card_id", "card_name", "mana_cost", "rarity"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, d := range decks {
		for _, entry := range d.Cards {
			row := []string{
				strconv.FormatInt(d.ID, 10),
				d.Name,
				string(entry.Category),
				strconv.Itoa(entry.Quantity),
				entry.CardID,
				"", "", "",
			}
			if entry.Card != nil {
				row[5] = entry.Card.Name
				row[6] = entry.Card.ManaCost
				row[7] = string(entry.Card.Rarity)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeText emits a plain decklist per deck: a name header, then
// "<quantity> <card name>" lines grouped by board.
func writeText(w io.Writer, decks []*deck.Deck) error {
	for i, d := range decks {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "// %s\n", d.Name); err != nil {
			return err
		}
		if err := writeBoard(w, d, deck.CategoryMain, ""); err != nil {
			return err
		}
		if err := writeBoard(w, d, deck.CategorySideboard, "Sideboard"); err != nil {
			return err
		}
	}
	return nil
}

func writeBoard(w io.Writer, d *deck.Deck, category deck.Category, label string) error {
	wrote := false
	for _, entry := range d.Cards {
		if entry.Category != category {
			continue
		}
		if label != "" && !wrote {
			if _, err := fmt.Fprintf(w, "\n%s\n", label); err != nil {
				return err
			}
		}
		wrote = true
		name := entry.CardID
		if entry.Card != nil {
			name = entry.Card.Name
		}
		if _, err := fmt.Fprintf(w, "%d %s\n", entry.Quantity, name); err != nil {
			return err
		}
	}
	return nil
}
