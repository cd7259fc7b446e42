package repository_test

import (
	"context"
	"testing"

	"github.com/magicdecks/tracker/internal/storage"
	"github.com/magicdecks/tracker/internal/storage/models"
	"github.com/magicdecks/tracker/internal/storage/repository"
)

func setupDeckRepo(t *testing.T) (repository.DeckRepository, repository.CardRepository) {
	t.Helper()
	db := storage.OpenTest(t)
	users := repository.NewUserRepository(db.Conn())
	if err := users.EnsureDefault(t.Context()); err != nil {
		t.Fatalf("EnsureDefault() error = %v", err)
	}
	return repository.NewDeckRepository(db.Conn()), repository.NewCardRepository(db.Conn())
}

func sampleDeckRow(name string) *models.Deck {
	bracket := 3
	return &models.Deck{
		UserID:       repository.DefaultUserID,
		Name:         name,
		Colors:       `["red","green"]`,
		BracketLevel: &bracket,
		Winrate:      0.5,
		TotalGames:   10,
		Wins:         5,
		Losses:       5,
	}
}

func TestDeckRepositoryInsertAndGet(t *testing.T) {
	decks, _ := setupDeckRepo(t)
	ctx := context.Background()

	id, err := decks.Insert(ctx, sampleDeckRow("Gruul Stompy"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Insert() returned zero id")
	}

	got, err := decks.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() returned nil for existing deck")
	}
	if got.Name != "Gruul Stompy" {
		t.Errorf("Name = %q, want %q", got.Name, "Gruul Stompy")
	}
	if got.Winrate != 0.5 {
		t.Errorf("Winrate = %v, want 0.5", got.Winrate)
	}
	if got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Error("timestamps not populated")
	}
}

func TestDeckRepositoryGetMissing(t *testing.T) {
	decks, _ := setupDeckRepo(t)

	got, err := decks.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByID() = %+v, want nil for missing deck", got)
	}
}

func TestDeckRepositoryUpdate(t *testing.T) {
	decks, _ := setupDeckRepo(t)
	ctx := context.Background()

	id, err := decks.Insert(ctx, sampleDeckRow("Before"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	row, err := decks.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	row.Name = "After"
	row.Winrate = 0.75
	row.TotalGames = 12
	row.Wins = 9
	row.Losses = 3

	if err := decks.Update(ctx, row); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := decks.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "After" {
		t.Errorf("Name = %q, want %q", got.Name, "After")
	}
	if got.Winrate != 0.75 {
		t.Errorf("Winrate = %v, want 0.75", got.Winrate)
	}
}

func TestDeckRepositoryListAndCount(t *testing.T) {
	decks, _ := setupDeckRepo(t)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		if _, err := decks.Insert(ctx, sampleDeckRow(name)); err != nil {
			t.Fatalf("Insert(%s) error = %v", name, err)
		}
	}

	all, err := decks.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List() returned %d decks, want 3", len(all))
	}

	count, err := decks.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestDeckRepositoryDeleteCascades(t *testing.T) {
	decks, cards := setupDeckRepo(t)
	ctx := context.Background()

	id, err := decks.Insert(ctx, sampleDeckRow("Doomed"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := cards.InsertIgnore(ctx, &models.Card{ID: "bolt", Name: "Lightning Bolt"}); err != nil {
		t.Fatalf("InsertIgnore() error = %v", err)
	}
	link := &models.DeckCard{DeckID: id, CardID: "bolt", Quantity: 4, Category: "main"}
	if err := decks.InsertCard(ctx, link); err != nil {
		t.Fatalf("InsertCard() error = %v", err)
	}

	if err := decks.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := decks.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != nil {
		t.Error("deck still present after Delete()")
	}

	entries, err := decks.GetCards(ctx, id)
	if err != nil {
		t.Fatalf("GetCards() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("deck_cards rows survived cascade delete: %d", len(entries))
	}

	// The catalog card is shared across decks and survives.
	card, err := cards.GetByID(ctx, "bolt")
	if err != nil {
		t.Fatalf("card GetByID() error = %v", err)
	}
	if card == nil {
		t.Error("catalog card removed by deck delete")
	}
}

func TestDeckRepositoryRejectsInvalidRecord(t *testing.T) {
	decks, _ := setupDeckRepo(t)

	row := sampleDeckRow("Broken")
	row.TotalGames = 5
	row.Wins = 4
	row.Losses = 3 // wins+losses exceeds total_games

	if _, err := decks.Insert(context.Background(), row); err == nil {
		t.Fatal("Insert() accepted wins+losses > total_games")
	}
}

func TestDeckRepositoryDuplicateCardEntry(t *testing.T) {
	decks, cards := setupDeckRepo(t)
	ctx := context.Background()

	id, err := decks.Insert(ctx, sampleDeckRow("Dup"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := cards.InsertIgnore(ctx, &models.Card{ID: "bolt", Name: "Lightning Bolt"}); err != nil {
		t.Fatalf("InsertIgnore() error = %v", err)
	}

	link := &models.DeckCard{DeckID: id, CardID: "bolt", Quantity: 4, Category: "main"}
	if err := decks.InsertCard(ctx, link); err != nil {
		t.Fatalf("InsertCard() error = %v", err)
	}
	if err := decks.InsertCard(ctx, link); err == nil {
		t.Fatal("InsertCard() accepted duplicate (deck, card, category)")
	}

	// Same card in another category is allowed.
	side := &models.DeckCard{DeckID: id, CardID: "bolt", Quantity: 1, Category: "sideboard"}
	if err := decks.InsertCard(ctx, side); err != nil {
		t.Fatalf("InsertCard() sideboard error = %v", err)
	}
}

func TestDeckRepositoryGetCardsJoinsCatalog(t *testing.T) {
	decks, cards := setupDeckRepo(t)
	ctx := context.Background()

	id, err := decks.Insert(ctx, sampleDeckRow("Joined"))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	mana := "{R}"
	cmc := 1
	card := &models.Card{ID: "bolt", Name: "Lightning Bolt", ManaCost: &mana, CMC: &cmc}
	if err := cards.InsertIgnore(ctx, card); err != nil {
		t.Fatalf("InsertIgnore() error = %v", err)
	}
	if err := decks.InsertCard(ctx, &models.DeckCard{DeckID: id, CardID: "bolt", Quantity: 4, Category: "main"}); err != nil {
		t.Fatalf("InsertCard() error = %v", err)
	}

	entries, err := decks.GetCards(ctx, id)
	if err != nil {
		t.Fatalf("GetCards() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("GetCards() returned %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Quantity != 4 {
		t.Errorf("Quantity = %d, want 4", e.Quantity)
	}
	if e.CardName == nil || *e.CardName != "Lightning Bolt" {
		t.Errorf("CardName = %v, want Lightning Bolt", e.CardName)
	}
}
