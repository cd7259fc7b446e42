package deck

import (
	"testing"
	"time"
)

func sortFixture() []*Deck {
	b2, b5 := 2, 5
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []*Deck{
		{ID: 1, Name: "zebra", Winrate: 40, TotalGames: 30, BracketLevel: &b5, LastPlayed: &late},
		{ID: 2, Name: "Alpha", Winrate: 70, TotalGames: 10, BracketLevel: nil, LastPlayed: nil},
		{ID: 3, Name: "mango", Winrate: 55, TotalGames: 20, BracketLevel: &b2, LastPlayed: &early},
	}
}

func TestSortByNameCaseInsensitive(t *testing.T) {
	decks := sortFixture()
	SortState{Key: SortByName, Direction: SortAsc}.Sort(decks)

	if want := []int64{2, 3, 1}; !equalIDs(ids(decks), want) {
		t.Errorf("name asc = %v, want %v", ids(decks), want)
	}
}

func TestSortByWinrateDesc(t *testing.T) {
	decks := sortFixture()
	SortState{Key: SortByWinrate, Direction: SortDesc}.Sort(decks)

	if want := []int64{2, 3, 1}; !equalIDs(ids(decks), want) {
		t.Errorf("winrate desc = %v, want %v", ids(decks), want)
	}
}

func TestSortNilFieldsGroupFirst(t *testing.T) {
	decks := sortFixture()
	SortState{Key: SortByBracketLevel, Direction: SortAsc}.Sort(decks)
	if decks[0].ID != 2 {
		t.Errorf("unrated deck should sort first ascending, got %v", ids(decks))
	}

	decks = sortFixture()
	SortState{Key: SortByLastPlayed, Direction: SortAsc}.Sort(decks)
	if decks[0].ID != 2 {
		t.Errorf("never-played deck should sort first ascending, got %v", ids(decks))
	}
}

func TestSortStateSelectTogglesDirection(t *testing.T) {
	s := DefaultSortState()
	if s.Key != SortByName || s.Direction != SortAsc {
		t.Fatalf("default state = %+v", s)
	}

	// Re-selecting the active key flips direction.
	s.Select(SortByName)
	if s.Direction != SortDesc {
		t.Errorf("direction after reselect = %v, want desc", s.Direction)
	}
	s.Select(SortByName)
	if s.Direction != SortAsc {
		t.Errorf("direction after second reselect = %v, want asc", s.Direction)
	}

	// Switching keys resets to ascending.
	s.Select(SortByName)
	s.Select(SortByWinrate)
	if s.Key != SortByWinrate || s.Direction != SortAsc {
		t.Errorf("state after key switch = %+v, want winrate asc", s)
	}
}

func TestSortIsStable(t *testing.T) {
	b3 := 3
	decks := []*Deck{
		{ID: 1, Name: "a", Winrate: 50, BracketLevel: &b3},
		{ID: 2, Name: "b", Winrate: 50, BracketLevel: &b3},
		{ID: 3, Name: "c", Winrate: 50, BracketLevel: &b3},
	}
	SortState{Key: SortByWinrate, Direction: SortAsc}.Sort(decks)
	if want := []int64{1, 2, 3}; !equalIDs(ids(decks), want) {
		t.Errorf("equal-key order changed: %v", ids(decks))
	}
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	decks := sortFixture()
	original := ids(decks)

	out := Query(decks, nil, SortState{Key: SortByWinrate, Direction: SortDesc})
	if len(out) != len(decks) {
		t.Fatalf("query dropped decks: %d of %d", len(out), len(decks))
	}
	if !equalIDs(ids(decks), original) {
		t.Errorf("input order mutated: %v", ids(decks))
	}
}

func TestQueryFiltersThenSorts(t *testing.T) {
	decks := sortFixture()
	min := 50.0

	out := Query(decks, &FilterOptions{MinWinrate: &min}, SortState{Key: SortByWinrate, Direction: SortDesc})
	if want := []int64{2, 3}; !equalIDs(ids(out), want) {
		t.Errorf("query = %v, want %v", ids(out), want)
	}
}
