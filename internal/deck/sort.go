package deck

import (
	"sort"
	"strings"
)

// SortKey identifies a deck list ordering.
type SortKey string

const (
	SortByName         SortKey = "name"
	SortByWinrate      SortKey = "winrate"
	SortByTotalGames   SortKey = "totalGames"
	SortByBracketLevel SortKey = "bracketLevel"
	SortByLastPlayed   SortKey = "lastPlayed"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState tracks the active sort key and direction. Selecting the active
// key again flips the direction; switching keys resets to ascending.
type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSortState sorts by name ascending.
func DefaultSortState() SortState {
	return SortState{Key: SortByName, Direction: SortAsc}
}

// Select applies a key selection to the state.
func (s *SortState) Select(key SortKey) {
	if s.Key == key {
		if s.Direction == SortAsc {
			s.Direction = SortDesc
		} else {
			s.Direction = SortAsc
		}
		return
	}
	s.Key = key
	s.Direction = SortAsc
}

// Sort orders decks in place by the state's key and direction. The sort is
// stable, so equal-key decks keep their relative order.
func (s SortState) Sort(decks []*Deck) {
	less := lessFunc(s.Key)
	if s.Direction == SortDesc {
		inner := less
		less = func(a, b *Deck) bool { return inner(b, a) }
	}
	sort.SliceStable(decks, func(i, j int) bool {
		return less(decks[i], decks[j])
	})
}

// lessFunc returns the ascending comparison for a key. Unrated brackets and
// never-played decks compare as zero, grouping them at the ascending front.
func lessFunc(key SortKey) func(a, b *Deck) bool {
	switch key {
	case SortByWinrate:
		return func(a, b *Deck) bool { return a.Winrate < b.Winrate }
	case SortByTotalGames:
		return func(a, b *Deck) bool { return a.TotalGames < b.TotalGames }
	case SortByBracketLevel:
		return func(a, b *Deck) bool { return bracketOrZero(a) < bracketOrZero(b) }
	case SortByLastPlayed:
		return func(a, b *Deck) bool { return lastPlayedOrZero(a) < lastPlayedOrZero(b) }
	default:
		return func(a, b *Deck) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
}

func bracketOrZero(d *Deck) int {
	if d.BracketLevel == nil {
		return 0
	}
	return *d.BracketLevel
}

func lastPlayedOrZero(d *Deck) int64 {
	if d.LastPlayed == nil {
		return 0
	}
	return d.LastPlayed.Unix()
}

// Query filters then sorts a deck list, the pipeline behind the deck list
// view. The input slice is not modified.
func Query(decks []*Deck, f *FilterOptions, s SortState) []*Deck {
	out := Filter(decks, f)
	if len(out) == len(decks) {
		out = append([]*Deck(nil), decks...)
	}
	s.Sort(out)
	return out
}
