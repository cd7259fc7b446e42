package deck

// ColorMatchMode controls how a color filter compares against a deck's
// color identity.
type ColorMatchMode string

const (
	// MatchIncluding keeps decks whose identity shares at least one
	// selected color.
	MatchIncluding ColorMatchMode = "including"
	// MatchExactly keeps decks whose identity equals the selected set.
	MatchExactly ColorMatchMode = "exactly"
)

// FilterOptions narrows a deck list. Zero-valued fields are inactive, so the
// empty FilterOptions matches everything.
type FilterOptions struct {
	Colors         []Color
	ColorMatchMode ColorMatchMode
	BracketLevels  []int

	// MinWinrate is a display percentage; decks strictly below it are
	// dropped. Nil disables the cut.
	MinWinrate *float64
}

// Match reports whether d passes every active filter.
func (f *FilterOptions) Match(d *Deck) bool {
	if len(f.Colors) > 0 && !f.matchColors(d) {
		return false
	}
	if len(f.BracketLevels) > 0 {
		if d.BracketLevel == nil || !containsInt(f.BracketLevels, *d.BracketLevel) {
			return false
		}
	}
	if f.MinWinrate != nil && d.Winrate < *f.MinWinrate {
		return false
	}
	return true
}

func (f *FilterOptions) matchColors(d *Deck) bool {
	if f.ColorMatchMode == MatchExactly {
		if len(d.Colors) != len(f.Colors) {
			return false
		}
		for _, c := range f.Colors {
			if !d.HasColor(c) {
				return false
			}
		}
		return true
	}
	for _, c := range f.Colors {
		if d.HasColor(c) {
			return true
		}
	}
	return false
}

// Filter returns the decks matching f, preserving input order.
func Filter(decks []*Deck, f *FilterOptions) []*Deck {
	if f == nil {
		return decks
	}
	out := make([]*Deck, 0, len(decks))
	for _, d := range decks {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
