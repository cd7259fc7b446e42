package events

// DeckChangedEvent is the payload for deck:created, deck:updated, and
// deck:deleted events.
type DeckChangedEvent struct {
	DeckID int64  `json:"deck_id"`
	Name   string `json:"name,omitempty"`
}

// GameRecordedEvent is the payload for game:recorded events.
type GameRecordedEvent struct {
	GameID    string  `json:"game_id"`
	DeckCount int     `json:"deck_count"`
	WinnerIDs []int64 `json:"winner_ids"`
}
