package deck

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/magicdecks/tracker/internal/events"
)

// Registry holds the application's in-memory deck state: the cached deck
// list, the currently selected deck, and the last load error. All mutations
// go through the store and refresh the cache afterwards, so the cache never
// drifts from the database.
type Registry struct {
	store      *Store
	dispatcher *events.Dispatcher

	mu       sync.RWMutex
	decks    []*Deck
	selected *Deck
	loading  bool
	lastErr  error
}

// NewRegistry creates a registry over the given store. Call Refresh to
// populate it.
func NewRegistry(store *Store) *Registry {
	return &Registry{store: store}
}

// Store returns the underlying persistence facade.
func (r *Registry) Store() *Store {
	return r.store
}

// SetDispatcher enables deck change events. Call before the registry is
// shared between goroutines.
func (r *Registry) SetDispatcher(d *events.Dispatcher) {
	r.dispatcher = d
}

// Dispatch publishes an event when a dispatcher is attached.
func (r *Registry) Dispatch(event events.Event) {
	if r.dispatcher != nil {
		r.dispatcher.Dispatch(event)
	}
}

// Decks returns the cached deck list.
func (r *Registry) Decks() []*Deck {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.decks
}

// Selected returns the currently selected deck, or nil.
func (r *Registry) Selected() *Deck {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// Loading reports whether a refresh is in flight.
func (r *Registry) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Err returns the error recorded by the most recent operation, or nil if it
// succeeded.
func (r *Registry) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Refresh reloads the deck list from the store. On failure the previous
// cache is kept and the error is recorded and returned.
func (r *Registry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	decks, err := r.store.GetAllDecks(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.lastErr = err
	if err != nil {
		logrus.WithError(err).Error("Failed to refresh deck registry")
		return err
	}

	r.decks = decks
	r.resyncSelectionLocked()
	logrus.WithField("count", len(decks)).Debug("Deck registry refreshed")
	return nil
}

// Select loads the deck with the given ID and marks it as selected. A
// missing deck leaves the selection empty without error; callers check
// Selected for nil.
func (r *Registry) Select(ctx context.Context, id int64) error {
	d, err := r.store.GetDeckByID(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.lastErr = err
		return err
	}
	r.selected = d
	return nil
}

// ClearSelection drops the current selection and clears any recorded error.
func (r *Registry) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = nil
	r.lastErr = nil
}

// Create adds a new deck through the store and refreshes the cache.
func (r *Registry) Create(ctx context.Context, req *CreateDeckRequest) (*Deck, error) {
	created, err := r.store.CreateDeck(ctx, req)
	if err != nil {
		r.recordErr(err)
		return nil, err
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"deck_id": created.ID,
		"name":    created.Name,
	}).Info("Deck created")
	r.Dispatch(events.Event{
		Type: events.TypeDeckCreated,
		Data: events.DeckChangedEvent{DeckID: created.ID, Name: created.Name},
	})
	return created, nil
}

// Update persists deck changes through the store and refreshes the cache. If
// the updated deck is the selected one, the selection follows the new value.
func (r *Registry) Update(ctx context.Context, d *Deck) (*Deck, error) {
	updated, err := r.store.UpdateDeck(ctx, d)
	if err != nil {
		r.recordErr(err)
		return nil, err
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	logrus.WithField("deck_id", updated.ID).Info("Deck updated")
	r.Dispatch(events.Event{
		Type: events.TypeDeckUpdated,
		Data: events.DeckChangedEvent{DeckID: updated.ID, Name: updated.Name},
	})
	return updated, nil
}

// Remove deletes a deck through the store and refreshes the cache. A deleted
// selected deck leaves the registry with no selection.
func (r *Registry) Remove(ctx context.Context, id int64) error {
	if err := r.store.DeleteDeck(ctx, id); err != nil {
		r.recordErr(err)
		return err
	}
	if err := r.Refresh(ctx); err != nil {
		return err
	}
	logrus.WithField("deck_id", id).Info("Deck deleted")
	r.Dispatch(events.Event{
		Type: events.TypeDeckDeleted,
		Data: events.DeckChangedEvent{DeckID: id},
	})
	return nil
}

// resyncSelectionLocked repoints the selection at the refreshed instance of
// the same deck, or clears it when the deck is gone. Caller holds r.mu.
func (r *Registry) resyncSelectionLocked() {
	if r.selected == nil {
		return
	}
	for _, d := range r.decks {
		if d.ID == r.selected.ID {
			r.selected = d
			return
		}
	}
	r.selected = nil
}

func (r *Registry) recordErr(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}
