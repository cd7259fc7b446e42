// Package events implements the observer pattern for deck state changes.
// The registry publishes an event after every successful mutation so other
// components can react without polling the database.
package events

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Event types published by the deck registry.
const (
	TypeDeckCreated  = "deck:created"
	TypeDeckUpdated  = "deck:updated"
	TypeDeckDeleted  = "deck:deleted"
	TypeGameRecorded = "game:recorded"
)

// Event represents a domain event that can be dispatched to observers.
type Event struct {
	// Type is the event type, one of the Type* constants.
	Type string

	// Data contains the typed event payload; see messages.go.
	Data any
}

// Observer is notified of dispatched events.
type Observer interface {
	// OnEvent is called when an event is dispatched. Returns an error if
	// the observer fails to handle the event.
	OnEvent(event Event) error

	// Name returns a human-readable name for logging.
	Name() string

	// ShouldHandle reports whether this observer wants the event type.
	ShouldHandle(eventType string) bool
}

// Dispatcher distributes events to registered observers. Thread-safe for
// concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds an observer. It will be notified of all future events its
// ShouldHandle accepts.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	logrus.WithField("observer", observer.Name()).Debug("Observer registered")
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// Dispatch notifies every interested observer. A failing observer is logged
// and skipped; it never blocks delivery to the others.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, obs := range observers {
		if !obs.ShouldHandle(event.Type) {
			continue
		}
		if err := obs.OnEvent(event); err != nil {
			logrus.WithFields(logrus.Fields{
				"observer": obs.Name(),
				"event":    event.Type,
			}).WithError(err).Warn("Observer failed to handle event")
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}
