// Package events carries cart change notifications from the cart service to
// the parts of the process that react to them (UI state, analytics sinks).
package events

import (
	"context"
	"sync"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/models"
)

// Kind names a cart change
type Kind string

const (
	ItemAdded   Kind = "cart.item_added"
	ItemUpdated Kind = "cart.item_updated"
	ItemRemoved Kind = "cart.item_removed"
	CartEmptied Kind = "cart.emptied"
	CartFetched Kind = "cart.fetched"
)

// Event is emitted after a cart operation has been committed
type Event struct {
	Kind       Kind         `json:"kind"`
	Mode       string       `json:"mode"`
	ProductID  string       `json:"product_id,omitempty"`
	LineItemID string       `json:"line_item_id,omitempty"`
	Quantity   int          `json:"quantity,omitempty"`
	Cart       *models.Cart `json:"cart"`
	At         time.Time    `json:"at"`
}

// Listener consumes events. Handle must not block for long; it runs on the
// goroutine that committed the cart change.
type Listener interface {
	Handle(ctx context.Context, ev Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) Handle(ctx context.Context, ev Event) { f(ctx, ev) }

// Bus fans events out to subscribed listeners in subscription order
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		l.Handle(ctx, ev)
	}
}
