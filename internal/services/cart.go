package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/events"
	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/SigNoz/storefront-go-app/internal/persist"
	"github.com/SigNoz/storefront-go-app/internal/ui"
	"go.uber.org/zap"
)

// Cart modes
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// CartBackend computes the next cart for each operation. changed is false
// for a no-op (unknown product or line); the stored cart is then kept.
type CartBackend interface {
	Mode() string
	Fetch(ctx context.Context, current *models.Cart) (*models.Cart, error)
	Add(ctx context.Context, current *models.Cart, productID string, quantity int) (next *models.Cart, changed bool, err error)
	Update(ctx context.Context, current *models.Cart, lineItemID string, quantity int) (next *models.Cart, changed bool, err error)
	Remove(ctx context.Context, current *models.Cart, lineItemID string) (next *models.Cart, changed bool, err error)
	Empty(ctx context.Context, current *models.Cart) (next *models.Cart, changed bool, err error)
}

// CartService owns the process-wide cart. Every operation holds mu from
// reading the current cart until the replacement is stored.
type CartService struct {
	backend CartBackend
	store   persist.Store
	bus     *events.Bus
	ui      *ui.State
	metrics *metrics.AppMetrics
	log     *zap.Logger
	now     func() time.Time

	mu   sync.Mutex
	cart *models.Cart
}

// NewCartService creates a cart service over backend
func NewCartService(backend CartBackend, store persist.Store, bus *events.Bus, uiState *ui.State, m *metrics.AppMetrics, log *zap.Logger) *CartService {
	return &CartService{
		backend: backend,
		store:   store,
		bus:     bus,
		ui:      uiState,
		metrics: m,
		log:     log.With(zap.String("mode", backend.Mode())),
		now:     time.Now,
	}
}

// Mode returns "remote" or "local"
func (s *CartService) Mode() string {
	return s.backend.Mode()
}

// Cart returns a copy of the stored cart, nil before the first fetch
func (s *CartService) Cart() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Restore installs the persisted cart, if any
func (s *CartService) Restore(ctx context.Context) error {
	cart, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}
	if cart == nil {
		return nil
	}
	if err := cart.Validate(); err != nil {
		s.log.Warn("ignoring inconsistent persisted cart", zap.String("cart_id", cart.ID), zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()

	s.log.Info("restored persisted cart",
		zap.String("cart_id", cart.ID),
		zap.Int("total_items", cart.TotalItems),
	)
	return nil
}

// FetchCart loads the cart from the backend. When the fetch fails and no cart
// exists yet, an empty view is returned and nothing is stored, so the next
// mutation still creates a real cart.
func (s *CartService) FetchCart(ctx context.Context) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ui.SetLoadingCart(true)
	defer s.ui.SetLoadingCart(false)

	next, err := s.backend.Fetch(ctx, s.cart)
	if err != nil {
		s.metrics.RecordCartOperation(ctx, "fetch", s.Mode(), false)
		s.log.Error("error fetching cart", zap.Error(err))
		if s.cart != nil {
			return nil, fmt.Errorf("failed to fetch cart: %w", err)
		}
		s.metrics.RecordCatalogFallback(ctx, "cart", "remote_error")
		s.log.Warn("serving empty cart after fetch failure")
		return models.NewCart("", s.now()), nil
	}
	s.metrics.RecordCartOperation(ctx, "fetch", s.Mode(), true)

	s.commit(ctx, next)
	s.publish(ctx, events.Event{Kind: events.CartFetched}, next)
	return next.Clone(), nil
}

// AddToCart adds quantity of productID; quantity below 1 counts as 1.
// An unknown product in local mode leaves the cart untouched.
func (s *CartService) AddToCart(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	ev := events.Event{Kind: events.ItemAdded, ProductID: productID, Quantity: quantity}
	return s.apply(ctx, "add", ev, func(current *models.Cart) (*models.Cart, bool, error) {
		return s.backend.Add(ctx, current, productID, quantity)
	})
}

// UpdateCartItem sets a line quantity; quantity <= 0 removes the line
func (s *CartService) UpdateCartItem(ctx context.Context, lineItemID string, quantity int) (*models.Cart, error) {
	kind := events.ItemUpdated
	if quantity <= 0 {
		kind = events.ItemRemoved
	}
	ev := events.Event{Kind: kind, LineItemID: lineItemID, Quantity: quantity}
	return s.apply(ctx, "update", ev, func(current *models.Cart) (*models.Cart, bool, error) {
		return s.backend.Update(ctx, current, lineItemID, quantity)
	})
}

// RemoveFromCart drops a line; an unknown line is a no-op
func (s *CartService) RemoveFromCart(ctx context.Context, lineItemID string) (*models.Cart, error) {
	ev := events.Event{Kind: events.ItemRemoved, LineItemID: lineItemID}
	return s.apply(ctx, "remove", ev, func(current *models.Cart) (*models.Cart, bool, error) {
		return s.backend.Remove(ctx, current, lineItemID)
	})
}

// EmptyCart removes every line, keeping the cart identity
func (s *CartService) EmptyCart(ctx context.Context) (*models.Cart, error) {
	return s.apply(ctx, "empty", events.Event{Kind: events.CartEmptied}, func(current *models.Cart) (*models.Cart, bool, error) {
		return s.backend.Empty(ctx, current)
	})
}

// Drain empties the cart like EmptyCart and returns the contents it removed.
// Both happen under one lock, so the returned cart is exactly what was cleared.
func (s *CartService) Drain(ctx context.Context) (*models.Cart, error) {
	var cleared *models.Cart
	_, err := s.apply(ctx, "empty", events.Event{Kind: events.CartEmptied}, func(current *models.Cart) (*models.Cart, bool, error) {
		cleared = current.Clone()
		return s.backend.Empty(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}

func (s *CartService) apply(ctx context.Context, op string, ev events.Event, fn func(current *models.Cart) (*models.Cart, bool, error)) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil {
		created, err := s.backend.Fetch(ctx, nil)
		if err != nil {
			s.metrics.RecordCartOperation(ctx, op, s.Mode(), false)
			s.log.Error("error creating cart", zap.String("operation", op), zap.Error(err))
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		s.commit(ctx, created)
	}

	next, changed, err := fn(s.cart)
	if err != nil {
		s.metrics.RecordCartOperation(ctx, op, s.Mode(), false)
		s.log.Error("cart operation failed", zap.String("operation", op), zap.Error(err))
		return nil, fmt.Errorf("failed to %s cart item: %w", op, err)
	}
	s.metrics.RecordCartOperation(ctx, op, s.Mode(), true)

	if !changed {
		s.log.Debug("cart operation was a no-op",
			zap.String("operation", op),
			zap.String("product_id", ev.ProductID),
			zap.String("line_item_id", ev.LineItemID),
		)
		return s.cart.Clone(), nil
	}

	s.commit(ctx, next)
	s.publish(ctx, ev, next)
	return next.Clone(), nil
}

// commit replaces the stored cart and persists it. Persistence failures are
// logged only.
func (s *CartService) commit(ctx context.Context, next *models.Cart) {
	s.cart = next
	s.metrics.RecordCartItems(ctx, next.ID, next.TotalItems)
	if err := s.store.Save(ctx, next); err != nil {
		s.log.Warn("failed to persist cart", zap.String("cart_id", next.ID), zap.Error(err))
	}
}

func (s *CartService) publish(ctx context.Context, ev events.Event, cart *models.Cart) {
	ev.Mode = s.Mode()
	ev.Cart = cart.Clone()
	ev.At = s.now()
	s.bus.Publish(ctx, ev)
}
