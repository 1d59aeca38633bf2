package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/commerce"
	"github.com/SigNoz/storefront-go-app/internal/events"
	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/SigNoz/storefront-go-app/internal/ui"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errUnavailable = errors.New("service unavailable")

func price(s string) models.Money {
	return models.NewMoney(decimal.RequireFromString(s))
}

func errNotFound() error {
	return &commerce.APIError{Status: 404, Message: "Not found"}
}

// stubCatalog serves a fixed product list without latency
type stubCatalog struct {
	products map[string]models.Product
	err      error
}

func newStubCatalog(products ...models.Product) *stubCatalog {
	c := &stubCatalog{products: map[string]models.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) Lookup(_ context.Context, id string) (models.Product, bool, error) {
	if c.err != nil {
		return models.Product{}, false, c.err
	}
	p, ok := c.products[id]
	return p, ok, nil
}

// memStore is an in-memory persist.Store
type memStore struct {
	mu    sync.Mutex
	saved []*models.Cart
	load  *models.Cart
	err   error
}

func (s *memStore) Load(context.Context) (*models.Cart, error) { return s.load, s.err }

func (s *memStore) Save(_ context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, c.Clone())
	return s.err
}

func (s *memStore) Close() error { return nil }

func (s *memStore) last() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil
	}
	return s.saved[len(s.saved)-1]
}

// fakeCartAPI emulates the commerce cart endpoints in memory
type fakeCartAPI struct {
	mu      sync.Mutex
	carts   map[string]*models.Cart
	catalog map[string]models.Product
	fail    error
	calls   []string
	seq     int
}

func newFakeCartAPI(products ...models.Product) *fakeCartAPI {
	api := &fakeCartAPI{carts: map[string]*models.Cart{}, catalog: map[string]models.Product{}}
	for _, p := range products {
		api.catalog[p.ID] = p
	}
	return api
}

func (a *fakeCartAPI) record(call string) error {
	a.calls = append(a.calls, call)
	return a.fail
}

func (a *fakeCartAPI) nextID(prefix string) string {
	a.seq++
	return fmt.Sprintf("%s_%d", prefix, a.seq)
}

func (a *fakeCartAPI) CreateCart(context.Context) (*models.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.record("create"); err != nil {
		return nil, err
	}
	c := models.NewCart(a.nextID("cart"), time.UnixMilli(1_000))
	a.carts[c.ID] = c
	return c.Clone(), nil
}

func (a *fakeCartAPI) RetrieveCart(_ context.Context, id string) (*models.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.record("retrieve"); err != nil {
		return nil, err
	}
	c, ok := a.carts[id]
	if !ok {
		return nil, errNotFound()
	}
	return c.Clone(), nil
}

func (a *fakeCartAPI) AddItem(_ context.Context, id, productID string, qty int) (*models.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.record("add"); err != nil {
		return nil, err
	}
	c, ok := a.carts[id]
	p, found := a.catalog[productID]
	if !ok || !found {
		return nil, errNotFound()
	}
	c = models.AddProduct(c, p, qty, func() string { return a.nextID("item") }, time.UnixMilli(2_000))
	a.carts[id] = c
	return c.Clone(), nil
}

func (a *fakeCartAPI) UpdateItem(_ context.Context, id, lineID string, qty int) (*models.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.record("update"); err != nil {
		return nil, err
	}
	c, ok := a.carts[id]
	if !ok {
		return nil, errNotFound()
	}
	i := c.FindLine(lineID)
	if i < 0 {
		return nil, errNotFound()
	}
	c, _ = models.SetQuantity(c, lineID, qty, c.LineItems[i].Price, time.UnixMilli(3_000))
	a.carts[id] = c
	return c.Clone(), nil
}

func (a *fakeCartAPI) RemoveItem(_ context.Context, id, lineID string) (*models.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.record("remove"); err != nil {
		return nil, err
	}
	c, ok := a.carts[id]
	if !ok {
		return nil, errNotFound()
	}
	c, _ = models.RemoveLine(c, lineID, time.UnixMilli(4_000))
	a.carts[id] = c
	return c.Clone(), nil
}

func (a *fakeCartAPI) EmptyCart(_ context.Context, id string) (*models.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.record("empty"); err != nil {
		return nil, err
	}
	c, ok := a.carts[id]
	if !ok {
		return nil, errNotFound()
	}
	c = models.Empty(c, time.UnixMilli(5_000))
	a.carts[id] = c
	return c.Clone(), nil
}

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Handle(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

type harness struct {
	svc    *CartService
	ui     *ui.State
	store  *memStore
	events *recorder
}

func newHarness(backend CartBackend) *harness {
	h := &harness{ui: ui.NewState(), store: &memStore{}, events: &recorder{}}
	bus := events.NewBus()
	bus.Subscribe(h.ui)
	bus.Subscribe(h.events)
	h.svc = NewCartService(backend, h.store, bus, h.ui, metrics.Noop(), zap.NewNop())
	return h
}

// newLocalHarness uses deterministic ids and a fixed clock that advances one
// millisecond per read
func newLocalHarness(products ...models.Product) *harness {
	b := NewLocalBackend(newStubCatalog(products...))
	var tick int64
	b.now = func() time.Time {
		tick++
		return time.UnixMilli(1_700_000_000_000 + tick)
	}
	n := 0
	b.newLineID = func() string {
		n++
		return fmt.Sprintf("item_%d", n)
	}
	b.newCartID = func() string { return "cart_local" }
	return newHarness(b)
}
