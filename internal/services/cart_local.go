package services

import (
	"context"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/google/uuid"
)

// ProductLookup resolves unit prices for local carts
type ProductLookup interface {
	Lookup(ctx context.Context, id string) (models.Product, bool, error)
}

// LocalBackend simulates the commerce service in process against the
// catalog snapshot
type LocalBackend struct {
	catalog   ProductLookup
	now       func() time.Time
	newCartID func() string
	newLineID func() string
}

func NewLocalBackend(catalog ProductLookup) *LocalBackend {
	return &LocalBackend{
		catalog:   catalog,
		now:       time.Now,
		newCartID: func() string { return "cart_" + uuid.NewString() },
		newLineID: func() string { return "item_" + uuid.NewString() },
	}
}

func (b *LocalBackend) Mode() string { return ModeLocal }

// Fetch keeps an existing cart and creates an empty one otherwise
func (b *LocalBackend) Fetch(_ context.Context, current *models.Cart) (*models.Cart, error) {
	if current != nil {
		return current, nil
	}
	return models.NewCart(b.newCartID(), b.now()), nil
}

func (b *LocalBackend) Add(ctx context.Context, current *models.Cart, productID string, quantity int) (*models.Cart, bool, error) {
	p, ok, err := b.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return current, false, nil
	}
	return models.AddProduct(current, p, quantity, b.newLineID, b.now()), true, nil
}

func (b *LocalBackend) Update(ctx context.Context, current *models.Cart, lineItemID string, quantity int) (*models.Cart, bool, error) {
	i := current.FindLine(lineItemID)
	if i < 0 {
		return current, false, nil
	}
	if quantity <= 0 {
		next, ok := models.RemoveLine(current, lineItemID, b.now())
		return next, ok, nil
	}

	line := current.LineItems[i]
	unitPrice := line.Price
	p, ok, err := b.catalog.Lookup(ctx, line.ProductID)
	if err != nil {
		return nil, false, err
	}
	if ok {
		unitPrice = p.Price
	}
	next, changed := models.SetQuantity(current, lineItemID, quantity, unitPrice, b.now())
	return next, changed, nil
}

func (b *LocalBackend) Remove(_ context.Context, current *models.Cart, lineItemID string) (*models.Cart, bool, error) {
	next, ok := models.RemoveLine(current, lineItemID, b.now())
	return next, ok, nil
}

func (b *LocalBackend) Empty(_ context.Context, current *models.Cart) (*models.Cart, bool, error) {
	return models.Empty(current, b.now()), true, nil
}
