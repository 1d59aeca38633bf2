package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/SigNoz/storefront-go-app/internal/commerce"
	"github.com/SigNoz/storefront-go-app/internal/models"
)

// CartAPI is the remote cart surface. *commerce.Client satisfies it.
type CartAPI interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	RetrieveCart(ctx context.Context, cartID string) (*models.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, cartID, lineItemID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, lineItemID string) (*models.Cart, error)
	EmptyCart(ctx context.Context, cartID string) (*models.Cart, error)
}

// RemoteBackend delegates every operation to the commerce API and takes the
// returned cart as is
type RemoteBackend struct {
	api CartAPI
}

func NewRemoteBackend(api CartAPI) *RemoteBackend {
	return &RemoteBackend{api: api}
}

func (b *RemoteBackend) Mode() string { return ModeRemote }

// Fetch retrieves the known cart, or creates one when there is none or the
// service no longer knows it
func (b *RemoteBackend) Fetch(ctx context.Context, current *models.Cart) (*models.Cart, error) {
	if current == nil {
		return b.api.CreateCart(ctx)
	}
	cart, err := b.api.RetrieveCart(ctx, current.ID)
	if notFound(err) {
		return b.api.CreateCart(ctx)
	}
	return cart, err
}

// Add retries once on a fresh cart when the service has lost the current one
func (b *RemoteBackend) Add(ctx context.Context, current *models.Cart, productID string, quantity int) (*models.Cart, bool, error) {
	cart, err := b.api.AddItem(ctx, current.ID, productID, quantity)
	if !notFound(err) {
		return changed(cart, err)
	}
	fresh, recreated, rerr := b.resolve(ctx, current)
	if rerr != nil {
		return nil, false, rerr
	}
	if !recreated {
		return nil, false, err
	}
	return changed(b.api.AddItem(ctx, fresh.ID, productID, quantity))
}

func (b *RemoteBackend) Update(ctx context.Context, current *models.Cart, lineItemID string, quantity int) (*models.Cart, bool, error) {
	if quantity <= 0 {
		return b.Remove(ctx, current, lineItemID)
	}
	cart, err := b.api.UpdateItem(ctx, current.ID, lineItemID, quantity)
	if !notFound(err) {
		return changed(cart, err)
	}
	return b.lineMissing(ctx, current)
}

func (b *RemoteBackend) Remove(ctx context.Context, current *models.Cart, lineItemID string) (*models.Cart, bool, error) {
	cart, err := b.api.RemoveItem(ctx, current.ID, lineItemID)
	if !notFound(err) {
		return changed(cart, err)
	}
	return b.lineMissing(ctx, current)
}

// Empty on a lost cart answers with the freshly created, already empty one
func (b *RemoteBackend) Empty(ctx context.Context, current *models.Cart) (*models.Cart, bool, error) {
	cart, err := b.api.EmptyCart(ctx, current.ID)
	if !notFound(err) {
		return changed(cart, err)
	}
	fresh, recreated, rerr := b.resolve(ctx, current)
	if rerr != nil {
		return nil, false, rerr
	}
	if !recreated {
		return nil, false, err
	}
	return fresh, true, nil
}

// resolve looks the cart up again after a 404. recreated is true when the
// service no longer had it and a new cart replaced it.
func (b *RemoteBackend) resolve(ctx context.Context, current *models.Cart) (*models.Cart, bool, error) {
	fresh, err := b.Fetch(ctx, current)
	if err != nil {
		return nil, false, err
	}
	return fresh, fresh.ID != current.ID, nil
}

// lineMissing handles a 404 on a line operation: an unknown line in a live
// cart is a no-op, a lost cart is replaced by a new one
func (b *RemoteBackend) lineMissing(ctx context.Context, current *models.Cart) (*models.Cart, bool, error) {
	fresh, recreated, err := b.resolve(ctx, current)
	if err != nil {
		return nil, false, err
	}
	if !recreated {
		return current, false, nil
	}
	return fresh, true, nil
}

func notFound(err error) bool {
	var apiErr *commerce.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func changed(cart *models.Cart, err error) (*models.Cart, bool, error) {
	if err != nil {
		return nil, false, err
	}
	return cart, true, nil
}
