// Package persist keeps the cart across process restarts. Only the cart is
// stored; UI flags and the catalog are rebuilt on start.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SigNoz/storefront-go-app/internal/models"
	"go.uber.org/zap"
)

// Store loads and saves the single persisted cart.
// Load returns (nil, nil) when nothing usable is stored.
type Store interface {
	Load(ctx context.Context) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Close() error
}

// payloadVersion is bumped when the envelope shape changes
const payloadVersion = 1

type envelope struct {
	Version int          `json:"version"`
	Cart    *models.Cart `json:"cart"`
}

func encode(cart *models.Cart) ([]byte, error) {
	data, err := json.Marshal(envelope{Version: payloadVersion, Cart: cart})
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

// decode treats any payload that is not a valid current cart as absent
func decode(data []byte, log *zap.Logger) *models.Cart {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn("discarding corrupt persisted cart", zap.Error(err))
		return nil
	}
	if env.Version != payloadVersion || env.Cart == nil || env.Cart.ID == "" {
		log.Warn("discarding unusable persisted cart", zap.Int("version", env.Version))
		return nil
	}
	if env.Cart.LineItems == nil {
		env.Cart.LineItems = []models.LineItem{}
	}
	if err := env.Cart.Validate(); err != nil {
		log.Warn("discarding inconsistent persisted cart", zap.String("cart_id", env.Cart.ID), zap.Error(err))
		return nil
	}
	return env.Cart
}

// NopStore persists nothing
type NopStore struct{}

func (NopStore) Load(context.Context) (*models.Cart, error) { return nil, nil }
func (NopStore) Save(context.Context, *models.Cart) error   { return nil }
func (NopStore) Close() error                               { return nil }
