package ui

import (
	"context"
	"testing"

	"github.com/SigNoz/storefront-go-app/internal/events"
	"github.com/stretchr/testify/assert"
)

func TestState_CartDrawer(t *testing.T) {
	s := NewState()
	assert.False(t, s.Snapshot().CartOpen)

	assert.True(t, s.ToggleCart().CartOpen)
	assert.False(t, s.ToggleCart().CartOpen)
	assert.True(t, s.OpenCart().CartOpen)
	assert.False(t, s.CloseCart().CartOpen)
}

func TestState_MobileMenuIndependent(t *testing.T) {
	s := NewState()
	s.OpenCart()

	f := s.ToggleMobileMenu()
	assert.True(t, f.MobileMenuOpen)
	assert.True(t, f.CartOpen)

	f = s.CloseMobileMenu()
	assert.False(t, f.MobileMenuOpen)
	assert.True(t, f.CartOpen)
}

func TestState_LoadingFlags(t *testing.T) {
	s := NewState()
	s.SetLoadingCart(true)
	s.SetLoadingProducts(true)
	assert.Equal(t, Flags{LoadingCart: true, LoadingProducts: true}, s.Snapshot())

	s.SetLoadingCart(false)
	assert.False(t, s.Snapshot().LoadingCart)
	assert.True(t, s.Snapshot().LoadingProducts)
}

func TestState_OpensOnlyOnItemAdded(t *testing.T) {
	s := NewState()
	ctx := context.Background()

	for _, kind := range []events.Kind{events.ItemUpdated, events.ItemRemoved, events.CartEmptied, events.CartFetched} {
		s.Handle(ctx, events.Event{Kind: kind})
		assert.False(t, s.Snapshot().CartOpen, string(kind))
	}

	s.Handle(ctx, events.Event{Kind: events.ItemAdded})
	assert.True(t, s.Snapshot().CartOpen)
}
