// Package ui holds the transient storefront flags: cart drawer, mobile menu
// and loading indicators. None of them carry commerce semantics.
package ui

import (
	"context"
	"sync"

	"github.com/SigNoz/storefront-go-app/internal/events"
)

// Flags is a point-in-time copy of the UI state
type Flags struct {
	CartOpen        bool `json:"cart_open"`
	MobileMenuOpen  bool `json:"mobile_menu_open"`
	LoadingCart     bool `json:"loading_cart"`
	LoadingProducts bool `json:"loading_products"`
}

// State holds independent boolean flags. It opens the cart drawer when it
// sees a successful add.
type State struct {
	mu    sync.RWMutex
	flags Flags
}

func NewState() *State {
	return &State{}
}

func (s *State) Snapshot() Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

func (s *State) update(fn func(f *Flags)) Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.flags)
	return s.flags
}

func (s *State) OpenCart() Flags   { return s.update(func(f *Flags) { f.CartOpen = true }) }
func (s *State) CloseCart() Flags  { return s.update(func(f *Flags) { f.CartOpen = false }) }
func (s *State) ToggleCart() Flags { return s.update(func(f *Flags) { f.CartOpen = !f.CartOpen }) }

func (s *State) ToggleMobileMenu() Flags {
	return s.update(func(f *Flags) { f.MobileMenuOpen = !f.MobileMenuOpen })
}

func (s *State) CloseMobileMenu() Flags {
	return s.update(func(f *Flags) { f.MobileMenuOpen = false })
}

func (s *State) SetLoadingCart(v bool) {
	s.update(func(f *Flags) { f.LoadingCart = v })
}

func (s *State) SetLoadingProducts(v bool) {
	s.update(func(f *Flags) { f.LoadingProducts = v })
}

// Handle implements events.Listener
func (s *State) Handle(_ context.Context, ev events.Event) {
	if ev.Kind == events.ItemAdded {
		s.OpenCart()
	}
}
