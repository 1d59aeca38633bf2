package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CartLifetime is how long a locally created cart lives
const CartLifetime = 7 * 24 * time.Hour

// LineItem is one distinct product in a cart
type LineItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     Money  `json:"price"`
	LineTotal Money  `json:"line_total"`
	Image     *Image `json:"image"`
}

// Cart represents a shopping cart. Timestamps are unix milliseconds.
type Cart struct {
	ID               string     `json:"id"`
	Created          int64      `json:"created"`
	Updated          int64      `json:"updated"`
	Expires          int64      `json:"expires"`
	TotalItems       int        `json:"total_items"`
	TotalUniqueItems int        `json:"total_unique_items"`
	Subtotal         Money      `json:"subtotal"`
	LineItems        []LineItem `json:"line_items"`
}

// Totals are the cart aggregates derived from its line items
type Totals struct {
	Subtotal         Money
	TotalItems       int
	TotalUniqueItems int
}

// Recompute derives the cart aggregates from a line item sequence.
// It has no side effects and returns identical results for identical input.
func Recompute(items []LineItem) Totals {
	subtotal := decimal.Zero
	totalItems := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal.Raw)
		totalItems += item.Quantity
	}
	return Totals{
		Subtotal:         NewMoney(subtotal),
		TotalItems:       totalItems,
		TotalUniqueItems: len(items),
	}
}

// Validate reports the first broken cart invariant: a non-positive quantity,
// a line total other than price times quantity, or aggregates that differ
// from Recompute.
func (c *Cart) Validate() error {
	for _, item := range c.LineItems {
		if item.Quantity <= 0 {
			return fmt.Errorf("line %s has quantity %d", item.ID, item.Quantity)
		}
		if want := item.Price.Times(item.Quantity); !item.LineTotal.Raw.Equal(want.Raw) {
			return fmt.Errorf("line %s total %s, want %s", item.ID, item.LineTotal.Raw, want.Raw)
		}
	}
	totals := Recompute(c.LineItems)
	if !c.Subtotal.Raw.Equal(totals.Subtotal.Raw) ||
		c.TotalItems != totals.TotalItems ||
		c.TotalUniqueItems != totals.TotalUniqueItems {
		return errors.New("aggregates do not match line items")
	}
	return nil
}

// NewCart creates an empty cart stamped at now
func NewCart(id string, now time.Time) *Cart {
	ms := now.UnixMilli()
	return &Cart{
		ID:        id,
		Created:   ms,
		Updated:   ms,
		Expires:   now.Add(CartLifetime).UnixMilli(),
		Subtotal:  ZeroMoney(),
		LineItems: []LineItem{},
	}
}

// Clone returns a deep copy so callers never share the line item slice
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.LineItems = make([]LineItem, len(c.LineItems))
	copy(out.LineItems, c.LineItems)
	return &out
}

// WithItems returns a new cart carrying items, recomputed aggregates and a
// fresh updated stamp. id, created and expires are kept.
func (c *Cart) WithItems(items []LineItem, now time.Time) *Cart {
	totals := Recompute(items)
	out := *c
	out.LineItems = items
	out.TotalItems = totals.TotalItems
	out.TotalUniqueItems = totals.TotalUniqueItems
	out.Subtotal = totals.Subtotal
	out.Updated = now.UnixMilli()
	return &out
}

// FindByProduct returns the index of the line referencing productID, or -1
func (c *Cart) FindByProduct(productID string) int {
	for i, item := range c.LineItems {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// FindLine returns the index of the line with the given id, or -1
func (c *Cart) FindLine(lineItemID string) int {
	for i, item := range c.LineItems {
		if item.ID == lineItemID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no line items
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.LineItems) == 0
}

// AddProduct adds quantity of p, merging into an existing line for the same
// product at p's current price. newLineID is only called when a new line is appended.
func AddProduct(c *Cart, p Product, quantity int, newLineID func() string, now time.Time) *Cart {
	items := make([]LineItem, len(c.LineItems), len(c.LineItems)+1)
	copy(items, c.LineItems)

	if i := c.FindByProduct(p.ID); i >= 0 {
		items[i].Quantity += quantity
		items[i].Price = p.Price
		items[i].LineTotal = p.Price.Times(items[i].Quantity)
	} else {
		items = append(items, LineItem{
			ID:        newLineID(),
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  quantity,
			Price:     p.Price,
			LineTotal: p.Price.Times(quantity),
			Image:     p.Image,
		})
	}
	return c.WithItems(items, now)
}

// SetQuantity sets a line's quantity using unitPrice for the new line total.
// A quantity <= 0 removes the line. ok is false when no line matches.
func SetQuantity(c *Cart, lineItemID string, quantity int, unitPrice Money, now time.Time) (*Cart, bool) {
	i := c.FindLine(lineItemID)
	if i < 0 {
		return c, false
	}
	if quantity <= 0 {
		return RemoveLine(c, lineItemID, now)
	}
	items := make([]LineItem, len(c.LineItems))
	copy(items, c.LineItems)
	items[i].Quantity = quantity
	items[i].Price = unitPrice
	items[i].LineTotal = unitPrice.Times(quantity)
	return c.WithItems(items, now), true
}

// RemoveLine filters out a line. ok is false when no line matches.
func RemoveLine(c *Cart, lineItemID string, now time.Time) (*Cart, bool) {
	if c.FindLine(lineItemID) < 0 {
		return c, false
	}
	items := make([]LineItem, 0, len(c.LineItems)-1)
	for _, item := range c.LineItems {
		if item.ID != lineItemID {
			items = append(items, item)
		}
	}
	return c.WithItems(items, now), true
}

// Empty drops every line and zeroes the aggregates
func Empty(c *Cart, now time.Time) *Cart {
	return c.WithItems([]LineItem{}, now)
}
