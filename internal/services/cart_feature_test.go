package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type cartFeatureContext struct {
	products []models.Product
	h        *harness
	initial  *models.Cart
	previous *models.Cart
	cart     *models.Cart
}

func (c *cartFeatureContext) reset() {
	c.products = nil
	c.h = nil
	c.initial = nil
	c.previous = nil
	c.cart = nil
}

func (c *cartFeatureContext) aProductNamedPriced(id, name, raw string) error {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	c.products = append(c.products, models.Product{ID: id, Name: name, Price: models.NewMoney(amount)})
	return nil
}

func (c *cartFeatureContext) anEmptyLocalCart() error {
	c.h = newLocalHarness(c.products...)
	cart, err := c.h.svc.FetchCart(context.Background())
	if err != nil {
		return err
	}
	c.initial, c.cart = cart, cart
	return nil
}

func (c *cartFeatureContext) track(cart *models.Cart, err error) error {
	if err != nil {
		return err
	}
	c.previous, c.cart = c.cart, cart
	return nil
}

func (c *cartFeatureContext) lineFor(productID string) (models.LineItem, error) {
	i := c.cart.FindByProduct(productID)
	if i < 0 {
		return models.LineItem{}, fmt.Errorf("no line for product %q", productID)
	}
	return c.cart.LineItems[i], nil
}

func (c *cartFeatureContext) iAddOfProduct(qty int, productID string) error {
	return c.track(c.h.svc.AddToCart(context.Background(), productID, qty))
}

func (c *cartFeatureContext) iSetTheQuantityOfTheLineForProductTo(productID string, qty int) error {
	line, err := c.lineFor(productID)
	if err != nil {
		return err
	}
	return c.track(c.h.svc.UpdateCartItem(context.Background(), line.ID, qty))
}

func (c *cartFeatureContext) iRemoveTheLineForProduct(productID string) error {
	line, err := c.lineFor(productID)
	if err != nil {
		return err
	}
	return c.track(c.h.svc.RemoveFromCart(context.Background(), line.ID))
}

func (c *cartFeatureContext) iRemoveTheLine(lineID string) error {
	return c.track(c.h.svc.RemoveFromCart(context.Background(), lineID))
}

func (c *cartFeatureContext) iEmptyTheCart() error {
	return c.track(c.h.svc.EmptyCart(context.Background()))
}

func (c *cartFeatureContext) iCloseTheCartDrawer() error {
	c.h.ui.CloseCart()
	return nil
}

func (c *cartFeatureContext) theCartHasLineItems(n int) error {
	if got := len(c.cart.LineItems); got != n {
		return fmt.Errorf("expected %d line items, got %d", n, got)
	}
	return nil
}

func (c *cartFeatureContext) theLineForProductHasQuantityAndLineTotal(productID string, qty int, total string) error {
	line, err := c.lineFor(productID)
	if err != nil {
		return err
	}
	if line.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, line.Quantity)
	}
	if line.LineTotal.Formatted != total {
		return fmt.Errorf("expected line total %s, got %s", total, line.LineTotal.Formatted)
	}
	return nil
}

func (c *cartFeatureContext) theSubtotalIsWithItemsAndUniqueItems(subtotal string, items, unique int) error {
	if c.cart.Subtotal.Formatted != subtotal {
		return fmt.Errorf("expected subtotal %s, got %s", subtotal, c.cart.Subtotal.Formatted)
	}
	if c.cart.TotalItems != items {
		return fmt.Errorf("expected %d items, got %d", items, c.cart.TotalItems)
	}
	if c.cart.TotalUniqueItems != unique {
		return fmt.Errorf("expected %d unique items, got %d", unique, c.cart.TotalUniqueItems)
	}
	return nil
}

func (c *cartFeatureContext) theCartDrawerIs(state string) error {
	open := c.h.ui.Snapshot().CartOpen
	if (state == "open") != open {
		return fmt.Errorf("expected cart drawer %s, open=%v", state, open)
	}
	return nil
}

func (c *cartFeatureContext) theCartWasNotChangedByTheLastOperation() error {
	if c.previous == nil || c.previous.Updated != c.cart.Updated {
		return fmt.Errorf("cart was updated by a no-op")
	}
	return nil
}

func (c *cartFeatureContext) theCartKeepsItsIdentity() error {
	if c.cart.ID != c.initial.ID || c.cart.Created != c.initial.Created || c.cart.Expires != c.initial.Expires {
		return fmt.Errorf("cart identity changed: %s/%d/%d", c.cart.ID, c.cart.Created, c.cart.Expires)
	}
	return nil
}

func InitializeCartScenario(ctx *godog.ScenarioContext) {
	tc := &cartFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a product "([^"]*)" named "([^"]*)" priced (\d+\.\d+)$`, tc.aProductNamedPriced)
	ctx.Step(`^an empty local cart$`, tc.anEmptyLocalCart)

	// When steps
	ctx.Step(`^I add (\d+) of product "([^"]*)"$`, tc.iAddOfProduct)
	ctx.Step(`^I set the quantity of the line for product "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTheLineForProductTo)
	ctx.Step(`^I remove the line for product "([^"]*)"$`, tc.iRemoveTheLineForProduct)
	ctx.Step(`^I remove the line "([^"]*)"$`, tc.iRemoveTheLine)
	ctx.Step(`^I empty the cart$`, tc.iEmptyTheCart)
	ctx.Step(`^I close the cart drawer$`, tc.iCloseTheCartDrawer)

	// Then steps
	ctx.Step(`^the cart has (\d+) line items?$`, tc.theCartHasLineItems)
	ctx.Step(`^the line for product "([^"]*)" has quantity (\d+) and line total (\d+\.\d+)$`, tc.theLineForProductHasQuantityAndLineTotal)
	ctx.Step(`^the subtotal is (\d+\.\d+) with (\d+) items and (\d+) unique items$`, tc.theSubtotalIsWithItemsAndUniqueItems)
	ctx.Step(`^the cart drawer is (open|closed)$`, tc.theCartDrawerIs)
	ctx.Step(`^the cart was not changed by the last operation$`, tc.theCartWasNotChangedByTheLastOperation)
	ctx.Step(`^the cart keeps its id, creation time and expiry$`, tc.theCartKeepsItsIdentity)
}

func TestCartFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCartScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
