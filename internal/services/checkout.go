package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/models"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrIncompleteCheckout = errors.New("please complete all required fields")
)

// CheckoutService places a simulated order. No payment is taken; a
// successful checkout only clears the cart.
type CheckoutService struct {
	cart    *CartService
	delay   time.Duration
	metrics *metrics.AppMetrics
	log     *zap.Logger
	now     func() time.Time
	wait    func(ctx context.Context, d time.Duration) error
}

// NewCheckoutService creates a checkout service that waits delay before
// confirming an order
func NewCheckoutService(cart *CartService, delay time.Duration, m *metrics.AppMetrics, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		cart:    cart,
		delay:   delay,
		metrics: m,
		log:     log,
		now:     time.Now,
		wait:    sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// checkoutSteps lists the required fields of contact, shipping and payment
var checkoutSteps = []struct {
	name   string
	fields func(f models.CheckoutForm) map[string]string
}{
	{"contact", func(f models.CheckoutForm) map[string]string {
		return map[string]string{"email": f.Email, "first_name": f.FirstName, "last_name": f.LastName}
	}},
	{"shipping", func(f models.CheckoutForm) map[string]string {
		return map[string]string{"address": f.Address, "city": f.City, "state": f.State, "zip_code": f.ZipCode, "country": f.Country}
	}},
	{"payment", func(f models.CheckoutForm) map[string]string {
		return map[string]string{"card_number": f.CardNumber, "expiry_date": f.ExpiryDate, "cvv": f.CVV, "card_name": f.CardName}
	}},
}

// ValidateStep checks one checkout step (1 contact, 2 shipping, 3 payment)
// and returns the missing field names in sorted order
func ValidateStep(step int, form models.CheckoutForm) []string {
	if step < 1 || step > len(checkoutSteps) {
		return nil
	}
	var missing []string
	for name, value := range checkoutSteps[step-1].fields(form) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// PlaceOrder validates the form, waits the processing delay, empties the
// cart and returns the confirmation. The order total is taken from the cart
// contents that were cleared.
func (s *CheckoutService) PlaceOrder(ctx context.Context, form models.CheckoutForm) (*models.OrderConfirmation, error) {
	var missing []string
	for step := 1; step <= len(checkoutSteps); step++ {
		missing = append(missing, ValidateStep(step, form)...)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteCheckout, strings.Join(missing, ", "))
	}

	if s.cart.Cart().IsEmpty() {
		return nil, ErrEmptyCart
	}

	if err := s.wait(ctx, s.delay); err != nil {
		return nil, fmt.Errorf("failed to process order: %w", err)
	}

	cart, err := s.cart.Drain(ctx)
	if err != nil {
		s.log.Error("order processing failed", zap.Error(err))
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	confirmation := &models.OrderConfirmation{
		OrderNumber: fmt.Sprintf("ORD-%d", s.now().UnixMilli()),
		Total:       cart.Subtotal.FormattedWithSymbol,
	}

	total, _ := cart.Subtotal.Raw.Float64()
	s.metrics.RecordOrder(ctx, s.cart.Mode(), total)
	s.log.Info("order placed",
		zap.String("order_number", confirmation.OrderNumber),
		zap.String("cart_id", cart.ID),
		zap.Int("total_items", cart.TotalItems),
		zap.String("total", confirmation.Total),
	)
	return confirmation, nil
}
