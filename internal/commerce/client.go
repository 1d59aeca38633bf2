// Package commerce is a client for the Commerce.js (Chec) REST API, the
// remote backend for catalog and cart operations.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the commerce API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commerce api status %d: %s", e.Status, e.Message)
}

// clientError reports whether err is a 4xx answer; those do not trip the breaker
func clientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

// Options configures a Client
type Options struct {
	BaseURL   string
	PublicKey string
	Timeout   time.Duration
	// Transport overrides the base round tripper (tests)
	Transport http.RoundTripper
	// Breaker thresholds; zero values use the defaults below
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Client performs one HTTP round trip per call
type Client struct {
	baseURL   string
	publicKey string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[[]byte]
	metrics   *metrics.AppMetrics
}

// NewClient creates a commerce API client
func NewClient(opts Options, m *metrics.AppMetrics, log *zap.Logger) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := opts.OpenTimeout
	if openTimeout == 0 {
		openTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "commerce-api",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || clientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		publicKey: opts.PublicKey,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		breaker: breaker,
		metrics: m,
	}
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

type cartResponse struct {
	Cart *models.Cart `json:"cart"`
}

// ListProducts returns the remote product catalog
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var resp listResponse[models.Product]
	if err := c.do(ctx, "products.list", http.MethodGet, "/products?limit=200", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListCategories returns the remote categories
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var resp listResponse[models.Category]
	if err := c.do(ctx, "categories.list", http.MethodGet, "/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateCart asks the service for a new empty cart
func (c *Client) CreateCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, "cart.create", http.MethodGet, "/carts", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RetrieveCart fetches an existing cart
func (c *Client) RetrieveCart(ctx context.Context, cartID string) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, "cart.retrieve", http.MethodGet, "/carts/"+url.PathEscape(cartID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds quantity of productID to the cart
func (c *Client) AddItem(ctx context.Context, cartID, productID string, quantity int) (*models.Cart, error) {
	body := map[string]any{"id": productID, "quantity": quantity}
	return c.mutate(ctx, "cart.add", http.MethodPost, "/carts/"+url.PathEscape(cartID), body)
}

// UpdateItem sets a line item quantity
func (c *Client) UpdateItem(ctx context.Context, cartID, lineItemID string, quantity int) (*models.Cart, error) {
	body := map[string]any{"quantity": quantity}
	return c.mutate(ctx, "cart.update", http.MethodPut, itemPath(cartID, lineItemID), body)
}

// RemoveItem deletes a line item
func (c *Client) RemoveItem(ctx context.Context, cartID, lineItemID string) (*models.Cart, error) {
	return c.mutate(ctx, "cart.remove", http.MethodDelete, itemPath(cartID, lineItemID), nil)
}

// EmptyCart deletes every line item
func (c *Client) EmptyCart(ctx context.Context, cartID string) (*models.Cart, error) {
	return c.mutate(ctx, "cart.empty", http.MethodDelete, "/carts/"+url.PathEscape(cartID)+"/items", nil)
}

func itemPath(cartID, lineItemID string) string {
	return "/carts/" + url.PathEscape(cartID) + "/items/" + url.PathEscape(lineItemID)
}

func (c *Client) mutate(ctx context.Context, op, method, path string, body any) (*models.Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, op, method, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.Cart == nil {
		return nil, fmt.Errorf("commerce %s: response has no cart", op)
	}
	return resp.Cart, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	c.metrics.RecordCommerceRequest(ctx, op, start, err == nil)
	if err != nil {
		return fmt.Errorf("commerce %s: %w", op, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("commerce %s: failed to decode response: %w", op, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Authorization", c.publicKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}
	return data, nil
}

// errorMessage extracts {"error":{"message":...}} when the API sends it
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return fallback
}
