package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/middleware"
	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/SigNoz/storefront-go-app/internal/services"
	"github.com/SigNoz/storefront-go-app/internal/ui"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// App holds application dependencies
type App struct {
	metrics  *metrics.AppMetrics
	log      *zap.Logger
	catalog  *services.CatalogService
	cart     *services.CartService
	checkout *services.CheckoutService
	ui       *ui.State
}

// NewApp creates a new application instance
func NewApp(
	m *metrics.AppMetrics,
	log *zap.Logger,
	catalog *services.CatalogService,
	cart *services.CartService,
	checkout *services.CheckoutService,
	uiState *ui.State,
) *App {
	return &App{
		metrics:  m,
		log:      log,
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		ui:       uiState,
	}
}

// SetupRoutes configures the HTTP routes
func (a *App) SetupRoutes(r *mux.Router) {
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.RecoverMiddleware(a.log))
	r.Use(middleware.MetricsMiddleware(a.metrics, a.log))

	api := r.PathPrefix("/api/v1").Subrouter()

	// Catalog
	api.HandleFunc("/products", a.ListProductsHandler).Methods("GET")
	api.HandleFunc("/products/{id}", a.GetProductHandler).Methods("GET")
	api.HandleFunc("/categories", a.ListCategoriesHandler).Methods("GET")

	// Cart
	api.HandleFunc("/cart", a.GetCartHandler).Methods("GET")
	api.HandleFunc("/cart", a.EmptyCartHandler).Methods("DELETE")
	api.HandleFunc("/cart/items", a.AddToCartHandler).Methods("POST")
	api.HandleFunc("/cart/items/{id}", a.UpdateCartItemHandler).Methods("PUT")
	api.HandleFunc("/cart/items/{id}", a.RemoveFromCartHandler).Methods("DELETE")

	// Checkout
	api.HandleFunc("/checkout", a.CheckoutHandler).Methods("POST")

	// UI flags
	api.HandleFunc("/ui", a.GetUIHandler).Methods("GET")
	api.HandleFunc("/ui/cart/{action:open|close|toggle}", a.CartDrawerHandler).Methods("POST")
	api.HandleFunc("/ui/menu/{action:toggle|close}", a.MobileMenuHandler).Methods("POST")

	r.HandleFunc("/health", a.HealthHandler).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// HealthHandler handles health check requests
func (a *App) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "mode": a.cart.Mode()})
}

// ListProductsHandler handles GET /api/v1/products
func (a *App) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := a.catalog.Products(r.Context(), models.CatalogQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProductHandler handles GET /api/v1/products/{id}
func (a *App) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, related, ok, err := a.catalog.Product(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product, "related": related})
}

// ListCategoriesHandler handles GET /api/v1/categories
func (a *App) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := a.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCartHandler handles GET /api/v1/cart
func (a *App) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := a.cart.FetchCart(r.Context())
	a.writeCart(w, cart, err)
}

// AddToCartHandler handles POST /api/v1/cart/items
func (a *App) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	cart, err := a.cart.AddToCart(r.Context(), req.ProductID, req.Quantity)
	a.writeCart(w, cart, err)
}

// UpdateCartItemHandler handles PUT /api/v1/cart/items/{id}
func (a *App) UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cart, err := a.cart.UpdateCartItem(r.Context(), mux.Vars(r)["id"], req.Quantity)
	a.writeCart(w, cart, err)
}

// RemoveFromCartHandler handles DELETE /api/v1/cart/items/{id}
func (a *App) RemoveFromCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := a.cart.RemoveFromCart(r.Context(), mux.Vars(r)["id"])
	a.writeCart(w, cart, err)
}

// EmptyCartHandler handles DELETE /api/v1/cart
func (a *App) EmptyCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := a.cart.EmptyCart(r.Context())
	a.writeCart(w, cart, err)
}

func (a *App) writeCart(w http.ResponseWriter, cart *models.Cart, err error) {
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// CheckoutHandler handles POST /api/v1/checkout
func (a *App) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var form models.CheckoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirmation, err := a.checkout.PlaceOrder(r.Context(), form)
	switch {
	case errors.Is(err, services.ErrIncompleteCheckout), errors.Is(err, services.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, "order processing failed, please try again")
	default:
		writeJSON(w, http.StatusCreated, confirmation)
	}
}

// GetUIHandler handles GET /api/v1/ui
func (a *App) GetUIHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.ui.Snapshot())
}

// CartDrawerHandler handles POST /api/v1/ui/cart/{open|close|toggle}
func (a *App) CartDrawerHandler(w http.ResponseWriter, r *http.Request) {
	var flags ui.Flags
	switch mux.Vars(r)["action"] {
	case "open":
		flags = a.ui.OpenCart()
	case "close":
		flags = a.ui.CloseCart()
	default:
		flags = a.ui.ToggleCart()
	}
	writeJSON(w, http.StatusOK, flags)
}

// MobileMenuHandler handles POST /api/v1/ui/menu/{toggle|close}
func (a *App) MobileMenuHandler(w http.ResponseWriter, r *http.Request) {
	var flags ui.Flags
	if mux.Vars(r)["action"] == "close" {
		flags = a.ui.CloseMobileMenu()
	} else {
		flags = a.ui.ToggleMobileMenu()
	}
	writeJSON(w, http.StatusOK, flags)
}
