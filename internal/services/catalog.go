package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/SigNoz/storefront-go-app/internal/ui"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CatalogSource lists the remote catalog. *commerce.Client satisfies it.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// CatalogService holds the catalog snapshot. The snapshot is loaded once and
// only replaced wholesale by Refresh.
type CatalogService struct {
	remote  CatalogSource
	latency time.Duration
	ui      *ui.State
	metrics *metrics.AppMetrics
	log     *zap.Logger

	group    singleflight.Group
	mu       sync.RWMutex
	snapshot *models.Catalog
}

// NewCatalogService creates a catalog service. A nil remote serves the
// built-in fixtures after the simulated latency.
func NewCatalogService(remote CatalogSource, latency time.Duration, uiState *ui.State, m *metrics.AppMetrics, log *zap.Logger) *CatalogService {
	return &CatalogService{
		remote:  remote,
		latency: latency,
		ui:      uiState,
		metrics: m,
		log:     log,
	}
}

// Snapshot returns the current catalog, loading it on first use
func (s *CatalogService) Snapshot(ctx context.Context) (*models.Catalog, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	attrs := metric.WithAttributes(s.metrics.WithServiceName([]attribute.KeyValue{})...)
	if snap != nil {
		s.metrics.CacheHits.Add(ctx, 1, attrs)
		return snap, nil
	}
	s.metrics.CacheMisses.Add(ctx, 1, attrs)
	return s.load(ctx, false)
}

// Refresh fetches the catalog again and replaces the snapshot
func (s *CatalogService) Refresh(ctx context.Context) (*models.Catalog, error) {
	return s.load(ctx, true)
}

func (s *CatalogService) load(ctx context.Context, force bool) (*models.Catalog, error) {
	key := "catalog"
	if force {
		key = "catalog-refresh"
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		if !force {
			s.mu.RLock()
			snap := s.snapshot
			s.mu.RUnlock()
			if snap != nil {
				return snap, nil
			}
		}

		snap, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snapshot = snap
		s.mu.Unlock()

		s.log.Info("catalog loaded",
			zap.Int("products", len(snap.Products)),
			zap.Int("categories", len(snap.Categories)),
		)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Catalog), nil
}

func (s *CatalogService) fetch(ctx context.Context) (*models.Catalog, error) {
	s.ui.SetLoadingProducts(true)
	defer s.ui.SetLoadingProducts(false)

	fixtures := fixtureCatalog()
	if s.remote == nil {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to load catalog: %w", ctx.Err())
		}
		return fixtures, nil
	}

	snap := &models.Catalog{}
	products, err := s.remote.ListProducts(ctx)
	if err != nil {
		s.log.Warn("error fetching products, using fixtures", zap.Error(err))
		s.metrics.RecordCatalogFallback(ctx, "products", "remote_error")
		products = fixtures.Products
	}
	snap.Products = products

	categories, err := s.remote.ListCategories(ctx)
	if err != nil {
		s.log.Warn("error fetching categories, using fixtures", zap.Error(err))
		s.metrics.RecordCatalogFallback(ctx, "categories", "remote_error")
		categories = fixtures.Categories
	}
	snap.Categories = categories

	if snap.Products == nil {
		snap.Products = []models.Product{}
	}
	if snap.Categories == nil {
		snap.Categories = []models.Category{}
	}
	return snap, nil
}

// Products lists the filtered and sorted catalog
func (s *CatalogService) Products(ctx context.Context, q models.CatalogQuery) ([]models.Product, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Filter(q), nil
}

// Categories lists the catalog categories
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Categories, nil
}

// Product returns one product and up to four related ones. It counts a view.
func (s *CatalogService) Product(ctx context.Context, id string) (models.Product, []models.Product, bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Product{}, nil, false, err
	}
	p, ok := snap.Find(id)
	if !ok {
		return models.Product{}, nil, false, nil
	}
	s.metrics.RecordProductView(ctx, id)
	return p, snap.Related(id, 4), true, nil
}

// Lookup resolves a product for pricing. It does not count a view.
func (s *CatalogService) Lookup(ctx context.Context, id string) (models.Product, bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Product{}, false, err
	}
	p, ok := snap.Find(id)
	return p, ok, nil
}
