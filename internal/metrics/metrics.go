package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SigNoz/storefront-go-app/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// AppMetrics holds all application metrics
type AppMetrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Database Metrics
	DBQueriesTotal  metric.Int64Counter
	DBQueryDuration metric.Float64Histogram

	// Commerce backend
	CommerceRequestDuration metric.Float64Histogram

	// Business Metrics
	CartOperations  metric.Int64Counter
	CartItemsCount  metric.Int64Gauge
	OrdersCreated   metric.Int64Counter
	RevenueTotal    metric.Float64Counter
	ProductsViewed  metric.Int64Counter
	CatalogFallback metric.Int64Counter

	// Catalog snapshot cache
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	serviceName string
}

// SigNoz default histogram buckets in milliseconds, expanded to 60s
var buckets = []float64{2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10000, 15000, 20000, 30000, 45000, 60000}

// InitMetrics initializes the OpenTelemetry meter provider and instruments.
// With metrics disabled the provider has no reader and records nowhere.
func InitMetrics(ctx context.Context, cfg *config.Config, log *zap.Logger) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if cfg.OTELMetricsEnabled {
		exporterOpts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cfg.OTELExporterOTLPEndpoint),
			otlpmetrichttp.WithURLPath("/v1/metrics"),
		}
		if cfg.OTELExporterOTLPHeaders != "" {
			exporterOpts = append(exporterOpts, otlpmetrichttp.WithHeaders(parseHeaders(cfg.OTELExporterOTLPHeaders)))
		}
		if cfg.OTELExporterOTLPInsecure {
			exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
		}

		exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(10*time.Second),
		)))
		log.Info("metrics exporter configured",
			zap.String("endpoint", cfg.OTELExporterOTLPEndpoint),
			zap.Bool("insecure", cfg.OTELExporterOTLPInsecure),
			zap.Duration("interval", 10*time.Second),
		)
	} else {
		log.Info("metrics export disabled")
	}

	meterProvider := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(meterProvider)

	appMetrics, err := NewAppMetrics(meterProvider.Meter(cfg.OTELServiceName), cfg.OTELServiceName)
	if err != nil {
		return nil, nil, err
	}
	return appMetrics, meterProvider, nil
}

func buildResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	// Explicit attributes take precedence over OTEL_RESOURCE_ATTRIBUTES
	envRes, err := resource.New(ctx, resource.WithFromEnv())
	if err != nil {
		envRes = resource.Empty()
	}
	explicitRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTELServiceName),
			semconv.ServiceVersion(cfg.OTELServiceVersion),
			attribute.String("deployment.environment", cfg.OTELDeploymentEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create explicit resource: %w", err)
	}
	res, err := resource.Merge(envRes, explicitRes)
	if err != nil {
		return nil, fmt.Errorf("failed to merge resources: %w", err)
	}
	return res, nil
}

// NewAppMetrics creates every instrument on meter
func NewAppMetrics(meter metric.Meter, serviceName string) (*AppMetrics, error) {
	m := &AppMetrics{serviceName: serviceName}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}

	if m.HTTPRequestsErrors, err = meter.Int64Counter(
		"http.server.request.error.count",
		metric.WithDescription("Total number of HTTP error requests"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create http errors counter: %w", err)
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}

	if m.DBQueriesTotal, err = meter.Int64Counter(
		"db.client.queries.count",
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create db queries counter: %w", err)
	}

	if m.DBQueryDuration, err = meter.Float64Histogram(
		"db.client.queries.duration",
		metric.WithDescription("Database query duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create db duration histogram: %w", err)
	}

	if m.CommerceRequestDuration, err = meter.Float64Histogram(
		"commerce.client.request.duration",
		metric.WithDescription("Commerce API round trip in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create commerce duration histogram: %w", err)
	}

	if m.CartOperations, err = meter.Int64Counter(
		"cart_operations_total",
		metric.WithDescription("Cart operations by operation, mode and status"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart operations counter: %w", err)
	}

	if m.CartItemsCount, err = meter.Int64Gauge(
		"cart_items_count",
		metric.WithDescription("Current number of items in the cart"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cart items gauge: %w", err)
	}

	if m.OrdersCreated, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of orders placed"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create orders counter: %w", err)
	}

	if m.RevenueTotal, err = meter.Float64Counter(
		"revenue_total",
		metric.WithDescription("Total revenue generated"),
		metric.WithUnit("USD"),
	); err != nil {
		return nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}

	if m.ProductsViewed, err = meter.Int64Counter(
		"products_viewed_total",
		metric.WithDescription("Total number of product views"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create products viewed counter: %w", err)
	}

	if m.CatalogFallback, err = meter.Int64Counter(
		"catalog_fallback_total",
		metric.WithDescription("Catalog fetches served from built-in fixtures"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create catalog fallback counter: %w", err)
	}

	if m.CacheHits, err = meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Total number of catalog snapshot hits"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache hits counter: %w", err)
	}

	if m.CacheMisses, err = meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Total number of catalog snapshot misses"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache misses counter: %w", err)
	}

	return m, nil
}

// Noop returns metrics that record nothing
func Noop() *AppMetrics {
	m, _ := NewAppMetrics(noop.NewMeterProvider().Meter("noop"), "noop")
	return m
}

// WithServiceName adds service.name to attributes
func (m *AppMetrics) WithServiceName(attrs []attribute.KeyValue) []attribute.KeyValue {
	return append(attrs, attribute.String("service.name", m.serviceName))
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordDBQuery records database query metrics including the SQL statement
func (m *AppMetrics) RecordDBQuery(ctx context.Context, operation, table, statement string, start time.Time, success bool) {
	duration := time.Since(start).Milliseconds()
	attrs := m.WithServiceName([]attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
		attribute.String("db.statement", statement),
		attribute.String("db.system", "mysql"),
		attribute.String("status", status(success)),
	})
	m.DBQueriesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.DBQueryDuration.Record(ctx, float64(duration), metric.WithAttributes(attrs...))
}

// RecordCommerceRequest records one commerce API round trip
func (m *AppMetrics) RecordCommerceRequest(ctx context.Context, operation string, start time.Time, success bool) {
	attrs := m.WithServiceName([]attribute.KeyValue{
		attribute.String("commerce.operation", operation),
		attribute.String("status", status(success)),
	})
	m.CommerceRequestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordCartOperation counts a cart operation outcome
func (m *AppMetrics) RecordCartOperation(ctx context.Context, operation, mode string, success bool) {
	attrs := m.WithServiceName([]attribute.KeyValue{
		attribute.String("cart.operation", operation),
		attribute.String("cart.mode", mode),
		attribute.String("status", status(success)),
	})
	m.CartOperations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCartItems records the cart's total item count
func (m *AppMetrics) RecordCartItems(ctx context.Context, cartID string, count int) {
	attrs := m.WithServiceName([]attribute.KeyValue{attribute.String("cart_id", cartID)})
	m.CartItemsCount.Record(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordCatalogFallback counts a fixture substitution for resource ("products", "categories")
func (m *AppMetrics) RecordCatalogFallback(ctx context.Context, resource, reason string) {
	attrs := m.WithServiceName([]attribute.KeyValue{
		attribute.String("catalog.resource", resource),
		attribute.String("reason", reason),
	})
	m.CatalogFallback.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOrder counts a placed order and its revenue
func (m *AppMetrics) RecordOrder(ctx context.Context, mode string, total float64) {
	attrs := m.WithServiceName([]attribute.KeyValue{attribute.String("cart.mode", mode)})
	m.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.RevenueTotal.Add(ctx, total, metric.WithAttributes(attrs...))
}

// RecordProductView counts a product detail view
func (m *AppMetrics) RecordProductView(ctx context.Context, productID string) {
	attrs := m.WithServiceName([]attribute.KeyValue{attribute.String("product_id", productID)})
	m.ProductsViewed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// parseHeaders parses header string in format "key1=value1,key2=value2"
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	if headerStr == "" {
		return headers
	}
	for _, pair := range strings.Split(headerStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers
}
