package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/api"
	"github.com/SigNoz/storefront-go-app/internal/commerce"
	"github.com/SigNoz/storefront-go-app/internal/db"
	"github.com/SigNoz/storefront-go-app/internal/events"
	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/persist"
	"github.com/SigNoz/storefront-go-app/internal/services"
	"github.com/SigNoz/storefront-go-app/internal/ui"
	"github.com/SigNoz/storefront-go-app/pkg/config"
	"github.com/SigNoz/storefront-go-app/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.New(logger.Options{Service: cfg.OTELServiceName, Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	appMetrics, meterProvider, err := metrics.InitMetrics(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("error shutting down meter provider", zap.Error(err))
		}
	}()

	store, err := openStore(ctx, cfg, appMetrics, log)
	if err != nil {
		return err
	}
	defer store.Close()

	uiState := ui.NewState()
	bus := events.NewBus()
	bus.Subscribe(uiState)

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaBuffer, log)
		publisher.Start()
		defer publisher.Close()
		bus.Subscribe(publisher)
		log.Info("publishing cart events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	var (
		catalog *services.CatalogService
		backend services.CartBackend
	)
	if cfg.RemoteEnabled() {
		client := commerce.NewClient(commerce.Options{
			BaseURL:   cfg.CommerceAPIURL,
			PublicKey: cfg.CommercePublicKey,
			Timeout:   cfg.CommerceTimeout,
		}, appMetrics, log)
		catalog = services.NewCatalogService(client, cfg.SimulatedLatency, uiState, appMetrics, log)
		backend = services.NewRemoteBackend(client)
	} else {
		catalog = services.NewCatalogService(nil, cfg.SimulatedLatency, uiState, appMetrics, log)
		backend = services.NewLocalBackend(catalog)
	}

	cartService := services.NewCartService(backend, store, bus, uiState, appMetrics, log)
	if err := cartService.Restore(ctx); err != nil {
		log.Warn("starting without persisted cart", zap.Error(err))
	}
	checkoutService := services.NewCheckoutService(cartService, cfg.CheckoutProcessingDelay, appMetrics, log)

	app := api.NewApp(appMetrics, log, catalog, cartService, checkoutService, uiState)
	router := mux.NewRouter()
	app.SetupRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("port", cfg.AppPort),
			zap.String("mode", cartService.Mode()),
			zap.String("cart_store", cfg.CartStore),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

// openStore picks the cart persistence backend named by CART_STORE
func openStore(ctx context.Context, cfg *config.Config, m *metrics.AppMetrics, log *zap.Logger) (persist.Store, error) {
	switch cfg.CartStore {
	case config.CartStoreRedis:
		store, err := persist.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CartStoreName, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CartStoreMySQL:
		database, err := db.NewDB(ctx, cfg.GetDSN(), cfg.OTELServiceName, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		schemaSQL, err := os.ReadFile("schema.sql")
		if err != nil {
			log.Warn("could not read schema.sql, assuming schema exists", zap.Error(err))
		} else if err := database.InitSchema(ctx, string(schemaSQL)); err != nil {
			log.Warn("could not initialize schema, assuming schema exists", zap.Error(err))
		}
		return persist.NewSQLStore(database, cfg.CartStoreName, m, log), nil
	case config.CartStoreNone:
		return persist.NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cart store %q", cfg.CartStore)
	}
}
