package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SigNoz/storefront-go-app/internal/db"
	"github.com/SigNoz/storefront-go-app/internal/metrics"
	"github.com/SigNoz/storefront-go-app/internal/models"
	"go.uber.org/zap"
)

const (
	selectCartQuery = "SELECT payload FROM cart_store WHERE name = ?"
	upsertCartQuery = "INSERT INTO cart_store (name, payload) VALUES (?, ?) ON DUPLICATE KEY UPDATE payload = VALUES(payload)"
)

// SQLStore keeps the cart as one row of cart_store
type SQLStore struct {
	db      *db.DB
	name    string
	metrics *metrics.AppMetrics
	log     *zap.Logger
}

func NewSQLStore(database *db.DB, name string, m *metrics.AppMetrics, log *zap.Logger) *SQLStore {
	return &SQLStore{db: database, name: name, metrics: m, log: log}
}

func (s *SQLStore) Load(ctx context.Context) (*models.Cart, error) {
	start := time.Now()
	var payload []byte
	err := s.db.QueryRowContext(ctx, selectCartQuery, s.name).Scan(&payload)
	s.metrics.RecordDBQuery(ctx, "SELECT", "cart_store", selectCartQuery, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return decode(payload, s.log), nil
}

func (s *SQLStore) Save(ctx context.Context, cart *models.Cart) error {
	data, err := encode(cart)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = s.db.ExecContext(ctx, upsertCartQuery, s.name, data)
	s.metrics.RecordDBQuery(ctx, "INSERT", "cart_store", upsertCartQuery, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
