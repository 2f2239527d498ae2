// Package costs is the storage collaborator behind the report pipeline: per
// account, the unit cost entered for each SKU and the set of SKUs the
// account tracks.
package costs

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/sell-tools/margin-atlas/pkg/models/store"
)

type Store interface {
	// GetUnitCosts returns the cost map for the account. SKUs without an
	// entry are simply absent; callers treat them as zero cost.
	GetUnitCosts(ctx context.Context, account string) (map[domain.SKU]float64, error)
	// GetTrackedSkus returns the set of SKUs the account reports on.
	GetTrackedSkus(ctx context.Context, account string) (map[domain.SKU]struct{}, error)
}

type costStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &costStore{db: db}, nil
}

// Open connects to the cost database via the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cost database: %w", err)
	}
	return db, nil
}

func (s *costStore) GetUnitCosts(ctx context.Context, account string) (map[domain.SKU]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sku, unit_cost FROM sku_costs WHERE account_id = $1`, account)
	if err != nil {
		return nil, fmt.Errorf("query unit costs: %w", err)
	}
	defer rows.Close()

	costs := make(map[domain.SKU]float64)
	for rows.Next() {
		var record store.UnitCost
		if err := rows.Scan(&record.SKU, &record.Cost); err != nil {
			return nil, fmt.Errorf("scan unit cost: %w", err)
		}
		costs[domain.SKU(record.SKU)] = record.Cost
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unit costs: %w", err)
	}
	return costs, nil
}

func (s *costStore) GetTrackedSkus(ctx context.Context, account string) (map[domain.SKU]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sku FROM tracked_skus WHERE account_id = $1`, account)
	if err != nil {
		return nil, fmt.Errorf("query tracked skus: %w", err)
	}
	defer rows.Close()

	tracked := make(map[domain.SKU]struct{})
	for rows.Next() {
		var record store.TrackedSku
		if err := rows.Scan(&record.SKU); err != nil {
			return nil, fmt.Errorf("scan tracked sku: %w", err)
		}
		tracked[domain.SKU(record.SKU)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked skus: %w", err)
	}
	return tracked, nil
}
