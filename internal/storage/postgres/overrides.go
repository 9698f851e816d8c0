package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OverrideRepository stores coefficient overrides keyed by mapping key.
// It satisfies overlay.Store.
type OverrideRepository struct {
	db *pgxpool.Pool
}

// NewOverrideRepository creates an OverrideRepository backed by db.
func NewOverrideRepository(db *pgxpool.Pool) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// LoadOverrides returns every stored override. An empty table yields an
// empty, non-nil map.
func (r *OverrideRepository) LoadOverrides(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM coefficient_overrides`)
	if err != nil {
		return nil, fmt.Errorf("querying overrides: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overrides: %w", err)
	}
	return out, nil
}

// SaveOverrides replaces the stored overrides with overrides.
func (r *OverrideRepository) SaveOverrides(ctx context.Context, overrides map[string]float64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM coefficient_overrides`); err != nil {
			return fmt.Errorf("clearing overrides: %w", err)
		}
		if len(overrides) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for k, v := range overrides {
			batch.Queue(`INSERT INTO coefficient_overrides (key, value) VALUES ($1, $2)`, k, v)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting overrides: %w", err)
		}
		return nil
	})
}
