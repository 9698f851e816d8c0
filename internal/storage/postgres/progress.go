package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/progression"
)

// ErrProgressNotFound is returned when an entity has no saved progress.
var ErrProgressNotFound = errors.New("progress not found")

// ProgressRepository saves and loads per-entity attribute records.
type ProgressRepository struct {
	db *pgxpool.Pool
}

// NewProgressRepository creates a ProgressRepository backed by db.
//
// Precondition: db must be a valid, open connection pool.
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const upsertProgress = `
	INSERT INTO attribute_progress (entity_id, attribute, level, experience, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (entity_id, attribute)
	DO UPDATE SET level = EXCLUDED.level, experience = EXCLUDED.experience, updated_at = NOW()`

// Save upserts every record of snap for entityID in one transaction.
//
// Precondition: entityID must be non-empty.
func (r *ProgressRepository) Save(ctx context.Context, entityID string, snap progression.Snapshot) error {
	if entityID == "" {
		return fmt.Errorf("saving progress: entity id must not be empty")
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return queueSnapshot(ctx, tx, entityID, snap)
	})
}

func queueSnapshot(ctx context.Context, tx pgx.Tx, entityID string, snap progression.Snapshot) error {
	batch := &pgx.Batch{}
	for _, a := range attribute.All() {
		rec, ok := snap[a]
		if !ok {
			continue
		}
		batch.Queue(upsertProgress, entityID, a.Key(), rec.Level, rec.Experience)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving progress for %s: %w", entityID, err)
	}
	return nil
}

// Load returns the saved records of entityID, or ErrProgressNotFound.
func (r *ProgressRepository) Load(ctx context.Context, entityID string) (progression.Snapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT attribute, level, experience FROM attribute_progress WHERE entity_id = $1`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying progress: %w", err)
	}
	defer rows.Close()

	snap := make(progression.Snapshot, attribute.Count)
	for rows.Next() {
		var key string
		var rec progression.Record
		if err := rows.Scan(&key, &rec.Level, &rec.Experience); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		a, err := attribute.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("progress for %s: %w", entityID, err)
		}
		snap[a] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}
	if len(snap) == 0 {
		return nil, ErrProgressNotFound
	}
	return snap, nil
}

// Delete removes every record of entityID. Deleting an unknown entity is
// not an error.
func (r *ProgressRepository) Delete(ctx context.Context, entityID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM attribute_progress WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("deleting progress: %w", err)
	}
	return nil
}

// ListEntities returns the IDs of every entity with saved progress, sorted.
func (r *ProgressRepository) ListEntities(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT entity_id FROM attribute_progress ORDER BY entity_id`)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	return ids, nil
}

// SaveStore writes every entity held by store in one transaction.
func (r *ProgressRepository) SaveStore(ctx context.Context, store *progression.Store) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, id := range store.Entities() {
			if err := queueSnapshot(ctx, tx, id, store.Snapshot(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadStore restores every saved entity into store and returns how many
// entities were loaded.
func (r *ProgressRepository) LoadStore(ctx context.Context, store *progression.Store) (int, error) {
	ids, err := r.ListEntities(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		snap, err := r.Load(ctx, id)
		if err != nil {
			return 0, err
		}
		store.Restore(id, snap)
	}
	return len(ids), nil
}
