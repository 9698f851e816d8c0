package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rpgstat/internal/config"
)

// ToggleRepository stores the feature toggles in a single-row table.
type ToggleRepository struct {
	db *pgxpool.Pool
}

// NewToggleRepository creates a ToggleRepository backed by db.
func NewToggleRepository(db *pgxpool.Pool) *ToggleRepository {
	return &ToggleRepository{db: db}
}

// LoadToggles returns the stored toggles. ok is false when none were saved.
func (r *ToggleRepository) LoadToggles(ctx context.Context) (t config.FeatureToggles, ok bool, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT animal_stats, auto_balance, experience_multiplier, enemy_multiplier, ally_multiplier
		FROM feature_toggles WHERE id = 1`,
	).Scan(&t.AnimalStats, &t.AutoBalance, &t.ExperienceMultiplier, &t.EnemyMultiplier, &t.AllyMultiplier)
	if errors.Is(err, pgx.ErrNoRows) {
		return config.FeatureToggles{}, false, nil
	}
	if err != nil {
		return config.FeatureToggles{}, false, fmt.Errorf("loading toggles: %w", err)
	}
	return t, true, nil
}

// SaveToggles stores t, replacing any earlier toggles.
func (r *ToggleRepository) SaveToggles(ctx context.Context, t config.FeatureToggles) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO feature_toggles (id, animal_stats, auto_balance, experience_multiplier, enemy_multiplier, ally_multiplier)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			animal_stats          = EXCLUDED.animal_stats,
			auto_balance          = EXCLUDED.auto_balance,
			experience_multiplier = EXCLUDED.experience_multiplier,
			enemy_multiplier      = EXCLUDED.enemy_multiplier,
			ally_multiplier       = EXCLUDED.ally_multiplier,
			updated_at            = NOW()`,
		t.AnimalStats, t.AutoBalance, t.ExperienceMultiplier, t.EnemyMultiplier, t.AllyMultiplier,
	)
	if err != nil {
		return fmt.Errorf("saving toggles: %w", err)
	}
	return nil
}
