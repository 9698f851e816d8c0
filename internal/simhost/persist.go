package simhost

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/game/progression"
)

// ProgressRepository is the host-save adapter for attribute progress.
type ProgressRepository interface {
	SaveStore(ctx context.Context, store *progression.Store) error
	LoadStore(ctx context.Context, store *progression.Store) (int, error)
}

// SaveProgress writes every entity's progression to repo.
func (h *Host) SaveProgress(ctx context.Context, repo ProgressRepository) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := repo.SaveStore(ctx, h.store); err != nil {
		return err
	}
	h.logger.Info("progress saved", zap.Int("entities", len(h.store.Entities())))
	return nil
}

// LoadProgress restores saved progression from repo. The reference power
// cache is dropped.
func (h *Host) LoadProgress(ctx context.Context, repo ProgressRepository) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := repo.LoadStore(ctx, h.store)
	if err != nil {
		return 0, err
	}
	h.balancer.InvalidateCache()
	h.logger.Info("progress loaded", zap.Int("entities", n))
	return n, nil
}
