package simhost

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/rpgstat/internal/config"
	"github.com/cory-johannsen/rpgstat/internal/game/overlay"
	"github.com/cory-johannsen/rpgstat/internal/storage/postgres"
	"github.com/cory-johannsen/rpgstat/internal/storage/redis"
)

// ToggleStore persists feature toggles.
type ToggleStore interface {
	LoadToggles(ctx context.Context) (config.FeatureToggles, bool, error)
	SaveToggles(ctx context.Context, t config.FeatureToggles) error
}

// Settings is the persistence collaborator for user settings. Toggles may be
// nil, in which case only overrides persist.
type Settings struct {
	Backend   string
	Overrides overlay.Store
	Toggles   ToggleStore
	close     func()
}

// Close releases backend resources.
func (s *Settings) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenSettings opens the backend selected by cfg.Settings.Backend.
func OpenSettings(ctx context.Context, cfg config.Config) (*Settings, error) {
	switch cfg.Settings.Backend {
	case "", "memory":
		m := &memorySettings{}
		return &Settings{Backend: "memory", Overrides: m, Toggles: m}, nil
	case "file":
		store := overlay.NewFileStore(cfg.Settings.File)
		return &Settings{Backend: "file", Overrides: store, Toggles: store}, nil
	case "redis":
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		store, err := redis.NewSettingsStore(client, cfg.Redis.KeyPrefix)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Settings{
			Backend:   "redis",
			Overrides: store,
			Toggles:   store,
			close:     func() { _ = client.Close() },
		}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("opening settings database: %w", err)
		}
		return &Settings{
			Backend:   "postgres",
			Overrides: postgres.NewOverrideRepository(pool.DB()),
			Toggles:   postgres.NewToggleRepository(pool.DB()),
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown settings backend %q", cfg.Settings.Backend)
}

// LoadSettings applies persisted toggles, then persisted overrides.
func (h *Host) LoadSettings(ctx context.Context, s *Settings) error {
	var (
		toggles config.FeatureToggles
		ok      bool
	)
	if s.Toggles != nil {
		var err error
		if toggles, ok, err = s.Toggles.LoadToggles(ctx); err != nil {
			return err
		}
	}
	values, err := s.Overrides.LoadOverrides(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ok {
		h.applyToggles(toggles)
	}
	h.overlay.Load(values)
	return nil
}

// SaveSettings persists the current toggles and overrides.
func (h *Host) SaveSettings(ctx context.Context, s *Settings) error {
	h.mu.Lock()
	toggles := h.cfg.Toggles()
	overrides := h.overlay.Overrides()
	h.mu.Unlock()

	if s.Toggles != nil {
		if err := s.Toggles.SaveToggles(ctx, toggles); err != nil {
			return err
		}
	}
	return s.Overrides.SaveOverrides(ctx, overrides)
}

// memorySettings keeps settings for the life of the process.
type memorySettings struct {
	mu        sync.Mutex
	overrides map[string]float64
	toggles   *config.FeatureToggles
}

func (m *memorySettings) LoadOverrides(context.Context) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.overrides))
	for k, v := range m.overrides {
		out[k] = v
	}
	return out, nil
}

func (m *memorySettings) SaveOverrides(_ context.Context, overrides map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides = make(map[string]float64, len(overrides))
	for k, v := range overrides {
		m.overrides[k] = v
	}
	return nil
}

func (m *memorySettings) LoadToggles(context.Context) (config.FeatureToggles, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.toggles == nil {
		return config.FeatureToggles{}, false, nil
	}
	return *m.toggles, true, nil
}

func (m *memorySettings) SaveToggles(_ context.Context, t config.FeatureToggles) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles = &t
	return nil
}
