// Package simhost is an in-process stand-in for the host simulation. It owns
// the entity registry, a tick clock and a deferred-callback queue, and wires
// the progression, experience, stat modifier and balance components together.
//
// Every exported method is safe for concurrent use; core components are only
// touched while the host lock is held.
package simhost

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/config"
	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/balance"
	"github.com/cory-johannsen/rpgstat/internal/game/dice"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
	"github.com/cory-johannsen/rpgstat/internal/game/experience"
	"github.com/cory-johannsen/rpgstat/internal/game/overlay"
	"github.com/cory-johannsen/rpgstat/internal/game/progression"
	"github.com/cory-johannsen/rpgstat/internal/game/statmod"
)

// ErrUnknownEntity is returned for IDs the registry does not hold.
var ErrUnknownEntity = errors.New("unknown entity")

// ErrUnknownFaction is returned when an entity names a faction that was
// never added.
var ErrUnknownFaction = errors.New("unknown faction")

// Host is the simulated host.
type Host struct {
	mu     sync.Mutex
	cfg    config.Config
	logger *zap.Logger

	ready      bool
	tick       int64
	difficulty float64
	queue      []deferred
	messages   []string
	polled     map[string]map[string]float64

	factions  map[string]*Faction
	registry  *entity.Registry
	store     *progression.Store
	overlay   *overlay.Overlay
	modifiers *statmod.Modifiers
	bus       *experience.Bus
	feed      *experience.Feed
	roller    *dice.Roller
	balancer  *balance.Balancer
}

// New builds a ready host from cfg. src drives balance variance.
//
// Precondition: src and logger must be non-nil.
func New(cfg config.Config, src dice.Source, logger *zap.Logger) (*Host, error) {
	catalog := statmod.DefaultCatalog()
	if cfg.Stats.CatalogFile != "" {
		if err := catalog.LoadFile(cfg.Stats.CatalogFile); err != nil {
			return nil, fmt.Errorf("loading statistic catalog: %w", err)
		}
	}

	h := &Host{
		cfg:        cfg,
		logger:     logger,
		ready:      true,
		difficulty: cfg.SimHost.Difficulty,
		polled:     make(map[string]map[string]float64),
		factions:   make(map[string]*Faction),
		registry:   entity.NewRegistry(),
		roller:     dice.NewLoggedRoller(src, logger),
	}

	h.store = progression.NewStore(
		progression.NewCurve(cfg.Progression.BaseExperience),
		progression.NotifierFunc(h.levelUp),
		logger,
	)

	general, animal := statmod.GeneralTable(), statmod.AnimalTable()
	h.overlay = overlay.New(general.Defaults(), animal.Defaults(), cfg.Stats.AnimalEnabled)
	h.modifiers = statmod.NewModifiers(
		statmod.NewEngine(general, h.store, h.overlay, catalog),
		statmod.NewEngine(animal, h.store, h.overlay, catalog),
		h.registry,
		catalog,
		cfg.Stats.AnimalEnabled,
	)

	h.bus = experience.NewBus(logger)
	h.feed = experience.NewFeed(experience.NewRouter(h.store, logger), h.registry, cfg.Progression, logger)
	h.feed.Register(h.bus)

	h.balancer = balance.NewBalancer(cfg.Balance, world{h}, h.registry, h.store, h.roller, logger)
	return h, nil
}

// world exposes host state to the balancer. Its methods run with h.mu held.
type world struct{ h *Host }

func (w world) Ready() bool         { return w.h.ready }
func (w world) Tick() int64         { return w.h.tick }
func (w world) Difficulty() float64 { return w.h.difficulty }

func (w world) ReferencePopulation() []string {
	return ids(w.h.registry.WithRelation(entity.RelationPlayer))
}

func (w world) FactionWealth(factionID string) (float64, bool) {
	f, ok := w.h.factions[factionID]
	if !ok {
		return 0, false
	}
	return f.wealth(), true
}

func ids(ps []*entity.Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

// levelUp runs inside store calls, so h.mu is already held.
func (h *Host) levelUp(entityID string, attr attribute.Attribute, level int) {
	p, ok := h.registry.Get(entityID)
	if !ok {
		return
	}
	h.logger.Info("attribute level up",
		zap.String("entity", entityID),
		zap.String("attribute", attr.Key()),
		zap.Int("level", level),
	)
	if p.Relation != entity.RelationPlayer {
		return
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}
	h.messages = append(h.messages, fmt.Sprintf("%s's %s increased to level %d", name, attr.Name(), level))
}

// SetReady marks the host as having (or not having) a loaded game.
func (h *Host) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// SetDifficulty sets the raw threat scale.
func (h *Host) SetDifficulty(d float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.difficulty = d
}

// Tick returns the current tick.
func (h *Host) Tick() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tick
}

// AddFaction registers f, replacing any faction with the same ID.
func (h *Host) AddFaction(f Faction) error {
	if f.ID == "" {
		return errors.New("faction id must not be empty")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.factions[f.ID] = &f
	return nil
}

// Faction returns a copy of the faction with id.
func (h *Host) Faction(id string) (Faction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.factions[id]
	if !ok {
		return Faction{}, false
	}
	return *f, true
}

// Spawn adds p to the world and returns its ID. Entities outside the
// player group are balanced on the next tick.
func (h *Host) Spawn(p *entity.Profile) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p.FactionID != "" {
		if _, ok := h.factions[p.FactionID]; !ok {
			return "", fmt.Errorf("spawning %q: %w %q", p.Name, ErrUnknownFaction, p.FactionID)
		}
	}
	added, err := h.registry.Add(p)
	if err != nil {
		return "", fmt.Errorf("spawning %q: %w", p.Name, err)
	}
	h.store.Ensure(added.ID)
	if added.Relation != entity.RelationPlayer {
		id := added.ID
		h.after(1, func() { h.balancer.BalanceNewEntity(id) })
	}
	h.logger.Debug("entity spawned",
		zap.String("entity", added.ID),
		zap.String("kind", added.Kind.String()),
		zap.String("relation", added.Relation.String()),
	)
	return added.ID, nil
}

// Despawn removes an entity and its progression.
func (h *Host) Despawn(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.registry.Remove(id); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	h.store.Remove(id)
	delete(h.polled, id)
	return nil
}

// Entity returns a copy of the profile of id.
func (h *Host) Entity(id string) (entity.Profile, bool) {
	p, ok := h.registry.Get(id)
	if !ok {
		return entity.Profile{}, false
	}
	return *p, true
}

// Entities returns every profile ordered by ID.
func (h *Host) Entities() []*entity.Profile {
	return h.registry.All()
}

// Publish delivers ev to the experience feed and returns the number of
// handlers that completed.
func (h *Host) Publish(ev experience.Event) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.registry.Get(ev.EntityID); !ok {
		return 0, fmt.Errorf("publishing %s: %w: %s", ev.Type, ErrUnknownEntity, ev.EntityID)
	}
	return h.bus.Publish(ev), nil
}

// Level returns the level of attr for id.
func (h *Host) Level(id string, attr attribute.Attribute) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Level(id, attr)
}

// Levels returns all six levels of id.
func (h *Host) Levels(id string) [attribute.Count]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out [attribute.Count]int
	for _, a := range attribute.All() {
		out[a] = h.store.Level(id, a)
	}
	return out
}

// Experience returns the in-level experience of attr for id.
func (h *Host) Experience(id string, attr attribute.Attribute) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Experience(id, attr)
}

// Progress returns the display data of attr for id.
func (h *Host) Progress(id string, attr attribute.Attribute) progression.Progress {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Progress(id, attr)
}

// Modifier returns the live modifier of stat for id.
func (h *Host) Modifier(id, stat string) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modifiers.Modifier(id, stat)
}

// PolledModifier returns the modifier of stat for id as of the last re-poll.
func (h *Host) PolledModifier(id, stat string) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.polled[id][stat]
}

// Value applies the live modifier of stat to base.
func (h *Host) Value(id, stat string, base float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modifiers.Value(id, stat, base)
}

// DescribeBonuses renders the bonuses attr grants id.
func (h *Host) DescribeBonuses(id string, attr attribute.Attribute) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modifiers.DescribeBonuses(id, attr)
}

// Modifiers returns the engine selector. Callers must not use it
// concurrently with the host.
func (h *Host) Modifiers() *statmod.Modifiers { return h.modifiers }

// Balance balances id immediately and returns the number of attributes raised.
func (h *Host) Balance(id string) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.registry.Get(id); !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	return h.balancer.BalanceNewEntity(id), nil
}

// RebalanceHostiles recomputes the reference power and balances every
// hostile entity. It returns how many entities changed.
func (h *Host) RebalanceHostiles() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	hostiles := ids(h.registry.WithRelation(entity.RelationHostile))
	if len(hostiles) == 0 {
		h.messages = append(h.messages, "no hostile faction found")
		return 0
	}
	h.balancer.InvalidateCache()
	changed := h.balancer.BalanceAll(hostiles)
	h.messages = append(h.messages, fmt.Sprintf("rebalanced %d of %d hostile entities", changed, len(hostiles)))
	return changed
}

// Report summarises the balance state against every non-player entity.
func (h *Host) Report() balance.Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	var others []string
	for _, p := range h.registry.All() {
		if p.Relation != entity.RelationPlayer {
			others = append(others, p.ID)
		}
	}
	return h.balancer.Report(others)
}

// Messages returns and clears the pending player-facing messages.
func (h *Host) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.messages
	h.messages = nil
	return out
}

// Config returns the active configuration.
func (h *Host) Config() config.Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg
}

// ApplyToggles updates the feature toggles of every component.
func (h *Host) ApplyToggles(t config.FeatureToggles) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.applyToggles(t)
}

func (h *Host) applyToggles(t config.FeatureToggles) {
	h.cfg.ApplyToggles(t)
	h.feed.SetConfig(h.cfg.Progression)
	h.balancer.SetConfig(h.cfg.Balance)
	h.overlay.SetAnimalEnabled(h.cfg.Stats.AnimalEnabled)
	h.modifiers.SetAnimalEnabled(h.cfg.Stats.AnimalEnabled)
}

// SetCoefficient overrides one mapping coefficient.
func (h *Host) SetCoefficient(key string, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overlay.Set(key, value)
}

// ResetCoefficients restores every coefficient to its compiled default.
func (h *Host) ResetCoefficients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overlay.ResetAll()
}

// Coefficients returns the full coefficient map.
func (h *Host) Coefficients() map[string]float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overlay.Snapshot()
}

// Overrides returns the coefficients that differ from their defaults.
func (h *Host) Overrides() map[string]float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overlay.Overrides()
}
