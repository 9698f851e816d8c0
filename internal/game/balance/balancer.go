// Package balance scales the attribute levels of newly appearing non-player
// entities against the player group's average power.
package balance

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/config"
	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/dice"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// reportSampleSize bounds how many non-reference entities Report averages.
const reportSampleSize = 10

// Progression reads and force-sets attribute levels.
type Progression interface {
	Level(entityID string, attr attribute.Attribute) int
	SetLevel(entityID string, attr attribute.Attribute, level int)
}

// Plan is the computed outcome of balancing one entity.
type Plan struct {
	EntityID string
	Role     Role
	// Target is the total level to spread over all attributes.
	Target float64
	Levels [attribute.Count]int
}

// Balancer is the PowerBalancer. Not safe for concurrent use.
type Balancer struct {
	cfg      config.BalanceConfig
	world    World
	entities entity.Lookup
	levels   Progression
	roller   *dice.Roller
	cache    *Cache
	logger   *zap.Logger
}

// NewBalancer creates a Balancer.
//
// Precondition: all arguments must be non-nil.
func NewBalancer(cfg config.BalanceConfig, world World, entities entity.Lookup, levels Progression, roller *dice.Roller, logger *zap.Logger) *Balancer {
	return &Balancer{
		cfg:      cfg,
		world:    world,
		entities: entities,
		levels:   levels,
		roller:   roller,
		cache:    NewCache(cfg.CacheIntervalTicks),
		logger:   logger,
	}
}

// SetConfig replaces the balance settings. The reference cache is dropped.
func (b *Balancer) SetConfig(cfg config.BalanceConfig) {
	b.cfg = cfg
	b.cache = NewCache(cfg.CacheIntervalTicks)
}

// Config returns the active balance settings.
func (b *Balancer) Config() config.BalanceConfig { return b.cfg }

// InvalidateCache forces the next ReferencePower call to recompute.
func (b *Balancer) InvalidateCache() { b.cache.Invalidate() }

// ReferencePower returns the average attribute level over the reference
// population, recomputing when the cache is stale.
//
// Postcondition: result >= 1.
func (b *Balancer) ReferencePower() float64 {
	now := b.world.Tick()
	if v, ok := b.cache.Get(now); ok {
		return v
	}
	v := b.averagePower(b.world.ReferencePopulation())
	b.cache.Put(v, now)
	b.logger.Debug("reference power computed", zap.Float64("power", v), zap.Int64("tick", now))
	return v
}

// averagePower returns the mean level over all attributes of ids, or 1 when
// ids is empty.
func (b *Balancer) averagePower(ids []string) float64 {
	if len(ids) == 0 {
		return 1.0
	}
	var total int
	for _, id := range ids {
		for _, a := range attribute.All() {
			total += b.levels.Level(id, a)
		}
	}
	return float64(total) / float64(len(ids)*attribute.Count)
}

func (b *Balancer) isReference(p *entity.Profile) bool {
	if p.Relation == entity.RelationPlayer {
		return true
	}
	for _, id := range b.world.ReferencePopulation() {
		if id == p.ID {
			return true
		}
	}
	return false
}

// Plan computes the balanced levels of p without applying them. It returns
// false when p is not eligible.
func (b *Balancer) Plan(p *entity.Profile) (Plan, bool) {
	if p.FactionID == "" || b.isReference(p) {
		return Plan{}, false
	}
	role := Classify(p)
	// Per-attribute power times the attribute count gives the total.
	var target float64
	switch p.Relation {
	case entity.RelationHostile:
		target = b.ReferencePower() * attribute.Count *
			DifficultyMultiplier(b.world.Difficulty()) *
			ThreatMultiplier(p) *
			b.cfg.EnemyMultiplier *
			b.roller.Uniform("hostile variance", 0.8, 1.2)
	default:
		wealth, ok := b.world.FactionWealth(p.FactionID)
		if !ok {
			wealth = DefaultFactionWealth
		}
		target = WealthFactor(wealth) * attribute.Count *
			b.cfg.AllyMultiplier *
			b.roller.Uniform("ally variance", 0.7, 1.3)
	}
	return Plan{
		EntityID: p.ID,
		Role:     role,
		Target:   target,
		Levels:   Distribute(target, RoleWeights(role)),
	}, true
}

// BalanceNewEntity raises the attribute levels of entityID to its plan.
// Levels are never lowered; raised attributes restart at zero experience.
// Failures are recovered and logged. Returns the number of attributes raised.
func (b *Balancer) BalanceNewEntity(entityID string) (raised int) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("balancing entity failed",
				zap.String("entity", entityID),
				zap.String("panic", fmt.Sprint(r)),
			)
			raised = 0
		}
	}()

	if !b.cfg.Enabled || !b.world.Ready() {
		return 0
	}
	p, ok := b.entities.Get(entityID)
	if !ok {
		return 0
	}
	plan, ok := b.Plan(p)
	if !ok {
		return 0
	}
	for _, a := range attribute.All() {
		if plan.Levels[a] > b.levels.Level(entityID, a) {
			b.levels.SetLevel(entityID, a, plan.Levels[a])
			raised++
		}
	}
	b.logger.Debug("entity balanced",
		zap.String("entity", entityID),
		zap.String("relation", p.Relation.String()),
		zap.String("role", plan.Role.String()),
		zap.Float64("target", plan.Target),
		zap.Ints("levels", plan.Levels[:]),
		zap.Int("raised", raised),
	)
	return raised
}

// BalanceAll balances each of ids independently and returns how many had at
// least one attribute raised.
func (b *Balancer) BalanceAll(ids []string) int {
	changed := 0
	for _, id := range ids {
		if b.BalanceNewEntity(id) > 0 {
			changed++
		}
	}
	return changed
}
