package statmod

import (
	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// Modifiers routes statistic queries to the general or the animal engine
// according to the entity's kind.
type Modifiers struct {
	general       *Engine
	animal        *Engine
	entities      entity.Lookup
	catalog       *Catalog
	animalEnabled bool
}

// NewModifiers creates a selector.
//
// Precondition: all arguments must be non-nil.
func NewModifiers(general, animal *Engine, entities entity.Lookup, catalog *Catalog, animalEnabled bool) *Modifiers {
	return &Modifiers{
		general:       general,
		animal:        animal,
		entities:      entities,
		catalog:       catalog,
		animalEnabled: animalEnabled,
	}
}

// SetAnimalEnabled toggles animal statistic modifiers.
func (m *Modifiers) SetAnimalEnabled(enabled bool) { m.animalEnabled = enabled }

// AnimalEnabled reports whether animal statistic modifiers apply.
func (m *Modifiers) AnimalEnabled() bool { return m.animalEnabled }

// Engine returns the engine serving entityID, or nil when the entity is an
// animal and animal modifiers are disabled. Unknown entities use the
// general engine.
func (m *Modifiers) Engine(entityID string) *Engine {
	p, ok := m.entities.Get(entityID)
	if ok && p.IsAnimal() {
		if !m.animalEnabled {
			return nil
		}
		return m.animal
	}
	return m.general
}

// General returns the humanoid engine.
func (m *Modifiers) General() *Engine { return m.general }

// Animal returns the animal engine.
func (m *Modifiers) Animal() *Engine { return m.animal }

// Catalog returns the statistic catalog.
func (m *Modifiers) Catalog() *Catalog { return m.catalog }

// Modifier returns the modifier of stat for entityID.
func (m *Modifiers) Modifier(entityID, stat string) float64 {
	e := m.Engine(entityID)
	if e == nil {
		return 0
	}
	return e.Modifier(entityID, stat)
}

// Value returns base with the modifier of stat applied.
func (m *Modifiers) Value(entityID, stat string, base float64) float64 {
	def, _ := m.catalog.Get(stat)
	return Apply(def, base, m.Modifier(entityID, stat))
}

// DescribeBonuses renders the bonuses attr grants entityID.
func (m *Modifiers) DescribeBonuses(entityID string, attr attribute.Attribute) string {
	e := m.Engine(entityID)
	if e == nil {
		return NoBonus
	}
	return e.DescribeBonuses(entityID, attr)
}
