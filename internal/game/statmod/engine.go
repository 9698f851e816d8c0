// Package statmod converts attribute levels into modifiers on host
// gameplay statistics.
package statmod

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
)

// NoBonus is returned by DescribeBonuses when an attribute grants nothing.
const NoBonus = "No bonus"

// LevelSource reads attribute levels.
type LevelSource interface {
	Has(entityID string) bool
	Level(entityID string, attr attribute.Attribute) int
}

// Coefficients resolves overlay overrides; def is returned for absent keys.
type Coefficients interface {
	Get(key string, def float64) float64
}

// Contribution is one attribute's share of a statistic modifier.
type Contribution struct {
	Attribute   attribute.Attribute
	Stat        string
	Coefficient float64
	Level       int
	Value       float64
}

// Engine is one StatModifierEngine instance bound to a coefficient table.
type Engine struct {
	table     *Table
	levels    LevelSource
	overrides Coefficients
	catalog   *Catalog
}

// NewEngine creates an engine over table.
//
// Precondition: table, levels and catalog must be non-nil. overrides may be
// nil, in which case compiled defaults are used.
func NewEngine(table *Table, levels LevelSource, overrides Coefficients, catalog *Catalog) *Engine {
	return &Engine{table: table, levels: levels, overrides: overrides, catalog: catalog}
}

// Table returns the coefficient table of e.
func (e *Engine) Table() *Table { return e.table }

func (e *Engine) coefficient(attr attribute.Attribute, entry Entry) float64 {
	if e.overrides == nil {
		return entry.Coefficient
	}
	return e.overrides.Get(e.table.Key(attr, entry.Stat), entry.Coefficient)
}

// Coefficients returns the effective (overlay-resolved) entries of attr.
func (e *Engine) Coefficients(attr attribute.Attribute) []Entry {
	entries := e.table.Entries(attr)
	for i := range entries {
		entries[i].Coefficient = e.coefficient(attr, entries[i])
	}
	return entries
}

// Contributions lists every attribute that maps stat with its share of the
// modifier of entityID.
func (e *Engine) Contributions(entityID, stat string) []Contribution {
	if !e.levels.Has(entityID) {
		return nil
	}
	var out []Contribution
	for _, a := range attribute.All() {
		level := e.levels.Level(entityID, a)
		for _, entry := range e.table.entries[a] {
			if entry.Stat != stat {
				continue
			}
			c := e.coefficient(a, entry)
			out = append(out, Contribution{
				Attribute:   a,
				Stat:        stat,
				Coefficient: c,
				Level:       level,
				Value:       c * float64(level-1),
			})
		}
	}
	return out
}

// Modifier returns the summed modifier of stat for entityID.
//
// Postcondition: 0 when the entity has no progression data or no attribute
// maps stat.
func (e *Engine) Modifier(entityID, stat string) float64 {
	var total float64
	for _, c := range e.Contributions(entityID, stat) {
		total += c.Value
	}
	return total
}

// AffectedStatistics returns the statistics mapped by attr in table order.
func (e *Engine) AffectedStatistics(attr attribute.Attribute) []string {
	entries := e.table.Entries(attr)
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Stat)
	}
	return out
}

// DescribeBonuses renders one "Label: +x.y%" line per statistic attr affects,
// or NoBonus when the attribute is at level 1.
func (e *Engine) DescribeBonuses(entityID string, attr attribute.Attribute) string {
	if !attr.Valid() || !e.levels.Has(entityID) {
		return NoBonus
	}
	level := e.levels.Level(entityID, attr)
	if level <= 1 {
		return NoBonus
	}
	entries := e.table.entries[attr]
	if len(entries) == 0 {
		return NoBonus
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		bonus := e.coefficient(attr, entry) * float64(level-1) * 100
		sign := ""
		if bonus >= 0 {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("%s: %s%.1f%%", e.catalog.Label(entry.Stat), sign, bonus))
	}
	return strings.Join(lines, "\n")
}
