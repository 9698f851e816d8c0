package simhost

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/rpgstat/internal/game/balance"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// Faction is a simulated host faction.
type Faction struct {
	ID       string
	Name     string
	Relation entity.Relation
	// Goodwill toward the player, -100..100.
	Goodwill int
	Tech     balance.TechLevel
	// Wealth is the known faction wealth; 0 means unknown.
	Wealth float64
}

// wealth returns the known wealth or the goodwill/tech estimate.
func (f *Faction) wealth() float64 {
	if f.Wealth > 0 {
		return f.Wealth
	}
	return balance.EstimateWealth(f.Goodwill, f.Tech)
}

// ParseTech resolves a tech level name.
func ParseTech(s string) (balance.TechLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "neolithic":
		return balance.TechNeolithic, nil
	case "medieval":
		return balance.TechMedieval, nil
	case "", "industrial":
		return balance.TechIndustrial, nil
	case "spacer":
		return balance.TechSpacer, nil
	case "ultra":
		return balance.TechUltra, nil
	}
	return 0, fmt.Errorf("unknown tech level %q", s)
}
