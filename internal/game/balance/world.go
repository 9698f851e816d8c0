package balance

import "math"

// World is the read-only host state the balancer consults.
type World interface {
	// Ready reports whether the host has a loaded game state.
	Ready() bool
	// ReferencePopulation returns the IDs of the player group.
	ReferencePopulation() []string
	// Tick returns the current simulation tick.
	Tick() int64
	// Difficulty returns the host's raw threat scale.
	Difficulty() float64
	// FactionWealth returns the wealth of factionID, if the host knows it.
	FactionWealth(factionID string) (float64, bool)
}

// TechLevel is a faction's technology tier.
type TechLevel int

const (
	TechNeolithic TechLevel = iota
	TechMedieval
	TechIndustrial
	TechSpacer
	TechUltra
)

// DefaultFactionWealth is used when neither the host nor the estimator can
// value a faction.
const DefaultFactionWealth = 5000.0

// EstimateWealth approximates a faction's wealth from its goodwill toward
// the player and its tech level.
//
// Postcondition: result in [1000, 50000].
func EstimateWealth(goodwill int, tech TechLevel) float64 {
	wealth := DefaultFactionWealth
	if goodwill > 50 {
		wealth += float64(goodwill) * 50
	}
	switch tech {
	case TechNeolithic:
		wealth *= 0.5
	case TechMedieval:
		wealth *= 0.7
	case TechSpacer:
		wealth *= 1.5
	case TechUltra:
		wealth *= 2
	}
	return math.Max(1000, math.Min(50000, wealth))
}
