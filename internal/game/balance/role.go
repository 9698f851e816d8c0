package balance

import (
	"math"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// Role is the build archetype used to weight attributes.
type Role int

const (
	RoleBalanced Role = iota
	RoleCombat
	RoleIntellectual
	RoleAnimal
)

func (r Role) String() string {
	switch r {
	case RoleCombat:
		return "combat"
	case RoleIntellectual:
		return "intellectual"
	case RoleAnimal:
		return "animal"
	default:
		return "balanced"
	}
}

// roleSkillThreshold is the skill level that marks a specialist.
const roleSkillThreshold = 8

var roleWeights = map[Role]attribute.Weights{
	RoleBalanced:     {1, 1, 1, 1, 1, 1},
	RoleCombat:       {1.3, 1.2, 1.1, 1.0, 0.7, 0.7},
	RoleIntellectual: {0.7, 0.8, 0.8, 0.9, 1.4, 1.4},
	RoleAnimal:       {0.8, 0.6, 1.4, 1.3, 0.4, 0.5},
}

// Classify assigns p a role. Combat takes precedence over intellectual.
func Classify(p *entity.Profile) Role {
	if p.IsAnimal() {
		return RoleAnimal
	}
	if p.SkillLevel(entity.SkillShooting) >= roleSkillThreshold ||
		p.SkillLevel(entity.SkillMelee) >= roleSkillThreshold ||
		p.Weapon.Equipped {
		return RoleCombat
	}
	if p.SkillLevel(entity.SkillIntellectual) >= roleSkillThreshold ||
		p.SkillLevel(entity.SkillMedicine) >= roleSkillThreshold ||
		p.SkillLevel(entity.SkillSocial) >= roleSkillThreshold {
		return RoleIntellectual
	}
	return RoleBalanced
}

// RoleWeights returns the weight vector of role.
func RoleWeights(role Role) attribute.Weights {
	return roleWeights[role]
}

// DifficultyMultiplier maps the host difficulty onto five steps.
func DifficultyMultiplier(difficulty float64) float64 {
	switch {
	case difficulty <= 0.5:
		return 0.8
	case difficulty <= 1.0:
		return 1.0
	case difficulty <= 1.5:
		return 1.2
	case difficulty <= 2.0:
		return 1.4
	}
	return 1.6
}

// ThreatMultiplier scales hostile targets by how dangerous p looks.
func ThreatMultiplier(p *entity.Profile) float64 {
	if p.IsAnimal() {
		return clamp(p.EffectiveBodySize(), 0.5, 2.0)
	}
	if p.Weapon.Equipped && p.Weapon.Ranged {
		return 1.1
	}
	if p.TorsoArmor {
		return 1.05
	}
	return 1.0
}

// WealthFactor maps faction wealth onto the ally baseline scale.
//
// Postcondition: result in [1, 10].
func WealthFactor(wealth float64) float64 {
	return clamp(wealth/10000, 1, 10)
}

// Distribute splits target total level across attributes by w.
//
// Postcondition: every level >= 1.
func Distribute(target float64, w attribute.Weights) [attribute.Count]int {
	var out [attribute.Count]int
	sum := w.Sum()
	for i := range out {
		share := 0.0
		if sum > 0 {
			share = target * w[i] / sum
		}
		out[i] = max(1, int(math.Round(share)))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
