package experience

import (
	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// Activity classifies animal work.
type Activity string

const (
	ActivityHauling      Activity = "hauling"
	ActivityGuarding     Activity = "guarding"
	ActivityTraining     Activity = "training"
	ActivityHunting      Activity = "hunting"
	ActivityReproduction Activity = "reproduction"
	ActivityProduction   Activity = "production"
)

// Weight vectors are indexed STR, DEX, AGL, CON, INT, CHA.
var (
	rangedCombatWeights = attribute.Weights{0, 0.5, 0.4, 0.1, 0, 0}
	meleeCombatWeights  = attribute.Weights{0.6, 0.2, 0.1, 0.1, 0, 0}
	socialWeights       = attribute.Weights{0, 0.1, 0, 0, 0, 0.9}
	growingWeights      = attribute.Weights{0.1, 0.2, 0.2, 0.1, 0.4, 0.1}
)

var skillWeights = map[entity.Skill]attribute.Weights{
	entity.SkillShooting:     rangedCombatWeights,
	entity.SkillMelee:        meleeCombatWeights,
	entity.SkillConstruction: {0.3, 0.5, 0.1, 0.1, 0, 0},
	entity.SkillMining:       {0.5, 0.1, 0.1, 0.3, 0, 0},
	entity.SkillCooking:      {0, 0.6, 0.2, 0, 0.2, 0},
	entity.SkillPlants:       {0.3, 0.1, 0.3, 0.2, 0.1, 0},
	entity.SkillAnimals:      {0, 0.1, 0.2, 0, 0.1, 0.6},
	entity.SkillCrafting:     {0.1, 0.6, 0, 0.1, 0.2, 0},
	entity.SkillArtistic:     {0, 0.2, 0.1, 0, 0.2, 0.5},
	entity.SkillMedicine:     {0, 0.3, 0.1, 0.1, 0.4, 0.1},
	entity.SkillSocial:       socialWeights,
	entity.SkillIntellectual: {0, 0, 0, 0.1, 0.9, 0},
}

var activityWeights = map[Activity]attribute.Weights{
	ActivityHauling:      {0.5, 0, 0.1, 0.4, 0, 0},
	ActivityGuarding:     {0.2, 0, 0.3, 0.4, 0.1, 0},
	ActivityTraining:     {0, 0.2, 0, 0, 0.5, 0.3},
	ActivityHunting:      {0.2, 0.3, 0.4, 0, 0.1, 0},
	ActivityReproduction: {0, 0, 0, 0.6, 0, 0.4},
	ActivityProduction:   {0.2, 0, 0, 0.5, 0, 0.3},
}

// SkillWeights returns the weight vector of skill.
func SkillWeights(skill entity.Skill) (attribute.Weights, bool) {
	w, ok := skillWeights[skill]
	return w, ok
}

// ActivityWeights returns the weight vector of an animal activity.
func ActivityWeights(a Activity) (attribute.Weights, bool) {
	w, ok := activityWeights[a]
	return w, ok
}

// CombatWeights returns the ranged or melee combat vector.
func CombatWeights(ranged bool) attribute.Weights {
	if ranged {
		return rangedCombatWeights
	}
	return meleeCombatWeights
}

// SocialWeights returns the social interaction vector.
func SocialWeights() attribute.Weights { return socialWeights }

// GrowingWeights returns the growing-work vector.
func GrowingWeights() attribute.Weights { return growingWeights }

// BodySizeMultiplier scales animal deposits so small animals progress faster.
//
// Postcondition: result in [0.25, 4].
func BodySizeMultiplier(bodySize float64) float64 {
	if !(bodySize > 0) {
		return 1
	}
	m := 1 / bodySize
	switch {
	case m < 0.25:
		return 0.25
	case m > 4:
		return 4
	}
	return m
}
