// Package experience routes host activity into weighted attribute
// experience deposits.
package experience

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// Depositor receives experience deposits.
type Depositor interface {
	AddExperience(entityID string, attr attribute.Attribute, amount float64) int
}

// Router is the ExperienceRouter.
type Router struct {
	store  Depositor
	logger *zap.Logger
}

// NewRouter creates a Router depositing into store.
//
// Precondition: store and logger must be non-nil.
func NewRouter(store Depositor, logger *zap.Logger) *Router {
	return &Router{store: store, logger: logger}
}

// Deposit splits magnitude across w and deposits each nonzero share.
// Returns the number of levels gained.
func (r *Router) Deposit(entityID string, w attribute.Weights, magnitude float64) int {
	if !(magnitude > 0) || entityID == "" {
		return 0
	}
	gained := 0
	for _, a := range attribute.All() {
		if w[a] == 0 {
			continue
		}
		gained += r.store.AddExperience(entityID, a, magnitude*w[a])
	}
	return gained
}

// GrantSkill routes skill experience. Unmapped skills deposit nothing.
func (r *Router) GrantSkill(entityID string, skill entity.Skill, magnitude float64) int {
	w, ok := SkillWeights(skill)
	if !ok {
		r.logger.Debug("unmapped skill", zap.String("entity", entityID), zap.String("skill", string(skill)))
		return 0
	}
	return r.Deposit(entityID, w, magnitude)
}

// GrantCombat routes combat experience.
func (r *Router) GrantCombat(entityID string, ranged bool, magnitude float64) int {
	return r.Deposit(entityID, CombatWeights(ranged), magnitude)
}

// GrantSocial routes social interaction experience.
func (r *Router) GrantSocial(entityID string, magnitude float64) int {
	return r.Deposit(entityID, socialWeights, magnitude)
}

// GrantGrowing routes plant-growing work experience.
func (r *Router) GrantGrowing(entityID string, magnitude float64) int {
	return r.Deposit(entityID, growingWeights, magnitude)
}

// GrantAnimalActivity routes animal activity experience, scaled by
// BodySizeMultiplier.
func (r *Router) GrantAnimalActivity(entityID string, activity Activity, bodySize, magnitude float64) int {
	w, ok := ActivityWeights(activity)
	if !ok {
		r.logger.Debug("unmapped activity", zap.String("entity", entityID), zap.String("activity", string(activity)))
		return 0
	}
	return r.Deposit(entityID, w, magnitude*BodySizeMultiplier(bodySize))
}
