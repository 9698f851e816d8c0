package experience

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/config"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// Feed converts raw host events into router grants using configured base
// amounts, the global multiplier and the category toggles.
type Feed struct {
	router   *Router
	entities entity.Lookup
	cfg      config.ProgressionConfig
	logger   *zap.Logger
}

// NewFeed creates a Feed.
//
// Precondition: router, entities and logger must be non-nil.
func NewFeed(router *Router, entities entity.Lookup, cfg config.ProgressionConfig, logger *zap.Logger) *Feed {
	return &Feed{router: router, entities: entities, cfg: cfg, logger: logger}
}

// SetConfig replaces the progression settings, as after a settings change.
func (f *Feed) SetConfig(cfg config.ProgressionConfig) { f.cfg = cfg }

// Register subscribes the feed's handlers on bus.
func (f *Feed) Register(bus *Bus) {
	bus.Subscribe(EventSkillLearned, f.onSkillLearned)
	bus.Subscribe(EventRangedAttack, f.onAttack)
	bus.Subscribe(EventMeleeAttack, f.onAttack)
	bus.Subscribe(EventSocialInteraction, f.onSocial)
	bus.Subscribe(EventGrowingWork, f.onGrowing)
	bus.Subscribe(EventHaulCompleted, f.onHaul)
	bus.Subscribe(EventResourceGathered, f.onResource)
	bus.Subscribe(EventTrainingSession, f.onTraining)
	bus.Subscribe(EventBirthDetected, f.onBirth)
	bus.Subscribe(EventAnimalActivity, f.onAnimalActivity)
}

func (f *Feed) mult() float64 { return f.cfg.ExperienceMultiplier }

func (f *Feed) onSkillLearned(ev Event) {
	if !f.cfg.WorkExperience {
		return
	}
	f.router.GrantSkill(ev.EntityID, ev.Skill, ev.Magnitude*f.cfg.SkillScale*f.mult())
}

func (f *Feed) onAttack(ev Event) {
	if !f.cfg.CombatExperience {
		return
	}
	f.router.GrantCombat(ev.EntityID, ev.Type == EventRangedAttack, f.cfg.AttackExperience*f.mult())
}

func (f *Feed) onSocial(ev Event) {
	if !f.cfg.SocialExperience {
		return
	}
	f.router.GrantSocial(ev.EntityID, f.cfg.SocialInteractionExperience*f.mult())
}

func (f *Feed) onGrowing(ev Event) {
	if !f.cfg.WorkExperience {
		return
	}
	f.router.GrantGrowing(ev.EntityID, ev.Magnitude*f.cfg.GrowingScale*f.mult())
}

// animal returns the body size of an animal entity, or false when the
// entity is unknown, not an animal, or animal experience is disabled.
func (f *Feed) animal(ev Event) (float64, bool) {
	if !f.cfg.AnimalExperience {
		return 0, false
	}
	p, ok := f.entities.Get(ev.EntityID)
	if !ok || !p.IsAnimal() {
		return 0, false
	}
	return p.EffectiveBodySize(), true
}

func (f *Feed) onHaul(ev Event) {
	size, ok := f.animal(ev)
	if !ok {
		return
	}
	f.router.GrantAnimalActivity(ev.EntityID, ActivityHauling, size, ev.Magnitude*f.cfg.HaulExperiencePerKg*f.mult())
}

func (f *Feed) onResource(ev Event) {
	size, ok := f.animal(ev)
	if !ok {
		return
	}
	f.logger.Debug("animal production",
		zap.String("entity", ev.EntityID),
		zap.String("resource", ev.Resource),
		zap.Float64("quantity", ev.Magnitude),
	)
	f.router.GrantAnimalActivity(ev.EntityID, ActivityProduction, size, ev.Magnitude*f.cfg.ProductionExperiencePerUnit*f.mult())
}

func (f *Feed) onTraining(ev Event) {
	size, ok := f.animal(ev)
	if !ok {
		return
	}
	amount := f.cfg.TrainingExperience * f.mult()
	if !ev.Success {
		amount /= 2
	}
	f.router.GrantAnimalActivity(ev.EntityID, ActivityTraining, size, amount)
}

func (f *Feed) onBirth(ev Event) {
	size, ok := f.animal(ev)
	if !ok {
		return
	}
	f.router.GrantAnimalActivity(ev.EntityID, ActivityReproduction, size, f.cfg.BirthExperience*f.mult())
}

func (f *Feed) onAnimalActivity(ev Event) {
	size, ok := f.animal(ev)
	if !ok {
		return
	}
	amount := f.cfg.ActivityExperience * f.mult()
	if ev.Magnitude > 0 {
		amount *= ev.Magnitude
	}
	f.router.GrantAnimalActivity(ev.EntityID, ev.Activity, size, amount)
}
