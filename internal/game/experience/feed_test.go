package experience_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/rpgstat/internal/config"
	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
	"github.com/cory-johannsen/rpgstat/internal/game/experience"
)

func progressionConfig() config.ProgressionConfig {
	return config.Default().Progression
}

func newFeed(t *testing.T, cfg config.ProgressionConfig) (*experience.Bus, *recordingDepositor, *entity.Registry) {
	t.Helper()
	dep := &recordingDepositor{}
	reg := entity.NewRegistry()
	logger := zaptest.NewLogger(t)
	bus := experience.NewBus(logger)
	experience.NewFeed(experience.NewRouter(dep, logger), reg, cfg, logger).Register(bus)
	return bus, dep, reg
}

func TestFeed_SkillLearned_ScaledByTenAndMultiplier(t *testing.T) {
	cfg := progressionConfig()
	cfg.ExperienceMultiplier = 2
	bus, dep, _ := newFeed(t, cfg)

	bus.Publish(experience.Event{Type: experience.EventSkillLearned, EntityID: "p1", Skill: entity.SkillSocial, Magnitude: 5})
	got := dep.byAttr()
	assert.InDelta(t, 90, got[attribute.Charisma], 1e-9)
	assert.InDelta(t, 10, got[attribute.Dexterity], 1e-9)
}

func TestFeed_Attack_FixedBase(t *testing.T) {
	bus, dep, _ := newFeed(t, progressionConfig())
	bus.Publish(experience.Event{Type: experience.EventMeleeAttack, EntityID: "p1"})
	assert.InDelta(t, 20, sumOf(dep.byAttr()), 1e-9)
	assert.InDelta(t, 12, dep.byAttr()[attribute.Strength], 1e-9)
}

func TestFeed_TogglesDisableCategories(t *testing.T) {
	cfg := progressionConfig()
	cfg.WorkExperience = false
	cfg.CombatExperience = false
	cfg.SocialExperience = false
	bus, dep, _ := newFeed(t, cfg)

	bus.Publish(experience.Event{Type: experience.EventSkillLearned, EntityID: "p1", Skill: entity.SkillMining, Magnitude: 5})
	bus.Publish(experience.Event{Type: experience.EventRangedAttack, EntityID: "p1"})
	bus.Publish(experience.Event{Type: experience.EventSocialInteraction, EntityID: "p1"})
	bus.Publish(experience.Event{Type: experience.EventGrowingWork, EntityID: "p1", Magnitude: 5})
	assert.Empty(t, dep.deposits)
}

func TestFeed_AnimalEvents_OnlyForAnimals(t *testing.T) {
	bus, dep, reg := newFeed(t, progressionConfig())
	_, err := reg.Add(&entity.Profile{ID: "muffalo", Kind: entity.KindAnimal, BodySize: 2})
	require.NoError(t, err)
	_, err = reg.Add(&entity.Profile{ID: "pawn", Kind: entity.KindHumanoid})
	require.NoError(t, err)

	bus.Publish(experience.Event{Type: experience.EventHaulCompleted, EntityID: "pawn", Magnitude: 40})
	bus.Publish(experience.Event{Type: experience.EventHaulCompleted, EntityID: "ghost", Magnitude: 40})
	assert.Empty(t, dep.deposits)

	// 40kg * 0.5 per kg * body-size factor 0.5
	bus.Publish(experience.Event{Type: experience.EventHaulCompleted, EntityID: "muffalo", Magnitude: 40})
	got := dep.byAttr()
	assert.InDelta(t, 10, sumOf(got), 1e-9)
	assert.InDelta(t, 5, got[attribute.Strength], 1e-9)
}

func TestFeed_TrainingFailure_HalfExperience(t *testing.T) {
	bus, dep, reg := newFeed(t, progressionConfig())
	_, err := reg.Add(&entity.Profile{ID: "dog", Kind: entity.KindAnimal, BodySize: 1})
	require.NoError(t, err)

	bus.Publish(experience.Event{Type: experience.EventTrainingSession, EntityID: "dog", Success: true})
	assert.InDelta(t, 15, sumOf(dep.byAttr()), 1e-9)

	dep.deposits = nil
	bus.Publish(experience.Event{Type: experience.EventTrainingSession, EntityID: "dog", Success: false})
	assert.InDelta(t, 7.5, sumOf(dep.byAttr()), 1e-9)
}

func TestFeed_BirthResourceAndActivity(t *testing.T) {
	bus, dep, reg := newFeed(t, progressionConfig())
	_, err := reg.Add(&entity.Profile{ID: "hen", Kind: entity.KindAnimal, BodySize: 0.25})
	require.NoError(t, err)

	bus.Publish(experience.Event{Type: experience.EventBirthDetected, EntityID: "hen"})
	assert.InDelta(t, 200, sumOf(dep.byAttr()), 1e-9)

	dep.deposits = nil
	bus.Publish(experience.Event{Type: experience.EventResourceGathered, EntityID: "hen", Resource: "egg", Magnitude: 3})
	assert.InDelta(t, 12, sumOf(dep.byAttr()), 1e-9)

	dep.deposits = nil
	bus.Publish(experience.Event{Type: experience.EventAnimalActivity, EntityID: "hen", Activity: experience.ActivityGuarding})
	assert.InDelta(t, 40, sumOf(dep.byAttr()), 1e-9)
}

func TestFeed_AnimalExperienceDisabled(t *testing.T) {
	cfg := progressionConfig()
	cfg.AnimalExperience = false
	bus, dep, reg := newFeed(t, cfg)
	_, err := reg.Add(&entity.Profile{ID: "dog", Kind: entity.KindAnimal})
	require.NoError(t, err)
	bus.Publish(experience.Event{Type: experience.EventBirthDetected, EntityID: "dog"})
	assert.Empty(t, dep.deposits)
}

func TestBus_PanickingHandlerIsIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := experience.NewBus(zap.New(core))
	var calls int
	bus.Subscribe(experience.EventSocialInteraction, func(experience.Event) { panic("boom") })
	bus.Subscribe(experience.EventSocialInteraction, func(experience.Event) { calls++ })

	done := bus.Publish(experience.Event{Type: experience.EventSocialInteraction, EntityID: "p1"})
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, calls)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "event handler failed", logs.All()[0].Message)
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := experience.NewBus(zaptest.NewLogger(t))
	assert.Equal(t, 0, bus.Publish(experience.Event{Type: experience.EventBirthDetected}))
}
