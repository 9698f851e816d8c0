package experience

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/game/entity"
)

// EventType names a host event.
type EventType string

const (
	EventSkillLearned      EventType = "skill_learned"
	EventRangedAttack      EventType = "ranged_attack"
	EventMeleeAttack       EventType = "melee_attack"
	EventSocialInteraction EventType = "social_interaction"
	EventGrowingWork       EventType = "growing_work"
	EventHaulCompleted     EventType = "haul_completed"
	EventResourceGathered  EventType = "resource_gathered"
	EventTrainingSession   EventType = "training_session"
	EventBirthDetected     EventType = "birth_detected"
	EventAnimalActivity    EventType = "animal_activity"
)

// Event is one host occurrence. Magnitude means skill XP, carried weight or
// gathered quantity depending on Type.
type Event struct {
	Type      EventType
	EntityID  string
	Magnitude float64
	Skill     entity.Skill
	Activity  Activity
	Resource  string
	Success   bool
}

// Handler consumes an event.
type Handler func(Event)

// Bus is the host event feed. Subscribe and Publish are safe for
// concurrent use; handlers run on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	logger   *zap.Logger
}

// NewBus creates an empty Bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{handlers: make(map[EventType][]Handler), logger: logger}
}

// Subscribe registers h for events of type t.
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers ev to every handler of its type. A panicking handler is
// logged and skipped. Returns the number of handlers that completed.
func (b *Bus) Publish(ev Event) int {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[ev.Type]...)
	b.mu.RUnlock()

	done := 0
	for _, h := range hs {
		if err := b.dispatch(h, ev); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event", string(ev.Type)),
				zap.String("entity", ev.EntityID),
				zap.Error(err),
			)
			continue
		}
		done++
	}
	return done
}

func (b *Bus) dispatch(h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	h(ev)
	return nil
}
