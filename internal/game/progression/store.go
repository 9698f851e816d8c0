// Package progression stores per-entity attribute levels and experience and
// evaluates level-ups against the leveling curve.
package progression

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
)

// Record is the level and in-level experience of one attribute.
//
// Invariant: Level >= 1, Experience >= 0.
type Record struct {
	Level      int     `json:"level" yaml:"level"`
	Experience float64 `json:"experience" yaml:"experience"`
}

func newRecord() *Record { return &Record{Level: 1} }

// Set holds the six attribute records of one entity. Missing records are
// synthesized at level 1 on access.
type Set struct {
	records map[attribute.Attribute]*Record
}

func newSet() *Set {
	s := &Set{records: make(map[attribute.Attribute]*Record, attribute.Count)}
	for _, a := range attribute.All() {
		s.records[a] = newRecord()
	}
	return s
}

func (s *Set) record(a attribute.Attribute) *Record {
	r, ok := s.records[a]
	if !ok || r == nil {
		r = newRecord()
		s.records[a] = r
	}
	return r
}

//go:generate mockgen -destination=mock/notifier.go -package=progressionmock github.com/cory-johannsen/rpgstat/internal/game/progression Notifier

// Notifier receives level-up calls, one per level gained unless a single
// deposit jumps more than MaxNotifiedLevels levels.
type Notifier interface {
	LevelUp(entityID string, attr attribute.Attribute, level int)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(entityID string, attr attribute.Attribute, level int)

// LevelUp calls f.
func (f NotifierFunc) LevelUp(entityID string, attr attribute.Attribute, level int) {
	f(entityID, attr, level)
}

// Store is the AttributeProgressionStore. It is not safe for concurrent use;
// callers serialize access.
type Store struct {
	curve    Curve
	sets     map[string]*Set
	notifier Notifier
	logger   *zap.Logger
}

// NewStore creates an empty store.
//
// Precondition: logger must be non-nil. notifier may be nil.
func NewStore(curve Curve, notifier Notifier, logger *zap.Logger) *Store {
	return &Store{
		curve:    NewCurve(curve.Base),
		sets:     make(map[string]*Set),
		notifier: notifier,
		logger:   logger,
	}
}

// Curve returns the leveling curve in use.
func (s *Store) Curve() Curve { return s.curve }

// SetNotifier replaces the level-up notifier.
func (s *Store) SetNotifier(n Notifier) { s.notifier = n }

// Has reports whether entityID has progression data.
func (s *Store) Has(entityID string) bool {
	_, ok := s.sets[entityID]
	return ok
}

// Ensure creates the progression set for entityID if absent.
func (s *Store) Ensure(entityID string) {
	s.set(entityID)
}

func (s *Store) set(entityID string) *Set {
	set, ok := s.sets[entityID]
	if !ok {
		set = newSet()
		s.sets[entityID] = set
	}
	return set
}

// Remove drops all progression data of entityID.
func (s *Store) Remove(entityID string) {
	delete(s.sets, entityID)
}

// Entities returns the IDs that have progression data, in no particular order.
func (s *Store) Entities() []string {
	out := make([]string, 0, len(s.sets))
	for id := range s.sets {
		out = append(out, id)
	}
	return out
}

// Level returns the level of attr for entityID.
//
// Postcondition: result >= 1.
func (s *Store) Level(entityID string, attr attribute.Attribute) int {
	return s.set(entityID).record(attr).Level
}

// Experience returns the in-level experience of attr for entityID.
func (s *Store) Experience(entityID string, attr attribute.Attribute) float64 {
	return s.set(entityID).record(attr).Experience
}

// MaxNotifiedLevels bounds how many level-ups one deposit reports
// individually. A larger jump is reported once, with the final level.
const MaxNotifiedLevels = 100

// AddExperience deposits amount into attr and applies every level-up it
// earns, notifying once per level gained. A deposit worth more than
// MaxNotifiedLevels levels is resolved in closed form and notifies once with
// the final level. Non-positive and non-finite amounts are ignored.
//
// Postcondition: the record's experience is below Curve.Cost(level) unless
// the level is MaxLevel. Returns the number of levels gained.
func (s *Store) AddExperience(entityID string, attr attribute.Attribute, amount float64) int {
	if !(amount > 0) || math.IsInf(amount, 0) || !attr.Valid() {
		return 0
	}
	r := s.set(entityID).record(attr)
	from := r.Level
	total := s.curve.RequiredExperienceForLevel(r.Level) + r.Experience + amount
	if target := s.curve.LevelFor(total); target-r.Level > MaxNotifiedLevels {
		s.jump(entityID, attr, r, target, total)
		return r.Level - from
	}

	r.Experience += amount
	for r.Level < MaxLevel {
		cost := s.curve.Cost(r.Level)
		if r.Experience < cost {
			break
		}
		r.Experience -= cost
		r.Level++
		s.levelUp(entityID, attr, r.Level)
	}
	return r.Level - from
}

// jump moves r straight to level and keeps the in-level remainder of total.
func (s *Store) jump(entityID string, attr attribute.Attribute, r *Record, level int, total float64) {
	r.Level = level
	r.Experience = 0
	if level < MaxLevel {
		rem := total - s.curve.RequiredExperienceForLevel(level)
		if rem > 0 && rem < s.curve.Cost(level) {
			r.Experience = rem
		}
	}
	s.levelUp(entityID, attr, level)
}

func (s *Store) levelUp(entityID string, attr attribute.Attribute, level int) {
	s.logger.Debug("attribute level up",
		zap.String("entity", entityID),
		zap.String("attribute", attr.Key()),
		zap.Int("level", level),
	)
	if s.notifier != nil {
		s.notifier.LevelUp(entityID, attr, level)
	}
}

// SetLevel force-sets the level of attr and zeroes its experience. Levels
// below 1 are raised to 1.
func (s *Store) SetLevel(entityID string, attr attribute.Attribute, level int) {
	if !attr.Valid() {
		return
	}
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	r := s.set(entityID).record(attr)
	r.Level = level
	r.Experience = 0
}

// Power returns the average level over all attributes of entityID.
func (s *Store) Power(entityID string) float64 {
	set := s.set(entityID)
	var total int
	for _, a := range attribute.All() {
		total += set.record(a).Level
	}
	return float64(total) / attribute.Count
}
