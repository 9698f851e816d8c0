package progression

import (
	"fmt"
	"math"
	"strings"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
)

// Snapshot is the serializable state of one entity's six records.
type Snapshot map[attribute.Attribute]Record

// Key returns the stable save key of an entity attribute.
func Key(entityID string, attr attribute.Attribute) string {
	return entityID + "/" + attr.Key()
}

// ParseKey splits a key produced by Key.
func ParseKey(key string) (string, attribute.Attribute, error) {
	i := strings.LastIndex(key, "/")
	if i <= 0 || i == len(key)-1 {
		return "", 0, fmt.Errorf("malformed progression key %q", key)
	}
	attr, err := attribute.Parse(key[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed progression key %q: %w", key, err)
	}
	return key[:i], attr, nil
}

// Snapshot copies the records of entityID.
//
// Postcondition: len(result) == attribute.Count.
func (s *Store) Snapshot(entityID string) Snapshot {
	set := s.set(entityID)
	out := make(Snapshot, attribute.Count)
	for _, a := range attribute.All() {
		out[a] = *set.record(a)
	}
	return out
}

// Restore replaces the records of entityID with snap. Attributes missing
// from snap reset to level 1; out-of-range values are clamped to the
// record invariant.
func (s *Store) Restore(entityID string, snap Snapshot) {
	set := newSet()
	for a, r := range snap {
		if !a.Valid() {
			continue
		}
		if r.Level < 1 {
			r.Level = 1
		}
		if r.Level > MaxLevel {
			r.Level = MaxLevel
		}
		if !(r.Experience >= 0) || math.IsInf(r.Experience, 0) {
			r.Experience = 0
		}
		rec := r
		set.records[a] = &rec
	}
	s.sets[entityID] = set
}
