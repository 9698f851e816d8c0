// Package entity models the host-side view of characters and creatures that
// carry attribute progression.
package entity

import (
	"fmt"
	"strings"
)

// Kind distinguishes humanoids from animals.
type Kind int

const (
	KindHumanoid Kind = iota
	KindAnimal
)

func (k Kind) String() string {
	switch k {
	case KindAnimal:
		return "animal"
	default:
		return "humanoid"
	}
}

// ParseKind resolves "humanoid" or "animal".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "humanoid", "human":
		return KindHumanoid, nil
	case "animal":
		return KindAnimal, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Relation is an entity's faction standing toward the player.
type Relation int

const (
	RelationPlayer Relation = iota
	RelationHostile
	RelationNeutral
	RelationAlly
)

func (r Relation) String() string {
	switch r {
	case RelationPlayer:
		return "player"
	case RelationHostile:
		return "hostile"
	case RelationAlly:
		return "ally"
	default:
		return "neutral"
	}
}

// ParseRelation resolves a relation name.
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player", "colony":
		return RelationPlayer, nil
	case "hostile", "enemy":
		return RelationHostile, nil
	case "", "neutral":
		return RelationNeutral, nil
	case "ally", "allied":
		return RelationAlly, nil
	}
	return 0, fmt.Errorf("unknown relation %q", s)
}

// Skill names a host work skill.
type Skill string

const (
	SkillShooting     Skill = "shooting"
	SkillMelee        Skill = "melee"
	SkillConstruction Skill = "construction"
	SkillMining       Skill = "mining"
	SkillCooking      Skill = "cooking"
	SkillPlants       Skill = "plants"
	SkillAnimals      Skill = "animals"
	SkillCrafting     Skill = "crafting"
	SkillArtistic     Skill = "artistic"
	SkillMedicine     Skill = "medicine"
	SkillSocial       Skill = "social"
	SkillIntellectual Skill = "intellectual"
)

// Weapon describes the equipped primary weapon.
type Weapon struct {
	Equipped bool
	Ranged   bool
}

// Profile is everything the core reads about an entity.
type Profile struct {
	ID        string
	Name      string
	Kind      Kind
	Relation  Relation
	FactionID string
	// BodySize is relative to a humanoid (1.0).
	BodySize   float64
	Skills     map[Skill]int
	Weapon     Weapon
	TorsoArmor bool
}

// IsAnimal reports whether p is an animal.
func (p *Profile) IsAnimal() bool { return p.Kind == KindAnimal }

// SkillLevel returns the level of skill, or 0 when untrained.
func (p *Profile) SkillLevel(skill Skill) int {
	if p.Skills == nil {
		return 0
	}
	return p.Skills[skill]
}

// EffectiveBodySize returns BodySize, treating non-positive values as 1.
func (p *Profile) EffectiveBodySize() float64 {
	if p.BodySize > 0 {
		return p.BodySize
	}
	return 1
}

// Lookup resolves entity profiles by ID.
type Lookup interface {
	Get(id string) (*Profile, bool)
}
