// Package attribute defines the six RPG attributes tracked for every entity.
package attribute

import (
	"fmt"
	"strings"
)

// Attribute identifies one of the six tracked attributes.
type Attribute int

const (
	Strength Attribute = iota
	Dexterity
	Agility
	Constitution
	Intelligence
	Charisma
)

// Count is the number of attributes.
const Count = 6

var keys = [Count]string{"STR", "DEX", "AGL", "CON", "INT", "CHA"}

var names = [Count]string{"Strength", "Dexterity", "Agility", "Constitution", "Intelligence", "Charisma"}

// All returns every attribute in canonical order.
//
// Postcondition: len(result) == Count.
func All() []Attribute {
	return []Attribute{Strength, Dexterity, Agility, Constitution, Intelligence, Charisma}
}

// Valid reports whether a names one of the six attributes.
func (a Attribute) Valid() bool {
	return a >= Strength && a <= Charisma
}

// Key returns the three-letter key used in override keys and save data.
func (a Attribute) Key() string {
	if !a.Valid() {
		return fmt.Sprintf("ATTR(%d)", int(a))
	}
	return keys[a]
}

// Name returns the human-readable attribute name.
func (a Attribute) Name() string {
	if !a.Valid() {
		return a.Key()
	}
	return names[a]
}

func (a Attribute) String() string { return a.Key() }

// Parse resolves a three-letter key or a full name, case-insensitively.
//
// Postcondition: on success the returned attribute is Valid.
func Parse(s string) (Attribute, error) {
	s = strings.TrimSpace(s)
	for i := 0; i < Count; i++ {
		if strings.EqualFold(s, keys[i]) || strings.EqualFold(s, names[i]) {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

// Weights is a per-attribute weight vector indexed by Attribute.
type Weights [Count]float64

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Scale returns w with every component multiplied by f.
func (w Weights) Scale(f float64) Weights {
	var out Weights
	for i, v := range w {
		out[i] = v * f
	}
	return out
}
