package progression

import "math"

// DefaultBaseExperience is the experience needed to go from level 1 to level 2.
const DefaultBaseExperience = 1000.0

// MaxLevel is the highest level an attribute can reach.
const MaxLevel = math.MaxInt32

// Curve is the triangular leveling curve: reaching level n from level n-1
// costs Base*(n-1).
type Curve struct {
	Base float64
}

// NewCurve returns a curve with the given base, falling back to
// DefaultBaseExperience when base is not positive.
func NewCurve(base float64) Curve {
	if !(base > 0) {
		base = DefaultBaseExperience
	}
	return Curve{Base: base}
}

// RequiredExperienceForLevel returns the cumulative experience needed to
// reach level from level 1.
//
// Postcondition: 0 for level <= 1; Base*level*(level-1)/2 otherwise.
func (c Curve) RequiredExperienceForLevel(level int) float64 {
	if level <= 1 {
		return 0
	}
	return c.Base * float64(level) * float64(level-1) / 2
}

// LevelFor returns the level reached with total cumulative experience.
//
// Postcondition: 1 <= result <= MaxLevel and
// RequiredExperienceForLevel(result) <= total unless result is 1.
func (c Curve) LevelFor(total float64) int {
	if !(total >= c.Base) {
		return 1
	}
	est := math.Floor((1 + math.Sqrt(1+8*total/c.Base)) / 2)
	if est >= MaxLevel {
		return MaxLevel
	}
	level := int(est)
	// The square root can be off by one either way.
	for level > 1 && c.RequiredExperienceForLevel(level) > total {
		level--
	}
	for level < MaxLevel && c.RequiredExperienceForLevel(level+1) <= total {
		level++
	}
	return level
}

// Cost returns the experience needed to advance from level to level+1.
//
// Postcondition: Cost(l) == RequiredExperienceForLevel(l+1) - RequiredExperienceForLevel(l)
// for every l >= 1.
func (c Curve) Cost(level int) float64 {
	if level < 1 {
		level = 1
	}
	return c.Base * float64(level)
}
