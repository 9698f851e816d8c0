package statmod

import (
	"sort"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
)

// Entry maps one statistic to its coefficient per level above 1.
type Entry struct {
	Stat        string
	Coefficient float64
}

// Table is an attribute-to-statistic mapping with its override key scheme.
type Table struct {
	Name      string
	KeyPrefix string
	entries   [attribute.Count][]Entry
}

// Key returns the overlay key of (attr, stat) in this table.
func (t *Table) Key(attr attribute.Attribute, stat string) string {
	return t.KeyPrefix + attr.Key() + "_" + stat
}

// Entries returns a copy of the ordered entries of attr.
func (t *Table) Entries(attr attribute.Attribute) []Entry {
	if !attr.Valid() {
		return nil
	}
	return append([]Entry(nil), t.entries[attr]...)
}

// Lookup returns the compiled coefficient of (attr, stat).
func (t *Table) Lookup(attr attribute.Attribute, stat string) (float64, bool) {
	if !attr.Valid() {
		return 0, false
	}
	for _, e := range t.entries[attr] {
		if e.Stat == stat {
			return e.Coefficient, true
		}
	}
	return 0, false
}

// Defaults returns every overlay key of this table with its compiled value.
func (t *Table) Defaults() map[string]float64 {
	out := make(map[string]float64)
	for _, a := range attribute.All() {
		for _, e := range t.entries[a] {
			out[t.Key(a, e.Stat)] = e.Coefficient
		}
	}
	return out
}

// Statistics returns every statistic mapped by any attribute, sorted.
func (t *Table) Statistics() []string {
	seen := make(map[string]bool)
	for _, a := range attribute.All() {
		for _, e := range t.entries[a] {
			seen[e.Stat] = true
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// GeneralTable returns the mapping applied to humanoids.
func GeneralTable() *Table {
	t := &Table{Name: "general"}
	t.entries[attribute.Strength] = []Entry{
		{WorkSpeedGlobal, 0.02},
		{ConstructionSpeed, 0.03},
		{MiningSpeed, 0.03},
		{MiningYield, 0.02},
		{ConstructSuccessChance, 0.01},
		{SmoothingSpeed, 0.03},
		{MeleeDamageFactor, 0.025},
		{CarryingCapacity, 0.05},
		{PlantWorkSpeed, 0.025},
		{DeepDrillingSpeed, 0.03},
	}
	t.entries[attribute.Dexterity] = []Entry{
		{ShootingAccuracyPawn, 0.02},
		{MeleeHitChance, 0.02},
		{MedicalTendSpeed, 0.025},
		{SurgerySuccessChanceFactor, 0.015},
		{FoodPoisonChance, -0.01},
	}
	t.entries[attribute.Agility] = []Entry{
		{MoveSpeed, 0.03},
		{MeleeDodgeChance, 0.02},
		{AimingDelayFactor, -0.015},
		{HuntingStealth, 0.02},
		{RestRateMultiplier, 0.02},
		{MentalBreakThreshold, -0.01},
		{PlantHarvestYield, 0.02},
		{FilthRate, -0.03},
		{EatingSpeed, 0.03},
	}
	t.entries[attribute.Constitution] = []Entry{
		{ImmunityGainSpeed, 0.03},
		{ComfyTemperatureMin, -0.1},
		{ComfyTemperatureMax, 0.1},
		{ToxicResistance, 0.02},
		{PainShockThreshold, 0.03},
	}
	t.entries[attribute.Intelligence] = []Entry{
		{ResearchSpeed, 0.04},
		{GlobalLearningFactor, 0.03},
		{MedicalTendQuality, 0.025},
		{MedicalSurgerySuccessChance, 0.02},
		{TrapSpringChance, -0.02},
		{NegotiationAbility, 0.02},
		{PsychicSensitivity, 0.015},
	}
	t.entries[attribute.Charisma] = []Entry{
		{SocialImpact, 0.04},
		{TradePriceImprovement, 0.02},
		{TameAnimalChance, 0.03},
		{TrainAnimalChance, 0.025},
		{AnimalGatherYield, 0.02},
		{Beauty, 0.02},
		{ArrestSuccessChance, 0.02},
	}
	return t
}

// AnimalTable returns the mapping applied to animals. Its keys carry the
// ANIMAL_ prefix.
func AnimalTable() *Table {
	t := &Table{Name: "animal", KeyPrefix: "ANIMAL_"}
	t.entries[attribute.Strength] = []Entry{
		{CarryingCapacity, 0.08},
		{MeleeDamageFactor, 0.04},
		{WorkSpeedGlobal, 0.03},
		{MiningSpeed, 0.05},
		{MiningYield, 0.03},
	}
	t.entries[attribute.Dexterity] = []Entry{
		{MeleeHitChance, 0.03},
		{ShootingAccuracyPawn, 0.015},
		{WorkSpeedGlobal, 0.025},
	}
	t.entries[attribute.Agility] = []Entry{
		{MoveSpeed, 0.05},
		{MeleeDodgeChance, 0.04},
		{HuntingStealth, 0.04},
		{AimingDelayFactor, -0.025},
		{FilthRate, -0.04},
	}
	t.entries[attribute.Constitution] = []Entry{
		{ImmunityGainSpeed, 0.05},
		{RestRateMultiplier, 0.04},
		{ComfyTemperatureMin, -0.15},
		{ComfyTemperatureMax, 0.15},
		{ToxicResistance, 0.03},
		{PainShockThreshold, 0.05},
		{FoodPoisonChance, -0.02},
		{CarryingCapacity, 0.04},
	}
	t.entries[attribute.Intelligence] = []Entry{
		{GlobalLearningFactor, 0.02},
		{TrapSpringChance, -0.015},
		{HuntingStealth, 0.025},
		{WorkSpeedGlobal, 0.015},
	}
	t.entries[attribute.Charisma] = []Entry{
		{SocialImpact, 0.03},
		{TameAnimalChance, 0.04},
		{TrainAnimalChance, 0.035},
		{Beauty, 0.03},
		{AnimalGatherYield, 0.04},
	}
	return t
}
