package statmod

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format controls how a modifier combines with a statistic's base value.
type Format int

const (
	// FormatScalar statistics are multiplied by (1 + modifier).
	FormatScalar Format = iota
	// FormatPercent statistics have the modifier added directly.
	FormatPercent
)

func (f Format) String() string {
	if f == FormatPercent {
		return "percent"
	}
	return "scalar"
}

// UnmarshalYAML accepts "percent" or "scalar".
func (f *Format) UnmarshalYAML(node *yaml.Node) error {
	switch strings.ToLower(node.Value) {
	case "percent":
		*f = FormatPercent
	case "scalar", "":
		*f = FormatScalar
	default:
		return fmt.Errorf("unknown statistic format %q", node.Value)
	}
	return nil
}

// MarshalYAML writes the format name.
func (f Format) MarshalYAML() (any, error) { return f.String(), nil }

// Statistic describes a host gameplay statistic.
type Statistic struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Format Format `yaml:"format"`
}

// Apply combines base with modifier according to def's format. A nil def is
// treated as scalar.
func Apply(def *Statistic, base, modifier float64) float64 {
	if def != nil && def.Format == FormatPercent {
		return base + modifier
	}
	return base * (1 + modifier)
}

// Catalog holds all known statistics keyed by ID.
type Catalog struct {
	defs map[string]*Statistic
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Statistic)}
}

// Register adds def, overwriting any entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (c *Catalog) Register(def *Statistic) {
	c.defs[def.ID] = def
}

// Get returns the statistic for id.
func (c *Catalog) Get(id string) (*Statistic, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Label returns the display label of id, falling back to id itself.
func (c *Catalog) Label(id string) string {
	if d, ok := c.defs[id]; ok && d.Label != "" {
		return d.Label
	}
	return id
}

// All returns every statistic sorted by ID.
func (c *Catalog) All() []*Statistic {
	out := make([]*Statistic, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type catalogFile struct {
	Statistics []*Statistic `yaml:"statistics"`
}

// LoadFile merges the statistics listed in a YAML file into c.
//
// Postcondition: on error c is unchanged.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading statistic catalog %q: %w", path, err)
	}
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("parsing statistic catalog %q: %w", path, err)
	}
	for i, def := range f.Statistics {
		if def == nil || def.ID == "" {
			return fmt.Errorf("statistic catalog %q: entry %d has no id", path, i)
		}
	}
	for _, def := range f.Statistics {
		c.Register(def)
	}
	return nil
}

// DefaultCatalog returns the statistics referenced by the compiled tables.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, def := range defaultStatistics {
		d := def
		c.Register(&d)
	}
	return c
}

// Statistic IDs referenced by the compiled tables.
const (
	WorkSpeedGlobal             = "WorkSpeedGlobal"
	ConstructionSpeed           = "ConstructionSpeed"
	MiningSpeed                 = "MiningSpeed"
	MiningYield                 = "MiningYield"
	ConstructSuccessChance      = "ConstructSuccessChance"
	SmoothingSpeed              = "SmoothingSpeed"
	MeleeDamageFactor           = "MeleeDamageFactor"
	CarryingCapacity            = "CarryingCapacity"
	PlantWorkSpeed              = "PlantWorkSpeed"
	DeepDrillingSpeed           = "DeepDrillingSpeed"
	ShootingAccuracyPawn        = "ShootingAccuracyPawn"
	MeleeHitChance              = "MeleeHitChance"
	MedicalTendSpeed            = "MedicalTendSpeed"
	SurgerySuccessChanceFactor  = "SurgerySuccessChanceFactor"
	FoodPoisonChance            = "FoodPoisonChance"
	MoveSpeed                   = "MoveSpeed"
	MeleeDodgeChance            = "MeleeDodgeChance"
	AimingDelayFactor           = "AimingDelayFactor"
	HuntingStealth              = "HuntingStealth"
	RestRateMultiplier          = "RestRateMultiplier"
	MentalBreakThreshold        = "MentalBreakThreshold"
	PlantHarvestYield           = "PlantHarvestYield"
	FilthRate                   = "FilthRate"
	EatingSpeed                 = "EatingSpeed"
	ImmunityGainSpeed           = "ImmunityGainSpeed"
	ComfyTemperatureMin         = "ComfyTemperatureMin"
	ComfyTemperatureMax         = "ComfyTemperatureMax"
	ToxicResistance             = "ToxicResistance"
	PainShockThreshold          = "PainShockThreshold"
	ResearchSpeed               = "ResearchSpeed"
	GlobalLearningFactor        = "GlobalLearningFactor"
	MedicalTendQuality          = "MedicalTendQuality"
	MedicalSurgerySuccessChance = "MedicalSurgerySuccessChance"
	TrapSpringChance            = "TrapSpringChance"
	NegotiationAbility          = "NegotiationAbility"
	PsychicSensitivity          = "PsychicSensitivity"
	SocialImpact                = "SocialImpact"
	TradePriceImprovement       = "TradePriceImprovement"
	TameAnimalChance            = "TameAnimalChance"
	TrainAnimalChance           = "TrainAnimalChance"
	AnimalGatherYield           = "AnimalGatherYield"
	Beauty                      = "Beauty"
	ArrestSuccessChance         = "ArrestSuccessChance"
)

var defaultStatistics = []Statistic{
	{WorkSpeedGlobal, "Global work speed", FormatPercent},
	{ConstructionSpeed, "Construction speed", FormatPercent},
	{MiningSpeed, "Mining speed", FormatPercent},
	{MiningYield, "Mining yield", FormatPercent},
	{ConstructSuccessChance, "Construct success chance", FormatPercent},
	{SmoothingSpeed, "Smoothing speed", FormatPercent},
	{MeleeDamageFactor, "Melee damage", FormatScalar},
	{CarryingCapacity, "Carrying capacity", FormatScalar},
	{PlantWorkSpeed, "Plant work speed", FormatPercent},
	{DeepDrillingSpeed, "Deep drilling speed", FormatPercent},
	{ShootingAccuracyPawn, "Shooting accuracy", FormatPercent},
	{MeleeHitChance, "Melee hit chance", FormatPercent},
	{MedicalTendSpeed, "Medical tend speed", FormatPercent},
	{SurgerySuccessChanceFactor, "Surgery success chance factor", FormatPercent},
	{FoodPoisonChance, "Food poison chance", FormatPercent},
	{MoveSpeed, "Move speed", FormatScalar},
	{MeleeDodgeChance, "Melee dodge chance", FormatPercent},
	{AimingDelayFactor, "Aiming time", FormatScalar},
	{HuntingStealth, "Hunting stealth", FormatPercent},
	{RestRateMultiplier, "Rest rate", FormatScalar},
	{MentalBreakThreshold, "Mental break threshold", FormatPercent},
	{PlantHarvestYield, "Plant harvest yield", FormatPercent},
	{FilthRate, "Filth rate", FormatScalar},
	{EatingSpeed, "Eating speed", FormatScalar},
	{ImmunityGainSpeed, "Immunity gain speed", FormatPercent},
	{ComfyTemperatureMin, "Min comfortable temperature", FormatScalar},
	{ComfyTemperatureMax, "Max comfortable temperature", FormatScalar},
	{ToxicResistance, "Toxic resistance", FormatPercent},
	{PainShockThreshold, "Pain shock threshold", FormatPercent},
	{ResearchSpeed, "Research speed", FormatPercent},
	{GlobalLearningFactor, "Learning rate", FormatPercent},
	{MedicalTendQuality, "Medical tend quality", FormatPercent},
	{MedicalSurgerySuccessChance, "Surgery success chance", FormatPercent},
	{TrapSpringChance, "Trap spring chance", FormatPercent},
	{NegotiationAbility, "Negotiation ability", FormatPercent},
	{PsychicSensitivity, "Psychic sensitivity", FormatPercent},
	{SocialImpact, "Social impact", FormatPercent},
	{TradePriceImprovement, "Trade price improvement", FormatPercent},
	{TameAnimalChance, "Tame animal chance", FormatPercent},
	{TrainAnimalChance, "Train animal chance", FormatPercent},
	{AnimalGatherYield, "Animal gather yield", FormatPercent},
	{Beauty, "Beauty", FormatScalar},
	{ArrestSuccessChance, "Arrest success chance", FormatPercent},
}
