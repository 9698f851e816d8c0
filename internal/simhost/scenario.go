package simhost

import (
	"fmt"

	"github.com/cory-johannsen/rpgstat/internal/game/attribute"
	"github.com/cory-johannsen/rpgstat/internal/game/entity"
	"github.com/cory-johannsen/rpgstat/internal/game/experience"
	"github.com/cory-johannsen/rpgstat/internal/scripting"
)

// ScenarioName is the VM key scenarios are loaded under.
const ScenarioName = "scenario"

// Bind connects the engine.* callbacks of m to h.
func (h *Host) Bind(m *scripting.Manager) {
	m.Faction = func(spec scripting.FactionSpec) error {
		f, err := factionFromSpec(spec)
		if err != nil {
			return err
		}
		return h.AddFaction(f)
	}
	m.Spawn = func(spec scripting.SpawnSpec) (string, error) {
		if spec.Relation == "" && spec.Faction != "" {
			if f, ok := h.Faction(spec.Faction); ok {
				spec.Relation = f.Relation.String()
			}
		}
		p, err := profileFromSpec(spec)
		if err != nil {
			return "", err
		}
		return h.Spawn(p)
	}
	m.Publish = func(spec scripting.EventSpec) (int, error) {
		return h.Publish(eventFromSpec(spec))
	}
	m.Level = func(id, attr string) (int, error) {
		a, err := attribute.Parse(attr)
		if err != nil {
			return 0, err
		}
		return h.Level(id, a), nil
	}
	m.Experience = func(id, attr string) (float64, error) {
		a, err := attribute.Parse(attr)
		if err != nil {
			return 0, err
		}
		return h.Experience(id, a), nil
	}
	m.Modifier = func(id, stat string) (float64, error) {
		return h.Modifier(id, stat), nil
	}
	m.Describe = func(id, attr string) (string, error) {
		a, err := attribute.Parse(attr)
		if err != nil {
			return "", err
		}
		return h.DescribeBonuses(id, a), nil
	}
	m.Balance = h.Balance
	m.Advance = func(ticks int) error {
		if ticks < 0 {
			return fmt.Errorf("cannot advance %d ticks", ticks)
		}
		h.Advance(int64(ticks))
		return nil
	}
	m.Messages = h.Messages
}

// RunScenario loads path into m, binds it to h and calls its run hook.
func (h *Host) RunScenario(m *scripting.Manager, path string) error {
	h.Bind(m)
	if err := m.Load(ScenarioName, path, h.Config().SimHost.InstructionLimit); err != nil {
		return err
	}
	if _, err := m.CallHook(ScenarioName, "run"); err != nil {
		return err
	}
	return nil
}

func profileFromSpec(spec scripting.SpawnSpec) (*entity.Profile, error) {
	kind, err := entity.ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	rel, err := entity.ParseRelation(spec.Relation)
	if err != nil {
		return nil, err
	}
	p := &entity.Profile{
		ID:         spec.ID,
		Name:       spec.Name,
		Kind:       kind,
		Relation:   rel,
		FactionID:  spec.Faction,
		BodySize:   spec.BodySize,
		TorsoArmor: spec.TorsoArmor,
	}
	switch spec.Weapon {
	case "":
	case "ranged":
		p.Weapon = entity.Weapon{Equipped: true, Ranged: true}
	case "melee":
		p.Weapon = entity.Weapon{Equipped: true}
	default:
		return nil, fmt.Errorf("unknown weapon %q", spec.Weapon)
	}
	if len(spec.Skills) > 0 {
		p.Skills = make(map[entity.Skill]int, len(spec.Skills))
		for name, lvl := range spec.Skills {
			p.Skills[entity.Skill(name)] = lvl
		}
	}
	return p, nil
}

func factionFromSpec(spec scripting.FactionSpec) (Faction, error) {
	rel, err := entity.ParseRelation(spec.Relation)
	if err != nil {
		return Faction{}, err
	}
	tech, err := ParseTech(spec.Tech)
	if err != nil {
		return Faction{}, err
	}
	return Faction{
		ID:       spec.ID,
		Name:     spec.Name,
		Relation: rel,
		Goodwill: spec.Goodwill,
		Tech:     tech,
		Wealth:   spec.Wealth,
	}, nil
}

func eventFromSpec(spec scripting.EventSpec) experience.Event {
	return experience.Event{
		Type:      experience.EventType(spec.Type),
		EntityID:  spec.EntityID,
		Magnitude: spec.Magnitude,
		Skill:     entity.Skill(spec.Skill),
		Activity:  experience.Activity(spec.Activity),
		Resource:  spec.Resource,
		Success:   spec.Success,
	}
}
