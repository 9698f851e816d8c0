package scripting

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var errNoHost = errors.New("not bound to a host")

// RegisterModules installs the engine global into L.
//
// Failing engine.* calls return nil plus an error message, matching the Lua
// io library convention.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "entity", m.entityModule(L))
	L.SetField(engine, "stats", m.statsModule(L))
	L.SetField(engine, "event", m.eventModule(L))
	L.SetField(engine, "balance", m.balanceModule(L))
	L.SetField(engine, "world", m.worldModule(L))
	L.SetGlobal("engine", engine)
}

func fail(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	level := func(log func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			log(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}
	}
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": level(m.logger.Debug),
		"info":  level(m.logger.Info),
		"warn":  level(m.logger.Warn),
		"error": level(m.logger.Error),
	})
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"roll": func(L *lua.LState) int {
			res, err := m.roller.RollExpr(L.CheckString(1))
			if err != nil {
				return fail(L, err)
			}
			sum := 0
			for _, d := range res.Dice {
				sum += d
			}
			t := L.NewTable()
			t.RawSetString("total", lua.LNumber(res.Total()))
			t.RawSetString("dice", lua.LNumber(sum))
			t.RawSetString("modifier", lua.LNumber(res.Modifier))
			L.Push(t)
			return 1
		},
		"uniform": func(L *lua.LState) int {
			lo := float64(L.CheckNumber(1))
			hi := float64(L.CheckNumber(2))
			L.Push(lua.LNumber(m.roller.Uniform("lua", lo, hi)))
			return 1
		},
	})
}

func (m *Manager) entityModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"spawn": func(L *lua.LState) int {
			if m.Spawn == nil {
				return fail(L, errNoHost)
			}
			id, err := m.Spawn(spawnSpec(L.CheckTable(1)))
			if err != nil {
				return fail(L, err)
			}
			L.Push(lua.LString(id))
			return 1
		},
		"level": func(L *lua.LState) int {
			if m.Level == nil {
				return fail(L, errNoHost)
			}
			n, err := m.Level(L.CheckString(1), L.CheckString(2))
			if err != nil {
				return fail(L, err)
			}
			L.Push(lua.LNumber(n))
			return 1
		},
		"experience": func(L *lua.LState) int {
			if m.Experience == nil {
				return fail(L, errNoHost)
			}
			xp, err := m.Experience(L.CheckString(1), L.CheckString(2))
			if err != nil {
				return fail(L, err)
			}
			L.Push(lua.LNumber(xp))
			return 1
		},
	})
}

func (m *Manager) statsModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"modifier": func(L *lua.LState) int {
			if m.Modifier == nil {
				return fail(L, errNoHost)
			}
			v, err := m.Modifier(L.CheckString(1), L.CheckString(2))
			if err != nil {
				return fail(L, err)
			}
			L.Push(lua.LNumber(v))
			return 1
		},
		"describe": func(L *lua.LState) int {
			if m.Describe == nil {
				return fail(L, errNoHost)
			}
			s, err := m.Describe(L.CheckString(1), L.CheckString(2))
			if err != nil {
				return fail(L, err)
			}
			L.Push(lua.LString(s))
			return 1
		},
	})
}

func (m *Manager) eventModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"publish": func(L *lua.LState) int {
			if m.Publish == nil {
				return fail(L, errNoHost)
			}
			n, err := m.Publish(eventSpec(L.CheckTable(1)))
			if err != nil {
				return fail(L, err)
			}
			L.Push(lua.LNumber(n))
			return 1
		},
	})
}

func (m *Manager) balanceModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"entity": func(L *lua.LState) int {
			if m.Balance == nil {
				return fail(L, errNoHost)
			}
			n, err := m.Balance(L.CheckString(1))
			if err != nil {
				return fail(L, err)
			}
			L.Push(lua.LNumber(n))
			return 1
		},
	})
}

func (m *Manager) worldModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"advance": func(L *lua.LState) int {
			if m.Advance == nil {
				return fail(L, errNoHost)
			}
			if err := m.Advance(L.OptInt(1, 1)); err != nil {
				return fail(L, err)
			}
			L.Push(lua.LTrue)
			return 1
		},
		"faction": func(L *lua.LState) int {
			if m.Faction == nil {
				return fail(L, errNoHost)
			}
			t := L.CheckTable(1)
			spec := FactionSpec{
				ID:       lua.LVAsString(t.RawGetString("id")),
				Name:     lua.LVAsString(t.RawGetString("name")),
				Relation: lua.LVAsString(t.RawGetString("relation")),
				Goodwill: int(lua.LVAsNumber(t.RawGetString("goodwill"))),
				Tech:     lua.LVAsString(t.RawGetString("tech")),
				Wealth:   float64(lua.LVAsNumber(t.RawGetString("wealth"))),
			}
			if err := m.Faction(spec); err != nil {
				return fail(L, err)
			}
			L.Push(lua.LString(spec.ID))
			return 1
		},
		"messages": func(L *lua.LState) int {
			t := L.NewTable()
			if m.Messages != nil {
				for _, msg := range m.Messages() {
					t.Append(lua.LString(msg))
				}
			}
			L.Push(t)
			return 1
		},
	})
}

func spawnSpec(t *lua.LTable) SpawnSpec {
	spec := SpawnSpec{
		ID:         lua.LVAsString(t.RawGetString("id")),
		Name:       lua.LVAsString(t.RawGetString("name")),
		Kind:       lua.LVAsString(t.RawGetString("kind")),
		Relation:   lua.LVAsString(t.RawGetString("relation")),
		Faction:    lua.LVAsString(t.RawGetString("faction")),
		BodySize:   float64(lua.LVAsNumber(t.RawGetString("body_size"))),
		Weapon:     lua.LVAsString(t.RawGetString("weapon")),
		TorsoArmor: lua.LVAsBool(t.RawGetString("torso_armor")),
	}
	if skills, ok := t.RawGetString("skills").(*lua.LTable); ok {
		spec.Skills = make(map[string]int)
		skills.ForEach(func(k, v lua.LValue) {
			spec.Skills[lua.LVAsString(k)] = int(lua.LVAsNumber(v))
		})
	}
	return spec
}

func eventSpec(t *lua.LTable) EventSpec {
	success := true
	if v := t.RawGetString("success"); v != lua.LNil {
		success = lua.LVAsBool(v)
	}
	return EventSpec{
		Type:      lua.LVAsString(t.RawGetString("type")),
		EntityID:  lua.LVAsString(t.RawGetString("entity")),
		Magnitude: float64(lua.LVAsNumber(t.RawGetString("magnitude"))),
		Skill:     lua.LVAsString(t.RawGetString("skill")),
		Activity:  lua.LVAsString(t.RawGetString("activity")),
		Resource:  lua.LVAsString(t.RawGetString("resource")),
		Success:   success,
	}
}
