package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rpgstat/internal/game/dice"
)

// SpawnSpec describes an entity a script asks the host to create.
type SpawnSpec struct {
	ID         string
	Name       string
	Kind       string
	Relation   string
	Faction    string
	BodySize   float64
	Skills     map[string]int
	Weapon     string
	TorsoArmor bool
}

// FactionSpec describes a faction a script asks the host to create.
type FactionSpec struct {
	ID       string
	Name     string
	Relation string
	Goodwill int
	Tech     string
	Wealth   float64
}

// EventSpec describes a gameplay event a script asks the host to publish.
type EventSpec struct {
	Type      string
	EntityID  string
	Magnitude float64
	Skill     string
	Activity  string
	Resource  string
	Success   bool
}

// Manager owns one sandboxed VM per loaded scenario and dispatches hooks.
//
// Each VM is single-threaded; CallHook serializes calls with the manager lock.
type Manager struct {
	mu      sync.Mutex
	states  map[string]*lua.LState
	cancels map[string]context.CancelFunc
	roller  *dice.Roller
	logger  *zap.Logger

	// Injected after construction. A nil callback makes the matching
	// engine.* function return nil plus an error string.
	Faction    func(spec FactionSpec) error
	Spawn      func(spec SpawnSpec) (string, error)
	Publish    func(ev EventSpec) (int, error)
	Level      func(entityID, attr string) (int, error)
	Experience func(entityID, attr string) (float64, error)
	Modifier   func(entityID, stat string) (float64, error)
	Describe   func(entityID, attr string) (string, error)
	Balance    func(entityID string) (int, error)
	Advance    func(ticks int) error
	Messages   func() []string
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]context.CancelFunc),
		roller:  roller,
		logger:  logger,
	}
}

// Load creates a VM for name and executes path in it. path may be a single
// .lua file or a directory whose .lua files run in lexicographic order.
// Loading a name twice replaces the previous VM.
func (m *Manager) Load(name, path string, limit int) error {
	files, err := scriptFiles(path)
	if err != nil {
		return fmt.Errorf("scripting: scenario %q: %w", name, err)
	}

	L, cancel := NewSandboxedState(limit)
	m.RegisterModules(L)
	for _, f := range files {
		if err := L.DoFile(f); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", f, name, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.release(name)
	m.states[name] = L
	m.cancels[name] = cancel
	m.logger.Info("scenario loaded", zap.String("scenario", name), zap.Int("files", len(files)))
	return nil
}

func scriptFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Loaded reports whether a VM exists for name.
func (m *Manager) Loaded(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[name]
	return ok
}

// CallHook calls the global Lua function hook in name's VM. It returns
// (LNil, nil) when the VM or hook does not exist; Lua runtime errors are
// returned wrapped.
func (m *Manager) CallHook(name, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[name]
	if !ok {
		m.logger.Info("no VM for scenario", zap.String("scenario", name), zap.String("hook", hook))
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("Lua runtime error",
			zap.String("scenario", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: %s.%s: %w", name, hook, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range m.states {
		m.release(name)
	}
}

// release must be called with m.mu held.
func (m *Manager) release(name string) {
	if cancel := m.cancels[name]; cancel != nil {
		cancel()
	}
	if L := m.states[name]; L != nil {
		L.Close()
	}
	delete(m.states, name)
	delete(m.cancels, name)
}
