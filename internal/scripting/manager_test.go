package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/rpgstat/internal/game/dice"
	"github.com/cory-johannsen/rpgstat/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	mgr := scripting.NewManager(roller, logger)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0o644))
	return dir
}

func TestManager_Load_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function add(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.Load("s", dir, 0))
	assert.True(t, mgr.Loaded("s"))

	ret, err := mgr.CallHook("s", "add", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_Load_SingleFile(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "one.lua", `function answer() return 42 end`)
	require.NoError(t, mgr.Load("file", filepath.Join(dir, "one.lua"), 0))

	ret, err := mgr.CallHook("file", "answer")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestManager_Load_MissingPath(t *testing.T) {
	mgr, _ := newTestManager(t)
	err := mgr.Load("gone", filepath.Join(t.TempDir(), "nope.lua"), 0)
	require.Error(t, err)
	assert.False(t, mgr.Loaded("gone"))
}

func TestManager_Load_InvalidLua(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.Load("bad", dir, 0))
	assert.False(t, mgr.Loaded("bad"))
}

func TestManager_Load_FilesRunInNameOrder(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`function get_val() return base_val end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644))
	require.NoError(t, mgr.Load("ordered", dir, 0))

	ret, err := mgr.CallHook("ordered", "get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestManager_Load_ReplacesExistingVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("s", writeTempLua(t, "v.lua", `function v() return 1 end`), 0))
	require.NoError(t, mgr.Load("s", writeTempLua(t, "v.lua", `function v() return 2 end`), 0))

	ret, err := mgr.CallHook("s", "v")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(2), ret)
}

func TestManager_CallHook_MissingHookOrScenario(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load("s", writeTempLua(t, "empty.lua", `-- nothing`), 0))

	ret, err := mgr.CallHook("s", "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)

	ret, err = mgr.CallHook("other", "anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("no VM for scenario").Len())
}

func TestManager_CallHook_RuntimeErrorReturned(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load("s", writeTempLua(t, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`), 0))

	ret, err := mgr.CallHook("s", "bad_hook")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intentional error")
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("Lua runtime error").Len())
}

func TestManager_Close_ReleasesVMs(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("s", writeTempLua(t, "x.lua", `function x() return 1 end`), 0))
	mgr.Close()
	assert.False(t, mgr.Loaded("s"))

	ret, err := mgr.CallHook("s", "x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestNewManager_PanicsOnNilArguments(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	assert.Panics(t, func() { scripting.NewManager(nil, zap.NewNop()) })
	assert.Panics(t, func() { scripting.NewManager(roller, nil) })
}

func TestManager_ConcurrentCallsSerialize(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("conc", writeTempLua(t, "c.lua", `
		counter = 0
		function bump()
			counter = counter + 1
			return counter
		end
	`), 0))

	const goroutines, each = 8, 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				_, err := mgr.CallHook("conc", "bump")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	ret, err := mgr.CallHook("conc", "bump")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(goroutines*each+1), ret)
}

func TestProperty_CallHookUnknownScenarioNeverFails(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "name")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		ret, err := mgr.CallHook(name, hook)
		if err != nil || ret != lua.LNil {
			rt.Fatalf("unexpected result %v, %v", ret, err)
		}
	})
}
