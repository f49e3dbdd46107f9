package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/trigger"
)

// ErrNotLoaded is returned by EvalCondition before LoadGlobal succeeds.
var ErrNotLoaded = errors.New("scripting: no scripts loaded")

// Manager owns one sandboxed LState holding the shared scripts.
//
// Calls are serialized; an LState is single-threaded. Every call runs under
// a fresh instruction budget of the limit given to LoadGlobal.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	limit  int
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager called with nil roller")
	}
	if logger == nil {
		panic("scripting: NewManager called with nil logger")
	}
	return &Manager{roller: roller, logger: logger}
}

// LoadGlobal creates a sandboxed VM, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. A previous
// VM is closed and replaced only when loading succeeds.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: returns an error on read or Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		cancel()
		cancel = armBudget(L, instLimit)
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		m.cancel()
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.limit = instLimit
	m.mu.Unlock()

	m.logger.Info("scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Close releases the VM. The Manager may be reloaded afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.cancel()
		m.state.Close()
		m.state = nil
	}
}

// call runs hook under a fresh budget with the arguments built by args.
// It returns (LNil, false, nil) when the hook is undefined.
func (m *Manager) call(hook string, args func(*lua.LState) []lua.LValue) (lua.LValue, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return lua.LNil, false, ErrNotLoaded
	}
	L := m.state
	fn := L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, false, nil
	}

	m.cancel()
	m.cancel = armBudget(L, m.limit)
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args(L)...); err != nil {
		return lua.LNil, true, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, true, nil
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the
// hook is not defined or nothing is loaded. Lua runtime errors are logged at
// Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	ret, _, err := m.call(hook, func(*lua.LState) []lua.LValue { return args })
	if errors.Is(err, ErrNotLoaded) {
		m.logger.Info("scripting: no VM loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	return ret, nil
}

// EvalCondition calls hook with a read-only table describing ctx and reports
// the truthiness of its result.
//
// Postcondition: an undefined hook, a runtime error or an exhausted budget
// yields false with a non-nil error.
func (m *Manager) EvalCondition(hook string, ctx *trigger.Context) (bool, error) {
	ret, found, err := m.call(hook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{contextTable(L, ctx)}
	})
	if errors.Is(err, ErrNotLoaded) {
		return false, err
	}
	if err != nil {
		m.logger.Warn("scripted condition failed",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return false, fmt.Errorf("scripting: condition %q: %w", hook, err)
	}
	if !found {
		return false, fmt.Errorf("scripting: condition %q is not defined", hook)
	}
	return lua.LVAsBool(ret), nil
}
