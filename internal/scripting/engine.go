package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/a2go/engine/internal/component"
	"github.com/a2go/engine/internal/core/ecs"
)

const entityTypeName = "entity"

// Engine wraps a single gopher-lua VM that runs entity scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	rt  *ecs.Runtime
	log *zap.Logger
}

// NewEngine creates a Lua engine bound to rt and loads every .lua file in
// scriptsDir, then in each of its subdirectories in name order. A missing
// directory loads nothing.
func NewEngine(rt *ecs.Runtime, scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, rt: rt, log: log}
	e.registerAPI()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	entries, err := os.ReadDir(scriptsDir)
	if err != nil && !os.IsNotExist(err) {
		vm.Close()
		return nil, fmt.Errorf("read scripts dir: %w", err)
	}
	var subs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subs = append(subs, entry.Name())
		}
	}
	sort.Strings(subs)
	for _, sub := range subs {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// Close shuts down the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function called name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Tick is the handler of the script system: it calls the entity's Script.Tick
// function with the entity as its only argument.
func (e *Engine) Tick(ent *ecs.Entity) {
	s := ecs.Get[component.Script](ent, component.ScriptID)
	if s.Tick == "" {
		return
	}
	e.call(s.Tick, e.entityValue(ent))
}

// Attach installs a message handler on ent for every entry of its Script
// component. Entities without a Script component are left alone.
func (e *Engine) Attach(ent *ecs.Entity) {
	s := ecs.Find[component.Script](ent, component.ScriptID)
	if s == nil {
		return
	}
	for name, fn := range s.Messages {
		ent.HandleMessage(name, e.MessageHandler(fn, name))
	}
}

// MessageHandler returns a handler calling the Lua function fn with the
// recipient, the sender and the message name.
func (e *Engine) MessageHandler(fn, name string) ecs.MessageHandler {
	return func(to, from *ecs.Entity) {
		e.call(fn, e.entityValue(to), e.entityValue(from), lua.LString(name))
	}
}

// call invokes a global Lua function in protected mode. Script errors are
// logged and swallowed; panics raised by the runtime's fatal checks are
// re-raised.
func (e *Engine) call(name string, args ...lua.LValue) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("function", name))
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) && apiErr.Type == lua.ApiErrorPanic {
			panic(err)
		}
		e.log.Error("lua call error", zap.String("function", name), zap.Error(err))
	}
}

func (e *Engine) entityValue(ent *ecs.Entity) lua.LValue {
	ud := e.vm.NewUserData()
	ud.Value = ent
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(entityTypeName))
	return ud
}
