package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/a2go/engine/internal/core/ecs"
)

// registerAPI exposes the entity functions scripts may call. Every
// structural change goes through the same deferred paths as Go handlers.
func (e *Engine) registerAPI() {
	e.vm.NewTypeMetatable(entityTypeName)
	for name, fn := range map[string]lua.LGFunction{
		"entity_id":      e.luaID,
		"entity_handle":  e.luaHandle,
		"entity_has":     e.luaHas,
		"entity_remove":  e.luaRemove,
		"entity_active":  e.luaActive,
		"entity_mute":    e.luaMute,
		"entity_unmute":  e.luaUnmute,
		"entity_removed": e.luaRemoved,
		"entity_send":    e.luaSend,
		"entity_frame":   e.luaFrame,
		"spawn":          e.luaSpawn,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

func checkEntity(L *lua.LState, n int) *ecs.Entity {
	ud := L.CheckUserData(n)
	ent, ok := ud.Value.(*ecs.Entity)
	if !ok {
		L.ArgError(n, "entity expected")
		return nil
	}
	return ent
}

func (e *Engine) luaID(L *lua.LState) int {
	L.Push(lua.LString(checkEntity(L, 1).ID()))
	return 1
}

func (e *Engine) luaHandle(L *lua.LState) int {
	L.Push(lua.LNumber(checkEntity(L, 1).Handle()))
	return 1
}

func (e *Engine) luaHas(L *lua.LState) int {
	ent := checkEntity(L, 1)
	id, ok := e.rt.ComponentID(L.CheckString(2))
	L.Push(lua.LBool(ok && ent.Has(id)))
	return 1
}

func (e *Engine) luaRemove(L *lua.LState) int {
	checkEntity(L, 1).Remove()
	return 0
}

func (e *Engine) luaActive(L *lua.LState) int {
	checkEntity(L, 1).ActiveSet()
	return 0
}

func (e *Engine) luaMute(L *lua.LState) int {
	checkEntity(L, 1).MuteInc()
	return 0
}

func (e *Engine) luaUnmute(L *lua.LState) int {
	checkEntity(L, 1).MuteDec()
	return 0
}

func (e *Engine) luaRemoved(L *lua.LState) int {
	L.Push(lua.LBool(checkEntity(L, 1).Removed()))
	return 1
}

// entity_send(to, from, name [, immediate])
func (e *Engine) luaSend(L *lua.LState) int {
	to, from := checkEntity(L, 1), checkEntity(L, 2)
	name := L.CheckString(3)
	if L.OptBool(4, false) {
		to.World().SendImmediate(to, from, name)
	} else {
		to.World().Send(to, from, name)
	}
	return 0
}

func (e *Engine) luaFrame(L *lua.LState) int {
	w := e.rt.Current()
	if w == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(w.Frame()))
	return 1
}

// spawn(template [, id]) creates an entity in the current world.
func (e *Engine) luaSpawn(L *lua.LState) int {
	name := L.CheckString(1)
	id := L.OptString(2, name)
	w := e.rt.Current()
	if w == nil {
		L.RaiseError("spawn with no world")
		return 0
	}
	if !e.rt.Templates().Has(name) {
		L.ArgError(1, "unknown template "+name)
		return 0
	}
	ent := w.NewEntityFromTemplate(name, id, nil)
	e.Attach(ent)
	L.Push(e.entityValue(ent))
	return 1
}
