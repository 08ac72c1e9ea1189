package ecs

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// State is an entity's lifecycle state.
type State uint8

const (
	StateStaging        State = iota // created, components may still be added
	StateActive                      // matched to systems
	StateRemovalPending              // Remove called, waiting for the removal flush
	StateLimbo                       // detached but still referenced
	StateFreed                       // finalized; terminal
	StateMutePending                 // MuteInc called, waiting for the mute flush
	StateMuted                       // detached from systems until MuteDec
	numStates
)

func (s State) String() string {
	switch s {
	case StateStaging:
		return "Staging"
	case StateActive:
		return "Active"
	case StateRemovalPending:
		return "RemovalPending"
	case StateLimbo:
		return "Limbo"
	case StateFreed:
		return "Freed"
	case StateMutePending:
		return "MutePending"
	case StateMuted:
		return "Muted"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// MessageHandler receives a message addressed to the entity it was
// registered on.
type MessageHandler func(to, from *Entity)

// Entity is a handle plus a sparse table of component instances. It is owned
// by the World that created it.
type Entity struct {
	world    *World
	id       string
	handle   EntityID
	template *Template
	parent   EntityID
	context  any

	components []any
	mask       *Bitfield

	state    State
	listSlot int
	refs     int
	mutes    int

	activeStamp   uint64
	activeRemoved bool

	// matched is every system run the entity joined at its Staging→Active
	// transition; slots holds its position in each, -1 when unlinked.
	matched []*systemRun
	slots   []int
	linked  bool

	handlers map[string]MessageHandler
}

func (e *Entity) ID() string          { return e.id }
func (e *Entity) Handle() EntityID    { return e.handle }
func (e *Entity) World() *World       { return e.world }
func (e *Entity) Template() *Template { return e.template }
func (e *Entity) Context() any        { return e.context }
func (e *Entity) State() State        { return e.state }
func (e *Entity) Refs() int           { return e.refs }
func (e *Entity) Mask() *Bitfield     { return e.mask }

// Removed reports whether Remove was called on e.
func (e *Entity) Removed() bool {
	return e.state == StateRemovalPending || e.state == StateLimbo || e.state == StateFreed
}

// Muted reports whether e's mute count is above zero.
func (e *Entity) Muted() bool { return e.mutes > 0 }

// Active reports whether e was ActiveSet during the current frame.
func (e *Entity) Active() bool { return e.activeStamp == e.world.frame }

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d/%d(%s)", e.id, e.handle.Index(), e.handle.Generation(), e.state)
}

func (e *Entity) log() *zap.Logger { return e.world.rt.log }

// Has reports whether e carries component id.
func (e *Entity) Has(id ComponentID) bool {
	e.world.rt.components.lookup(id)
	return e.components[id] != nil
}

// Component returns e's instance of id, or nil.
func (e *Entity) Component(id ComponentID) any {
	e.world.rt.components.lookup(id)
	return e.components[id]
}

// AddComponent attaches a fresh instance of component id and returns it.
// It is only legal while e is Staging; system membership is computed once
// from the mask when e leaves Staging.
func (e *Entity) AddComponent(id ComponentID) any {
	d := e.world.rt.components.lookup(id)
	if e.state != StateStaging {
		e.log().Panic("component added outside staging",
			zap.Stringer("entity", e),
			zap.String("component", e.world.rt.components.label(id)))
	}
	if e.components[id] != nil {
		e.log().Panic("component added twice",
			zap.Stringer("entity", e),
			zap.String("component", e.world.rt.components.label(id)))
	}
	return e.attach(d, nil, nil)
}

func (e *Entity) attach(d *componentDesc, tmpl, ctx any) any {
	c := e.world.rt.components.instantiate(d, e, tmpl, ctx)
	e.components[d.id] = c
	e.mask.Set(int(d.id))
	return c
}

// Remove queues e for removal at the end of the current tick. Removing an
// entity twice is fatal.
func (e *Entity) Remove() {
	w := e.world
	if w.tearingDown {
		return
	}
	if e.Removed() {
		e.log().Panic("entity removed twice", zap.Stringer("entity", e))
	}
	w.checkNotDrawing("Remove")
	w.move(e, StateRemovalPending)
}

// RefInc takes a strong reference that keeps e from being freed.
func (e *Entity) RefInc() {
	if e.state == StateFreed {
		e.log().Warn("RefInc on freed entity", zap.Stringer("entity", e))
		return
	}
	if e.refs == math.MaxInt32 {
		e.log().Panic("entity reference count overflow", zap.Stringer("entity", e))
	}
	e.refs++
}

// RefDec releases a reference taken with RefInc. When the last reference of
// a Limbo entity goes away, the entity is queued for the next removal flush.
func (e *Entity) RefDec() {
	w := e.world
	if w.tearingDown {
		return
	}
	if e.state == StateFreed {
		e.log().Warn("RefDec on freed entity", zap.Stringer("entity", e))
		return
	}
	if e.refs == 0 {
		e.log().Panic("entity reference count underflow", zap.Stringer("entity", e))
	}
	e.refs--
	if e.refs == 0 && e.state == StateLimbo {
		w.move(e, StateRemovalPending)
	}
}

// MuteInc suspends e. The first call detaches e from its systems at the end
// of the tick; later calls only count.
func (e *Entity) MuteInc() {
	if e.Removed() {
		e.log().Warn("MuteInc on removed entity", zap.Stringer("entity", e))
		return
	}
	e.world.checkNotDrawing("MuteInc")
	e.mutes++
	if e.mutes == 1 {
		e.world.move(e, StateMutePending)
	}
}

// MuteDec undoes one MuteInc. When the count returns to zero, an entity that
// had already joined systems rejoins the same ones without being retested;
// one that never left Staging returns to Staging.
func (e *Entity) MuteDec() {
	if e.Removed() {
		e.log().Warn("MuteDec on removed entity", zap.Stringer("entity", e))
		return
	}
	if e.mutes == 0 {
		e.log().Panic("entity mute count underflow", zap.Stringer("entity", e))
	}
	e.world.checkNotDrawing("MuteDec")
	e.mutes--
	if e.mutes > 0 {
		return
	}
	switch e.state {
	case StateMutePending:
		// never detached
	case StateMuted:
		if e.linked {
			for _, r := range e.matched {
				r.link(e)
			}
			e.activeRemoved = false
		}
	}
	if e.linked {
		e.world.move(e, StateActive)
	} else {
		e.world.move(e, StateStaging)
	}
}

// ActiveSet marks e active for the current frame. ActiveOnly systems skip
// entities that were not marked; an entity they dropped rejoins them here.
func (e *Entity) ActiveSet() {
	if e.Muted() || e.Removed() {
		return
	}
	e.activeStamp = e.world.frame
	if e.activeRemoved {
		e.activeRemoved = false
		for _, r := range e.matched {
			if r.sys.activeOnly && !r.linked(e) {
				r.link(e)
			}
		}
	}
}

// dropFromActiveOnly unlinks e from every ActiveOnly system it holds.
func (e *Entity) dropFromActiveOnly() {
	for _, r := range e.matched {
		if r.sys.activeOnly {
			r.unlink(e)
		}
	}
	e.activeRemoved = true
}

// detach unlinks e from every system. Slots are kept so MuteDec can relink.
func (e *Entity) detach() {
	for _, r := range e.matched {
		r.unlink(e)
	}
}

// SetParent makes p e's parent, holding a strong reference on it until e is
// freed or reparented. A nil p clears the parent.
func (e *Entity) SetParent(p *Entity) {
	if p != nil {
		if p.world != e.world {
			e.log().Panic("parent from another world",
				zap.Stringer("entity", e), zap.Stringer("parent", p))
		}
		p.RefInc()
	}
	if old := e.world.arena.get(e.parent); old != nil {
		old.RefDec()
	}
	e.parent = 0
	if p != nil {
		e.parent = p.handle
	}
}

// Parent returns e's parent, or nil if it has none.
func (e *Entity) Parent() *Entity { return e.world.arena.get(e.parent) }

// HandleMessage routes messages called name that are sent to e to fn.
func (e *Entity) HandleMessage(name string, fn MessageHandler) {
	if e.handlers == nil {
		e.handlers = make(map[string]MessageHandler, 4)
	}
	e.handlers[name] = fn
}

// finalize destroys e's components and releases its parent. The caller has
// already detached it from every system.
func (e *Entity) finalize() {
	reg := e.world.rt.components
	for i, c := range e.components {
		if c == nil {
			continue
		}
		reg.destroy(reg.descs[i], c)
		e.components[i] = nil
		e.mask.Clear(i)
	}
	if p := e.world.arena.get(e.parent); p != nil {
		p.RefDec()
	}
	e.parent = 0
	e.world.arena.release(e.handle)
	e.state = StateFreed
	e.matched = nil
	e.handlers = nil
}
