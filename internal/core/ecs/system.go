package ecs

import (
	"sort"

	"go.uber.org/zap"
)

// SystemID names a registered system.
type SystemID int

// Handler is called once per frame for every entity a system holds.
type Handler func(e *Entity)

// Compare orders a system's entities before each run. It returns a negative
// number when a sorts before b, zero when equal, positive otherwise.
type Compare func(a, b *Entity) int

// SystemSpec describes a system at registration.
type SystemSpec struct {
	// Components an entity must carry to be matched. Extra components on
	// the entity never exclude it.
	Components []ComponentID
	Handler    Handler
	Compare    Compare
	// ActiveOnly systems skip entities that were not ActiveSet this frame.
	ActiveOnly bool
}

// System is a registered behavior unit selected by component mask.
type System struct {
	id         SystemID
	mask       *Bitfield
	handler    Handler
	compare    Compare
	activeOnly bool
}

func (s *System) ID() SystemID     { return s.id }
func (s *System) Mask() *Bitfield  { return s.mask }
func (s *System) ActiveOnly() bool { return s.activeOnly }

// RegisterSystem declares system id. Every component in spec must already be
// registered.
func (rt *Runtime) RegisterSystem(id SystemID, spec SystemSpec) *System {
	if rt.sealed {
		rt.log.Panic("system registered after setup", zap.Int("system", int(id)))
	}
	if id < 0 || int(id) >= len(rt.systems) {
		rt.log.Panic("system id out of range",
			zap.Int("system", int(id)), zap.Int("capacity", len(rt.systems)))
	}
	if rt.systems[id] != nil {
		rt.log.Panic("system registered twice", zap.Int("system", int(id)))
	}
	if spec.Handler == nil {
		rt.log.Panic("system without handler", zap.Int("system", int(id)))
	}
	s := &System{
		id:         id,
		mask:       NewBitfield(len(rt.components.descs)),
		handler:    spec.Handler,
		compare:    spec.Compare,
		activeOnly: spec.ActiveOnly,
	}
	for _, c := range spec.Components {
		rt.components.lookup(c)
		s.mask.Set(int(c))
	}
	rt.systems[id] = s
	return s
}

func (rt *Runtime) system(id SystemID) *System {
	if id < 0 || int(id) >= len(rt.systems) || rt.systems[id] == nil {
		rt.log.Panic("system not registered", zap.Int("system", int(id)))
	}
	return rt.systems[id]
}

// systemRun is one world's membership list for a system.
type systemRun struct {
	sys      *System
	entities entityList
	active   bool
}

func (r *systemRun) link(e *Entity) {
	e.slots[r.sys.id] = r.entities.add(e)
}

func (r *systemRun) unlink(e *Entity) {
	slot := e.slots[r.sys.id]
	if slot < 0 {
		return
	}
	r.entities.drop(slot)
	e.slots[r.sys.id] = -1
}

func (r *systemRun) linked(e *Entity) bool { return e.slots[r.sys.id] >= 0 }

func (r *systemRun) compact() {
	id := r.sys.id
	r.entities.compact(func(e *Entity, slot int) { e.slots[id] = slot })
}

// run invokes the handler for every entity linked when the run started.
// Entities linked while the run is in progress wait for the next frame.
func (r *systemRun) run(frame uint64) {
	if !r.active {
		return
	}
	r.compact()
	if r.sys.compare != nil {
		items := r.entities.items
		sort.SliceStable(items, func(i, j int) bool { return r.sys.compare(items[i], items[j]) < 0 })
		for i, e := range items {
			e.slots[r.sys.id] = i
		}
	}
	for i, e := range r.entities.snapshot() {
		if e == nil || e.slots[r.sys.id] != i {
			// unlinked since the run started
			continue
		}
		if r.sys.activeOnly && e.activeStamp != frame {
			e.dropFromActiveOnly()
			continue
		}
		r.sys.handler(e)
	}
}

func (r *systemRun) len() int { return r.entities.len() }
