package ecs

import (
	"go.uber.org/zap"

	"github.com/a2go/engine/internal/core/event"
)

// World is one isolated set of entities, systems and messages. Worlds are
// stacked by the Runtime to model nested game states; only the top one is
// ticked.
type World struct {
	rt    *Runtime
	depth int
	arena *arena
	lists [numStates]entityList

	runs  []*systemRun // by SystemID, nil if unused here
	tick  []*systemRun
	draw  []*systemRun
	match []*systemRun // tick then draw, without duplicates

	queue []*message

	frame       uint64
	drawing     bool
	tearingDown bool
}

func newWorld(rt *Runtime, depth int, tick, draw []SystemID) *World {
	w := &World{
		rt:    rt,
		depth: depth,
		arena: newArena(),
		runs:  make([]*systemRun, len(rt.systems)),
	}
	w.tick = w.bind(tick)
	w.draw = w.bind(draw)
	return w
}

func (w *World) bind(ids []SystemID) []*systemRun {
	out := make([]*systemRun, 0, len(ids))
	for _, id := range ids {
		s := w.rt.system(id)
		r := w.runs[id]
		if r == nil {
			r = &systemRun{sys: s}
			w.runs[id] = r
			w.match = append(w.match, r)
		}
		out = append(out, r)
	}
	return out
}

func (w *World) Depth() int        { return w.depth }
func (w *World) Frame() uint64     { return w.frame }
func (w *World) Runtime() *Runtime { return w.rt }

// Count returns how many entities are in state s.
func (w *World) Count(s State) int { return w.lists[s].len() }

// Len returns the number of entities that have not been freed.
func (w *World) Len() int { return w.arena.live }

// Lookup resolves a handle, returning nil if it is stale.
func (w *World) Lookup(id EntityID) *Entity { return w.arena.get(id) }

// Members returns how many entities system id currently holds in w.
func (w *World) Members(id SystemID) int {
	if r := w.runs[id]; r != nil {
		return r.len()
	}
	return 0
}

// NewEntity creates a blank Staging entity. id is a debug name and need not
// be unique; ctx is handed to template initializers and kept on the entity.
func (w *World) NewEntity(id string, ctx any) *Entity {
	if w.tearingDown {
		w.rt.log.Panic("entity created during teardown", zap.String("entity", id))
	}
	w.checkNotDrawing("NewEntity")
	n := len(w.rt.components.descs)
	e := &Entity{
		world:      w,
		id:         id,
		context:    ctx,
		components: make([]any, n),
		mask:       NewBitfield(n),
		slots:      make([]int, len(w.rt.systems)),
		state:      StateStaging,
	}
	for i := range e.slots {
		e.slots[i] = -1
	}
	e.handle = w.arena.alloc(e)
	e.listSlot = w.lists[StateStaging].add(e)
	return e
}

// NewEntityFromTemplate creates a Staging entity carrying every component of
// the named template, each initialized from the template's shared data.
func (w *World) NewEntityFromTemplate(template, id string, ctx any) *Entity {
	t := w.rt.templates.Get(template)
	e := w.NewEntity(id, ctx)
	e.template = t
	reg := w.rt.components
	t.mask.Each(func(i int) {
		var tmpl any
		if d := t.data[i]; d != nil {
			tmpl = d.value
		}
		e.attach(reg.descs[i], tmpl, ctx)
	})
	return e
}

// move transfers e between lifecycle lists.
func (w *World) move(e *Entity, to State) {
	w.lists[e.state].drop(e.listSlot)
	e.state = to
	e.listSlot = w.lists[to].add(e)
}

func (w *World) checkNotDrawing(op string) {
	if w.drawing {
		w.rt.log.Panic("structural change during draw", zap.String("op", op))
	}
}

// Tick runs one frame: match staged entities, run tick systems in order,
// drain messages, then flush removals and mutes.
func (w *World) Tick() {
	w.frame++
	w.matchStaged()
	for _, r := range w.tick {
		r.run(w.frame)
	}
	w.drainMessages()
	w.flushRemoved()
	w.flushMuted()
	w.compactLists()
}

// Draw runs the draw systems in order. No entity changes state here.
func (w *World) Draw() {
	w.drawing = true
	defer func() { w.drawing = false }()
	for _, r := range w.draw {
		r.run(w.frame)
	}
}

// matchStaged links every Staging entity to each system whose mask it
// satisfies and makes it Active. It completes before any system runs.
func (w *World) matchStaged() {
	for _, e := range w.lists[StateStaging].snapshot() {
		if e == nil {
			continue
		}
		for _, r := range w.match {
			if e.mask.TestSuperset(r.sys.mask) {
				e.matched = append(e.matched, r)
				r.link(e)
			}
		}
		e.linked = true
		w.move(e, StateActive)
	}
}

// flushRemoved detaches every RemovalPending entity. Unreferenced ones are
// freed; referenced ones wait in Limbo until their last RefDec.
func (w *World) flushRemoved() {
	for _, e := range w.lists[StateRemovalPending].snapshot() {
		if e == nil {
			continue
		}
		e.detach()
		if e.refs == 0 {
			w.move(e, StateFreed)
		} else {
			w.move(e, StateLimbo)
		}
	}
	w.finalizeFreed()
}

func (w *World) finalizeFreed() {
	freed := &w.lists[StateFreed]
	for _, e := range freed.snapshot() {
		if e == nil {
			continue
		}
		handle, id := e.handle, e.id
		e.finalize()
		event.Emit(w.rt.bus, event.EntityFreed{Depth: w.depth, Handle: uint64(handle), ID: id})
	}
	freed.reset()
}

// flushMuted detaches every MutePending entity.
func (w *World) flushMuted() {
	for _, e := range w.lists[StateMutePending].snapshot() {
		if e == nil {
			continue
		}
		e.detach()
		w.move(e, StateMuted)
	}
}

// compactLists squeezes the holes left by state moves. Lists are never
// compacted while one of them is being walked.
func (w *World) compactLists() {
	for s := range w.lists {
		w.lists[s].compact(func(x *Entity, slot int) { x.listSlot = slot })
	}
}

func (w *World) setActive(active bool) {
	for _, r := range w.runs {
		if r != nil {
			r.active = active
		}
	}
}

// teardown frees every entity regardless of references and drops every
// queued message.
func (w *World) teardown() int {
	w.tearingDown = true
	for _, m := range w.queue {
		w.release(m)
	}
	w.queue = nil
	freed := 0
	for s := range w.lists {
		for _, e := range w.lists[s].snapshot() {
			if e == nil {
				continue
			}
			e.detach()
			e.finalize()
			freed++
		}
		w.lists[s].reset()
	}
	return freed
}
