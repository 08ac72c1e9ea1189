package ecs

import (
	"go.uber.org/zap"

	"github.com/a2go/engine/internal/core/event"
)

// Runtime is the process-wide ECS context: component and template
// registries, registered systems and the stack of worlds. Components and
// systems are registered once during setup; the first Push seals both
// tables.
type Runtime struct {
	components *componentRegistry
	templates  *TemplateRegistry
	systems    []*System
	stack      []*World
	sealed     bool
	bus        *event.Bus
	log        *zap.Logger
}

// NewRuntime creates a runtime with room for maxComponents component ids and
// maxSystems system ids. bus receives lifecycle notifications and may be
// nil.
func NewRuntime(maxComponents, maxSystems int, bus *event.Bus, log *zap.Logger) *Runtime {
	if maxComponents <= 0 || maxSystems <= 0 {
		log.Panic("invalid runtime limits",
			zap.Int("max_components", maxComponents), zap.Int("max_systems", maxSystems))
	}
	components := newComponentRegistry(maxComponents, log)
	return &Runtime{
		components: components,
		templates:  newTemplateRegistry(components, log),
		systems:    make([]*System, maxSystems),
		bus:        bus,
		log:        log,
	}
}

func (rt *Runtime) Templates() *TemplateRegistry { return rt.templates }
func (rt *Runtime) Logger() *zap.Logger          { return rt.log }

// ComponentID resolves a component name bound by RegisterTemplate.
func (rt *Runtime) ComponentID(name string) (ComponentID, bool) {
	d, ok := rt.components.byName(name)
	if !ok {
		return 0, false
	}
	return d.id, true
}

// ComponentName returns the config name of id, or "#id" if it has none.
func (rt *Runtime) ComponentName(id ComponentID) string { return rt.components.label(id) }

// Push creates a world running the given tick and draw systems, suspends the
// current world and makes the new one current.
func (rt *Runtime) Push(tick, draw []SystemID) *World {
	rt.sealed = true
	rt.components.sealed = true
	w := newWorld(rt, len(rt.stack), tick, draw)
	if prev := rt.Current(); prev != nil {
		prev.setActive(false)
	}
	w.setActive(true)
	rt.stack = append(rt.stack, w)
	rt.log.Debug("world pushed", zap.Int("depth", w.depth))
	event.Emit(rt.bus, event.WorldPushed{Depth: w.depth})
	return w
}

// Pop tears down the current world, freeing every entity in it regardless
// of outstanding references, and resumes the world below.
func (rt *Runtime) Pop() {
	w := rt.Current()
	if w == nil {
		rt.log.Panic("pop on empty world stack")
	}
	freed := w.teardown()
	rt.stack[len(rt.stack)-1] = nil
	rt.stack = rt.stack[:len(rt.stack)-1]
	if prev := rt.Current(); prev != nil {
		prev.setActive(true)
	}
	rt.log.Debug("world popped", zap.Int("depth", w.depth), zap.Int("freed", freed))
	event.Emit(rt.bus, event.WorldPopped{Depth: w.depth, Freed: freed})
}

// Current returns the top world, or nil if the stack is empty.
func (rt *Runtime) Current() *World {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// Depth returns the number of stacked worlds.
func (rt *Runtime) Depth() int { return len(rt.stack) }

// Tick advances the current world by one frame.
func (rt *Runtime) Tick() {
	if w := rt.Current(); w != nil {
		w.Tick()
	}
}

// Draw runs the current world's draw systems.
func (rt *Runtime) Draw() {
	if w := rt.Current(); w != nil {
		w.Draw()
	}
}

// Close pops every world and frees template data.
func (rt *Runtime) Close() {
	for rt.Current() != nil {
		rt.Pop()
	}
	rt.templates.Close()
}
