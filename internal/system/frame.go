package system

import (
	"time"

	"github.com/a2go/engine/internal/core/ecs"
	"github.com/a2go/engine/internal/core/event"
	coresys "github.com/a2go/engine/internal/core/system"
)

// EventDispatchSystem delivers the runtime notifications emitted during the
// previous frame. Phase 0 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// WorldTickSystem advances the current world: match, tick systems, message
// drain, removal and mute flushes. Phase 1 (Update).
type WorldTickSystem struct {
	rt *ecs.Runtime
}

func NewWorldTickSystem(rt *ecs.Runtime) *WorldTickSystem {
	return &WorldTickSystem{rt: rt}
}

func (s *WorldTickSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *WorldTickSystem) Update(_ time.Duration) {
	s.rt.Tick()
}

// WorldDrawSystem runs the current world's draw systems once every tick
// flush has settled. Phase 2 (Draw).
type WorldDrawSystem struct {
	rt *ecs.Runtime
}

func NewWorldDrawSystem(rt *ecs.Runtime) *WorldDrawSystem {
	return &WorldDrawSystem{rt: rt}
}

func (s *WorldDrawSystem) Phase() coresys.Phase { return coresys.PhaseDraw }

func (s *WorldDrawSystem) Update(_ time.Duration) {
	s.rt.Draw()
}
