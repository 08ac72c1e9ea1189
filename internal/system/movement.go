package system

import (
	"github.com/a2go/engine/internal/component"
	"github.com/a2go/engine/internal/core/ecs"
)

// Move applies an entity's velocity to its position.
func Move(e *ecs.Entity) {
	p := ecs.Get[component.Position](e, component.PositionID)
	v := ecs.Get[component.Velocity](e, component.VelocityID)
	p.X += v.DX
	p.Y += v.DY
}

// Expire counts down an entity's Lifetime and removes it when it runs out.
func Expire(e *ecs.Entity) {
	if e.Removed() {
		return
	}
	l := ecs.Get[component.Lifetime](e, component.LifetimeID)
	l.Frames--
	if l.Frames <= 0 {
		e.Remove()
	}
}
