package system

import (
	"go.uber.org/zap"

	"github.com/a2go/engine/internal/component"
	"github.com/a2go/engine/internal/core/ecs"
	"github.com/a2go/engine/internal/scripting"
)

// ECS system ids of the demo game.
const (
	ViewID ecs.SystemID = iota
	MovementID
	LifetimeID
	ScriptID
	SpriteDrawID

	// Count is the number of system ids used by the game.
	Count
)

// TickSystems and DrawSystems list the gameplay world's systems in run
// order.
var (
	TickSystems = []ecs.SystemID{ViewID, MovementID, LifetimeID, ScriptID}
	DrawSystems = []ecs.SystemID{SpriteDrawID}
)

// RegisterGameplay registers every ECS system of the demo game. lua may be
// nil, in which case Script components are inert.
func RegisterGameplay(rt *ecs.Runtime, view Viewport, canvas Canvas, lua *scripting.Engine, log *zap.Logger) {
	rt.RegisterSystem(ViewID, ecs.SystemSpec{
		Components: []ecs.ComponentID{component.PositionID},
		Handler:    NewViewSystem(view).Handle,
	})
	rt.RegisterSystem(MovementID, ecs.SystemSpec{
		Components: []ecs.ComponentID{component.PositionID, component.VelocityID},
		Handler:    Move,
	})
	rt.RegisterSystem(LifetimeID, ecs.SystemSpec{
		Components: []ecs.ComponentID{component.LifetimeID},
		Handler:    Expire,
	})
	script := func(*ecs.Entity) {}
	if lua != nil {
		script = lua.Tick
	}
	rt.RegisterSystem(ScriptID, ecs.SystemSpec{
		Components: []ecs.ComponentID{component.ScriptID},
		Handler:    script,
	})
	rt.RegisterSystem(SpriteDrawID, ecs.SystemSpec{
		Components: []ecs.ComponentID{component.PositionID, component.SpriteID},
		Handler:    NewSpriteDrawSystem(canvas).Handle,
		Compare:    component.ByLayer,
		ActiveOnly: true,
	})
	log.Debug("gameplay systems registered", zap.Int("systems", int(Count)))
}
