// Package component defines the components of the demo game and their
// template schemas.
package component

import "github.com/a2go/engine/internal/core/ecs"

const (
	PositionID ecs.ComponentID = iota
	VelocityID
	SpriteID
	LifetimeID
	ScriptID

	// Count is the number of component ids used by the game.
	Count
)

// RegisterAll registers every game component and its template schema.
func RegisterAll(rt *ecs.Runtime) {
	registerPosition(rt)
	registerVelocity(rt)
	registerSprite(rt)
	registerLifetime(rt)
	registerScript(rt)
}
