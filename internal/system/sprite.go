package system

import (
	"go.uber.org/zap"

	"github.com/a2go/engine/internal/component"
	"github.com/a2go/engine/internal/core/ecs"
)

// Canvas is the slice of the renderer the sprite system draws through.
type Canvas interface {
	DrawSprite(image string, x, y float64, layer int)
}

// LogCanvas is a Canvas that logs every draw call at debug level. It stands
// in for a real renderer in headless runs.
type LogCanvas struct {
	Log *zap.Logger
}

func (c LogCanvas) DrawSprite(image string, x, y float64, layer int) {
	c.Log.Debug("draw",
		zap.String("image", image),
		zap.Float64("x", x),
		zap.Float64("y", y),
		zap.Int("layer", layer))
}

// SpriteDrawSystem draws visible sprites at their entity's position.
// Entities arrive sorted by layer.
type SpriteDrawSystem struct {
	canvas Canvas
}

func NewSpriteDrawSystem(canvas Canvas) *SpriteDrawSystem {
	return &SpriteDrawSystem{canvas: canvas}
}

func (s *SpriteDrawSystem) Handle(e *ecs.Entity) {
	sp := ecs.Get[component.Sprite](e, component.SpriteID)
	if !sp.Visible {
		return
	}
	p := ecs.Get[component.Position](e, component.PositionID)
	s.canvas.DrawSprite(sp.Image, p.X, p.Y, sp.Layer)
}
