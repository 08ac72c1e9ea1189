package system

import (
	"github.com/a2go/engine/internal/component"
	"github.com/a2go/engine/internal/core/ecs"
)

// Viewport is the visible rectangle of the world.
type Viewport struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside v.
func (v Viewport) Contains(x, y float64) bool {
	return x >= v.X && y >= v.Y && x < v.X+v.Width && y < v.Y+v.Height
}

// ViewSystem marks entities inside the viewport active for the frame, which
// lets ActiveOnly systems such as sprite drawing skip everything offscreen.
type ViewSystem struct {
	view Viewport
}

func NewViewSystem(view Viewport) *ViewSystem {
	return &ViewSystem{view: view}
}

func (s *ViewSystem) Handle(e *ecs.Entity) {
	p := ecs.Get[component.Position](e, component.PositionID)
	if s.view.Contains(p.X, p.Y) {
		e.ActiveSet()
	}
}
