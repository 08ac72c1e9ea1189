package component

import (
	"github.com/a2go/engine/internal/core/ecs"
	"github.com/a2go/engine/internal/data"
)

// Position is a point in world space.
type Position struct {
	X, Y float64
}

// Velocity is a per-frame displacement.
type Velocity struct {
	DX, DY float64
}

type vecTemplate struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func parseVec(b data.Block) (*vecTemplate, error) {
	var t vecTemplate
	if err := b.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func registerPosition(rt *ecs.Runtime) {
	ecs.Register(rt, PositionID, ecs.ComponentSpec[Position]{})
	ecs.RegisterTemplate(rt, PositionID, ecs.TemplateSchema[Position, vecTemplate]{
		Name:  "Position",
		Parse: parseVec,
		InitFromTemplate: func(p *Position, t *vecTemplate, _ any) {
			p.X, p.Y = t.X, t.Y
		},
	})
}

func registerVelocity(rt *ecs.Runtime) {
	ecs.Register(rt, VelocityID, ecs.ComponentSpec[Velocity]{})
	ecs.RegisterTemplate(rt, VelocityID, ecs.TemplateSchema[Velocity, vecTemplate]{
		Name:  "Velocity",
		Parse: parseVec,
		InitFromTemplate: func(v *Velocity, t *vecTemplate, _ any) {
			v.DX, v.DY = t.X, t.Y
		},
	})
}
