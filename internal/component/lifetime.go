package component

import (
	"github.com/a2go/engine/internal/core/ecs"
	"github.com/a2go/engine/internal/data"
)

// Lifetime removes its entity after Frames ticks.
type Lifetime struct {
	Frames int
}

type lifetimeTemplate struct {
	Frames int `yaml:"frames"`
}

func registerLifetime(rt *ecs.Runtime) {
	ecs.Register(rt, LifetimeID, ecs.ComponentSpec[Lifetime]{})
	ecs.RegisterTemplate(rt, LifetimeID, ecs.TemplateSchema[Lifetime, lifetimeTemplate]{
		Name: "Lifetime",
		Parse: func(b data.Block) (*lifetimeTemplate, error) {
			var t lifetimeTemplate
			if err := b.Decode(&t); err != nil {
				return nil, err
			}
			return &t, nil
		},
		InitFromTemplate: func(l *Lifetime, t *lifetimeTemplate, _ any) {
			l.Frames = t.Frames
		},
	})
}
