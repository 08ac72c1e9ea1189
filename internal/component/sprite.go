package component

import (
	"fmt"

	"github.com/a2go/engine/internal/core/ecs"
	"github.com/a2go/engine/internal/data"
)

// Sprite names the image drawn at an entity's position.
type Sprite struct {
	Image   string
	Layer   int
	Visible bool
}

type spriteTemplate struct {
	Image string `yaml:"image"`
	Layer int    `yaml:"layer"`
}

func registerSprite(rt *ecs.Runtime) {
	ecs.Register(rt, SpriteID, ecs.ComponentSpec[Sprite]{
		Init: func(s *Sprite, _ *ecs.Entity) { s.Visible = true },
	})
	ecs.RegisterTemplate(rt, SpriteID, ecs.TemplateSchema[Sprite, spriteTemplate]{
		Name: "Sprite",
		Parse: func(b data.Block) (*spriteTemplate, error) {
			// "Sprite: goomba.png" is shorthand for {image: goomba.png}
			if len(b.Children()) == 0 {
				if img := b.Text(); img != "" {
					return &spriteTemplate{Image: img}, nil
				}
				return nil, fmt.Errorf("sprite without image")
			}
			var t spriteTemplate
			if err := b.Decode(&t); err != nil {
				return nil, err
			}
			if t.Image == "" {
				return nil, fmt.Errorf("sprite without image")
			}
			return &t, nil
		},
		InitFromTemplate: func(s *Sprite, t *spriteTemplate, _ any) {
			s.Image, s.Layer = t.Image, t.Layer
		},
	})
}

// ByLayer orders entities for drawing, lowest layer first.
func ByLayer(a, b *ecs.Entity) int {
	return ecs.Get[Sprite](a, SpriteID).Layer - ecs.Get[Sprite](b, SpriteID).Layer
}
