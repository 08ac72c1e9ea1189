package component

import (
	"github.com/a2go/engine/internal/core/ecs"
	"github.com/a2go/engine/internal/data"
)

// Script binds an entity to Lua functions: Tick runs every frame through the
// script system, Messages maps message names to handler functions.
type Script struct {
	Tick     string
	Messages map[string]string
}

type scriptTemplate struct {
	Tick     string            `yaml:"tick"`
	Messages map[string]string `yaml:"on"`
}

func registerScript(rt *ecs.Runtime) {
	ecs.Register(rt, ScriptID, ecs.ComponentSpec[Script]{
		Free: func(s *Script) { s.Messages = nil },
	})
	ecs.RegisterTemplate(rt, ScriptID, ecs.TemplateSchema[Script, scriptTemplate]{
		Name: "Script",
		Parse: func(b data.Block) (*scriptTemplate, error) {
			var t scriptTemplate
			if err := b.Decode(&t); err != nil {
				return nil, err
			}
			return &t, nil
		},
		InitFromTemplate: func(s *Script, t *scriptTemplate, _ any) {
			s.Tick = t.Tick
			if len(t.Messages) > 0 {
				// instances must not alias the shared template map
				s.Messages = make(map[string]string, len(t.Messages))
				for k, v := range t.Messages {
					s.Messages[k] = v
				}
			}
		},
	})
}
