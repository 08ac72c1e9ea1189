package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/a2go/engine/internal/core/event"
	"github.com/a2go/engine/internal/data"
)

const (
	cPos ComponentID = iota
	cVel
	cSprite
	cTag
	testComponents = 8
	testSystems    = 16
)

type pos struct{ X, Y int }
type vel struct{ DX, DY int }
type sprite struct {
	Image string
	Layer int
}
type tag struct{}

type vecTmpl struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type spriteTmpl struct {
	Image string
}

// fixture is a runtime with four test components registered. It counts
// component and template-data frees.
type fixture struct {
	rt          *Runtime
	bus         *event.Bus
	logs        *observer.ObservedLogs
	spriteFrees int
	dataFrees   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{bus: event.NewBus(), logs: logs}
	f.rt = NewRuntime(testComponents, testSystems, f.bus, zap.New(core))

	parseVec := func(b data.Block) (*vecTmpl, error) {
		var v vecTmpl
		if err := b.Decode(&v); err != nil {
			return nil, err
		}
		return &v, nil
	}
	freeVec := func(*vecTmpl) { f.dataFrees++ }

	Register(f.rt, cPos, ComponentSpec[pos]{})
	RegisterTemplate(f.rt, cPos, TemplateSchema[pos, vecTmpl]{
		Name:             "Position",
		Parse:            parseVec,
		Free:             freeVec,
		InitFromTemplate: func(p *pos, v *vecTmpl, _ any) { p.X, p.Y = v.X, v.Y },
	})
	Register(f.rt, cVel, ComponentSpec[vel]{})
	RegisterTemplate(f.rt, cVel, TemplateSchema[vel, vecTmpl]{
		Name:             "Velocity",
		Parse:            parseVec,
		Free:             freeVec,
		InitFromTemplate: func(v *vel, t *vecTmpl, _ any) { v.DX, v.DY = t.X, t.Y },
	})
	Register(f.rt, cSprite, ComponentSpec[sprite]{
		Init: func(s *sprite, _ *Entity) { s.Layer = -1 },
		Free: func(*sprite) { f.spriteFrees++ },
	})
	RegisterTemplate(f.rt, cSprite, TemplateSchema[sprite, spriteTmpl]{
		Name: "Sprite",
		Parse: func(b data.Block) (*spriteTmpl, error) {
			return &spriteTmpl{Image: b.Text()}, nil
		},
		Free: func(*spriteTmpl) { f.dataFrees++ },
		InitFromTemplate: func(s *sprite, t *spriteTmpl, ctx any) {
			s.Image = t.Image
			if layer, ok := ctx.(int); ok {
				s.Layer = layer
			}
		},
	})
	Register(f.rt, cTag, ComponentSpec[tag]{})
	RegisterTemplate(f.rt, cTag, TemplateSchema[tag, struct{}]{Name: "Tag"})
	return f
}

func (f *fixture) load(t *testing.T, src string) {
	t.Helper()
	root, err := data.Parse([]byte(src))
	require.NoError(t, err)
	require.NoError(t, f.rt.Templates().Load(root))
}

// recorder is a system handler that remembers which entities it saw.
type recorder struct {
	seen []string
	hook func(e *Entity)
}

func (r *recorder) handle(e *Entity) {
	r.seen = append(r.seen, e.ID())
	if r.hook != nil {
		r.hook(e)
	}
}

func (r *recorder) reset() { r.seen = nil }

func (f *fixture) system(id SystemID, r *recorder, components ...ComponentID) {
	f.rt.RegisterSystem(id, SystemSpec{Components: components, Handler: r.handle})
}

// requireMaskInvariant checks that mask bit i is set iff component i exists.
func requireMaskInvariant(t *testing.T, e *Entity) {
	t.Helper()
	for i := range e.components {
		require.Equal(t, e.components[i] != nil, e.mask.Test(i), "component %d of %s", i, e)
	}
}
