package ecs

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/a2go/engine/internal/data"
)

type componentDesc struct {
	id     ComponentID
	newFn  func() any
	init   func(c any, owner *Entity)
	free   func(c any)
	schema *schemaDesc
}

type schemaDesc struct {
	name             string
	parse            func(b data.Block) (any, error)
	free             func(d any)
	initFromTemplate func(c, d, ctx any)
}

// componentRegistry is the fixed table of component descriptors. It is
// written during setup and read-only once sealed.
type componentRegistry struct {
	descs  []*componentDesc
	names  *StringIndex[*componentDesc]
	sealed bool
	log    *zap.Logger
}

func newComponentRegistry(capacity int, log *zap.Logger) *componentRegistry {
	return &componentRegistry{
		descs: make([]*componentDesc, capacity),
		names: NewStringIndex[*componentDesc](),
		log:   log,
	}
}

func (r *componentRegistry) register(d *componentDesc) {
	if r.sealed {
		r.log.Panic("component registered after setup", zap.Int("component", int(d.id)))
	}
	if d.id < 0 || int(d.id) >= len(r.descs) {
		r.log.Panic("component id out of range",
			zap.Int("component", int(d.id)), zap.Int("capacity", len(r.descs)))
	}
	if r.descs[d.id] != nil {
		r.log.Panic("component registered twice", zap.Int("component", int(d.id)))
	}
	r.descs[d.id] = d
}

func (r *componentRegistry) attachSchema(id ComponentID, s *schemaDesc) {
	if r.sealed {
		r.log.Panic("template schema registered after setup", zap.String("name", s.name))
	}
	d := r.lookup(id)
	if d.schema != nil {
		r.log.Panic("template schema registered twice",
			zap.Int("component", int(id)), zap.String("name", s.name))
	}
	if !r.names.Add(s.name, d) {
		r.log.Panic("component name taken", zap.String("name", s.name))
	}
	d.schema = s
}

// lookup returns the descriptor for id; an unregistered id is fatal.
func (r *componentRegistry) lookup(id ComponentID) *componentDesc {
	if id < 0 || int(id) >= len(r.descs) || r.descs[id] == nil {
		r.log.Panic("component not registered", zap.Int("component", int(id)))
	}
	return r.descs[id]
}

func (r *componentRegistry) byName(name string) (*componentDesc, bool) {
	return r.names.Get(name)
}

// label names a component for diagnostics.
func (r *componentRegistry) label(id ComponentID) string {
	if id >= 0 && int(id) < len(r.descs) && r.descs[id] != nil && r.descs[id].schema != nil {
		return r.descs[id].schema.name
	}
	return fmt.Sprintf("#%d", id)
}

// instantiate builds a fresh instance for owner: Init first, then
// InitFromTemplate when a schema and template data are both present.
func (r *componentRegistry) instantiate(d *componentDesc, owner *Entity, tmpl, ctx any) any {
	c := d.newFn()
	if d.init != nil {
		d.init(c, owner)
	}
	if tmpl != nil && d.schema != nil && d.schema.initFromTemplate != nil {
		d.schema.initFromTemplate(c, tmpl, ctx)
	}
	return c
}

// destroy runs the Free callback. Template data is owned by the template and
// is never touched here.
func (r *componentRegistry) destroy(d *componentDesc, c any) {
	if d.free != nil {
		d.free(c)
	}
}
