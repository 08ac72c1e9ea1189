package ecs

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/a2go/engine/internal/data"
)

// ComponentID is the small integer that names a component type. It doubles
// as the component's bit in entity and system masks.
type ComponentID int

// ComponentSpec describes the runtime half of a component: how an instance
// is prepared when attached and torn down when its entity is freed.
type ComponentSpec[T any] struct {
	Init func(c *T, owner *Entity)
	Free func(c *T)
}

// TemplateSchema is the config-driven half of a component. Parse turns a
// component block into template data of type D, which is shared read-only by
// every entity spawned from the template. Free releases that data when the
// template registry closes.
type TemplateSchema[T, D any] struct {
	Name             string
	Parse            func(b data.Block) (*D, error)
	Free             func(d *D)
	InitFromTemplate func(c *T, d *D, ctx any)
}

// Register declares component id with instances of type T. It must run
// before the first world is pushed.
func Register[T any](rt *Runtime, id ComponentID, spec ComponentSpec[T]) {
	d := &componentDesc{
		id:    id,
		newFn: func() any { return new(T) },
	}
	if spec.Init != nil {
		d.init = func(c any, e *Entity) { spec.Init(c.(*T), e) }
	}
	if spec.Free != nil {
		d.free = func(c any) { spec.Free(c.(*T)) }
	}
	rt.components.register(d)
}

// RegisterTemplate attaches a template schema to the already registered
// component id and binds schema.Name for lookup from configs.
func RegisterTemplate[T, D any](rt *Runtime, id ComponentID, schema TemplateSchema[T, D]) {
	s := &schemaDesc{name: schema.Name}
	if schema.Parse != nil {
		s.parse = func(b data.Block) (any, error) {
			d, err := schema.Parse(b)
			if err != nil || d == nil {
				return nil, err
			}
			return d, nil
		}
	}
	if schema.Free != nil {
		s.free = func(d any) { schema.Free(d.(*D)) }
	}
	if schema.InitFromTemplate != nil {
		s.initFromTemplate = func(c, d, ctx any) { schema.InitFromTemplate(c.(*T), d.(*D), ctx) }
	}
	rt.components.attachSchema(id, s)
}

// Add attaches component id to e and returns the new instance. See
// Entity.AddComponent for when this is legal.
func Add[T any](e *Entity, id ComponentID) *T {
	return cast[T](e, id, e.AddComponent(id))
}

// Get returns e's instance of component id. A missing component is fatal.
func Get[T any](e *Entity, id ComponentID) *T {
	c := e.Component(id)
	if c == nil {
		e.world.rt.log.Panic("entity lacks component",
			zap.String("entity", e.id),
			zap.String("component", e.world.rt.components.label(id)))
	}
	return cast[T](e, id, c)
}

// Find is Get without the fatal check: it returns nil if e lacks id.
func Find[T any](e *Entity, id ComponentID) *T {
	c := e.Component(id)
	if c == nil {
		return nil
	}
	return cast[T](e, id, c)
}

func cast[T any](e *Entity, id ComponentID, c any) *T {
	p, ok := c.(*T)
	if !ok {
		e.world.rt.log.Panic("component type mismatch",
			zap.String("component", e.world.rt.components.label(id)),
			zap.String("have", fmt.Sprintf("%T", c)),
			zap.String("want", fmt.Sprintf("%T", (*T)(nil))))
	}
	return p
}
