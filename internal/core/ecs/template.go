package ecs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/a2go/engine/internal/data"
)

// Template is a reusable archetype: a component mask plus the parsed config
// data of each component, shared by every entity spawned from it.
type Template struct {
	name   string
	parent *Template
	mask   *Bitfield
	data   []*templateData
	spawns int
}

// templateData is one component's parsed data. Inherited entries are shared
// between parent and child templates and freed with the last holder.
type templateData struct {
	value  any
	refs   int
	schema *schemaDesc
}

func (t *Template) Name() string      { return t.name }
func (t *Template) Mask() *Bitfield   { return t.mask }
func (t *Template) Parent() *Template { return t.parent }

// Data returns the template data parsed for component id, or nil.
func (t *Template) Data(id ComponentID) any {
	if int(id) < 0 || int(id) >= len(t.data) || t.data[id] == nil {
		return nil
	}
	return t.data[id].value
}

// TemplateRegistry holds every archetype loaded from config blocks.
type TemplateRegistry struct {
	components *componentRegistry
	index      *StringIndex[*Template]
	order      []*Template
	log        *zap.Logger
}

func newTemplateRegistry(components *componentRegistry, log *zap.Logger) *TemplateRegistry {
	return &TemplateRegistry{
		components: components,
		index:      NewStringIndex[*Template](),
		log:        log,
	}
}

// LoadFile reads a config file and loads every top-level block as a
// template.
func (r *TemplateRegistry) LoadFile(path string) error {
	root, err := data.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	if err := r.Load(root); err != nil {
		return fmt.Errorf("load templates %s: %w", path, err)
	}
	return nil
}

// Load declares one template per child of root. A block named "A.B"
// inherits every component of the previously declared template "A". Each
// child of a template block names a component; unknown names and blocks
// that fail to parse are logged and skipped.
func (r *TemplateRegistry) Load(root data.Block) error {
	for _, b := range root.Children() {
		name := b.Key()
		if _, ok := r.index.Get(name); ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTemplate, name)
		}
		t := &Template{
			name: name,
			mask: NewBitfield(len(r.components.descs)),
			data: make([]*templateData, len(r.components.descs)),
		}
		if i := strings.LastIndexByte(name, '.'); i > 0 {
			parent, ok := r.index.Get(name[:i])
			if !ok {
				return fmt.Errorf("%w: %s (for %s)", ErrUnknownTemplate, name[:i], name)
			}
			t.inherit(parent)
		}
		for _, cb := range b.Children() {
			r.parseComponent(t, cb)
		}
		r.index.Add(name, t)
		r.order = append(r.order, t)
		r.log.Debug("loaded template",
			zap.String("template", name),
			zap.Int("components", t.mask.Count()))
	}
	return nil
}

func (t *Template) inherit(parent *Template) {
	t.parent = parent
	t.mask.Copy(parent.mask)
	for i, d := range parent.data {
		if d != nil {
			d.refs++
			t.data[i] = d
		}
	}
}

func (r *TemplateRegistry) parseComponent(t *Template, b data.Block) {
	d, ok := r.components.byName(b.Key())
	if !ok {
		r.log.Error("unknown component in template",
			zap.String("template", t.name),
			zap.String("component", b.Key()))
		return
	}
	var value any
	if d.schema.parse != nil {
		v, err := d.schema.parse(b)
		if err != nil {
			r.log.Error("bad component block",
				zap.String("template", t.name),
				zap.String("component", b.Key()),
				zap.Error(err))
			return
		}
		value = v
	}
	if old := t.data[d.id]; old != nil {
		old.release()
	}
	t.data[d.id] = &templateData{value: value, refs: 1, schema: d.schema}
	t.mask.Set(int(d.id))
}

func (d *templateData) release() {
	d.refs--
	if d.refs == 0 && d.value != nil && d.schema.free != nil {
		d.schema.free(d.value)
	}
}

// Get returns the named template and counts one spawn against it. A missing
// template is fatal.
func (r *TemplateRegistry) Get(name string) *Template {
	t, ok := r.index.Get(name)
	if !ok {
		r.log.Panic("unknown template", zap.String("template", name))
	}
	t.spawns++
	return t
}

// Has reports whether name was declared.
func (r *TemplateRegistry) Has(name string) bool {
	_, ok := r.index.Get(name)
	return ok
}

// SpawnCount returns how many entities were created from name.
func (r *TemplateRegistry) SpawnCount(name string) int {
	if t, ok := r.index.Get(name); ok {
		return t.spawns
	}
	return 0
}

func (r *TemplateRegistry) Names() []string { return r.index.Names() }
func (r *TemplateRegistry) Len() int        { return r.index.Len() }

// Close frees every template's data. Shared entries are freed once, after
// their last holder lets go. Children are released before parents.
func (r *TemplateRegistry) Close() {
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.order[i]
		for id, d := range t.data {
			if d != nil {
				d.release()
				t.data[id] = nil
			}
		}
		if t.spawns > 0 {
			r.log.Debug("template stats", zap.String("template", t.name), zap.Int("spawns", t.spawns))
		}
	}
	r.order = nil
	r.index = NewStringIndex[*Template]()
}
