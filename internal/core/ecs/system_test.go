package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoombaMatchesBySuperset(t *testing.T) {
	f := newFixture(t)
	f.load(t, goombaTemplates)

	recs := map[SystemID]*recorder{}
	for id, comps := range map[SystemID][]ComponentID{
		sAll:       nil,
		sPos:       {cPos},
		sSprite:    {cSprite},
		sPosSprite: {cPos, cSprite},
		sVel:       {cVel},
	} {
		recs[id] = &recorder{}
		f.system(id, recs[id], comps...)
	}
	w := f.rt.Push([]SystemID{sAll, sPos, sSprite, sPosSprite, sVel}, nil)

	e := w.NewEntityFromTemplate("Goomba", "goomba", nil)
	assert.Equal(t, 0, w.Members(sPos), "no membership before the match phase")
	w.Tick()

	assert.Equal(t, StateActive, e.State())
	for _, id := range []SystemID{sAll, sPos, sSprite, sPosSprite} {
		assert.Equal(t, 1, w.Members(id), "system %d", id)
		assert.Equal(t, []string{"goomba"}, recs[id].seen, "system %d", id)
	}
	assert.Equal(t, 0, w.Members(sVel))
	assert.Empty(t, recs[sVel].seen)
}

func TestDeferredRemovalDuringRun(t *testing.T) {
	f := newFixture(t)
	r := &recorder{}
	f.system(sPos, r, cPos)
	w := f.rt.Push([]SystemID{sPos}, nil)

	ents := map[string]*Entity{}
	for _, id := range []string{"a", "b", "c"} {
		ents[id] = w.NewEntity(id, nil)
		Add[pos](ents[id], cPos)
	}
	var spawned *Entity
	r.hook = func(e *Entity) {
		switch e.ID() {
		case "a":
			ents["b"].Remove()
		case "b":
			e.MuteInc()
			spawned = w.NewEntity("d", nil)
			Add[pos](spawned, cPos)
		}
	}
	w.Tick()
	assert.Equal(t, []string{"a", "b", "c"}, r.seen, "removal waits for the flush")
	assert.Equal(t, StateFreed, ents["b"].State())
	assert.Equal(t, StateStaging, spawned.State())
	assert.Equal(t, 2, w.Members(sPos))

	r.reset()
	r.hook = nil
	w.Tick()
	assert.Equal(t, []string{"a", "c", "d"}, r.seen)
}

func TestSelfRemovalStillRunsLaterEntities(t *testing.T) {
	f := newFixture(t)
	r := &recorder{}
	f.system(sPos, r, cPos)
	w := f.rt.Push([]SystemID{sPos}, nil)
	for _, id := range []string{"a", "b", "c"} {
		Add[pos](w.NewEntity(id, nil), cPos)
	}
	r.hook = func(e *Entity) {
		if e.ID() == "b" {
			e.Remove()
		}
	}
	w.Tick()
	assert.Equal(t, []string{"a", "b", "c"}, r.seen)

	r.reset()
	w.Tick()
	assert.Equal(t, []string{"a", "c"}, r.seen)
}

func TestComparatorSortsStably(t *testing.T) {
	f := newFixture(t)
	var seen []string
	f.rt.RegisterSystem(sPos, SystemSpec{
		Components: []ComponentID{cPos},
		Handler:    func(e *Entity) { seen = append(seen, e.ID()) },
		Compare: func(a, b *Entity) int {
			return Get[pos](a, cPos).X - Get[pos](b, cPos).X
		},
	})
	w := f.rt.Push([]SystemID{sPos}, nil)
	for _, c := range []struct {
		id string
		x  int
	}{{"c", 3}, {"a1", 1}, {"b", 2}, {"a2", 1}} {
		Add[pos](w.NewEntity(c.id, nil), cPos).X = c.x
	}
	w.Tick()
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, seen)
}

func TestActiveOnlySystem(t *testing.T) {
	f := newFixture(t)
	marked := map[string]bool{"a": true}
	f.rt.RegisterSystem(sMarker, SystemSpec{
		Components: []ComponentID{cPos},
		Handler: func(e *Entity) {
			if marked[e.ID()] {
				e.ActiveSet()
			}
		},
	})
	r := &recorder{}
	f.rt.RegisterSystem(sActive, SystemSpec{
		Components: []ComponentID{cPos},
		Handler:    r.handle,
		ActiveOnly: true,
	})
	w := f.rt.Push([]SystemID{sMarker, sActive}, nil)
	a := w.NewEntity("a", nil)
	Add[pos](a, cPos)
	b := w.NewEntity("b", nil)
	Add[pos](b, cPos)

	w.Tick()
	assert.Equal(t, []string{"a"}, r.seen)
	assert.True(t, a.Active())
	assert.False(t, b.Active())
	assert.Equal(t, 1, w.Members(sActive), "stale entity leaves the active-only list")
	assert.Equal(t, 2, w.Members(sMarker))

	r.reset()
	marked["b"] = true
	w.Tick()
	assert.Equal(t, []string{"a", "b"}, r.seen, "ActiveSet relinks")
	assert.Equal(t, 2, w.Members(sActive))

	r.reset()
	marked = map[string]bool{}
	w.Tick()
	assert.Empty(t, r.seen)
	assert.Equal(t, 0, w.Members(sActive))
}

func TestDrawRunsAfterFlushAndRejectsChanges(t *testing.T) {
	f := newFixture(t)
	tick := &recorder{}
	draw := &recorder{}
	f.system(sPos, tick, cPos)
	f.system(sSprite, draw, cSprite)
	w := f.rt.Push([]SystemID{sPos}, []SystemID{sSprite})

	e := w.NewEntity("e", nil)
	Add[pos](e, cPos)
	Add[sprite](e, cSprite)
	tick.hook = func(e *Entity) { e.Remove() }

	w.Tick()
	w.Draw()
	assert.Equal(t, []string{"e"}, tick.seen)
	assert.Empty(t, draw.seen, "draw sees the flushed state")

	x := w.NewEntity("x", nil)
	Add[sprite](x, cSprite)
	tick.hook = nil
	w.Tick()
	draw.hook = func(e *Entity) { e.Remove() }
	assert.Panics(t, func() { w.Draw() })
}

func TestSystemRegistrationMisuse(t *testing.T) {
	f := newFixture(t)
	r := &recorder{}
	f.system(sPos, r, cPos)
	assert.Panics(t, func() { f.system(sPos, r, cPos) }, "duplicate id")
	assert.Panics(t, func() { f.system(testSystems, r) }, "out of range")
	assert.Panics(t, func() { f.system(sVel, r, ComponentID(6)) }, "unregistered component")
	assert.Panics(t, func() { f.rt.RegisterSystem(sVel, SystemSpec{}) }, "no handler")
	assert.Panics(t, func() { f.rt.Push([]SystemID{sMarker}, nil) }, "unregistered system")
}

func TestSealedAfterPush(t *testing.T) {
	f := newFixture(t)
	f.rt.Push(nil, nil)
	assert.Panics(t, func() { Register(f.rt, ComponentID(5), ComponentSpec[tag]{}) })
	assert.Panics(t, func() { f.system(sPos, &recorder{}, cPos) })
}

func TestComponentRegistrationMisuse(t *testing.T) {
	f := newFixture(t)
	assert.Panics(t, func() { Register(f.rt, cPos, ComponentSpec[pos]{}) })
	assert.Panics(t, func() { Register(f.rt, ComponentID(testComponents), ComponentSpec[pos]{}) })
	assert.Panics(t, func() {
		RegisterTemplate(f.rt, ComponentID(5), TemplateSchema[tag, struct{}]{Name: "Ghost"})
	}, "schema for unregistered component")
	Register(f.rt, ComponentID(5), ComponentSpec[tag]{})
	assert.Panics(t, func() {
		RegisterTemplate(f.rt, ComponentID(5), TemplateSchema[tag, struct{}]{Name: "Tag"})
	}, "name taken")

	id, ok := f.rt.ComponentID("Sprite")
	require.True(t, ok)
	assert.Equal(t, cSprite, id)
	assert.Equal(t, "Sprite", f.rt.ComponentName(cSprite))
	assert.Equal(t, "#5", f.rt.ComponentName(ComponentID(5)))
}
