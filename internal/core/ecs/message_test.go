package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	got []string
}

func (b *inbox) handler(name string) MessageHandler {
	return func(to, from *Entity) {
		b.got = append(b.got, to.ID()+"<-"+from.ID()+":"+name)
	}
}

func TestMessageQueuedUntilDrain(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	box := &inbox{}
	to := w.NewEntity("to", nil)
	from := w.NewEntity("from", nil)
	to.HandleMessage("hit", box.handler("hit"))

	w.Send(to, from, "hit")
	assert.Equal(t, 1, to.Refs())
	assert.Equal(t, 1, from.Refs())
	assert.Empty(t, box.got)
	assert.Equal(t, 1, w.Pending())

	w.Tick()
	assert.Equal(t, []string{"to<-from:hit"}, box.got)
	assert.Equal(t, 0, to.Refs())
	assert.Equal(t, 0, from.Refs())
	assert.Equal(t, 0, w.Pending())
}

func TestMessageToUnknownNameIsDropped(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	to := w.NewEntity("to", nil)
	w.Send(to, to, "nobody-listens")
	w.Tick()
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 0, to.Refs())
}

func TestMessageDiscardedWhenEndpointRemoved(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	box := &inbox{}
	to := w.NewEntity("to", nil)
	from := w.NewEntity("from", nil)
	to.HandleMessage("hit", box.handler("hit"))
	w.Tick()

	w.Send(to, from, "hit")
	to.Remove()
	w.Tick()
	assert.Empty(t, box.got, "never delivered to a removed entity")
	assert.Equal(t, StateFreed, to.State(), "references released before the flush")

	w.Send(from, from, "hit")
	from.Remove()
	w.Tick()
	assert.Equal(t, StateFreed, from.State())
}

func TestMessagesWaitForMutedRecipientsInOrder(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	box := &inbox{}
	d1 := w.NewEntity("d1", nil)
	d2 := w.NewEntity("d2", nil)
	src := w.NewEntity("src", nil)
	d1.HandleMessage("A", box.handler("A"))
	d2.HandleMessage("B", box.handler("B"))
	w.Tick()

	d1.MuteInc()
	d2.MuteInc()
	w.Tick()
	require.Equal(t, StateMuted, d1.State())

	w.Send(d1, src, "A")
	w.Send(d2, src, "B")
	w.Tick()
	w.Tick()
	assert.Empty(t, box.got)
	assert.Equal(t, 2, w.Pending())
	assert.Equal(t, 1, d1.Refs(), "kept messages keep their references")

	d2.MuteDec()
	d1.MuteDec()
	w.Tick()
	assert.Equal(t, []string{"d1<-src:A", "d2<-src:B"}, box.got)
	assert.Equal(t, 0, src.Refs())
}

func TestMutedRecipientRemovedWhileWaiting(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	box := &inbox{}
	to := w.NewEntity("to", nil)
	from := w.NewEntity("from", nil)
	to.HandleMessage("A", box.handler("A"))
	to.MuteInc()
	w.Tick()

	w.Send(to, from, "A")
	w.Tick()
	require.Equal(t, 1, w.Pending())

	to.Remove()
	w.Tick()
	assert.Empty(t, box.got)
	assert.Equal(t, StateFreed, to.State())
	assert.Equal(t, 0, w.Pending())
}

func TestSendImmediate(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	box := &inbox{}
	to := w.NewEntity("to", nil)
	from := w.NewEntity("from", nil)
	to.HandleMessage("now", box.handler("now"))

	w.SendImmediate(to, from, "now")
	assert.Equal(t, []string{"to<-from:now"}, box.got)
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 0, to.Refs())

	to.MuteInc()
	w.SendImmediate(to, from, "now")
	assert.Len(t, box.got, 1, "muted recipients get it queued")
	assert.Equal(t, 1, w.Pending())

	to.MuteDec()
	w.Tick()
	assert.Len(t, box.got, 2)
}

func TestMessagesSentDuringDrainWaitForNextTick(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	box := &inbox{}
	a := w.NewEntity("a", nil)
	b := w.NewEntity("b", nil)
	a.HandleMessage("ping", func(to, from *Entity) {
		box.handler("ping")(to, from)
		w.Send(from, to, "pong")
	})
	b.HandleMessage("pong", box.handler("pong"))

	w.Send(a, b, "ping")
	w.Tick()
	assert.Equal(t, []string{"a<-b:ping"}, box.got)
	assert.Equal(t, 1, w.Pending())
	w.Tick()
	assert.Equal(t, []string{"a<-b:ping", "b<-a:pong"}, box.got)
}

func TestSendMisuse(t *testing.T) {
	f := newFixture(t)
	w := f.rt.Push(nil, nil)
	e := w.NewEntity("e", nil)
	assert.Panics(t, func() { w.Send(e, nil, "x") })

	other := f.rt.Push(nil, nil)
	stranger := other.NewEntity("stranger", nil)
	assert.Panics(t, func() { w.Send(e, stranger, "x") })
}
