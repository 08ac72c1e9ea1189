package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ping struct{ N int }
type pong struct{ N int }

func TestBusDeliversNextFrame(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.N) })

	Emit(b, ping{N: 1})
	Emit(b, ping{N: 2})
	assert.Equal(t, 2, b.Pending())
	b.DispatchAll()
	assert.Empty(t, got, "nothing is delivered before the swap")

	b.SwapBuffers()
	assert.Equal(t, 0, b.Pending())
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{1, 2}, got, "events are delivered once")
}

func TestBusGroupsByFirstEmittedType(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(p ping) { order = append(order, "ping") })
	Subscribe(b, func(p pong) { order = append(order, "pong") })

	Emit(b, pong{})
	Emit(b, ping{})
	Emit(b, pong{})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"pong", "pong", "ping"}, order)
}

func TestBusEmitDuringDispatch(t *testing.T) {
	b := NewBus()
	var pongs int
	Subscribe(b, func(p ping) { Emit(b, pong{N: p.N}) })
	Subscribe(b, func(pong) { pongs++ })

	Emit(b, ping{N: 1})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 0, pongs)
	assert.Equal(t, 1, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 1, pongs)
}

func TestNilBusEmit(t *testing.T) {
	assert.NotPanics(t, func() { Emit[ping](nil, ping{}) })
}
