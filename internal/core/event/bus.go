package event

import "reflect"

// Bus is a double-buffered event bus. Events emitted in frame N are
// delivered in frame N+1, when the dispatch service calls SwapBuffers and
// DispatchAll. Single goroutine only.
type Bus struct {
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]func(any)
	order    []reflect.Type // every type ever emitted, first-emitted first
	known    map[reflect.Type]bool
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]func(any)),
		known:    make(map[reflect.Type]bool),
	}
}

// Emit queues an event into the back buffer. Emitting on a nil bus is a
// no-op.
func Emit[T any](b *Bus, event T) {
	if b == nil {
		return
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	if !b.known[t] {
		b.known[t] = true
		b.order = append(b.order, t)
	}
	b.back[t] = append(b.back[t], event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// DispatchAll delivers all front-buffer events to their handlers, grouped
// by event type in first-emitted order.
func (b *Bus) DispatchAll() {
	for _, t := range b.order {
		events := b.front[t]
		for _, ev := range events {
			for _, h := range b.handlers[t] {
				h(ev)
			}
		}
		b.front[t] = events[:0]
	}
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int {
	n := 0
	for _, evs := range b.back {
		n += len(evs)
	}
	return n
}
