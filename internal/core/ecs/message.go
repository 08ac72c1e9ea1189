package ecs

import "go.uber.org/zap"

// message is a queued delivery. Both endpoints hold a reference until the
// message is delivered or discarded.
type message struct {
	to, from *Entity
	name     string
}

// Send queues message name from from to to. It is delivered during the next
// message drain unless either endpoint is removed first; a muted recipient
// keeps it queued until unmuted.
func (w *World) Send(to, from *Entity, name string) {
	w.checkEndpoints(to, from)
	if to.state == StateFreed || from.state == StateFreed {
		w.rt.log.Warn("message to or from freed entity dropped",
			zap.String("message", name), zap.Stringer("to", to), zap.Stringer("from", from))
		return
	}
	to.RefInc()
	from.RefInc()
	w.queue = append(w.queue, &message{to: to, from: from, name: name})
}

// SendImmediate delivers the message synchronously when both endpoints are
// live and to is not muted, and falls back to Send otherwise.
func (w *World) SendImmediate(to, from *Entity, name string) {
	w.checkEndpoints(to, from)
	if to.Removed() || from.Removed() || to.Muted() {
		w.Send(to, from, name)
		return
	}
	w.deliver(to, from, name)
}

func (w *World) checkEndpoints(to, from *Entity) {
	if to == nil || from == nil {
		w.rt.log.Panic("message endpoint is nil")
	}
	if to.world != w || from.world != w {
		w.rt.log.Panic("message endpoint from another world",
			zap.Stringer("to", to), zap.Stringer("from", from))
	}
}

func (w *World) deliver(to, from *Entity, name string) {
	h, ok := to.handlers[name]
	if !ok {
		w.rt.log.Debug("no handler for message",
			zap.String("message", name), zap.Stringer("to", to))
		return
	}
	h(to, from)
}

// drainMessages walks the queue once in FIFO order. Messages sent while
// draining wait for the next tick.
func (w *World) drainMessages() {
	pending := w.queue
	w.queue = nil
	var kept []*message
	for _, m := range pending {
		switch {
		case m.to.Removed() || m.from.Removed():
			w.release(m)
		case m.to.Muted():
			kept = append(kept, m)
		default:
			w.deliver(m.to, m.from, m.name)
			w.release(m)
		}
	}
	if len(kept) > 0 {
		w.queue = append(kept, w.queue...)
	}
}

func (w *World) release(m *message) {
	if w.tearingDown {
		m.to.refs--
		m.from.refs--
		return
	}
	m.to.RefDec()
	m.from.RefDec()
}

// Pending returns the number of queued messages.
func (w *World) Pending() int { return len(w.queue) }
