package ecs

// Each calls fn for every Active entity of w carrying all of ids. It is
// meant for ad-hoc lookups outside the system loop; systems are the bulk
// path.
func (w *World) Each(fn func(*Entity), ids ...ComponentID) {
	mask := NewBitfield(len(w.rt.components.descs))
	for _, id := range ids {
		w.rt.components.lookup(id)
		mask.Set(int(id))
	}
	for _, e := range w.lists[StateActive].snapshot() {
		if e != nil && e.state == StateActive && e.mask.TestSuperset(mask) {
			fn(e)
		}
	}
}

// Each2 iterates Active entities that carry both a and b, passing the typed
// instances.
func Each2[A, B any](w *World, a, b ComponentID, fn func(*Entity, *A, *B)) {
	w.Each(func(e *Entity) {
		fn(e, Get[A](e, a), Get[B](e, b))
	}, a, b)
}

// Each3 iterates Active entities that carry a, b and c.
func Each3[A, B, C any](w *World, a, b, c ComponentID, fn func(*Entity, *A, *B, *C)) {
	w.Each(func(e *Entity) {
		fn(e, Get[A](e, a), Get[B](e, b), Get[C](e, c))
	}, a, b, c)
}
