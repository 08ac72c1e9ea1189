package ecs

// entityList is an ordered list with O(1) removal. Dropping an entry leaves
// a hole; holes are squeezed out by compact, which reports every entry's new
// slot so the owner can keep its handle current.
type entityList struct {
	items []*Entity
	holes int
}

func (l *entityList) add(e *Entity) int {
	l.items = append(l.items, e)
	return len(l.items) - 1
}

func (l *entityList) drop(slot int) {
	l.items[slot] = nil
	l.holes++
}

func (l *entityList) len() int { return len(l.items) - l.holes }

func (l *entityList) compact(reslot func(e *Entity, slot int)) {
	if l.holes == 0 {
		return
	}
	j := 0
	for _, e := range l.items {
		if e == nil {
			continue
		}
		l.items[j] = e
		reslot(e, j)
		j++
	}
	clear(l.items[j:])
	l.items = l.items[:j]
	l.holes = 0
}

// snapshot returns the current entries, holes included. Entries appended
// afterwards are not part of the snapshot.
func (l *entityList) snapshot() []*Entity {
	return l.items[:len(l.items):len(l.items)]
}

func (l *entityList) reset() {
	clear(l.items)
	l.items = l.items[:0]
	l.holes = 0
}
