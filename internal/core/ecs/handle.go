package ecs

// EntityID encodes a 32-bit arena index in the lower bits and a 32-bit
// generation in the upper bits. Generations start at 1 so the zero EntityID
// never names a live entity; freeing a slot bumps its generation, which
// invalidates every handle still pointing at it.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// arena owns the entity slots of one world, with generational indices and a
// free list.
type arena struct {
	generations []uint32
	slots       []*Entity
	freeList    []uint32
	live        int
}

func newArena() *arena {
	return &arena{
		generations: make([]uint32, 0, 256),
		slots:       make([]*Entity, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

func (a *arena) alloc(e *Entity) EntityID {
	a.live++
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx] = e
		return NewEntityID(idx, a.generations[idx])
	}
	idx := uint32(len(a.slots))
	a.generations = append(a.generations, 1)
	a.slots = append(a.slots, e)
	return NewEntityID(idx, 1)
}

// get returns the entity named by id, or nil if the handle is stale.
func (a *arena) get(id EntityID) *Entity {
	idx := id.Index()
	if id.IsZero() || int(idx) >= len(a.slots) {
		return nil
	}
	if a.generations[idx] != id.Generation() {
		return nil
	}
	return a.slots[idx]
}

func (a *arena) release(id EntityID) {
	idx := id.Index()
	if int(idx) >= len(a.slots) || a.generations[idx] != id.Generation() {
		return // stale
	}
	a.generations[idx]++
	if a.generations[idx] == 0 {
		a.generations[idx] = 1
	}
	a.slots[idx] = nil
	a.freeList = append(a.freeList, idx)
	a.live--
}
