package ecs

import (
	"fmt"

	"github.com/willf/bitset"
)

// Bitfield is a fixed-capacity bit set. Entities and systems use it to
// describe which components they carry or require.
type Bitfield struct {
	bits uint
	set  *bitset.BitSet
}

// NewBitfield returns a cleared Bitfield holding bits bits. Zero capacity is
// a programming error and panics.
func NewBitfield(bits int) *Bitfield {
	if bits <= 0 {
		panic(fmt.Sprintf("ecs: invalid bitfield size %d", bits))
	}
	return &Bitfield{bits: uint(bits), set: bitset.New(uint(bits))}
}

func (b *Bitfield) check(i int) uint {
	if i < 0 || uint(i) >= b.bits {
		panic(fmt.Sprintf("ecs: bit %d out of range [0,%d)", i, b.bits))
	}
	return uint(i)
}

func (b *Bitfield) Set(i int)       { b.set.Set(b.check(i)) }
func (b *Bitfield) Clear(i int)     { b.set.Clear(b.check(i)) }
func (b *Bitfield) Test(i int) bool { return b.set.Test(b.check(i)) }
func (b *Bitfield) Reset()          { b.set.ClearAll() }

// Len returns the capacity in bits.
func (b *Bitfield) Len() int { return int(b.bits) }

// Count returns the number of set bits.
func (b *Bitfield) Count() int { return int(b.set.Count()) }

// TestSuperset reports whether every bit set in mask is also set in b.
func (b *Bitfield) TestSuperset(mask *Bitfield) bool {
	return b.set.IsSuperSet(mask.set)
}

// Copy overwrites b with the bits of src. Both must have the same capacity.
func (b *Bitfield) Copy(src *Bitfield) {
	if src.bits != b.bits {
		panic(fmt.Sprintf("ecs: bitfield size mismatch %d != %d", src.bits, b.bits))
	}
	src.set.Copy(b.set)
}

// Each calls fn with the index of every set bit in ascending order.
func (b *Bitfield) Each(fn func(i int)) {
	for i, ok := b.set.NextSet(0); ok; i, ok = b.set.NextSet(i + 1) {
		fn(int(i))
	}
}

func (b *Bitfield) String() string { return b.set.String() }
