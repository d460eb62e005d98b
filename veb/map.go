// Package veb implements a map of byte keys shaped like a single node of a
// 256-ary bitmap trie: a 256-bit presence bitmap and a dense array of values
// in key order. The position of a value is the rank of its key in the
// bitmap, counted with popcount.
//
// A Map holds at most 256 entries, so it is a natural big tier for a
// HybridMap keyed by uint8: lookups stay O(1) at any size and iteration
// visits keys in ascending order.
package veb

import (
	"iter"
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/hideo55/go-popcount"

	"github.com/aglyzov/go-flat/traits"
	"github.com/aglyzov/go-flat/vector"
)

// Map is a map of uint8 keys. The zero value is an empty map ready to use.
// Pointers to values are invalidated by the next insertion or erasure.
type Map[V any] struct {
	bitmap [4]uint64 // 256 bits representing 2**8 keys
	vals   vector.Vector[V]
}

func NewMap[V any]() *Map[V] {
	return &Map[V]{}
}

// rank returns the number of keys below key and whether key is present.
func (m *Map[V]) rank(key uint8) (int, bool) {
	var (
		ofs = key >> 6
		idx = key & 0x3F // the lowest 6 bits (2**6 == 64)
		bmp = m.bitmap[ofs]
	)

	cnt := popcount.Count(bmp & (1<<idx - 1))
	for j := uint8(0); j < ofs; j++ {
		cnt += popcount.Count(m.bitmap[j])
	}

	return int(cnt), (bmp>>idx)&0x01 != 0
}

func (m *Map[V]) Len() int {
	return m.vals.Len()
}

func (m *Map[V]) Empty() bool {
	return m.vals.Empty()
}

// Reserve makes room for n values. Requests beyond 256 are capped since no
// more keys exist.
func (m *Map[V]) Reserve(n int) error {
	return m.vals.Reserve(min(n, 256))
}

func (m *Map[V]) Find(key uint8) *V {
	if pos, ok := m.rank(key); ok {
		return m.vals.At(pos)
	}
	return nil
}

func (m *Map[V]) Get(key uint8) (val V, ok bool) {
	if p := m.Find(key); p != nil {
		return *p, true
	}
	return
}

func (m *Map[V]) Contains(key uint8) bool {
	return (m.bitmap[key>>6]>>(key&0x3F))&0x01 != 0
}

// At returns a pointer to the value of key. It panics when key is missing.
func (m *Map[V]) At(key uint8) *V {
	if p := m.Find(key); p != nil {
		return p
	}
	panic(errors.AssertionFailedf("veb: key %d not found", key))
}

// Index returns a pointer to the value of key, inserting a zero value when
// the key is missing.
func (m *Map[V]) Index(key uint8) *V {
	p, _ := m.TryEmplace(key, func() V {
		var zero V
		return zero
	})
	return p
}

func (m *Map[V]) Insert(key uint8, val V) (*V, bool) {
	return m.TryEmplace(key, func() V { return val })
}

func (m *Map[V]) InsertOrAssign(key uint8, val V) (*V, bool) {
	p, inserted := m.Insert(key, val)
	if !inserted {
		traits.Destroy(p)
		*p = val
	}
	return p, inserted
}

// TryEmplace calls ctor only when key is missing.
func (m *Map[V]) TryEmplace(key uint8, ctor func() V) (*V, bool) {
	pos, ok := m.rank(key)
	if ok {
		return m.vals.At(pos), false
	}

	p := m.vals.Insert(pos, ctor())
	m.bitmap[key>>6] |= 1 << (key & 0x3F)

	return p, true
}

// Erase removes key and returns the number of removed entries.
func (m *Map[V]) Erase(key uint8) int {
	pos, ok := m.rank(key)
	if !ok {
		return 0
	}

	m.vals.Erase(pos)
	m.bitmap[key>>6] &^= 1 << (key & 0x3F)

	return 1
}

func (m *Map[V]) Clear() {
	m.vals.Clear()
	m.bitmap = [4]uint64{}
}

// Min returns the smallest key. ok is false for an empty map.
func (m *Map[V]) Min() (key uint8, ok bool) {
	for j, bmp := range m.bitmap {
		if bmp != 0 {
			return uint8(j<<6 + bits.TrailingZeros64(bmp)), true
		}
	}
	return 0, false
}

// Max returns the largest key. ok is false for an empty map.
func (m *Map[V]) Max() (key uint8, ok bool) {
	for j := len(m.bitmap) - 1; j >= 0; j-- {
		if bmp := m.bitmap[j]; bmp != 0 {
			return uint8(j<<6 + 63 - bits.LeadingZeros64(bmp)), true
		}
	}
	return 0, false
}

// ForEach calls fn for every entry in ascending key order until fn returns
// true.
func (m *Map[V]) ForEach(fn func(key uint8, val *V) bool) {
	pos := 0
	for j, bmp := range m.bitmap {
		for ; bmp != 0; bmp &= bmp - 1 {
			key := uint8(j<<6 + bits.TrailingZeros64(bmp))
			if fn(key, m.vals.At(pos)) {
				return
			}
			pos++
		}
	}
}

func (m *Map[V]) All() iter.Seq2[uint8, *V] {
	return func(yield func(uint8, *V) bool) {
		m.ForEach(func(key uint8, val *V) bool {
			return !yield(key, val)
		})
	}
}

func (m *Map[V]) Keys() []uint8 {
	keys := make([]uint8, 0, m.Len())
	m.ForEach(func(key uint8, _ *V) bool {
		keys = append(keys, key)
		return false
	})
	return keys
}

func (m *Map[V]) Clone() *Map[V] {
	c := &Map[V]{bitmap: m.bitmap}
	c.vals.CopyFrom(&m.vals)
	return c
}
