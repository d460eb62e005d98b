package flatmap

import (
	"github.com/aglyzov/go-flat/traits"
)

// Entry is the element of the interleaved map layouts.
type Entry[K, V any] struct {
	Key K
	Val V
}

// Classify makes an Entry as trivial as its members.
func (e *Entry[K, V]) Classify() traits.Class {
	return traits.Pair(traits.Of[K](), traits.Of[V]())
}

func (e *Entry[K, V]) Destroy() {
	traits.Destroy(&e.Key)
	traits.Destroy(&e.Val)
}

func (e *Entry[K, V]) MoveFrom(src *Entry[K, V]) {
	traits.Move(&e.Key, &src.Key)
	traits.Move(&e.Val, &src.Val)
}

func (e *Entry[K, V]) CopyFrom(src *Entry[K, V]) {
	traits.Copy(&e.Key, &src.Key)
	traits.Copy(&e.Val, &src.Val)
}
