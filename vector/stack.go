package vector

// Stack is a last-in first-out view of a Vector.
type Stack[T any] struct {
	v *Vector[T]
}

// NewStack returns a Stack over a heap Vector holding items, the last one
// on top.
func NewStack[T any](items ...T) *Stack[T] {
	return &Stack[T]{v: New(items...)}
}

// NewInlineStack returns a Stack over an InlineVector with buffer B.
func NewInlineStack[T any, B any](items ...T) *Stack[T] {
	return &Stack[T]{v: &NewInline[T, B](items...).Vector}
}

func (s *Stack[T]) Len() int {
	return s.v.Len()
}

func (s *Stack[T]) Empty() bool {
	return s.v.Empty()
}

// Push puts val on top and returns a pointer to it.
func (s *Stack[T]) Push(val T) *T {
	return s.v.PushBack(val)
}

// Top returns a pointer to the top element. It panics on an empty stack.
func (s *Stack[T]) Top() *T {
	return s.v.Back()
}

// Pop removes the top element and returns it moved out, not destroyed. It
// panics on an empty stack.
func (s *Stack[T]) Pop() T {
	return s.v.Take(s.v.Len() - 1)
}

// Vector returns the underlying vector, bottom first.
func (s *Stack[T]) Vector() *Vector[T] {
	return s.v
}
