package containers

// Stack is a LIFO stack backed by a slice.
type Stack[T any] struct {
	items []T
}

func NewStack[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes the top element. ok is false on an empty stack.
func (s *Stack[T]) Pop() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	last := len(s.items) - 1
	v = s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return v, true
}

// Top returns the top element without removing it.
func (s *Stack[T]) Top() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	return s.items[len(s.items)-1], true
}

// TopPtr returns a pointer to the top element, or nil on an empty stack.
// The pointer is invalidated by the next Push.
func (s *Stack[T]) TopPtr() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

// Below returns the element n positions under the top; Below(0) is Top.
func (s *Stack[T]) Below(n int) (v T, ok bool) {
	i := len(s.items) - 1 - n
	if n < 0 || i < 0 {
		return v, false
	}
	return s.items[i], true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Empty() bool {
	return len(s.items) == 0
}

func (s *Stack[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}
