package datastructures

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// ErrUnderflow is returned when an operation needs at least one element but the sequence is empty.
var ErrUnderflow = errors.New("sequence is empty")

// absent marks the missing neighbour before the head sentinel and after the tail sentinel.
const absent = -1

type (
	// Sequence is a doubly linked list bounded by two permanent sentinel nodes.
	//
	// Nodes live in an arena owned by the sequence and refer to their neighbours
	// by index, so a node is never shared between two sequences. The zero value
	// is an empty sequence ready to use.
	//
	// A Sequence is not safe for concurrent use.
	Sequence[T comparable] struct {
		nodes   []node[T]
		free    []int
		head    int
		tail    int
		size    int
		version uint64
	}

	// node is one arena slot. Sentinels keep the zero value of T.
	node[T comparable] struct {
		value    T
		prev     int
		next     int
		sentinel bool
		used     bool
	}
)

// NewSequence creates an empty sequence with its two sentinels in place.
func NewSequence[T comparable]() *Sequence[T] {
	s := &Sequence[T]{}
	s.init()
	return s
}

// FromValues builds a sequence holding vs in order.
func FromValues[T comparable](vs ...T) *Sequence[T] {
	s := NewSequence[T]()
	for _, v := range vs {
		s.PushBack(v)
	}
	return s
}

// Take moves the contents of src into a new sequence and leaves src empty.
func Take[T comparable](src *Sequence[T]) *Sequence[T] {
	dst := NewSequence[T]()
	dst.Swap(src)
	return dst
}

// init sets up the canonical empty state: head and tail linked to each other.
func (s *Sequence[T]) init() {
	clear(s.nodes)
	s.nodes = s.nodes[:0]
	s.free = s.free[:0]
	s.head = s.alloc(node[T]{prev: absent, sentinel: true})
	s.tail = s.alloc(node[T]{next: absent, sentinel: true})
	s.nodes[s.head].next = s.tail
	s.nodes[s.tail].prev = s.head
	s.size = 0
}

func (s *Sequence[T]) lazyInit() {
	if s.nodes == nil {
		s.init()
	}
}

func (s *Sequence[T]) alloc(n node[T]) int {
	n.used = true
	if k := len(s.free); k > 0 {
		idx := s.free[k-1]
		s.free = s.free[:k-1]
		s.nodes[idx] = n
		return idx
	}
	s.nodes = append(s.nodes, n)
	return len(s.nodes) - 1
}

// release returns a detached payload slot to the free list.
func (s *Sequence[T]) release(idx int) {
	s.nodes[idx] = node[T]{prev: absent, next: absent}
	s.free = append(s.free, idx)
}

// insertAfter splices a new payload node holding v right after at.
func (s *Sequence[T]) insertAfter(at int, v T) {
	idx := s.alloc(node[T]{value: v, prev: at, next: s.nodes[at].next})
	s.nodes[s.nodes[at].next].prev = idx
	s.nodes[at].next = idx
	s.size++
	s.version++
}

// unlink detaches a payload node, relinks its neighbours and frees the slot.
func (s *Sequence[T]) unlink(idx int) T {
	n := s.nodes[idx]
	s.nodes[n.prev].next = n.next
	s.nodes[n.next].prev = n.prev
	s.release(idx)
	s.size--
	s.version++
	return n.value
}

// Size returns the number of elements, sentinels excluded.
func (s *Sequence[T]) Size() int {
	return s.size
}

// Empty reports whether the sequence holds no elements.
func (s *Sequence[T]) Empty() bool {
	return s.size == 0
}

// Front returns the first element.
func (s *Sequence[T]) Front() (T, error) {
	if s.Empty() {
		var zero T
		return zero, ErrUnderflow
	}
	return s.nodes[s.nodes[s.head].next].value, nil
}

// Back returns the last element.
func (s *Sequence[T]) Back() (T, error) {
	if s.Empty() {
		var zero T
		return zero, ErrUnderflow
	}
	return s.nodes[s.nodes[s.tail].prev].value, nil
}

// PushFront inserts v right after the head sentinel.
func (s *Sequence[T]) PushFront(v T) {
	s.lazyInit()
	s.insertAfter(s.head, v)
}

// PushBack inserts v right before the tail sentinel.
func (s *Sequence[T]) PushBack(v T) {
	s.lazyInit()
	s.insertAfter(s.nodes[s.tail].prev, v)
}

// PopFront removes the first element and returns it.
func (s *Sequence[T]) PopFront() (T, error) {
	if s.Empty() {
		var zero T
		return zero, ErrUnderflow
	}
	return s.unlink(s.nodes[s.head].next), nil
}

// PopBack removes the last element and returns it.
func (s *Sequence[T]) PopBack() (T, error) {
	if s.Empty() {
		var zero T
		return zero, ErrUnderflow
	}
	return s.unlink(s.nodes[s.tail].prev), nil
}

// Find returns a cursor on the first element equal to v, or End() if there is none.
func (s *Sequence[T]) Find(v T) Cursor[T] {
	s.lazyInit()
	for idx := s.nodes[s.head].next; idx != s.tail; idx = s.nodes[idx].next {
		if s.nodes[idx].value == v {
			return s.cursor(idx)
		}
	}
	return s.End()
}

// Count returns how many elements equal v.
func (s *Sequence[T]) Count(v T) int {
	n := 0
	for e := range s.All() {
		if e == v {
			n++
		}
	}
	return n
}

// Erase removes every element equal to v and returns how many were removed.
func (s *Sequence[T]) Erase(v T) int {
	s.lazyInit()
	removed := 0
	for idx := s.nodes[s.head].next; idx != s.tail; {
		next := s.nodes[idx].next
		if s.nodes[idx].value == v {
			s.unlink(idx)
			removed++
		}
		idx = next
	}
	return removed
}

// Clear removes every element. The sentinels stay in place.
func (s *Sequence[T]) Clear() {
	s.init()
	s.version++
}

// Release drops the whole arena, sentinels included. The sequence may be reused afterwards.
func (s *Sequence[T]) Release() {
	s.nodes = nil
	s.free = nil
	s.head, s.tail, s.size = 0, 0, 0
	s.version++
}

// Swap exchanges the contents of s and other in constant time.
// Cursors on either sequence are invalidated.
func (s *Sequence[T]) Swap(other *Sequence[T]) {
	if s == other {
		return
	}
	s.lazyInit()
	other.lazyInit()
	s.nodes, other.nodes = other.nodes, s.nodes
	s.free, other.free = other.free, s.free
	s.head, other.head = other.head, s.head
	s.tail, other.tail = other.tail, s.tail
	s.size, other.size = other.size, s.size
	s.version++
	other.version++
}

// Clone returns a deep copy of s. The two sequences share no node.
func (s *Sequence[T]) Clone() *Sequence[T] {
	c := NewSequence[T]()
	for v := range s.All() {
		c.PushBack(v)
	}
	return c
}

// Assign replaces the contents of s with a copy of src.
func (s *Sequence[T]) Assign(src *Sequence[T]) {
	if s == src {
		return
	}
	tmp := src.Clone()
	s.Swap(tmp)
	tmp.Release()
}

// MoveFrom transfers the contents of src into s. src is left empty and
// whatever s held before is released.
func (s *Sequence[T]) MoveFrom(src *Sequence[T]) {
	if s == src {
		return
	}
	s.Swap(src)
	src.Clear()
}

// Equal reports whether both sequences hold the same elements in the same order.
func (s *Sequence[T]) Equal(other *Sequence[T]) bool {
	if s.Size() != other.Size() {
		return false
	}
	a, b := s.Begin(), other.Begin()
	for ; !a.IsSentinel(); a, b = a.Next(), b.Next() {
		va, _ := a.Value()
		vb, _ := b.Value()
		if va != vb {
			return false
		}
	}
	return true
}

// Values returns the elements front to back.
func (s *Sequence[T]) Values() []T {
	out := make([]T, 0, s.size)
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// All yields the elements front to back.
func (s *Sequence[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.nodes == nil {
			return
		}
		for idx := s.nodes[s.head].next; idx != s.tail; idx = s.nodes[idx].next {
			if !yield(s.nodes[idx].value) {
				return
			}
		}
	}
}

// Backward yields the elements back to front.
func (s *Sequence[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.nodes == nil {
			return
		}
		for idx := s.nodes[s.tail].prev; idx != s.head; idx = s.nodes[idx].prev {
			if !yield(s.nodes[idx].value) {
				return
			}
		}
	}
}
