package datastructures

// Cursor is a read-only position in a Sequence.
//
// Any push, pop, erase that removes something, clear, swap, assign, move or
// release on the sequence invalidates every outstanding cursor. An invalid
// cursor reports false from Valid, HasNext, HasPrev and Value, and stepping
// from it yields another invalid cursor.
type Cursor[T comparable] struct {
	seq     *Sequence[T]
	idx     int
	version uint64
}

func (s *Sequence[T]) cursor(idx int) Cursor[T] {
	return Cursor[T]{seq: s, idx: idx, version: s.version}
}

// Begin returns a cursor on the first element, or End() if the sequence is empty.
func (s *Sequence[T]) Begin() Cursor[T] {
	s.lazyInit()
	return s.cursor(s.nodes[s.head].next)
}

// End returns a cursor on the tail sentinel.
func (s *Sequence[T]) End() Cursor[T] {
	s.lazyInit()
	return s.cursor(s.tail)
}

// RBegin returns a cursor on the last element, or REnd() if the sequence is empty.
func (s *Sequence[T]) RBegin() Cursor[T] {
	s.lazyInit()
	return s.cursor(s.nodes[s.tail].prev)
}

// REnd returns a cursor on the head sentinel.
func (s *Sequence[T]) REnd() Cursor[T] {
	s.lazyInit()
	return s.cursor(s.head)
}

// Valid reports whether the cursor still points into an unchanged sequence.
func (c Cursor[T]) Valid() bool {
	if c.seq == nil || c.idx == absent || c.version != c.seq.version {
		return false
	}
	return c.idx < len(c.seq.nodes) && c.seq.nodes[c.idx].used
}

// IsSentinel reports whether the cursor sits on the head or tail sentinel.
func (c Cursor[T]) IsSentinel() bool {
	return c.Valid() && c.seq.nodes[c.idx].sentinel
}

// Value returns the element under the cursor. It reports false on a
// sentinel or an invalid cursor.
func (c Cursor[T]) Value() (T, bool) {
	if !c.Valid() || c.seq.nodes[c.idx].sentinel {
		var zero T
		return zero, false
	}
	return c.seq.nodes[c.idx].value, true
}

// HasNext reports whether a node follows the cursor.
func (c Cursor[T]) HasNext() bool {
	return c.Valid() && c.seq.nodes[c.idx].next != absent
}

// HasPrev reports whether a node precedes the cursor.
func (c Cursor[T]) HasPrev() bool {
	return c.Valid() && c.seq.nodes[c.idx].prev != absent
}

// Next returns the cursor one step towards the tail.
func (c Cursor[T]) Next() Cursor[T] {
	if !c.HasNext() {
		return Cursor[T]{idx: absent}
	}
	return c.seq.cursor(c.seq.nodes[c.idx].next)
}

// Prev returns the cursor one step towards the head.
func (c Cursor[T]) Prev() Cursor[T] {
	if !c.HasPrev() {
		return Cursor[T]{idx: absent}
	}
	return c.seq.cursor(c.seq.nodes[c.idx].prev)
}

// Equal reports whether both cursors are valid and sit on the same node.
func (c Cursor[T]) Equal(other Cursor[T]) bool {
	return c.Valid() && other.Valid() && c.seq == other.seq && c.idx == other.idx
}
