package datastructures

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkLinks walks the chain both ways and verifies sentinel and symmetry invariants.
func checkLinks[T comparable](t *testing.T, s *Sequence[T]) {
	t.Helper()

	require.Equal(t, absent, s.nodes[s.head].prev)
	require.Equal(t, absent, s.nodes[s.tail].next)
	require.True(t, s.nodes[s.head].sentinel)
	require.True(t, s.nodes[s.tail].sentinel)

	forward := 0
	for idx := s.nodes[s.head].next; idx != s.tail; idx = s.nodes[idx].next {
		n := s.nodes[idx]
		require.False(t, n.sentinel)
		require.Equal(t, idx, s.nodes[n.prev].next)
		require.Equal(t, idx, s.nodes[n.next].prev)
		forward++
	}
	backward := 0
	for idx := s.nodes[s.tail].prev; idx != s.head; idx = s.nodes[idx].prev {
		backward++
	}
	require.Equal(t, s.size, forward)
	require.Equal(t, s.size, backward)
	require.Equal(t, len(s.nodes), s.size+2+len(s.free))
}

func TestNewSequence(t *testing.T) {
	s := NewSequence[int]()
	assert.Equal(t, 0, s.Size())
	assert.True(t, s.Empty())
	assert.Equal(t, s.tail, s.nodes[s.head].next)
	assert.Equal(t, s.head, s.nodes[s.tail].prev)
	checkLinks(t, s)
}

func TestZeroValue(t *testing.T) {
	var s Sequence[string]
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Count("a"))
	assert.True(t, s.Find("a").Equal(s.End()))

	s.PushBack("a")
	v, err := s.Front()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	checkLinks(t, &s)
}

func TestPushBackFrontBack(t *testing.T) {
	s := NewSequence[int]()
	s.PushBack(1)
	s.PushBack(2)
	s.PushBack(3)

	front, err := s.Front()
	require.NoError(t, err)
	back, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, 1, front)
	assert.Equal(t, 3, back)
	assert.Equal(t, 3, s.Size())

	assert.Equal(t, 1, s.Erase(2))
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, []int{1, 3}, s.Values())

	_, err = s.PopFront()
	require.NoError(t, err)
	front, err = s.Front()
	require.NoError(t, err)
	assert.Equal(t, 3, front)
	assert.Equal(t, 1, s.Size())
	checkLinks(t, s)
}

func TestPushFrontSingle(t *testing.T) {
	s := NewSequence[int]()
	s.PushFront(5)

	front, err := s.Front()
	require.NoError(t, err)
	back, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, 5, front)
	assert.Equal(t, 5, back)
	assert.True(t, s.Begin().Equal(s.RBegin()))
	checkLinks(t, s)
}

func TestPushGrowsByOne(t *testing.T) {
	s := FromValues(7, 8)
	for i := 0; i < 10; i++ {
		before := s.Size()
		s.PushBack(i)
		back, err := s.Back()
		require.NoError(t, err)
		assert.Equal(t, i, back)
		assert.Equal(t, before+1, s.Size())

		s.PushFront(-i)
		front, err := s.Front()
		require.NoError(t, err)
		assert.Equal(t, -i, front)
		assert.Equal(t, before+2, s.Size())
	}
	assert.Equal(t, s.Size() == 0, s.Empty())
	checkLinks(t, s)
}

func TestPopReturnsValue(t *testing.T) {
	s := FromValues("a", "b", "c")

	v, err := s.PopBack()
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	v, err = s.PopFront()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = s.PopBack()
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	assert.True(t, s.Empty())
	checkLinks(t, s)
}

func TestUnderflow(t *testing.T) {
	s := NewSequence[int]()

	_, err := s.Front()
	assert.True(t, errors.Is(err, ErrUnderflow))
	_, err = s.Back()
	assert.True(t, errors.Is(err, ErrUnderflow))
	_, err = s.PopFront()
	assert.True(t, errors.Is(err, ErrUnderflow))
	_, err = s.PopBack()
	assert.True(t, errors.Is(err, ErrUnderflow))

	checkLinks(t, s)

	s.PushBack(4)
	back, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, 4, back)
	assert.Equal(t, 1, s.Size())
	checkLinks(t, s)
}

func TestFindAndCount(t *testing.T) {
	s := FromValues(1, 2, 2, 3)

	assert.Equal(t, 2, s.Count(2))
	assert.Equal(t, 0, s.Count(9))

	c := s.Find(2)
	v, ok := c.Value()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	prev, ok := c.Prev().Value()
	require.True(t, ok)
	assert.Equal(t, 1, prev)

	assert.True(t, s.Find(9).Equal(s.End()))
}

func TestErase(t *testing.T) {
	t.Run("consecutive and boundary matches", func(t *testing.T) {
		s := FromValues(4, 4, 1, 4, 4, 2, 4)
		want := s.Count(4)

		assert.Equal(t, want, s.Erase(4))
		assert.Equal(t, 0, s.Count(4))
		assert.True(t, s.Find(4).Equal(s.End()))
		assert.Equal(t, []int{1, 2}, s.Values())
		checkLinks(t, s)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := FromValues(1, 2, 1)
		assert.Equal(t, 2, s.Erase(1))
		assert.Equal(t, 0, s.Erase(1))
		assert.Equal(t, []int{2}, s.Values())
	})

	t.Run("every element", func(t *testing.T) {
		s := FromValues(3, 3, 3)
		assert.Equal(t, 3, s.Erase(3))
		assert.True(t, s.Empty())
		checkLinks(t, s)

		s.PushFront(1)
		assert.Equal(t, []int{1}, s.Values())
	})

	t.Run("no match leaves version alone", func(t *testing.T) {
		s := FromValues(1, 2)
		c := s.Begin()
		assert.Equal(t, 0, s.Erase(5))
		assert.True(t, c.Valid())
	})
}

func TestCloneIsolation(t *testing.T) {
	s := FromValues(1, 2, 3)
	c := s.Clone()

	c.PushBack(4)
	_, err := c.PopFront()
	require.NoError(t, err)
	c.Erase(2)

	assert.Equal(t, []int{1, 2, 3}, s.Values())
	assert.Equal(t, []int{3, 4}, c.Values())
	checkLinks(t, s)
	checkLinks(t, c)
}

func TestAssign(t *testing.T) {
	dst := FromValues("x", "y")
	src := FromValues("a", "b", "c")

	dst.Assign(src)
	assert.True(t, dst.Equal(src))

	src.PushBack("d")
	assert.Equal(t, []string{"a", "b", "c"}, dst.Values())

	dst.Assign(dst)
	assert.Equal(t, []string{"a", "b", "c"}, dst.Values())
	checkLinks(t, dst)
}

func TestTake(t *testing.T) {
	src := FromValues(1, 2, 3)
	nodes := len(src.nodes)

	dst := Take(src)
	assert.Equal(t, []int{1, 2, 3}, dst.Values())
	assert.Equal(t, 3, dst.Size())
	assert.Equal(t, nodes, len(dst.nodes))

	assert.True(t, src.Empty())
	checkLinks(t, src)
	src.PushBack(9)
	assert.Equal(t, []int{9}, src.Values())
}

func TestMoveFrom(t *testing.T) {
	dst := FromValues(7, 7)
	src := FromValues(1, 2, 3)

	dst.MoveFrom(src)
	assert.Equal(t, []int{1, 2, 3}, dst.Values())
	assert.Equal(t, 0, src.Size())
	assert.True(t, src.Empty())
	checkLinks(t, src)
	checkLinks(t, dst)

	src.PushFront(5)
	assert.Equal(t, []int{5}, src.Values())
	assert.Equal(t, []int{1, 2, 3}, dst.Values())
}

func TestSwap(t *testing.T) {
	a := FromValues(1, 2)
	b := FromValues(3)

	a.Swap(b)
	assert.Equal(t, []int{3}, a.Values())
	assert.Equal(t, []int{1, 2}, b.Values())

	a.Swap(a)
	assert.Equal(t, []int{3}, a.Values())
}

func TestReleaseAndClear(t *testing.T) {
	s := FromValues(1, 2, 3)
	s.Clear()
	assert.True(t, s.Empty())
	assert.Len(t, s.nodes, 2)
	checkLinks(t, s)

	s.PushBack(1)
	s.Release()
	assert.True(t, s.Empty())
	assert.Nil(t, s.nodes)
	s.Release()

	s.PushBack(2)
	assert.Equal(t, []int{2}, s.Values())
	checkLinks(t, s)

	moved := NewSequence[int]()
	Take(moved).Release()
	moved.Release()
}

func TestArenaReusesSlots(t *testing.T) {
	s := FromValues(1, 2, 3)
	grown := len(s.nodes)

	for i := 0; i < 100; i++ {
		_, err := s.PopFront()
		require.NoError(t, err)
		s.PushBack(i)
	}
	assert.Equal(t, grown, len(s.nodes))
	assert.Equal(t, []int{97, 98, 99}, s.Values())
	checkLinks(t, s)
}

func TestIterators(t *testing.T) {
	s := FromValues(1, 2, 3)

	var forward, backward []int
	for v := range s.All() {
		forward = append(forward, v)
	}
	for v := range s.Backward() {
		backward = append(backward, v)
	}
	assert.Equal(t, []int{1, 2, 3}, forward)
	assert.Equal(t, []int{3, 2, 1}, backward)

	for v := range s.All() {
		if v == 2 {
			break
		}
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, FromValues(1, 2).Equal(FromValues(1, 2)))
	assert.False(t, FromValues(1, 2).Equal(FromValues(2, 1)))
	assert.False(t, FromValues(1).Equal(FromValues(1, 1)))
	assert.True(t, NewSequence[int]().Equal(&Sequence[int]{}))
}
