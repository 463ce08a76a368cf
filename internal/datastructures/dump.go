package datastructures

import (
	"fmt"
	"io"
	"strings"
)

// WriteTo renders the sequence for debugging, walking forward from the head
// sentinel and then backward from the tail sentinel:
//
//	head->S->1->2->3->S->0
//	tail->S->3->2->1->S->0
//
// S marks a sentinel and 0 the absence of a node past it.
func (s *Sequence[T]) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	b.WriteString("head")
	for c := s.REnd(); c.Valid(); c = c.Next() {
		writeNode(&b, c)
	}
	b.WriteString("->0\ntail")
	for c := s.End(); c.Valid(); c = c.Prev() {
		writeNode(&b, c)
	}
	b.WriteString("->0")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeNode[T comparable](b *strings.Builder, c Cursor[T]) {
	if v, ok := c.Value(); ok {
		fmt.Fprintf(b, "->%v", v)
		return
	}
	b.WriteString("->S")
}

// String returns the same text as WriteTo.
func (s *Sequence[T]) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}
