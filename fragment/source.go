// Package fragment provides pull-based sources of text fragments.
//
// A Source yields elements of an arbitrary type one at a time.  Extraction
// code maps each element to a piece of text with a mapper function, so a
// Source can carry plain strings, model response chunks or anything else
// whose concatenation reconstructs a JSON document.
package fragment

import (
	"io"
	"iter"
)

// A Source yields elements in order.  Next returns io.EOF when there are no
// more elements.  Other errors are specific to the source.
//
// Sources are single consumer and are not safe for concurrent use.
type Source[T any] interface {
	Next() (T, error)
}

// Identity is the mapper to use with sources of strings.
func Identity(s string, _ int) string {
	return s
}

// SliceSource yields the items of a slice.
type SliceSource[T any] struct {
	items []T
}

var _ Source[string] = &SliceSource[string]{}

func NewSliceSource[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

func (s *SliceSource[T]) Next() (item T, err error) {
	if len(s.items) == 0 {
		err = io.EOF
		return
	}
	item = s.items[0]
	s.items = s.items[1:]
	return
}

// Remaining returns the items that have not been pulled yet.
func (s *SliceSource[T]) Remaining() []T {
	return s.items
}

// ChannelSource yields the values received on a channel until it is closed.
type ChannelSource[T any] <-chan T

var _ Source[string] = make(ChannelSource[string])

func (c ChannelSource[T]) Next() (T, error) {
	item, ok := <-c
	if !ok {
		return item, io.EOF
	}
	return item, nil
}

// SeqSource adapts an iter.Seq to the Source interface.  Close must be called
// if the sequence is not consumed to the end.
type SeqSource[T any] struct {
	next func() (T, bool)
	stop func()
}

var _ Source[string] = &SeqSource[string]{}

func NewSeqSource[T any](seq iter.Seq[T]) *SeqSource[T] {
	next, stop := iter.Pull(seq)
	return &SeqSource[T]{next: next, stop: stop}
}

func (s *SeqSource[T]) Next() (T, error) {
	item, ok := s.next()
	if !ok {
		return item, io.EOF
	}
	return item, nil
}

func (s *SeqSource[T]) Close() error {
	s.stop()
	return nil
}

// Split cuts doc at the given byte offsets, which must be increasing.  It is
// convenient to simulate how a producer may fragment a document.
func Split(doc string, cuts ...int) []string {
	parts := make([]string, 0, len(cuts)+1)
	start := 0
	for _, cut := range cuts {
		if cut < start || cut > len(doc) {
			continue
		}
		parts = append(parts, doc[start:cut])
		start = cut
	}
	return append(parts, doc[start:])
}
