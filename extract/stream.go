package extract

import (
	"errors"
	"io"
	"iter"

	"github.com/arnodel/fieldstream/fragment"
)

// A Stream pulls fragments from a source through an Extractor and hands out
// the field content they reveal.  It is lazy: nothing is pulled from the
// source until Next is called, and at most one piece of content is produced
// per call.
type Stream[T, V any] struct {
	ex     *Extractor[V]
	src    fragment.Source[T]
	mapper func(T, int) string
	index  int

	// Set when the last content handed out completed the field; the
	// callbacks are called on the following pull.
	pendingNotify bool

	// Conversion error held back while a blocking stream drains its source
	convErr error

	err error
}

// NewStream returns a Stream extracting the field of e from the elements of
// src.  The mapper turns each element (with its index) into a text fragment.
//
// An Extractor must only be used by one Stream.
func NewStream[T, V any](e *Extractor[V], src fragment.Source[T], mapper func(T, int) string) *Stream[T, V] {
	return &Stream[T, V]{ex: e, src: src, mapper: mapper}
}

// Extract is NewStream for sources of strings.
func (e *Extractor[V]) Extract(src fragment.Source[string]) *Stream[string, V] {
	return NewStream(e, src, fragment.Identity)
}

// Extractor returns the extractor the stream feeds.
func (s *Stream[T, V]) Extractor() *Extractor[V] {
	return s.ex
}

// Next returns the next piece of field content.  It returns io.EOF when the
// source is exhausted or, for a non blocking extractor, when the field has
// completed.  Errors from the source and conversion errors are returned as
// is, and are returned again by subsequent calls.
//
// In blocking mode, Next keeps pulling the rest of the source after the field
// has completed, without producing any more content.  This also holds when
// the value could not be converted: the conversion error is returned once the
// source is exhausted.
func (s *Stream[T, V]) Next() (string, error) {
	if s.flush() && !s.ex.spec.Blocking {
		s.err = io.EOF
	}
	for s.err == nil {
		item, err := s.src.Next()
		if err != nil {
			s.err = s.sourceError(err)
			break
		}
		step, completed, err := s.ex.consume(s.mapper(item, s.index))
		s.index++
		if err != nil {
			if s.ex.spec.Blocking {
				s.convErr = err
				continue
			}
			s.err = err
			break
		}
		if completed {
			if step.Emit {
				s.pendingNotify = true
				return step.Content, nil
			}
			s.ex.notify()
			if !s.ex.spec.Blocking {
				s.err = io.EOF
			}
			continue
		}
		if step.Emit {
			return step.Content, nil
		}
	}
	return "", s.err
}

// sourceError returns the error to report when the source fails with err.
func (s *Stream[T, V]) sourceError(err error) error {
	switch {
	case s.convErr == nil:
		return err
	case err == io.EOF:
		return s.convErr
	default:
		return errors.Join(s.convErr, err)
	}
}

// flush calls the completion callbacks if they are due.
func (s *Stream[T, V]) flush() bool {
	if !s.pendingNotify {
		return false
	}
	s.pendingNotify = false
	s.ex.notify()
	return true
}

// All returns an iterator over the stream content.  The iteration ends at
// io.EOF; any other error is yielded once as the last element.  Stopping the
// iteration early still delivers a due completion notification.
func (s *Stream[T, V]) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			content, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(content, err) {
				s.flush()
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// Collect drains the stream and returns all the content it produced.
func Collect[T, V any](s *Stream[T, V]) ([]string, error) {
	var out []string
	for {
		content, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, content)
	}
}
