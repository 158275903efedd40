package fragment

import (
	"io"
	"unicode/utf8"
)

const (
	defaultChunkSize         = 64
	maxConsecutiveEmptyReads = 100
)

// ReaderSource reads text from an io.Reader and yields it in chunks of at
// most the configured size.  A chunk never ends in the middle of a UTF-8
// encoded rune unless the input itself is truncated.
type ReaderSource struct {
	reader io.Reader
	buf    []byte

	// Bytes of an incomplete rune carried over to the next chunk
	pending []byte

	err error
}

var _ Source[string] = &ReaderSource{}

// NewReaderSource returns a ReaderSource reading from r.  A non-positive size
// selects a default chunk size.
func NewReaderSource(r io.Reader, size int) *ReaderSource {
	if size <= 0 {
		size = defaultChunkSize
	}
	if size < utf8.UTFMax {
		size = utf8.UTFMax
	}
	return &ReaderSource{reader: r, buf: make([]byte, size)}
}

func (s *ReaderSource) Next() (string, error) {
	for {
		if s.err != nil {
			if len(s.pending) > 0 {
				chunk := string(s.pending)
				s.pending = nil
				return chunk, nil
			}
			return "", s.err
		}
		n := copy(s.buf, s.pending)
		s.pending = s.pending[:0]
		m, err := s.read(s.buf[n:])
		n += m
		if err != nil {
			s.err = err
		}
		if n == 0 {
			continue
		}
		cut := completeRunes(s.buf[:n])
		if cut == 0 && s.err == nil && n < len(s.buf) {
			// Only part of a rune so far; wait for the rest
			s.pending = append(s.pending, s.buf[:n]...)
			continue
		}
		if cut == 0 {
			cut = n
		}
		s.pending = append(s.pending, s.buf[cut:n]...)
		return string(s.buf[:cut]), nil
	}
}

func (s *ReaderSource) read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := s.reader.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
	return 0, io.ErrNoProgress
}

// completeRunes returns the length of the longest prefix of b that does not
// end with an incomplete UTF-8 sequence.
func completeRunes(b []byte) int {
	n := len(b)
	// Look back at most UTFMax-1 bytes for the start of the last rune
	for i := n - 1; i >= 0 && i >= n-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return n
			}
			return i
		}
	}
	return n
}
