package fragment

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](t *testing.T, s Source[T]) []T {
	t.Helper()
	var items []T
	for {
		item, err := s.Next()
		if err == io.EOF {
			return items
		}
		require.NoError(t, err)
		items = append(items, item)
	}
}

func requireNext[T any](t *testing.T, s Source[T], expected T) {
	t.Helper()
	next, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, expected, next)
}

func requireEOF[T any](t *testing.T, s Source[T]) {
	t.Helper()
	_, err := s.Next()
	require.Equal(t, io.EOF, err)
}

func TestSliceSource(t *testing.T) {
	s := NewSliceSource([]int{1, 2, 3})
	requireNext[int](t, s, 1)
	assert.Equal(t, []int{2, 3}, s.Remaining())
	requireNext[int](t, s, 2)
	requireNext[int](t, s, 3)
	requireEOF[int](t, s)
	requireEOF[int](t, s)
}

func TestChannelSource(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	close(ch)
	s := ChannelSource[string](ch)
	requireNext[string](t, s, "a")
	requireNext[string](t, s, "b")
	requireEOF[string](t, s)
}

func TestSeqSource(t *testing.T) {
	s := NewSeqSource(slices.Values([]string{"x", "y"}))
	defer s.Close()
	requireNext[string](t, s, "x")
	requireNext[string](t, s, "y")
	requireEOF[string](t, s)
}

func TestSeqSourceClose(t *testing.T) {
	stopped := false
	seq := func(yield func(int) bool) {
		defer func() { stopped = true }()
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	}
	s := NewSeqSource(seq)
	requireNext[int](t, s, 0)
	requireNext[int](t, s, 1)
	require.NoError(t, s.Close())
	assert.True(t, stopped)
	requireEOF[int](t, s)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		cuts     []int
		expected []string
	}{
		{
			name:     "no cuts",
			doc:      `{"a":1}`,
			expected: []string{`{"a":1}`},
		},
		{
			name:     "two cuts",
			doc:      `{"a":1}`,
			cuts:     []int{2, 5},
			expected: []string{`{"`, `a":`, `1}`},
		},
		{
			name:     "empty parts",
			doc:      `ab`,
			cuts:     []int{0, 1, 1},
			expected: []string{``, `a`, ``, `b`},
		},
		{
			name:     "out of range cut ignored",
			doc:      `ab`,
			cuts:     []int{1, 10},
			expected: []string{`a`, `b`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.doc, tt.cuts...)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.doc, strings.Join(got, ""))
		})
	}
}

func TestReaderSourceChunks(t *testing.T) {
	s := NewReaderSource(strings.NewReader(`{"city": "Barcelona"}`), 8)
	assert.Equal(t, []string{`{"city":`, ` "Barcel`, `ona"}`}, drain[string](t, s))
}

func TestReaderSourceKeepsRunesWhole(t *testing.T) {
	doc := `{"city": "Málaga ☀ 東京"}`
	for size := 4; size < 12; size++ {
		// OneByteReader forces partial runes to show up at chunk boundaries
		s := NewReaderSource(iotest.OneByteReader(strings.NewReader(doc)), size)
		assert.Equal(t, doc, strings.Join(drain[string](t, s), ""), "size %d", size)

		s = NewReaderSource(strings.NewReader(doc), size)
		for _, chunk := range drain[string](t, s) {
			assert.True(t, utf8.ValidString(chunk), "size %d: chunk %q splits a rune", size, chunk)
		}
	}
}

func TestReaderSourceError(t *testing.T) {
	boom := errors.New("boom")
	s := NewReaderSource(iotest.ErrReader(boom), 0)
	_, err := s.Next()
	assert.ErrorIs(t, err, boom)
}
