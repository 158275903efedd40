package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arnodel/fieldstream/fragment"
)

// extractAll runs ex over tokens and returns the content it produced.
func extractAll[V any](t *testing.T, ex *Extractor[V], tokens []string) []string {
	t.Helper()
	out, err := Collect(ex.Extract(fragment.NewSliceSource(tokens)))
	require.NoError(t, err)
	return out
}

// requireBufferParses checks that the accumulated buffer is the document that
// was fed and that it decodes to expected.
func requireBufferParses[V any](t *testing.T, ex *Extractor[V], tokens []string, expected map[string]any) {
	t.Helper()
	require.Equal(t, strings.Join(tokens, ""), ex.Buffer())
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(ex.Buffer()), &doc))
	require.Equal(t, expected, doc)
}

// errSource yields its items then fails with err.
type errSource struct {
	items []string
	err   error
}

func (s *errSource) Next() (string, error) {
	if len(s.items) == 0 {
		return "", s.err
	}
	item := s.items[0]
	s.items = s.items[1:]
	return item, nil
}

func sliceSource(tokens ...string) *fragment.SliceSource[string] {
	return fragment.NewSliceSource(tokens)
}
