package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the JSON scalar kind a policy extracts.
type Kind uint8

const (
	Boolean Kind = iota
	Integer
	String
)

var kindNames = [...]string{"boolean", "integer", "string"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("extract: unknown kind %q", name)
}

// A Policy holds the type specific rules of an extraction.  The Extractor
// only ever calls them with text taken from its buffer.
type Policy[V any] interface {
	Kind() Kind

	// Detect reports whether buf contains the start of the field.
	Detect(buf string) bool

	// Pattern returns the capture pattern.  It has exactly one group,
	// matching the field's value and whatever follows it.
	Pattern() *regexp.Regexp

	// Visible returns the length of the prefix of content which is known to
	// be part of the value while the field is still open.
	Visible(content string) int

	// Closing returns the end of the value in content if the closing
	// delimiter has been received.
	Closing(content string) (end int, ok bool)

	// Convert turns the raw value into its typed counterpart.
	Convert(raw string) (V, error)
}

// A PolicyFunc builds the policy for a field name.
type PolicyFunc[V any] func(field string) Policy[V]

// keyPattern matches a quoted key and its colon.
func keyPattern(field string) string {
	return `"` + regexp.QuoteMeta(field) + `"\s*:\s*`
}

// closingDelimiter returns the value end for literals (booleans, numbers),
// which are closed by the first ',' or '}'.  Trailing white space is not
// part of the value.
func closingDelimiter(content string) (int, bool) {
	i := strings.IndexAny(content, ",}")
	if i < 0 {
		return 0, false
	}
	return len(strings.TrimRight(content[:i], jsonSpace)), true
}

const jsonSpace = " \t\r\n"

func leadingRun(content string, accept func(byte) bool) int {
	i := 0
	for i < len(content) && accept(content[i]) {
		i++
	}
	return i
}

func isLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
