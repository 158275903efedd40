package extract

import "regexp"

type stringPolicy struct {
	detect  *regexp.Regexp
	pattern *regexp.Regexp
}

var _ Policy[string] = &stringPolicy{}

// StringPolicy extracts a JSON string.  The value is the raw text between the
// quotes: escape sequences are kept as they appear in the document.
func StringPolicy(field string) Policy[string] {
	key := keyPattern(field)
	return &stringPolicy{
		detect:  regexp.MustCompile(key + `"`),
		pattern: regexp.MustCompile(`(?s)` + key + `"(.*)`),
	}
}

// NewString returns an Extractor for the string field with the given name.
func NewString(field string, opts ...Option) (*Extractor[string], error) {
	return New(field, StringPolicy, opts...)
}

func (p *stringPolicy) Kind() Kind {
	return String
}

func (p *stringPolicy) Detect(buf string) bool {
	return p.detect.MatchString(buf)
}

func (p *stringPolicy) Pattern() *regexp.Regexp {
	return p.pattern
}

func (p *stringPolicy) Visible(content string) int {
	return len(content)
}

// Closing finds the first quote which is not escaped, i.e. which is preceded
// by an even number of backslashes.
func (p *stringPolicy) Closing(content string) (int, bool) {
	backslashes := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\\':
			backslashes++
			continue
		case '"':
			if backslashes%2 == 0 {
				return i, true
			}
		}
		backslashes = 0
	}
	return 0, false
}

func (p *stringPolicy) Convert(raw string) (string, error) {
	return raw, nil
}
