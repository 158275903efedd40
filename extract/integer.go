package extract

import (
	"regexp"
	"strconv"
)

type integerPolicy struct {
	detect  *regexp.Regexp
	pattern *regexp.Regexp
}

var _ Policy[uint64] = &integerPolicy{}

// IntegerPolicy extracts an unsigned JSON integer.  Leading zeros are
// accepted and do not change the value.
func IntegerPolicy(field string) Policy[uint64] {
	key := keyPattern(field)
	return &integerPolicy{
		detect:  regexp.MustCompile(key + `[0-9]`),
		pattern: regexp.MustCompile(key + `([0-9]+\s*[,}]?)`),
	}
}

// NewInteger returns an Extractor for the integer field with the given name.
func NewInteger(field string, opts ...Option) (*Extractor[uint64], error) {
	return New(field, IntegerPolicy, opts...)
}

func (p *integerPolicy) Kind() Kind {
	return Integer
}

func (p *integerPolicy) Detect(buf string) bool {
	return p.detect.MatchString(buf)
}

func (p *integerPolicy) Pattern() *regexp.Regexp {
	return p.pattern
}

// Visible only lets the digit run through, so trailing white space is never
// surfaced as content.
func (p *integerPolicy) Visible(content string) int {
	return leadingRun(content, isDigit)
}

func (p *integerPolicy) Closing(content string) (int, bool) {
	return closingDelimiter(content)
}

func (p *integerPolicy) Convert(raw string) (uint64, error) {
	if raw == "" || leadingRun(raw, isDigit) != len(raw) {
		return 0, ErrValueConversion
	}
	return strconv.ParseUint(raw, 10, 64)
}
