package extract

import "regexp"

type booleanPolicy struct {
	detect  *regexp.Regexp
	pattern *regexp.Regexp
}

var _ Policy[bool] = &booleanPolicy{}

// BooleanPolicy extracts a JSON boolean.
func BooleanPolicy(field string) Policy[bool] {
	key := keyPattern(field)
	return &booleanPolicy{
		detect:  regexp.MustCompile(key),
		pattern: regexp.MustCompile(key + `([a-z]+\s*[,}]?)`),
	}
}

// NewBoolean returns an Extractor for the boolean field with the given name.
func NewBoolean(field string, opts ...Option) (*Extractor[bool], error) {
	return New(field, BooleanPolicy, opts...)
}

func (p *booleanPolicy) Kind() Kind {
	return Boolean
}

func (p *booleanPolicy) Detect(buf string) bool {
	return p.detect.MatchString(buf)
}

func (p *booleanPolicy) Pattern() *regexp.Regexp {
	return p.pattern
}

func (p *booleanPolicy) Visible(content string) int {
	return leadingRun(content, isLower)
}

func (p *booleanPolicy) Closing(content string) (int, bool) {
	return closingDelimiter(content)
}

func (p *booleanPolicy) Convert(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, ErrValueConversion
}
