// Package extract pulls the value of one scalar field out of a JSON object
// which arrives as a sequence of text fragments.
//
// The document is never parsed.  Each fragment is appended to a buffer and
// the buffer is matched against the policy of the field's kind to find where
// the value starts and whether it is closed yet.  Content of the value is
// handed out as soon as it is known, and the typed value is delivered to
// subscribers once the closing delimiter is seen.
//
//	ex, _ := extract.NewString("city")
//	ex.OnCompleted(func(city string) { fmt.Println("\ncity:", city) })
//	for content, err := range ex.Extract(fragment.NewSliceSource(tokens)).All() {
//	    ...
//	}
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// FieldSpec describes the field an Extractor looks for.  It does not change
// after the Extractor is created.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Blocking bool
	Pattern  *regexp.Regexp
}

// Step is the outcome of consuming one fragment.  Content is only meaningful
// when Emit is true; it may then be empty, which only happens for an empty
// string value.
type Step struct {
	Content string
	Emit    bool
	Done    bool
}

// An Extractor holds the state of one extraction run.  It is not reusable
// and not safe for concurrent use.
type Extractor[V any] struct {
	spec   FieldSpec
	policy Policy[V]
	logger zerolog.Logger

	buf strings.Builder

	// Buffer offset up to which value content has been handed out
	emitted int

	detected  bool
	completed bool
	hasValue  bool
	value     V

	observers []*observer[V]
}

type observer[V any] struct {
	fn func(V)
}

// New returns an Extractor for the named field using the policy built by
// newPolicy.  It fails with ErrInvalidFieldName if the name is blank.
func New[V any](field string, newPolicy PolicyFunc[V], opts ...Option) (*Extractor[V], error) {
	if strings.TrimSpace(field) == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFieldName, field)
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	policy := newPolicy(field)
	pattern := policy.Pattern()
	if pattern.NumSubexp() != 1 {
		return nil, errors.New("extract: capture pattern must have exactly one group")
	}
	return &Extractor[V]{
		spec: FieldSpec{
			Name:     field,
			Kind:     policy.Kind(),
			Blocking: s.blocking,
			Pattern:  pattern,
		},
		policy: policy,
		logger: s.logger.With().Str("field", field).Stringer("kind", policy.Kind()).Logger(),
	}, nil
}

// Field returns the description of the extracted field.
func (e *Extractor[V]) Field() FieldSpec {
	return e.spec
}

// Buffer returns all the text consumed so far.
func (e *Extractor[V]) Buffer() string {
	return e.buf.String()
}

// Value returns the typed value of the field.  The second return value is
// false until the field has been completed successfully.
func (e *Extractor[V]) Value() (V, bool) {
	return e.value, e.hasValue
}

// Completed reports whether the closing delimiter of the field was found.
func (e *Extractor[V]) Completed() bool {
	return e.completed
}

// OnCompleted registers fn to be called with the typed value when the field
// completes.  Callbacks registered after completion are never called.  The
// returned function unregisters fn.
func (e *Extractor[V]) OnCompleted(fn func(V)) (unsubscribe func()) {
	o := &observer[V]{fn: fn}
	e.observers = append(e.observers, o)
	return func() {
		e.observers = slices.DeleteFunc(e.observers, func(x *observer[V]) bool {
			return x == o
		})
	}
}

// Consume appends a fragment to the buffer and returns the part of the value
// it reveals.  If the fragment completes the field, the completion callbacks
// are called before Consume returns.
func (e *Extractor[V]) Consume(fragment string) (Step, error) {
	step, completed, err := e.consume(fragment)
	if completed {
		e.notify()
	}
	return step, err
}

// consume does the work of Consume, without calling the callbacks.  The
// returned flag is true when this fragment completed the field successfully.
func (e *Extractor[V]) consume(fragment string) (Step, bool, error) {
	e.buf.WriteString(fragment)
	if e.completed {
		return Step{Done: true}, false, nil
	}
	buf := e.buf.String()
	if !e.policy.Detect(buf) {
		return Step{}, false, nil
	}
	loc := e.spec.Pattern.FindStringSubmatchIndex(buf)
	if len(loc) != 4 || loc[2] < 0 {
		// The key is there but not enough of the value yet
		return Step{}, false, nil
	}
	start, content := loc[2], buf[loc[2]:loc[3]]
	if !e.detected {
		e.detected = true
		e.logger.Debug().Int("offset", start).Msg("field detected")
	}
	from := max(start, e.emitted)

	end, closed := e.policy.Closing(content)
	if !closed {
		to := start + e.policy.Visible(content)
		if to <= from {
			return Step{}, false, nil
		}
		e.emitted = to
		return Step{Content: buf[from:to], Emit: true}, false, nil
	}

	e.completed = true
	step := Step{Done: true}
	raw := content[:end]
	if to := start + end; to > from {
		step.Content = buf[from:to]
		step.Emit = true
		e.emitted = to
	} else if raw == "" {
		step.Emit = true
	}
	value, err := e.policy.Convert(raw)
	if err != nil {
		e.logger.Debug().Err(err).Str("raw", raw).Msg("field conversion failed")
		return step, false, &ValueConversionError{
			Field: e.spec.Name,
			Kind:  e.spec.Kind,
			Raw:   raw,
			Err:   err,
		}
	}
	e.value = value
	e.hasValue = true
	e.logger.Debug().Interface("value", value).Msg("field completed")
	return step, true, nil
}

func (e *Extractor[V]) notify() {
	for _, o := range slices.Clone(e.observers) {
		o.fn(e.value)
	}
}
