package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFieldName is returned by constructors when the field name is
	// empty or only contains white space.
	ErrInvalidFieldName = errors.New("extract: invalid field name")

	// ErrValueConversion is wrapped by a ValueConversionError when the raw
	// value is not a valid literal of the field's kind.
	ErrValueConversion = errors.New("extract: invalid literal")
)

// A ValueConversionError is returned when the raw text of a completed field
// cannot be converted to its typed value.  Err is either ErrValueConversion or
// the error returned by the strconv package (e.g. on overflow).
type ValueConversionError struct {
	Field string
	Kind  Kind
	Raw   string
	Err   error
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("extract: field %q: cannot convert %q to %s: %s", e.Field, e.Raw, e.Kind, e.Err)
}

func (e *ValueConversionError) Unwrap() error {
	return e.Err
}
