package text

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidFactor is returned for a scale factor that is not finite and positive
	ErrInvalidFactor = errors.Base("scale factor must be finite and greater than zero")

	// ErrNotInteger is wrapped by FormatError when a captured group is not a
	// non-negative integer literal
	ErrNotInteger = errors.Base("not a non-negative integer literal")

	// ErrGroupNotMatched is wrapped by FormatError when a capturing group did
	// not take part in a match
	ErrGroupNotMatched = errors.Base("capturing group did not participate in match")

	// ErrOverlappingSpans is returned when two match records cover the same bytes
	ErrOverlappingSpans = errors.Base("match records overlap")

	// ErrSpanOutOfRange is returned when a match record does not fit the text
	ErrSpanOutOfRange = errors.Base("match record outside text")
)

// FormatError reports a matched substring that could not be converted to a number.
// It is fatal for the whole rewrite.
type FormatError struct {
	Rule   string
	Text   string
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("rule %q: cannot convert %q at offset %d: %v", e.Rule, e.Text, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
