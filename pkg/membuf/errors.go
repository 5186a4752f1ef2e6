package membuf

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldUnknown is returned when the requested key has no descriptor.
	ErrFieldUnknown = errors.New("membuf: field unknown")

	// ErrMalformedHeader is returned when a buffer is too short to hold a
	// header, or when the descriptor table runs past the end of the buffer
	// before the sentinel is found.
	ErrMalformedHeader = errors.New("membuf: malformed header")

	// ErrFieldBounds is returned when a descriptor's byte range falls
	// outside the payload.
	ErrFieldBounds = errors.New("membuf: field range outside payload")

	// ErrInvalidText is returned when a text field does not hold valid
	// UTF-8.
	ErrInvalidText = errors.New("membuf: text field is not valid UTF-8")

	// ErrVectorSize is returned when a word-vector field's length is not a
	// multiple of the word size.
	ErrVectorSize = errors.New("membuf: word vector length is not a multiple of 8")
)

// TypeMismatchError reports a field whose recorded type tag differs from
// the type requested at decode time. It carries both tags for diagnostics.
type TypeMismatchError struct {
	Actual    TypeTag
	Requested TypeTag
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("membuf: field has type %s (%d), not requested type %s (%d)",
		e.Actual, int32(e.Actual), e.Requested, int32(e.Requested))
}
