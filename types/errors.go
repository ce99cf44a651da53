package types

import "errors"

// Error taxonomy shared by bitbuf and typedslice. Call sites wrap these with
// fmt.Errorf("...: %w", ...) so callers can match them with errors.Is.
var (
	// ErrInvalidArgument reports a malformed parameter: a bit width outside the
	// accessor's range, an unsupported float size, a bad codec definition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange reports an index, length or slice bound that violates the
	// structural invariants, or an allocation above the configured bound.
	ErrOutOfRange = errors.New("out of range")

	// ErrTypeMismatch reports two slices with different element codecs, or a
	// make function that produced a non-conformant slice.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Kind names the class of a taxonomy error.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindOutOfRange
	KindTypeMismatch
)

// String returns the human-readable name of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindOutOfRange:
		return "OutOfRange"
	case KindTypeMismatch:
		return "TypeMismatch"
	default:
		return "unknown"
	}
}

// KindOf classifies err by the sentinel it wraps.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, ErrTypeMismatch):
		return KindTypeMismatch
	default:
		return KindUnknown
	}
}
