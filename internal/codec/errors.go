package codec

import "errors"

// Internal decode failure taxonomy. These never escape Decode; each one is
// caught at its stage boundary and converted to the next fallback. They are
// exported so tests and the lower-level helpers (Bytes, DecodeStructured)
// can assert on them.
var (
	// ErrMalformedWordArray means a data/pending_word field held a negative
	// or non-integer value.
	ErrMalformedWordArray = errors.New("malformed word array")

	// ErrContainerDecode means bytes did not parse as the structured binary
	// container format (bad type tag, truncated container, trailing data).
	ErrContainerDecode = errors.New("structured container decode failed")
)
