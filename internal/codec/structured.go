package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"tokengallery/internal/entity"
)

// DecodeStructured parses raw bytes as the self-describing binary container
// format (CBOR) and converts the result into the value union.
//
// Decoding is strict per the format's canonical rules: trailing garbage,
// truncated containers, and invalid type tags all fail with
// ErrContainerDecode. On top of that the top-level value must be a map or an
// array: metadata is always a container, and accepting bare scalars would
// let short ASCII strings misparse as one-byte text items instead of falling
// through to the plain-text stage.
func DecodeStructured(raw []byte) (entity.Value, error) {
	if len(raw) == 0 {
		return entity.Value{}, fmt.Errorf("%w: empty input", ErrContainerDecode)
	}
	var decoded any
	if err := cbor.Unmarshal(raw, &decoded); err != nil {
		return entity.Value{}, fmt.Errorf("%w: %v", ErrContainerDecode, err)
	}
	v := entity.FromAny(decoded)
	if v.Kind != entity.KindMapping && v.Kind != entity.KindSequence {
		return entity.Value{}, fmt.Errorf("%w: top-level %s is not a container", ErrContainerDecode, v.Kind)
	}
	return v, nil
}
