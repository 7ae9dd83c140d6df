package codec

import (
	"math/big"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengallery/internal/entity"
)

func TestDecodeStructured_Map(t *testing.T) {
	raw, err := cbor.Marshal(map[string]any{"name": "Badge"})
	require.NoError(t, err)

	v, err := DecodeStructured(raw)
	require.NoError(t, err)
	require.Equal(t, entity.KindMapping, v.Kind)

	name, ok := v.Get("name")
	require.True(t, ok)
	assert.Equal(t, entity.TextVal("Badge"), name)
}

func TestDecodeStructured_Nested(t *testing.T) {
	raw, err := cbor.Marshal(map[string]any{
		"name": "Badge #1",
		"attributes": []any{
			map[string]any{"trait_type": "tier", "value": uint64(3)},
		},
	})
	require.NoError(t, err)

	v, err := DecodeStructured(raw)
	require.NoError(t, err)

	attrs, ok := v.Get("attributes")
	require.True(t, ok)
	require.Equal(t, entity.KindSequence, attrs.Kind)
	require.Len(t, attrs.Sequence, 1)

	tier, ok := attrs.Sequence[0].Get("value")
	require.True(t, ok)
	require.Equal(t, entity.KindNumber, tier.Kind)
	assert.Zero(t, tier.Number.Cmp(big.NewInt(3)))
}

func TestDecodeStructured_BigIntegerValue(t *testing.T) {
	supply, ok := new(big.Int).SetString("12345678901234567890", 10)
	require.True(t, ok)

	raw, err := cbor.Marshal(map[string]any{"supply": supply})
	require.NoError(t, err)

	v, err := DecodeStructured(raw)
	require.NoError(t, err)

	got, ok := v.Get("supply")
	require.True(t, ok)
	require.Equal(t, entity.KindNumber, got.Kind)
	assert.Equal(t, "12345678901234567890", got.String())
}

func TestDecodeStructured_Failures(t *testing.T) {
	validMap, err := cbor.Marshal(map[string]string{"k": "v"})
	require.NoError(t, err)
	scalar, err := cbor.Marshal(int64(5))
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"truncated container", validMap[:len(validMap)-1]},
		{"trailing garbage", append(append([]byte{}, validMap...), 0x00)},
		{"bad type tag", []byte{0xff}},
		{"top-level scalar", scalar},
		{"plain text bytes", []byte("hello")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeStructured(tt.raw)
			require.ErrorIs(t, err, ErrContainerDecode)
		})
	}
}
