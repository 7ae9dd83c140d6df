package codec

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortString_RoundTrip(t *testing.T) {
	for _, s := range []string{"h", "hello", "STRK", "exactly thirty-one characters!!"} {
		w, err := EncodeShortString(s)
		require.NoError(t, err)

		got, ok := DecodeShortString(w)
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestDecodeShortString_Hello(t *testing.T) {
	got, ok := DecodeShortString(big.NewInt(0x68656c6c6f))
	require.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestDecodeShortString_Rejects(t *testing.T) {
	tooWide := new(big.Int).Lsh(big.NewInt(1), 8*WordLen)

	tests := []struct {
		name string
		w    *big.Int
	}{
		{"nil", nil},
		{"zero", big.NewInt(0)},
		{"negative", big.NewInt(-1)},
		{"non-printable bytes", big.NewInt(0x01ff)},
		{"wider than a word", tooWide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DecodeShortString(tt.w)
			assert.False(t, ok)
		})
	}
}

func TestEncodeShortString_Rejects(t *testing.T) {
	_, err := EncodeShortString(strings.Repeat("a", WordLen+1))
	require.Error(t, err)

	_, err = EncodeShortString("héllo")
	require.Error(t, err)
}
