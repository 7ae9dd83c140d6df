package codec

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteArray_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("a"),
		[]byte("hello"),
		[]byte("exactly thirty-one bytes long!!"),
		[]byte("a string that is comfortably longer than thirty-one bytes, spanning several words of the array"),
		bytes.Repeat([]byte{0xff}, 93),
	}
	for _, payload := range payloads {
		ba := Pack(payload)

		require.Len(t, payload, WordLen*len(ba.Data)+ba.PendingWordLen)
		assert.LessOrEqual(t, ba.PendingWordLen, MaxPendingLen)

		out, err := ba.Bytes()
		require.NoError(t, err)
		if len(payload) == 0 {
			assert.Empty(t, out)
		} else {
			assert.Equal(t, payload, out)
		}

		// Re-packing the reassembled bytes reproduces the original encoding.
		again := Pack(out)
		assert.Equal(t, len(ba.Data), len(again.Data))
		assert.Equal(t, ba.PendingWordLen, again.PendingWordLen)
		assert.Zero(t, ba.PendingWord.Cmp(again.PendingWord))
		for i := range ba.Data {
			assert.Zero(t, ba.Data[i].Cmp(again.Data[i]))
		}
	}
}

func TestByteArray_WordOrderPreserved(t *testing.T) {
	first := []byte("first word payload, padded out to thirty-one.")[:WordLen]
	second := []byte("second word payload, also thirty-one bytes.")[:WordLen]

	ba := ByteArray{
		Data: []*big.Int{
			new(big.Int).SetBytes(first),
			new(big.Int).SetBytes(second),
		},
		PendingWord: big.NewInt(0),
	}
	out, err := ba.Bytes()
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, first...), second...), out)
}

func TestByteArray_PendingWordTruncation(t *testing.T) {
	// Pending word renders to three bytes 0x41 0x42 0x43 but declares only
	// two; the first two bytes survive and the trailing byte is dropped.
	ba := ByteArray{
		PendingWord:    big.NewInt(0x414243),
		PendingWordLen: 2,
	}
	out, err := ba.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("AB"), out)
}

func TestByteArray_OddHexPadding(t *testing.T) {
	// 0x456 has an odd digit count; the rendering pads a leading zero so
	// byte boundaries hold.
	ba := ByteArray{
		PendingWord:    big.NewInt(0x456),
		PendingWordLen: 2,
	}
	out, err := ba.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x56}, out)
}

func TestByteArray_Malformed(t *testing.T) {
	tests := []struct {
		name string
		ba   ByteArray
	}{
		{"negative word", ByteArray{Data: []*big.Int{big.NewInt(-1)}}},
		{"nil word", ByteArray{Data: []*big.Int{nil}}},
		{"negative pending word", ByteArray{PendingWord: big.NewInt(-5), PendingWordLen: 1}},
		{"pending len out of range", ByteArray{PendingWord: big.NewInt(1), PendingWordLen: 31}},
		{"negative pending len", ByteArray{PendingWordLen: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ba.Bytes()
			require.ErrorIs(t, err, ErrMalformedWordArray)
		})
	}
}

func TestByteArrayFromMapping(t *testing.T) {
	m := map[string]any{
		"data":             []any{"0x" + new(big.Int).SetBytes([]byte("this word carries thirty-one by")).Text(16)},
		"pending_word":     "0x746573",
		"pending_word_len": "3",
	}
	require.True(t, byteArrayShape(m))

	ba, err := byteArrayFromMapping(m)
	require.NoError(t, err)

	out, err := ba.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "this word carries thirty-one bytes", string(out))
}

func TestByteArrayShape(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		want bool
	}{
		{"full shape", map[string]any{"data": []any{}, "pending_word": "0x0", "pending_word_len": 0}, true},
		{"len only", map[string]any{"data": []any{}, "pending_word_len": 0}, true},
		{"missing data", map[string]any{"pending_word": "0x0"}, false},
		{"data not a sequence", map[string]any{"data": "0x0", "pending_word": "0x0"}, false},
		{"plain metadata mapping", map[string]any{"name": "Badge"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, byteArrayShape(tt.m))
		})
	}
}

func TestParseFelt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"hex string", "0xff", 255, false},
		{"decimal string", "255", 255, false},
		{"bare hex string", "fe", 254, false},
		{"uint64", uint64(9), 9, false},
		{"integral float", float64(4), 4, false},
		{"fractional float", 4.5, 0, true},
		{"negative", int64(-1), 0, true},
		{"garbage", "zz!!", 0, true},
		{"unsupported type", struct{}{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFelt(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedWordArray)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}
