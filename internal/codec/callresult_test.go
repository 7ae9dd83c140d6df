package codec

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feltsForString serializes a string the way a contract returns a byte
// array: [word_count, word..., pending_word, pending_word_len].
func feltsForString(s string) []string {
	ba := Pack([]byte(s))
	out := []string{"0x" + strconv.FormatInt(int64(len(ba.Data)), 16)}
	for _, w := range ba.Data {
		out = append(out, "0x"+w.Text(16))
	}
	out = append(out, "0x"+ba.PendingWord.Text(16))
	out = append(out, "0x"+strconv.FormatInt(int64(ba.PendingWordLen), 16))
	return out
}

func TestParseCallResult_ByteArraySpan(t *testing.T) {
	for _, s := range []string{"hi", "a longer payload spanning more than thirty-one bytes of content"} {
		raw := ParseCallResult(feltsForString(s))

		ba, ok := raw.(ByteArray)
		require.True(t, ok, s)

		out, err := ba.Bytes()
		require.NoError(t, err)
		assert.Equal(t, s, string(out))
	}
}

func TestParseCallResult_SingleFelt(t *testing.T) {
	raw := ParseCallResult([]string{"0x68656c6c6f"})

	w, ok := raw.(*big.Int)
	require.True(t, ok)
	assert.Zero(t, w.Cmp(big.NewInt(0x68656c6c6f)))
}

func TestParseCallResult_Misc(t *testing.T) {
	assert.Nil(t, ParseCallResult(nil))
	assert.Nil(t, ParseCallResult([]string{}))

	// A span that is not a byte array stays a felt sequence.
	raw := ParseCallResult([]string{"0x1", "0x2"})
	seq, ok := raw.([]any)
	require.True(t, ok)
	assert.Len(t, seq, 2)

	// Count slot inconsistent with the span length: not a byte array.
	raw = ParseCallResult([]string{"0x5", "0x1", "0x0", "0x0"})
	_, ok = raw.([]any)
	assert.True(t, ok)

	// Unparseable felts defer to the sniffer's fallback as-is.
	raw = ParseCallResult([]string{"zz!!"})
	strs, ok := raw.([]any)
	require.True(t, ok)
	assert.Equal(t, "zz!!", strs[0])
}

func TestParseCallResult_EmptyByteArray(t *testing.T) {
	raw := ParseCallResult([]string{"0x0", "0x0", "0x0"})
	ba, ok := raw.(ByteArray)
	require.True(t, ok)

	out, err := ba.Bytes()
	require.NoError(t, err)
	assert.Empty(t, out)
}
