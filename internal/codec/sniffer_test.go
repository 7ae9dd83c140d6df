package codec

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tokengallery/internal/entity"
)

func newTestCodec() *Codec {
	return New(zap.NewNop())
}

func TestStages_WiredInPriorityOrder(t *testing.T) {
	want := []string{"structured_passthrough", "byte_array", "short_string", "hex_string", "plain_text"}
	require.Len(t, stages, len(want))
	for i, st := range want {
		assert.Equal(t, st, stages[i].name)
		assert.NotNil(t, stages[i].decode)
	}
}

func TestDecode_NilShortCircuits(t *testing.T) {
	assert.Equal(t, entity.Null(), newTestCodec().Decode(nil))
}

func TestDecode_StructuredPassthrough(t *testing.T) {
	c := newTestCodec()

	in := map[string]any{
		"name":  "Badge",
		"count": json.Number("12345678901234567890"),
		"tags":  []any{"a", "b"},
	}
	got := c.Decode(in)
	// A pre-decoded mapping comes back unchanged (as its value-union form).
	assert.Equal(t, entity.FromAny(in), got)

	seq := []any{"x", int64(2)}
	assert.Equal(t, entity.FromAny(seq), c.Decode(seq))

	v := entity.TextVal("already decoded")
	assert.Equal(t, v, c.Decode(v))
}

func TestDecode_ByteArrayWithStructuredContent(t *testing.T) {
	c := newTestCodec()

	raw, err := cbor.Marshal(map[string]any{"name": "Badge"})
	require.NoError(t, err)
	ba := Pack(raw)

	got := c.Decode(ba)
	require.Equal(t, entity.KindMapping, got.Kind)
	name, ok := got.Get("name")
	require.True(t, ok)
	assert.Equal(t, entity.TextVal("Badge"), name)

	// The loose mapping form decodes identically.
	loose := map[string]any{
		"data":             wordsToAny(ba.Data),
		"pending_word":     "0x" + ba.PendingWord.Text(16),
		"pending_word_len": ba.PendingWordLen,
	}
	assert.Equal(t, got, c.Decode(loose))
}

func TestDecode_ByteArrayWithTextContent(t *testing.T) {
	ba := Pack([]byte("ipfs://QmSomewhere/1.json"))
	got := newTestCodec().Decode(ba)
	assert.Equal(t, entity.TextVal("ipfs://QmSomewhere/1.json"), got)
}

func TestDecode_MalformedByteArrayFallsBackToText(t *testing.T) {
	loose := map[string]any{
		"data":             []any{"not a felt"},
		"pending_word_len": 1,
	}
	got := newTestCodec().Decode(loose)
	// Reassembly fails, so the original input is kept as opaque text.
	assert.Equal(t, entity.KindText, got.Kind)
	assert.Contains(t, got.Text, "not a felt")
}

func TestDecode_ShortString(t *testing.T) {
	c := newTestCodec()
	assert.Equal(t, entity.TextVal("hello"), c.Decode(big.NewInt(0x68656c6c6f)))
	assert.Equal(t, entity.TextVal("hello"), c.Decode(json.Number("448378203247")))
}

func TestDecode_HexStringFallsBackToText(t *testing.T) {
	got := newTestCodec().Decode("0x68656c6c6f")
	assert.Equal(t, entity.TextVal("hello"), got)
}

func TestDecode_HexStringWithStructuredContent(t *testing.T) {
	raw, err := cbor.Marshal(map[string]any{"name": "Badge"})
	require.NoError(t, err)

	got := newTestCodec().Decode("0x" + hex.EncodeToString(raw))
	require.Equal(t, entity.KindMapping, got.Kind)
	name, ok := got.Get("name")
	require.True(t, ok)
	assert.Equal(t, entity.TextVal("Badge"), name)
}

func TestDecode_OddLengthHex(t *testing.T) {
	// "0x456" pads to 0x0456; neither byte sequence parses as a container.
	got := newTestCodec().Decode("0x456")
	assert.Equal(t, entity.TextVal(string([]byte{0x04, 0x56})), got)
}

func TestDecode_PlainText(t *testing.T) {
	c := newTestCodec()

	// Not hex, not JSON, not a container: returned unchanged.
	assert.Equal(t, entity.TextVal("just some words"), c.Decode("just some words"))
	assert.Equal(t, entity.TextVal("https://example.com/nft/1"), c.Decode("https://example.com/nft/1"))
}

func TestDecode_JSONText(t *testing.T) {
	got := newTestCodec().Decode(`{"name":"Badge","id":12345678901234567890}`)
	require.Equal(t, entity.KindMapping, got.Kind)

	id, ok := got.Get("id")
	require.True(t, ok)
	require.Equal(t, entity.KindNumber, id.Kind)
	assert.Equal(t, "12345678901234567890", id.String())
}

func TestDecode_TruncatedJSONFallsBackToText(t *testing.T) {
	in := `{"name": "Badge"` // no closing brace
	assert.Equal(t, entity.TextVal(in), newTestCodec().Decode(in))
}

func TestDecode_DataURI(t *testing.T) {
	c := newTestCodec()

	payload := `{"name":"Inline Badge"}`
	b64 := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(payload))

	for _, in := range []string{b64, "data:application/json," + payload} {
		got := c.Decode(in)
		require.Equal(t, entity.KindMapping, got.Kind, in)
		name, ok := got.Get("name")
		require.True(t, ok)
		assert.Equal(t, entity.TextVal("Inline Badge"), name)
	}
}

func TestDecode_UnsupportedShapeWrapped(t *testing.T) {
	c := newTestCodec()

	tests := []struct {
		name string
		in   any
	}{
		{"struct", struct{ X int }{X: 1}},
		{"non-printable number", big.NewInt(0x01ff)},
		{"huge number", new(big.Int).Lsh(big.NewInt(1), 300)},
		{"bool", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Decode(tt.in)
			require.Equal(t, entity.KindMapping, got.Kind)
			_, ok := got.Get("metadata")
			assert.True(t, ok)
		})
	}
}

func TestDecode_HugeNumberKeepsExactDigits(t *testing.T) {
	n, ok := new(big.Int).SetString("12345678901234567890", 10)
	require.True(t, ok)

	got := newTestCodec().Decode(n)
	require.Equal(t, entity.KindMapping, got.Kind)
	wrapped, ok := got.Get("metadata")
	require.True(t, ok)
	assert.Equal(t, "12345678901234567890", wrapped.String())
}

func TestDecode_NeverPanics(t *testing.T) {
	c := newTestCodec()
	inputs := []any{
		nil,
		map[string]any{},
		map[string]any{"data": []any{big.NewInt(-1)}, "pending_word_len": 1},
		"not-hex-garbage-!!",
		"",
		[]any{nil, map[string]any{"data": "x"}},
		3.14159,
		make(chan int),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = c.Decode(in) })
	}
}

func wordsToAny(words []*big.Int) []any {
	out := make([]any, len(words))
	for i, w := range words {
		out[i] = "0x" + w.Text(16)
	}
	return out
}
