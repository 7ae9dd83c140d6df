package codec

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"tokengallery/internal/entity"
)

// Codec is the public entry point of the metadata decoding pipeline. It is
// stateless across calls and safe for concurrent use; the logger only
// records which fallback each field took.
type Codec struct {
	logger *zap.Logger
}

// New creates a Codec. Pass zap.NewNop() when diagnostics are not wanted.
func New(logger *zap.Logger) *Codec {
	return &Codec{logger: logger.Named("MetadataCodec")}
}

// stage is one step of the sniffing cascade: the decoder either claims the
// input and returns a value, or reports false to fall through.
type stage struct {
	name   string
	decode func(c *Codec, raw any) (entity.Value, bool)
}

// Stages run in fixed priority order; the first claim wins. Assigned in
// init: decodePlainText re-enters Decode for data URIs, so a package-level
// composite literal would form an initialization cycle.
var stages []stage

func init() {
	stages = []stage{
		{"structured_passthrough", (*Codec).decodeStructuredInput},
		{"byte_array", (*Codec).decodeByteArray},
		{"short_string", (*Codec).decodeShortString},
		{"hex_string", (*Codec).decodeHexString},
		{"plain_text", (*Codec).decodePlainText},
	}
}

// Decode recovers structured metadata from an arbitrary raw contract field
// value. It always returns a value: every internal failure degrades to the
// next fallback in the cascade, and an input matching no known variant is
// wrapped in a {"metadata": ...} diagnostic mapping.
func (c *Codec) Decode(raw any) entity.Value {
	if raw == nil {
		return entity.Null()
	}
	for _, st := range stages {
		if v, ok := st.decode(c, raw); ok {
			c.logger.Debug("Field decoded", zap.String("stage", st.name), zap.String("kind", v.Kind.String()))
			return v
		}
	}
	c.logger.Debug("Field matched no known shape, wrapping")
	return entity.MappingVal(map[string]entity.Value{"metadata": entity.FromAny(raw)})
}

// decodeStructuredInput passes through values an upstream caller already
// parsed, except mappings that are really chain byte-array records.
func (c *Codec) decodeStructuredInput(raw any) (entity.Value, bool) {
	switch t := raw.(type) {
	case entity.Value:
		return t, true
	case map[string]any:
		if byteArrayShape(t) {
			return entity.Value{}, false
		}
		return entity.FromAny(t), true
	case []any:
		return entity.FromAny(t), true
	}
	return entity.Value{}, false
}

// decodeByteArray reassembles a chain byte array and attempts the
// structured container format on the result. Reassembly failures degrade to
// an opaque text rendering of the original input; container failures
// degrade to the UTF-8 text of the reassembled bytes.
func (c *Codec) decodeByteArray(raw any) (entity.Value, bool) {
	var ba ByteArray
	switch t := raw.(type) {
	case ByteArray:
		ba = t
	case *ByteArray:
		if t == nil {
			return entity.Value{}, false
		}
		ba = *t
	case map[string]any:
		if !byteArrayShape(t) {
			return entity.Value{}, false
		}
		parsed, err := byteArrayFromMapping(t)
		if err != nil {
			c.logger.Debug("Malformed word array", zap.Error(err))
			return entity.TextVal(entity.FromAny(t).String()), true
		}
		ba = parsed
	default:
		return entity.Value{}, false
	}

	data, err := ba.Bytes()
	if err != nil {
		c.logger.Debug("Word array reassembly failed", zap.Error(err))
		return entity.TextVal(entity.FromAny(raw).String()), true
	}
	if v, err := DecodeStructured(data); err == nil {
		return v, true
	}
	return entity.TextVal(string(data)), true
}

// decodeShortString handles single numeric tokens carrying the chain-native
// short string encoding. Strings are left to the hex and plain-text stages.
func (c *Codec) decodeShortString(raw any) (entity.Value, bool) {
	var w *big.Int
	switch t := raw.(type) {
	case *big.Int:
		w = t
	case big.Int:
		w = &t
	case int, int64, uint64, json.Number:
		parsed, err := parseFelt(t)
		if err != nil {
			return entity.Value{}, false
		}
		w = parsed
	default:
		return entity.Value{}, false
	}
	if s, ok := DecodeShortString(w); ok {
		return entity.TextVal(s), true
	}
	return entity.Value{}, false
}

var hexPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]+$`)

// decodeHexString converts a hex string to bytes and attempts the
// structured container format, degrading to the UTF-8 text of those bytes.
func (c *Codec) decodeHexString(raw any) (entity.Value, bool) {
	s, ok := raw.(string)
	if !ok || !hexPattern.MatchString(s) {
		return entity.Value{}, false
	}
	digits := strings.TrimPrefix(s, "0x")
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}
	data, err := hex.DecodeString(digits)
	if err != nil {
		return entity.Value{}, false
	}
	if v, err := DecodeStructured(data); err == nil {
		return v, true
	}
	return entity.TextVal(string(data)), true
}

// decodePlainText takes any remaining string: data URIs are unwrapped and
// re-sniffed, then the UTF-8 bytes get a structured container attempt, then
// a JSON attempt when the text looks like a document, and finally the
// original string is returned unchanged.
func (c *Codec) decodePlainText(raw any) (entity.Value, bool) {
	s, ok := raw.(string)
	if !ok {
		return entity.Value{}, false
	}
	if payload, ok := dataURIPayload(s); ok {
		return c.Decode(payload), true
	}
	if v, err := DecodeStructured([]byte(s)); err == nil {
		return v, true
	}
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if v, err := decodeJSONDocument(trimmed); err == nil {
			return v, true
		}
	}
	return entity.TextVal(s), true
}

// dataURIPayload unwraps data: URIs, decoding a base64 body when declared.
func dataURIPayload(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", false
	}
	meta, body, ok := strings.Cut(rest, ",")
	if !ok {
		return "", false
	}
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	}
	return body, true
}

// decodeJSONDocument parses a complete JSON document, keeping numbers as
// json.Number so large token ids survive with exact digits.
func decodeJSONDocument(s string) (entity.Value, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return entity.Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return entity.Value{}, ErrContainerDecode
	}
	return entity.FromAny(parsed), nil
}
