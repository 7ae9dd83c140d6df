package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// WordLen is the number of content bytes packed into one full word of a
// chain byte array.
const WordLen = 31

// MaxPendingLen bounds the trailing partial word: 0..30 bytes.
const MaxPendingLen = WordLen - 1

// ByteArray is the chain-native variable-length string encoding: full words
// of 31 content bytes each, packed big-endian into field elements, plus one
// partial trailing word of PendingWordLen bytes.
type ByteArray struct {
	Data           []*big.Int
	PendingWord    *big.Int
	PendingWordLen int
}

// Bytes reassembles the raw byte sequence. Words are rendered in sequence
// order; reordering is never applied. For well-formed input the result is
// exactly 31*len(Data)+PendingWordLen bytes.
//
// The pending word contributes its FIRST PendingWordLen bytes after the
// big-endian hex rendering is padded to whole bytes; anything past that is
// dropped from the back. That truncation mirrors the chain's packing
// convention and is asserted by tests, so do not change it to keep trailing
// bytes instead.
func (b ByteArray) Bytes() ([]byte, error) {
	if b.PendingWordLen < 0 || b.PendingWordLen > MaxPendingLen {
		return nil, fmt.Errorf("%w: pending_word_len %d out of range", ErrMalformedWordArray, b.PendingWordLen)
	}
	out := make([]byte, 0, WordLen*len(b.Data)+b.PendingWordLen)
	for i, w := range b.Data {
		raw, err := renderWord(w, WordLen)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		out = append(out, raw...)
	}
	if b.PendingWordLen > 0 {
		raw, err := renderWord(b.PendingWord, b.PendingWordLen)
		if err != nil {
			return nil, fmt.Errorf("pending word: %w", err)
		}
		if len(raw) > b.PendingWordLen {
			raw = raw[:b.PendingWordLen]
		}
		out = append(out, raw...)
	}
	return out, nil
}

// renderWord converts a word to its big-endian byte rendering: hex digits,
// a leading zero when the digit count is odd, then bytes. Words whose value
// needs fewer than width bytes are left-padded with zeros; wider values are
// returned as rendered and left to the caller.
func renderWord(w *big.Int, width int) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: missing word", ErrMalformedWordArray)
	}
	if w.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative word %s", ErrMalformedWordArray, w)
	}
	h := w.Text(16)
	if len(h)%2 != 0 {
		h = "0" + h
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWordArray, err)
	}
	if len(raw) < width {
		padded := make([]byte, width)
		copy(padded[width-len(raw):], raw)
		raw = padded
	}
	return raw, nil
}

// Pack is the inverse of Bytes: it splits raw bytes into full 31-byte words
// plus the trailing partial word.
func Pack(raw []byte) ByteArray {
	var ba ByteArray
	for len(raw) >= WordLen {
		ba.Data = append(ba.Data, new(big.Int).SetBytes(raw[:WordLen]))
		raw = raw[WordLen:]
	}
	ba.PendingWord = new(big.Int).SetBytes(raw)
	ba.PendingWordLen = len(raw)
	return ba
}

// byteArrayShape reports whether a loose mapping matches the chain
// byte-array record: a "data" sequence plus pending_word or
// pending_word_len. Shape detection only; content may still be malformed.
func byteArrayShape(m map[string]any) bool {
	d, ok := m["data"]
	if !ok {
		return false
	}
	if _, ok := d.([]any); !ok {
		if _, ok := d.([]string); !ok {
			return false
		}
	}
	_, hasPW := m["pending_word"]
	_, hasPWL := m["pending_word_len"]
	return hasPW || hasPWL
}

// byteArrayFromMapping parses the loose mapping form into a ByteArray.
// Callers check byteArrayShape first; errors here are content errors.
func byteArrayFromMapping(m map[string]any) (ByteArray, error) {
	var ba ByteArray
	switch d := m["data"].(type) {
	case []any:
		ba.Data = make([]*big.Int, 0, len(d))
		for _, e := range d {
			w, err := parseFelt(e)
			if err != nil {
				return ByteArray{}, err
			}
			ba.Data = append(ba.Data, w)
		}
	case []string:
		ba.Data = make([]*big.Int, 0, len(d))
		for _, e := range d {
			w, err := parseFelt(e)
			if err != nil {
				return ByteArray{}, err
			}
			ba.Data = append(ba.Data, w)
		}
	default:
		return ByteArray{}, fmt.Errorf("%w: data is not a sequence", ErrMalformedWordArray)
	}
	ba.PendingWord = big.NewInt(0)
	if pw, ok := m["pending_word"]; ok {
		w, err := parseFelt(pw)
		if err != nil {
			return ByteArray{}, err
		}
		ba.PendingWord = w
	}
	if pwl, ok := m["pending_word_len"]; ok {
		n, err := parseFelt(pwl)
		if err != nil {
			return ByteArray{}, err
		}
		if !n.IsInt64() {
			return ByteArray{}, fmt.Errorf("%w: pending_word_len too large", ErrMalformedWordArray)
		}
		ba.PendingWordLen = int(n.Int64())
	}
	return ba, nil
}

// parseFelt converts the shapes a field element arrives in (hex or decimal
// strings, JSON numbers, big ints) into a non-negative big integer.
func parseFelt(x any) (*big.Int, error) {
	switch t := x.(type) {
	case *big.Int:
		if t == nil {
			return nil, fmt.Errorf("%w: nil word", ErrMalformedWordArray)
		}
		if t.Sign() < 0 {
			return nil, fmt.Errorf("%w: negative word %s", ErrMalformedWordArray, t)
		}
		return t, nil
	case big.Int:
		return parseFelt(&t)
	case int:
		return parseFelt(big.NewInt(int64(t)))
	case int64:
		return parseFelt(big.NewInt(t))
	case uint64:
		return new(big.Int).SetUint64(t), nil
	case json.Number:
		n, ok := new(big.Int).SetString(t.String(), 10)
		if !ok {
			return nil, fmt.Errorf("%w: non-integer word %q", ErrMalformedWordArray, t.String())
		}
		return parseFelt(n)
	case float64:
		// encoding/json without UseNumber hands over float64; only exact
		// integral values inside 53 bits are trustworthy.
		if t != float64(int64(t)) {
			return nil, fmt.Errorf("%w: non-integer word %v", ErrMalformedWordArray, t)
		}
		return parseFelt(big.NewInt(int64(t)))
	case string:
		s := strings.TrimSpace(t)
		if rest, ok := strings.CutPrefix(s, "0x"); ok {
			n, ok := new(big.Int).SetString(rest, 16)
			if !ok {
				return nil, fmt.Errorf("%w: bad hex word %q", ErrMalformedWordArray, t)
			}
			return parseFelt(n)
		}
		if n, ok := new(big.Int).SetString(s, 10); ok {
			return parseFelt(n)
		}
		if n, ok := new(big.Int).SetString(s, 16); ok {
			return parseFelt(n)
		}
		return nil, fmt.Errorf("%w: unparseable word %q", ErrMalformedWordArray, t)
	}
	return nil, fmt.Errorf("%w: unsupported word type %T", ErrMalformedWordArray, x)
}
