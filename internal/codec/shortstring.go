package codec

import (
	"fmt"
	"math/big"
)

// DecodeShortString interprets a field element as the chain-native short
// string encoding: up to 31 ASCII bytes packed big-endian into one word.
// It reports false when the value does not plausibly carry text, so the
// caller can fall through instead of returning mojibake.
func DecodeShortString(w *big.Int) (string, bool) {
	if w == nil || w.Sign() <= 0 {
		return "", false
	}
	raw := w.Bytes()
	if len(raw) > WordLen {
		return "", false
	}
	for _, c := range raw {
		if c < 0x20 || c > 0x7e {
			return "", false
		}
	}
	return string(raw), true
}

// EncodeShortString packs an ASCII string of at most 31 bytes into a single
// field element.
func EncodeShortString(s string) (*big.Int, error) {
	if len(s) > WordLen {
		return nil, fmt.Errorf("short string %q exceeds %d bytes", s, WordLen)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("short string %q is not ASCII", s)
		}
	}
	return new(big.Int).SetBytes([]byte(s)), nil
}
