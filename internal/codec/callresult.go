package codec

import "math/big"

// ParseCallResult converts the ordered felt span returned by a contract
// call into the raw field value shape the sniffer consumes. It is total:
// a span it cannot classify comes back as-is, and Decode wraps it.
//
// Recognized layouts:
//   - byte array: [word_count, word..., pending_word, pending_word_len]
//   - single felt: one element, handed over as a big integer so the
//     short-string stage can claim it
//   - anything else: the parsed felt sequence
func ParseCallResult(felts []string) any {
	if len(felts) == 0 {
		return nil
	}

	parsed := make([]*big.Int, 0, len(felts))
	for _, f := range felts {
		w, err := parseFelt(f)
		if err != nil {
			// Unparseable span: defer to the sniffer's generic fallback.
			return toAnySlice(felts)
		}
		parsed = append(parsed, w)
	}

	if ba, ok := byteArraySpan(parsed); ok {
		return ba
	}
	if len(parsed) == 1 {
		return parsed[0]
	}
	out := make([]any, len(parsed))
	for i, w := range parsed {
		out[i] = w
	}
	return out
}

// byteArraySpan matches the serialized byte-array calldata layout: a word
// count whose value accounts for the whole span minus the count, pending
// word, and pending length slots.
func byteArraySpan(felts []*big.Int) (ByteArray, bool) {
	if len(felts) < 3 || !felts[0].IsInt64() {
		return ByteArray{}, false
	}
	n := felts[0].Int64()
	if n < 0 || int64(len(felts)) != n+3 {
		return ByteArray{}, false
	}
	pwl := felts[len(felts)-1]
	if !pwl.IsInt64() || pwl.Int64() < 0 || pwl.Int64() > MaxPendingLen {
		return ByteArray{}, false
	}
	return ByteArray{
		Data:           felts[1 : 1+n],
		PendingWord:    felts[len(felts)-2],
		PendingWordLen: int(pwl.Int64()),
	}, true
}

// ParseFelt exposes field-element parsing for callers that expect a numeric
// result (supplies, decimals, balances) rather than metadata.
func ParseFelt(x any) (*big.Int, error) {
	return parseFelt(x)
}

func toAnySlice(felts []string) []any {
	out := make([]any, len(felts))
	for i, f := range felts {
		out[i] = f
	}
	return out
}
