package entity

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindFloat
	KindText
	KindBytes
	KindSequence
	KindMapping
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return "unknown"
}

// Value is the decoded metadata value: a tagged union over the shapes a
// contract field can carry. The chain imposes no metadata schema, so
// consumers switch on Kind instead of reflecting over interface{}.
//
// Number is arbitrary precision. Integers wider than 53 bits must never pass
// through a float64, so they are kept as *big.Int and rendered as exact
// decimal text.
type Value struct {
	Kind     ValueKind
	Bool     bool
	Number   *big.Int
	Float    float64
	Text     string
	Bytes    []byte
	Sequence []Value
	Mapping  map[string]Value
}

func Null() Value { return Value{Kind: KindNull} }

func BoolVal(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func NumberVal(n *big.Int) Value { return Value{Kind: KindNumber, Number: n} }

func FloatVal(f float64) Value { return Value{Kind: KindFloat, Float: f} }

func TextVal(s string) Value { return Value{Kind: KindText, Text: s} }

func BytesVal(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

func SequenceVal(s []Value) Value { return Value{Kind: KindSequence, Sequence: s} }

func MappingVal(m map[string]Value) Value { return Value{Kind: KindMapping, Mapping: m} }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Get returns the entry for key when the value is a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMapping {
		return Value{}, false
	}
	e, ok := v.Mapping[key]
	return e, ok
}

// AsText renders scalar variants as text for display fields. Mappings and
// sequences report false; callers keep those structural.
func (v Value) AsText() (string, bool) {
	switch v.Kind {
	case KindText:
		return v.Text, true
	case KindNumber:
		return v.Number.String(), true
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.Bool), true
	case KindBytes:
		return "0x" + hexEncode(v.Bytes), true
	}
	return "", false
}

// MarshalJSON renders the value for API responses. Numbers are emitted as
// exact decimal literals so integers beyond 53 bits survive the trip; byte
// strings render as 0x-prefixed hex.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return strconv.AppendBool(nil, v.Bool), nil
	case KindNumber:
		if v.Number == nil {
			return []byte("null"), nil
		}
		return []byte(v.Number.String()), nil
	case KindFloat:
		return json.Marshal(v.Float)
	case KindText:
		return json.Marshal(v.Text)
	case KindBytes:
		return json.Marshal("0x" + hexEncode(v.Bytes))
	case KindSequence:
		if v.Sequence == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Sequence)
	case KindMapping:
		if v.Mapping == nil {
			return []byte("{}"), nil
		}
		// encoding/json sorts map keys, which keeps rendering deterministic.
		return json.Marshal(v.Mapping)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

// String is the textual-serialization routine: bare text for text values,
// exact decimal digits for numbers, JSON for everything structural.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		if v.Number == nil {
			return "null"
		}
		return v.Number.String()
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// FromAny converts an arbitrary decoded JSON/CBOR tree into a Value. It is
// total: leaves of unrecognized dynamic types are stringified rather than
// rejected, so conversion of an upstream-parsed structure cannot fail.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return BoolVal(t)
	case string:
		return TextVal(t)
	case []byte:
		return BytesVal(t)
	case int:
		return NumberVal(big.NewInt(int64(t)))
	case int64:
		return NumberVal(big.NewInt(t))
	case uint64:
		return NumberVal(new(big.Int).SetUint64(t))
	case *big.Int:
		if t == nil {
			return Null()
		}
		return NumberVal(new(big.Int).Set(t))
	case big.Int:
		return NumberVal(new(big.Int).Set(&t))
	case float32:
		return floatOrNumber(float64(t))
	case float64:
		return floatOrNumber(t)
	case json.Number:
		if n, ok := new(big.Int).SetString(t.String(), 10); ok {
			return NumberVal(n)
		}
		if f, err := t.Float64(); err == nil {
			return FloatVal(f)
		}
		return TextVal(t.String())
	case []any:
		seq := make([]Value, len(t))
		for i, e := range t {
			seq[i] = FromAny(e)
		}
		return SequenceVal(seq)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromAny(e)
		}
		return MappingVal(m)
	case map[any]any:
		// CBOR decodes maps with interface{} keys; non-text keys are
		// rendered through FromAny so numeric keys stay exact.
		m := make(map[string]Value, len(t))
		for k, e := range t {
			if ks, ok := k.(string); ok {
				m[ks] = FromAny(e)
				continue
			}
			m[FromAny(k).String()] = FromAny(e)
		}
		return MappingVal(m)
	}
	return TextVal(fmt.Sprint(x))
}

// floatOrNumber keeps integral floats inside 53 bits as exact numbers;
// anything else stays a float.
func floatOrNumber(f float64) Value {
	const maxExact = 1 << 53
	if f == float64(int64(f)) && f < maxExact && f > -maxExact {
		return NumberVal(big.NewInt(int64(f)))
	}
	return FloatVal(f)
}

func hexEncode(b []byte) string {
	return hex.EncodeToString(b)
}
