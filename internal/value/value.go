// Package value provides the decoded column value model shared by mappers,
// the flattener and the comparators.
package value

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindArray
	KindMap
	// KindExt is an extension kind the value model does not interpret.
	KindExt
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindExt:
		return "ext"
	default:
		return "unknown"
	}
}

// Pair is one entry of a map value.
type Pair struct {
	Key Value
	Val Value
}

// Value is a decoded column value. The zero Value is null.
//
// Values are treated as immutable once built; constructors do not copy the
// slices they are given.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	raw   []byte
	items []Value
	pairs []Pair
	ext   int8
}

// Null returns a null Value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating point Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String returns a string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bytes returns a binary Value.
func Bytes(v []byte) Value { return Value{kind: KindBytes, raw: v} }

// Array returns an array Value.
func Array(items ...Value) Value { return Value{kind: KindArray, items: items} }

// Map returns a map Value preserving the order of pairs.
func Map(pairs ...Pair) Value { return Value{kind: KindMap, pairs: pairs} }

// Ext returns an extension Value with the given type tag and payload.
func Ext(typ int8, data []byte) Value { return Value{kind: KindExt, ext: typ, raw: data} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether the value is an Int or a Float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// IsScalar reports whether the value is a leaf (null, bool, number, string or bytes).
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindNull, KindBool, KindInt, KindFloat, KindString, KindBytes:
		return true
	}
	return false
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer value if Kind is KindInt.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float value if Kind is KindFloat.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBytes returns the binary value if Kind is KindBytes.
func (v Value) AsBytes() ([]byte, bool) { return v.raw, v.kind == KindBytes }

// AsArray returns the items if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) { return v.items, v.kind == KindArray }

// AsMap returns the pairs if Kind is KindMap.
func (v Value) AsMap() ([]Pair, bool) { return v.pairs, v.kind == KindMap }

// AsExt returns the extension tag and payload if Kind is KindExt.
func (v Value) AsExt() (int8, []byte, bool) { return v.ext, v.raw, v.kind == KindExt }

// Number returns the value as a float64 for Int and Float kinds.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Get returns the value stored under the map key whose textual form is key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, p := range v.pairs {
		if isKeyKind(p.Key.kind) && p.Key.Text() == key {
			return p.Val, true
		}
	}
	return Value{}, false
}

// Text returns the canonical textual form of a scalar value.
//
// Floats always carry a fractional part ("3.0", "3.5"), bytes are lowercase
// hex and null is the empty string. Containers render as a JSON-like string.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return FormatFloat(v.f)
	case KindString:
		return v.s
	case KindBytes:
		return hex.EncodeToString(v.raw)
	case KindArray:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.Text()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindMap:
		parts := make([]string, len(v.pairs))
		for i, p := range v.pairs {
			parts[i] = p.Key.Text() + ":" + p.Val.Text()
		}
		return "{" + strings.Join(parts, ",") + "}"
	case KindExt:
		return "ext(" + strconv.Itoa(int(v.ext)) + ":" + hex.EncodeToString(v.raw) + ")"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	if v.kind == KindNull {
		return "null"
	}
	return v.Text()
}

// FormatFloat renders f as its shortest decimal representation, keeping a
// ".0" suffix on integral values.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// isKeyKind reports whether values of kind k may be used as flattened map keys.
func isKeyKind(k Kind) bool {
	switch k {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	}
	return false
}

// IsKey reports whether v can name a nested field (bool, number or string).
func (v Value) IsKey() bool { return isKeyKind(v.kind) }

// Equal reports whether two values are structurally identical.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case KindString:
		return a.s == b.s
	case KindBytes:
		return string(a.raw) == string(b.raw)
	case KindExt:
		return a.ext == b.ext && string(a.raw) == string(b.raw)
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.pairs) != len(b.pairs) {
			return false
		}
		for i := range a.pairs {
			if !Equal(a.pairs[i].Key, b.pairs[i].Key) || !Equal(a.pairs[i].Val, b.pairs[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}
