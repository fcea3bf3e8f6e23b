package mapper

import (
	"strings"

	"github.com/vexsearch/fieldmap/internal/metrics"
	"github.com/vexsearch/fieldmap/internal/value"
)

// structuredIndexValue decodes MessagePack content: bytes directly, strings
// as hex. Content that does not decode is treated as null, never as an error.
// Already decoded values pass through.
func structuredIndexValue(_ *Mapper, v value.Value) (value.Value, error) {
	return decodeStructured(v), nil
}

func decodeStructured(v value.Value) value.Value {
	var (
		decoded value.Value
		err     error
	)
	switch v.Kind() {
	case value.KindBytes:
		raw, _ := v.AsBytes()
		decoded, err = value.Decode(raw)
	case value.KindString:
		s, _ := v.AsString()
		decoded, err = value.DecodeHex(strings.TrimSpace(s))
	default:
		return v
	}
	if err != nil {
		metrics.IncStructuredDecodeFailure()
		return value.Null()
	}
	return decoded
}

// structuredQueryValue normalizes a leaf exactly as the flattener emits it.
func structuredQueryValue(m *Mapper, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindBool, value.KindBytes:
		return value.String(v.Text()), nil
	case value.KindInt, value.KindFloat:
		n, _ := v.Number()
		return value.Float(n), nil
	case value.KindString:
		s, _ := v.AsString()
		if m.caseInsensitive {
			s = strings.ToLower(s)
		}
		return value.String(s), nil
	default:
		return value.Value{}, unsupported(m, v)
	}
}

func structuredFields(m *Mapper, name string, v value.Value) ([]Field, error) {
	return m.flatten(name, decodeStructured(v), 0, nil), nil
}

func compareStructured(m *Mapper, a, b *value.Value) int {
	return m.CompareAt(a, b, "")
}

// CompareAt orders two structured column values by the sub-value at a dotted
// path (the whole value for an empty path). Missing columns sort last; within
// present columns a missing or null sub-value sorts first. Non-structured
// mappers ignore path.
func (m *Mapper) CompareAt(a, b *value.Value, path string) int {
	if m.typ != TypeStructured {
		return m.Compare(a, b)
	}
	if a == nil {
		if b == nil {
			return 0
		}
		return 1
	}
	if b == nil {
		return -1
	}

	va, vb := decodeStructured(*a), decodeStructured(*b)
	if path != "" {
		va, _ = Lookup(va, path)
		vb, _ = Lookup(vb, path)
	}
	return value.Compare(va, vb, value.CompareOptions{CaseInsensitive: m.caseInsensitive})
}
