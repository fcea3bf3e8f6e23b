package mapper

import (
	"cmp"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vexsearch/fieldmap/internal/value"
)

func unsupported(m *Mapper, v value.Value) error {
	return fmt.Errorf("%w: %s mapper cannot map %s value", ErrUnsupportedValue, m.typ, v.Kind())
}

// stringIndexValue renders any scalar in its canonical textual form.
func stringIndexValue(m *Mapper, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindBool, value.KindInt, value.KindFloat, value.KindString, value.KindBytes:
		return value.String(v.Text()), nil
	default:
		return value.Value{}, unsupported(m, v)
	}
}

// integerIndexValue truncates toward zero; strings are parsed as numbers.
func integerIndexValue(m *Mapper, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindInt:
		return v, nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return truncate(m, f)
	case value.KindString:
		s, _ := v.AsString()
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %q is not a number", ErrUnsupportedValue, s)
		}
		return truncate(m, f)
	default:
		return value.Value{}, unsupported(m, v)
	}
}

func truncate(m *Mapper, f float64) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.Value{}, fmt.Errorf("%w: %s mapper cannot map %v", ErrUnsupportedValue, m.typ, f)
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return value.Value{}, fmt.Errorf("%w: %v overflows a 64-bit integer", ErrUnsupportedValue, f)
	}
	return value.Int(int64(t)), nil
}

func booleanIndexValue(m *Mapper, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindBool:
		return v, nil
	case value.KindString:
		s, _ := v.AsString()
		switch {
		case strings.EqualFold(s, "true"):
			return value.Bool(true), nil
		case strings.EqualFold(s, "false"):
			return value.Bool(false), nil
		}
		return value.Value{}, fmt.Errorf("%w: %q is not a boolean", ErrUnsupportedValue, s)
	default:
		return value.Value{}, unsupported(m, v)
	}
}

// blobIndexValue normalizes binary content to lowercase hex without prefix.
func blobIndexValue(m *Mapper, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindBytes:
		return value.String(v.Text()), nil
	case value.KindString:
		s, _ := v.AsString()
		raw, err := value.ParseHex(strings.TrimSpace(s))
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %q is not hex: %v", ErrUnsupportedValue, s, err)
		}
		return value.String(hex.EncodeToString(raw)), nil
	default:
		return value.Value{}, unsupported(m, v)
	}
}

func textFields(m *Mapper, name string, v value.Value) ([]Field, error) {
	iv, err := m.IndexValue(v)
	if err != nil {
		return nil, err
	}
	return []Field{{
		Name:     name,
		Kind:     FieldText,
		Stored:   m.stored,
		Value:    iv,
		Boost:    m.boost,
		Analyzer: m.Analyzer(),
	}}, nil
}

func exactFields(m *Mapper, name string, v value.Value) ([]Field, error) {
	iv, err := m.IndexValue(v)
	if err != nil {
		return nil, err
	}
	if iv.Kind() == value.KindBool {
		iv = value.String(iv.Text())
	}
	return []Field{{Name: name, Kind: FieldExact, Stored: m.stored, Value: iv, Boost: m.boost}}, nil
}

func integerFields(m *Mapper, name string, v value.Value) ([]Field, error) {
	iv, err := m.IndexValue(v)
	if err != nil {
		return nil, err
	}
	return []Field{{Name: name, Kind: FieldNumeric, Stored: m.stored, Value: iv, Boost: m.boost}}, nil
}

// present normalizes a column value for comparison. Missing, null and
// unmappable values are all absent.
func (m *Mapper) present(v *value.Value) (value.Value, bool) {
	if v == nil || v.IsNull() {
		return value.Value{}, false
	}
	iv, err := m.IndexValue(*v)
	if err != nil || iv.IsNull() {
		return value.Value{}, false
	}
	return iv, true
}

func compareScalar(m *Mapper, a, b *value.Value) int {
	va, okA := m.present(a)
	vb, okB := m.present(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}

	ia, intA := va.AsInt()
	ib, intB := vb.AsInt()
	if intA && intB {
		return cmp.Compare(ia, ib)
	}
	return value.Compare(va, vb, value.CompareOptions{})
}
