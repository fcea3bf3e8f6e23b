package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"net/netip"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vexsearch/fieldmap/internal/value"
)

// Coerce converts a JSON-decoded cell (numbers as float64 or json.Number)
// into the Value stored for a column of type t. Null is valid for any type.
func Coerce(t Type, v any) (value.Value, error) {
	if v == nil {
		return value.Null(), nil
	}

	switch {
	case t.IsList(), t.IsSet():
		arr, ok := v.([]any)
		if !ok {
			return value.Value{}, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, t, v)
		}
		elem := t.ElementType()
		items := make([]value.Value, len(arr))
		for i, item := range arr {
			converted, err := coerceScalar(elem, item)
			if err != nil {
				return value.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			items[i] = converted
		}
		return value.Array(items...), nil

	case t.IsMap():
		obj, ok := v.(map[string]any)
		if !ok {
			return value.Value{}, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, t, v)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		keyType, valType := t.KeyType(), t.ElementType()
		pairs := make([]value.Pair, 0, len(obj))
		for _, k := range keys {
			key, err := coerceKey(keyType, k)
			if err != nil {
				return value.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			val, err := coerceScalar(valType, obj[k])
			if err != nil {
				return value.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			pairs = append(pairs, value.Pair{Key: key, Val: val})
		}
		return value.Map(pairs...), nil
	}

	return coerceScalar(t, v)
}

func coerceScalar(t Type, v any) (value.Value, error) {
	if v == nil {
		return value.Null(), nil
	}
	mismatch := fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, t, v)

	switch t {
	case TypeASCII, TypeText, TypeVarchar:
		if s, ok := v.(string); ok {
			return value.String(s), nil
		}

	case TypeInet:
		if s, ok := v.(string); ok {
			addr, err := netip.ParseAddr(s)
			if err != nil {
				return value.Value{}, fmt.Errorf("%w: invalid inet %q", ErrTypeMismatch, s)
			}
			return value.String(addr.String()), nil
		}

	case TypeInt, TypeBigint, TypeVarint:
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return value.Int(i), nil
			}
		}
		if f, isInt, ok := number(v); ok && isInt {
			return value.Int(int64(f)), nil
		}

	case TypeFloat, TypeDouble, TypeDecimal:
		if f, _, ok := number(v); ok {
			return value.Float(f), nil
		}

	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return value.Bool(b), nil
		}

	case TypeUUID, TypeTimeUUID:
		if s, ok := v.(string); ok {
			id, err := uuid.Parse(s)
			if err != nil {
				return value.Value{}, fmt.Errorf("%w: invalid uuid %q", ErrTypeMismatch, s)
			}
			if t == TypeTimeUUID && id.Version() != 1 {
				return value.Value{}, fmt.Errorf("%w: %q is not a time-based uuid", ErrTypeMismatch, s)
			}
			return value.String(id.String()), nil
		}

	case TypeTimestamp:
		switch val := v.(type) {
		case string:
			if ts, err := time.Parse(time.RFC3339Nano, val); err == nil {
				return value.Int(ts.UnixMilli()), nil
			}
			return value.Value{}, fmt.Errorf("%w: invalid timestamp %q", ErrTypeMismatch, val)
		default:
			// Allow millisecond epoch
			if f, isInt, ok := number(v); ok && isInt {
				return value.Int(int64(f)), nil
			}
		}

	case TypeBlob:
		switch val := v.(type) {
		case string:
			raw, err := value.ParseHex(val)
			if err != nil {
				return value.Value{}, fmt.Errorf("%w: invalid hex blob: %v", ErrTypeMismatch, err)
			}
			return value.Bytes(raw), nil
		case map[string]any, []any:
			// Structured JSON stored in a blob column is kept as MessagePack.
			structured, err := value.FromAny(normalizeJSON(val))
			if err != nil {
				return value.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			return value.Bytes(value.Encode(structured)), nil
		}
	}
	return value.Value{}, mismatch
}

func coerceKey(t Type, k string) (value.Value, error) {
	switch t {
	case TypeInt, TypeBigint, TypeVarint:
		i, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: expected %s key", ErrTypeMismatch, t)
		}
		return value.Int(i), nil
	case TypeFloat, TypeDouble, TypeDecimal:
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: expected %s key", ErrTypeMismatch, t)
		}
		return value.Float(f), nil
	case TypeBoolean:
		b, err := strconv.ParseBool(k)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: expected %s key", ErrTypeMismatch, t)
		}
		return value.Bool(b), nil
	default:
		return coerceScalar(t, k)
	}
}

// number extracts a numeric JSON value, reporting whether it is integral and
// fits in an int64.
func number(v any) (f float64, isInt bool, ok bool) {
	switch val := v.(type) {
	case float64:
		f = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false, false
		}
		f = parsed
	case int:
		return float64(val), true, true
	case int64:
		return float64(val), true, true
	default:
		return 0, false, false
	}
	isInt = !math.IsInf(f, 0) && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
	return f, isInt, true
}

// normalizeJSON turns float64 numbers that are integral into int64 so
// structured blobs keep integer leaves as integers.
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeJSON(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeJSON(item)
		}
		return out
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
		return val
	default:
		return v
	}
}
