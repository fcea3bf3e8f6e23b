package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnsupportedGoType is returned by FromAny for Go types with no Value form.
	ErrUnsupportedGoType = errors.New("unsupported go type")
	// ErrDecode is returned when raw bytes are not a valid encoded value.
	ErrDecode = errors.New("cannot decode value")
)

// FromAny converts a Go value into a Value.
// Supported input types:
//   - nil -> Null
//   - bool -> Bool
//   - int, int64, int32, int16, int8, uint* (fitting int64) -> Int
//   - float64, float32 -> Float (float32 keeps its shortest decimal form)
//   - string, json.Number -> String / Int / Float
//   - []byte -> Bytes
//   - uuid.UUID -> String (canonical form)
//   - time.Time -> Int (milliseconds since epoch)
//   - []any and typed slices -> Array
//   - map[string]any, map[any]any -> Map (string keys sorted for determinism)
//   - Value -> itself
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case int32:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case uint:
		return fromUint(uint64(val))
	case uint64:
		return fromUint(val)
	case uint32:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint8:
		return Int(int64(val)), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(widenFloat32(val)), nil
	case string:
		return String(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: json number %q", ErrUnsupportedGoType, val.String())
		}
		return Float(f), nil
	case []byte:
		return Bytes(val), nil
	case uuid.UUID:
		return String(val.String()), nil
	case time.Time:
		return Int(val.UnixMilli()), nil
	case []any:
		items := make([]Value, len(val))
		for i, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			items[i] = converted
		}
		return Array(items...), nil
	case []string:
		items := make([]Value, len(val))
		for i, s := range val {
			items[i] = String(s)
		}
		return Array(items...), nil
	case []int64:
		items := make([]Value, len(val))
		for i, n := range val {
			items[i] = Int(n)
		}
		return Array(items...), nil
	case []int:
		items := make([]Value, len(val))
		for i, n := range val {
			items[i] = Int(int64(n))
		}
		return Array(items...), nil
	case []float64:
		items := make([]Value, len(val))
		for i, n := range val {
			items[i] = Float(n)
		}
		return Array(items...), nil
	case []bool:
		items := make([]Value, len(val))
		for i, b := range val {
			items[i] = Bool(b)
		}
		return Array(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(val))
		for _, k := range keys {
			converted, err := FromAny(val[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			pairs = append(pairs, Pair{Key: String(k), Val: converted})
		}
		return Map(pairs...), nil
	case map[any]any:
		pairs := make([]Pair, 0, len(val))
		for k, item := range val {
			key, err := FromAny(k)
			if err != nil {
				return Value{}, fmt.Errorf("map key: %w", err)
			}
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("key %s: %w", key, err)
			}
			pairs = append(pairs, Pair{Key: key, Val: converted})
		}
		sort.SliceStable(pairs, func(i, j int) bool {
			return Compare(pairs[i].Key, pairs[j].Key, CompareOptions{}) < 0
		})
		return Map(pairs...), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedGoType, v)
	}
}

// MustFromAny is FromAny for literals known to convert; it panics otherwise.
func MustFromAny(v any) Value {
	converted, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return converted
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Float(float64(u)), nil
	}
	return Int(int64(u)), nil
}

// widenFloat32 converts f to the float64 closest to its shortest decimal
// form, so 3.6f becomes 3.6 rather than 3.5999999046325684.
func widenFloat32(f float32) float64 {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return float64(f)
	}
	parsed, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return parsed
}
