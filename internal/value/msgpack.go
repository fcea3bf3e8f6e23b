package value

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/tinylib/msgp/msgp"
)

// MaxDecodeNesting bounds how many containers Decode will descend into.
const MaxDecodeNesting = 512

// Decode parses a single MessagePack encoded value. Trailing bytes are an error.
func Decode(data []byte) (Value, error) {
	if len(data) == 0 {
		return Value{}, fmt.Errorf("%w: empty input", ErrDecode)
	}
	v, rest, err := decode(data, 0)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, fmt.Errorf("%w: %d trailing bytes", ErrDecode, len(rest))
	}
	return v, nil
}

// DecodeHex parses a hex string (optionally prefixed with "0x") holding a
// MessagePack encoded value.
func DecodeHex(s string) (Value, error) {
	raw, err := ParseHex(s)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Decode(raw)
}

// ParseHex decodes a hex string with an optional "0x" prefix.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

func decode(b []byte, nesting int) (Value, []byte, error) {
	if nesting > MaxDecodeNesting {
		return Value{}, nil, fmt.Errorf("%w: nesting exceeds %d", ErrDecode, MaxDecodeNesting)
	}

	switch msgp.NextType(b) {
	case msgp.NilType:
		rest, err := msgp.ReadNilBytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return Null(), rest, nil

	case msgp.BoolType:
		v, rest, err := msgp.ReadBoolBytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return Bool(v), rest, nil

	case msgp.IntType:
		v, rest, err := msgp.ReadInt64Bytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return Int(v), rest, nil

	case msgp.UintType:
		v, rest, err := msgp.ReadUint64Bytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if v > math.MaxInt64 {
			return Float(float64(v)), rest, nil
		}
		return Int(int64(v)), rest, nil

	case msgp.Float32Type:
		v, rest, err := msgp.ReadFloat32Bytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return Float(widenFloat32(v)), rest, nil

	case msgp.Float64Type:
		v, rest, err := msgp.ReadFloat64Bytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return Float(v), rest, nil

	case msgp.StrType:
		v, rest, err := msgp.ReadStringBytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return String(v), rest, nil

	case msgp.BinType:
		v, rest, err := msgp.ReadBytesBytes(b, nil)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return Bytes(v), rest, nil

	case msgp.ArrayType:
		sz, rest, err := msgp.ReadArrayHeaderBytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if uint64(sz) > uint64(len(rest)) {
			return Value{}, nil, fmt.Errorf("%w: array of %d items exceeds input", ErrDecode, sz)
		}
		items := make([]Value, 0, sz)
		for i := uint32(0); i < sz; i++ {
			var item Value
			item, rest, err = decode(rest, nesting+1)
			if err != nil {
				return Value{}, nil, err
			}
			items = append(items, item)
		}
		return Array(items...), rest, nil

	case msgp.MapType:
		sz, rest, err := msgp.ReadMapHeaderBytes(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if uint64(sz)*2 > uint64(len(rest)) {
			return Value{}, nil, fmt.Errorf("%w: map of %d entries exceeds input", ErrDecode, sz)
		}
		pairs := make([]Pair, 0, sz)
		for i := uint32(0); i < sz; i++ {
			var key, val Value
			key, rest, err = decode(rest, nesting+1)
			if err != nil {
				return Value{}, nil, err
			}
			val, rest, err = decode(rest, nesting+1)
			if err != nil {
				return Value{}, nil, err
			}
			pairs = append(pairs, Pair{Key: key, Val: val})
		}
		return Map(pairs...), rest, nil

	case msgp.InvalidType:
		return Value{}, nil, fmt.Errorf("%w: invalid type byte 0x%02x", ErrDecode, b[0])

	default:
		// Extensions (including timestamps) and complex numbers are kept opaque.
		rest, err := msgp.Skip(b)
		if err != nil {
			return Value{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		consumed := b[:len(b)-len(rest)]
		return Ext(extType(consumed), consumed), rest, nil
	}
}

// extType extracts the extension type tag from a raw ext encoding.
func extType(raw []byte) int8 {
	if len(raw) == 0 {
		return 0
	}
	var off int
	switch raw[0] {
	case 0xd4, 0xd5, 0xd6, 0xd7, 0xd8: // fixext 1..16
		off = 1
	case 0xc7: // ext 8
		off = 2
	case 0xc8: // ext 16
		off = 3
	case 0xc9: // ext 32
		off = 5
	default:
		return 0
	}
	if off >= len(raw) {
		return 0
	}
	return int8(raw[off])
}

// Encode serializes v as MessagePack.
func Encode(v Value) []byte {
	return AppendEncoded(nil, v)
}

// AppendEncoded appends the MessagePack encoding of v to b.
func AppendEncoded(b []byte, v Value) []byte {
	switch v.kind {
	case KindNull:
		return msgp.AppendNil(b)
	case KindBool:
		return msgp.AppendBool(b, v.b)
	case KindInt:
		return msgp.AppendInt64(b, v.i)
	case KindFloat:
		return msgp.AppendFloat64(b, v.f)
	case KindString:
		return msgp.AppendString(b, v.s)
	case KindBytes:
		return msgp.AppendBytes(b, v.raw)
	case KindArray:
		b = msgp.AppendArrayHeader(b, uint32(len(v.items)))
		for _, item := range v.items {
			b = AppendEncoded(b, item)
		}
		return b
	case KindMap:
		b = msgp.AppendMapHeader(b, uint32(len(v.pairs)))
		for _, p := range v.pairs {
			b = AppendEncoded(b, p.Key)
			b = AppendEncoded(b, p.Val)
		}
		return b
	case KindExt:
		// The payload of a decoded extension is its full raw encoding.
		return append(b, v.raw...)
	default:
		return msgp.AppendNil(b)
	}
}
