package value

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"fixmap", "81a16101", Map(Pair{Key: String("a"), Val: Int(1)})},
		{"0x prefix", "0x81a16101", Map(Pair{Key: String("a"), Val: Int(1)})},
		{"nil", "c0", Null()},
		{"true", "c3", Bool(true)},
		{"negative fixint", "ff", Int(-1)},
		{"uint8", "cc80", Int(128)},
		{"uint64 above int64", "cfffffffffffffffff", Float(float64(uint64(math.MaxUint64)))},
		{"float32 widened", "ca40666666", Float(3.6)},
		{"float64", "cb400c000000000000", Float(3.5)},
		{"bin", "c4020a0b", Bytes([]byte{0x0a, 0x0b})},
		{"array", "9301a178c0", Array(Int(1), String("x"), Null())},
		{"ext", "d40501", Ext(5, []byte{0xd4, 0x05, 0x01})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHex(tt.input)
			if err != nil {
				t.Fatalf("DecodeHex(%q) error = %v", tt.input, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("DecodeHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	deep := bytes.Repeat([]byte{0x91}, MaxDecodeNesting+2)
	deep = append(deep, 0xc0)

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"never used byte", []byte{0xc1}},
		{"truncated array", []byte{0x92, 0x01}},
		{"truncated string", []byte{0xa5, 0x61}},
		{"trailing bytes", []byte{0x01, 0x02}},
		{"too deep", deep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Decode() error = %v, want ErrDecode", err)
			}
		})
	}

	if _, err := DecodeHex("zz"); !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeHex(zz) error = %v, want ErrDecode", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	v := Map(
		Pair{Key: String("name"), Val: String("Ada")},
		Pair{Key: String("tags"), Val: Array(String("x"), Int(-7), Float(0.5), Bool(false))},
		Pair{Key: Int(3), Val: Map(Pair{Key: String("raw"), Val: Bytes([]byte{0xff})})},
		Pair{Key: String("none"), Val: Null()},
		Pair{Key: String("ext"), Val: Ext(9, []byte{0xd4, 0x09, 0x2a})},
	)

	got, err := Decode(Encode(v))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !Equal(got, v) {
		t.Errorf("Decode(Encode(v)) = %v, want %v", got, v)
	}
}
