package value

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(-42), "-42"},
		{"integral float", Float(3), "3.0"},
		{"fractional float", Float(3.5), "3.5"},
		{"negative float", Float(-0.25), "-0.25"},
		{"large float", Float(1e21), "1000000000000000000000.0"},
		{"nan", Float(math.NaN()), "NaN"},
		{"inf", Float(math.Inf(1)), "Infinity"},
		{"string", String("Hello"), "Hello"},
		{"bytes", Bytes([]byte{0xca, 0xfe, 0x01}), "cafe01"},
		{"array", Array(Int(1), String("a")), "[1,a]"},
		{"map", Map(Pair{Key: String("k"), Val: Bool(true)}), "{k:true}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Fatalf("zero Value kind = %s, want null", v.Kind())
	}
	if v.String() != "null" {
		t.Errorf("String() = %q, want %q", v.String(), "null")
	}
}

func TestGet(t *testing.T) {
	m := Map(
		Pair{Key: String("city"), Val: String("Paris")},
		Pair{Key: Int(7), Val: Bool(true)},
		Pair{Key: Array(), Val: Int(1)},
	)

	if v, ok := m.Get("city"); !ok || v.Text() != "Paris" {
		t.Errorf("Get(city) = %v, %v", v, ok)
	}
	if v, ok := m.Get("7"); !ok || !Equal(v, Bool(true)) {
		t.Errorf("Get(7) = %v, %v", v, ok)
	}
	if _, ok := m.Get("[]"); ok {
		t.Error("Get matched a non-key kind")
	}
	if _, ok := String("x").Get("x"); ok {
		t.Error("Get on a non-map returned a value")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same int", Int(1), Int(1), true},
		{"int vs float", Int(1), Float(1), false},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"bytes", Bytes([]byte("ab")), Bytes([]byte("ab")), true},
		{"arrays differ", Array(Int(1)), Array(Int(2)), false},
		{"maps", Map(Pair{Key: String("a"), Val: Null()}), Map(Pair{Key: String("a"), Val: Null()}), true},
		{"ext tag", Ext(1, []byte{1}), Ext(2, []byte{1}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	ts := time.UnixMilli(1700000000123)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 5, Int(5)},
		{"int8", int8(-3), Int(-3)},
		{"uint32", uint32(9), Int(9)},
		{"uint64 overflow", uint64(math.MaxUint64), Float(float64(uint64(math.MaxUint64)))},
		{"float32 keeps decimal form", float32(3.6), Float(3.6)},
		{"float64", 2.5, Float(2.5)},
		{"string", "abc", String("abc")},
		{"json int", json.Number("12"), Int(12)},
		{"json float", json.Number("1.5"), Float(1.5)},
		{"bytes", []byte{1, 2}, Bytes([]byte{1, 2})},
		{"uuid", id, String("550e8400-e29b-41d4-a716-446655440000")},
		{"time", ts, Int(1700000000123)},
		{"strings", []string{"a", "b"}, Array(String("a"), String("b"))},
		{"mixed slice", []any{1, "x", nil}, Array(Int(1), String("x"), Null())},
		{"map sorted", map[string]any{"b": 2, "a": 1}, Map(
			Pair{Key: String("a"), Val: Int(1)},
			Pair{Key: String("b"), Val: Int(2)},
		)},
		{"any map sorted by value order", map[any]any{"k": 1, 2: "v"}, Map(
			Pair{Key: Int(2), Val: String("v")},
			Pair{Key: String("k"), Val: Int(1)},
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if err != nil {
				t.Fatalf("FromAny() error = %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("FromAny() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromAnyUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	if !errors.Is(err, ErrUnsupportedGoType) {
		t.Fatalf("error = %v, want ErrUnsupportedGoType", err)
	}

	_, err = FromAny([]any{1, make(chan int)})
	if !errors.Is(err, ErrUnsupportedGoType) {
		t.Fatalf("nested error = %v, want ErrUnsupportedGoType", err)
	}
}
