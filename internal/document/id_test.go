package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseID(t *testing.T) {
	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name     string
		input    any
		wantType IDType
		wantText string
	}{
		{"uint64 max", uint64(18446744073709551615), IDTypeU64, "18446744073709551615"},
		{"int", 42, IDTypeU64, "42"},
		{"int64 zero", int64(0), IDTypeU64, "0"},
		{"whole float", float64(12345), IDTypeU64, "12345"},
		{"json number", json.Number("18446744073709551615"), IDTypeU64, "18446744073709551615"},
		{"uuid value", u, IDTypeUUID, u.String()},
		{"uuid string", "550E8400-E29B-41D4-A716-446655440000", IDTypeUUID, u.String()},
		{"plain string", "user-1", IDTypeString, "user-1"},
		{"numeric string stays a string", "12345", IDTypeString, "12345"},
		{"almost uuid", "550e8400-e29b-41d4-a716-44665544000z", IDTypeString, "550e8400-e29b-41d4-a716-44665544000z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if err != nil {
				t.Fatalf("ParseID(%v) error = %v", tt.input, err)
			}
			if id.Type() != tt.wantType || id.String() != tt.wantText {
				t.Errorf("ParseID(%v) = %s %q, want %s %q", tt.input, id.Type(), id.String(), tt.wantType, tt.wantText)
			}
		})
	}
}

func TestParseIDErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"negative int", -1},
		{"negative int64", int64(-5)},
		{"fractional float", 1.5},
		{"negative float", -2.0},
		{"huge float", 1e20},
		{"bad json number", json.Number("1.5")},
		{"empty string", ""},
		{"long string", strings.Repeat("x", MaxStringIDBytes+1)},
		{"nil", nil},
		{"bool", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "id" {
				t.Errorf("ParseID(%v) error = %v, want a ValidationError on id", tt.input, err)
			}
		})
	}
}

func TestIDKeyRoundTrip(t *testing.T) {
	str, _ := NewStringID("with:colon")
	ids := []ID{
		NewU64ID(0),
		NewU64ID(1 << 40),
		NewUUIDID(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")),
		str,
	}
	for _, id := range ids {
		got, err := ParseIDKey(id.Key())
		if err != nil {
			t.Fatalf("ParseIDKey(%q) error = %v", id.Key(), err)
		}
		if !got.Equal(id) {
			t.Errorf("ParseIDKey(%q) = %v, want %v", id.Key(), got, id)
		}
	}

	for _, bad := range []string{"", "u64:", "u64:x", "uuid:abcd", "str:", "int:1", "plain"} {
		if _, err := ParseIDKey(bad); err == nil {
			t.Errorf("ParseIDKey(%q) succeeded, want error", bad)
		}
	}
}

func TestIDJSON(t *testing.T) {
	tests := []struct {
		json     string
		wantType IDType
	}{
		{`18446744073709551615`, IDTypeU64},
		{`"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`, IDTypeUUID},
		{`"abc"`, IDTypeString},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			var id ID
			if err := json.Unmarshal([]byte(tt.json), &id); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			if id.Type() != tt.wantType {
				t.Errorf("Type() = %s, want %s", id.Type(), tt.wantType)
			}
			out, err := json.Marshal(id)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.json {
				t.Errorf("Marshal = %s, want %s", out, tt.json)
			}
		})
	}
}

func TestIDCompare(t *testing.T) {
	a, _ := NewStringID("a")
	b, _ := NewStringID("b")
	low := NewUUIDID(uuid.MustParse("00000000-0000-0000-0000-000000000001"))
	high := NewUUIDID(uuid.MustParse("ffffffff-0000-0000-0000-000000000000"))

	tests := []struct {
		name string
		x, y ID
		want int
	}{
		{"u64 order", NewU64ID(2), NewU64ID(10), -1},
		{"u64 equal", NewU64ID(7), NewU64ID(7), 0},
		{"uuid order", high, low, 1},
		{"string order", a, b, -1},
		{"u64 before uuid", NewU64ID(99), low, -1},
		{"uuid before string", high, a, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Compare(tt.y); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
			if got := tt.y.Compare(tt.x); got != -tt.want {
				t.Errorf("reverse Compare() = %d, want %d", got, -tt.want)
			}
		})
	}
}
