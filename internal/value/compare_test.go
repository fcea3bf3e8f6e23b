package value

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCompare(t *testing.T) {
	complexValues := []Value{
		Array(Int(1)),
		Map(Pair{Key: String("a"), Val: Int(1)}),
		Bytes([]byte{0x01}),
		Ext(3, []byte{0xd4, 0x03, 0x00}),
	}

	tests := []struct {
		name string
		a, b Value
		opts CompareOptions
		want int
	}{
		{"null equals null", Null(), Null(), CompareOptions{}, 0},
		{"null below int", Null(), Int(-100), CompareOptions{}, -1},
		{"null below string", Null(), String(""), CompareOptions{}, -1},
		{"int above null", Int(0), Null(), CompareOptions{}, 1},
		{"int vs float", Int(3), Float(3.5), CompareOptions{}, -1},
		{"float vs int equal", Float(3), Int(3), CompareOptions{}, 0},
		{"negative numbers", Int(-5), Float(-4.9), CompareOptions{}, -1},
		{"int below string", Int(5), String("apple"), CompareOptions{}, -1},
		{"float below bool", Float(1e300), Bool(false), CompareOptions{}, -1},
		{"string below bool true", String("a"), Bool(true), CompareOptions{}, -1},
		{"bool false below bool true", Bool(false), Bool(true), CompareOptions{}, -1},
		{"string lexicographic", String("b"), String("a"), CompareOptions{}, 1},
		{"case sensitive", String("B"), String("a"), CompareOptions{}, -1},
		{"case insensitive", String("B"), String("a"), CompareOptions{CaseInsensitive: true}, 1},
		{"case insensitive equal", String("Apple"), String("aPPLE"), CompareOptions{CaseInsensitive: true}, 0},
		{"string below array", String("zzz"), complexValues[0], CompareOptions{}, -1},
		{"string below bytes", String("zzz"), complexValues[2], CompareOptions{}, -1},
		{"array equals map", complexValues[0], complexValues[1], CompareOptions{}, 0},
		{"map equals bytes", complexValues[1], complexValues[2], CompareOptions{}, 0},
		{"bytes equals ext", complexValues[2], complexValues[3], CompareOptions{}, 0},
		{"nan above numbers", Float(math.NaN()), Float(math.Inf(1)), CompareOptions{}, 1},
		{"nan equals nan", Float(math.NaN()), Float(math.NaN()), CompareOptions{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b, tt.opts); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := Compare(tt.b, tt.a, tt.opts); got != -tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestCompareFold(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"ascii", "Apple", "aPPLE", 0},
		{"final sigma folds with sigma", "ΣΑΣ", "σας", 0},
		{"kelvin sign folds with k", "\u212Aelvin", "kelvin", 0},
		{"accented letters", "Éclair", "éclair", 0},
		{"first differing rune decides", "abd", "ABC", 1},
		{"prefix sorts first", "ab", "AB c", -1},
		{"empty", "", "a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareFold(tt.a, tt.b); got != tt.want {
				t.Errorf("compareFold(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := compareFold(tt.b, tt.a); got != -tt.want {
				t.Errorf("compareFold(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func genValue() gopter.Gen {
	return gen.OneGenOf(
		gen.Const(Null()),
		gen.Bool().Map(func(b bool) Value { return Bool(b) }),
		gen.Int64().Map(func(i int64) Value { return Int(i) }),
		gen.Float64Range(-1e12, 1e12).Map(func(f float64) Value { return Float(f) }),
		gen.AlphaString().Map(func(s string) Value { return String(s) }),
		gen.SliceOfN(3, gen.UInt8()).Map(func(b []uint8) Value { return Bytes(b) }),
		gen.SliceOfN(2, gen.Int64()).Map(func(items []int64) Value {
			vals := make([]Value, len(items))
			for i, n := range items {
				vals[i] = Int(n)
			}
			return Array(vals...)
		}),
	)
}

func TestProperty_CompareLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("compare is antisymmetric", prop.ForAll(
		func(a, b Value, fold bool) bool {
			opts := CompareOptions{CaseInsensitive: fold}
			return Compare(a, b, opts) == -Compare(b, a, opts)
		},
		genValue(), genValue(), gen.Bool(),
	))

	properties.Property("null is below every non-null value", prop.ForAll(
		func(v Value) bool {
			got := Compare(Null(), v, CompareOptions{})
			if v.IsNull() {
				return got == 0
			}
			return got == -1
		},
		genValue(),
	))

	properties.Property("compare is transitive", prop.ForAll(
		func(a, b, c Value) bool {
			opts := CompareOptions{}
			if Compare(a, b, opts) <= 0 && Compare(b, c, opts) <= 0 {
				return Compare(a, c, opts) <= 0
			}
			return true
		},
		genValue(), genValue(), genValue(),
	))

	properties.Property("numbers sort below text", prop.ForAll(
		func(n int64, s string) bool {
			return Compare(Int(n), String(s), CompareOptions{}) == -1
		},
		gen.Int64(), gen.AnyString(),
	))

	properties.TestingRun(t)
}
