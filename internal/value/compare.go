package value

import (
	"cmp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CompareOptions tunes Compare.
type CompareOptions struct {
	// CaseInsensitive compares string and bool values ignoring case.
	CaseInsensitive bool
}

// rank groups kinds into the cross-type ordering buckets:
// null < numeric < string/bool < complex.
type rank uint8

const (
	rankNull rank = iota
	rankNumeric
	rankText
	rankComplex
)

func rankOf(v Value) rank {
	switch v.kind {
	case KindNull:
		return rankNull
	case KindInt, KindFloat:
		return rankNumeric
	case KindString, KindBool:
		return rankText
	default:
		// arrays, maps, bytes and extensions
		return rankComplex
	}
}

// Compare returns -1, 0 or 1 ordering a relative to b.
//
// Numbers compare as float64 regardless of whether they were Int or Float.
// Strings and bools compare by their textual form. Values of different
// buckets order as null < numeric < string/bool < complex, and two complex
// values are always equal: containers are not compared deeply.
func Compare(a, b Value, opts CompareOptions) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch ra {
	case rankNumeric:
		af, _ := a.Number()
		bf, _ := b.Number()
		return compareFloat(af, bf)
	case rankText:
		as, bs := a.Text(), b.Text()
		if opts.CaseInsensitive {
			return compareFold(as, bs)
		}
		return strings.Compare(as, bs)
	default:
		return 0
	}
}

// compareFloat orders NaN above every other number so the order stays total.
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	default:
		return -1
	}
}

// compareFold compares two strings rune by rune, treating runes that are
// equal under simple case folding (or share a lower case of their upper
// case) as equal. Differing runes are ordered by that lower-case form; a
// string that is a prefix of the other sorts first.
func compareFold(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		a, b = a[na:], b[nb:]
		if ra == rb || foldEqual(ra, rb) {
			continue
		}
		la, lb := unicode.ToLower(unicode.ToUpper(ra)), unicode.ToLower(unicode.ToUpper(rb))
		if la != lb {
			return cmp.Compare(la, lb)
		}
	}
	return cmp.Compare(len(a), len(b))
}

// foldEqual reports whether r and s are in the same case-folding orbit.
func foldEqual(r, s rune) bool {
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f == s {
			return true
		}
	}
	return false
}
