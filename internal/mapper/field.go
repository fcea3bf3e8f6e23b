package mapper

import (
	"github.com/vexsearch/fieldmap/internal/fts"
	"github.com/vexsearch/fieldmap/internal/value"
)

// FieldKind tells the index how to treat an emitted field.
type FieldKind uint8

const (
	// FieldText is analyzed into terms.
	FieldText FieldKind = iota
	// FieldExact is indexed as a single untokenized term.
	FieldExact
	// FieldNumeric is indexed as a number.
	FieldNumeric
)

// String returns the lowercase name of the kind.
func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldExact:
		return "exact"
	case FieldNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Field is one indexable leaf produced by a mapper.
//
// Value is a String for text and exact fields; for numeric fields it is an Int
// (integer mapper) or a Float (structured mapper).
type Field struct {
	Name     string
	Kind     FieldKind
	Stored   bool
	Value    value.Value
	Boost    float64
	Analyzer *fts.Analyzer // set for FieldText only
}

// Text returns the textual value of a text or exact field.
func (f Field) Text() string { return f.Value.Text() }

// Number returns the numeric value of a numeric field.
func (f Field) Number() float64 {
	n, _ := f.Value.Number()
	return n
}

// SortType is the ordering kind the index uses for a sort key.
type SortType uint8

const (
	SortString SortType = iota
	SortInt
	SortDouble
)

// String returns the lowercase name of the sort type.
func (t SortType) String() string {
	switch t {
	case SortString:
		return "string"
	case SortInt:
		return "int"
	case SortDouble:
		return "double"
	default:
		return "unknown"
	}
}

// SortKey describes how the index orders documents by a field.
type SortKey struct {
	Field   string
	Type    SortType
	Reverse bool
}
