// Package mapper implements the field mappers: per-field strategies that
// normalize column values, turn them into indexable fields and order them.
//
// The set of mappers is closed. Each Type has one entry in a dispatch table
// holding its behavior; a Mapper is that entry plus its options.
package mapper

import (
	"fmt"
	"math"
	"strings"

	"github.com/vexsearch/fieldmap/internal/catalog"
	"github.com/vexsearch/fieldmap/internal/fts"
	"github.com/vexsearch/fieldmap/internal/value"
)

// Type identifies a mapper variant.
type Type string

const (
	TypeText       Type = "text"
	TypeString     Type = "string"
	TypeInteger    Type = "integer"
	TypeBoolean    Type = "boolean"
	TypeBlob       Type = "blob"
	TypeStructured Type = "structured"
)

// DefaultDepthLimit is the number of nested map levels a structured mapper
// descends into when no depth_limit is configured.
const DefaultDepthLimit = 2

// IsValid returns true if t names a mapper variant.
func (t Type) IsValid() bool {
	_, ok := variants[t]
	return ok
}

// Types returns every mapper type.
func Types() []Type {
	return []Type{TypeText, TypeString, TypeInteger, TypeBoolean, TypeBlob, TypeStructured}
}

// variant is the behavior shared by all mappers of one Type.
type variant struct {
	supports   map[catalog.Type]bool
	sortType   SortType
	indexValue func(m *Mapper, v value.Value) (value.Value, error)
	queryValue func(m *Mapper, v value.Value) (value.Value, error)
	fields     func(m *Mapper, name string, v value.Value) ([]Field, error)
	compare    func(m *Mapper, a, b *value.Value) int
}

func typeSet(types ...catalog.Type) map[catalog.Type]bool {
	set := make(map[catalog.Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

var textTypes = typeSet(
	catalog.TypeASCII, catalog.TypeText, catalog.TypeVarchar,
	catalog.TypeInt, catalog.TypeBigint, catalog.TypeVarint,
	catalog.TypeFloat, catalog.TypeDouble, catalog.TypeDecimal,
	catalog.TypeBoolean, catalog.TypeUUID, catalog.TypeTimeUUID,
	catalog.TypeTimestamp, catalog.TypeBlob, catalog.TypeInet,
)

var variants = map[Type]*variant{
	TypeText: {
		supports:   textTypes,
		sortType:   SortString,
		indexValue: stringIndexValue,
		queryValue: stringIndexValue,
		fields:     textFields,
		compare:    compareScalar,
	},
	TypeString: {
		supports:   textTypes,
		sortType:   SortString,
		indexValue: stringIndexValue,
		queryValue: stringIndexValue,
		fields:     exactFields,
		compare:    compareScalar,
	},
	TypeInteger: {
		supports: typeSet(
			catalog.TypeASCII, catalog.TypeText, catalog.TypeVarchar,
			catalog.TypeInt, catalog.TypeBigint, catalog.TypeVarint,
			catalog.TypeFloat, catalog.TypeDouble, catalog.TypeDecimal,
			catalog.TypeTimestamp,
		),
		sortType:   SortInt,
		indexValue: integerIndexValue,
		queryValue: integerIndexValue,
		fields:     integerFields,
		compare:    compareScalar,
	},
	TypeBoolean: {
		supports:   typeSet(catalog.TypeASCII, catalog.TypeText, catalog.TypeVarchar, catalog.TypeBoolean),
		sortType:   SortString,
		indexValue: booleanIndexValue,
		queryValue: booleanIndexValue,
		fields:     exactFields,
		compare:    compareScalar,
	},
	TypeBlob: {
		supports:   typeSet(catalog.TypeASCII, catalog.TypeText, catalog.TypeVarchar, catalog.TypeBlob),
		sortType:   SortString,
		indexValue: blobIndexValue,
		queryValue: blobIndexValue,
		fields:     exactFields,
		compare:    compareScalar,
	},
	TypeStructured: {
		supports:   typeSet(catalog.TypeASCII, catalog.TypeText, catalog.TypeVarchar, catalog.TypeBlob),
		sortType:   SortString,
		indexValue: structuredIndexValue,
		queryValue: structuredQueryValue,
		fields:     structuredFields,
		compare:    compareStructured,
	},
}

// Mapper maps the values of one field. It is immutable and safe for
// concurrent use.
type Mapper struct {
	typ             Type
	ops             *variant
	stored          bool
	boost           float64
	depthLimit      int
	caseInsensitive bool
	analyzer        *fts.Analyzer
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithStored marks emitted fields as retrievable. Any mapper type.
func WithStored(stored bool) Option {
	return func(m *Mapper) { m.stored = stored }
}

// WithBoost sets the boost of emitted fields. Integer mappers only.
func WithBoost(boost float64) Option {
	return func(m *Mapper) { m.boost = boost }
}

// WithDepthLimit sets how many nested map levels are flattened. Structured mappers only.
func WithDepthLimit(limit int) Option {
	return func(m *Mapper) { m.depthLimit = limit }
}

// WithCaseInsensitive lower-cases string leaves and compares ignoring case.
// Structured mappers only.
func WithCaseInsensitive(ci bool) Option {
	return func(m *Mapper) { m.caseInsensitive = ci }
}

// WithAnalyzer sets the analyzer of a text mapper.
func WithAnalyzer(a *fts.Analyzer) Option {
	return func(m *Mapper) { m.analyzer = a }
}

// New builds a mapper of the given type.
func New(typ Type, opts ...Option) (*Mapper, error) {
	ops, ok := variants[typ]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDefinition, typ)
	}
	m := &Mapper{
		typ:        typ,
		ops:        ops,
		boost:      1.0,
		depthLimit: DefaultDepthLimit,
	}
	for _, opt := range opts {
		opt(m)
	}

	if typ != TypeInteger && m.boost != 1.0 {
		return nil, fmt.Errorf("%w: boost is not an option of %s", ErrInvalidDefinition, typ)
	}
	if math.IsNaN(m.boost) || math.IsInf(m.boost, 0) || m.boost < 0 {
		return nil, fmt.Errorf("%w: boost must be a non-negative number, got %v", ErrInvalidDefinition, m.boost)
	}
	if typ != TypeStructured && (m.depthLimit != DefaultDepthLimit || m.caseInsensitive) {
		return nil, fmt.Errorf("%w: depth_limit and case_insensitive are options of structured, not %s", ErrInvalidDefinition, typ)
	}
	if m.depthLimit < 0 {
		return nil, fmt.Errorf("%w: depth_limit must be non-negative, got %d", ErrInvalidDefinition, m.depthLimit)
	}
	if typ != TypeText && m.analyzer != nil {
		return nil, fmt.Errorf("%w: analyzer is not an option of %s", ErrInvalidDefinition, typ)
	}
	return m, nil
}

// MustNew is New for mappers known to be valid; it panics otherwise.
func MustNew(typ Type, opts ...Option) *Mapper {
	m, err := New(typ, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Type returns the mapper variant.
func (m *Mapper) Type() Type { return m.typ }

// Stored reports whether emitted fields are retrievable.
func (m *Mapper) Stored() bool { return m.stored }

// Boost returns the field boost (1 unless an integer mapper sets it).
func (m *Mapper) Boost() float64 { return m.boost }

// DepthLimit returns the structured depth limit.
func (m *Mapper) DepthLimit() int { return m.depthLimit }

// CaseInsensitive reports whether structured strings ignore case.
func (m *Mapper) CaseInsensitive() bool { return m.caseInsensitive }

// HasAnalyzer reports whether a text mapper was given its own analyzer.
func (m *Mapper) HasAnalyzer() bool { return m.analyzer != nil }

// Analyzer returns the analyzer used for the mapper's fields: nil for every
// type but text. A text mapper without its own analyzer uses "standard"
// until a schema binds its default with WithDefaultAnalyzer.
func (m *Mapper) Analyzer() *fts.Analyzer {
	if m.typ != TypeText {
		return nil
	}
	if m.analyzer != nil {
		return m.analyzer
	}
	a, _ := fts.Lookup("standard")
	return a
}

// WithDefaultAnalyzer returns a text mapper without its own analyzer bound to
// a. Any other mapper is returned unchanged.
func (m *Mapper) WithDefaultAnalyzer(a *fts.Analyzer) *Mapper {
	if m.typ != TypeText || m.analyzer != nil || a == nil {
		return m
	}
	cp := *m
	cp.analyzer = a
	return &cp
}

// IndexValue coerces v into the mapper's domain. Null maps to null.
func (m *Mapper) IndexValue(v value.Value) (value.Value, error) {
	if v.IsNull() {
		return value.Null(), nil
	}
	return m.ops.indexValue(m, v)
}

// QueryValue normalizes a query-time value so it matches what IndexValue
// (or the flattener) stored.
func (m *Mapper) QueryValue(v value.Value) (value.Value, error) {
	if v.IsNull() {
		return value.Null(), nil
	}
	return m.ops.queryValue(m, v)
}

// Fields returns the index fields for v under name. Null yields no fields.
func (m *Mapper) Fields(name string, v value.Value) ([]Field, error) {
	if v.IsNull() {
		return nil, nil
	}
	return m.ops.fields(m, name, v)
}

// SortKey describes how the index orders the field.
func (m *Mapper) SortKey(field string, reverse bool) SortKey {
	return SortKey{Field: field, Type: m.ops.sortType, Reverse: reverse}
}

// Compare orders two column values. A nil pointer is a missing column; a
// missing column sorts after a present one and two missing columns are
// equal. Scalar mappers treat null and unmappable values as missing.
func (m *Mapper) Compare(a, b *value.Value) int {
	return m.ops.compare(m, a, b)
}

// Supports reports whether a column of storage type t can be mapped.
// Collections are checked by their value type.
func (m *Mapper) Supports(t catalog.Type) bool {
	return m.ops.supports[t.ElementType()]
}

// String returns a short description such as "integer(boost=2)".
func (m *Mapper) String() string {
	var opts []string
	if m.stored {
		opts = append(opts, "stored")
	}
	switch m.typ {
	case TypeInteger:
		if m.boost != 1.0 {
			opts = append(opts, fmt.Sprintf("boost=%g", m.boost))
		}
	case TypeStructured:
		opts = append(opts, fmt.Sprintf("depth_limit=%d", m.depthLimit))
		if m.caseInsensitive {
			opts = append(opts, "case_insensitive")
		}
	case TypeText:
		if m.analyzer != nil {
			opts = append(opts, "analyzer="+m.analyzer.Name())
		}
	}
	if len(opts) == 0 {
		return string(m.typ)
	}
	return string(m.typ) + "(" + strings.Join(opts, ",") + ")"
}
