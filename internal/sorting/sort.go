// Package sorting orders records by a list of fields, comparing each field
// with the mapper the schema declares for it.
package sorting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vexsearch/fieldmap/internal/mapper"
	"github.com/vexsearch/fieldmap/internal/schema"
)

var (
	ErrInvalidSort       = errors.New("invalid sort")
	ErrUnmappedSortField = errors.New("sort field has no mapper")
)

// SortField is one ordering criterion.
type SortField struct {
	Field   string `json:"field"`
	Reverse bool   `json:"reverse,omitempty"`
}

// String returns "field asc" or "field desc".
func (f SortField) String() string {
	if f.Reverse {
		return f.Field + " desc"
	}
	return f.Field + " asc"
}

// Sort is an ordered list of criteria; later fields break ties of earlier ones.
type Sort struct {
	Fields []SortField `json:"fields"`
}

// String returns the criteria joined by commas.
func (s Sort) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

// Validate checks that the sort has at least one field and no empty names.
func (s Sort) Validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: no sort fields", ErrInvalidSort)
	}
	for i, f := range s.Fields {
		if f.Field == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidSort, i)
		}
	}
	return nil
}

// ParseSort decodes a sort in either form:
//
//	{"fields": [{"field": "age", "reverse": true}, {"field": "name"}]}
//	[["age", "desc"], ["name", "asc"]]
func ParseSort(data []byte) (Sort, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Sort{}, fmt.Errorf("%w: %v", ErrInvalidSort, err)
	}

	var list []any
	switch v := raw.(type) {
	case map[string]any:
		fields, ok := v["fields"].([]any)
		if !ok {
			return Sort{}, fmt.Errorf("%w: fields must be an array", ErrInvalidSort)
		}
		list = fields
	case []any:
		list = v
	default:
		return Sort{}, fmt.Errorf("%w: expected an object or array, got %T", ErrInvalidSort, raw)
	}

	var s Sort
	for i, item := range list {
		f, err := parseSortField(item)
		if err != nil {
			return Sort{}, fmt.Errorf("%w: field %d: %v", ErrInvalidSort, i, err)
		}
		s.Fields = append(s.Fields, f)
	}
	return s, s.Validate()
}

func parseSortField(item any) (SortField, error) {
	switch v := item.(type) {
	case string:
		return SortField{Field: v}, nil
	case []any:
		if len(v) != 2 {
			return SortField{}, fmt.Errorf("expected [field, direction], got %d elements", len(v))
		}
		field, ok := v[0].(string)
		if !ok {
			return SortField{}, fmt.Errorf("field name must be a string, got %T", v[0])
		}
		dir, _ := v[1].(string)
		switch strings.ToLower(dir) {
		case "asc":
			return SortField{Field: field}, nil
		case "desc":
			return SortField{Field: field, Reverse: true}, nil
		default:
			return SortField{}, fmt.Errorf("direction must be asc or desc, got %v", v[1])
		}
	case map[string]any:
		field, ok := v["field"].(string)
		if !ok {
			return SortField{}, fmt.Errorf("field must be a string, got %T", v["field"])
		}
		f := SortField{Field: field}
		if r, ok := v["reverse"]; ok {
			b, ok := r.(bool)
			if !ok {
				return SortField{}, fmt.Errorf("reverse must be a boolean, got %T", r)
			}
			f.Reverse = b
		}
		return f, nil
	default:
		return SortField{}, fmt.Errorf("unsupported sort field %T", item)
	}
}

// Comparator binds the field to the mapper the schema resolves for it.
//
// Columns are matched on field name. When a row has no column for the field
// itself but the field is a dotted path below the declared name (for example
// "address.city" under a structured "address"), the declared column is
// compared on the sub-value at the remaining path.
func (f SortField) Comparator(s *schema.Schema) (Comparator, error) {
	m, declared, ok := s.Resolve(f.Field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnmappedSortField, f.Field)
	}
	fc := &fieldComparator{field: f.Field, declared: declared, mapper: m}
	if declared != f.Field {
		fc.path = strings.TrimPrefix(f.Field, declared+".")
	}
	if f.Reverse {
		return Reverse(fc.compare), nil
	}
	return fc.compare, nil
}

// SortKey returns the index sort descriptor of the field.
func (f SortField) SortKey(s *schema.Schema) (mapper.SortKey, error) {
	m := s.Mapper(f.Field)
	if m == nil {
		return mapper.SortKey{}, fmt.Errorf("%w: %q", ErrUnmappedSortField, f.Field)
	}
	return m.SortKey(f.Field, f.Reverse), nil
}

type fieldComparator struct {
	field    string
	declared string
	path     string
	mapper   *mapper.Mapper
}

// compare falls back to matching columns by name when neither row has the
// field itself, so a map column sorts on its first entry's value.
func (c *fieldComparator) compare(a, b schema.Columns) int {
	va, vb := a.FirstField(c.field), b.FirstField(c.field)
	if va != nil || vb != nil {
		return c.mapper.Compare(va, vb)
	}
	if c.path != "" {
		return c.mapper.CompareAt(a.FirstField(c.declared), b.FirstField(c.declared), c.path)
	}
	return c.mapper.Compare(a.First(c.field), b.First(c.field))
}
