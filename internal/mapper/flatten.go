package mapper

import (
	"strings"

	"github.com/vexsearch/fieldmap/internal/metrics"
	"github.com/vexsearch/fieldmap/internal/value"
)

// flatten appends the leaf fields of v under name to out.
//
// depth counts the maps already descended into. Arrays are transparent and
// keep the depth of their parent; a map reached at depth >= depthLimit is
// dropped whole. Map entries whose key is not a bool, number or string are
// skipped.
func (m *Mapper) flatten(name string, v value.Value, depth int, out []Field) []Field {
	switch v.Kind() {
	case value.KindBool, value.KindBytes:
		out = append(out, m.exactLeaf(name, v.Text()))

	case value.KindInt, value.KindFloat:
		n, _ := v.Number()
		out = append(out, Field{Name: name, Kind: FieldNumeric, Stored: m.stored, Value: value.Float(n), Boost: m.boost})

	case value.KindString:
		s, _ := v.AsString()
		if m.caseInsensitive {
			s = strings.ToLower(s)
		}
		out = append(out, m.exactLeaf(name, s))

	case value.KindArray:
		items, _ := v.AsArray()
		for _, item := range items {
			out = m.flatten(name, item, depth, out)
		}

	case value.KindMap:
		if depth >= m.depthLimit {
			metrics.IncStructuredTruncation()
			return out
		}
		pairs, _ := v.AsMap()
		for _, p := range pairs {
			if !p.Key.IsKey() {
				continue
			}
			out = m.flatten(name+"."+p.Key.Text(), p.Val, depth+1, out)
		}

	default:
		// null and extension values emit nothing
	}
	return out
}

func (m *Mapper) exactLeaf(name, text string) Field {
	return Field{Name: name, Kind: FieldExact, Stored: m.stored, Value: value.String(text), Boost: m.boost}
}

// Lookup follows a dotted path of map keys through v. Arrays are searched in
// order for the first item the rest of the path resolves in.
func Lookup(v value.Value, path string) (value.Value, bool) {
	if path == "" {
		return v, true
	}
	head, rest, _ := strings.Cut(path, ".")

	switch v.Kind() {
	case value.KindMap:
		next, ok := v.Get(head)
		if !ok {
			return value.Null(), false
		}
		return Lookup(next, rest)
	case value.KindArray:
		items, _ := v.AsArray()
		for _, item := range items {
			if found, ok := Lookup(item, path); ok {
				return found, true
			}
		}
	}
	return value.Null(), false
}
