package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vexsearch/fieldmap/internal/fts"
)

// Parse builds a mapper from its declarative form, e.g.
//
//	{"type": "structured", "depth_limit": 3, "case_insensitive": true}
//
// Recognized options: stored (all types), boost (integer), depth_limit and
// case_insensitive (structured), analyzer (text; a built-in name or an
// analyzer object).
func Parse(def map[string]any) (*Mapper, error) {
	rawType, ok := def["type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidDefinition)
	}
	typeName, ok := rawType.(string)
	if !ok || typeName == "" {
		return nil, fmt.Errorf("%w: type must be a non-empty string, got %v", ErrInvalidDefinition, rawType)
	}
	typ := Type(strings.ToLower(typeName))
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDefinition, typeName)
	}

	keys := make([]string, 0, len(def))
	for k := range def {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var opts []Option
	for _, key := range keys {
		raw := def[key]
		switch key {
		case "type":
			continue
		case "stored":
			b, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: stored must be a boolean, got %T", ErrInvalidDefinition, raw)
			}
			opts = append(opts, WithStored(b))
		case "boost":
			f, ok := toFloat(raw)
			if !ok {
				return nil, fmt.Errorf("%w: boost must be a number, got %T", ErrInvalidDefinition, raw)
			}
			opts = append(opts, WithBoost(f))
		case "depth_limit":
			f, ok := toFloat(raw)
			if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
				return nil, fmt.Errorf("%w: depth_limit must be an integer, got %v", ErrInvalidDefinition, raw)
			}
			opts = append(opts, WithDepthLimit(int(f)))
		case "case_insensitive":
			b, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: case_insensitive must be a boolean, got %T", ErrInvalidDefinition, raw)
			}
			opts = append(opts, WithCaseInsensitive(b))
		case "analyzer":
			a, err := fts.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: analyzer: %w", ErrInvalidDefinition, err)
			}
			opts = append(opts, WithAnalyzer(a))
		default:
			return nil, fmt.Errorf("%w: unknown option %q for %s", ErrInvalidDefinition, key, typ)
		}
	}
	return New(typ, opts...)
}

// ParseJSON builds a mapper from a JSON object.
func ParseJSON(data []byte) (*Mapper, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var def map[string]any
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: definition must be an object", ErrInvalidDefinition)
	}
	return Parse(def)
}

// Definition returns the declarative form of the mapper; Parse accepts it.
// Only options that differ from their defaults are included.
func (m *Mapper) Definition() map[string]any {
	def := map[string]any{"type": string(m.typ)}
	if m.stored {
		def["stored"] = true
	}
	switch m.typ {
	case TypeInteger:
		if m.boost != 1.0 {
			def["boost"] = m.boost
		}
	case TypeStructured:
		if m.depthLimit != DefaultDepthLimit {
			def["depth_limit"] = m.depthLimit
		}
		if m.caseInsensitive {
			def["case_insensitive"] = true
		}
	case TypeText:
		if m.analyzer != nil {
			if _, err := fts.Lookup(m.analyzer.Name()); err == nil {
				def["analyzer"] = m.analyzer.Name()
			} else {
				cfg := m.analyzer.Config()
				obj := cfg.ToMap()
				obj["name"] = m.analyzer.Name()
				def["analyzer"] = obj
			}
		}
	}
	return def
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
