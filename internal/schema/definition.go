package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vexsearch/fieldmap/internal/fts"
	"github.com/vexsearch/fieldmap/internal/mapper"
	"github.com/vexsearch/fieldmap/internal/version"
)

// Definition is the declarative form of a schema:
//
//	{
//	  "default_analyzer": "english",
//	  "fields": {
//	    "title":   {"type": "text"},
//	    "age":     {"type": "integer", "boost": 2},
//	    "address": {"type": "structured", "depth_limit": 3}
//	  }
//	}
//
// default_analyzer is a built-in analyzer name or an analyzer object. A
// missing version means the current one.
type Definition struct {
	Version         int                       `json:"version,omitempty"`
	DefaultAnalyzer any                       `json:"default_analyzer,omitempty"`
	Fields          map[string]map[string]any `json:"fields"`
}

// ParseDefinition decodes a JSON schema definition.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if def.Version != 0 {
		if err := version.CheckSchemaVersion(def.Version); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
	}
	if def.Fields == nil {
		return nil, fmt.Errorf("%w: fields is required", ErrInvalidSchema)
	}
	return &def, nil
}

// Build constructs the schema the definition describes. opts are applied
// after the definition's own settings.
func (d *Definition) Build(opts ...Option) (*Schema, error) {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	mappers := make(map[string]*mapper.Mapper, len(names))
	for _, name := range names {
		if d.Fields[name] == nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, name, ErrNilMapper)
		}
		m, err := mapper.Parse(d.Fields[name])
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, name, err)
		}
		mappers[name] = m
	}

	var all []Option
	if d.DefaultAnalyzer != nil {
		a, err := fts.Parse(d.DefaultAnalyzer)
		if err != nil {
			return nil, fmt.Errorf("%w: default analyzer: %w", ErrInvalidSchema, err)
		}
		all = append(all, withAnalyzer(a))
	}
	return New(mappers, append(all, opts...)...)
}

// FromJSON parses a JSON definition and builds its schema.
func FromJSON(data []byte, opts ...Option) (*Schema, error) {
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	return def.Build(opts...)
}

// Definition returns the declarative form of the schema.
func (s *Schema) Definition() *Definition {
	def := &Definition{
		Version: version.SchemaFormatVersionCurrent,
		Fields:  make(map[string]map[string]any, len(s.mappers)),
	}
	if a := s.analyzers.Default(); a.Name() != DefaultAnalyzer {
		def.DefaultAnalyzer = analyzerDefinition(a)
	}
	overrides := make(map[string]bool)
	for _, name := range s.analyzers.Fields() {
		overrides[name] = true
	}
	for name, m := range s.mappers {
		fd := m.Definition()
		if !overrides[name] {
			delete(fd, "analyzer")
		}
		def.Fields[name] = fd
	}
	return def
}

// MarshalJSON encodes the schema as its definition.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Definition())
}

func analyzerDefinition(a *fts.Analyzer) any {
	if builtin, err := fts.Lookup(a.Name()); err == nil && builtin.Config() == a.Config() {
		return a.Name()
	}
	cfg := a.Config()
	obj := cfg.ToMap()
	obj["name"] = a.Name()
	return obj
}
