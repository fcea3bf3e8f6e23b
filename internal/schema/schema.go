package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vexsearch/fieldmap/internal/fts"
	"github.com/vexsearch/fieldmap/internal/logging"
	"github.com/vexsearch/fieldmap/internal/mapper"
	"github.com/vexsearch/fieldmap/internal/metrics"
	"github.com/vexsearch/fieldmap/internal/value"
)

// DefaultAnalyzer is the analyzer used for text fields when the schema does
// not name one.
const DefaultAnalyzer = "standard"

// Schema maps field names to mappers. It is immutable after New and safe
// for concurrent use.
type Schema struct {
	name      string
	mappers   map[string]*mapper.Mapper
	index     *trie
	analyzers *fts.AnalyzerSet
	logger    *logging.Logger
}

type options struct {
	name            string
	defaultAnalyzer string
	analyzer        *fts.Analyzer
	logger          *logging.Logger
}

// Option configures a Schema.
type Option func(*options)

// WithDefaultAnalyzer names the built-in analyzer used by text fields that do
// not configure their own.
func WithDefaultAnalyzer(name string) Option {
	return func(o *options) {
		o.defaultAnalyzer = name
		o.analyzer = nil
	}
}

func withAnalyzer(a *fts.Analyzer) Option {
	return func(o *options) {
		o.analyzer = a
		o.defaultAnalyzer = ""
	}
}

// WithLogger sets the logger mapping failures are reported to.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithName sets the name the schema logs under.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// New builds a schema from declared field mappers.
func New(mappers map[string]*mapper.Mapper, opts ...Option) (*Schema, error) {
	o := options{defaultAnalyzer: DefaultAnalyzer}
	for _, opt := range opts {
		opt(&o)
	}

	def := o.analyzer
	if def == nil {
		a, err := fts.Lookup(o.defaultAnalyzer)
		if err != nil {
			return nil, fmt.Errorf("%w: default analyzer: %w", ErrInvalidSchema, err)
		}
		def = a
	}
	logger := o.logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Schema{
		name:    o.name,
		mappers: make(map[string]*mapper.Mapper, len(mappers)),
		index:   newTrie(),
		logger:  logger,
	}
	perField := make(map[string]*fts.Analyzer)
	for name, m := range mappers {
		if err := ValidateFieldName(name); err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, name, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, name, ErrNilMapper)
		}
		if m.HasAnalyzer() {
			perField[name] = m.Analyzer()
		}
		m = m.WithDefaultAnalyzer(def)
		s.mappers[name] = m
		s.index.insert(name, m)
	}
	s.analyzers = fts.NewAnalyzerSet(def, perField)
	return s, nil
}

// Mapper returns the mapper that handles field, or nil.
func (s *Schema) Mapper(field string) *mapper.Mapper {
	m, _, _ := s.Resolve(field)
	return m
}

// Resolve finds the mapper for field: the mapper declared under field
// itself, else the one declared under its longest dotted prefix. It also
// returns the declared name that matched.
func (s *Schema) Resolve(field string) (*mapper.Mapper, string, bool) {
	if m, ok := s.mappers[field]; ok {
		return m, field, true
	}
	return s.index.longestPrefix(field)
}

// Fields returns the declared field names, sorted.
func (s *Schema) Fields() []string {
	names := make([]string, 0, len(s.mappers))
	for name := range s.mappers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.mappers) }

// Name returns the name set with WithName.
func (s *Schema) Name() string { return s.name }

// Analyzers returns the schema's analyzer configuration.
func (s *Schema) Analyzers() *fts.AnalyzerSet { return s.analyzers }

// EmitFields maps a record's columns to index fields.
//
// A column with a name suffix also yields an unstored exact field named after
// the column holding the suffix, so map keys can be matched on their own.
// Columns no mapper resolves are skipped. A column whose value its mapper
// rejects is skipped too and reported as a *ColumnError; the returned error
// joins all of them while the fields of the other columns are still returned.
func (s *Schema) EmitFields(columns Columns) ([]mapper.Field, error) {
	return s.EmitFieldsContext(context.Background(), columns)
}

// EmitFieldsContext is EmitFields with the context's log fields attached to
// failure reports.
func (s *Schema) EmitFieldsContext(ctx context.Context, columns Columns) ([]mapper.Field, error) {
	var (
		fields []mapper.Field
		errs   []error
	)
	for _, c := range columns {
		field := c.FieldName
		if field == "" {
			field = c.Name
		}
		if c.NameSuffix != "" {
			fields = append(fields, mapper.Field{
				Name:  c.Name,
				Kind:  mapper.FieldExact,
				Value: value.String(c.NameSuffix),
				Boost: 1,
			})
		}

		m, _, ok := s.Resolve(field)
		if !ok {
			metrics.IncUnmappedColumn()
			continue
		}
		out, err := m.Fields(field, c.Value)
		metrics.ObserveColumn(string(m.Type()), err)
		if err != nil {
			s.logger.WithContext(ctx).WithMapping(logging.MappingInfo{
				Schema: s.name,
				Field:  field,
				Mapper: string(m.Type()),
			}).Warn("column not mapped", "column", c.Name, "error", err)
			errs = append(errs, &ColumnError{Column: c.Name, Field: field, Mapper: string(m.Type()), Err: err})
			continue
		}
		fields = append(fields, out...)
	}

	countFields(fields)
	return fields, errors.Join(errs...)
}

func countFields(fields []mapper.Field) {
	counts := make(map[mapper.FieldKind]int, 3)
	for _, f := range fields {
		counts[f.Kind]++
	}
	for kind, n := range counts {
		metrics.AddFieldsEmitted(kind.String(), n)
	}
}
