package schema

import (
	"fmt"

	"github.com/vexsearch/fieldmap/internal/catalog"
)

// Validate checks the schema against the table it indexes: every declared
// field must name an existing, non-static column whose storage type its
// mapper supports. The first violation is returned, wrapping
// ErrSchemaMismatch.
func (s *Schema) Validate(table *catalog.Table) error {
	if table == nil {
		return fmt.Errorf("%w: no table", ErrSchemaMismatch)
	}
	for _, name := range s.Fields() {
		m := s.mappers[name]
		col, ok := table.Column(name)
		if !ok {
			return fmt.Errorf("%w: no column %q in %s for mapper %s", ErrSchemaMismatch, name, table.QualifiedName(), m.Type())
		}
		if col.Kind == catalog.KindStatic {
			return fmt.Errorf("%w: static column %q cannot be indexed", ErrSchemaMismatch, name)
		}
		if !m.Supports(col.Type) {
			return fmt.Errorf("%w: mapper %s does not support column %q of type %s", ErrSchemaMismatch, m.Type(), name, col.Type)
		}
	}
	return nil
}
