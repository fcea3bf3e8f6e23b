package sorting

import (
	"slices"

	"github.com/vexsearch/fieldmap/internal/mapper"
	"github.com/vexsearch/fieldmap/internal/metrics"
	"github.com/vexsearch/fieldmap/internal/schema"
)

// Row is anything that projects to schema columns.
type Row interface {
	Columns() schema.Columns
}

// RowComparator orders rows by a Sort. It resolves every sort field once at
// construction and is safe for concurrent use.
type RowComparator struct {
	sort  Sort
	chain Chain
	keys  []mapper.SortKey
}

// NewRowComparator binds each sort field of srt to its mapper in s.
func NewRowComparator(s *schema.Schema, srt Sort) (*RowComparator, error) {
	if err := srt.Validate(); err != nil {
		return nil, err
	}
	rc := &RowComparator{sort: srt}
	for _, f := range srt.Fields {
		c, err := f.Comparator(s)
		if err != nil {
			return nil, err
		}
		key, err := f.SortKey(s)
		if err != nil {
			return nil, err
		}
		rc.chain = append(rc.chain, c)
		rc.keys = append(rc.keys, key)
	}
	return rc, nil
}

// Sort returns the sort the comparator was built from.
func (rc *RowComparator) Sort() Sort { return rc.sort }

// SortKeys returns the index sort descriptors, one per sort field.
func (rc *RowComparator) SortKeys() []mapper.SortKey {
	return slices.Clone(rc.keys)
}

// Compare orders two rows.
func (rc *RowComparator) Compare(a, b Row) int {
	return rc.chain.Compare(a.Columns(), b.Columns())
}

// CompareColumns orders two already projected rows.
func (rc *RowComparator) CompareColumns(a, b schema.Columns) int {
	return rc.chain.Compare(a, b)
}

// SortRows stable-sorts rows, projecting each row once.
func SortRows[R Row](rc *RowComparator, rows []R) {
	type projected struct {
		row  R
		cols schema.Columns
	}
	items := make([]projected, len(rows))
	for i, r := range rows {
		items[i] = projected{row: r, cols: r.Columns()}
	}
	slices.SortStableFunc(items, func(x, y projected) int {
		return rc.chain.Compare(x.cols, y.cols)
	})
	for i := range items {
		rows[i] = items[i].row
	}
	metrics.AddRowsSorted(len(rows))
}
