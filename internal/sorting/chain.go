package sorting

import "github.com/vexsearch/fieldmap/internal/schema"

// Comparator orders the column sets of two records.
type Comparator func(a, b schema.Columns) int

// Reverse inverts a comparator.
func Reverse(c Comparator) Comparator {
	return func(a, b schema.Columns) int { return -c(a, b) }
}

// Chain applies comparators in order and returns the first non-zero result.
type Chain []Comparator

// Compare implements Comparator over the whole chain.
func (c Chain) Compare(a, b schema.Columns) int {
	for _, cmp := range c {
		if r := cmp(a, b); r != 0 {
			return r
		}
	}
	return 0
}
