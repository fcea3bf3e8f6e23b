// Package index is an in-memory field index over the fields a schema emits.
//
// Documents get dense internal uint32 ids in insertion order. Terms are kept
// as roaring bitmaps per field, numbers as per-document value lists, and each
// field keeps the smallest value of every document for sorting.
package index

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/vexsearch/fieldmap/internal/document"
	"github.com/vexsearch/fieldmap/internal/mapper"
	"github.com/vexsearch/fieldmap/internal/metrics"
	"github.com/vexsearch/fieldmap/internal/schema"
	"github.com/vexsearch/fieldmap/internal/value"
)

var (
	ErrUnknownField     = errors.New("field not in schema")
	ErrDocumentNotFound = errors.New("document not found")
)

type posting struct {
	field string
	term  string
}

// Index is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	schema *schema.Schema

	ids  []document.ID
	docs map[string]uint32 // ID.Key() -> live internal id
	live *roaring.Bitmap

	terms   map[string]map[string]*roaring.Bitmap
	numbers map[string]map[uint32][]float64
	sorts   map[string]map[uint32]value.Value
	stored  map[uint32]map[string][]value.Value

	// postings of each live doc, for removal
	byDoc map[uint32][]posting
}

// New returns an empty index for fields emitted by s.
func New(s *schema.Schema) *Index {
	return &Index{
		schema:  s,
		docs:    make(map[string]uint32),
		live:    roaring.New(),
		terms:   make(map[string]map[string]*roaring.Bitmap),
		numbers: make(map[string]map[uint32][]float64),
		sorts:   make(map[string]map[uint32]value.Value),
		stored:  make(map[uint32]map[string][]value.Value),
		byDoc:   make(map[uint32][]posting),
	}
}

// Schema returns the schema the index was built for.
func (idx *Index) Schema() *schema.Schema { return idx.schema }

// Add indexes fields under id and returns the internal id. A document already
// indexed under id is replaced.
func (idx *Index) Add(id document.ID, fields []mapper.Field) uint32 {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.docs[id.Key()]; ok {
		idx.remove(old)
	}
	doc := uint32(len(idx.ids))
	idx.ids = append(idx.ids, id)
	idx.docs[id.Key()] = doc
	idx.live.Add(doc)

	for _, f := range fields {
		switch f.Kind {
		case mapper.FieldText:
			a := f.Analyzer
			if a == nil {
				a = idx.schema.Analyzers().For(f.Name)
			}
			for _, tok := range a.Analyze(f.Text()) {
				idx.addTerm(doc, f.Name, tok)
			}
			idx.addSortValue(doc, f.Name, value.String(f.Text()))
		case mapper.FieldExact:
			idx.addTerm(doc, f.Name, f.Text())
			idx.addSortValue(doc, f.Name, value.String(f.Text()))
		case mapper.FieldNumeric:
			perDoc := idx.numbers[f.Name]
			if perDoc == nil {
				perDoc = make(map[uint32][]float64)
				idx.numbers[f.Name] = perDoc
			}
			perDoc[doc] = append(perDoc[doc], f.Number())
			idx.addSortValue(doc, f.Name, f.Value)
		}
		if f.Stored {
			fieldsOf := idx.stored[doc]
			if fieldsOf == nil {
				fieldsOf = make(map[string][]value.Value)
				idx.stored[doc] = fieldsOf
			}
			fieldsOf[f.Name] = append(fieldsOf[f.Name], f.Value)
		}
	}

	metrics.SetIndexDocuments(idx.live.GetCardinality())
	return doc
}

func (idx *Index) addTerm(doc uint32, field, term string) {
	byTerm := idx.terms[field]
	if byTerm == nil {
		byTerm = make(map[string]*roaring.Bitmap)
		idx.terms[field] = byTerm
	}
	bm := byTerm[term]
	if bm == nil {
		bm = roaring.New()
		byTerm[term] = bm
	}
	if bm.CheckedAdd(doc) {
		idx.byDoc[doc] = append(idx.byDoc[doc], posting{field: field, term: term})
	}
}

func (idx *Index) addSortValue(doc uint32, field string, v value.Value) {
	perDoc := idx.sorts[field]
	if perDoc == nil {
		perDoc = make(map[uint32]value.Value)
		idx.sorts[field] = perDoc
	}
	if cur, ok := perDoc[doc]; !ok || value.Compare(v, cur, value.CompareOptions{}) < 0 {
		perDoc[doc] = v
	}
}

// Delete removes the document indexed under id.
func (idx *Index) Delete(id document.ID) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	doc, ok := idx.docs[id.Key()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	idx.remove(doc)
	metrics.SetIndexDocuments(idx.live.GetCardinality())
	return nil
}

func (idx *Index) remove(doc uint32) {
	for _, p := range idx.byDoc[doc] {
		bm := idx.terms[p.field][p.term]
		if bm == nil {
			continue
		}
		bm.Remove(doc)
		if bm.IsEmpty() {
			delete(idx.terms[p.field], p.term)
		}
	}
	delete(idx.byDoc, doc)
	for _, perDoc := range idx.numbers {
		delete(perDoc, doc)
	}
	for _, perDoc := range idx.sorts {
		delete(perDoc, doc)
	}
	delete(idx.stored, doc)
	delete(idx.docs, idx.ids[doc].Key())
	idx.live.Remove(doc)
}

// Len returns the number of live documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return int(idx.live.GetCardinality())
}

// All returns the internal ids of every live document.
func (idx *Index) All() *roaring.Bitmap {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.live.Clone()
}

// Lookup returns the internal id of a live document.
func (idx *Index) Lookup(id document.ID) (uint32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	doc, ok := idx.docs[id.Key()]
	return doc, ok
}

// ID returns the document id behind an internal id.
func (idx *Index) ID(doc uint32) (document.ID, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if !idx.live.Contains(doc) {
		return document.ID{}, false
	}
	return idx.ids[doc], true
}

// IDs returns the document ids of docs, in order, skipping dead ones.
func (idx *Index) IDs(docs []uint32) []document.ID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]document.ID, 0, len(docs))
	for _, doc := range docs {
		if idx.live.Contains(doc) {
			out = append(out, idx.ids[doc])
		}
	}
	return out
}

// Stored returns the stored field values of a document.
func (idx *Index) Stored(id document.ID) (map[string][]value.Value, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	doc, ok := idx.docs[id.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	out := make(map[string][]value.Value, len(idx.stored[doc]))
	for name, vals := range idx.stored[doc] {
		out[name] = slices.Clone(vals)
	}
	return out, nil
}

// Term returns the documents whose field matches raw.
//
// raw is normalized with the field's mapper first. Numbers match by value,
// text fields match documents containing every term of the analyzed query,
// and everything else matches the exact term.
func (idx *Index) Term(field string, raw value.Value) (*roaring.Bitmap, error) {
	m := idx.schema.Mapper(field)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	q, err := m.QueryValue(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize query on %q: %w", field, err)
	}
	if q.IsNull() {
		return roaring.New(), nil
	}
	if n, ok := q.Number(); ok {
		return idx.rangeLocked(field, n, n), nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if m.Type() == mapper.TypeText {
		tokens := m.Analyzer().Analyze(q.Text())
		if len(tokens) == 0 {
			return roaring.New(), nil
		}
		var result *roaring.Bitmap
		for _, tok := range tokens {
			bm := idx.terms[field][tok]
			if bm == nil {
				return roaring.New(), nil
			}
			if result == nil {
				result = bm.Clone()
			} else {
				result.And(bm)
			}
		}
		return result, nil
	}
	if bm := idx.terms[field][q.Text()]; bm != nil {
		return bm.Clone(), nil
	}
	return roaring.New(), nil
}

// Range returns the documents with a numeric value of field in [min, max].
// Use math.Inf for an open bound.
func (idx *Index) Range(field string, min, max float64) (*roaring.Bitmap, error) {
	if idx.schema.Mapper(field) == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return idx.rangeLocked(field, min, max), nil
}

func (idx *Index) rangeLocked(field string, min, max float64) *roaring.Bitmap {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := roaring.New()
	for doc, vals := range idx.numbers[field] {
		for _, v := range vals {
			if v >= min && v <= max {
				out.Add(doc)
				break
			}
		}
	}
	return out
}

// SortDocs orders docs by keys. Each document sorts on its smallest value
// of the key's field; a document without one, or with a non-numeric value
// under a numeric sort type, sorts last in either direction. Ties keep
// internal id order.
func (idx *Index) SortDocs(docs []uint32, keys []mapper.SortKey) []uint32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := slices.Clone(docs)
	slices.SortStableFunc(out, func(a, b uint32) int {
		for _, k := range keys {
			va, okA := idx.sortValue(k, a)
			vb, okB := idx.sortValue(k, b)
			switch {
			case !okA && !okB:
				continue
			case !okA:
				return 1
			case !okB:
				return -1
			}
			c := value.Compare(va, vb, value.CompareOptions{})
			if k.Reverse {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func (idx *Index) sortValue(k mapper.SortKey, doc uint32) (value.Value, bool) {
	v, ok := idx.sorts[k.Field][doc]
	if !ok {
		return value.Value{}, false
	}
	switch k.Type {
	case mapper.SortInt, mapper.SortDouble:
		n, ok := v.Number()
		if !ok || math.IsNaN(n) {
			return value.Value{}, false
		}
	}
	return v, true
}

// Terms returns the distinct terms indexed for field, sorted.
func (idx *Index) Terms(field string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.terms[field]))
	for term := range idx.terms[field] {
		out = append(out, term)
	}
	slices.Sort(out)
	return out
}
