package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/vexsearch/fieldmap/internal/catalog"
	"github.com/vexsearch/fieldmap/internal/schema"
	"github.com/vexsearch/fieldmap/internal/value"
)

var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrUnknownCell   = errors.New("cell is not a column of the table")
)

// Cell is one stored column value of a record.
type Cell struct {
	Name  string
	Type  catalog.Type
	Value value.Value
}

// Record is a row read from storage. Timestamp is the storage write time in
// milliseconds; mapping ignores it.
type Record struct {
	ID        ID
	Cells     []Cell
	Timestamp int64
}

// Cell returns the cell with the given name.
func (r *Record) Cell(name string) (Cell, bool) {
	for _, c := range r.Cells {
		if c.Name == name {
			return c, true
		}
	}
	return Cell{}, false
}

// Columns projects the record to schema columns.
//
// A map cell yields one column per entry, named after the cell, with field
// name "cell.key" and the key as name suffix; entries whose key cannot name a
// field are dropped. A list or set cell yields one column per element. Other
// cells yield a single column.
func (r Record) Columns() schema.Columns {
	var cols schema.Columns
	for _, c := range r.Cells {
		switch {
		case c.Type.IsMap() && c.Value.Kind() == value.KindMap:
			pairs, _ := c.Value.AsMap()
			for _, p := range pairs {
				if !p.Key.IsKey() {
					continue
				}
				key := p.Key.Text()
				cols = cols.Add(schema.Column{
					Name:       c.Name,
					FieldName:  c.Name + "." + key,
					NameSuffix: key,
					Value:      p.Val,
				})
			}
		case (c.Type.IsList() || c.Type.IsSet()) && c.Value.Kind() == value.KindArray:
			items, _ := c.Value.AsArray()
			for _, item := range items {
				cols = cols.Add(schema.NewColumn(c.Name, item))
			}
		default:
			cols = cols.Add(schema.NewColumn(c.Name, c.Value))
		}
	}
	return cols
}

type rawRecord struct {
	ID        any            `json:"id"`
	Timestamp int64          `json:"timestamp,omitempty"`
	Cells     map[string]any `json:"cells"`
}

// DecodeRecord decodes a JSON record
//
//	{"id": 1, "timestamp": 1700000000000, "cells": {"name": "Ann", "age": 30}}
//
// converting each cell with the type of its table column. Cells are kept in
// table column order; a cell the table does not declare is an error.
func DecodeRecord(data []byte, table *catalog.Table) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw rawRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return buildRecord(raw, table)
}

// ReadRecords decodes a stream of JSON records, one object after another
// (newline-delimited or not).
func ReadRecords(r io.Reader, table *catalog.Table) ([]*Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var records []*Record
	for {
		var raw rawRecord
		err := dec.Decode(&raw)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, len(records), err)
		}
		rec, err := buildRecord(raw, table)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}

func buildRecord(raw rawRecord, table *catalog.Table) (*Record, error) {
	id, err := ParseID(raw.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	unknown := make([]string, 0)
	for name := range raw.Cells {
		if _, ok := table.Column(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownCell, unknown[0], table.QualifiedName())
	}

	rec := &Record{ID: id, Timestamp: raw.Timestamp}
	for _, col := range table.Columns {
		rawValue, ok := raw.Cells[col.Name]
		if !ok {
			continue
		}
		v, err := catalog.Coerce(col.Type, rawValue)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %q: %w", ErrInvalidRecord, col.Name, err)
		}
		rec.Cells = append(rec.Cells, Cell{Name: col.Name, Type: col.Type, Value: v})
	}
	return rec, nil
}
