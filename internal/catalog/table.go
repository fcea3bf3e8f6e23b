package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// ColumnKind is the role a column plays in its table.
type ColumnKind string

const (
	KindRegular       ColumnKind = "regular"
	KindStatic        ColumnKind = "static"
	KindPartitionKey  ColumnKind = "partition_key"
	KindClusteringKey ColumnKind = "clustering_key"
)

// IsValid returns true if k is a recognized column kind.
func (k ColumnKind) IsValid() bool {
	switch k {
	case KindRegular, KindStatic, KindPartitionKey, KindClusteringKey:
		return true
	default:
		return false
	}
}

// Column is the catalog entry of one stored column.
type Column struct {
	Name string     `json:"name"`
	Type Type       `json:"type"`
	Kind ColumnKind `json:"kind,omitempty"`
}

// Table is the catalog of a single table.
type Table struct {
	Keyspace string   `json:"keyspace"`
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
}

// NewTable builds and validates a table. Column types are canonicalized and an
// empty kind defaults to regular.
func NewTable(keyspace, name string, columns ...Column) (*Table, error) {
	t := &Table{Keyspace: keyspace, Name: name, Columns: make([]Column, len(columns))}
	for i, c := range columns {
		if c.Kind == "" {
			c.Kind = KindRegular
		}
		if c.Type != "" {
			parsed, err := ParseType(string(c.Type))
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", c.Name, err)
			}
			c.Type = parsed
		}
		t.Columns[i] = c
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// QualifiedName returns "keyspace.name", or just the name if no keyspace is set.
func (t *Table) QualifiedName() string {
	if t.Keyspace == "" {
		return t.Name
	}
	return t.Keyspace + "." + t.Name
}

// Validate checks that every column has a unique name, a valid type and a valid kind.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: table name is empty", ErrInvalidTable)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: column name is empty", ErrInvalidTable)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
		if !c.Type.IsValid() {
			return fmt.Errorf("column %q: %w: %q", c.Name, ErrInvalidType, c.Type)
		}
		if !c.Kind.IsValid() {
			return fmt.Errorf("column %q: %w: %q", c.Name, ErrInvalidColumnKind, c.Kind)
		}
	}
	return nil
}

// Decode parses a JSON table catalog.
func Decode(data []byte) (*Table, error) {
	var raw Table
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return NewTable(raw.Keyspace, raw.Name, raw.Columns...)
}

// ReadFile reads and parses a JSON table catalog from disk.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Decode(data)
}
