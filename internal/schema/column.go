package schema

import "github.com/vexsearch/fieldmap/internal/value"

// Column is one decoded cell of a record, ready for mapping.
//
// Name is the logical column name. FieldName is the name fields are emitted
// under; it differs from Name for map entries ("tags" vs "tags.color").
// NameSuffix holds the map key of such an entry and is empty otherwise.
type Column struct {
	Name       string
	FieldName  string
	NameSuffix string
	Value      value.Value
}

// NewColumn returns a column whose field name equals its name.
func NewColumn(name string, v value.Value) Column {
	return Column{Name: name, FieldName: name, Value: v}
}

// Columns is the ordered column set of one record. Several columns may share
// a name.
type Columns []Column

// Add appends a column and returns the extended set.
func (cs Columns) Add(c Column) Columns {
	if c.FieldName == "" {
		c.FieldName = c.Name
	}
	return append(cs, c)
}

// ByName returns the columns with the given name, in order.
func (cs Columns) ByName(name string) Columns {
	var out Columns
	for _, c := range cs {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ByFieldName returns the columns with the given field name, in order.
func (cs Columns) ByFieldName(field string) Columns {
	var out Columns
	for _, c := range cs {
		if c.FieldName == field {
			out = append(out, c)
		}
	}
	return out
}

// First returns the value of the first column named name, or nil.
func (cs Columns) First(name string) *value.Value {
	for i := range cs {
		if cs[i].Name == name {
			return &cs[i].Value
		}
	}
	return nil
}

// FirstField is First keyed by field name.
func (cs Columns) FirstField(field string) *value.Value {
	for i := range cs {
		if cs[i].FieldName == field {
			return &cs[i].Value
		}
	}
	return nil
}
