package schema

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFieldName    = errors.New("field name cannot be empty")
	ErrFieldNameTooLong  = errors.New("field name exceeds 128 characters")
	ErrFieldDollarPrefix = errors.New("field name cannot start with '$'")
	ErrEmptyPathSegment  = errors.New("field name has an empty path segment")
	ErrNilMapper         = errors.New("field has no mapper")
	ErrInvalidSchema     = errors.New("invalid schema definition")
	ErrSchemaMismatch    = errors.New("schema does not match table")
)

// ColumnError reports a column whose value its mapper could not map. The
// other columns of the record are still mapped.
type ColumnError struct {
	Column string
	Field  string
	Mapper string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q (field %q, mapper %s): %v", e.Column, e.Field, e.Mapper, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }
