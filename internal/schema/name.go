// Package schema maps the columns of a record to index fields through a set
// of per-field mappers.
package schema

import "strings"

// MaxFieldNameLength is the maximum length for declared field names.
const MaxFieldNameLength = 128

// ValidateFieldName validates a declared field name:
// - Up to 128 characters
// - Must not start with '$'
// - Dot-separated segments must be non-empty
func ValidateFieldName(name string) error {
	if name == "" {
		return ErrEmptyFieldName
	}
	if len(name) > MaxFieldNameLength {
		return ErrFieldNameTooLong
	}
	if name[0] == '$' {
		return ErrFieldDollarPrefix
	}
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return ErrEmptyPathSegment
		}
	}
	return nil
}
