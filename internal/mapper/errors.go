package mapper

import "errors"

var (
	// ErrUnsupportedValue is returned when a value cannot be coerced into a
	// mapper's domain.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrInvalidDefinition is returned for malformed mapper definitions.
	ErrInvalidDefinition = errors.New("invalid mapper definition")
)
