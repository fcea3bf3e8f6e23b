package catalog

import "errors"

var (
	ErrInvalidType       = errors.New("invalid column type")
	ErrInvalidColumnKind = errors.New("invalid column kind")
	ErrInvalidTable      = errors.New("invalid table")
	ErrDuplicateColumn   = errors.New("duplicate column")
	ErrTypeMismatch      = errors.New("type mismatch")
)
