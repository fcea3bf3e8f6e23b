// Package document holds the records read from storage: their IDs, typed
// cells and projection to schema columns.
package document

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MaxStringIDBytes is the maximum size for string record IDs.
const MaxStringIDBytes = 64

// IDType represents the type of a record ID.
type IDType int

const (
	IDTypeU64 IDType = iota
	IDTypeUUID
	IDTypeString
)

func (t IDType) String() string {
	switch t {
	case IDTypeU64:
		return "u64"
	case IDTypeUUID:
		return "uuid"
	case IDTypeString:
		return "string"
	default:
		return "unknown"
	}
}

// ID identifies a record: an unsigned integer, a UUID or a short string.
type ID struct {
	typ  IDType
	u64  uint64
	uuid uuid.UUID
	str  string
}

// ValidationError reports an invalid record attribute.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidID(format string, args ...any) error {
	return &ValidationError{Field: "id", Message: fmt.Sprintf(format, args...)}
}

// NewU64ID creates an ID from a uint64 value.
func NewU64ID(v uint64) ID { return ID{typ: IDTypeU64, u64: v} }

// NewUUIDID creates an ID from a UUID value.
func NewUUIDID(v uuid.UUID) ID { return ID{typ: IDTypeUUID, uuid: v} }

// NewStringID creates an ID from a non-empty string of at most
// MaxStringIDBytes bytes.
func NewStringID(v string) (ID, error) {
	if v == "" {
		return ID{}, invalidID("empty ID is not allowed")
	}
	if len(v) > MaxStringIDBytes {
		return ID{}, invalidID("string ID exceeds maximum length of %d bytes (got %d bytes)", MaxStringIDBytes, len(v))
	}
	return ID{typ: IDTypeString, str: v}, nil
}

// Type returns the type of this ID.
func (id ID) Type() IDType { return id.typ }

// U64 returns the integer value of a u64 ID, or 0.
func (id ID) U64() uint64 { return id.u64 }

// UUID returns the value of a UUID ID, or the nil UUID.
func (id ID) UUID() uuid.UUID { return id.uuid }

// String returns the plain textual form of the ID.
func (id ID) String() string {
	switch id.typ {
	case IDTypeU64:
		return strconv.FormatUint(id.u64, 10)
	case IDTypeUUID:
		return id.uuid.String()
	default:
		return id.str
	}
}

// Key returns the ID with a type prefix ("u64:", "uuid:", "str:") so that
// ParseIDKey restores the same type.
func (id ID) Key() string {
	switch id.typ {
	case IDTypeU64:
		return "u64:" + strconv.FormatUint(id.u64, 10)
	case IDTypeUUID:
		return "uuid:" + hex.EncodeToString(id.uuid[:])
	default:
		return "str:" + id.str
	}
}

// ParseID normalizes a record ID from a decoded JSON value or a Go value.
// Non-negative integers (including whole floats and json.Number) become u64
// IDs, canonical UUID strings become UUID IDs and other strings stay strings.
func ParseID(v any) (ID, error) {
	switch val := v.(type) {
	case uint64:
		return NewU64ID(val), nil
	case uint:
		return NewU64ID(uint64(val)), nil
	case uint32:
		return NewU64ID(uint64(val)), nil
	case int:
		return signedID(int64(val))
	case int32:
		return signedID(int64(val))
	case int64:
		return signedID(val)
	case float64:
		if val < 0 || val >= 1<<64 || val != float64(uint64(val)) {
			return ID{}, invalidID("numeric ID must be a non-negative integer, got %v", val)
		}
		return NewU64ID(uint64(val)), nil
	case json.Number:
		u, err := strconv.ParseUint(val.String(), 10, 64)
		if err != nil {
			return ID{}, invalidID("invalid numeric ID %q", val.String())
		}
		return NewU64ID(u), nil
	case uuid.UUID:
		return NewUUIDID(val), nil
	case string:
		if len(val) == 36 && strings.Count(val, "-") == 4 {
			if u, err := uuid.Parse(val); err == nil {
				return NewUUIDID(u), nil
			}
		}
		return NewStringID(val)
	case nil:
		return ID{}, invalidID("missing ID")
	default:
		return ID{}, invalidID("unsupported ID type %T", v)
	}
}

func signedID(v int64) (ID, error) {
	if v < 0 {
		return ID{}, invalidID("negative integer IDs are not allowed")
	}
	return NewU64ID(uint64(v)), nil
}

// ParseIDKey parses the output of ID.Key.
func ParseIDKey(s string) (ID, error) {
	prefix, rest, ok := strings.Cut(s, ":")
	if !ok {
		return ID{}, invalidID("unsupported ID key format %q", s)
	}
	switch prefix {
	case "u64":
		u, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return ID{}, invalidID("invalid u64 ID %q", rest)
		}
		return NewU64ID(u), nil
	case "uuid":
		raw, err := hex.DecodeString(rest)
		if err != nil || len(raw) != 16 {
			return ID{}, invalidID("invalid uuid ID %q", rest)
		}
		var u uuid.UUID
		copy(u[:], raw)
		return NewUUIDID(u), nil
	case "str":
		return NewStringID(rest)
	default:
		return ID{}, invalidID("unsupported ID key format %q", s)
	}
}

// MarshalJSON implements json.Marshaler for ID.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.typ == IDTypeU64 {
		return json.Marshal(id.u64)
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler for ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Equal reports whether two IDs have the same type and value.
func (id ID) Equal(other ID) bool { return id.Compare(other) == 0 }

// Compare orders IDs by type (u64 < uuid < string), then by value.
func (id ID) Compare(other ID) int {
	if id.typ != other.typ {
		return cmp.Compare(id.typ, other.typ)
	}
	switch id.typ {
	case IDTypeU64:
		return cmp.Compare(id.u64, other.u64)
	case IDTypeUUID:
		return bytes.Compare(id.uuid[:], other.uuid[:])
	default:
		return strings.Compare(id.str, other.str)
	}
}
