// Package catalog describes the storage-side column types that mapped fields
// are validated against.
package catalog

import (
	"fmt"
	"strings"
)

// Type is a storage column type. Scalar types use their CQL names;
// collections are written "list<T>", "set<T>" and "map<K,V>".
type Type string

const (
	TypeASCII     Type = "ascii"
	TypeText      Type = "text"
	TypeVarchar   Type = "varchar"
	TypeInt       Type = "int"
	TypeBigint    Type = "bigint"
	TypeVarint    Type = "varint"
	TypeFloat     Type = "float"
	TypeDouble    Type = "double"
	TypeDecimal   Type = "decimal"
	TypeBoolean   Type = "boolean"
	TypeUUID      Type = "uuid"
	TypeTimeUUID  Type = "timeuuid"
	TypeTimestamp Type = "timestamp"
	TypeBlob      Type = "blob"
	TypeInet      Type = "inet"
)

// IsScalarValid returns true if t is one of the recognized scalar types.
func (t Type) IsScalarValid() bool {
	switch t {
	case TypeASCII, TypeText, TypeVarchar, TypeInt, TypeBigint, TypeVarint,
		TypeFloat, TypeDouble, TypeDecimal, TypeBoolean, TypeUUID, TypeTimeUUID,
		TypeTimestamp, TypeBlob, TypeInet:
		return true
	default:
		return false
	}
}

// IsValid returns true if t is a recognized scalar or a collection of recognized types.
func (t Type) IsValid() bool {
	_, err := ParseType(string(t))
	return err == nil
}

// IsCollection returns true for list, set and map types.
func (t Type) IsCollection() bool {
	return t.IsList() || t.IsSet() || t.IsMap()
}

// IsList returns true for "list<T>".
func (t Type) IsList() bool { return strings.HasPrefix(string(t), "list<") }

// IsSet returns true for "set<T>".
func (t Type) IsSet() bool { return strings.HasPrefix(string(t), "set<") }

// IsMap returns true for "map<K,V>".
func (t Type) IsMap() bool { return strings.HasPrefix(string(t), "map<") }

// ElementType returns the value type of a collection, or the type itself if scalar.
// For maps this is the value type V.
func (t Type) ElementType() Type {
	args, ok := t.args()
	if !ok {
		return t
	}
	return args[len(args)-1]
}

// KeyType returns the key type of a map, or the empty type otherwise.
func (t Type) KeyType() Type {
	if !t.IsMap() {
		return ""
	}
	args, ok := t.args()
	if !ok || len(args) != 2 {
		return ""
	}
	return args[0]
}

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

func (t Type) args() ([]Type, bool) {
	s := string(t)
	open := strings.IndexByte(s, '<')
	if open < 0 || !strings.HasSuffix(s, ">") {
		return nil, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	out := make([]Type, len(parts))
	for i, p := range parts {
		out[i] = Type(p)
	}
	return out, true
}

// ParseType parses a type name into its canonical form: lower case with no
// whitespace inside collection brackets ("Map<Text, Int>" becomes "map<text,int>").
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if norm == "" {
		return "", fmt.Errorf("%w: empty type", ErrInvalidType)
	}

	open := strings.IndexByte(norm, '<')
	if open < 0 {
		t := Type(norm)
		if !t.IsScalarValid() {
			return "", fmt.Errorf("%w: %s", ErrInvalidType, s)
		}
		return t, nil
	}
	if !strings.HasSuffix(norm, ">") {
		return "", fmt.Errorf("%w: %s", ErrInvalidType, s)
	}

	kind := norm[:open]
	args := strings.Split(norm[open+1:len(norm)-1], ",")
	want := 1
	if kind == "map" {
		want = 2
	} else if kind != "list" && kind != "set" {
		return "", fmt.Errorf("%w: unknown collection %q", ErrInvalidType, kind)
	}
	if len(args) != want {
		return "", fmt.Errorf("%w: %s takes %d type arguments", ErrInvalidType, kind, want)
	}
	for _, a := range args {
		if !Type(a).IsScalarValid() {
			return "", fmt.Errorf("%w: %s", ErrInvalidType, s)
		}
	}
	return Type(norm), nil
}

// MustParseType is ParseType for literals known to be valid; it panics otherwise.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}
