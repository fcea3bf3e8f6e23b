package document

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vexsearch/fieldmap/internal/catalog"
	"github.com/vexsearch/fieldmap/internal/schema"
	"github.com/vexsearch/fieldmap/internal/value"
)

func peopleTable(t *testing.T) *catalog.Table {
	t.Helper()
	table, err := catalog.NewTable("app", "people",
		catalog.Column{Name: "id", Type: "bigint", Kind: catalog.KindPartitionKey},
		catalog.Column{Name: "name", Type: "text"},
		catalog.Column{Name: "age", Type: "int"},
		catalog.Column{Name: "tags", Type: "map<text,text>"},
		catalog.Column{Name: "emails", Type: "list<text>"},
		catalog.Column{Name: "address", Type: "blob"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func describe(cols schema.Columns) []string {
	var out []string
	for _, c := range cols {
		out = append(out, fmt.Sprintf("%s|%s|%s|%s", c.Name, c.FieldName, c.NameSuffix, c.Value))
	}
	return out
}

func TestRecordColumns(t *testing.T) {
	rec := Record{
		ID: NewU64ID(1),
		Cells: []Cell{
			{Name: "name", Type: catalog.TypeText, Value: value.String("Ann")},
			{Name: "tags", Type: "map<text,text>", Value: value.Map(
				value.Pair{Key: value.String("color"), Val: value.String("red")},
				value.Pair{Key: value.String("size"), Val: value.String("L")},
			)},
			{Name: "scores", Type: "map<int,int>", Value: value.Map(
				value.Pair{Key: value.Int(7), Val: value.Int(70)},
				value.Pair{Key: value.Null(), Val: value.Int(0)},
			)},
			{Name: "emails", Type: "list<text>", Value: value.Array(value.String("a@x"), value.String("b@x"))},
			{Name: "empty", Type: "set<text>", Value: value.Array()},
			{Name: "nothing", Type: "map<text,text>", Value: value.Null()},
		},
	}

	want := []string{
		`name|name||"Ann"`,
		`tags|tags.color|color|"red"`,
		`tags|tags.size|size|"L"`,
		`scores|scores.7|7|70`,
		`emails|emails||"a@x"`,
		`emails|emails||"b@x"`,
		`nothing|nothing||null`,
	}
	if got := describe(rec.Columns()); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestDecodeRecord(t *testing.T) {
	table := peopleTable(t)
	rec, err := DecodeRecord([]byte(`{
		"id": 42,
		"timestamp": 1700000000000,
		"cells": {
			"tags": {"b": "2", "a": "1"},
			"name": "Ann",
			"age": 30,
			"emails": ["a@x"],
			"address": "0x81a463697479a55061726973"
		}
	}`), table)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}

	if rec.ID.U64() != 42 || rec.Timestamp != 1700000000000 {
		t.Errorf("ID/Timestamp = %v/%d", rec.ID, rec.Timestamp)
	}
	var names []string
	for _, c := range rec.Cells {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"name", "age", "tags", "emails", "address"}) {
		t.Errorf("cell order = %v", names)
	}

	age, _ := rec.Cell("age")
	if !value.Equal(age.Value, value.Int(30)) || age.Type != catalog.TypeInt {
		t.Errorf("age = %v (%s)", age.Value, age.Type)
	}
	addr, _ := rec.Cell("address")
	decoded, err := value.Decode(mustBytes(t, addr.Value))
	if err != nil {
		t.Fatal(err)
	}
	if city, _ := decoded.Get("city"); !value.Equal(city, value.String("Paris")) {
		t.Errorf("address.city = %v, want Paris", city)
	}

	cols := rec.Columns()
	if got := cols.ByName("tags"); len(got) != 2 || got[0].NameSuffix != "a" {
		t.Errorf("tags columns = %+v", got)
	}
}

func mustBytes(t *testing.T, v value.Value) []byte {
	t.Helper()
	b, ok := v.AsBytes()
	if !ok {
		t.Fatalf("%v is not bytes", v)
	}
	return b
}

func TestDecodeRecordErrors(t *testing.T) {
	table := peopleTable(t)

	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{"bad json", `{"id":`, ErrInvalidRecord},
		{"missing id", `{"cells": {}}`, ErrInvalidRecord},
		{"negative id", `{"id": -1, "cells": {}}`, ErrInvalidRecord},
		{"unknown cell", `{"id": 1, "cells": {"phone": "555"}}`, ErrUnknownCell},
		{"type mismatch", `{"id": 1, "cells": {"age": "thirty"}}`, catalog.ErrTypeMismatch},
		{"bad blob", `{"id": 1, "cells": {"address": "0xzz"}}`, catalog.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(tt.json), table)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadRecords(t *testing.T) {
	table := peopleTable(t)
	input := `{"id": 1, "cells": {"name": "Ann"}}
{"id": "user-2", "cells": {"name": "Bob", "age": null}}
`
	records, err := ReadRecords(strings.NewReader(input), table)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].ID.Type() != IDTypeString {
		t.Errorf("second ID type = %s", records[1].ID.Type())
	}
	age, ok := records[1].Cell("age")
	if !ok || !age.Value.IsNull() {
		t.Errorf("age = %v, %v; want null cell", age.Value, ok)
	}

	_, err = ReadRecords(strings.NewReader(input+`{"id": 3, "cells": {"phone": "x"}}`), table)
	if !errors.Is(err, ErrUnknownCell) || !strings.Contains(err.Error(), "record 2") {
		t.Errorf("ReadRecords() error = %v, want ErrUnknownCell at record 2", err)
	}
}
