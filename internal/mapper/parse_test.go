package mapper

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vexsearch/fieldmap/internal/fts"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		def     map[string]any
		want    string
		wantErr bool
	}{
		{name: "text", def: map[string]any{"type": "text"}, want: "text"},
		{name: "upper case type", def: map[string]any{"type": "INTEGER"}, want: "integer"},
		{name: "integer boost", def: map[string]any{"type": "integer", "boost": 2.5, "stored": true}, want: "integer(stored,boost=2.5)"},
		{name: "structured", def: map[string]any{"type": "structured", "depth_limit": 3, "case_insensitive": true}, want: "structured(depth_limit=3,case_insensitive)"},
		{name: "missing type", def: map[string]any{"stored": true}, wantErr: true},
		{name: "non-string type", def: map[string]any{"type": 1}, wantErr: true},
		{name: "unknown type", def: map[string]any{"type": "geo"}, wantErr: true},
		{name: "unknown option", def: map[string]any{"type": "string", "facet": true}, wantErr: true},
		{name: "stored not bool", def: map[string]any{"type": "string", "stored": "yes"}, wantErr: true},
		{name: "fractional depth", def: map[string]any{"type": "structured", "depth_limit": 1.5}, wantErr: true},
		{name: "negative depth", def: map[string]any{"type": "structured", "depth_limit": -1}, wantErr: true},
		{name: "boost on text", def: map[string]any{"type": "text", "boost": 2.0}, wantErr: true},
		{name: "unknown analyzer", def: map[string]any{"type": "text", "analyzer": "klingon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.def)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDefinition) {
					t.Fatalf("Parse() error = %v, want ErrInvalidDefinition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAnalyzer(t *testing.T) {
	m, err := Parse(map[string]any{"type": "text", "analyzer": "english"})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Analyzer().Name(); got != "english" {
		t.Errorf("Analyzer().Name() = %q, want english", got)
	}

	_, err = Parse(map[string]any{"type": "text", "analyzer": "klingon"})
	if !errors.Is(err, fts.ErrUnknownAnalyzer) {
		t.Errorf("Parse() error = %v, want it to wrap fts.ErrUnknownAnalyzer", err)
	}
}

func TestParseJSON(t *testing.T) {
	m, err := ParseJSON([]byte(`{"type": "structured", "depth_limit": 4}`))
	if err != nil {
		t.Fatal(err)
	}
	if m.DepthLimit() != 4 {
		t.Errorf("DepthLimit() = %d, want 4", m.DepthLimit())
	}

	for _, bad := range []string{``, `null`, `[]`, `{"type":`} {
		if _, err := ParseJSON([]byte(bad)); !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("ParseJSON(%q) error = %v, want ErrInvalidDefinition", bad, err)
		}
	}
}

func TestDefinitionRoundTrip(t *testing.T) {
	custom, err := fts.NewAnalyzer("folded", &fts.Config{Tokenizer: "whitespace", Language: "french", ASCIIFolding: true})
	if err != nil {
		t.Fatal(err)
	}
	english, err := fts.Lookup("english")
	if err != nil {
		t.Fatal(err)
	}

	mappers := []*Mapper{
		MustNew(TypeString),
		MustNew(TypeBoolean, WithStored(true)),
		MustNew(TypeBlob),
		MustNew(TypeInteger, WithBoost(3)),
		MustNew(TypeStructured, WithDepthLimit(5), WithCaseInsensitive(true)),
		MustNew(TypeText, WithAnalyzer(english)),
		MustNew(TypeText, WithAnalyzer(custom)),
	}

	for _, m := range mappers {
		t.Run(m.String(), func(t *testing.T) {
			def := m.Definition()
			parsed, err := Parse(def)
			if err != nil {
				t.Fatalf("Parse(%v) error = %v", def, err)
			}
			if parsed.String() != m.String() {
				t.Errorf("round trip = %s, want %s", parsed, m)
			}
			if !reflect.DeepEqual(parsed.Definition(), def) {
				t.Errorf("Definition() = %v, want %v", parsed.Definition(), def)
			}
		})
	}
}

func TestDefinitionOmitsDefaults(t *testing.T) {
	def := MustNew(TypeStructured).Definition()
	if !reflect.DeepEqual(def, map[string]any{"type": "structured"}) {
		t.Errorf("Definition() = %v, want only the type", def)
	}
}
