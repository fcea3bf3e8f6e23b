package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vexsearch/fieldmap/pkg/objectstore"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.SchemaKey != "schema.json" {
		t.Errorf("expected schema key schema.json, got %s", cfg.SchemaKey)
	}
	if cfg.ObjectStore.Type != objectstore.BackendFilesystem {
		t.Errorf("expected fs object store, got %s", cfg.ObjectStore.Type)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.Level())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FIELDMAP_SCHEMA_KEY", "schemas/people.json")
	t.Setenv("FIELDMAP_CATALOG_PATH", "/etc/fieldmap/people.table.json")
	t.Setenv("FIELDMAP_LOG_LEVEL", "debug")
	t.Setenv("FIELDMAP_OBJECT_STORE_TYPE", "s3")
	t.Setenv("FIELDMAP_OBJECT_STORE_BUCKET", "mappings")
	t.Setenv("FIELDMAP_OBJECT_STORE_USE_SSL", "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SchemaKey != "schemas/people.json" {
		t.Errorf("schema key = %s", cfg.SchemaKey)
	}
	if cfg.CatalogPath != "/etc/fieldmap/people.table.json" {
		t.Errorf("catalog path = %s", cfg.CatalogPath)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.Level())
	}

	sc := cfg.ObjectStore.StoreConfig()
	if sc.Backend != objectstore.BackendS3 || sc.S3.Bucket != "mappings" || !sc.S3.UseSSL {
		t.Errorf("store config = %+v", sc)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"schema_key": "people.json",
		"snapshot_key": "snapshots/people.fmix",
		"default_analyzer": "french",
		"object_store": {"type": "fs", "root_path": "/var/lib/fieldmap"}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapshotKey != "snapshots/people.fmix" || cfg.DefaultAnalyzer != "french" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.ObjectStore.RootPath != "/var/lib/fieldmap" {
		t.Errorf("root path = %s", cfg.ObjectStore.RootPath)
	}
	// untouched keys keep their defaults
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %s", cfg.LogLevel)
	}

	t.Setenv("FIELDMAP_SCHEMA_KEY", "override.json")
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SchemaKey != "override.json" {
		t.Errorf("env did not override file: %s", cfg.SchemaKey)
	}
}

func TestLoadFromConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"schema_key": "from-env.json"}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FIELDMAP_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SchemaKey != "from-env.json" {
		t.Errorf("schema key = %s", cfg.SchemaKey)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"bad json", `{`, nil},
		{"bad log level", `{"log_level": "loud"}`, nil},
		{"bad store type", `{"object_store": {"type": "tape"}}`, nil},
		{"empty schema key", `{"schema_key": ""}`, nil},
		{"bad env log level", `{}`, map[string]string{"FIELDMAP_LOG_LEVEL": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
