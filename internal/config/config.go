// Package config loads fieldmap settings from a JSON file and FIELDMAP_*
// environment variables. Environment variables win over the file.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/vexsearch/fieldmap/internal/logging"
	"github.com/vexsearch/fieldmap/pkg/objectstore"
)

type Config struct {
	// SchemaKey is the object key of the JSON schema definition.
	SchemaKey string `json:"schema_key"`
	// SnapshotKey is the object key index snapshots are written to.
	SnapshotKey string `json:"snapshot_key"`
	// CatalogPath is a local JSON file describing the table records are
	// decoded against.
	CatalogPath string `json:"catalog_path"`
	// DefaultAnalyzer overrides the schema's default analyzer when set.
	DefaultAnalyzer string            `json:"default_analyzer,omitempty"`
	LogLevel        string            `json:"log_level"`
	ObjectStore     ObjectStoreConfig `json:"object_store"`
}

type ObjectStoreConfig struct {
	Type      string `json:"type"`
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Region    string `json:"region"`
	UseSSL    bool   `json:"use_ssl"`
	RootPath  string `json:"root_path"`
}

// StoreConfig converts the settings for objectstore.Open.
func (c ObjectStoreConfig) StoreConfig() objectstore.Config {
	return objectstore.Config{
		Backend: c.Type,
		Root:    c.RootPath,
		S3: objectstore.S3Config{
			Endpoint:  c.Endpoint,
			Bucket:    c.Bucket,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
			Region:    c.Region,
			UseSSL:    c.UseSSL,
			Prefix:    c.Prefix,
		},
	}
}

func Default() *Config {
	return &Config{
		SchemaKey:   "schema.json",
		SnapshotKey: "index.fmix",
		LogLevel:    "info",
		ObjectStore: ObjectStoreConfig{
			Type:      objectstore.BackendFilesystem,
			RootPath:  ".fieldmap",
			Endpoint:  "http://localhost:9000",
			Bucket:    "fieldmap",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Region:    "us-east-1",
		},
	}
}

// Load reads path (or $FIELDMAP_CONFIG when path is empty) over the
// defaults, then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("FIELDMAP_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	if env := os.Getenv("FIELDMAP_SCHEMA_KEY"); env != "" {
		cfg.SchemaKey = env
	}
	if env := os.Getenv("FIELDMAP_SNAPSHOT_KEY"); env != "" {
		cfg.SnapshotKey = env
	}
	if env := os.Getenv("FIELDMAP_CATALOG_PATH"); env != "" {
		cfg.CatalogPath = env
	}
	if env := os.Getenv("FIELDMAP_DEFAULT_ANALYZER"); env != "" {
		cfg.DefaultAnalyzer = env
	}
	if env := os.Getenv("FIELDMAP_LOG_LEVEL"); env != "" {
		cfg.LogLevel = env
	}

	if env := os.Getenv("FIELDMAP_OBJECT_STORE_TYPE"); env != "" {
		cfg.ObjectStore.Type = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_ENDPOINT"); env != "" {
		cfg.ObjectStore.Endpoint = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_BUCKET"); env != "" {
		cfg.ObjectStore.Bucket = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_PREFIX"); env != "" {
		cfg.ObjectStore.Prefix = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_ROOT"); env != "" {
		cfg.ObjectStore.RootPath = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_ACCESS_KEY"); env != "" {
		cfg.ObjectStore.AccessKey = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_SECRET_KEY"); env != "" {
		cfg.ObjectStore.SecretKey = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_REGION"); env != "" {
		cfg.ObjectStore.Region = env
	}
	if env := os.Getenv("FIELDMAP_OBJECT_STORE_USE_SSL"); env != "" {
		cfg.ObjectStore.UseSSL = parseBoolEnv(env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch c.ObjectStore.Type {
	case objectstore.BackendMemory, objectstore.BackendFilesystem, objectstore.BackendS3:
	default:
		return fmt.Errorf("invalid object_store.type %q", c.ObjectStore.Type)
	}
	if c.SchemaKey == "" {
		return fmt.Errorf("schema_key is required")
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

func parseBoolEnv(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
