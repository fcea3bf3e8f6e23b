// Package clitest sets up a throwaway fieldmap workspace for command tests.
package clitest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/vexsearch/fieldmap/internal/schema"
	"github.com/vexsearch/fieldmap/pkg/objectstore"
)

const Schema = `{
	"default_analyzer": "english",
	"fields": {
		"name": {"type": "string", "stored": true},
		"age":  {"type": "integer"},
		"bio":  {"type": "text"},
		"tags": {"type": "string"}
	}
}`

const Catalog = `{
	"keyspace": "demo",
	"name": "people",
	"columns": [
		{"name": "name", "type": "text"},
		{"name": "age",  "type": "int"},
		{"name": "bio",  "type": "text"},
		{"name": "tags", "type": "map<text,text>"}
	]
}`

const Records = `{"id": 1, "cells": {"name": "Cleo", "age": 41, "bio": "Runs a small bakery", "tags": {"team": "blue"}}}
{"id": 2, "cells": {"name": "ann", "age": 29, "bio": "Plays chess"}}
{"id": 3, "cells": {"name": "Bob", "bio": "Running late", "tags": {"team": "red"}}}
`

// Workspace is a config file wired to a filesystem store and a catalog.
type Workspace struct {
	Dir         string
	ConfigPath  string
	RecordsPath string
	Store       objectstore.Store
}

// New writes the catalog, records and config into a temp dir and stores
// Schema under the configured key. A test that only needs the config can
// pass storeSchema false.
func New(t *testing.T, storeSchema bool) *Workspace {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "catalog.json")
	recordsPath := filepath.Join(dir, "records.json")
	write(t, catalogPath, Catalog)
	write(t, recordsPath, Records)

	cfg := map[string]any{
		"schema_key":   "schemas/people.json",
		"snapshot_key": "indexes/people.fmix",
		"catalog_path": catalogPath,
		"log_level":    "error",
		"object_store": map[string]any{
			"type":      objectstore.BackendFilesystem,
			"root_path": filepath.Join(dir, "store"),
		},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "config.json")
	write(t, configPath, string(data))

	store, err := objectstore.NewFSStore(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatal(err)
	}
	if storeSchema {
		s, err := schema.FromJSON([]byte(Schema))
		if err != nil {
			t.Fatal(err)
		}
		if err := schema.Save(context.Background(), store, "schemas/people.json", s); err != nil {
			t.Fatal(err)
		}
	}
	return &Workspace{Dir: dir, ConfigPath: configPath, RecordsPath: recordsPath, Store: store}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
