// Package cli holds the setup shared by the fieldmap subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vexsearch/fieldmap/internal/catalog"
	"github.com/vexsearch/fieldmap/internal/config"
	"github.com/vexsearch/fieldmap/internal/document"
	"github.com/vexsearch/fieldmap/internal/logging"
	"github.com/vexsearch/fieldmap/internal/schema"
	"github.com/vexsearch/fieldmap/pkg/objectstore"
)

// Env is what every subcommand works against.
type Env struct {
	Config *config.Config
	Logger *logging.Logger
	Store  objectstore.Store
}

// Open loads the config at configPath, sets up logging to logOut and opens
// the configured object store.
func Open(ctx context.Context, configPath string, logOut io.Writer) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.NewWithLevel(logOut, cfg.Level())

	store, err := objectstore.Open(ctx, cfg.ObjectStore.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open object store: %w", err)
	}
	logger.Debug("object store opened", "backend", cfg.ObjectStore.Type)
	return &Env{Config: cfg, Logger: logger, Store: store}, nil
}

// Schema loads the configured schema.
func (e *Env) Schema(ctx context.Context) (*schema.Schema, error) {
	opts := []schema.Option{schema.WithLogger(e.Logger)}
	if e.Config.DefaultAnalyzer != "" {
		opts = append(opts, schema.WithDefaultAnalyzer(e.Config.DefaultAnalyzer))
	}
	return schema.Load(ctx, e.Store, e.Config.SchemaKey, opts...)
}

// Table reads the configured table catalog.
func (e *Env) Table() (*catalog.Table, error) {
	if e.Config.CatalogPath == "" {
		return nil, fmt.Errorf("no catalog_path configured")
	}
	return catalog.ReadFile(e.Config.CatalogPath)
}

// Records decodes records against the configured table, from path or from
// stdin when path is "" or "-".
func (e *Env) Records(path string, stdin io.Reader) ([]*document.Record, error) {
	table, err := e.Table()
	if err != nil {
		return nil, err
	}
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open records: %w", err)
		}
		defer f.Close()
		r = f
	}
	return document.ReadRecords(r, table)
}
