package objectstore

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory     = "memory"
	BackendFilesystem = "fs"
	BackendS3         = "s3"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Root is the directory of the fs backend.
	Root string
	S3   S3Config
}

// Open builds the configured backend wrapped with metrics. The s3 bucket is
// created when missing.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case "", BackendMemory:
		store = NewMemoryStore()
	case BackendFilesystem:
		if cfg.Root == "" {
			return nil, fmt.Errorf("fs object store needs a root directory")
		}
		store, err = NewFSStore(cfg.Root)
	case BackendS3:
		var s3 *S3Store
		s3, err = NewS3Store(cfg.S3)
		if err == nil {
			err = s3.EnsureBucket(ctx)
		}
		store = s3
	default:
		return nil, fmt.Errorf("unknown object store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewInstrumentedStore(store), nil
}
