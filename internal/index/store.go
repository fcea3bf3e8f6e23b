package index

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vexsearch/fieldmap/internal/schema"
	"github.com/vexsearch/fieldmap/pkg/objectstore"
)

const snapshotContentType = "application/vnd.fieldmap.index"

// Save writes a snapshot of idx to store under key, replacing any object
// already there.
func Save(ctx context.Context, store objectstore.Store, key string, idx *Index) error {
	data, err := idx.Snapshot()
	if err != nil {
		return err
	}
	_, err = store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), &objectstore.PutOptions{
		ContentType: snapshotContentType,
		Checksum:    objectstore.Checksum(data),
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot %q: %w", key, err)
	}
	return nil
}

// Load reads the snapshot under key and restores it for s.
func Load(ctx context.Context, store objectstore.Store, key string, s *schema.Schema) (*Index, error) {
	data, _, err := objectstore.ReadAll(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", key, err)
	}
	idx, err := LoadSnapshot(data, s)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", key, err)
	}
	return idx, nil
}
