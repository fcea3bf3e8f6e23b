package schema

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vexsearch/fieldmap/pkg/objectstore"
)

// Load reads a JSON schema definition from object storage and builds it.
// The schema is named after key unless opts name it.
func Load(ctx context.Context, store objectstore.Store, key string, opts ...Option) (*Schema, error) {
	data, _, err := objectstore.ReadAll(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %q: %w", key, err)
	}
	return FromJSON(data, append([]Option{WithName(key)}, opts...)...)
}

// Save writes the schema's definition to object storage under key.
func Save(ctx context.Context, store objectstore.Store, key string, s *Schema) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	_, err = store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), &objectstore.PutOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to write schema %q: %w", key, err)
	}
	return nil
}
