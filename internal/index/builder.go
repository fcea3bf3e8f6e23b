package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/vexsearch/fieldmap/internal/document"
	"github.com/vexsearch/fieldmap/internal/logging"
	"github.com/vexsearch/fieldmap/internal/schema"
)

// Builder feeds records through a schema into an index.
type Builder struct {
	schema *schema.Schema
	index  *Index
	logger *logging.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger sets the builder's logger.
func WithBuilderLogger(l *logging.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithIndex makes the builder add to an existing index instead of a new one.
func WithIndex(idx *Index) BuilderOption {
	return func(b *Builder) { b.index = idx }
}

// NewBuilder creates a builder for s.
func NewBuilder(s *schema.Schema, opts ...BuilderOption) *Builder {
	b := &Builder{schema: s, logger: logging.Discard()}
	for _, opt := range opts {
		opt(b)
	}
	if b.index == nil {
		b.index = New(s)
	}
	return b
}

// Add indexes one record. Columns the schema fails to map are left out and
// returned as the error; the rest of the record is still indexed.
func (b *Builder) Add(ctx context.Context, rec *document.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = logging.ContextWithRecordID(ctx, rec.ID.String())

	fields, err := b.schema.EmitFieldsContext(ctx, rec.Columns())
	doc := b.index.Add(rec.ID, fields)
	b.logger.WithContext(ctx).Debug("record indexed", "doc", doc, "fields", len(fields))
	if err != nil {
		return fmt.Errorf("record %s: %w", rec.ID, err)
	}
	return nil
}

// AddAll indexes records in order and returns how many were indexed without
// column errors. It stops early only when ctx is done.
func (b *Builder) AddAll(ctx context.Context, records []*document.Record) (int, error) {
	var (
		clean int
		errs  []error
	)
	for _, rec := range records {
		if err := b.Add(ctx, rec); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return clean, errors.Join(append(errs, ctxErr)...)
			}
			errs = append(errs, err)
			continue
		}
		clean++
	}
	return clean, errors.Join(errs...)
}

// Index returns the index being built.
func (b *Builder) Index() *Index { return b.index }
