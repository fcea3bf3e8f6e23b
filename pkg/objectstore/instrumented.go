package objectstore

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/vexsearch/fieldmap/internal/metrics"
)

// InstrumentedStore reports latency, outcome and payload size of every call
// to the store it wraps.
type InstrumentedStore struct {
	inner Store
}

func NewInstrumentedStore(inner Store) *InstrumentedStore {
	return &InstrumentedStore{inner: inner}
}

// Unwrap returns the wrapped store.
func (s *InstrumentedStore) Unwrap() Store { return s.inner }

func observe(op string, start time.Time, err error) {
	metrics.ObserveObjectStoreOp(op, outcome(err), time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "conflict"
	default:
		return "error"
	}
}

// countingReader reports the bytes read through it when closed.
type countingReader struct {
	io.ReadCloser
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	r.n += int64(n)
	return n, err
}

func (r *countingReader) Close() error {
	metrics.AddObjectStoreBytes("read", r.n)
	r.n = 0
	return r.ReadCloser.Close()
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	start := time.Now()
	rc, info, err := s.inner.Get(ctx, key)
	observe("get", start, err)
	if err != nil {
		return nil, nil, err
	}
	return &countingReader{ReadCloser: rc}, info, nil
}

func (s *InstrumentedStore) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	start := time.Now()
	info, err := s.inner.Head(ctx, key)
	observe("head", start, err)
	return info, err
}

func (s *InstrumentedStore) Put(ctx context.Context, key string, body io.Reader, size int64, opts *PutOptions) (*ObjectInfo, error) {
	return s.put(ctx, "put", s.inner.Put, key, body, size, opts)
}

func (s *InstrumentedStore) PutIfAbsent(ctx context.Context, key string, body io.Reader, size int64, opts *PutOptions) (*ObjectInfo, error) {
	return s.put(ctx, "put_if_absent", s.inner.PutIfAbsent, key, body, size, opts)
}

type putFunc func(ctx context.Context, key string, body io.Reader, size int64, opts *PutOptions) (*ObjectInfo, error)

func (s *InstrumentedStore) put(ctx context.Context, op string, fn putFunc, key string, body io.Reader, size int64, opts *PutOptions) (*ObjectInfo, error) {
	start := time.Now()
	info, err := fn(ctx, key, body, size, opts)
	observe(op, start, err)
	if err == nil && info != nil {
		metrics.AddObjectStoreBytes("write", info.Size)
	}
	return info, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	observe("delete", start, err)
	return err
}

func (s *InstrumentedStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	start := time.Now()
	objects, err := s.inner.List(ctx, prefix)
	observe("list", start, err)
	return objects, err
}
