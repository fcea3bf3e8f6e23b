package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveColumn(t *testing.T) {
	ColumnsMapped.Reset()

	ObserveColumn("integer", nil)
	ObserveColumn("integer", nil)
	ObserveColumn("integer", errors.New("unsupported"))

	if val := testutil.ToFloat64(ColumnsMapped.WithLabelValues("integer", "success")); val != 2 {
		t.Errorf("expected 2 successes, got %f", val)
	}
	if val := testutil.ToFloat64(ColumnsMapped.WithLabelValues("integer", "error")); val != 1 {
		t.Errorf("expected 1 error, got %f", val)
	}
}

func TestAddFieldsEmitted(t *testing.T) {
	FieldsEmitted.Reset()

	AddFieldsEmitted("numeric", 3)
	AddFieldsEmitted("numeric", 0)
	AddFieldsEmitted("exact", 1)

	if val := testutil.ToFloat64(FieldsEmitted.WithLabelValues("numeric")); val != 3 {
		t.Errorf("expected 3 numeric fields, got %f", val)
	}
	if val := testutil.ToFloat64(FieldsEmitted.WithLabelValues("exact")); val != 1 {
		t.Errorf("expected 1 exact field, got %f", val)
	}
}

func TestStructuredCounters(t *testing.T) {
	decodeBefore := testutil.ToFloat64(StructuredDecodeFailures)
	truncBefore := testutil.ToFloat64(StructuredTruncations)
	unmappedBefore := testutil.ToFloat64(ColumnsUnmapped)

	IncStructuredDecodeFailure()
	IncStructuredTruncation()
	IncStructuredTruncation()
	IncUnmappedColumn()

	if got := testutil.ToFloat64(StructuredDecodeFailures) - decodeBefore; got != 1 {
		t.Errorf("decode failures delta = %f, want 1", got)
	}
	if got := testutil.ToFloat64(StructuredTruncations) - truncBefore; got != 2 {
		t.Errorf("truncations delta = %f, want 2", got)
	}
	if got := testutil.ToFloat64(ColumnsUnmapped) - unmappedBefore; got != 1 {
		t.Errorf("unmapped delta = %f, want 1", got)
	}
}

func TestRowsSortedAndDocuments(t *testing.T) {
	before := testutil.ToFloat64(RowsSorted)
	AddRowsSorted(5)
	AddRowsSorted(-1)
	if got := testutil.ToFloat64(RowsSorted) - before; got != 5 {
		t.Errorf("rows sorted delta = %f, want 5", got)
	}

	SetIndexDocuments(42)
	if got := testutil.ToFloat64(IndexDocuments); got != 42 {
		t.Errorf("index documents = %f, want 42", got)
	}
}

func TestObjectStoreMetrics(t *testing.T) {
	ObjectStoreOps.Reset()
	ObjectStoreLatency.Reset()
	ObjectStoreBytes.Reset()

	ObserveObjectStoreOp("get", "success", 0.01)
	ObserveObjectStoreOp("get", "not_found", 0.02)
	ObserveObjectStoreOp("put", "success", 0.05)
	AddObjectStoreBytes("write", 128)
	AddObjectStoreBytes("write", 0)

	tests := []struct {
		op, outcome string
		want        float64
	}{
		{"get", "success", 1},
		{"get", "not_found", 1},
		{"put", "success", 1},
		{"put", "error", 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(ObjectStoreOps.WithLabelValues(tt.op, tt.outcome)); got != tt.want {
			t.Errorf("%s/%s = %f, want %f", tt.op, tt.outcome, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(ObjectStoreLatency); n != 2 {
		t.Errorf("expected 2 latency series, got %d", n)
	}
	if got := testutil.ToFloat64(ObjectStoreBytes.WithLabelValues("write")); got != 128 {
		t.Errorf("written bytes = %f, want 128", got)
	}
}
