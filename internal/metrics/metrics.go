// Package metrics provides Prometheus metrics for field mapping, sorting and
// the field index.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fieldmap"

var (
	// ColumnsMapped tracks columns dispatched to a mapper.
	ColumnsMapped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "columns_mapped_total",
			Help:      "Total columns dispatched to a mapper",
		},
		[]string{"mapper", "status"}, // mapper: text/string/integer/boolean/blob/structured, status: success/error
	)

	// ColumnsUnmapped tracks columns with no resolvable mapper.
	ColumnsUnmapped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "columns_unmapped_total",
			Help:      "Total columns skipped because no mapper resolves them",
		},
	)

	// FieldsEmitted tracks emitted index fields per kind.
	FieldsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_emitted_total",
			Help:      "Total index fields emitted",
		},
		[]string{"kind"}, // kind: text/exact/numeric
	)

	// StructuredDecodeFailures tracks structured values that could not be decoded.
	StructuredDecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structured_decode_failures_total",
			Help:      "Total structured values treated as absent after a decode failure",
		},
	)

	// StructuredTruncations tracks maps dropped by the depth limit.
	StructuredTruncations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structured_truncations_total",
			Help:      "Total nested maps dropped because they exceed the depth limit",
		},
	)

	// RowsSorted tracks rows ordered by a row comparator.
	RowsSorted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_sorted_total",
			Help:      "Total rows ordered by a row comparator",
		},
	)

	// IndexDocuments tracks live documents in a field index.
	IndexDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_documents",
			Help:      "Number of live documents in the field index",
		},
	)

	// ObjectStoreOps counts object store calls by outcome: success,
	// not_found, conflict or error.
	ObjectStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objectstore_ops_total",
			Help:      "Total object store operations",
		},
		[]string{"operation", "outcome"},
	)

	ObjectStoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "objectstore_latency_seconds",
			Help:      "Object store operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ObjectStoreBytes counts payload bytes moved, by direction (read/write).
	ObjectStoreBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objectstore_bytes_total",
			Help:      "Object payload bytes read from or written to the object store",
		},
		[]string{"direction"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveColumn records one column mapping attempt.
func ObserveColumn(mapperType string, err error) {
	ColumnsMapped.WithLabelValues(mapperType, status(err)).Inc()
}

// IncUnmappedColumn records a column without a mapper.
func IncUnmappedColumn() {
	ColumnsUnmapped.Inc()
}

// AddFieldsEmitted records n emitted fields of a kind.
func AddFieldsEmitted(kind string, n int) {
	if n > 0 {
		FieldsEmitted.WithLabelValues(kind).Add(float64(n))
	}
}

// IncStructuredDecodeFailure records a structured decode failure.
func IncStructuredDecodeFailure() {
	StructuredDecodeFailures.Inc()
}

// IncStructuredTruncation records a map dropped by the depth limit.
func IncStructuredTruncation() {
	StructuredTruncations.Inc()
}

// AddRowsSorted records n rows ordered by a row comparator.
func AddRowsSorted(n int) {
	if n > 0 {
		RowsSorted.Add(float64(n))
	}
}

// SetIndexDocuments sets the live document gauge.
func SetIndexDocuments(n uint64) {
	IndexDocuments.Set(float64(n))
}

// ObserveObjectStoreOp records an object store call and how it ended.
func ObserveObjectStoreOp(operation, outcome string, latencySeconds float64) {
	ObjectStoreOps.WithLabelValues(operation, outcome).Inc()
	ObjectStoreLatency.WithLabelValues(operation).Observe(latencySeconds)
}

// AddObjectStoreBytes records n payload bytes moved in direction.
func AddObjectStoreBytes(direction string, n int64) {
	if n > 0 {
		ObjectStoreBytes.WithLabelValues(direction).Add(float64(n))
	}
}
