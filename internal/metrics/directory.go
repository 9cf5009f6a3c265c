// Package metrics exposes Prometheus collectors for the HTTP layer and the directory.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "worldmatch"

// Directory Prometheus metrics.
var (
	FilterEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_evaluations_total",
			Help:      "Filter evaluations by view and outcome",
		},
		[]string{"view", "outcome"}, // view: list/map/export, outcome: matches/empty
	)

	FilterResultSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_result_size",
			Help:      "Number of records returned by a filter evaluation",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"view"},
	)

	MapExcludedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_excluded_records_total",
			Help:      "Matched records left off the map because their country has no coordinates",
		},
	)

	AppendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_appends_total",
			Help:      "Record append attempts by status",
		},
		[]string{"status"}, // ok / invalid / error
	)

	RecordsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Records in the current in-memory dataset",
		},
	)

	DatasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by status",
		},
		[]string{"status"}, // ok / not_found / error
	)
)

var registerDirectory sync.Once

// RegisterDirectoryMetrics registers the directory collectors. Safe to call more than once.
func RegisterDirectoryMetrics() {
	registerDirectory.Do(func() {
		prometheus.MustRegister(
			FilterEvaluationsTotal,
			FilterResultSize,
			MapExcludedTotal,
			AppendsTotal,
			RecordsLoaded,
			DatasetLoadsTotal,
		)
	})
}
