// Package metrics holds the Prometheus collectors shared by the query,
// stats and reader packages.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the private registry every repostat collector is registered on.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// QueriesExecuted counts successful Query.Execute calls.
	QueriesExecuted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "repostat_queries_executed_total",
			Help: "Total number of executed queries",
		},
	)
	// RowsScanned counts rows fed into query execution.
	RowsScanned = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "repostat_rows_scanned_total",
			Help: "Total number of rows scanned by query execution",
		},
	)
	// FieldResolutionFailures counts field references that did not resolve.
	FieldResolutionFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repostat_field_resolution_failures_total",
			Help: "Field references that failed to resolve, by reason",
		},
		[]string{"reason"},
	)
	// StatsComputed counts statistics reports by name.
	StatsComputed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repostat_stats_computed_total",
			Help: "Statistics computed, by report",
		},
		[]string{"report"},
	)
	// RowsLoaded counts rows read from row sources, by input format.
	RowsLoaded = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repostat_rows_loaded_total",
			Help: "Rows loaded from input files, by format",
		},
		[]string{"format"},
	)
)

// WriteTextfile writes the current metric values to path in the text
// exposition format understood by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
