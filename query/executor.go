package query

import (
	"fmt"
	"log/slog"

	"github.com/vegasq/repostat/internal/metrics"
)

// Execute runs the pipeline in its fixed order: filter, select, sort, group.
// The builder state is left untouched, so a query may be executed again or
// extended and re-executed.
func (q *Query) Execute() (*Result, error) {
	if q.err != nil {
		return nil, fmt.Errorf("query not executable: %w", q.err)
	}

	metrics.RowsScanned.Add(float64(len(q.rows)))

	rows := ApplyPredicates(q.rows, q.predicates)
	filtered := len(rows)
	rows = ApplySelect(rows, q.selectList)
	rows = ApplySort(rows, q.sortKeys)

	metrics.QueriesExecuted.Inc()
	slog.Debug("query executed",
		"rows_in", len(q.rows),
		"rows_out", filtered,
		"predicates", len(q.predicates),
		"sort_keys", len(q.sortKeys),
		"group", q.groupField,
	)

	if q.groupField != "" {
		return &Result{Groups: ApplyGroup(rows, q.groupField), grouped: true}, nil
	}
	return &Result{Rows: rows}, nil
}
