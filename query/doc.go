// Package query provides a fluent filter/select/sort/group engine over
// in-memory rows.
//
// Rows are maps from column name to value, as produced by the reader package.
// Field references are resolved against the columns found in the first few
// rows, tolerating differences in case, whitespace, underscores and hyphens,
// so "Repo Name", "repo_name" and "repo-name" all find the same column.
//
// # Basic Usage
//
//	rows, err := reader.Load("repositories.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := query.New(rows).
//	    WhereIn("language", "Go", "Rust").
//	    Select("repo name", "stars", "language").
//	    SortBy("stars", true).
//	    Execute()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Execution Order
//
// Execute always runs the stages in the same order:
//   - Filter: every predicate must hold (WhereEqual, WhereIn)
//   - Select: rows are projected onto the selected columns
//   - Sort: sort keys are applied (see ApplySort for the exact algorithm)
//   - Group: rows are partitioned by the group-by column
//
// Because projection runs before sorting, a sort key that was not selected
// sorts as an absent value.
//
// # Grouping
//
// With GroupBy set, the Result holds Groups in first-occurrence order of the
// group key. Absent values group under the empty string.
//
//	res, _ := query.New(rows).GroupBy("language").Execute()
//	for _, g := range res.Groups {
//	    fmt.Println(g.Key, len(g.Rows))
//	}
//
// # Numeric Coercion
//
// TryInt and TryFloat parse text best-effort and report success with a bool.
// Sorting uses them to compare numbers numerically; text that does not parse
// is compared as text.
//
// # Error Handling
//
// Field resolution failures are returned as *FieldNotFoundError, carrying the
// candidate columns when the reference is ambiguous or only partly matches. Builder methods record
// the first failure; check Err after building or rely on Execute returning it.
package query
