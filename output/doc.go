// Package output renders query results as JSON, JSON Lines, CSV or text
// tables, and writes them to files.
//
// All formatters work with rows represented as []map[string]interface{},
// the same shape as query.Row.
//
// # Supported Formats
//
//   - JSON: one indented array (the default)
//   - JSON Lines: one JSON object per line (suitable for streaming)
//   - CSV: comma-separated values with a header row
//   - Table: aligned text table for terminals
//
// # Basic Usage
//
//	formatter, err := output.NewFormatter("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(rows); err != nil {
//	    log.Fatal(err)
//	}
//
// # Column Order
//
// CSV and table output use the sorted union of keys over every row, so rows
// with heterogeneous columns share one header. A missing value renders as
// an empty cell.
//
// # Files
//
// WriteJSONFile and WriteCSVFile create parent directories on demand. A
// .gz, .zst, .lz4 or .br suffix compresses the file:
//
//	if err := output.WriteJSONFile("out/report.json.gz", report); err != nil {
//	    log.Fatal(err)
//	}
package output
