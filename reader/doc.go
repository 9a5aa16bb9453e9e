// Package reader loads tabular rows from delimited text and Apache Parquet
// files.
//
// Rows are returned as maps from column name to text value, ready for the
// query and stats packages. Absent values are nil.
//
// # Basic Usage
//
// Load picks the format from the file name:
//
//	rows, err := reader.Load("repositories.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Delimited Text
//
// The delimiter is sniffed from the first lines of the file among comma,
// semicolon, tab and pipe, falling back to comma when no candidate occurs
// consistently:
//
//	rows, err := reader.ReadCSV(strings.NewReader("name;stars\nparcat;10\n"))
//
// Header names and values are trimmed. Compressed inputs are decoded by
// suffix: .gz, .zst, .lz4 and .br.
//
// # Bundled Sample
//
// Default reads a small repository listing embedded in the package, useful
// for trying queries without a file:
//
//	rows, err := reader.Default()
//
// # Parquet Files
//
// Parquet files are read with parquet-go; every value is converted to text
// so parquet rows compare exactly like rows read from CSV:
//
//	rows, err := reader.ReadMultipleFiles("data/*.parquet")
//
// Each row read through a glob pattern is tagged with a "_file" column
// containing the source file path.
//
// # Schema Inference
//
// Describe reports, per column, whether its values are integers, floats or
// text, and how many rows carry a value.
package reader
