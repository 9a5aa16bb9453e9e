package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to convert rows to the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes rows in the formatter's specific format
	Format(rows []map[string]interface{}) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Format names accepted by NewFormatter.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTable = "table"
)

// NewFormatter returns the formatter registered under name, writing to w.
func NewFormatter(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatJSON, "":
		return NewJSONFormatter(w), nil
	case FormatJSONL:
		return NewJSONLFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	case FormatTable:
		return NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q (want json, jsonl, csv or table)", name)
	}
}

// columns returns the sorted union of keys over rows.
func columns(rows []map[string]interface{}) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			set[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
