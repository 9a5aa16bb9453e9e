package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer

	// EscapeFormulas prefixes values that a spreadsheet would evaluate as a
	// formula with a single quote.
	EscapeFormulas bool
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes rows as CSV. The header is the sorted union of keys over all
// rows; a row lacking a column gets an empty cell. No rows produce no output.
func (c *CSVFormatter) Format(rows []map[string]interface{}) error {
	csvWriter := csv.NewWriter(c.writer)

	if len(rows) == 0 {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return fmt.Errorf("failed to flush CSV writer: %w", err)
		}
		return nil
	}

	cols := columns(rows)
	if err := csvWriter.Write(cols); err != nil {
		return err
	}

	for _, row := range rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = c.formatValue(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// formatValue converts a value to string for CSV output
func (c *CSVFormatter) formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		s = cast.ToString(v)
		if s == "" {
			s = fmt.Sprintf("%v", v)
		}
		return s
	}

	if c.EscapeFormulas && s != "" {
		switch s[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			return "'" + strings.ReplaceAll(s, "'", "''")
		}
	}
	return s
}
