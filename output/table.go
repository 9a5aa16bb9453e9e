package output

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cast"
)

// DefaultMaxCellWidth is the display width cells are truncated to.
const DefaultMaxCellWidth = 40

// TableFormatter outputs rows as an aligned text table
type TableFormatter struct {
	writer io.Writer

	// MaxCellWidth truncates cells wider than this many terminal columns.
	// Zero disables truncation.
	MaxCellWidth int
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w, MaxCellWidth: DefaultMaxCellWidth}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders rows with a header of the sorted union of keys. Absent
// values render as empty cells. No rows produce no output.
func (t *TableFormatter) Format(rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	cols := columns(rows)

	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(cols)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = t.cell(row[col])
		}
		table.Append(record)
	}

	table.Render()
	return nil
}

func (t *TableFormatter) cell(v interface{}) string {
	if v == nil {
		return ""
	}
	s := cast.ToString(v)
	if t.MaxCellWidth > 0 && runewidth.StringWidth(s) > t.MaxCellWidth {
		s = runewidth.Truncate(s, t.MaxCellWidth, "...")
	}
	return s
}
