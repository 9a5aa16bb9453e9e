package output

import (
	"io"

	"github.com/segmentio/encoding/json"
)

// JSONFormatter outputs rows as a single indented JSON array
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON array formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as one JSON array. Empty input produces "[]".
func (j *JSONFormatter) Format(rows []map[string]interface{}) error {
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return WriteJSON(j.writer, rows)
}

// JSONLFormatter outputs rows as JSON Lines format
type JSONLFormatter struct {
	writer io.Writer
}

// NewJSONLFormatter creates a new JSON Lines formatter
func NewJSONLFormatter(w io.Writer) *JSONLFormatter {
	return &JSONLFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONLFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines (one JSON object per line)
func (j *JSONLFormatter) Format(rows []map[string]interface{}) error {
	encoder := json.NewEncoder(j.writer)
	encoder.SetEscapeHTML(false)
	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes v to w as UTF-8 JSON indented by two spaces, without
// HTML escaping, followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
