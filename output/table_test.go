package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableFormatter_Format(t *testing.T) {
	rows := []map[string]interface{}{
		{"repo_name": "parcat", "stars": "10"},
		{"repo_name": "tempo", "language": "Go"},
	}

	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"repo_name", "language", "stars", "parcat", "tempo", "Go"} {
		if !strings.Contains(output, want) {
			t.Errorf("Format() output missing %q:\n%s", want, output)
		}
	}

	header := strings.Index(output, "language")
	if header < 0 || header > strings.Index(output, "repo_name") {
		t.Errorf("Format() header not sorted:\n%s", output)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format() output should be empty, got %q", buf.String())
	}
}

func TestTableFormatter_TruncatesWideCells(t *testing.T) {
	formatter := NewTableFormatter(nil)
	formatter.MaxCellWidth = 8

	got := formatter.cell("a description far wider than eight")
	if got != "a des..." {
		t.Errorf("cell() = %q, want %q", got, "a des...")
	}
	if formatter.cell(nil) != "" {
		t.Errorf("cell(nil) should be empty")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "json"},
		{name: "JSONL"},
		{name: "csv"},
		{name: "table"},
		{name: ""},
		{name: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFormatter(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && f == nil {
				t.Errorf("NewFormatter(%q) returned nil formatter", tt.name)
			}
		})
	}
}
