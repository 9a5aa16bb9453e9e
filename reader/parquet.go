package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cast"

	"github.com/vegasq/repostat/query"
)

// ParquetReader reads parquet files and returns rows as text maps.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type ParquetReader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewParquetReader opens the parquet file at path.
//
// Returns an error if the file doesn't exist or is not a valid parquet file.
//
// Example:
//
//	r, err := NewParquetReader("repositories.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &ParquetReader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadAll reads all rows from the parquet file into memory.
//
// Every non-null value is converted to its text form so parquet rows behave
// like rows read from delimited text; nulls stay nil.
func (r *ParquetReader) ReadAll() ([]query.Row, error) {
	rows := make([]query.Row, 0)

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		raw := make(map[string]interface{})
		err := reader.Read(&raw)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, textRow(raw))
	}

	return rows, nil
}

// Columns returns the top-level column names of the parquet schema.
func (r *ParquetReader) Columns() []string {
	fields := r.pqFile.Schema().Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name())
	}
	return names
}

// Close closes the parquet reader and releases associated resources.
func (r *ParquetReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadMultipleFiles reads all rows from parquet files matching a glob pattern.
//
// A pattern without wildcards reads a single file unchanged. When a glob
// matches several files each row is tagged with a "_file" column holding its
// source path.
func ReadMultipleFiles(pattern string) ([]query.Row, error) {
	if !strings.ContainsAny(pattern, "*?[]{}") {
		r, err := NewParquetReader(pattern)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()

		return r.ReadAll()
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	// Limit number of files to prevent resource exhaustion
	const maxFiles = 1000
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	var allRows []query.Row
	for _, filePath := range matches {
		r, err := NewParquetReader(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		rows, readErr := r.ReadAll()
		closeErr := r.Close()

		if readErr != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", filePath, readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close %s: %w", filePath, closeErr)
		}

		for i := range rows {
			rows[i]["_file"] = filePath
		}

		allRows = append(allRows, rows...)
	}

	return allRows, nil
}

// textRow converts every non-nil value of raw to text.
func textRow(raw map[string]interface{}) query.Row {
	row := make(query.Row, len(raw))
	for k, v := range raw {
		if v == nil {
			row[k] = nil
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			s = fmt.Sprint(v)
		}
		row[k] = s
	}
	return row
}
