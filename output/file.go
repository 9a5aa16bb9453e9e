package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vegasq/repostat/internal/codec"
)

// WriteJSONFile writes v to path as indented JSON, creating parent
// directories as needed. A compression suffix on path selects the codec.
func WriteJSONFile(path string, v interface{}) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, v)
	})
}

// WriteCSVFile writes rows to path as CSV, creating parent directories as
// needed. No rows produce an empty file.
func WriteCSVFile(path string, rows []map[string]interface{}) error {
	return writeFile(path, func(w io.Writer) error {
		return NewCSVFormatter(w).Format(rows)
	})
}

// WriteFile renders rows into path with the formatter newFormatter builds
// around the file writer.
func WriteFile(path string, newFormatter func(io.Writer) (Formatter, error), rows []map[string]interface{}) error {
	return writeFile(path, func(w io.Writer) error {
		f, err := newFormatter(w)
		if err != nil {
			return err
		}
		return f.Format(rows)
	})
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	c, _ := codec.Detect(path)
	w, err := codec.NewWriter(c, file)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := write(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", path, err)
	}
	return nil
}
