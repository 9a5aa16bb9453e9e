package reader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vegasq/repostat/internal/codec"
	"github.com/vegasq/repostat/internal/metrics"
	"github.com/vegasq/repostat/query"
)

// Load reads rows from path, choosing the format from its extension.
//
// Files ending in .parquet (or glob patterns over them) are read as parquet.
// Anything else is read as delimited text, after stripping and decoding a
// compression suffix (.gz, .zst, .lz4, .br).
func Load(path string) ([]query.Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		rows, err := ReadMultipleFiles(path)
		if err != nil {
			return nil, err
		}
		loaded("parquet", path, len(rows))
		return rows, nil
	}

	c, _ := codec.Detect(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, err := codec.NewReader(c, f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	rows, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	loaded("csv", path, len(rows))
	return rows, nil
}

func loaded(format, path string, n int) {
	metrics.RowsLoaded.WithLabelValues(format).Add(float64(n))
	slog.Debug("rows loaded", "path", path, "format", format, "rows", n)
}
