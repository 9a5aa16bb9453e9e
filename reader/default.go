package reader

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/vegasq/repostat/query"
)

//go:embed repositories.csv
var defaultCSV []byte

// DefaultName is the name Default reports for the bundled listing.
const DefaultName = "repositories.csv"

// Default reads the repository listing bundled with the package.
func Default() ([]query.Row, error) {
	rows, err := ReadCSV(bytes.NewReader(defaultCSV))
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled %s: %w", DefaultName, err)
	}
	loaded("embedded", DefaultName, len(rows))
	return rows, nil
}
