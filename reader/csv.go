package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/repostat/query"
)

// Delimiters are the candidate field separators Sniff chooses from, in
// tie-break order.
var Delimiters = []rune{',', ';', '\t', '|'}

// sniffLines is the number of non-empty leading lines Sniff inspects.
const sniffLines = 20

// ReadCSV reads delimited text with a header line. The delimiter is sniffed
// from the leading lines, falling back to a comma. Header names and values
// are trimmed of surrounding whitespace. Records shorter than the header keep
// the missing columns with a nil value; extra fields are dropped.
func ReadCSV(r io.Reader) ([]query.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	delim, ok := Sniff(string(data))
	if !ok {
		delim = ','
	}
	return ReadCSVWithDelimiter(bytes.NewReader(data), delim)
}

// ReadCSVWithDelimiter reads delimited text using delim as separator.
func ReadCSVWithDelimiter(r io.Reader, delim rune) ([]query.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []query.Row{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]query.Row, 0)
	for {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record %d: %w", len(rows)+1, err)
		}

		row := make(query.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Sniff guesses the delimiter of sample. A candidate qualifies when it occurs
// the same, non-zero number of times (outside quotes) on every inspected
// line. When several qualify the one appearing most often per line wins,
// then the earliest in Delimiters. ok is false when nothing qualifies.
func Sniff(sample string) (rune, bool) {
	lines := leadingLines(sample, sniffLines)
	if len(lines) == 0 {
		return 0, false
	}

	var best rune
	bestCount := 0
	for _, d := range Delimiters {
		count, consistent := consistentCount(lines, d)
		if !consistent || count == 0 {
			continue
		}
		if count > bestCount {
			best, bestCount = d, count
		}
	}
	return best, bestCount > 0
}

func leadingLines(sample string, limit int) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(sample))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && len(lines) < limit {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// consistentCount returns the per-line count of d outside double quotes and
// whether it is the same on every line.
func consistentCount(lines []string, d rune) (int, bool) {
	first := -1
	for _, line := range lines {
		n := countOutsideQuotes(line, d)
		if first == -1 {
			first = n
			continue
		}
		if n != first {
			return 0, false
		}
	}
	return first, true
}

func countOutsideQuotes(line string, d rune) int {
	n := 0
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == d && !quoted:
			n++
		}
	}
	return n
}
