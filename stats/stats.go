// Package stats computes fixed descriptive reports over repository rows.
//
// Columns are looked up through the same fuzzy resolver the query package
// uses, so "Stars", "stars" and "STARS" all find a stars column. Values that
// do not coerce to an integer are skipped or ranked as -1, never treated as
// errors.
package stats

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/vegasq/repostat/internal/metrics"
	"github.com/vegasq/repostat/query"
)

// DefaultTopN is the row count TopCommits uses when the caller has no preference.
const DefaultTopN = 10

// Logical field names resolved against the dataset.
const (
	FieldSize     = "size"
	FieldStars    = "stars"
	FieldLanguage = "language"
	FieldCommits  = "commits"
)

// missingRank ranks rows whose value does not coerce to an integer.
const missingRank = -1

// Calculator computes statistics over a fixed row set.
type Calculator struct {
	rows     []query.Row
	resolver *query.Resolver
}

// LanguageAverage is the mean star count of one language.
type LanguageAverage struct {
	Language string  `json:"language"`
	Average  float64 `json:"average"`
}

// New creates a calculator over rows.
func New(rows []query.Row) *Calculator {
	return &Calculator{
		rows:     rows,
		resolver: query.NewResolverFromRows(rows),
	}
}

// MedianSize returns the median of the integer size values. ok is false when
// no row carries one.
func (c *Calculator) MedianSize() (median float64, ok bool, err error) {
	field, err := c.resolve(FieldSize)
	if err != nil {
		return 0, false, err
	}
	defer c.computed("median_size")

	nums := c.collectInts(field)
	if len(nums) == 0 {
		return 0, false, nil
	}

	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return float64(nums[mid]), true, nil
	}
	return (float64(nums[mid-1]) + float64(nums[mid])) / 2, true, nil
}

// MostStarredRepo returns the row with the highest integer star count.
// Rows without one rank as -1. The first row wins ties, so a row is returned
// whenever the dataset is not empty.
func (c *Calculator) MostStarredRepo() (query.Row, bool, error) {
	field, err := c.resolve(FieldStars)
	if err != nil {
		return nil, false, err
	}
	defer c.computed("most_starred_repo")

	if len(c.rows) == 0 {
		return nil, false, nil
	}

	best := c.rows[0]
	bestVal := rank(best, field)
	for _, row := range c.rows[1:] {
		if v := rank(row, field); v > bestVal {
			best, bestVal = row, v
		}
	}
	return best, true, nil
}

// ReposWithoutLanguage returns the rows whose language is absent or blank,
// in their original order.
func (c *Calculator) ReposWithoutLanguage() ([]query.Row, error) {
	field, err := c.resolve(FieldLanguage)
	if err != nil {
		return nil, err
	}
	defer c.computed("repos_without_language")

	out := make([]query.Row, 0)
	for _, row := range c.rows {
		if isBlank(row, field) {
			out = append(out, row)
		}
	}
	return out, nil
}

// TopCommits returns up to n rows ranked by integer commit count, highest
// first. Ties keep their original order; negative n is treated as 0.
func (c *Calculator) TopCommits(n int) ([]query.Row, error) {
	field, err := c.resolve(FieldCommits)
	if err != nil {
		return nil, err
	}
	defer c.computed("top_commits")

	if n < 0 {
		n = 0
	}

	type ranked struct {
		value int64
		row   query.Row
	}
	sortable := make([]ranked, len(c.rows))
	for i, row := range c.rows {
		sortable[i] = ranked{value: rank(row, field), row: row}
	}
	sort.SliceStable(sortable, func(i, j int) bool {
		return sortable[i].value > sortable[j].value
	})

	if n > len(sortable) {
		n = len(sortable)
	}
	out := make([]query.Row, n)
	for i := range out {
		out[i] = sortable[i].row
	}
	return out, nil
}

// AverageStarsByLanguage returns the mean integer star count per language,
// highest first. Rows without an integer star count are left out of both the
// sum and the count; languages with no such rows are omitted. An absent
// language groups under "".
func (c *Calculator) AverageStarsByLanguage() ([]LanguageAverage, error) {
	langField, err := c.resolve(FieldLanguage)
	if err != nil {
		return nil, err
	}
	starsField, err := c.resolve(FieldStars)
	if err != nil {
		return nil, err
	}
	defer c.computed("average_stars_by_language")

	type acc struct {
		total float64
		count int64
	}
	index := make(map[string]int)
	var langs []string
	var accs []acc

	for _, row := range c.rows {
		stars, ok := query.IntValue(row, starsField)
		if !ok {
			continue
		}
		lang, _ := query.TextValue(row, langField)
		i, exists := index[lang]
		if !exists {
			i = len(accs)
			index[lang] = i
			langs = append(langs, lang)
			accs = append(accs, acc{})
		}
		accs[i].total += float64(stars)
		accs[i].count++
	}

	out := make([]LanguageAverage, 0, len(accs))
	for i, a := range accs {
		out = append(out, LanguageAverage{
			Language: langs[i],
			Average:  a.total / float64(a.count),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Average > out[j].Average
	})
	return out, nil
}

func (c *Calculator) resolve(field string) (string, error) {
	key, err := c.resolver.Resolve(field)
	if err != nil {
		slog.Debug("stats field resolution failed", "field", field, "error", err)
		return "", err
	}
	return key, nil
}

func (c *Calculator) computed(report string) {
	metrics.StatsComputed.WithLabelValues(report).Inc()
	slog.Debug("stats computed", "report", report, "rows", len(c.rows))
}

func (c *Calculator) collectInts(field string) []int64 {
	var nums []int64
	for _, row := range c.rows {
		if v, ok := query.IntValue(row, field); ok {
			nums = append(nums, v)
		}
	}
	return nums
}

func rank(row query.Row, field string) int64 {
	if v, ok := query.IntValue(row, field); ok {
		return v
	}
	return missingRank
}

func isBlank(row query.Row, field string) bool {
	s, ok := query.TextValue(row, field)
	return !ok || strings.TrimSpace(s) == ""
}
