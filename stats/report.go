package stats

import (
	"fmt"

	"github.com/vegasq/repostat/query"
)

// Report bundles every statistic the calculator offers.
type Report struct {
	MedianSize             *float64          `json:"median_size"`
	MostStarredRepo        query.Row         `json:"most_starred_repo"`
	ReposWithoutLanguage   []query.Row       `json:"repos_without_language"`
	TopCommits             []query.Row       `json:"top_commits"`
	AverageStarsByLanguage []LanguageAverage `json:"average_stars_by_language"`
}

// Report computes all statistics, with topN rows for TopCommits. The first
// failing statistic aborts the report.
func (c *Calculator) Report(topN int) (*Report, error) {
	r := &Report{}

	median, ok, err := c.MedianSize()
	if err != nil {
		return nil, fmt.Errorf("median size: %w", err)
	}
	if ok {
		r.MedianSize = &median
	}

	if r.MostStarredRepo, _, err = c.MostStarredRepo(); err != nil {
		return nil, fmt.Errorf("most starred repo: %w", err)
	}
	if r.ReposWithoutLanguage, err = c.ReposWithoutLanguage(); err != nil {
		return nil, fmt.Errorf("repos without language: %w", err)
	}
	if r.TopCommits, err = c.TopCommits(topN); err != nil {
		return nil, fmt.Errorf("top commits: %w", err)
	}
	if r.AverageStarsByLanguage, err = c.AverageStarsByLanguage(); err != nil {
		return nil, fmt.Errorf("average stars by language: %w", err)
	}

	return r, nil
}
