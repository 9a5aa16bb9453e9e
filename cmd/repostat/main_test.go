package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/repostat/internal/codec"
	"github.com/vegasq/repostat/query"
	"github.com/vegasq/repostat/reader"
	"github.com/vegasq/repostat/saved"
)

const reposCSV = `repo_name,stars,language,size,commits
parcat,10,Go,100,5
spektr,3,,50,50
tempo,20,Go,300,not-a-number
bunbase,7,TypeScript,abc,20
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_FilterSortSelectCSV(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	out, err := runCLI(t,
		"-where", "Language=Go",
		"-sort", "stars:desc",
		"-select", "Repo Name,STARS",
		"-f", "csv",
		file,
	)
	require.NoError(t, err)
	assert.Equal(t, "repo_name,stars\ntempo,20\nparcat,10\n", out)
}

func TestRun_InFilterJSONL(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	out, err := runCLI(t, "-in", "language=TypeScript|Go", "-sort", "repo_name", "-f", "jsonl", file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "bunbase", first["repo_name"])
}

func TestRun_GroupedJSONKeepsFirstOccurrenceOrder(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	out, err := runCLI(t, "-group", "language", "-select", "repo_name,language", file)
	require.NoError(t, err)

	var groups map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 3)
	assert.Len(t, groups["Go"], 2)
	assert.Len(t, groups[""], 1)
	assert.Len(t, groups["TypeScript"], 1)

	goAt := strings.Index(out, `"Go"`)
	emptyAt := strings.Index(out, `"":`)
	tsAt := strings.Index(out, `"TypeScript"`)
	assert.True(t, goAt < emptyAt && emptyAt < tsAt, "group order not preserved:\n%s", out)
}

func TestRun_Stats(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	t.Run("top commits", func(t *testing.T) {
		out, err := runCLI(t, "-stats", "top-commits", "-top", "2", "-f", "csv", file)
		require.NoError(t, err)

		records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "commits", records[0][0])
		assert.Equal(t, "50", records[1][0])
		assert.Equal(t, "20", records[2][0])
	})

	t.Run("median size", func(t *testing.T) {
		out, err := runCLI(t, "-stats", "median-size", "-f", "jsonl", file)
		require.NoError(t, err)
		assert.Equal(t, "{\"median_size\":100}\n", out)
	})

	t.Run("all", func(t *testing.T) {
		out, err := runCLI(t, "-stats", "all", file)
		require.NoError(t, err)

		var report map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, float64(100), report["median_size"])
		assert.Len(t, report["repos_without_language"], 1)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := runCLI(t, "-stats", "mode", file)
		require.Error(t, err)
	})
}

func TestRun_SaveThenRun(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "repos.csv", reposCSV)
	other := writeFile(t, dir, "other.csv", "repo_name,stars,language\nmini,1,Go\nbig,99,Go\nrusty,50,Rust\n")
	queries := filepath.Join(dir, "state", "queries.json")

	_, err := runCLI(t, "-queries", queries, "-save", "popular-go", "-where", "language=Go", "-sort", "stars:desc", file)
	require.NoError(t, err)

	data, err := os.ReadFile(queries)
	require.NoError(t, err)
	store := saved.NewStore()
	require.NoError(t, store.Import(bytes.NewReader(data)))
	assert.Equal(t, []string{"popular-go"}, store.Names())

	out, err := runCLI(t, "-queries", queries, "-run", "popular-go", "-f", "csv", other)
	require.NoError(t, err)
	assert.Equal(t, "language,repo_name,stars\nGo,big,99\nGo,mini,1\n", out)

	_, err = runCLI(t, "-queries", queries, "-run", "missing", other)
	require.ErrorIs(t, err, saved.ErrNotFound)
}

func TestRun_SaveRequiresQueriesFile(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	_, err := runCLI(t, "-save", "x", file)
	require.Error(t, err)
}

func TestRun_UnresolvableField(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	_, err := runCLI(t, "-where", "owner=vegasq", file)
	require.ErrorIs(t, err, query.ErrFieldNotFound)

	var fieldErr *query.FieldNotFoundError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "owner", fieldErr.Field)
}

func TestRun_PartialFieldNameSuggestsCandidates(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	out, err := runCLI(t, "-where", "repo=parcat", file)
	require.ErrorIs(t, err, query.ErrFieldNotFound)
	assert.Empty(t, out)

	var fieldErr *query.FieldNotFoundError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, []string{"repo_name"}, fieldErr.Candidates)
}

func TestRun_Sample(t *testing.T) {
	out, err := runCLI(t, "-sample", "-stats", "median-size", "-f", "jsonl")
	require.NoError(t, err)
	assert.Equal(t, "{\"median_size\":2048}\n", out)

	out, err = runCLI(t, "-sample", "-where", "language=Go", "-sort", "stars:desc", "-select", "repo_name", "-f", "csv")
	require.NoError(t, err)
	assert.Equal(t, "repo_name\ntempo\nparcat\nmini-rdbms\n", out)
}

func TestRun_Fields(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	out, err := runCLI(t, "-fields", file)
	require.NoError(t, err)
	assert.Equal(t, "commits\nlanguage\nrepo_name\nsize\nstars\n", out)
}

func TestRun_Schema(t *testing.T) {
	file := writeFile(t, t.TempDir(), "repos.csv", reposCSV)

	out, err := runCLI(t, "-schema", "-f", "jsonl", file)
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"stars","optional":false,"present":4,"type":"INT64"`)
}

func TestRun_OutputFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "repos.csv", reposCSV)
	outPath := filepath.Join(dir, "out", "result.csv.gz")
	metricsPath := filepath.Join(dir, "repostat.prom")

	stdout, err := runCLI(t, "-f", "csv", "-o", outPath, "-metrics-file", metricsPath, file)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	c, _ := codec.Detect(outPath)
	require.Equal(t, codec.Gzip, c)
	rows, err := reader.Load(outPath)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "repostat_queries_executed_total")
	assert.Contains(t, string(prom), `repostat_rows_loaded_total{format="csv"}`)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "repos.csv", reposCSV)
	cfg := writeFile(t, dir, "repostat.yaml", "format: csv\n")

	out, err := runCLI(t, "-config", cfg, "-select", "repo_name", "-sort", "repo_name", file)
	require.NoError(t, err)
	assert.Equal(t, "repo_name\nbunbase\nparcat\nspektr\ntempo\n", out)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "repos.csv", reposCSV)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file argument", args: nil},
		{name: "missing file", args: []string{filepath.Join(dir, "nope.csv")}},
		{name: "bad where", args: []string{"-where", "language", file}},
		{name: "bad format", args: []string{"-f", "xml", file}},
		{name: "stats with run", args: []string{"-stats", "all", "-run", "x", file}},
		{name: "negative top", args: []string{"-top", "-1", file}},
		{name: "sample with file", args: []string{"-sample", file}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in       string
		field    string
		wantDesc bool
	}{
		{in: "stars", field: "stars"},
		{in: "stars:desc", field: "stars", wantDesc: true},
		{in: "stars:ASC", field: "stars"},
		{in: "a:b", field: "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			field, desc := parseSortKey(tt.in)
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}
