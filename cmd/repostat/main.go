package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vegasq/repostat/internal/config"
	"github.com/vegasq/repostat/internal/logging"
	"github.com/vegasq/repostat/internal/metrics"
	"github.com/vegasq/repostat/output"
	"github.com/vegasq/repostat/query"
	"github.com/vegasq/repostat/reader"
	"github.com/vegasq/repostat/saved"
	"github.com/vegasq/repostat/stats"
)

// Stats report names accepted by -stats.
const (
	statsMedianSize      = "median-size"
	statsMostStarred     = "most-starred"
	statsWithoutLanguage = "without-language"
	statsTopCommits      = "top-commits"
	statsAvgStars        = "avg-stars"
	statsAll             = "all"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	configPath  string
	selectList  string
	where       listFlag
	in          listFlag
	sort        listFlag
	group       string
	stats       string
	top         int
	format      string
	output      string
	save        string
	run         string
	queriesFile string
	metricsFile string
	fields      bool
	schema      bool
	escape      bool
	sample      bool

	file string
	set  map[string]bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("repostat", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Config file (yaml, json or toml)")
	fs.StringVar(&opts.selectList, "select", "", "Comma-separated fields to keep (e.g., \"repo name,stars\")")
	fs.Var(&opts.where, "where", "Equality filter field=value (repeatable)")
	fs.Var(&opts.in, "in", "Membership filter field=v1|v2 (repeatable)")
	fs.Var(&opts.sort, "sort", "Sort key field[:desc] (repeatable)")
	fs.StringVar(&opts.group, "group", "", "Group rows by field")
	fs.StringVar(&opts.stats, "stats", "", "Statistic: median-size, most-starred, without-language, top-commits, avg-stars, all")
	fs.IntVar(&opts.top, "top", stats.DefaultTopN, "Row count for top-commits")
	fs.StringVar(&opts.format, "f", "json", "Output format: json, jsonl, csv, table")
	fs.StringVar(&opts.output, "o", "", "Write output to file (.gz, .zst, .lz4, .br compress)")
	fs.StringVar(&opts.save, "save", "", "Save the built query under this name")
	fs.StringVar(&opts.run, "run", "", "Run the saved query with this name")
	fs.StringVar(&opts.queriesFile, "queries", "", "Saved query file")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	fs.BoolVar(&opts.fields, "fields", false, "List resolvable columns instead of data")
	fs.BoolVar(&opts.schema, "schema", false, "Show inferred column types instead of data")
	fs.BoolVar(&opts.escape, "escape-formulas", false, "Prefix CSV cells that start a spreadsheet formula")
	fs.BoolVar(&opts.sample, "sample", false, "Read the bundled sample repository listing instead of a file")

	fs.Usage = func() {
		name := fs.Name()
		fmt.Fprintf(stderr, "Usage: %s [options] <file | -sample>\n\n", name)
		fmt.Fprintf(stderr, "Query and summarize repository listings stored as CSV or Parquet.\n\n")
		fmt.Fprintf(stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s repos.csv\n", name)
		fmt.Fprintf(stderr, "  %s -where \"Language=Go\" -sort stars:desc -f table repos.csv\n", name)
		fmt.Fprintf(stderr, "  %s -in \"language=Go|Rust\" -group language repos.csv.gz\n", name)
		fmt.Fprintf(stderr, "  %s -stats top-commits -top 5 repos.parquet\n", name)
		fmt.Fprintf(stderr, "  %s -queries saved.json -save popular -sort stars:desc repos.csv\n", name)
		fmt.Fprintf(stderr, "  %s -queries saved.json -run popular other.csv\n", name)
		fmt.Fprintf(stderr, "  %s -sample -stats all\n", name)
	}
	return fs
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := newFlagSet(opts, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	switch {
	case opts.sample && fs.NArg() > 0:
		return nil, errors.New("-sample cannot be used with an input file")
	case opts.sample:
		opts.file = reader.DefaultName
	case fs.NArg() < 1:
		fs.Usage()
		return nil, errors.New("missing input file argument")
	default:
		opts.file = fs.Arg(0)
	}

	if opts.stats != "" && opts.run != "" {
		return nil, errors.New("-stats and -run cannot be used together")
	}
	if opts.save != "" && opts.run != "" {
		return nil, errors.New("-save and -run cannot be used together")
	}
	return opts, nil
}

func loadRows(opts *options) ([]query.Row, error) {
	if opts.sample {
		return reader.Default()
	}
	return reader.Load(opts.file)
}

// applyConfig fills options the user did not set on the command line.
func applyConfig(opts *options, cfg *config.Config) {
	if !opts.set["f"] {
		opts.format = cfg.Format
	}
	if !opts.set["o"] {
		opts.output = cfg.Output
	}
	if !opts.set["top"] {
		opts.top = cfg.Top
	}
	if !opts.set["queries"] {
		opts.queriesFile = cfg.QueriesFile
	}
	if !opts.set["metrics-file"] {
		opts.metricsFile = cfg.MetricsFile
	}
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyConfig(opts, cfg)
	if opts.top < 0 {
		return fmt.Errorf("-top must be non-negative, got %d", opts.top)
	}

	logger, cleanup, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer cleanup()
	slog.SetDefault(logger)

	if opts.metricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(opts.metricsFile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	rows, err := loadRows(opts)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file '%s' not found", opts.file)
		}
		return err
	}

	switch {
	case opts.fields:
		for _, f := range query.NewResolverFromRows(rows).Fields() {
			fmt.Fprintln(stdout, f)
		}
		return nil
	case opts.schema:
		return handleSchemaMode(opts, rows, stdout)
	case opts.stats != "":
		return handleStatsMode(opts, rows, stdout)
	}

	store := saved.NewStore()
	if opts.queriesFile != "" {
		if err := loadStore(store, opts.queriesFile); err != nil {
			return err
		}
	}

	var res *query.Result
	if opts.run != "" {
		res, err = store.Run(opts.run, rows)
		if err != nil {
			return err
		}
	} else {
		q, err := buildQuery(opts, rows)
		if err != nil {
			return err
		}
		if opts.save != "" {
			if opts.queriesFile == "" {
				return errors.New("-save requires -queries or queries_file in config")
			}
			if _, err := store.Save(opts.save, q); err != nil {
				return err
			}
			if err := saveStore(store, opts.queriesFile); err != nil {
				return err
			}
		}
		res, err = q.Execute()
		if err != nil {
			return err
		}
	}

	if res.Grouped() && isJSON(opts.format) {
		return emitValue(opts, stdout, res)
	}
	return emitRows(opts, stdout, res.Flatten())
}

// buildQuery translates the query flags into builder calls. Resolution
// errors surface from the first failing call.
func buildQuery(opts *options, rows []query.Row) (*query.Query, error) {
	q := query.New(rows)

	if opts.selectList != "" {
		q.Select(splitList(opts.selectList, ",")...)
	}
	for _, w := range opts.where {
		field, value, ok := strings.Cut(w, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -where %q: want field=value", w)
		}
		q.WhereEqual(strings.TrimSpace(field), value)
	}
	for _, in := range opts.in {
		field, values, ok := strings.Cut(in, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -in %q: want field=v1|v2", in)
		}
		q.WhereIn(strings.TrimSpace(field), strings.Split(values, "|")...)
	}
	for _, s := range opts.sort {
		field, desc := parseSortKey(s)
		q.SortBy(field, desc)
	}
	if opts.group != "" {
		q.GroupBy(opts.group)
	}

	if err := q.Err(); err != nil {
		return nil, err
	}
	return q, nil
}

// parseSortKey splits "field:desc" or "field:asc"; any other suffix is part
// of the field name.
func parseSortKey(s string) (string, bool) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return strings.TrimSpace(s), false
	}
	switch strings.ToLower(strings.TrimSpace(s[i+1:])) {
	case "desc":
		return strings.TrimSpace(s[:i]), true
	case "asc":
		return strings.TrimSpace(s[:i]), false
	default:
		return strings.TrimSpace(s), false
	}
}

func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func handleSchemaMode(opts *options, rows []query.Row, stdout io.Writer) error {
	infos := reader.Describe(rows)
	schemaRows := make([]map[string]interface{}, len(infos))
	for i, info := range infos {
		schemaRows[i] = map[string]interface{}{
			"name":     info.Name,
			"type":     info.Type,
			"present":  info.Present,
			"missing":  info.Missing,
			"optional": info.Optional,
		}
	}
	return emitRows(opts, stdout, schemaRows)
}

func handleStatsMode(opts *options, rows []query.Row, stdout io.Writer) error {
	calc := stats.New(rows)

	switch strings.ToLower(opts.stats) {
	case statsMedianSize:
		median, ok, err := calc.MedianSize()
		if err != nil {
			return err
		}
		var v interface{}
		if ok {
			v = median
		}
		return emitRows(opts, stdout, []map[string]interface{}{{"median_size": v}})
	case statsMostStarred:
		row, ok, err := calc.MostStarredRepo()
		if err != nil {
			return err
		}
		if !ok {
			return emitRows(opts, stdout, nil)
		}
		return emitRows(opts, stdout, []map[string]interface{}{row})
	case statsWithoutLanguage:
		result, err := calc.ReposWithoutLanguage()
		if err != nil {
			return err
		}
		return emitRows(opts, stdout, result)
	case statsTopCommits:
		result, err := calc.TopCommits(opts.top)
		if err != nil {
			return err
		}
		return emitRows(opts, stdout, result)
	case statsAvgStars:
		averages, err := calc.AverageStarsByLanguage()
		if err != nil {
			return err
		}
		avgRows := make([]map[string]interface{}, len(averages))
		for i, a := range averages {
			avgRows[i] = map[string]interface{}{"language": a.Language, "average": a.Average}
		}
		return emitRows(opts, stdout, avgRows)
	case statsAll:
		report, err := calc.Report(opts.top)
		if err != nil {
			return err
		}
		return emitValue(opts, stdout, report)
	default:
		return fmt.Errorf("unknown -stats %q", opts.stats)
	}
}

func isJSON(format string) bool {
	return strings.EqualFold(strings.TrimSpace(format), output.FormatJSON) || strings.TrimSpace(format) == ""
}

// emitRows renders rows with the configured formatter, to -o or stdout.
func emitRows(opts *options, stdout io.Writer, rows []map[string]interface{}) error {
	if opts.output != "" {
		return output.WriteFile(opts.output, opts.newFormatter, rows)
	}

	f, err := opts.newFormatter(stdout)
	if err != nil {
		return err
	}
	return f.Format(rows)
}

func (o *options) newFormatter(w io.Writer) (output.Formatter, error) {
	f, err := output.NewFormatter(o.format, w)
	if err != nil {
		return nil, err
	}
	if csvf, ok := f.(*output.CSVFormatter); ok {
		csvf.EscapeFormulas = o.escape
	}
	return f, nil
}

// emitValue writes an arbitrary JSON value, to -o or stdout.
func emitValue(opts *options, stdout io.Writer, v interface{}) error {
	if opts.output != "" {
		return output.WriteJSONFile(opts.output, v)
	}
	return output.WriteJSON(stdout, v)
}

func loadStore(store *saved.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open saved queries: %w", err)
	}
	defer func() { _ = f.Close() }()
	return store.Import(f)
}

func saveStore(store *saved.Store, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create saved queries: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return store.Export(f)
}
