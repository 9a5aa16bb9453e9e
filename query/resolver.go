package query

import (
	"sort"
	"strings"
	"unicode"

	"github.com/vegasq/repostat/internal/metrics"
)

// SampleSize is the number of leading rows a Resolver inspects for column names.
const SampleSize = 5

// Resolver maps loosely spelled field names onto the column keys present in
// a dataset. It is immutable once built and safe to share read-only.
type Resolver struct {
	fields       []string
	byNormalized map[string][]string
	tokens       map[string][]string
}

// NewResolver builds a resolver over the given column names.
func NewResolver(fields []string) *Resolver {
	r := &Resolver{
		byNormalized: make(map[string][]string),
		tokens:       make(map[string][]string),
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		r.fields = append(r.fields, f)
	}
	sort.Strings(r.fields)

	for _, f := range r.fields {
		norm := normalizeField(f)
		r.byNormalized[norm] = append(r.byNormalized[norm], f)
		r.tokens[f] = fieldTokens(f)
	}
	return r
}

// NewResolverFromRows builds a resolver over the keys of the first
// SampleSize rows.
func NewResolverFromRows(rows []Row) *Resolver {
	return NewResolver(SampleFields(rows))
}

// SampleFields returns the union of keys found in the first SampleSize rows.
func SampleFields(rows []Row) []string {
	n := len(rows)
	if n > SampleSize {
		n = SampleSize
	}

	set := make(map[string]bool)
	var fields []string
	for _, row := range rows[:n] {
		for k := range row {
			if !set[k] {
				set[k] = true
				fields = append(fields, k)
			}
		}
	}
	sort.Strings(fields)
	return fields
}

// Fields returns the known column keys in sorted order.
func (r *Resolver) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Resolve returns the column key matching name.
//
// Names are compared after normalisation (lowercase, whitespace, underscores
// and hyphens removed). When nothing normalises to the same value the lookup
// fails. Columns whose separator-delimited words contain the words of name as
// a contiguous run are reported as candidates on the error, never returned.
func (r *Resolver) Resolve(name string) (string, error) {
	norm := normalizeField(name)

	if matches := r.byNormalized[norm]; len(matches) == 1 {
		return matches[0], nil
	} else if len(matches) > 1 {
		return "", newFieldError(name, matches)
	}

	want := fieldTokens(name)
	if len(want) == 0 {
		return "", newFieldError(name, nil)
	}

	var partial []string
	for _, f := range r.fields {
		if containsRun(r.tokens[f], want) {
			partial = append(partial, f)
		}
	}

	return "", newFieldError(name, partial)
}

func newFieldError(name string, candidates []string) *FieldNotFoundError {
	out := make([]string, len(candidates))
	copy(out, candidates)
	sort.Strings(out)

	reason := "not_found"
	if len(out) > 1 {
		reason = "ambiguous"
	}
	metrics.FieldResolutionFailures.WithLabelValues(reason).Inc()

	return &FieldNotFoundError{Field: name, Candidates: out}
}

func isFieldSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '-'
}

// normalizeField lowercases s and strips whitespace, underscores and hyphens.
func normalizeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if isFieldSeparator(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fieldTokens splits s into lowercase words on whitespace, underscores and hyphens.
func fieldTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), isFieldSeparator)
}

// containsRun reports whether want occurs as a contiguous run inside have.
func containsRun(have, want []string) bool {
	if len(want) > len(have) {
		return false
	}
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j := range want {
			if have[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
