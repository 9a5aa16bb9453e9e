package query

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cast"
)

// Row is a single record: column name to value. Values loaded by the reader
// package are strings; nil marks an absent value.
type Row = map[string]interface{}

// PredicateOp identifies the comparison a Predicate performs.
type PredicateOp string

const (
	// OpEqual keeps rows whose field equals Value.
	OpEqual PredicateOp = "equal"
	// OpIn keeps rows whose field is one of Values.
	OpIn PredicateOp = "in"
)

// Predicate is a filter over an already resolved column key.
type Predicate struct {
	Op     PredicateOp `json:"op"`
	Field  string      `json:"field"`
	Value  string      `json:"value,omitempty"`
	Values []string    `json:"values,omitempty"`
}

// Equal returns a predicate matching rows whose field equals value.
func Equal(field, value string) Predicate {
	return Predicate{Op: OpEqual, Field: field, Value: value}
}

// In returns a predicate matching rows whose field is a member of values.
// Duplicates collapse and order does not matter.
func In(field string, values ...string) Predicate {
	set := make(map[string]bool, len(values))
	uniq := make([]string, 0, len(values))
	for _, v := range values {
		if !set[v] {
			set[v] = true
			uniq = append(uniq, v)
		}
	}
	sort.Strings(uniq)
	return Predicate{Op: OpIn, Field: field, Values: uniq}
}

// Match evaluates the predicate against row. Absent values never match.
func (p Predicate) Match(row Row) bool {
	s, ok := TextValue(row, p.Field)
	if !ok {
		return false
	}

	switch p.Op {
	case OpEqual:
		return s == p.Value
	case OpIn:
		i := sort.SearchStrings(p.Values, s)
		return i < len(p.Values) && p.Values[i] == s
	default:
		return false
	}
}

// Validate checks that p carries a known operator and a field.
func (p Predicate) Validate() error {
	if p.Field == "" {
		return &InvalidOperationError{Op: "predicate", Reason: "missing field"}
	}
	switch p.Op {
	case OpEqual:
		return nil
	case OpIn:
		if !sort.StringsAreSorted(p.Values) {
			return &InvalidOperationError{Op: "predicate", Reason: "values must be sorted"}
		}
		return nil
	default:
		return &InvalidOperationError{Op: "predicate", Reason: fmt.Sprintf("unknown operator %q", p.Op)}
	}
}

func (p Predicate) String() string {
	if p.Op == OpIn {
		return fmt.Sprintf("%s in %v", p.Field, p.Values)
	}
	return fmt.Sprintf("%s = %q", p.Field, p.Value)
}

// SortKey is one ORDER BY style key over a resolved column.
type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// State is a copy of a query's builder state.
type State struct {
	Select     []string    `json:"select,omitempty"`
	Predicates []Predicate `json:"predicates,omitempty"`
	Sort       []SortKey   `json:"sort,omitempty"`
	Group      string      `json:"group,omitempty"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Group: s.Group}
	if s.Select != nil {
		out.Select = append([]string(nil), s.Select...)
	}
	if s.Sort != nil {
		out.Sort = append([]SortKey(nil), s.Sort...)
	}
	if s.Predicates != nil {
		out.Predicates = make([]Predicate, len(s.Predicates))
		for i, p := range s.Predicates {
			if p.Values != nil {
				p.Values = append([]string(nil), p.Values...)
			}
			out.Predicates[i] = p
		}
	}
	return out
}

// Group is one partition of a grouped result.
type Group struct {
	Key  string
	Rows []Row
}

// Result holds the output of Execute: flat rows, or groups when the query
// had a group-by field.
type Result struct {
	Rows    []Row
	Groups  []Group
	grouped bool
}

// Grouped reports whether the result is partitioned into groups.
func (r *Result) Grouped() bool {
	return r.grouped
}

// Map returns the groups keyed by group key. Order is lost; use Groups for
// first-occurrence order.
func (r *Result) Map() map[string][]Row {
	m := make(map[string][]Row, len(r.Groups))
	for _, g := range r.Groups {
		m[g.Key] = g.Rows
	}
	return m
}

// Flatten returns every row of the result, group by group.
func (r *Result) Flatten() []Row {
	if !r.grouped {
		return r.Rows
	}
	var rows []Row
	for _, g := range r.Groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}

// MarshalJSON encodes flat results as an array and grouped results as an
// object whose keys keep first-occurrence order.
func (r *Result) MarshalJSON() ([]byte, error) {
	if !r.grouped {
		rows := r.Rows
		if rows == nil {
			rows = []Row{}
		}
		return json.Marshal(rows)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range r.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Key)
		if err != nil {
			return nil, err
		}
		rows, err := json.Marshal(g.Rows)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rows)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// toText renders a non-string value as text.
func toText(v interface{}) string {
	return cast.ToString(v)
}
