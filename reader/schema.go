package reader

import (
	"sort"

	"github.com/vegasq/repostat/query"
)

// Column types reported by Describe.
const (
	TypeInt    = "INT64"
	TypeFloat  = "FLOAT64"
	TypeString = "STRING"
	TypeEmpty  = "EMPTY"
)

// SchemaInfo describes one column inferred from loaded rows.
type SchemaInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Present  int    `json:"present"`
	Missing  int    `json:"missing"`
	Optional bool   `json:"optional"`
}

// Describe infers a schema from rows.
//
// A column is INT64 when every present, non-blank value coerces to an
// integer, FLOAT64 when every such value coerces to a float, STRING
// otherwise, and EMPTY when it holds no non-blank value. Columns are returned
// in name order.
func Describe(rows []query.Row) []SchemaInfo {
	type tally struct {
		present, ints, floats int
	}
	tallies := make(map[string]*tally)

	for _, col := range query.GetColumnNames(rows) {
		tallies[col] = &tally{}
	}

	for _, row := range rows {
		for col, t := range tallies {
			s, ok := query.TextValue(row, col)
			if !ok || s == "" {
				continue
			}
			t.present++
			if _, isInt := query.TryInt(s); isInt {
				t.ints++
			}
			if _, isFloat := query.TryFloat(s); isFloat {
				t.floats++
			}
		}
	}

	infos := make([]SchemaInfo, 0, len(tallies))
	for col, t := range tallies {
		info := SchemaInfo{
			Name:    col,
			Present: t.present,
			Missing: len(rows) - t.present,
		}
		info.Optional = info.Missing > 0

		switch {
		case t.present == 0:
			info.Type = TypeEmpty
		case t.ints == t.present:
			info.Type = TypeInt
		case t.floats == t.present:
			info.Type = TypeFloat
		default:
			info.Type = TypeString
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
