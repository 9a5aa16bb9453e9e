package reader

import (
	"testing"

	"github.com/vegasq/repostat/query"
)

func TestDescribe(t *testing.T) {
	rows := []query.Row{
		{"repo_name": "parcat", "stars": "10", "score": "1.5", "language": "Go", "notes": ""},
		{"repo_name": "tempo", "stars": "20", "score": "2", "language": nil, "notes": ""},
		{"repo_name": "spektr", "stars": "x", "score": "3e2", "notes": ""},
	}

	got := Describe(rows)
	want := map[string]SchemaInfo{
		"language":  {Name: "language", Type: TypeString, Present: 1, Missing: 2, Optional: true},
		"notes":     {Name: "notes", Type: TypeEmpty, Present: 0, Missing: 3, Optional: true},
		"repo_name": {Name: "repo_name", Type: TypeString, Present: 3, Missing: 0},
		"score":     {Name: "score", Type: TypeFloat, Present: 3, Missing: 0},
		"stars":     {Name: "stars", Type: TypeString, Present: 3, Missing: 0},
	}

	if len(got) != len(want) {
		t.Fatalf("Describe() returned %d columns, want %d", len(got), len(want))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Name > got[i].Name {
			t.Errorf("Describe() not sorted: %s before %s", got[i-1].Name, got[i].Name)
		}
	}
	for _, info := range got {
		if info != want[info.Name] {
			t.Errorf("Describe()[%s] = %+v, want %+v", info.Name, info, want[info.Name])
		}
	}
}

func TestDescribe_IntColumn(t *testing.T) {
	rows := []query.Row{{"stars": "1"}, {"stars": "-2"}, {"stars": " 3 "}}

	got := Describe(rows)
	if len(got) != 1 || got[0].Type != TypeInt {
		t.Errorf("Describe() = %+v, want single INT64 column", got)
	}
}
