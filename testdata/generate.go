// Command generate writes the sample repository listings used for manual
// runs of repostat: repos.csv, repos.csv.gz and repos.parquet.
//
//	go run ./testdata/generate.go
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/repostat/output"
)

type Repo struct {
	RepoName string `parquet:"repo_name"`
	Language string `parquet:"language,optional"`
	Stars    int64  `parquet:"stars"`
	Size     int64  `parquet:"size"`
	Commits  *int64 `parquet:"commits,optional"`
}

func commits(n int64) *int64 { return &n }

func main() {
	repos := []Repo{
		{RepoName: "parcat", Language: "Go", Stars: 120, Size: 2048, Commits: commits(310)},
		{RepoName: "tempo", Language: "Go", Stars: 3900, Size: 91000, Commits: commits(5200)},
		{RepoName: "spektr", Language: "", Stars: 14, Size: 512, Commits: commits(77)},
		{RepoName: "bunbase", Language: "TypeScript", Stars: 260, Size: 30500, Commits: nil},
		{RepoName: "mini-rdbms", Language: "Go", Stars: 45, Size: 860, Commits: commits(150)},
	}

	rows := make([]map[string]interface{}, len(repos))
	for i, r := range repos {
		row := map[string]interface{}{
			"repo_name": r.RepoName,
			"language":  r.Language,
			"stars":     strconv.FormatInt(r.Stars, 10),
			"size":      strconv.FormatInt(r.Size, 10),
			"commits":   "",
		}
		if r.Commits != nil {
			row["commits"] = strconv.FormatInt(*r.Commits, 10)
		}
		rows[i] = row
	}

	for _, name := range []string{"repos.csv", "repos.csv.gz"} {
		if err := output.WriteCSVFile(name, rows); err != nil {
			log.Fatal(err)
		}
	}

	file, err := os.Create("repos.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Repo](file)
	if _, err := writer.Write(repos); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated repos.csv, repos.csv.gz and repos.parquet with %d repositories", len(repos))
}
