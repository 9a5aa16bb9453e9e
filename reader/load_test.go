package reader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vegasq/repostat/internal/codec"
)

const reposCSV = "repo_name,stars,language\nparcat,10,Go\nspektr,3,\n"

func TestLoad_Formats(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"repos.csv", "repos.csv.gz", "repos.csv.zst", "repos.csv.lz4", "repos.csv.br"} {
		t.Run(name, func(t *testing.T) {
			c, _ := codec.Detect(name)

			var buf bytes.Buffer
			w, err := codec.NewWriter(c, &buf)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if _, err := w.Write([]byte(reposCSV)); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				t.Fatalf("failed to write %s: %v", name, err)
			}

			rows, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(rows) != 2 {
				t.Fatalf("Load() returned %d rows, want 2", len(rows))
			}
			if rows[1]["language"] != "" {
				t.Errorf("language = %#v, want empty string", rows[1]["language"])
			}
		})
	}
}

func TestLoad_Parquet(t *testing.T) {
	path := writeParquet(t, t.TempDir(), "repos.parquet", []repoRecord{
		{RepoName: "parcat", Stars: 10, Language: "Go"},
	})

	rows, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["repo_name"] != "parcat" {
		t.Errorf("Load() = %v, want one parcat row", rows)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}
