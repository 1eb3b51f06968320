package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidatesAndBuildsColumnSet(t *testing.T) {
	cfg := Default("/tmp/board.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	set, err := cfg.ColumnSet()
	if err != nil {
		t.Fatalf("ColumnSet() error = %v", err)
	}
	if set.Len() != 9 {
		t.Fatalf("default column count = %d, want 9", set.Len())
	}
	if set.FallbackColumn().ID != "open" || set.ClosedColumn().ID != "closed" {
		t.Fatalf("fallback/closed = %q/%q", set.FallbackColumn().ID, set.ClosedColumn().ID)
	}
	cols := set.Columns()
	if cols[0].ID != "open" || cols[8].ID != "closed" {
		t.Fatalf("column order: first=%q last=%q", cols[0].ID, cols[8].ID)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), Default("/tmp/board.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Board.Columns) != 9 {
		t.Fatalf("columns = %d, want defaults", len(cfg.Board.Columns))
	}
}

func TestLoadOverridesAndKeepsDefaultColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[gitlab]
base_url = "https://gitlab.example.com"
project_id = 42

[ui]
language = "fr"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, Default("/tmp/board.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitLab.BaseURL != "https://gitlab.example.com" || cfg.GitLab.ProjectID != 42 {
		t.Fatalf("gitlab section = %+v", cfg.GitLab)
	}
	if cfg.UI.Language != "fr" {
		t.Fatalf("language = %q", cfg.UI.Language)
	}
	if len(cfg.Board.Columns) != 9 {
		t.Fatalf("columns = %d, want defaults preserved", len(cfg.Board.Columns))
	}
}

func TestLoadCustomColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[[board.columns]]
id = "open"
name = "Backlog"
order = 0
match = "fallback"

[[board.columns]]
id = "doing"
name = "Doing"
order = 1
match = "labels"
labels = ["doing", "wip"]

[[board.columns]]
id = "closed"
name = "Done"
order = 2
match = "state-closed"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, Default("/tmp/board.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	set, err := cfg.ColumnSet()
	if err != nil {
		t.Fatalf("ColumnSet() error = %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("columns = %d, want 3", set.Len())
	}
}

func TestValidateRejections(t *testing.T) {
	base := Default("/tmp/board.db")

	noDB := base
	noDB.Database.Path = "  "
	if err := noDB.Validate(); err == nil {
		t.Fatal("Validate() accepted empty database path")
	}

	badLang := base
	badLang.UI.Language = "de"
	if err := badLang.Validate(); err == nil {
		t.Fatal("Validate() accepted unknown language")
	}

	badMatch := Default("/tmp/board.db")
	badMatch.Board.Columns[1].Match = "regex"
	if err := badMatch.Validate(); err == nil {
		t.Fatal("Validate() accepted unknown match rule")
	}

	twoFallbacks := Default("/tmp/board.db")
	twoFallbacks.Board.Columns[8].Match = "fallback"
	if err := twoFallbacks.Validate(); err == nil {
		t.Fatal("Validate() accepted a column set without a closed column")
	}
}
