package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("GLB_DEV_MODE", "false")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// Send drops messages; CLI tests never pump the event loop.
func (f fakeProgram) Send(tea.Msg) {}

// TestRunVersion verifies behavior for the covered scenario.
func TestRunVersion(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"--version"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), "glab-board") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

// TestRunPathsCommand verifies behavior for the covered scenario.
func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"paths"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	for _, field := range []string{"config:", "data_dir:", "db:", "log:"} {
		if !strings.Contains(out.String(), field) {
			t.Fatalf("expected %q in paths output, got %q", field, out.String())
		}
	}
}

// TestRunUnknownCommand verifies behavior for the covered scenario.
func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"bogus"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

// TestRunAuthSaveStatusClear verifies behavior for the covered scenario.
func TestRunAuthSaveStatusClear(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")

	err := run(context.Background(), []string{"--db", dbPath, "auth", "-base-url", "https://gitlab.example.com", "-token", "glpat-secret-1234"}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run(auth save) error = %v", err)
	}

	var status strings.Builder
	err = run(context.Background(), []string{"--db", dbPath, "auth"}, &status, io.Discard)
	if err != nil {
		t.Fatalf("run(auth status) error = %v", err)
	}
	if !strings.Contains(status.String(), "https://gitlab.example.com") {
		t.Fatalf("expected stored base url in status, got %q", status.String())
	}
	if strings.Contains(status.String(), "glpat-secret-1234") {
		t.Fatalf("expected masked token, got %q", status.String())
	}
	if !strings.Contains(status.String(), "1234") {
		t.Fatalf("expected token suffix in status, got %q", status.String())
	}

	err = run(context.Background(), []string{"--db", dbPath, "auth", "-clear"}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run(auth clear) error = %v", err)
	}
	var cleared strings.Builder
	err = run(context.Background(), []string{"--db", dbPath, "auth"}, &cleared, io.Discard)
	if err != nil {
		t.Fatalf("run(auth status after clear) error = %v", err)
	}
	if !strings.Contains(cleared.String(), "no stored credentials") {
		t.Fatalf("expected cleared credentials, got %q", cleared.String())
	}
}

// TestRunMissingCredentials verifies behavior for the covered scenario.
func TestRunMissingCredentials(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")
	err := run(context.Background(), []string{"--db", dbPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "auth") {
		t.Fatalf("expected credential guidance error, got %v", err)
	}
}

// TestRunStartsProgram verifies behavior for the covered scenario.
func TestRunStartsProgram(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(_ tea.Model) program {
		return fakeProgram{}
	}

	dbPath := filepath.Join(t.TempDir(), "board.db")
	err := run(context.Background(), []string{
		"--db", dbPath,
		"--base-url", "https://gitlab.example.com",
		"--token", "glpat-test",
		"--project", "42",
	}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// TestRunExportWritesBoardJSON verifies behavior for the covered scenario.
func TestRunExportWritesBoardJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/projects/42"):
			_, _ = w.Write([]byte(`{"id":42,"name":"Demo","path_with_namespace":"group/demo"}`))
		case strings.HasSuffix(r.URL.Path, "/projects/42/issues"):
			_, _ = w.Write([]byte(`[{"id":1,"iid":101,"project_id":42,"title":"Alpha","state":"opened","labels":["bug"]}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(server.Close)

	dbPath := filepath.Join(t.TempDir(), "board.db")
	var out strings.Builder
	err := run(context.Background(), []string{
		"--db", dbPath,
		"--base-url", server.URL,
		"--token", "glpat-test",
		"--project", "42",
		"export",
	}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(export) error = %v", err)
	}

	var snap boardSnapshot
	if err := json.Unmarshal([]byte(out.String()), &snap); err != nil {
		t.Fatalf("decode export json: %v", err)
	}
	if snap.Project != "group/demo" {
		t.Fatalf("expected project path in snapshot, got %q", snap.Project)
	}
	if len(snap.Columns) == 0 {
		t.Fatal("expected columns in snapshot")
	}
	total := 0
	for _, column := range snap.Columns {
		total += column.Total
	}
	if total != 1 {
		t.Fatalf("expected one exported issue, got %d", total)
	}
}
