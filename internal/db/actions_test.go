package db

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/tg-preview-scraper/models"
	dbpkg "github.com/dtnitsch/tg-preview-scraper/pkg/db"
	"github.com/urfave/cli/v2"
)

func seedRun(t *testing.T, path string) string {
	t.Helper()
	database, err := dbpkg.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer database.Close()

	runID, err := database.CreateRun([]string{"mychannel", "gone"}, true)
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	messages := []models.Record{
		{"post_id": "mychannel/1", "handle": "mychannel", "post_number": "1", "text": "Election results tonight"},
		{"post_id": "mychannel/2", "handle": "mychannel", "post_number": "2", "forwarded_message_url": "https://t.me/otherchan/55", "text": "More election coverage"},
	}
	users := []models.Record{
		{"name": "mychannel", "handle": "mychannel", "fullname": "My Channel"},
		models.PlaceholderUser("gone"),
	}
	edges := []models.Edge{{Source: "mychannel", Target: "otherchan", Type: models.EdgeTypeForward}}
	if err := database.SaveRecords(runID, messages, users, edges); err != nil {
		t.Fatalf("SaveRecords() failed: %v", err)
	}
	if err := database.FinishRun(runID, len(messages), len(users), len(edges), nil); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}
	return runID
}

func newTestApp(out *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:           "tgps",
		Writer:         out,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{Name: "runs", Flags: append(Flags, &cli.IntFlag{Name: "limit"}), Action: RunsAction},
			{Name: "run", Flags: append(Flags, &cli.BoolFlag{Name: "edges"}, &cli.IntFlag{Name: "keywords"}), Action: RunAction},
		},
	}
}

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := newTestApp(&out).Run(append([]string{"tgps"}, args...)); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func TestRunsAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	runID := seedRun(t, path)

	out := runApp(t, "runs", "--db", path)
	if !strings.Contains(out, runID[:8]) {
		t.Errorf("runs output missing run id %s:\n%s", runID[:8], out)
	}
	if !strings.Contains(out, "Total: 1 runs") {
		t.Errorf("runs output missing total:\n%s", out)
	}
}

func TestRunAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	runID := seedRun(t, path)

	for _, args := range [][]string{
		{"run", "--db", path, "--edges", runID[:8]},
		{"run", "--db", path, "--edges"},
	} {
		out := runApp(t, args...)
		for _, want := range []string{"Run " + runID, "Status:   done", "mychannel", "not available", "mychannel -> otherchan"} {
			if !strings.Contains(out, want) {
				t.Errorf("%v output missing %q:\n%s", args, want, out)
			}
		}
	}
}

func TestRunAction_Keywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	seedRun(t, path)

	out := runApp(t, "run", "--db", path, "--keywords", "1")
	if !strings.Contains(out, "1. election: 2") {
		t.Errorf("run output missing top word:\n%s", out)
	}
}

func TestRunsAction_Empty(t *testing.T) {
	out := runApp(t, "runs", "--db", filepath.Join(t.TempDir(), "empty.db"))
	if !strings.Contains(out, "No runs found") {
		t.Errorf("runs output = %q, want no runs message", out)
	}
}

func TestRunsAction_DatabaseFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	runID := seedRun(t, path)
	t.Setenv(dbpkg.PathEnvVar, path)

	out := runApp(t, "runs")
	if !strings.Contains(out, runID[:8]) {
		t.Errorf("runs output missing run id %s:\n%s", runID[:8], out)
	}
}

func TestRunAction_DatabaseFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")
	runID := seedRun(t, path)
	t.Setenv(dbpkg.PathEnvVar, "")

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("db_path: "+path+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out := runApp(t, "run", "-c", cfgPath)
	if !strings.Contains(out, "Run "+runID) {
		t.Errorf("run output missing run %s:\n%s", runID, out)
	}
}

func TestRunsAction_NoDatabase(t *testing.T) {
	t.Setenv(dbpkg.PathEnvVar, "")

	var out bytes.Buffer
	err := newTestApp(&out).Run([]string{"tgps", "runs"})
	if err == nil {
		t.Fatal("runs without a database returned nil error")
	}
	if !strings.Contains(err.Error(), "no database given") {
		t.Errorf("error = %v, want a missing database error", err)
	}
}
