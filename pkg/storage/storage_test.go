package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/tg-preview-scraper/models"
)

func TestAppendRecords_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "messages.ndjson")
	s := New(nil)

	first := []models.Record{{"post_id": "a/1", "views": 1500.0, "link": nil}}
	second := []models.Record{{"post_id": "a/2", "datetime": time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}}
	if err := s.AppendRecords(path, first); err != nil {
		t.Fatalf("AppendRecords() failed: %v", err)
	}
	if err := s.AppendRecords(path, second); err != nil {
		t.Fatalf("AppendRecords() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		`{"link":null,"post_id":"a/1","views":1500}`,
		`{"datetime":"2024-01-15T10:30:00Z","post_id":"a/2"}`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %s, want %s", i, lines[i], want[i])
		}
	}
}

func TestAppendEdges_Stdout(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)

	edges := []models.Edge{{Source: "mychannel", Target: "otherchan", Type: models.EdgeTypeForward}}
	if err := s.AppendEdges(Stdout, edges); err != nil {
		t.Fatalf("AppendEdges() failed: %v", err)
	}

	want := `{"source":"mychannel","target":"otherchan","type":"forward"}` + "\n"
	if buf.String() != want {
		t.Errorf("AppendEdges() wrote %q, want %q", buf.String(), want)
	}
}
