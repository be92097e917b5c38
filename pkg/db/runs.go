package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/tg-preview-scraper/models"
	"github.com/google/uuid"
)

const (
	RunStatusRunning = "running"
	RunStatusDone    = "done"
	RunStatusFailed  = "failed"
)

// Run represents one batch invocation
type Run struct {
	RunID        string
	CreatedAt    time.Time
	FinishedAt   sql.NullTime
	Handles      []string
	PrepareEdges bool
	MessageCount int
	UserCount    int
	EdgeCount    int
	Status       string
	ErrorMessage sql.NullString
}

// HandleCount is the per-channel breakdown of a run
type HandleCount struct {
	Handle      string
	Messages    int
	Placeholder bool
}

// CreateRun registers a new run and returns its id.
func (db *DB) CreateRun(handles []string, prepareEdges bool) (string, error) {
	runID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO runs (run_id, created_at, handles, handle_count, prepare_edges, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, time.Now().UTC(), strings.Join(handles, " "), len(handles), prepareEdges, RunStatusRunning)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return runID, nil
}

// FinishRun stores the final counts. A non-nil runErr marks the run failed.
func (db *DB) FinishRun(runID string, messages, users, edges int, runErr error) error {
	status := RunStatusDone
	var errMsg sql.NullString
	if runErr != nil {
		status = RunStatusFailed
		errMsg = NewNullString(runErr.Error())
	}

	_, err := db.Exec(`
		UPDATE runs
		SET finished_at = ?, message_count = ?, user_count = ?, edge_count = ?, status = ?, error_message = ?
		WHERE run_id = ?
	`, time.Now().UTC(), messages, users, edges, status, errMsg, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

const runColumns = `run_id, created_at, finished_at, handles, prepare_edges,
	message_count, user_count, edge_count, status, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var handles string
	err := row.Scan(&r.RunID, &r.CreatedAt, &r.FinishedAt, &handles, &r.PrepareEdges,
		&r.MessageCount, &r.UserCount, &r.EdgeCount, &r.Status, &r.ErrorMessage)
	if err != nil {
		return r, err
	}
	r.Handles = strings.Fields(handles)
	return r, nil
}

// GetRun retrieves a run by id or by an unambiguous id prefix.
func (db *DB) GetRun(idOrPrefix string) (*Run, error) {
	rows, err := db.Query(`SELECT `+runColumns+` FROM runs WHERE run_id LIKE ? || '%' ORDER BY created_at DESC LIMIT 2`, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("run %s not found", idOrPrefix)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %s is ambiguous", idOrPrefix)
	}
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRunCounts returns message counts per channel, in scrape order.
func (db *DB) GetRunCounts(runID string) ([]HandleCount, error) {
	rows, err := db.Query(`
		SELECT u.handle, u.placeholder,
		       (SELECT COUNT(*) FROM messages m WHERE m.run_id = u.run_id AND m.handle = u.handle)
		FROM users u
		WHERE u.run_id = ?
		ORDER BY u.position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run counts: %w", err)
	}
	defer rows.Close()

	var counts []HandleCount
	for rows.Next() {
		var c HandleCount
		if err := rows.Scan(&c.Handle, &c.Placeholder, &c.Messages); err != nil {
			return nil, fmt.Errorf("failed to scan run counts: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// GetRunEdges returns the forward edges stored for a run.
func (db *DB) GetRunEdges(runID string) ([]models.Edge, error) {
	rows, err := db.Query(`SELECT source, target, type FROM edges WHERE run_id = ? ORDER BY edge_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get edges: %w", err)
	}
	defer rows.Close()

	var edges []models.Edge
	for rows.Next() {
		var e models.Edge
		if err := rows.Scan(&e.Source, &e.Target, &e.Type); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// GetRunTexts returns the non-empty message texts of a run in scrape order.
func (db *DB) GetRunTexts(runID string) ([]string, error) {
	rows, err := db.Query(`SELECT text FROM messages WHERE run_id = ? AND text IS NOT NULL ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message texts: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan message text: %w", err)
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}
