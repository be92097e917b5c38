package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/tg-preview-scraper/models"
)

// SaveRecords stores the tables of one run in a single transaction.
func (db *DB) SaveRecords(runID string, messages, users []models.Record, edges []models.Edge) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := insertMessages(tx, runID, messages); err != nil {
		return err
	}
	if err := insertUsers(tx, runID, users); err != nil {
		return err
	}
	if err := insertEdges(tx, runID, edges); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

func insertMessages(tx *sql.Tx, runID string, messages []models.Record) error {
	stmt, err := tx.Prepare(`
		INSERT INTO messages (run_id, position, handle, post_id, post_number, posted_at, views, forwarded_message_url, text, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range messages {
		record, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
		var postedAt sql.NullTime
		if t, ok := m["datetime"].(time.Time); ok {
			postedAt = sql.NullTime{Time: t.UTC(), Valid: true}
		}
		_, err = stmt.Exec(runID, i,
			NewNullString(m.String("handle")),
			NewNullString(m.String("post_id")),
			NewNullString(m.String("post_number")),
			postedAt,
			nullFloat(m["views"]),
			NewNullString(m.String("forwarded_message_url")),
			NewNullString(m.String("text")),
			string(record))
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}
	return nil
}

func insertUsers(tx *sql.Tx, runID string, users []models.Record) error {
	stmt, err := tx.Prepare(`
		INSERT INTO users (run_id, position, handle, name, subscriber_count, placeholder, record)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare user insert: %w", err)
	}
	defer stmt.Close()

	for i, u := range users {
		record, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to encode user %d: %w", i, err)
		}
		// Placeholders carry only name and handle.
		placeholder := len(u) == 2 && u["name"] == u["handle"]
		_, err = stmt.Exec(runID, i, u.String("handle"),
			NewNullString(u.String("name")),
			nullFloat(u["subscriber_count"]),
			placeholder,
			string(record))
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
	}
	return nil
}

func insertEdges(tx *sql.Tx, runID string, edges []models.Edge) error {
	for _, e := range edges {
		_, err := tx.Exec(`INSERT INTO edges (run_id, source, target, type) VALUES (?, ?, ?, ?)`,
			runID, e.Source, e.Target, e.Type)
		if err != nil {
			return fmt.Errorf("failed to insert edge: %w", err)
		}
	}
	return nil
}

func nullFloat(v any) sql.NullFloat64 {
	f, ok := v.(float64)
	if !ok {
		return sql.NullFloat64{}
	}
	return NewNullFloat64(f)
}

// NewNullString returns a NullString that is NULL for "".
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func NewNullFloat64(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}
