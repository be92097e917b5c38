// Package db keeps scrape runs and the tables they produced in SQLite.
package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// PathEnvVar is read by every command that takes --db.
const PathEnvVar = "TGPS_DB"

// ErrNoPath is returned by Open when no database was named.
var ErrNoPath = errors.New("no database given; pass --db or set " + PathEnvVar)

// Per-connection settings, so every pooled connection enforces them.
const connParams = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

type DB struct {
	*sql.DB
	path string
}

func connect(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path+connParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return conn, nil
}

// Open opens the run store at path and creates its tables on first use.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	conn, err := connect(path)
	if err != nil {
		return nil, err
	}

	store := &DB{DB: conn, path: path}
	if err := store.InitSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare tables in %s: %w", path, err)
	}
	return store, nil
}

func (db *DB) Path() string { return db.path }

// InitSchema creates any missing table. Existing rows are left alone.
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}
