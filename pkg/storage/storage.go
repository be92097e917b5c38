// Package storage writes result tables as newline-delimited JSON.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dtnitsch/tg-preview-scraper/models"
)

// Stdout is the path that selects the Storage's stdout writer.
const Stdout = "-"

type Storage struct {
	stdout io.Writer
}

func New(stdout io.Writer) *Storage {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Storage{stdout: stdout}
}

// AppendRecords appends one JSON object per record to filePath.
func (s *Storage) AppendRecords(filePath string, records []models.Record) error {
	return appendLines(s, filePath, records)
}

// AppendEdges appends one JSON object per edge to filePath.
func (s *Storage) AppendEdges(filePath string, edges []models.Edge) error {
	return appendLines(s, filePath, edges)
}

func appendLines[T any](s *Storage, filePath string, rows []T) error {
	if filePath == Stdout {
		return encodeLines(s.stdout, rows)
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening output file: %w", err)
	}
	if err := encodeLines(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing output file: %w", err)
	}
	return nil
}

func encodeLines[T any](w io.Writer, rows []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("error writing record: %w", err)
		}
	}
	return nil
}
