package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rental-explorer/models"
)

// CSVWriter serializes an exported view to a CSV file. Fields containing
// the delimiter, a quote character or a newline are quoted with embedded
// quotes doubled; a field missing from a record encodes as empty.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return &CSVWriter{file: f, writer: csv.NewWriter(f)}, nil
}

// Write emits the header row followed by one line per record, in the given
// column order. An empty view writes nothing: the output stays empty.
func (c *CSVWriter) Write(header []string, records []models.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(records) == 0 {
		return nil
	}

	if err := c.writer.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	row := make([]string, len(header))
	for _, rec := range records {
		for i, field := range header {
			row[i] = rec[field]
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
