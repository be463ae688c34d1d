// Package tabular writes schema-ordered delimited files. The schema is an
// ordered list of column id/title pairs; rows are flat id->value mappings
// produced by the projection layer, which guarantees every schema column is
// present in every row.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Column pairs a row key with the literal header title written to the file.
type Column struct {
	ID    string
	Title string
}

// Row is one flat projected record keyed by column id.
type Row map[string]string

// FileSink writes CSV files with overwrite semantics, creating the parent
// directory on demand.
type FileSink struct{}

func NewFileSink() *FileSink { return &FileSink{} }

// Write materializes one table: a header row of titles followed by one line
// per row, fields in schema order. An existing file is replaced whole.
func (s *FileSink) Write(path string, cols []Column, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}

	record := make([]string, len(cols))
	for _, row := range rows {
		for i, c := range cols {
			record[i] = row[c.ID]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
