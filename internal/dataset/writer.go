// Package dataset writes scored clause corpora as Parquet files for offline
// review of the rule set.
package dataset

import (
	"fmt"
	"os"

	"github.com/segmentio/parquet-go"
)

// ClauseRecord is one labeled corpus row.
type ClauseRecord struct {
	Text      string  `parquet:"text" json:"text"`
	Score     float64 `parquet:"score" json:"score"`
	Category  string  `parquet:"category" json:"category"`
	Formality bool    `parquet:"formality" json:"formality"`
	Source    string  `parquet:"source" json:"source"`
}

// Writer appends clause records to a Parquet file.
type Writer struct {
	file    *os.File
	writer  *parquet.GenericWriter[ClauseRecord]
	written int64
}

// NewWriter creates (or truncates) the output file.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: parquet.NewGenericWriter[ClauseRecord](file),
	}, nil
}

// Write appends records to the dataset.
func (w *Writer) Write(records []ClauseRecord) error {
	n, err := w.writer.Write(records)
	if err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	w.written += int64(n)
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int64 {
	return w.written
}

// Close flushes the Parquet footer and closes the file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to finalize dataset: %w", err)
	}
	return w.file.Close()
}
