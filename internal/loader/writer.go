package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
	"github.com/KaramelBytes/tabprep-cli/internal/utils"
)

// WriteOptions configures CSV output.
type WriteOptions struct {
	// Delimiter between fields; 0 means ','.
	Delimiter rune
	// Precision is the number of digits after the decimal point for numeric
	// cells; negative means the shortest form that reads back exactly.
	Precision int
}

// DefaultWriteOptions returns comma-separated, round-trip exact output.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Delimiter: ',', Precision: -1}
}

// Write encodes t as CSV with a header row.
func Write(w io.Writer, t *table.Table, opt WriteOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.Rows(); i++ {
		if err := cw.Write(t.Record(i, opt.Precision)); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes t to path, replacing any existing file atomically.
func WriteCSV(path string, t *table.Table, opt WriteOptions) error {
	var buf bytes.Buffer
	if err := Write(&buf, t, opt); err != nil {
		return &table.FileError{Op: "write", Path: path, Err: err}
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return &table.FileError{Op: "write", Path: path, Err: err}
	}
	slog.Debug("wrote table",
		slog.String("path", path),
		slog.Int("rows", t.Rows()),
		slog.Int("columns", t.Width()))
	return nil
}
