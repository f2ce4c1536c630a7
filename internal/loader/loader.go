// Package loader reads delimited and spreadsheet files into tables and writes
// tables back out as CSV.
package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// Options controls how files are read.
type Options struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// SheetName selects a worksheet by name (case-insensitive).
	SheetName string
	// SheetIndex is the 1-based worksheet used when SheetName is empty; <= 0 means the first.
	SheetIndex int
}

// Format loads one family of file extensions.
type Format interface {
	Name() string
	CanLoad(path string) bool
	Load(path string, opt Options) (*table.Table, error)
}

var registry []Format

// Register adds a format to the registry. Earlier registrations win.
func Register(f Format) {
	registry = append(registry, f)
}

func init() {
	Register(csvFormat{})
	Register(xlsxFormat{})
}

// Supported reports whether some registered format accepts path.
func Supported(path string) bool {
	return lookup(path) != nil
}

// Load reads path with the format matching its extension.
func Load(path string, opt Options) (*table.Table, error) {
	f := lookup(path)
	if f == nil {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = "(none)"
		}
		return nil, &table.FileError{Op: "load", Path: path,
			Err: fmt.Errorf("%w: extension %s", table.ErrUnsupportedFormat, ext)}
	}
	t, err := f.Load(path, opt)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded table",
		slog.String("path", path),
		slog.String("format", f.Name()),
		slog.Int("rows", t.Rows()),
		slog.Int("columns", t.Width()))
	return t, nil
}

func lookup(path string) Format {
	for _, f := range registry {
		if f.CanLoad(path) {
			return f
		}
	}
	return nil
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func readErr(path string, err error) error {
	return &table.FileError{Op: "load", Path: path, Err: fmt.Errorf("%w: %w", table.ErrFileRead, err)}
}
