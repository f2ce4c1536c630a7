package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

type csvFormat struct{}

func (csvFormat) Name() string { return "csv" }

func (csvFormat) CanLoad(path string) bool {
	return hasExt(path, ".csv", ".tsv", ".txt")
}

func (csvFormat) Load(path string, opt Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, readErr(path, err)
	}
	defer f.Close()
	return readDelimited(f, path, opt)
}

func readDelimited(src io.Reader, path string, opt Options) (*table.Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, readErr(path, errors.New("missing header row"))
		}
		return nil, readErr(path, fmt.Errorf("read header: %w", err))
	}
	ncol := len(header)
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, readErr(path, fmt.Errorf("read row %d: %w", len(rows)+1, err))
		}
		if len(rec) > ncol {
			return nil, readErr(path, fmt.Errorf("row %d has %d fields, header has %d", len(rows)+1, len(rec), ncol))
		}
		rows = append(rows, padRow(rec, ncol))
	}
	t, err := buildTable(header, rows)
	if err != nil {
		return nil, readErr(path, err)
	}
	return t, nil
}

func sniffDelimiter(path string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	return ','
}
