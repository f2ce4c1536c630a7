package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

type xlsxFormat struct{}

func (xlsxFormat) Name() string { return "xlsx" }

func (xlsxFormat) CanLoad(path string) bool {
	return hasExt(path, ".xlsx", ".xlsm")
}

// Load reads the selected worksheet; the first row is the header.
func (xlsxFormat) Load(path string, opt Options) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, readErr(path, err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f.GetSheetList(), path, opt)
	if err != nil {
		return nil, readErr(path, err)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, readErr(path, fmt.Errorf("read sheet %q: %w", sheet, err))
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, readErr(path, fmt.Errorf("sheet %q: missing header row", sheet))
	}
	header := rows[0]
	ncol := len(header)
	body := make([][]string, 0, len(rows)-1)
	for i, rec := range rows[1:] {
		if len(rec) > ncol {
			return nil, readErr(path, fmt.Errorf("sheet %q row %d has %d cells, header has %d", sheet, i+1, len(rec), ncol))
		}
		body = append(body, padRow(rec, ncol))
	}
	t, err := buildTable(header, body)
	if err != nil {
		return nil, readErr(path, err)
	}
	return t, nil
}

func resolveSheet(sheets []string, path string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'; available sheets: %s",
			opt.SheetName, filepath.Base(path), strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}
