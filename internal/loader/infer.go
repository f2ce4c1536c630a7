package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// missingTokens are cell spellings read as "no value".
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

func isMissing(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// normalizeHeader strips a leading BOM, names blank headers "Unnamed: i" and
// suffixes repeated names with the first unused of ".1", ".2", ...
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	next := make(map[string]int)
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if used[name] {
			n := max(next[h], 1)
			for used[fmt.Sprintf("%s.%d", h, n)] {
				n++
			}
			name = fmt.Sprintf("%s.%d", h, n)
			next[h] = n + 1
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// buildTable infers a kind per column and assembles the table. rows must
// already be padded to the header width.
func buildTable(header []string, rows [][]string) (*table.Table, error) {
	names := normalizeHeader(header)
	cols := make([]*table.Column, len(names))
	for j, name := range names {
		cells := make([]string, len(rows))
		for i, r := range rows {
			cells[i] = r[j]
		}
		cols[j] = inferColumn(name, cells)
	}
	return table.New(cols...)
}

// inferColumn returns a numeric column when every non-missing cell parses as a
// float, and a text column otherwise.
func inferColumn(name string, cells []string) *table.Column {
	nums := make([]float64, len(cells))
	numeric := true
	for i, s := range cells {
		if isMissing(s) {
			nums[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = v
	}
	if numeric {
		return table.NewNumeric(name, nums)
	}
	strs := make([]string, len(cells))
	for i, s := range cells {
		if !isMissing(s) {
			strs[i] = s
		}
	}
	return table.NewText(name, strs)
}

// padRow extends short rows with empty cells.
func padRow(rec []string, width int) []string {
	if len(rec) >= width {
		return rec
	}
	out := make([]string, width)
	copy(out, rec)
	return out
}
