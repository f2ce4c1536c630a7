package prep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// Normalize coerces each named column to numbers and rescales it to [0,1].
//
// Text cells are stripped of everything but digits and '.', then parsed; a
// cell that still fails to parse is missing. Missing cells take the mean of
// the parsed ones. The column minimum maps to 0 and the maximum to 1; a
// column whose values are all equal maps to 0 everywhere. Cells that are
// already numeric are used as they are.
func Normalize(t *table.Table, names []string) (*table.Table, error) {
	cols, err := t.Lookup("normalize", names)
	if err != nil {
		return nil, err
	}
	repl := make([]*table.Column, 0, len(cols))
	for _, c := range cols {
		vals := coerceStripped(c)
		if len(vals) > 0 {
			mean, n := meanObserved(vals)
			if n == 0 {
				return nil, &table.ColumnError{Op: "normalize", Column: c.Name(), Row: -1,
					Err: fmt.Errorf("%w: no cell parses as a number", table.ErrDegenerateInput)}
			}
			fillMissing(vals, mean)
			minMaxScale(vals)
		}
		repl = append(repl, table.NewNumeric(c.Name(), vals))
	}
	return t.Replace("normalize", repl...)
}

// minMaxScale rescales vals in place; a zero span yields all zeros.
func minMaxScale(vals []float64) {
	lo, hi := floats.Min(vals), floats.Max(vals)
	span := hi - lo
	for i, v := range vals {
		if span == 0 {
			vals[i] = 0
			continue
		}
		vals[i] = (v - lo) / span
	}
}

func coerceStripped(c *table.Column) []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		switch {
		case c.Kind() == table.Numeric || c.Kind() == table.Bool:
			out[i] = c.Float(i)
		case c.IsMissing(i):
			out[i] = math.NaN()
		default:
			out[i] = parseStripped(c.Text(i))
		}
	}
	return out
}

// parseStripped keeps only digits and '.' before parsing, so "$1,200.50"
// reads as 1200.5. Unparsable leftovers are NaN.
func parseStripped(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if clean == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
