package prep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// observed returns the non-NaN values of vals.
func observed(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// meanObserved returns the mean of the non-NaN values and how many there were.
func meanObserved(vals []float64) (float64, int) {
	obs := observed(vals)
	if len(obs) == 0 {
		return math.NaN(), 0
	}
	return stat.Mean(obs, nil), len(obs)
}

// fillMissing replaces NaN cells in place and reports how many were filled.
func fillMissing(vals []float64, with float64) int {
	n := 0
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = with
			n++
		}
	}
	return n
}

// numericValues returns a column as numbers. Numeric and bool columns convert
// directly; text and label cells must parse as floats.
func numericValues(op string, c *table.Column) ([]float64, error) {
	out := make([]float64, c.Len())
	switch c.Kind() {
	case table.Numeric, table.Bool:
		for i := range out {
			out[i] = c.Float(i)
		}
		return out, nil
	}
	for i := range out {
		if c.IsMissing(i) {
			out[i] = math.NaN()
			continue
		}
		s := c.Text(i)
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, &table.ColumnError{Op: op, Column: c.Name(), Row: i,
				Err: fmt.Errorf("%w: %q is not a number", table.ErrParse, s)}
		}
		out[i] = v
	}
	return out, nil
}

func invalidOption(op, column, format string, args ...any) error {
	return &table.ColumnError{Op: op, Column: column, Row: -1,
		Err: fmt.Errorf("%w: %s", table.ErrInvalidOption, fmt.Sprintf(format, args...))}
}
