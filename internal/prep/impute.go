package prep

import (
	"log/slog"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// Impute fills missing cells of every numeric column with that column's mean.
// Other kinds are untouched. A numeric column with no observed values has no
// mean and is left as is.
func Impute(t *table.Table) (*table.Table, error) {
	var repl []*table.Column
	for _, c := range t.Columns() {
		if c.Kind() != table.Numeric {
			continue
		}
		vals := c.Floats()
		mean, n := meanObserved(vals)
		if n == 0 {
			if len(vals) > 0 {
				slog.Debug("impute: no observed values, column left unchanged", slog.String("column", c.Name()))
			}
			continue
		}
		if filled := fillMissing(vals, mean); filled > 0 {
			slog.Debug("impute: filled missing cells",
				slog.String("column", c.Name()),
				slog.Int("cells", filled),
				slog.Float64("mean", mean))
			repl = append(repl, table.NewNumeric(c.Name(), vals))
		}
	}
	if len(repl) == 0 {
		return t, nil
	}
	return t.Replace("impute", repl...)
}
