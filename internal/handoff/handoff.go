// Package handoff checks a prepared table against what an analysis consumer
// accepts and projects it into the matrix form such consumers read.
package handoff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// RequireBoolean fails with ErrTypeMismatch on the first column that is not
// bool. Frequent-itemset miners read nothing else.
func RequireBoolean(t *table.Table) error {
	for _, c := range t.Columns() {
		if c.Kind() != table.Bool {
			return &table.ColumnError{Op: "require boolean", Column: c.Name(), Row: -1,
				Err: fmt.Errorf("%w: column is %s, want bool", table.ErrTypeMismatch, c.Kind())}
		}
	}
	return nil
}

// NumericColumns returns the numeric column names in table order and fails
// with ErrTypeMismatch when there are fewer than atLeast of them.
func NumericColumns(t *table.Table, atLeast int) ([]string, error) {
	var names []string
	for _, c := range t.Columns() {
		if c.Kind() == table.Numeric {
			names = append(names, c.Name())
		}
	}
	if len(names) < atLeast {
		return nil, fmt.Errorf("numeric columns: %w: found %d, need at least %d",
			table.ErrTypeMismatch, len(names), atLeast)
	}
	return names, nil
}

// Matrix projects the named columns into a rows x len(names) matrix. Numeric
// cells are copied and bools become 0 or 1. Any other kind is a type mismatch,
// and a missing numeric cell is degenerate input.
func Matrix(t *table.Table, names []string) (*mat.Dense, error) {
	const op = "matrix"
	cols, err := t.Lookup(op, names)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 || t.Rows() == 0 {
		return nil, fmt.Errorf("%s: %w: %d rows x %d columns", op, table.ErrDegenerateInput, t.Rows(), len(cols))
	}
	m := mat.NewDense(t.Rows(), len(cols), nil)
	for j, c := range cols {
		if k := c.Kind(); k != table.Numeric && k != table.Bool {
			return nil, &table.ColumnError{Op: op, Column: c.Name(), Row: -1,
				Err: fmt.Errorf("%w: column is %s, want numeric or bool", table.ErrTypeMismatch, k)}
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				return nil, &table.ColumnError{Op: op, Column: c.Name(), Row: i,
					Err: fmt.Errorf("%w: missing value", table.ErrDegenerateInput)}
			}
			m.Set(i, j, c.Float(i))
		}
	}
	return m, nil
}

// Project selects the named columns of t as numeric columns holding the
// matrix values, ready to be written for a consumer.
func Project(t *table.Table, names []string) (*table.Table, error) {
	m, err := Matrix(t, names)
	if err != nil {
		return nil, err
	}
	r, _ := m.Dims()
	cols := make([]*table.Column, len(names))
	for j, name := range names {
		vals := make([]float64, r)
		mat.Col(vals, j, m)
		cols[j] = table.NewNumeric(name, vals)
	}
	return table.New(cols...)
}
