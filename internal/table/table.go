// Package table holds the in-memory dataset passed between pipeline stages
// and the error taxonomy shared by every stage.
package table

import (
	"fmt"
)

// Table is an ordered set of uniquely named columns of equal length.
// Every method that changes the shape returns a new Table; the receiver is
// left untouched.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a Table, checking that names are unique and lengths agree.
func New(cols ...*Column) (*Table, error) {
	t := &Table{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Name()]; dup {
			return nil, DuplicateColumn("new table", c.Name())
		}
		t.index[c.Name()] = i
		if i == 0 {
			t.rows = c.Len()
			continue
		}
		if c.Len() != t.rows {
			return nil, &ColumnError{Op: "new table", Column: c.Name(), Row: -1,
				Err: fmt.Errorf("%w: %d rows, want %d", ErrShape, c.Len(), t.rows)}
		}
	}
	return t, nil
}

// MustNew is New for fixtures and literals known to be well formed.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Width returns the column count.
func (t *Table) Width() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name()
	}
	return out
}

// Columns returns the columns in order. The slice is a copy; the columns are shared.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Lookup resolves a column selector, failing on the first absent name.
func (t *Table) Lookup(op string, names []string) ([]*Column, error) {
	out := make([]*Column, 0, len(names))
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, UnknownColumn(op, n)
		}
		out = append(out, c)
	}
	return out, nil
}

// Replace returns a Table with each given column swapped in at the position
// of the existing column of the same name.
func (t *Table) Replace(op string, cols ...*Column) (*Table, error) {
	next := t.Columns()
	for _, c := range cols {
		i, ok := t.index[c.Name()]
		if !ok {
			return nil, UnknownColumn(op, c.Name())
		}
		next[i] = c
	}
	return New(next...)
}

// Append returns a Table with cols added after the existing columns.
func (t *Table) Append(op string, cols ...*Column) (*Table, error) {
	for _, c := range cols {
		if t.Has(c.Name()) {
			return nil, DuplicateColumn(op, c.Name())
		}
	}
	return New(append(t.Columns(), cols...)...)
}

// Splice returns a Table where the named column is replaced by repl, in order,
// at its position.
func (t *Table) Splice(op, name string, repl ...*Column) (*Table, error) {
	at, ok := t.index[name]
	if !ok {
		return nil, UnknownColumn(op, name)
	}
	for _, c := range repl {
		if c.Name() != name && t.Has(c.Name()) {
			return nil, DuplicateColumn(op, c.Name())
		}
	}
	next := make([]*Column, 0, len(t.cols)-1+len(repl))
	next = append(next, t.cols[:at]...)
	next = append(next, repl...)
	next = append(next, t.cols[at+1:]...)
	return t.reshape(next)
}

// Drop returns a Table without the named columns. Every name must exist.
func (t *Table) Drop(op string, names ...string) (*Table, error) {
	if _, err := t.Lookup(op, names); err != nil {
		return nil, err
	}
	gone := make(map[string]struct{}, len(names))
	for _, n := range names {
		gone[n] = struct{}{}
	}
	next := make([]*Column, 0, len(t.cols))
	for _, c := range t.cols {
		if _, ok := gone[c.Name()]; !ok {
			next = append(next, c)
		}
	}
	return t.reshape(next)
}

// Select returns a Table holding only the named columns, in selector order.
func (t *Table) Select(op string, names ...string) (*Table, error) {
	cols, err := t.Lookup(op, names)
	if err != nil {
		return nil, err
	}
	return t.reshape(cols)
}

// reshape builds a Table from a subset of columns. An emptied table keeps the
// receiver's row count.
func (t *Table) reshape(cols []*Column) (*Table, error) {
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		out.rows = t.rows
	}
	return out, nil
}

// Record renders row i with the given numeric precision.
func (t *Table) Record(i int, prec int) []string {
	out := make([]string, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Format(i, prec)
	}
	return out
}
