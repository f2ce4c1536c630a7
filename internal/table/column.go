package table

import (
	"math"
	"strconv"
)

// Kind is the semantic type shared by every cell of a column.
type Kind int

const (
	// Numeric cells are float64; NaN marks a missing cell.
	Numeric Kind = iota
	// Text cells are free strings; the empty string marks a missing cell.
	Text
	// Bool cells are never missing.
	Bool
	// Label cells hold one of a small closed set of category names; empty is missing.
	Label
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	case Bool:
		return "bool"
	case Label:
		return "label"
	default:
		return "unknown"
	}
}

// Column is an immutable named vector of cells of a single Kind.
// Tables share Column values between versions, so nothing mutates a Column
// after construction; transforms build new ones.
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	strs  []string
	bools []bool
}

// NewNumeric returns a numeric column. It takes ownership of vals.
func NewNumeric(name string, vals []float64) *Column {
	return &Column{name: name, kind: Numeric, nums: vals}
}

// NewText returns a text column. It takes ownership of vals.
func NewText(name string, vals []string) *Column {
	return &Column{name: name, kind: Text, strs: vals}
}

// NewLabel returns a label column. It takes ownership of vals.
func NewLabel(name string, vals []string) *Column {
	return &Column{name: name, kind: Label, strs: vals}
}

// NewBool returns a bool column. It takes ownership of vals.
func NewBool(name string, vals []bool) *Column {
	return &Column{name: name, kind: Bool, bools: vals}
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int {
	switch c.kind {
	case Numeric:
		return len(c.nums)
	case Bool:
		return len(c.bools)
	default:
		return len(c.strs)
	}
}

// IsMissing reports whether cell i holds no value.
func (c *Column) IsMissing(i int) bool {
	switch c.kind {
	case Numeric:
		return math.IsNaN(c.nums[i])
	case Bool:
		return false
	default:
		return c.strs[i] == ""
	}
}

// Float returns cell i as a number: the value for numeric columns, 0/1 for
// bool columns, and NaN for everything else.
func (c *Column) Float(i int) float64 {
	switch c.kind {
	case Numeric:
		return c.nums[i]
	case Bool:
		if c.bools[i] {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// Bool returns cell i of a bool column; false for other kinds.
func (c *Column) Bool(i int) bool {
	if c.kind != Bool {
		return false
	}
	return c.bools[i]
}

// Text returns the textual form of cell i, or "" when missing.
func (c *Column) Text(i int) string { return c.Format(i, -1) }

// Format renders cell i. Numbers use prec digits after the point, or the
// shortest round-trip form when prec < 0. Missing cells render as "".
func (c *Column) Format(i int, prec int) string {
	switch c.kind {
	case Numeric:
		v := c.nums[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', prec, 64)
	case Bool:
		return strconv.FormatBool(c.bools[i])
	default:
		return c.strs[i]
	}
}

// Floats returns a copy of a numeric column's values, or nil for other kinds.
func (c *Column) Floats() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out
}

// Strings returns a copy of every cell's textual form.
func (c *Column) Strings() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Text(i)
	}
	return out
}

// Renamed returns a column sharing c's cells under a new name.
func (c *Column) Renamed(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}
