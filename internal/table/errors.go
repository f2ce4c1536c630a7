package table

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match with errors.Is; the structured wrappers below carry
// the offending column, row or path.
var (
	ErrUnknownColumn     = errors.New("unknown column")
	ErrDuplicateColumn   = errors.New("duplicate column")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileRead          = errors.New("file read error")
	ErrParse             = errors.New("parse error")
	ErrDegenerateInput   = errors.New("degenerate input")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrInvalidOption     = errors.New("invalid option")
	ErrShape             = errors.New("inconsistent table shape")
)

// ColumnError reports a failure tied to a column and, when Row >= 0, a row.
type ColumnError struct {
	Op     string
	Column string
	Row    int
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%s: column %q row %d: %v", e.Op, e.Column, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: column %q: %v", e.Op, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// FileError reports a load or write failure for a path.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// UnknownColumn builds the error returned when a selector names a missing column.
func UnknownColumn(op, name string) error {
	return &ColumnError{Op: op, Column: name, Row: -1, Err: ErrUnknownColumn}
}

// DuplicateColumn builds the error returned when a new column would collide.
func DuplicateColumn(op, name string) error {
	return &ColumnError{Op: op, Column: name, Row: -1, Err: ErrDuplicateColumn}
}
