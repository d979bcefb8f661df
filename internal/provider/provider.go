// Package provider implements the row store behind content:// locators.
//
// Callers query a Resolver with a Locator and read the result through a
// Cursor. A nil Cursor with a nil error means no provider serves the
// locator's authority; an empty Cursor means the provider matched no rows.
// Cursors must be closed by the caller.
package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrCursorClosed is returned when a closed cursor is read.
	ErrCursorClosed = errors.New("cursor closed")

	// ErrNoSuchColumn is returned for a column index outside the result set.
	ErrNoSuchColumn = errors.New("no such column")

	// ErrNoRow is returned when the cursor is not positioned on a row.
	ErrNoRow = errors.New("cursor not positioned on a row")

	// ErrUnknownLocator is returned when a provider owns the authority but
	// does not recognise the path.
	ErrUnknownLocator = errors.New("unknown locator")
)

// Resolver is the row-query service.
type Resolver interface {
	// Query returns every column of every row the locator matches, with no
	// filter applied.
	Query(ctx context.Context, loc Locator) (Cursor, error)

	// Type returns the content type of the locator, or "" when unknown.
	Type(ctx context.Context, loc Locator) (string, error)
}

// Cursor iterates a query result.
type Cursor interface {
	// Count returns the number of rows in the result.
	Count() int

	// Next advances to the next row. The first call moves to the first row.
	Next() bool

	// ColumnIndex returns the index of the named column, or -1.
	ColumnIndex(name string) int

	// IsNull reports whether the column of the current row is NULL.
	IsNull(col int) (bool, error)

	// String returns the column of the current row as text. NULL reads as "".
	String(col int) (string, error)

	// Close releases the cursor. It is safe to call more than once.
	Close() error
}

// MemoryCursor is a Cursor over rows already read into memory.
type MemoryCursor struct {
	columns []string
	rows    [][]sql.NullString
	pos     int
	closed  bool
}

// NewMemoryCursor returns a cursor over rows. Each row must have one value
// per column.
func NewMemoryCursor(columns []string, rows [][]sql.NullString) *MemoryCursor {
	return &MemoryCursor{columns: columns, rows: rows, pos: -1}
}

// Count returns the number of rows.
func (c *MemoryCursor) Count() int { return len(c.rows) }

// Next advances to the next row.
func (c *MemoryCursor) Next() bool {
	if c.closed || c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return c.pos < len(c.rows)
}

// ColumnIndex returns the index of the named column, or -1.
func (c *MemoryCursor) ColumnIndex(name string) int {
	for i, col := range c.columns {
		if col == name {
			return i
		}
	}
	return -1
}

// IsNull reports whether the column of the current row is NULL.
func (c *MemoryCursor) IsNull(col int) (bool, error) {
	v, err := c.value(col)
	if err != nil {
		return false, err
	}
	return !v.Valid, nil
}

// String returns the column of the current row as text.
func (c *MemoryCursor) String(col int) (string, error) {
	v, err := c.value(col)
	if err != nil {
		return "", err
	}
	return v.String, nil
}

// Close marks the cursor closed and drops its rows.
func (c *MemoryCursor) Close() error {
	c.closed = true
	c.rows = nil
	return nil
}

// Closed reports whether Close has been called.
func (c *MemoryCursor) Closed() bool { return c.closed }

func (c *MemoryCursor) value(col int) (sql.NullString, error) {
	if c.closed {
		return sql.NullString{}, ErrCursorClosed
	}
	if col < 0 || col >= len(c.columns) {
		return sql.NullString{}, fmt.Errorf("%w: index %d", ErrNoSuchColumn, col)
	}
	if c.pos < 0 || c.pos >= len(c.rows) {
		return sql.NullString{}, ErrNoRow
	}
	return c.rows[c.pos][col], nil
}

var _ Cursor = (*MemoryCursor)(nil)
