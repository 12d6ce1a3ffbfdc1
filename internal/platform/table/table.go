// Package table adapts a list of records to a row/column grid. Each entity
// supplies its own ordered list of column accessors.
package table

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Column extracts one display value from a record.
type Column[T any] struct {
	Label string
	Value func(T) any
}

// Table is a grid over a backing slice of T.
type Table[T any] struct {
	items    []T
	columns  []Column[T]
	onChange []func()
}

func New[T any](items []T, columns []Column[T]) *Table[T] {
	t := &Table[T]{columns: columns}
	t.items = append(t.items, items...)
	return t
}

func (t *Table[T]) RowCount() int    { return len(t.items) }
func (t *Table[T]) ColumnCount() int { return len(t.columns) }

// ColumnName returns the label of col, or "" when out of range.
func (t *Table[T]) ColumnName(col int) string {
	if col < 0 || col >= len(t.columns) {
		return ""
	}
	return t.columns[col].Label
}

// ValueAt returns the cell value, or nil when row or col is out of range.
func (t *Table[T]) ValueAt(row, col int) any {
	if row < 0 || row >= len(t.items) || col < 0 || col >= len(t.columns) {
		return nil
	}
	return t.columns[col].Value(t.items[row])
}

// ItemAt returns the record behind row.
func (t *Table[T]) ItemAt(row int) (T, bool) {
	var zero T
	if row < 0 || row >= len(t.items) {
		return zero, false
	}
	return t.items[row], true
}

// Items returns a copy of the backing list.
func (t *Table[T]) Items() []T {
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

// ReplaceData clears the backing list, refills it from items and tells
// every observer that all rows changed.
func (t *Table[T]) ReplaceData(items []T) {
	clear(t.items)
	t.items = append(t.items[:0], items...)
	for _, fn := range t.onChange {
		fn()
	}
}

// OnChange registers fn to run after every ReplaceData.
func (t *Table[T]) OnChange(fn func()) {
	t.onChange = append(t.onChange, fn)
}

// Grid is the read side of a Table, independent of its record type.
type Grid interface {
	RowCount() int
	ColumnCount() int
	ColumnName(col int) string
	ValueAt(row, col int) any
}

// Render writes g as tab-aligned text with a header row.
func Render(w io.Writer, g Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, g.ColumnCount())
	for c := range header {
		header[c] = g.ColumnName(c)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}

	cells := make([]string, g.ColumnCount())
	for r := 0; r < g.RowCount(); r++ {
		for c := range cells {
			cells[c] = FormatValue(g.ValueAt(r, c))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// FormatValue renders a cell value for text output. nil and nil string
// pointers render empty.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case string:
		return x
	case float64:
		return fmt.Sprintf("%.2f", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
