package dataset

import (
	"fmt"
	"strconv"
)

// Frame is an ordered, column-named table of string cells. An empty cell is
// treated as missing throughout the pipeline; numeric columns stay as strings
// until the feature transformer parses them.
type Frame struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New returns an empty frame with the given column order.
func New(columns ...string) *Frame {
	f := &Frame{
		cols:  append([]string(nil), columns...),
		index: make(map[string]int, len(columns)),
	}
	for i, c := range f.cols {
		f.index[c] = i
	}
	return f
}

// Columns returns the column names in order. Callers must not mutate the slice.
func (f *Frame) Columns() []string { return f.cols }

// Len reports the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Has reports whether the frame contains the named column.
func (f *Frame) Has(column string) bool {
	_, ok := f.index[column]
	return ok
}

// AppendRow adds a row. The row length must match the column count.
func (f *Frame) AppendRow(row []string) error {
	if len(row) != len(f.cols) {
		return fmt.Errorf("dataset: row has %d cells, frame has %d columns", len(row), len(f.cols))
	}
	f.rows = append(f.rows, append([]string(nil), row...))
	return nil
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []string {
	return append([]string(nil), f.rows[i]...)
}

// Cell returns the value at row i in the named column.
func (f *Frame) Cell(i int, column string) (string, error) {
	j, ok := f.index[column]
	if !ok {
		return "", fmt.Errorf("dataset: unknown column %q", column)
	}
	return f.rows[i][j], nil
}

// SetCell overwrites the value at row i in the named column.
func (f *Frame) SetCell(i int, column, value string) error {
	j, ok := f.index[column]
	if !ok {
		return fmt.Errorf("dataset: unknown column %q", column)
	}
	f.rows[i][j] = value
	return nil
}

// Column returns a copy of the named column's cells.
func (f *Frame) Column(column string) ([]string, error) {
	j, ok := f.index[column]
	if !ok {
		return nil, fmt.Errorf("dataset: unknown column %q", column)
	}
	out := make([]string, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[j]
	}
	return out, nil
}

// AddColumn appends a new column populated from values (one per row).
func (f *Frame) AddColumn(column string, values []string) error {
	if f.Has(column) {
		return fmt.Errorf("dataset: column %q already exists", column)
	}
	if len(values) != len(f.rows) {
		return fmt.Errorf("dataset: column %q has %d values, frame has %d rows", column, len(values), len(f.rows))
	}
	f.index[column] = len(f.cols)
	f.cols = append(f.cols, column)
	for i := range f.rows {
		f.rows[i] = append(f.rows[i], values[i])
	}
	return nil
}

// RenameColumn renames a column in place, keeping its position.
func (f *Frame) RenameColumn(from, to string) error {
	j, ok := f.index[from]
	if !ok {
		return fmt.Errorf("dataset: unknown column %q", from)
	}
	if f.Has(to) {
		return fmt.Errorf("dataset: column %q already exists", to)
	}
	delete(f.index, from)
	f.index[to] = j
	f.cols[j] = to
	return nil
}

// DropColumns removes the named columns. Names not present are ignored.
func (f *Frame) DropColumns(columns ...string) {
	drop := make(map[int]bool, len(columns))
	for _, c := range columns {
		if j, ok := f.index[c]; ok {
			drop[j] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	keptCols := make([]string, 0, len(f.cols)-len(drop))
	for j, c := range f.cols {
		if !drop[j] {
			keptCols = append(keptCols, c)
		}
	}
	for i, row := range f.rows {
		kept := make([]string, 0, len(keptCols))
		for j, v := range row {
			if !drop[j] {
				kept = append(kept, v)
			}
		}
		f.rows[i] = kept
	}
	f.cols = keptCols
	f.index = make(map[string]int, len(f.cols))
	for j, c := range f.cols {
		f.index[c] = j
	}
}

// Select returns a new frame containing only the named columns, in the given
// order. All requested columns must exist.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	idx := make([]int, len(columns))
	for k, c := range columns {
		j, ok := f.index[c]
		if !ok {
			return nil, fmt.Errorf("dataset: unknown column %q", c)
		}
		idx[k] = j
	}
	out := New(columns...)
	for _, row := range f.rows {
		cells := make([]string, len(idx))
		for k, j := range idx {
			cells[k] = row[j]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}

// Floats parses the named column as float64 values. Empty cells are rejected;
// use the feature transformer for imputation.
func (f *Frame) Floats(column string) ([]float64, error) {
	cells, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, v := range cells {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("dataset: column %q row %d: %w", column, i, err)
		}
		out[i] = parsed
	}
	return out, nil
}
