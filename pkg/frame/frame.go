// Package frame provides an in-memory rectangular record set: an ordered
// list of column names plus rows of values. It is the carrier between
// dataset transformers and the storage layer, shaped the way bulk inserts
// consume data (ordered columns, [][]any rows).
//
// All transforming operations return a new Frame and never mutate the
// receiver, so callers can hold a raw extract and its cleaned form at the
// same time.
package frame

import (
	"fmt"
	"sort"
)

// Frame is a rectangular record set. The zero value is an empty frame.
type Frame struct {
	cols []string
	idx  map[string]int
	rows [][]any
}

// New creates an empty frame with the given column order.
func New(columns []string) Frame {
	f := Frame{cols: append([]string(nil), columns...)}
	f.reindex()
	return f
}

// FromRows creates a frame from ordered columns and rows. Rows shorter
// than the column list are padded with nils; longer rows are an error.
func FromRows(columns []string, rows [][]any) (Frame, error) {
	f := New(columns)
	f.rows = make([][]any, len(rows))
	for i, row := range rows {
		if len(row) > len(columns) {
			return Frame{}, fmt.Errorf(
				"frame: row %d has %d values for %d columns",
				i, len(row), len(columns))
		}
		r := make([]any, len(columns))
		copy(r, row)
		f.rows[i] = r
	}
	return f, nil
}

// FromRecords creates a frame from a list of records. Column order is the
// sorted union of all record keys; keys absent from a record yield nil.
func FromRecords(records []map[string]any) Frame {
	colSet := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			colSet[k] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	f := New(cols)
	f.rows = make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = rec[c]
		}
		f.rows[i] = row
	}
	return f
}

func (f *Frame) reindex() {
	f.idx = make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		f.idx[c] = i
	}
}

// Columns returns a copy of the column names in order.
func (f Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.rows)
}

// Has reports whether the frame has the named column.
func (f Frame) Has(col string) bool {
	_, ok := f.idx[col]
	return ok
}

// ColumnIndex returns the position of the named column, or -1.
func (f Frame) ColumnIndex(col string) int {
	if i, ok := f.idx[col]; ok {
		return i
	}
	return -1
}

// Value returns the cell at row i, named column. The second return is
// false when the column does not exist.
func (f Frame) Value(i int, col string) (any, bool) {
	j, ok := f.idx[col]
	if !ok {
		return nil, false
	}
	return f.rows[i][j], true
}

// Rows returns the row values in column order. The outer and inner slices
// are copies; cell values are shared.
func (f Frame) Rows() [][]any {
	out := make([][]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = append([]any(nil), row...)
	}
	return out
}

// Records converts the frame back into a list of maps.
func (f Frame) Records() []map[string]any {
	out := make([]map[string]any, len(f.rows))
	for i, row := range f.rows {
		rec := make(map[string]any, len(f.cols))
		for j, c := range f.cols {
			rec[c] = row[j]
		}
		out[i] = rec
	}
	return out
}

// Rename returns a frame with columns renamed per the mapping. Columns
// absent from the mapping keep their names; mapping keys absent from the
// frame are ignored.
func (f Frame) Rename(mapping map[string]string) Frame {
	out := f.clone()
	for i, c := range out.cols {
		if n, ok := mapping[c]; ok {
			out.cols[i] = n
		}
	}
	out.reindex()
	return out
}

// Drop returns a frame without the columns matching pred.
func (f Frame) Drop(pred func(string) bool) Frame {
	keep := make([]int, 0, len(f.cols))
	for i, c := range f.cols {
		if !pred(c) {
			keep = append(keep, i)
		}
	}

	out := Frame{cols: make([]string, len(keep))}
	for k, i := range keep {
		out.cols[k] = f.cols[i]
	}
	out.reindex()

	out.rows = make([][]any, len(f.rows))
	for r, row := range f.rows {
		nr := make([]any, len(keep))
		for k, i := range keep {
			nr[k] = row[i]
		}
		out.rows[r] = nr
	}
	return out
}

// AppendConst returns a frame with a new column holding the same value in
// every row.
func (f Frame) AppendConst(col string, value any) Frame {
	out := f.clone()
	out.cols = append(out.cols, col)
	out.reindex()
	for i := range out.rows {
		out.rows[i] = append(out.rows[i], value)
	}
	return out
}

// Apply returns a frame with fn applied to every cell of the named
// column. Frames without the column are returned unchanged.
func (f Frame) Apply(col string, fn func(any) any) Frame {
	j, ok := f.idx[col]
	if !ok {
		return f
	}
	out := f.clone()
	for i := range out.rows {
		out.rows[i][j] = fn(out.rows[i][j])
	}
	return out
}

// clone deep-copies the frame structure; cell values are shared.
func (f Frame) clone() Frame {
	out := Frame{cols: append([]string(nil), f.cols...)}
	out.reindex()
	out.rows = make([][]any, len(f.rows))
	for i, row := range f.rows {
		out.rows[i] = append([]any(nil), row...)
	}
	return out
}
