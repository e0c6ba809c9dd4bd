package record

import "fmt"

// Frame is a small column-oriented table. Columns keep their insertion order.
type Frame struct {
	columns []string
	data    map[string][]any
}

// NewFrame creates an empty frame with the given column order.
func NewFrame(columns ...string) *Frame {
	f := &Frame{data: make(map[string][]any, len(columns))}
	for _, c := range columns {
		f.columns = append(f.columns, c)
		f.data[c] = nil
	}
	return f
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Column returns the values of a column, or nil if it does not exist.
func (f *Frame) Column(name string) []any {
	return f.data[name]
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.data[f.columns[0]])
}

// Append adds one row. The number of values must match the number of columns.
func (f *Frame) Append(values ...any) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("frame: got %d values for %d columns", len(values), len(f.columns))
	}
	for i, c := range f.columns {
		f.data[c] = append(f.data[c], values[i])
	}
	return nil
}

// Records returns the frame in row orientation, one record per row.
func (f *Frame) Records() ([]Record, error) {
	n := f.Len()
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		row := make(Record, len(f.columns))
		for _, c := range f.columns {
			col := f.data[c]
			if i >= len(col) {
				return nil, fmt.Errorf("frame: column %q is short", c)
			}
			row[c] = col[i]
		}
		out[i] = row
	}
	return out, nil
}
