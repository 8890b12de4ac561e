package model

import (
	"fmt"
	"slices"
)

// Row maps column label to value.
type Row map[string]string

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows over an ordered set of columns.
// Rule stages never mutate a table they receive; they build a new one.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	return &Table{
		Columns: slices.Clone(columns),
		Rows:    []Row{},
	}
}

// Append adds rows to the end of the table.
func (t *Table) Append(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has a column with the given label.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Values returns the row's values in column order.
func (t *Table) Values(r Row) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = r[c]
	}
	return out
}

// Records returns every row as values in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = t.Values(r)
	}
	return out
}

// Empty returns a table with the same columns and no rows.
func (t *Table) Empty() *Table {
	return NewTable(t.Columns)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Without returns a copy of the table with the named columns removed.
func (t *Table) Without(names ...string) (*Table, error) {
	for _, n := range names {
		if !t.HasColumn(n) {
			return nil, fmt.Errorf("column %q does not exist", n)
		}
	}
	var columns []string
	for _, c := range t.Columns {
		if !slices.Contains(names, c) {
			columns = append(columns, c)
		}
	}
	out := NewTable(columns)
	for _, r := range t.Rows {
		row := make(Row, len(columns))
		for _, c := range columns {
			row[c] = r[c]
		}
		out.Append(row)
	}
	return out, nil
}
