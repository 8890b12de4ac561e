package rules

import (
	"slices"
	"strconv"
	"strings"

	"github.com/syntrixbase/esreport/pkg/model"
)

// CountColumn is the label of the column written by Count.
const CountColumn = "Count"

// Distinct keeps the first occurrence of each distinct row, in order.
func Distinct(t *model.Table) *model.Table {
	return dedupe(t)
}

// Group collapses identical rows into one, in first-seen order.
func Group(t *model.Table) *model.Table {
	return dedupe(t)
}

func dedupe(t *model.Table) *model.Table {
	out := t.Empty()
	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		k := groupKey(row, t.Columns)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out.Append(row.Clone())
	}
	return out
}

// Count groups rows by every column except the count column and emits one row
// per group, in first-seen order, with the group size in the count column.
// The first table column named "count" in any case is reused as the count
// column; every other such column is dropped rather than grouped on.
// With minQty set, groups smaller than *minQty are dropped.
func Count(t *model.Table, minQty *int) *model.Table {
	countColumn := CountColumnOf(t.Columns)
	keyColumns := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !strings.EqualFold(c, CountColumn) {
			keyColumns = append(keyColumns, c)
		}
	}

	type group struct {
		row   model.Row
		count int
	}
	var groups []*group
	index := make(map[string]*group)
	for _, row := range t.Rows {
		k := groupKey(row, keyColumns)
		g, ok := index[k]
		if !ok {
			g = &group{row: row}
			index[k] = g
			groups = append(groups, g)
		}
		g.count++
	}

	columns := append(slices.Clone(keyColumns), countColumn)
	out := model.NewTable(columns)
	for _, g := range groups {
		if minQty != nil && g.count < *minQty {
			continue
		}
		row := make(model.Row, len(columns))
		for _, c := range keyColumns {
			row[c] = g.row[c]
		}
		row[countColumn] = strconv.Itoa(g.count)
		out.Append(row)
	}
	return out
}

// CountColumnOf returns the label Count writes to for the given columns.
func CountColumnOf(columns []string) string {
	for _, c := range columns {
		if strings.EqualFold(c, CountColumn) {
			return c
		}
	}
	return CountColumn
}

// groupKey encodes the values of columns so that distinct value tuples never
// share a key, whatever characters the values contain.
func groupKey(row model.Row, columns []string) string {
	var b strings.Builder
	for _, c := range columns {
		v := row[c]
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
