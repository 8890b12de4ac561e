package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syntrixbase/esreport/pkg/model"
)

// FilterExists keeps rows whose column contains every listed value as a
// substring. An empty value keeps rows whose column is non-empty.
func FilterExists(t *model.Table, exprs map[string][]string) (*model.Table, error) {
	return filter(t, exprs, func(cell, value string) bool {
		if value == "" {
			return cell != ""
		}
		return strings.Contains(cell, value)
	})
}

// FilterNotExists drops rows whose column contains any listed value as a
// substring. An empty value is contained in every cell and drops every row.
func FilterNotExists(t *model.Table, exprs map[string][]string) (*model.Table, error) {
	return filter(t, exprs, func(cell, value string) bool {
		return !strings.Contains(cell, value)
	})
}

func filter(t *model.Table, exprs map[string][]string, keep func(cell, value string) bool) (*model.Table, error) {
	columns := make([]string, 0, len(exprs))
	for column := range exprs {
		if !t.HasColumn(column) {
			return nil, fmt.Errorf("%w: filter column %q does not exist", model.ErrInvalidRule, column)
		}
		columns = append(columns, column)
	}
	slices.Sort(columns)

	out := t.Empty()
rows:
	for _, row := range t.Rows {
		for _, column := range columns {
			for _, value := range exprs[column] {
				if !keep(row[column], value) {
					continue rows
				}
			}
		}
		out.Append(row.Clone())
	}
	return out, nil
}
