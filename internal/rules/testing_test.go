package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/esreport/pkg/model"
)

// tableOf builds a table from records in column order.
func tableOf(columns []string, records ...[]string) *model.Table {
	t := model.NewTable(columns)
	for _, rec := range records {
		row := make(model.Row, len(columns))
		for i, c := range columns {
			row[c] = rec[i]
		}
		t.Append(row)
	}
	return t
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil)
	require.NoError(t, err)
	return e
}
