// Package rows flattens documents into table rows, one base row per document
// plus one extra row per additional value of its multi-valued columns.
package rows

import (
	"context"
	"strings"

	"github.com/sourcegraph/conc/iter"
	"github.com/syntrixbase/esreport/internal/jsonpath"
	"github.com/syntrixbase/esreport/pkg/model"
)

// Expand resolves each path against doc and builds the rows for one document.
// columns and paths are aligned 1:1.
//
// A column whose resolved text splits on jsonpath.Separator into more than one
// non-empty value is multi-valued. The base row carries the first value of
// every multi-valued column; row i (i >= 1) carries value i of each
// multi-valued column ("" once a column runs out) and copies the base value of
// every other column.
func Expand(doc jsonpath.Node, columns, paths []string) []model.Row {
	base := make(model.Row, len(columns))
	multi := make(map[string][]string)
	maxCount := 0

	for i, column := range columns {
		value := jsonpath.ResolveString(doc, paths[i])
		values := splitValues(value)
		if len(values) > 1 {
			multi[column] = values
			base[column] = values[0]
			maxCount = max(maxCount, len(values))
		} else {
			base[column] = value
		}
	}

	out := make([]model.Row, 0, max(maxCount, 1))
	out = append(out, base)
	for i := 1; i < maxCount; i++ {
		row := make(model.Row, len(columns))
		for _, column := range columns {
			values, ok := multi[column]
			switch {
			case !ok:
				row[column] = base[column]
			case i < len(values):
				row[column] = values[i]
			default:
				row[column] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

func splitValues(value string) []string {
	if !strings.Contains(value, jsonpath.Separator) {
		return []string{value}
	}
	parts := strings.Split(value, jsonpath.Separator)
	values := parts[:0]
	for _, p := range parts {
		if p != "" {
			values = append(values, p)
		}
	}
	return values
}

// ExpandAll expands a page of documents concurrently and returns the rows in
// document order. workers <= 0 lets the pool pick its default size.
func ExpandAll(ctx context.Context, docs []jsonpath.Node, columns, paths []string, workers int) ([]model.Row, error) {
	mapper := iter.Mapper[jsonpath.Node, []model.Row]{MaxGoroutines: workers}
	expanded := mapper.Map(docs, func(doc *jsonpath.Node) []model.Row {
		return Expand(*doc, columns, paths)
	})
	if err := ctx.Err(); err != nil {
		return nil, model.WrapError(err)
	}

	total := 0
	for _, r := range expanded {
		total += len(r)
	}
	out := make([]model.Row, 0, total)
	for _, r := range expanded {
		out = append(out, r...)
	}
	return out, nil
}
