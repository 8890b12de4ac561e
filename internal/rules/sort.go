package rules

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/syntrixbase/esreport/pkg/model"
)

// SortKey is one column of a sort expression.
type SortKey struct {
	Column     string
	Descending bool
}

// ParseSort parses "Col1 ASC, Col2 DESC". Direction defaults to ascending and
// is case-insensitive; column names may be wrapped in brackets.
func ParseSort(expr string) ([]SortKey, error) {
	var keys []SortKey
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := SortKey{Column: part}
		if i := strings.LastIndexAny(part, " \t"); i > 0 {
			switch strings.ToUpper(part[i+1:]) {
			case "ASC":
				key.Column = strings.TrimSpace(part[:i])
			case "DESC":
				key.Column = strings.TrimSpace(part[:i])
				key.Descending = true
			}
		}
		if strings.HasPrefix(key.Column, "[") && strings.HasSuffix(key.Column, "]") {
			key.Column = key.Column[1 : len(key.Column)-1]
		}
		if key.Column == "" {
			return nil, fmt.Errorf("%w: sort %q has an empty column", model.ErrInvalidRule, expr)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: sort %q names no column", model.ErrInvalidRule, expr)
	}
	return keys, nil
}

// Sort orders rows by keys. The sort is stable. A key whose column holds only
// numbers compares numerically; any other key compares case-insensitively.
func Sort(t *model.Table, keys []SortKey) (*model.Table, error) {
	for _, k := range keys {
		if !t.HasColumn(k.Column) {
			return nil, fmt.Errorf("%w: sort column %q does not exist", model.ErrInvalidRule, k.Column)
		}
	}

	compares := make([]func(a, b string) int, len(keys))
	for i, k := range keys {
		compares[i] = compareStrings
		if numericColumn(t, k.Column) {
			compares[i] = compareNumbers
		}
	}

	out := t.Clone()
	slices.SortStableFunc(out.Rows, func(a, b model.Row) int {
		for i, k := range keys {
			c := compares[i](a[k.Column], b[k.Column])
			if k.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out, nil
}

// numericColumn reports whether every value of column parses as a number.
func numericColumn(t *model.Table, column string) bool {
	for _, row := range t.Rows {
		if _, err := strconv.ParseFloat(row[column], 64); err != nil {
			return false
		}
	}
	return true
}

func compareNumbers(a, b string) int {
	fa, _ := strconv.ParseFloat(a, 64)
	fb, _ := strconv.ParseFloat(b, 64)
	return cmp.Compare(fa, fb)
}

func compareStrings(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}
