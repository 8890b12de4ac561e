package model

import "fmt"

// Cursor is the search_after tuple of the last document of a page.
// Values are kept as decoded: json.Number for numbers, string for strings.
type Cursor []any

// IsEmpty reports whether the cursor carries no values.
func (c Cursor) IsEmpty() bool {
	return len(c) == 0
}

// Equal compares two cursors value by value.
func (c Cursor) Equal(other Cursor) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if fmt.Sprint(c[i]) != fmt.Sprint(other[i]) {
			return false
		}
	}
	return true
}
