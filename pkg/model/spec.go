package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultQuerySize is the page size used when a spec does not set one.
const DefaultQuerySize = 1000

// Function names the aggregate applied after filtering.
type Function string

const (
	FuncDistinct Function = "Distinct" // Drop duplicate rows
	FuncCount    Function = "Count"    // Group rows and count them
	FuncGroup    Function = "Group"    // Collapse identical rows
)

// IsValid checks if the function is one the rule engine applies.
// Any other value is accepted by a spec and treated as a no-op.
func (f Function) IsValid() bool {
	switch f {
	case FuncDistinct, FuncCount, FuncGroup:
		return true
	}
	return false
}

// Column is a table header. Visibility defaults to true when omitted.
type Column struct {
	Label      string `json:"label" yaml:"label"`
	Visibility bool   `json:"visibility" yaml:"visibility"`
}

func (c *Column) UnmarshalJSON(data []byte) error {
	type plain Column
	p := plain{Visibility: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Column(p)
	return nil
}

func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	type plain Column
	p := plain{Visibility: true}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Column(p)
	return nil
}

// QuerySpec describes one report: where the documents come from, how they are
// flattened into columns and which rules shape the final table.
//
//	TableHeaders and TableValues are aligned 1:1, header i is filled from path i.
//	SavedQueryID takes precedence over LuceneQuery when both are set.
type QuerySpec struct {
	IndexTag     string `json:"indexTag" yaml:"indexTag"`
	SavedQueryID string `json:"savedQueryId,omitempty" yaml:"savedQueryId"`
	LuceneQuery  string `json:"luceneQueryLanguage,omitempty" yaml:"luceneQueryLanguage"`

	Title       string   `json:"title,omitempty" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description"`
	To          []string `json:"to,omitempty" yaml:"to"`
	Cc          []string `json:"cc,omitempty" yaml:"cc"`

	TableHeaders []Column `json:"tableHeaders" yaml:"tableHeaders"`
	TableValues  []string `json:"tableValues" yaml:"tableValues"`

	ExprExists    map[string][]string `json:"exprExists,omitempty" yaml:"exprExists"`
	ExprNotExists map[string][]string `json:"exprNotExists,omitempty" yaml:"exprNotExists"`
	Where         string              `json:"where,omitempty" yaml:"where"`
	Func          Function            `json:"func,omitempty" yaml:"func"`
	MinQty        *int                `json:"minQty,omitempty" yaml:"minQty"`
	Sort          string              `json:"sort,omitempty" yaml:"sort"`

	SortField string `json:"sortField,omitempty" yaml:"sortField"`
	QuerySize int    `json:"querySize,omitempty" yaml:"querySize"`
}

// ApplyDefaults fills zero values with defaults.
func (s *QuerySpec) ApplyDefaults() {
	if s.QuerySize == 0 {
		s.QuerySize = DefaultQuerySize
	}
}

// HasQuerySource reports whether the spec names a saved query or a literal query.
func (s *QuerySpec) HasQuerySource() bool {
	return strings.TrimSpace(s.SavedQueryID) != "" || strings.TrimSpace(s.LuceneQuery) != ""
}

// Validate checks the structural invariants of the spec. It does not check
// the query source, which may only be resolvable against the backend.
func (s *QuerySpec) Validate() error {
	if strings.TrimSpace(s.IndexTag) == "" {
		return fmt.Errorf("%w: indexTag is required", ErrInvalidSpec)
	}
	if s.QuerySize < 0 {
		return fmt.Errorf("%w: querySize must be positive", ErrInvalidSpec)
	}
	if len(s.TableHeaders) == 0 {
		return fmt.Errorf("%w: at least one table header is required", ErrInvalidSpec)
	}
	if len(s.TableHeaders) != len(s.TableValues) {
		return fmt.Errorf("%w: %d table headers but %d table values", ErrInvalidSpec, len(s.TableHeaders), len(s.TableValues))
	}
	seen := make(map[string]struct{}, len(s.TableHeaders))
	for i, h := range s.TableHeaders {
		if h.Label == "" {
			return fmt.Errorf("%w: table header %d has no label", ErrInvalidSpec, i)
		}
		if _, ok := seen[h.Label]; ok {
			return fmt.Errorf("%w: duplicate table header %q", ErrInvalidSpec, h.Label)
		}
		seen[h.Label] = struct{}{}
		if strings.TrimSpace(s.TableValues[i]) == "" {
			return fmt.Errorf("%w: table value for %q is empty", ErrInvalidSpec, h.Label)
		}
	}
	if s.MinQty != nil && *s.MinQty < 0 {
		return fmt.Errorf("%w: minQty cannot be negative", ErrInvalidSpec)
	}
	return nil
}

// Labels returns the header labels in order.
func (s *QuerySpec) Labels() []string {
	labels := make([]string, len(s.TableHeaders))
	for i, h := range s.TableHeaders {
		labels[i] = h.Label
	}
	return labels
}

// HiddenLabels returns the labels of headers marked invisible.
func (s *QuerySpec) HiddenLabels() []string {
	var hidden []string
	for _, h := range s.TableHeaders {
		if !h.Visibility {
			hidden = append(hidden, h.Label)
		}
	}
	return hidden
}
