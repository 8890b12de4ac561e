// Package rules shapes an expanded table: existence filters, an optional CEL
// predicate, one aggregate function and a multi-column sort, applied in that
// order. Every stage returns a new table and leaves its input untouched.
package rules

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/syntrixbase/esreport/pkg/model"
)

// Rules is the declarative rule set of one report.
type Rules struct {
	Exists    map[string][]string
	NotExists map[string][]string
	Where     string
	Func      model.Function
	MinQty    *int
	Sort      string
}

// FromSpec extracts the rule set of a spec.
func FromSpec(spec *model.QuerySpec) Rules {
	return Rules{
		Exists:    spec.ExprExists,
		NotExists: spec.ExprNotExists,
		Where:     spec.Where,
		Func:      spec.Func,
		MinQty:    spec.MinQty,
		Sort:      spec.Sort,
	}
}

// Engine applies rule sets. It is safe for concurrent use.
type Engine struct {
	where  *whereCompiler
	logger *slog.Logger
}

// NewEngine creates a rule engine.
func NewEngine(logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	env, err := cel.NewEnv(
		cel.Variable("row", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Engine{
		where:  newWhereCompiler(env),
		logger: logger.With("component", "rules"),
	}, nil
}

// Validate checks the parts of a rule set that can be checked without data.
func (e *Engine) Validate(r Rules) error {
	if r.Where != "" {
		if _, err := e.where.program(r.Where); err != nil {
			return err
		}
	}
	if r.Sort != "" {
		if _, err := ParseSort(r.Sort); err != nil {
			return err
		}
	}
	if r.MinQty != nil && *r.MinQty < 0 {
		return fmt.Errorf("%w: minQty cannot be negative", model.ErrInvalidRule)
	}
	return nil
}

// Apply runs every configured stage against t and returns the final table.
func (e *Engine) Apply(t *model.Table, r Rules) (*model.Table, error) {
	var err error
	out := t

	if len(r.Exists) > 0 {
		if out, err = FilterExists(out, r.Exists); err != nil {
			return nil, err
		}
	}
	if len(r.NotExists) > 0 {
		if out, err = FilterNotExists(out, r.NotExists); err != nil {
			return nil, err
		}
	}
	if r.Where != "" {
		if out, err = e.Where(out, r.Where); err != nil {
			return nil, err
		}
	}

	switch r.Func {
	case model.FuncDistinct:
		out = Distinct(out)
	case model.FuncCount:
		out = Count(out, r.MinQty)
	case model.FuncGroup:
		out = Group(out)
	case "":
	default:
		e.logger.Debug("Ignoring unknown function", "func", r.Func)
	}

	if r.Sort != "" {
		keys, err := ParseSort(r.Sort)
		if err != nil {
			return nil, err
		}
		if out, err = Sort(out, keys); err != nil {
			return nil, err
		}
	}

	if out == t {
		out = t.Clone()
	}
	return out, nil
}
