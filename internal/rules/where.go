package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/syntrixbase/esreport/pkg/model"
)

// maxPrograms bounds the compiled predicate cache.
const maxPrograms = 256

type whereCompiler struct {
	env   *cel.Env
	mu    sync.RWMutex
	cache map[string]cel.Program
	order []string
}

func newWhereCompiler(env *cel.Env) *whereCompiler {
	return &whereCompiler{
		env:   env,
		cache: make(map[string]cel.Program),
	}
}

func (c *whereCompiler) program(expr string) (cel.Program, error) {
	c.mu.RLock()
	prg, ok := c.cache[expr]
	c.mu.RUnlock()
	if ok {
		return prg, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prg, ok := c.cache[expr]; ok {
		return prg, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: where: %w", model.ErrInvalidRule, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: where must evaluate to bool, got %s", model.ErrInvalidRule, ast.OutputType())
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: where: %w", model.ErrInvalidRule, err)
	}

	if len(c.cache) >= maxPrograms {
		oldest := c.order[0]
		delete(c.cache, oldest)
		c.order = c.order[1:]
	}
	c.cache[expr] = prg
	c.order = append(c.order, expr)
	return prg, nil
}

// Where keeps the rows for which the CEL expression evaluates to true. The
// expression sees the row as `row`, a map from column label to value.
func (e *Engine) Where(t *model.Table, expr string) (*model.Table, error) {
	prg, err := e.where.program(expr)
	if err != nil {
		return nil, err
	}

	out := t.Empty()
	for i, row := range t.Rows {
		val, _, err := prg.Eval(map[string]any{"row": map[string]string(row)})
		if err != nil {
			return nil, fmt.Errorf("%w: where failed on row %d: %w", model.ErrInvalidRule, i, err)
		}
		match, ok := val.Value().(bool)
		if !ok {
			return nil, fmt.Errorf("%w: where must evaluate to bool, got %T", model.ErrInvalidRule, val.Value())
		}
		if match {
			out.Append(row.Clone())
		}
	}
	return out, nil
}
