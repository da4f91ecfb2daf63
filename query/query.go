// Package query implements the store's predicate-factory contract with
// expr programs: a query compiles once, then binds a parameter map per scan
// to yield the boolean test applied to each stored value.
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/SoftwarePlumbers/db-plumbing-map/debug"
)

// Query is a compiled expr program over stored values. The program sees the
// candidate value as `doc`, the bound parameters as `params`, and, when the
// value is a document, the document's fields at top level:
//
//	q, _ := query.New[store.Document](`age > params.min`)
//	it, _ := s.FindAll(q, map[string]any{"min": 21})
type Query[V any] struct {
	src string
	prg *vm.Program
}

func New[V any](src string) (*Query[V], error) {
	prg, err := expr.Compile(src, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling query %q: %w", src, err)
	}
	return &Query[V]{src: src, prg: prg}, nil
}

func (q *Query[V]) String() string {
	return q.src
}

// Predicate binds params into the compiled program. The returned test is
// false for values the program errors on or answers non-true for.
func (q *Query[V]) Predicate(params map[string]any) (func(V) bool, error) {
	if params == nil {
		params = map[string]any{}
	}
	return func(v V) bool {
		env := map[string]any{"doc": v, "params": params}
		if m, ok := any(v).(map[string]any); ok {
			for k, fv := range m {
				if _, taken := env[k]; !taken {
					env[k] = fv
				}
			}
		}
		res, err := expr.Run(q.prg, env)
		if err != nil {
			if debug.Query() {
				debug.Logf("query %q: %v\n", q.src, err)
			}
			return false
		}
		b, ok := res.(bool)
		return ok && b
	}, nil
}

// Func adapts a Go closure to the predicate-factory contract.
type Func[V any] func(params map[string]any) (func(V) bool, error)

func (f Func[V]) Predicate(params map[string]any) (func(V) bool, error) {
	return f(params)
}

// Match wraps a parameterless Go predicate.
func Match[V any](pred func(V) bool) Func[V] {
	return func(map[string]any) (func(V) bool, error) {
		return pred, nil
	}
}
