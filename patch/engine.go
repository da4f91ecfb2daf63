package patch

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/SoftwarePlumbers/db-plumbing-map/collection"
	"github.com/SoftwarePlumbers/db-plumbing-map/debug"
)

// Context is the bundle a store hands its engine alongside the op list.
//
// Sorted is a trust-based hint, never verified here: when true the base
// collection's iteration order is claimed monotonic, and the engine may merge
// against it linearly instead of re-sorting. A false claim of sortedness can
// scramble output order; a false claim of unsortedness only costs a sort.
type Context[K cmp.Ordered, V any] struct {
	// Key extracts the unique key of a value.
	Key func(V) K
	// Compare orders two values, nil meaning the extracted-key order. An
	// engine's output must be sorted under this order regardless of input
	// sortedness.
	Compare func(a, b V) int
	// ElemType tags the stored value shape for structural validation.
	ElemType string
	// Sorted is the store's claim about the base collection's current order.
	Sorted bool
}

// Engine applies an ordered op list to a base collection, returning a new
// collection with every op applied and iteration order sorted under the
// context's order. The base is never mutated; any returned error means the
// result is unusable and the caller keeps the base.
type Engine[K cmp.Ordered, V any] interface {
	Apply(base *collection.Collection[K, V], ops []Op[K, V], ctx *Context[K, V]) (*collection.Collection[K, V], error)
}

// CheckFunc validates a value against an element type tag.
type CheckFunc[V any] func(elemType string, v V) error

// MapEngine is the default Engine over keyed collections.
type MapEngine[K cmp.Ordered, V any] struct {
	check CheckFunc[V]
}

type EngineOption[K cmp.Ordered, V any] func(*MapEngine[K, V])

// WithCheck installs structural validation of Add/Replace values against the
// context's element type tag.
func WithCheck[K cmp.Ordered, V any](f CheckFunc[V]) EngineOption[K, V] {
	return func(e *MapEngine[K, V]) {
		e.check = f
	}
}

func NewEngine[K cmp.Ordered, V any](opts ...EngineOption[K, V]) *MapEngine[K, V] {
	e := &MapEngine[K, V]{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// applied is an op after structural validation: key resolved, merge payload
// decoded.
type applied[K cmp.Ordered, V any] struct {
	index int
	op    Op[K, V]
	key   K
	jp    jsonpatch.Patch
}

// Apply validates every op before touching anything, then takes a linear
// merge against the base when the context claims key-ordered sortedness, or
// clones, applies and sorts otherwise. Either way the result is a new,
// sorted collection.
func (e *MapEngine[K, V]) Apply(base *collection.Collection[K, V], ops []Op[K, V], ctx *Context[K, V]) (*collection.Collection[K, V], error) {
	if debug.Patch() {
		debug.Logf("patch: %d ops over %d values, sorted=%v\n", len(ops), base.Len(), ctx.Sorted)
	}
	aops, err := e.validate(ops, ctx)
	if err != nil {
		return nil, err
	}
	if ctx.Sorted && ctx.Compare == nil {
		return mergeSorted(base, aops, ctx)
	}
	return applyUnordered(base, aops, ctx)
}

func (e *MapEngine[K, V]) validate(ops []Op[K, V], ctx *Context[K, V]) ([]applied[K, V], error) {
	aops := make([]applied[K, V], 0, len(ops))
	for i, op := range ops {
		aop := applied[K, V]{index: i, op: op}
		switch op.Kind {
		case OpAdd, OpReplace:
			if e.check != nil {
				if err := e.check(ctx.ElemType, op.Value); err != nil {
					return nil, structural(i, op.Kind, fmt.Sprintf("value is not a valid %s", ctx.ElemType), err)
				}
			}
			aop.key = ctx.Key(op.Value)
		case OpRemove:
			aop.key = op.Key
		case OpMerge:
			jp, err := jsonpatch.DecodePatch(op.Data)
			if err != nil {
				return nil, structural(i, op.Kind, "malformed json patch", err)
			}
			aop.key = op.Key
			aop.jp = jp
		default:
			return nil, structural(i, op.Kind, "unknown op kind", nil)
		}
		aops = append(aops, aop)
	}
	return aops, nil
}

// value state of one key while a run of ops is applied to it.
type state[V any] struct {
	v       V
	present bool
}

func applyOne[K cmp.Ordered, V any](aop applied[K, V], st state[V]) (state[V], error) {
	if debug.Patches() {
		debug.Logf("patch: op %d %s key %v (present=%v)\n", aop.index, aop.op.Kind, aop.key, st.present)
	}
	switch aop.op.Kind {
	case OpAdd, OpReplace:
		return state[V]{v: aop.op.Value, present: true}, nil
	case OpRemove:
		return state[V]{}, nil
	case OpMerge:
		if !st.present {
			return st, structural(aop.index, OpMerge, fmt.Sprintf("merge of absent key %v", aop.key), nil)
		}
		v, err := applyJSON(st.v, aop.jp)
		if err != nil {
			return st, structural(aop.index, OpMerge, fmt.Sprintf("merge of key %v failed", aop.key), err)
		}
		return state[V]{v: v, present: true}, nil
	}
	return st, structural(aop.index, aop.op.Kind, "unknown op kind", nil)
}

// applyJSON round-trips v through JSON to apply an RFC 6902 patch.
func applyJSON[V any](v V, jp jsonpatch.Patch) (V, error) {
	var out V
	d, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	pd, err := jp.Apply(d)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(pd, &out); err != nil {
		return out, err
	}
	return out, nil
}

// applyUnordered clones the base, applies ops in patch order, then sorts.
func applyUnordered[K cmp.Ordered, V any](base *collection.Collection[K, V], aops []applied[K, V], ctx *Context[K, V]) (*collection.Collection[K, V], error) {
	out := base.Clone()
	for _, aop := range aops {
		var st state[V]
		st.v, st.present = out.Get(aop.key)
		st, err := applyOne(aop, st)
		if err != nil {
			return nil, err
		}
		if st.present {
			out.Put(aop.key, st.v)
		} else {
			out.Delete(aop.key)
		}
	}
	if ctx.Compare != nil {
		out.SortFunc(ctx.Compare)
	} else {
		out.Sort()
	}
	return out, nil
}

// mergeSorted walks the key-ordered base and the key-ordered op list in one
// linear pass. Key positions are stable under every op kind, so the output
// is sorted by construction and no re-sort happens.
func mergeSorted[K cmp.Ordered, V any](base *collection.Collection[K, V], aops []applied[K, V], ctx *Context[K, V]) (*collection.Collection[K, V], error) {
	runs := keyRuns(aops)
	out := collection.New[K, V]()
	keys := base.Keys()
	i, j := 0, 0
	for i < len(keys) && j < len(runs) {
		run := runs[j]
		switch c := cmp.Compare(keys[i], run.key); {
		case c < 0:
			v, _ := base.Get(keys[i])
			out.Put(keys[i], v)
			i++
		case c > 0:
			if err := emitRun(out, run, state[V]{}); err != nil {
				return nil, err
			}
			j++
		default:
			var st state[V]
			st.v, st.present = base.Get(keys[i])
			if err := emitRun(out, run, st); err != nil {
				return nil, err
			}
			i++
			j++
		}
	}
	for ; i < len(keys); i++ {
		v, _ := base.Get(keys[i])
		out.Put(keys[i], v)
	}
	for ; j < len(runs); j++ {
		if err := emitRun(out, runs[j], state[V]{}); err != nil {
			return nil, err
		}
	}
	out.SetSorted(true)
	return out, nil
}

// keyRun is every op of a patch targeting one key, in patch order.
type keyRun[K cmp.Ordered, V any] struct {
	key  K
	aops []applied[K, V]
}

func keyRuns[K cmp.Ordered, V any](aops []applied[K, V]) []keyRun[K, V] {
	byKey := map[K]int{}
	var runs []keyRun[K, V]
	for _, aop := range aops {
		if ri, ok := byKey[aop.key]; ok {
			runs[ri].aops = append(runs[ri].aops, aop)
			continue
		}
		byKey[aop.key] = len(runs)
		runs = append(runs, keyRun[K, V]{key: aop.key, aops: []applied[K, V]{aop}})
	}
	slices.SortFunc(runs, func(a, b keyRun[K, V]) int {
		return cmp.Compare(a.key, b.key)
	})
	return runs
}

func emitRun[K cmp.Ordered, V any](out *collection.Collection[K, V], run keyRun[K, V], st state[V]) error {
	for _, aop := range run.aops {
		var err error
		st, err = applyOne(aop, st)
		if err != nil {
			return err
		}
	}
	if st.present {
		out.Put(run.key, st.v)
	}
	return nil
}
