// Package patch defines the bulk patch protocol between a store and its
// patch engine: typed add/update/remove directives, the context bundle an
// engine receives, and a default engine over keyed collections.
package patch

import (
	"cmp"
	"encoding/json"
	"fmt"
)

type OpKind int

const (
	// OpAdd inserts a value under its extracted key.
	OpAdd OpKind = iota + 1
	// OpReplace upserts a value under its extracted key.
	OpReplace
	// OpRemove deletes the value under Key.
	OpRemove
	// OpMerge applies an RFC 6902 JSON patch to the value under Key.
	OpMerge
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpReplace:
		return "replace"
	case OpRemove:
		return "remove"
	case OpMerge:
		return "merge"
	}
	return fmt.Sprintf("opkind(%d)", int(k))
}

// Op is one directive of a patch. Add and Replace carry a value; Remove
// carries a key; Merge carries a key and a raw JSON patch document.
type Op[K cmp.Ordered, V any] struct {
	Kind  OpKind
	Key   K
	Value V
	Data  json.RawMessage
}

// Patch is an ordered batch of ops, built once by a caller and consumed by a
// single engine application. Op order is applied order; later ops win when
// keys collide.
type Patch[K cmp.Ordered, V any] struct {
	ops []Op[K, V]
}

// New returns an empty patch. Ops accumulate with the chainable builder
// methods:
//
//	p := patch.New[string, doc]().Add(a).Remove("old").Merge("x", data)
func New[K cmp.Ordered, V any]() *Patch[K, V] {
	return &Patch[K, V]{}
}

func (p *Patch[K, V]) Add(v V) *Patch[K, V] {
	p.ops = append(p.ops, Op[K, V]{Kind: OpAdd, Value: v})
	return p
}

func (p *Patch[K, V]) Replace(v V) *Patch[K, V] {
	p.ops = append(p.ops, Op[K, V]{Kind: OpReplace, Value: v})
	return p
}

func (p *Patch[K, V]) Remove(k K) *Patch[K, V] {
	p.ops = append(p.ops, Op[K, V]{Kind: OpRemove, Key: k})
	return p
}

func (p *Patch[K, V]) Merge(k K, data json.RawMessage) *Patch[K, V] {
	p.ops = append(p.ops, Op[K, V]{Kind: OpMerge, Key: k, Data: data})
	return p
}

func (p *Patch[K, V]) Op(op Op[K, V]) *Patch[K, V] {
	p.ops = append(p.ops, op)
	return p
}

// Len is the number of ops described by the patch, counting no-ops.
func (p *Patch[K, V]) Len() int {
	return len(p.ops)
}

// Ops exposes the op list for engine consumption. The returned slice is the
// patch's own; engines must not retain or mutate it.
func (p *Patch[K, V]) Ops() []Op[K, V] {
	return p.ops
}
