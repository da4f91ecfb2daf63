// Package collection provides the keyed container underlying a store: a map
// from extracted keys to values together with an iteration order and a
// declared sortedness flag.
package collection

import (
	"cmp"
	"iter"
	"slices"
)

// Collection maps keys to values and remembers iteration order. Order is
// insertion order until a sort, after which the sorted flag records that key
// iteration is monotonic under the sorting comparator. The flag is declared,
// not continuously enforced: Put of a new key clears it, everything else
// trusts the last claim.
type Collection[K cmp.Ordered, V any] struct {
	data   map[K]V
	keys   []K
	sorted bool
}

// New returns an empty collection. An empty collection is trivially sorted.
func New[K cmp.Ordered, V any]() *Collection[K, V] {
	return &Collection[K, V]{
		data:   map[K]V{},
		sorted: true,
	}
}

func (c *Collection[K, V]) Len() int {
	return len(c.data)
}

func (c *Collection[K, V]) Get(k K) (V, bool) {
	v, ok := c.data[k]
	return v, ok
}

// Put upserts v under k. A new key appends to the iteration order and clears
// the sorted flag; overwriting an existing key leaves order and flag alone.
func (c *Collection[K, V]) Put(k K, v V) {
	if _, ok := c.data[k]; !ok {
		c.keys = append(c.keys, k)
		c.sorted = false
	}
	c.data[k] = v
}

// Delete removes k and reports whether it was present. Removal cannot break
// monotonic order, so the sorted flag is untouched.
func (c *Collection[K, V]) Delete(k K) bool {
	if _, ok := c.data[k]; !ok {
		return false
	}
	delete(c.data, k)
	i := slices.Index(c.keys, k)
	c.keys = slices.Delete(c.keys, i, i+1)
	return true
}

func (c *Collection[K, V]) Sorted() bool {
	return c.sorted
}

// SetSorted declares the current iteration order sorted (or not). Callers own
// the truth of the claim; nothing is verified here.
func (c *Collection[K, V]) SetSorted(sorted bool) {
	c.sorted = sorted
}

// Sort orders iteration by key and sets the sorted flag.
func (c *Collection[K, V]) Sort() {
	slices.Sort(c.keys)
	c.sorted = true
}

// SortFunc orders the keys so that the corresponding values are monotonic
// under compare, and sets the sorted flag.
func (c *Collection[K, V]) SortFunc(compare func(a, b V) int) {
	slices.SortStableFunc(c.keys, func(a, b K) int {
		return compare(c.data[a], c.data[b])
	})
	c.sorted = true
}

// Keys returns a copy of the keys in iteration order.
func (c *Collection[K, V]) Keys() []K {
	return slices.Clone(c.keys)
}

// Values returns a copy of the values in iteration order.
func (c *Collection[K, V]) Values() []V {
	vs := make([]V, 0, len(c.keys))
	for _, k := range c.keys {
		vs = append(vs, c.data[k])
	}
	return vs
}

// All iterates keys and values in iteration order.
func (c *Collection[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range c.keys {
			if !yield(k, c.data[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy sharing no state with c.
// Values are copied shallowly.
func (c *Collection[K, V]) Clone() *Collection[K, V] {
	data := make(map[K]V, len(c.data))
	for k, v := range c.data {
		data[k] = v
	}
	return &Collection[K, V]{
		data:   data,
		keys:   slices.Clone(c.keys),
		sorted: c.sorted,
	}
}
