package patch

import (
	"cmp"
	"reflect"

	"github.com/SoftwarePlumbers/db-plumbing-map/collection"
)

// Diff builds the patch that transforms from into to: adds for keys only in
// to, replaces for keys whose values differ, removes for keys only in from.
// Applying the result to from yields to up to iteration order.
func Diff[K cmp.Ordered, V any](from, to *collection.Collection[K, V]) *Patch[K, V] {
	p := New[K, V]()
	for k, v := range to.All() {
		fv, ok := from.Get(k)
		switch {
		case !ok:
			p.Add(v)
		case !reflect.DeepEqual(fv, v):
			p.Replace(v)
		}
	}
	for k := range from.All() {
		if _, ok := to.Get(k); !ok {
			p.Remove(k)
		}
	}
	return p
}
