package collection

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Changed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Changed:
		return "~"
	}
	return "?"
}

// Change describes one key-level difference between two collections.
// From is set for Removed and Changed, To for Added and Changed.
type Change[K cmp.Ordered, V any] struct {
	Kind ChangeKind
	Key  K
	From V
	To   V
}

// Report is the ordered set of key-level differences between two
// collections. An empty report means equal key sets with equal values.
type Report[K cmp.Ordered, V any] []Change[K, V]

func (r Report[K, V]) String() string {
	var b strings.Builder
	for _, ch := range r {
		switch ch.Kind {
		case Changed:
			fmt.Fprintf(&b, "%s %v: %v -> %v\n", ch.Kind, ch.Key, ch.From, ch.To)
		case Added:
			fmt.Fprintf(&b, "%s %v: %v\n", ch.Kind, ch.Key, ch.To)
		case Removed:
			fmt.Fprintf(&b, "%s %v: %v\n", ch.Kind, ch.Key, ch.From)
		}
	}
	return b.String()
}

// Diff reports the key-level differences between from and to. Each key
// sequence is mapped to runes and rune-diffed, so runs of common keys
// collapse into single diff segments.
func Diff[K cmp.Ordered, V any](from, to *Collection[K, V]) Report[K, V] {
	keyMap := map[K]rune{}
	runeMap := map[rune]K{}
	fromRunes := mapKeysTo(keyMap, runeMap, from)
	toRunes := mapKeysTo(keyMap, runeMap, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	var res Report[K, V]
	for i := range diffs {
		diff := &diffs[i]
		for _, r := range diff.Text {
			k := runeMap[r]
			switch diff.Type {
			case diffpatch.DiffDelete:
				// Deleted from the from-sequence; the key may still be
				// present in to at another position (reordering).
				if tv, ok := to.Get(k); ok {
					fv, _ := from.Get(k)
					if !reflect.DeepEqual(fv, tv) {
						res = append(res, Change[K, V]{Kind: Changed, Key: k, From: fv, To: tv})
					}
					continue
				}
				fv, _ := from.Get(k)
				res = append(res, Change[K, V]{Kind: Removed, Key: k, From: fv})
			case diffpatch.DiffInsert:
				if _, ok := from.Get(k); ok {
					continue // reordering, handled on the delete side
				}
				tv, _ := to.Get(k)
				res = append(res, Change[K, V]{Kind: Added, Key: k, To: tv})
			case diffpatch.DiffEqual:
				fv, _ := from.Get(k)
				tv, _ := to.Get(k)
				if !reflect.DeepEqual(fv, tv) {
					res = append(res, Change[K, V]{Kind: Changed, Key: k, From: fv, To: tv})
				}
			}
		}
	}
	return res
}

func mapKeysTo[K cmp.Ordered, V any](m map[K]rune, im map[rune]K, c *Collection[K, V]) []rune {
	keys := c.keys
	rs := make([]rune, len(keys))
	for i, k := range keys {
		r, ok := m[k]
		if !ok {
			r = rune(len(m))
			m[k] = r
			im[r] = k
		}
		rs[i] = r
	}
	return rs
}
