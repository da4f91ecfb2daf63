package store

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SoftwarePlumbers/db-plumbing-map/collection"
	"github.com/SoftwarePlumbers/db-plumbing-map/patch"
	"github.com/SoftwarePlumbers/db-plumbing-map/query"
)

type item struct {
	Key int    `json:"key"`
	A   string `json:"a"`
}

func itemStore() *Store[int, item] {
	return New("item", func(v item) int { return v.Key })
}

func TestFindAfterUpdate(t *testing.T) {
	s := itemStore()
	s.Update(item{Key: 1, A: "x"})
	got, err := s.Find(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != (item{Key: 1, A: "x"}) {
		t.Errorf("Find(1) = %+v", got)
	}
	_, err = s.Find(2)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Find(2) err = %v, want NotFoundError", err)
	}
	if nf.Key != 2 {
		t.Errorf("NotFoundError.Key = %v, want 2", nf.Key)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound = false")
	}
}

func TestUpdateOverwrite(t *testing.T) {
	s := itemStore()
	s.Update(item{Key: 1, A: "x"})
	wasSorted := s.Sorted()
	s.Update(item{Key: 1, A: "y"})
	if got, _ := s.Find(1); got.A != "y" {
		t.Errorf("Find(1).A = %q, want y", got.A)
	}
	if s.Sorted() != wasSorted {
		t.Error("overwrite of existing key changed the sorted flag")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestRemoveIdempotent(t *testing.T) {
	s := itemStore()
	s.Update(item{Key: 7})
	if !s.Remove(7) {
		t.Error("Remove(7) = false with key present")
	}
	if s.Remove(7) {
		t.Error("second Remove(7) = true")
	}
}

func TestSortedFlagTransitions(t *testing.T) {
	s := itemStore()
	if !s.Sorted() {
		t.Error("fresh store should be vacuously sorted")
	}
	s.Update(item{Key: 2})
	if s.Sorted() {
		t.Error("new key should clear the sorted flag")
	}
	n, err := s.Bulk(patch.New[int, item]().Add(item{Key: 1}))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Bulk = %d, want 1", n)
	}
	if !s.Sorted() {
		t.Error("successful bulk should set the sorted flag")
	}
	// and again from a sorted base, exercising the merge path
	if _, err := s.Bulk(patch.New[int, item]().Add(item{Key: 3})); err != nil {
		t.Fatal(err)
	}
	if !s.Sorted() {
		t.Error("sorted flag lost after second bulk")
	}
	keys := []int{}
	for v := range s.All() {
		keys = append(keys, v.Key)
	}
	if !slices.Equal(keys, []int{1, 2, 3}) {
		t.Errorf("iteration keys = %v, want [1 2 3]", keys)
	}
}

func TestBulkScenario(t *testing.T) {
	// keys {1,2}; one add of 5 and one remove of 1 -> {2,5}, count 2
	s := itemStore()
	s.Update(item{Key: 1})
	s.Update(item{Key: 2})
	n, err := s.Bulk(patch.New[int, item]().Add(item{Key: 5}).Remove(1))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Bulk = %d, want 2", n)
	}
	keys := []int{}
	for v := range s.All() {
		keys = append(keys, v.Key)
	}
	if !slices.Equal(keys, []int{2, 5}) {
		t.Errorf("keys = %v, want [2 5]", keys)
	}
	if !s.Sorted() {
		t.Error("sorted flag should be set")
	}
}

func TestBulkCountsNoOps(t *testing.T) {
	s := itemStore()
	s.Update(item{Key: 1, A: "x"})
	p := patch.New[int, item]().
		Replace(item{Key: 1, A: "x"}). // identical value
		Remove(99)                     // absent key
	n, err := s.Bulk(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Bulk = %d, want 2 (no-ops still count)", n)
	}
}

func TestBulkAllOrNothing(t *testing.T) {
	s := NewDocumentStore("doc")
	s.Update(Document{"uid": "a", "n": 1})
	s.Update(Document{"uid": "b", "n": 2})
	before := s.Snapshot()

	p := patch.New[string, Document]().
		Add(Document{"uid": "c"}).
		Merge("ghost", json.RawMessage(`[{"op":"add","path":"/x","value":1}]`))
	_, err := s.Bulk(p)
	var serr *patch.StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StructuralError", err)
	}
	if report := collection.Diff(before, s.Snapshot()); len(report) != 0 {
		t.Errorf("state changed after failed bulk:\n%s", report)
	}
	if s.Sorted() {
		t.Error("failed bulk should not set the sorted flag")
	}
}

func TestFindAllAndRemoveAll(t *testing.T) {
	s := NewDocumentStore("doc")
	s.Update(Document{"uid": "alice", "age": 30})
	s.Update(Document{"uid": "bob", "age": 17})
	s.Update(Document{"uid": "carol", "age": 44})

	q, err := query.New[Document](`age >= params.min`)
	if err != nil {
		t.Fatal(err)
	}
	it, err := s.FindAll(q, map[string]any{"min": 18})
	if err != nil {
		t.Fatal(err)
	}
	uids := []string{}
	for d := range it {
		uids = append(uids, d["uid"].(string))
	}
	if !slices.Equal(uids, []string{"alice", "carol"}) {
		t.Errorf("matches = %v", uids)
	}

	// predicate matching nothing: empty sequence, no error
	none, err := s.FindAll(q, map[string]any{"min": 1000})
	if err != nil {
		t.Fatal(err)
	}
	if got := slices.Collect(none); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
	removed, err := s.RemoveAll(q, map[string]any{"min": 1000})
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("RemoveAll with no matches = true")
	}

	removed, err = s.RemoveAll(q, map[string]any{"min": 18})
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Error("RemoveAll = false with matches present")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, err := s.Find("bob"); err != nil {
		t.Errorf("bob should survive: %v", err)
	}
}

func TestAllSnapshot(t *testing.T) {
	s := itemStore()
	s.Update(item{Key: 1})
	s.Update(item{Key: 2})
	it := s.All()
	s.Remove(1)
	if got := slices.Collect(it); len(got) != 2 {
		t.Errorf("snapshot saw %d values, want 2", len(got))
	}
}

func TestCustomCompare(t *testing.T) {
	s := New("item", func(v item) int { return v.Key },
		WithCompare[int, item](func(a, b item) int {
			return b.Key - a.Key // descending
		}))
	s.Update(item{Key: 1})
	s.Update(item{Key: 2})
	if _, err := s.Bulk(patch.New[int, item]().Add(item{Key: 3})); err != nil {
		t.Fatal(err)
	}
	keys := []int{}
	for v := range s.All() {
		keys = append(keys, v.Key)
	}
	if !slices.Equal(keys, []int{3, 2, 1}) {
		t.Errorf("descending keys = %v", keys)
	}
	if !s.Sorted() {
		t.Error("sorted flag should be set under custom comparator")
	}
}

func TestDocumentStoreDefaults(t *testing.T) {
	s := NewDocumentStore("doc")
	s.Update(Document{"uid": "x", "v": 1})
	got, err := s.Find("x")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Document{"uid": "x", "v": 1}, got); d != "" {
		t.Errorf("Find(x):\n%s", d)
	}
	// structural validation from the default engine
	_, err = s.Bulk(patch.New[string, Document]().Add(Document{"name": "no uid"}))
	var serr *patch.StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StructuralError", err)
	}
}
