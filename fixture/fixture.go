// Package fixture reads and writes seed data for document stores. Fixtures
// are YAML or JSON files holding a list of documents, or a list of patch
// ops; the store itself never touches disk.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/SoftwarePlumbers/db-plumbing-map/debug"
	"github.com/SoftwarePlumbers/db-plumbing-map/patch"
	"github.com/SoftwarePlumbers/db-plumbing-map/store"
)

// Read decodes a fixture file: a YAML or JSON list of documents.
func Read(path string) ([]store.Document, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	docs, err := Decode(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

func Decode(d []byte) ([]store.Document, error) {
	var docs []store.Document
	if err := yaml.Unmarshal(d, &docs); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	return docs, nil
}

// Seed updates s with every document, one at a time, in file order.
func Seed(s *store.Store[string, store.Document], docs []store.Document) {
	for _, doc := range docs {
		s.Update(doc)
	}
}

// Load reads path and seeds s in one bulk patch, leaving the store sorted.
func Load(path string, s *store.Store[string, store.Document]) (int, error) {
	docs, err := Read(path)
	if err != nil {
		return 0, err
	}
	if debug.Store() {
		debug.Logf("fixture: loading %d documents from %s\n", len(docs), path)
	}
	p := patch.New[string, store.Document]()
	for _, doc := range docs {
		p.Add(doc)
	}
	return s.Bulk(p)
}

// Dump writes the store's current contents to path as a YAML document list,
// in the store's iteration order.
func Dump(path string, s *store.Store[string, store.Document]) error {
	docs := slices.Collect(s.All())
	d, err := yaml.Marshal(docs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0644)
}

// opSpec is the on-disk form of one patch op.
type opSpec struct {
	Op    string         `json:"op"`
	Key   string         `json:"key,omitempty"`
	Value store.Document `json:"value,omitempty"`
	Patch any            `json:"patch,omitempty"`
}

// ReadPatch decodes a YAML or JSON list of patch ops:
//
//	- op: add
//	  value: {uid: carol, age: 44}
//	- op: remove
//	  key: alice
//	- op: merge
//	  key: bob
//	  patch: [{op: replace, path: /age, value: 31}]
func ReadPatch(path string) (*patch.Patch[string, store.Document], error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs []opSpec
	if err := yaml.Unmarshal(d, &specs); err != nil {
		return nil, fmt.Errorf("%s: decoding patch: %w", path, err)
	}
	p := patch.New[string, store.Document]()
	for i, spec := range specs {
		switch spec.Op {
		case "add":
			p.Add(spec.Value)
		case "replace", "update":
			p.Replace(spec.Value)
		case "remove":
			p.Remove(spec.Key)
		case "merge":
			jd, err := json.Marshal(spec.Patch)
			if err != nil {
				return nil, fmt.Errorf("%s: op %d: encoding merge patch: %w", path, i, err)
			}
			p.Merge(spec.Key, jd)
		default:
			return nil, fmt.Errorf("%s: op %d: unknown op %q", path, i, spec.Op)
		}
	}
	return p, nil
}
