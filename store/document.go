package store

import (
	"fmt"

	"github.com/SoftwarePlumbers/db-plumbing-map/patch"
)

// Document is the default stored value shape: a free-form field map, keyed
// by its "uid" field unless configured otherwise.
type Document = map[string]any

// KeyField is the field a document store extracts keys from by default.
const KeyField = "uid"

// DocumentKey extracts the named field as a string key. Non-string values
// (numeric uids survive YAML and JSON decoding as numbers) key by their
// printed form.
func DocumentKey(field string) func(Document) string {
	return func(d Document) string {
		switch v := d[field].(type) {
		case string:
			return v
		case nil:
			return ""
		default:
			return fmt.Sprint(v)
		}
	}
}

// DocumentCheck validates that a patched value is a document carrying the
// key field, for the engine's structural validation.
func DocumentCheck(field string) patch.CheckFunc[Document] {
	return func(elemType string, d Document) error {
		if d == nil {
			return fmt.Errorf("%s: value is not a document", elemType)
		}
		if _, ok := d[field]; !ok {
			return fmt.Errorf("%s: document has no %q field", elemType, field)
		}
		return nil
	}
}

// NewDocumentStore creates a store over free-form documents keyed by uid,
// with structural validation wired into the default engine.
func NewDocumentStore(elemType string, opts ...Option[string, Document]) *Store[string, Document] {
	base := []Option[string, Document]{
		WithEngine[string, Document](patch.NewEngine(
			patch.WithCheck[string, Document](DocumentCheck(KeyField)),
		)),
	}
	return New(elemType, DocumentKey(KeyField), append(base, opts...)...)
}
