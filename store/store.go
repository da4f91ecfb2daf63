// Package store implements an in-memory, key-indexed object store intended
// as a substitutable stand-in for out-of-process document stores in
// integration testing. Single-item operations read and write the keyed
// collection directly; bulk operations delegate to a patch engine and keep
// the collection's declared sortedness honest across the exchange.
package store

import (
	"cmp"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/SoftwarePlumbers/db-plumbing-map/collection"
	"github.com/SoftwarePlumbers/db-plumbing-map/debug"
	"github.com/SoftwarePlumbers/db-plumbing-map/patch"
)

// PredicateFactory binds parameters into a query, yielding the boolean test
// applied per stored value during scans.
type PredicateFactory[V any] interface {
	Predicate(params map[string]any) (func(V) bool, error)
}

// Store owns a keyed collection exclusively: all mutation goes through it,
// and no operation leaks the collection itself. Safe for concurrent use; a
// single lock covers each operation, so the bulk swap is observed atomically.
type Store[K cmp.Ordered, V any] struct {
	mu       sync.RWMutex
	coll     *collection.Collection[K, V]
	key      func(V) K
	compare  func(a, b V) int
	elemType string
	engine   patch.Engine[K, V]
	logger   *slog.Logger
}

type Option[K cmp.Ordered, V any] func(*Store[K, V])

// WithCompare overrides the value order used for the sortedness contract.
// The default, represented as nil, orders by extracted key.
func WithCompare[K cmp.Ordered, V any](compare func(a, b V) int) Option[K, V] {
	return func(s *Store[K, V]) {
		s.compare = compare
	}
}

// WithEngine overrides the patch engine Bulk delegates to.
func WithEngine[K cmp.Ordered, V any](e patch.Engine[K, V]) Option[K, V] {
	return func(s *Store[K, V]) {
		s.engine = e
	}
}

func WithLogger[K cmp.Ordered, V any](l *slog.Logger) Option[K, V] {
	return func(s *Store[K, V]) {
		s.logger = l
	}
}

// New creates an empty store over values keyed by key. elemType tags the
// value shape for the engine's structural validation.
func New[K cmp.Ordered, V any](elemType string, key func(V) K, opts ...Option[K, V]) *Store[K, V] {
	s := &Store[K, V]{
		coll:     collection.New[K, V](),
		key:      key,
		elemType: elemType,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = patch.NewEngine[K, V]()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Find returns the value stored under key, or a NotFoundError.
func (s *Store[K, V]) Find(key K) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.coll.Get(key)
	if !ok {
		var zero V
		return zero, &NotFoundError{Key: key}
	}
	return v, nil
}

// All returns a lazy sequence over a snapshot of every stored value, in the
// collection's current iteration order. The order is sorted only if Sorted
// reported true at call time.
func (s *Store[K, V]) All() iter.Seq[V] {
	s.mu.RLock()
	vs := s.coll.Values()
	s.mu.RUnlock()
	return slices.Values(vs)
}

// FindAll binds params into factory and filters All through the resulting
// predicate. No ordering guarantee beyond that inherited from All.
func (s *Store[K, V]) FindAll(factory PredicateFactory[V], params map[string]any) (iter.Seq[V], error) {
	pred, err := factory.Predicate(params)
	if err != nil {
		return nil, err
	}
	all := s.All()
	return func(yield func(V) bool) {
		for v := range all {
			if !pred(v) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}, nil
}

// Update upserts v under its extracted key. A new key lands in insertion
// order and therefore clears the sorted flag; overwriting leaves it alone.
func (s *Store[K, V]) Update(v V) {
	k := s.key(v)
	if debug.Store() {
		debug.Logf("store: update key %v\n", k)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll.Put(k, v)
}

// Remove deletes the value under key, reporting whether anything was there.
// A missing key is a normal outcome, not an error.
func (s *Store[K, V]) Remove(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Delete(key)
}

// RemoveAll deletes every value matched by the bound predicate, each by its
// own extracted key, reporting whether at least one deletion occurred.
func (s *Store[K, V]) RemoveAll(factory PredicateFactory[V], params map[string]any) (bool, error) {
	pred, err := factory.Predicate(params)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []K
	for _, v := range s.coll.Values() {
		if pred(v) {
			matched = append(matched, s.key(v))
		}
	}
	removed := false
	for _, k := range matched {
		if s.coll.Delete(k) {
			removed = true
		}
	}
	if debug.Store() {
		debug.Logf("store: removeAll deleted %d of %d values\n", len(matched), s.coll.Len()+len(matched))
	}
	return removed, nil
}

// Bulk applies an ordered patch to the whole collection in one engine call.
// The engine receives the current collection, the op list, and a context of
// {key hook, element type, current sortedness}; its result replaces the
// collection wholesale. The engine's contract guarantees sorted output, so
// the sorted flag is set unconditionally on success. On engine error the
// store keeps its pre-call state and the error propagates unmodified:
// bulk is all-or-nothing.
//
// Returns the number of ops described by the patch, counting no-ops.
func (s *Store[K, V]) Bulk(p *patch.Patch[K, V]) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := &patch.Context[K, V]{
		Key:      s.key,
		Compare:  s.compare,
		ElemType: s.elemType,
		Sorted:   s.coll.Sorted(),
	}
	next, err := s.engine.Apply(s.coll, p.Ops(), ctx)
	if err != nil {
		s.logger.Debug("bulk patch rejected", "elemType", s.elemType, "ops", p.Len(), "err", err)
		return 0, err
	}
	next.SetSorted(true)
	s.coll = next
	return p.Len(), nil
}

// Sorted reports whether key iteration order is currently declared monotonic
// under the store's comparator.
func (s *Store[K, V]) Sorted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Sorted()
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Len()
}

// Snapshot returns an independent copy of the current collection. The store's
// own collection is never aliased out.
func (s *Store[K, V]) Snapshot() *collection.Collection[K, V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Clone()
}
