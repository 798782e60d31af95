// Package querycache holds the process-wide, thread-safe memoization tables
// shared by the solver. Every table is keyed
// by a pure function of its inputs, including the active compiler-flag
// bitmask, so entries never need per-entry invalidation — only a full Clear
// between incremental builds that change flags.
package querycache

import "sync"

// RelationKey packs the inputs to a subtype/assignability query: the two
// TypeIds under comparison plus the active flag bitmask. `Extra` carries a
// relation-specific discriminator (e.g. distinguishing a bivariant method
// comparison from a normal one) without needing a second map.
type RelationKey struct {
	Source TypeId
	Target TypeId
	Flags  uint32
	Extra  uint32
}

// TypeId is a local alias so this package doesn't import internal/types,
// keeping the cache reusable by any TypeId-shaped keyspace (the solver
// packages convert at their boundary).
type TypeId = uint32

// table is a single generic reader-writer-locked memo table. Lock is held
// only for the read-or-insert step.
type table[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

func newTable[K comparable, V any]() *table[K, V] {
	return &table[K, V]{data: make(map[K]V)}
}

// GetOrCompute looks up key; on a miss it calls compute (without holding the
// lock, so recursive solver calls that touch the same table don't deadlock)
// and stores the result. A panic inside compute propagates to the caller
// after the table recovers to a consistent (if not-yet-populated) state —
// the Go analogue of "poisoned lock tolerant": entries are pure functions of
// their keys, so losing an in-flight insert on panic just means the next
// caller recomputes it.
func (t *table[K, V]) GetOrCompute(key K, compute func() V) (result V) {
	t.mu.RLock()
	if v, ok := t.data[key]; ok {
		t.mu.RUnlock()
		return v
	}
	t.mu.RUnlock()

	defer func() {
		if r := recover(); r != nil {
			t.mu.Lock()
			delete(t.data, key)
			t.mu.Unlock()
			panic(r)
		}
	}()

	v := compute()
	t.mu.Lock()
	t.data[key] = v
	t.mu.Unlock()
	return v
}

func (t *table[K, V]) Clear() {
	t.mu.Lock()
	t.data = make(map[K]V)
	t.mu.Unlock()
}

func (t *table[K, V]) Peek(key K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.data[key]
	return v, ok
}

// PropertyAccessKey is the key for the property-access cache.
type PropertyAccessKey struct {
	Object                 TypeId
	Name                   uint32 // Atom
	NoUncheckedIndexedAccess bool
}

// EvalKey is the key for the evaluation cache.
type EvalKey struct {
	Type                     TypeId
	NoUncheckedIndexedAccess bool
}

// Caches bundles every process-wide memo table the solver consults. One
// instance is created per compilation and shared (read-heavy, thread-safe)
// across every file's CheckerState.
type Caches struct {
	Evaluation       *table[EvalKey, TypeId]
	Subtype          *table[RelationKey, bool]
	Assignability    *table[RelationKey, bool] // separate storage: lenient results must never leak into strict lookups
	PropertyAccess   *table[PropertyAccessKey, any]
	Variance         *table[uint64, []int8] // keyed by DefId
	Canonical        *table[TypeId, TypeId]
}

func New() *Caches {
	return &Caches{
		Evaluation:     newTable[EvalKey, TypeId](),
		Subtype:        newTable[RelationKey, bool](),
		Assignability:  newTable[RelationKey, bool](),
		PropertyAccess: newTable[PropertyAccessKey, any](),
		Variance:       newTable[uint64, []int8](),
		Canonical:      newTable[TypeId, TypeId](),
	}
}

// ClearAll invalidates every table. The only invalidation path: there is no per-entry eviction, just a full clear when the active
// compiler-flag bitmask changes between incremental runs.
func (c *Caches) ClearAll() {
	c.Evaluation.Clear()
	c.Subtype.Clear()
	c.Assignability.Clear()
	c.PropertyAccess.Clear()
	c.Variance.Clear()
	c.Canonical.Clear()
}
