// Package ctxmanager implements ContextManager, a concurrent map from an
// Identifiable's ID to a ctxqueue.ContextQueue guarding that context's
// value (spec.md §4.4). Grounded on
// lightning-nf/omnipath/app/src/ngap/manager/context_manager.rs in
// original_source, translated from scc::HashMap + tokio RwLock to a
// sync.RWMutex-guarded map — the pack carries no lock-free concurrent map,
// and nothing in this repo's load profile (per-gNB UE counts in the tens
// to low hundreds) needs one.
package ctxmanager

import (
	"fmt"
	"sync"

	"github.com/your-org/omnipath/internal/ctxqueue"
)

// Identifiable is implemented by any context type a ContextManager can
// hold; ID must be stable for the context's lifetime except across an
// explicit ChangeID call.
type Identifiable[ID comparable] interface {
	ID() ID
}

// ContextAlreadyExistsError reports that Add's ctx was rejected because an
// entry already exists under ctx.ID(). The rejected value is returned
// unchanged via Ctx, matching spec.md §4.4's "returns the rejected context
// back to the caller".
type ContextAlreadyExistsError[ID comparable, T Identifiable[ID]] struct {
	Ctx T
}

func (e *ContextAlreadyExistsError[ID, T]) Error() string {
	return fmt.Sprintf("context already exists: %v", e.Ctx.ID())
}

// ContextNotFoundError reports that no entry exists under the given ID.
type ContextNotFoundError[ID comparable] struct {
	ID ID
}

func (e *ContextNotFoundError[ID]) Error() string {
	return fmt.Sprintf("context not found: %v", e.ID)
}

// ContextManager is a concurrent map from ID to a ContextQueue guarding a
// T. Each stored value is a strong reference to that context's queue;
// mutation always goes through WithContext so it is serialized per
// context (spec.md invariant: "for any live context, at most one closure
// executes against it at a time").
type ContextManager[ID comparable, T Identifiable[ID]] struct {
	mu      sync.RWMutex
	entries map[ID]*ctxqueue.ContextQueue[T]
}

// New creates an empty ContextManager.
func New[ID comparable, T Identifiable[ID]]() *ContextManager[ID, T] {
	return &ContextManager[ID, T]{
		entries: make(map[ID]*ctxqueue.ContextQueue[T]),
	}
}

// Add inserts ctx under ctx.ID(). If an entry already exists under that ID,
// Add returns a *ContextAlreadyExistsError[ID, T] carrying ctx back to the
// caller and the manager is left unchanged.
func (m *ContextManager[ID, T]) Add(ctx T) error {
	id := ctx.ID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[id]; exists {
		return &ContextAlreadyExistsError[ID, T]{Ctx: ctx}
	}
	m.entries[id] = ctxqueue.New(ctx)
	return nil
}

// Contains reports whether an entry exists under id.
func (m *ContextManager[ID, T]) Contains(id ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.entries[id]
	return exists
}

// ChangeID atomically moves the entry under old to new. If an entry
// already exists under new, the move is rejected and the entry remains
// registered under old.
func (m *ContextManager[ID, T]) ChangeID(old, new ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, exists := m.entries[old]
	if !exists {
		return &ContextNotFoundError[ID]{ID: old}
	}
	if _, conflict := m.entries[new]; conflict {
		return fmt.Errorf("change_id: target id already registered: %v", new)
	}
	delete(m.entries, old)
	m.entries[new] = q
	return nil
}

// Remove deletes the entry under id, if any. It is not an error to remove
// an id that is not present.
func (m *ContextManager[ID, T]) Remove(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Len returns the number of entries currently registered.
func (m *ContextManager[ID, T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Entries returns a snapshot slice of every queue currently registered.
// Callers use this only for iteration (e.g. shutdown fan-out); the slice
// itself is not kept in sync with later Add/Remove calls.
func (m *ContextManager[ID, T]) Entries() []*ctxqueue.ContextQueue[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*ctxqueue.ContextQueue[T], 0, len(m.entries))
	for _, q := range m.entries {
		out = append(out, q)
	}
	return out
}

// WithContext dispatches fn into the per-context queue registered under
// id, returning its result. If no entry exists under id, WithContext
// returns a *ContextNotFoundError[ID] without calling fn.
func WithContext[ID comparable, T Identifiable[ID], O any](m *ContextManager[ID, T], id ID, fn func(*T) O) (O, error) {
	var zero O

	m.mu.RLock()
	q, exists := m.entries[id]
	m.mu.RUnlock()

	if !exists {
		return zero, &ContextNotFoundError[ID]{ID: id}
	}
	return ctxqueue.ScheduleAndWait(q, fn), nil
}
