package stores

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// DebugMode enables capture of store creation sites for diagnostics.
// It has no behavioral effect. Set at startup, not during runtime.
var DebugMode bool

// ArcStore owns a value and the trigger map for every path derived from
// it. All copies of an ArcStore share the same value, lock, and triggers;
// the value lives as long as any copy does. Accessors derived from the
// store hold a copy, so the store cannot disappear under them.
//
// An ArcStore itself is never "disposed"; copy-handle lifecycle lives in
// Store.
type ArcStore[T any] struct {
	value    *T
	mu       *sync.RWMutex
	triggers *triggerMap

	// definedAt is the creation site, captured only in DebugMode.
	definedAt string
}

// NewArcStore creates a store owning the given value.
func NewArcStore[T any](value T) ArcStore[T] {
	s := ArcStore[T]{
		value:    &value,
		mu:       &sync.RWMutex{},
		triggers: newTriggerMap(),
	}
	if DebugMode {
		if _, file, line, ok := runtime.Caller(1); ok {
			s.definedAt = fmt.Sprintf("%s:%d", file, line)
		}
	}
	return s
}

// DefinedAt returns the creation site captured in DebugMode, or "".
func (s ArcStore[T]) DefinedAt() string {
	return s.definedAt
}

// Path implements StoreField. The root's path is empty.
func (s ArcStore[T]) Path() StorePath {
	return nil
}

// GetTrigger implements StoreField: resolves (creating if absent) the
// trigger pair for an exact path in this store's trigger map.
func (s ArcStore[T]) GetTrigger(path StorePath) StoreFieldTrigger {
	return s.triggers.get(path)
}

// Reader implements StoreField: a read guard over the whole value.
// Never absent on a root store.
func (s ArcStore[T]) Reader() (*ReadGuard[T], bool) {
	s.mu.RLock()
	return &ReadGuard[T]{value: s.value, release: s.mu.RUnlock}, true
}

// Writer implements StoreField: an exclusive guard over the whole value.
// On release it notifies the root path's own and children triggers; the
// whole value may have been replaced, so everything below is suspect.
func (s ArcStore[T]) Writer() (*WriteGuard[T], bool) {
	s.mu.Lock()
	trigger := s.triggers.get(nil)
	return &WriteGuard[T]{
		value:   s.value,
		notify:  []*reactive.Trigger{trigger.This, trigger.Children},
		release: s.mu.Unlock,
	}, true
}

// Keys implements StoreField. Root stores carry no key map.
func (s ArcStore[T]) Keys() (*KeyMap, bool) {
	return nil, false
}

// Track registers a dependency on the root path without reading.
func (s ArcStore[T]) Track() {
	TrackField[T](s)
}

// Notify fires the root path's triggers, for when the whole store has
// been replaced externally.
func (s ArcStore[T]) Notify() {
	s.triggers.get(nil).Notify()
}

// TriggerCount reports the number of live triggers allocated for this
// store (a node trigger and a children trigger count separately). Paths
// that stop being observed are not pruned; this is the observability
// hook for that growth.
func (s ArcStore[T]) TriggerCount() int {
	return s.triggers.len()
}

// RemoveTrigger prunes the triggers for an exact path, reporting whether
// the path had one. Subscribers of a pruned trigger are never notified
// again through this store; only prune paths no live accessor observes.
func (s ArcStore[T]) RemoveTrigger(path StorePath) bool {
	return s.triggers.remove(path)
}

// Store is a copyable handle to an ArcStore held in the process-wide
// arena. It adds no state of its own: the handle is a slot id, so it can
// be captured by value in closures and passed around freely.
//
// Disposal of the arena slot (explicitly, or through the owner that was
// current at creation) invalidates all derived accessors: every fallible
// operation reports absence instead of failing loudly.
type Store[T any] struct {
	inner reactive.StoredValue[ArcStore[T]]
}

// NewStore creates a store owning the given value. If a reactive.Owner is
// current on this goroutine, the store is disposed with it.
func NewStore[T any](value T) Store[T] {
	return Store[T]{inner: reactive.NewStoredValue(NewArcStore(value))}
}

// Path implements StoreField. The root's path is empty.
func (s Store[T]) Path() StorePath {
	return nil
}

// GetTrigger implements StoreField. After disposal it returns a detached
// trigger pair: tracking or notifying it is harmless and reaches nobody
// new.
func (s Store[T]) GetTrigger(path StorePath) StoreFieldTrigger {
	if inner, ok := s.inner.TryGetValue(); ok {
		return inner.GetTrigger(path)
	}
	return StoreFieldTrigger{This: reactive.NewTrigger(), Children: reactive.NewTrigger()}
}

// Reader implements StoreField; reports false after disposal.
func (s Store[T]) Reader() (*ReadGuard[T], bool) {
	inner, ok := s.inner.TryGetValue()
	if !ok {
		return nil, false
	}
	return inner.Reader()
}

// Writer implements StoreField; reports false after disposal.
func (s Store[T]) Writer() (*WriteGuard[T], bool) {
	inner, ok := s.inner.TryGetValue()
	if !ok {
		return nil, false
	}
	return inner.Writer()
}

// Keys implements StoreField. Root stores carry no key map.
func (s Store[T]) Keys() (*KeyMap, bool) {
	return nil, false
}

// Track registers a dependency on the root path without reading.
// No-op after disposal.
func (s Store[T]) Track() {
	if inner, ok := s.inner.TryGetValue(); ok {
		inner.Track()
	}
}

// Notify fires the root path's triggers. No-op after disposal.
func (s Store[T]) Notify() {
	if inner, ok := s.inner.TryGetValue(); ok {
		inner.Notify()
	}
}

// IsDisposed reports whether the arena slot has been torn down.
func (s Store[T]) IsDisposed() bool {
	return s.inner.IsDisposed()
}

// Dispose tears down the arena slot. All derived accessors start
// reporting absence. Safe to call more than once.
func (s Store[T]) Dispose() {
	s.inner.Dispose()
}

// TriggerCount reports live triggers, or 0 after disposal.
func (s Store[T]) TriggerCount() int {
	if inner, ok := s.inner.TryGetValue(); ok {
		return inner.TriggerCount()
	}
	return 0
}

// RemoveTrigger prunes the triggers for an exact path. See
// ArcStore.RemoveTrigger.
func (s Store[T]) RemoveTrigger(path StorePath) bool {
	if inner, ok := s.inner.TryGetValue(); ok {
		return inner.RemoveTrigger(path)
	}
	return false
}
