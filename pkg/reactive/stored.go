package reactive

import "sync"

// storedValues is the process-wide arena backing StoredValue handles.
// Keys are slot ids, values are the stored values themselves.
var storedValues sync.Map

// StoredValue is a copyable handle to a value kept in a process-wide arena.
// It exists to give heap-backed state copy semantics: the handle is a bare
// slot id, so it can be duplicated into closures freely without
// shared-pointer bookkeeping.
//
// The slot's lifetime is tied to the Owner that was current when the value
// was stored: disposing that owner empties the slot, and every subsequent
// TryGetValue reports absence. A StoredValue created without a current
// owner lives until Dispose is called explicitly.
type StoredValue[T any] struct {
	id uint64
}

// NewStoredValue stores value in the arena and returns a handle to it.
// If an Owner is current on this goroutine, the slot is emptied when that
// owner is disposed.
func NewStoredValue[T any](value T) StoredValue[T] {
	sv := StoredValue[T]{id: nextID()}
	storedValues.Store(sv.id, value)

	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(sv.Dispose)
	}

	return sv
}

// TryGetValue returns the stored value, or the zero value and false if the
// slot has been disposed.
func (sv StoredValue[T]) TryGetValue() (T, bool) {
	if v, ok := storedValues.Load(sv.id); ok {
		return v.(T), true
	}
	var zero T
	return zero, false
}

// IsDisposed reports whether the slot has been emptied.
func (sv StoredValue[T]) IsDisposed() bool {
	_, ok := storedValues.Load(sv.id)
	return !ok
}

// Dispose empties the slot. Safe to call more than once.
func (sv StoredValue[T]) Dispose() {
	storedValues.Delete(sv.id)
}
