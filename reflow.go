// Package reflow provides the public API for fine-grained reactive
// stores.
//
// This is the recommended import for most applications:
//
//	import "github.com/reflow-dev/reflow"
//
// Usage:
//
//	store := reflow.NewStore(State{Count: 0})
//	count := reflow.Field(store, 0, func(s *State) *int { return &s.Count })
//	reflow.Effect(func() reflow.Cleanup {
//	    if n, ok := reflow.Get(count); ok {
//	        fmt.Println("count is", n)
//	    }
//	    return nil
//	})
//	reflow.Set(count, 1) // reruns the effect
//
// The subpackages carry the full surface: pkg/stores for path-level
// accessors and patching, pkg/reactive for the underlying graph, and
// pkg/live for streaming store state over WebSockets.
package reflow

import (
	"github.com/reflow-dev/reflow/pkg/reactive"
	"github.com/reflow-dev/reflow/pkg/stores"
)

// =============================================================================
// Reactive graph
// =============================================================================

// Cleanup runs before an effect's next execution and on disposal.
type Cleanup = reactive.Cleanup

// Owner owns effects and cleanups, disposing them as a group.
type Owner = reactive.Owner

// NewOwner creates an owner under parent, or a root owner when parent
// is nil.
func NewOwner(parent *Owner) *Owner {
	return reactive.NewOwner(parent)
}

// NewSignal creates a standalone reactive value. Most state belongs in
// a store; signals cover small leaf values that need no path structure.
func NewSignal[T any](value T) *reactive.Signal[T] {
	return reactive.NewSignal(value)
}

// Effect runs fn immediately and again whenever a store path or signal
// it read changes.
func Effect(fn func() Cleanup) *reactive.Effect {
	return reactive.NewEffect(fn)
}

// Batch defers notifications while fn runs, so each observer reruns at
// most once no matter how many writes fn performs.
func Batch(fn func()) {
	reactive.Batch(fn)
}

// Untracked runs fn without dependency tracking.
func Untracked(fn func()) {
	reactive.Untracked(fn)
}

// =============================================================================
// Stores
// =============================================================================

// NewStore wraps value in an arena-backed store tied to the current
// owner, if any.
func NewStore[T any](value T) stores.Store[T] {
	return stores.NewStore(value)
}

// Field creates an accessor for one struct field of an inner accessor's
// value. id must be stable per field; use the exported-field index so
// patching reaches the same triggers.
func Field[Prev, T any](inner stores.StoreField[Prev], id uint64, read func(*Prev) *T) stores.Subfield[Prev, T] {
	return stores.NewSubfield(inner, id, read)
}

// At creates an accessor for the element at index of a slice-valued
// accessor.
func At[T any](inner stores.StoreField[[]T], index int) stores.AtIndex[T] {
	return stores.At(inner, index)
}

// Get clones the field's current value, tracking it. The second return
// reports whether the underlying store is still alive.
func Get[T any](f stores.StoreField[T]) (T, bool) {
	return stores.Get(f)
}

// Set replaces the field's value and notifies its observers.
func Set[T any](f stores.StoreField[T], value T) bool {
	return stores.Set(f, value)
}

// Update mutates the field's value in place and notifies its observers.
func Update[T any](f stores.StoreField[T], fn func(*T)) bool {
	return stores.Update(f, fn)
}

// Patch diffs newValue against the field's current value, overwrites
// it, and notifies only the paths that actually changed.
func Patch[T any](f stores.StoreField[T], newValue T) bool {
	return stores.PatchValue(f, newValue)
}
