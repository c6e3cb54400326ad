package stores

import "github.com/reflow-dev/reflow/pkg/reactive"

// ReadGuard grants shared access to a projected location inside a store's
// value. The guard holds the root's read lock until Release; the pointer
// it exposes is a projection into the original value, never a copy, so an
// arbitrarily deep field path costs one lock plus O(depth) projections.
//
// Callers must Release every guard they obtain. Release is idempotent.
type ReadGuard[T any] struct {
	value   *T
	release func()
}

// Value returns the projected location. The pointer is only valid until
// Release.
func (g *ReadGuard[T]) Value() *T {
	return g.value
}

// Release unlocks the underlying store. Safe to call more than once.
func (g *ReadGuard[T]) Release() {
	if g.release != nil {
		g.release()
		g.release = nil
	}
}

// mapRead projects a guard over a parent value into a guard over one of
// its children, without copying. The child guard takes over the parent's
// release.
func mapRead[Prev, T any](inner *ReadGuard[Prev], project func(*Prev) *T) *ReadGuard[T] {
	return &ReadGuard[T]{
		value:   project(inner.value),
		release: inner.Release,
	}
}

// WriteGuard grants exclusive access to a projected location inside a
// store's value. The guard holds the root's write lock until Release.
//
// Release first unlocks, then fires the guard's notify list inside a
// reactive.Batch, so the mutation is visible before any subscriber runs
// and each subscriber is marked dirty at most once per write. Releasing
// under defer guarantees notification on every exit path.
type WriteGuard[T any] struct {
	value   *T
	notify  []*reactive.Trigger
	release func()
}

// Value returns the projected location for mutation. The pointer is only
// valid until Release.
func (g *WriteGuard[T]) Value() *T {
	return g.value
}

// Untrack clears the guard's notify list: the write still happens, but no
// subscriber is notified. This is the explicit escape hatch for plumbing
// that manages its own notification, such as the patch walker.
func (g *WriteGuard[T]) Untrack() {
	g.notify = nil
}

// Release unlocks the underlying store and notifies the guard's triggers.
// Safe to call more than once; triggers fire only on the first call.
func (g *WriteGuard[T]) Release() {
	if g.release == nil {
		return
	}
	release := g.release
	g.release = nil

	notify := g.notify
	g.notify = nil

	// Unlock before notifying: a synchronous subscriber re-run may read
	// the store again.
	release()

	if len(notify) > 0 {
		writesTotal.Inc()
		reactive.Batch(func() {
			for _, t := range notify {
				t.Notify()
			}
		})
	}
}

// mapWrite projects a write guard over a parent value into one over a
// child location. The child guard takes over the parent's release and
// notify list; layers add their own triggers with addTrigger.
func mapWrite[Prev, T any](inner *WriteGuard[Prev], project func(*Prev) *T) *WriteGuard[T] {
	g := &WriteGuard[T]{
		value:   project(inner.value),
		notify:  inner.notify,
		release: inner.release,
	}
	inner.notify = nil
	inner.release = nil
	return g
}

// addTrigger prepends a trigger to the notify list, so the leaf-most
// layer's trigger fires first on Release.
func (g *WriteGuard[T]) addTrigger(t *reactive.Trigger) {
	g.notify = append([]*reactive.Trigger{t}, g.notify...)
}
