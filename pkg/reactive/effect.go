package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect represents a reactive side effect that runs when its dependencies
// change. Effects are created using NewEffect and are automatically tracked
// for dependencies during their execution.
//
// Effects run immediately when created. When a tracked dependency notifies,
// an effect owned by an Owner is queued and re-run by RunPendingEffects;
// an unowned effect re-runs synchronously. Effects can return a Cleanup
// function that is called before the effect re-runs or when it is disposed.
type Effect struct {
	id uint64

	// name is an optional label used by hosts for diagnostics.
	name string

	// fn is the effect function to run.
	fn func() Cleanup

	// runMu serializes run and dispose. Unowned effects re-run on
	// whichever goroutine notified them, so two writers touching
	// disjoint dependencies would otherwise execute fn concurrently.
	runMu sync.Mutex

	// cleanup is the cleanup function from the last run. Guarded by
	// runMu.
	cleanup Cleanup

	// sources are the triggers this effect depends on.
	sources   []*Trigger
	sourcesMu sync.Mutex

	// owner is the Owner that owns this effect.
	owner *Owner

	// pending indicates the effect is scheduled for re-run.
	pending atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// MarkDirty marks the effect as needing to re-run.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	// Use CAS to ensure we only schedule once
	if e.pending.CompareAndSwap(false, true) {
		if e.owner != nil {
			e.owner.scheduleEffect(e)
		} else {
			// No scheduler available: re-run synchronously.
			e.run()
		}
	}
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the diagnostic name set with EffectName, or "".
func (e *Effect) Name() string {
	return e.name
}

// run executes the effect function. Runs are serialized: a notification
// arriving mid-run waits for the current run and then re-runs with the
// latest values. An effect must not write its own dependencies.
func (e *Effect) run() {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.disposed.Load() {
		return
	}

	// Clear pending flag
	e.pending.Store(false)

	// Run cleanup from previous run
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Unsubscribe from old sources
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	// Track new sources during execution
	oldListener := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(oldListener)
}

// addSource adds a source dependency.
// Called by triggers when they are tracked during effect execution.
func (e *Effect) addSource(source *Trigger) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// dispose cleans up the effect and unsubscribes from all sources. It
// waits for any in-flight run before invoking the final cleanup.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	e.runMu.Lock()
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.runMu.Unlock()

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// Dispose stops the effect permanently: its cleanup runs and it
// unsubscribes from all sources. Effects owned by an Owner are disposed
// automatically when the owner is disposed.
func (e *Effect) Dispose() {
	e.dispose()
}

// EffectOption is an option for configuring an Effect.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// EffectName sets a diagnostic name for the effect.
// The name appears in host logs; it has no behavioral effect.
func EffectName(name string) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.name = name
	})
}

// NewEffect creates and runs a new effect within the current owner context.
// The effect function runs immediately and re-runs when any trigger or
// signal it reads changes. If the function returns a Cleanup, it will be
// called before the effect re-runs or when the effect is disposed.
//
// Example:
//
//	reactive.NewEffect(func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { /* cleanup */ }
//	})
func NewEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	owner := getCurrentOwner()

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}

	for _, opt := range opts {
		opt.applyEffect(e)
	}

	if owner != nil {
		owner.registerEffect(e)
	}

	// Run immediately
	e.run()

	return e
}

// OnUpdate creates an effect that skips the callback on the first run.
// This is useful when you only want to react to changes, not the initial
// value.
//
// The deps function is called on every run to establish dependencies. The
// callback is only called on subsequent runs when those dependencies change.
//
// Example:
//
//	reactive.OnUpdate(
//	    func() { _ = count.Get() },           // deps: read values to track
//	    func() { fmt.Println("Updated!") },   // callback: only on changes
//	)
func OnUpdate(deps func(), callback func()) *Effect {
	first := true
	return NewEffect(func() Cleanup {
		deps() // Always call to track dependencies
		if first {
			first = false
			return nil
		}
		callback()
		return nil
	})
}
