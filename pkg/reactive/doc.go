// Package reactive provides the fine-grained reactive runtime for Reflow.
//
// The runtime tracks dependencies automatically: reading a reactive value
// (a Signal, or a store field through a Trigger) during an effect run
// subscribes that effect, and it re-runs whenever one of its dependencies
// notifies.
//
// # Core Types
//
// Trigger is a notifiable, trackable unit with no value of its own. The
// stores package allocates one pair of triggers per observed path:
//
//	t := reactive.NewTrigger()
//	t.Track()  // subscribe the current listener
//	t.Notify() // mark all subscribers dirty
//
// Signal[T] is a reactive value container:
//
//	count := reactive.NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//
// Effect runs side effects when dependencies change:
//
//	reactive.NewEffect(func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Ownership
//
// An Owner is a scope that owns effects, cleanups, and stored values.
// Disposing an Owner disposes everything created under it. Effects created
// without an owner re-run synchronously when notified; effects created
// under an owner are queued and drained by RunPendingEffects, which lets a
// host schedule re-runs after its own work (for example after a render).
//
// # Batching
//
// Multiple notifications can be batched so each listener is marked dirty
// at most once:
//
//	reactive.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})
//
// # Thread Safety
//
// All primitives are safe for concurrent use. The tracking context is
// per-goroutine, so spawning goroutines requires explicit propagation via
// WithOwner or WithListener.
package reactive
