package reactive

import "sync"

// Trigger is a notifiable, trackable unit of change signaling with no value
// of its own. It manages a type-erased subscriber set and is the primitive
// the stores package allocates per observed path. Signal[T] embeds a
// Trigger to share the subscription logic.
//
// The zero value is not usable; create triggers with NewTrigger.
type Trigger struct {
	id uint64

	// subs are the listeners subscribed to this trigger.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// NewTrigger creates a new trigger with no subscribers.
func NewTrigger() *Trigger {
	return &Trigger{id: nextID()}
}

// ID returns the unique identifier for this trigger.
func (t *Trigger) ID() uint64 {
	return t.id
}

// Track subscribes the current listener to this trigger. If no listener is
// active on this goroutine, Track is a no-op: reads outside a tracked
// context create no dependencies.
func (t *Trigger) Track() {
	listener := getCurrentListener()
	if listener == nil {
		return
	}

	t.subscribe(listener)

	// Effects remember their sources so they can unsubscribe before re-running.
	if e, ok := listener.(*Effect); ok {
		e.addSource(t)
	}
}

// Notify marks all subscribers of this trigger dirty.
// Uses copy-before-notify so no lock is held during notification.
// Inside a Batch, notifications are queued and deduplicated instead.
func (t *Trigger) Notify() {
	t.subMu.RLock()
	subs := make([]Listener, len(t.subs))
	copy(subs, t.subs)
	t.subMu.RUnlock()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
	} else {
		for _, sub := range subs {
			sub.MarkDirty()
		}
	}
}

// subscribe adds a listener to this trigger's subscribers.
// Deduplicates by listener ID to prevent double-subscription.
func (t *Trigger) subscribe(l Listener) {
	if l == nil {
		return
	}

	t.subMu.Lock()
	defer t.subMu.Unlock()

	lid := l.ID()
	for _, existing := range t.subs {
		if existing.ID() == lid {
			return
		}
	}

	t.subs = append(t.subs, l)
}

// unsubscribe removes a listener from this trigger's subscribers.
func (t *Trigger) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	t.subMu.Lock()
	defer t.subMu.Unlock()

	lid := l.ID()
	for i, existing := range t.subs {
		if existing.ID() == lid {
			// Remove by swapping with last element (order doesn't matter)
			t.subs[i] = t.subs[len(t.subs)-1]
			t.subs = t.subs[:len(t.subs)-1]
			return
		}
	}
}

// subscriberCount reports the current number of subscribers.
func (t *Trigger) subscriberCount() int {
	t.subMu.RLock()
	defer t.subMu.RUnlock()
	return len(t.subs)
}
