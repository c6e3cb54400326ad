package stores

import (
	"sync"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// StoreFieldTrigger is the pair of triggers allocated for one path.
// This fires for direct mutation or observation of the exact path.
// Children fires when something rooted under the path changes, without
// necessarily notifying This; iteration and subtree observers track it.
type StoreFieldTrigger struct {
	This     *reactive.Trigger
	Children *reactive.Trigger
}

// Notify fires both triggers of the pair.
func (t StoreFieldTrigger) Notify() {
	t.This.Notify()
	t.Children.Notify()
}

// Track tracks both triggers of the pair.
func (t StoreFieldTrigger) Track() {
	t.This.Track()
	t.Children.Track()
}

// childrenSuffix distinguishes a path's children trigger from its own.
// Plain path keys are a multiple of 8 bytes long, so a 1-byte suffix can
// never collide with another path's key.
const childrenSuffix = "\x00"

// triggerMap lazily allocates one trigger per path, owning the lifetime
// of every trigger derived from a store. getOrInsert is idempotent: the
// first caller for a path creates the trigger, all later callers for the
// same path receive the same instance.
//
// Entries are never removed in the core flow; see remove.
type triggerMap struct {
	mu       sync.Mutex
	triggers map[string]*reactive.Trigger
}

func newTriggerMap() *triggerMap {
	return &triggerMap{triggers: make(map[string]*reactive.Trigger)}
}

// getOrInsert resolves the trigger for an exact key, creating it if
// absent. Insertion cannot fail; the operation is total.
func (m *triggerMap) getOrInsert(key string) *reactive.Trigger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.triggers[key]; ok {
		return t
	}
	t := reactive.NewTrigger()
	m.triggers[key] = t
	triggersLive.Inc()
	return t
}

// get resolves the StoreFieldTrigger pair for a path, materializing the
// children trigger lazily the same way as the node's own.
func (m *triggerMap) get(path StorePath) StoreFieldTrigger {
	key := path.Key()
	return StoreFieldTrigger{
		This:     m.getOrInsert(key),
		Children: m.getOrInsert(key + childrenSuffix),
	}
}

// remove deletes both triggers for a path and returns whether the node's
// own trigger existed. Unused in the core flow: paths that stop being
// observed keep their (empty) triggers alive for the life of the store.
// Hosts with heavy path churn can call Store.RemoveTrigger to prune.
func (m *triggerMap) remove(path StorePath) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := path.Key()
	_, ok := m.triggers[key]
	if ok {
		delete(m.triggers, key)
		triggersLive.Dec()
	}
	if _, child := m.triggers[key+childrenSuffix]; child {
		delete(m.triggers, key+childrenSuffix)
		triggersLive.Dec()
	}
	return ok
}

// len reports the number of live triggers (both kinds).
func (m *triggerMap) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.triggers)
}
