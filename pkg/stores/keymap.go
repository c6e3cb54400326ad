package stores

import "sync"

// KeyMap is a per-path table mapping stable keys to allocated positions.
// Keyed collection accessors use it to preserve trigger identity across
// reordering: the trigger for an item follows its key, not its index.
// Plain (unkeyed) accessors report no key map.
type KeyMap struct {
	mu        sync.Mutex
	positions map[string]map[uint64]int
}

// NewKeyMap creates an empty key map.
func NewKeyMap() *KeyMap {
	return &KeyMap{positions: make(map[string]map[uint64]int)}
}

// GetOrInsert returns the recorded position for key under path, inserting
// position if the key has not been seen. The returned bool reports
// whether the key already existed.
func (m *KeyMap) GetOrInsert(path StorePath, key uint64, position int) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pk := path.Key()
	table, ok := m.positions[pk]
	if !ok {
		table = make(map[uint64]int)
		m.positions[pk] = table
	}
	if pos, ok := table[key]; ok {
		return pos, true
	}
	table[key] = position
	return position, false
}

// Update moves a key to a new position, so the key's trigger identity
// survives a reorder of the underlying collection.
func (m *KeyMap) Update(path StorePath, key uint64, position int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pk := path.Key()
	table, ok := m.positions[pk]
	if !ok {
		table = make(map[uint64]int)
		m.positions[pk] = table
	}
	table[key] = position
}

// Remove forgets a key under path, reporting whether it existed.
func (m *KeyMap) Remove(path StorePath, key uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	table, ok := m.positions[path.Key()]
	if !ok {
		return false
	}
	_, existed := table[key]
	delete(table, key)
	return existed
}
