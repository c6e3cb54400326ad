package stores

// StoreField is the central contract: every accessor over a store's value
// tree implements it, whether it denotes the whole store, a struct field,
// or a collection element. Implementations are lightweight values that
// compose; none of them own the data they point at.
type StoreField[T any] interface {
	// Path returns the sequence of segments from the root to this
	// accessor's location. Cheap, non-owning.
	Path() StorePath

	// GetTrigger resolves the trigger pair for an exact path, creating it
	// if absent. Derived accessors delegate upward to the root's trigger
	// map.
	GetTrigger(path StorePath) StoreFieldTrigger

	// Reader produces an untracked read guard projected onto this
	// accessor's location, or false if the root has been disposed.
	Reader() (*ReadGuard[T], bool)

	// Writer produces an exclusive write guard projected onto this
	// accessor's location, with notification of this path's ancestors
	// wired in, or false if the root has been disposed.
	Writer() (*WriteGuard[T], bool)

	// Keys returns the key map used by keyed collection accessors,
	// forwarded from the inner accessor. Plain accessors report absence.
	Keys() (*KeyMap, bool)
}

// TrackField registers a dependency of the current listener on the field's
// exact path: both its own trigger and its children trigger, so the
// listener re-runs for direct mutation and for changes rooted under the
// path. No read happens.
func TrackField[T any](f StoreField[T]) {
	f.GetTrigger(f.Path()).Track()
}

// NotifyField fires the field's own trigger without touching the value.
// Used when the location is known to have changed by external means.
func NotifyField[T any](f StoreField[T]) {
	f.GetTrigger(f.Path()).This.Notify()
}

// Read returns a tracked read guard over the field: the current listener
// is subscribed to the field's path before the guard is produced.
// Reports false if the root has been disposed.
func Read[T any](f StoreField[T]) (*ReadGuard[T], bool) {
	TrackField(f)
	return f.Reader()
}

// ReadUntracked returns a read guard without registering any dependency.
func ReadUntracked[T any](f StoreField[T]) (*ReadGuard[T], bool) {
	return f.Reader()
}

// Get returns a copy of the field's value, tracking the field.
// Reports false if the root has been disposed.
func Get[T any](f StoreField[T]) (T, bool) {
	guard, ok := Read(f)
	if !ok {
		var zero T
		return zero, false
	}
	defer guard.Release()
	return *guard.Value(), true
}

// GetUntracked returns a copy of the field's value without tracking.
func GetUntracked[T any](f StoreField[T]) (T, bool) {
	guard, ok := f.Reader()
	if !ok {
		var zero T
		return zero, false
	}
	defer guard.Release()
	return *guard.Value(), true
}

// Set replaces the field's value and notifies. Reports false (and performs
// no mutation and no notification) if the root has been disposed.
func Set[T any](f StoreField[T], value T) bool {
	guard, ok := f.Writer()
	if !ok {
		return false
	}
	defer guard.Release()
	*guard.Value() = value
	return true
}

// Update mutates the field's value in place and notifies. Reports false if
// the root has been disposed.
func Update[T any](f StoreField[T], fn func(*T)) bool {
	guard, ok := f.Writer()
	if !ok {
		return false
	}
	defer guard.Release()
	fn(guard.Value())
	return true
}

// UpdateUntracked mutates the field's value without notifying anyone.
func UpdateUntracked[T any](f StoreField[T], fn func(*T)) bool {
	guard, ok := f.Writer()
	if !ok {
		return false
	}
	guard.Untrack()
	defer guard.Release()
	fn(guard.Value())
	return true
}
