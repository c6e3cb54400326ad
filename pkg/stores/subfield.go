package stores

// Subfield projects a struct field out of an inner accessor's value. It
// wraps any StoreField and adds one path segment; the composed path is
// resolved only at trigger time by walking the inner path and appending
// the field id.
//
// Subfield values are ephemeral and copyable; they are valid as long as
// the inner chain's root is alive. This is the contract generated
// per-field accessors implement: a generator emits one NewSubfield call
// per exported field, with the field's index as its id.
type Subfield[Prev, T any] struct {
	inner StoreField[Prev]
	field StorePathSegment
	read  func(*Prev) *T
}

// NewSubfield creates an accessor for one field of the inner accessor's
// value. field is the stable field id (the exported-field index, when the
// patch walker should reach the same trigger); read projects the field
// out of the parent value without copying.
func NewSubfield[Prev, T any](inner StoreField[Prev], field uint64, read func(*Prev) *T) Subfield[Prev, T] {
	return Subfield[Prev, T]{
		inner: inner,
		field: StorePathSegment(field),
		read:  read,
	}
}

// Path implements StoreField: the inner path plus this field's segment.
func (f Subfield[Prev, T]) Path() StorePath {
	return f.inner.Path().WithSegment(f.field)
}

// GetTrigger implements StoreField by delegating to the root's trigger map.
func (f Subfield[Prev, T]) GetTrigger(path StorePath) StoreFieldTrigger {
	return f.inner.GetTrigger(path)
}

// Reader implements StoreField: the inner reader projected onto the field.
func (f Subfield[Prev, T]) Reader() (*ReadGuard[T], bool) {
	inner, ok := f.inner.Reader()
	if !ok {
		return nil, false
	}
	return mapRead(inner, f.read), true
}

// Writer implements StoreField: the inner writer projected onto the
// field, with this path's children trigger added so ancestors observing
// subtree changes learn a descendant changed when the guard is released.
func (f Subfield[Prev, T]) Writer() (*WriteGuard[T], bool) {
	inner, ok := f.inner.Writer()
	if !ok {
		return nil, false
	}
	guard := mapWrite(inner, f.read)
	guard.addTrigger(f.GetTrigger(f.Path()).Children)
	return guard, true
}

// Keys implements StoreField, forwarded from the inner accessor.
func (f Subfield[Prev, T]) Keys() (*KeyMap, bool) {
	return f.inner.Keys()
}

// Track registers a dependency on this field's exact path.
func (f Subfield[Prev, T]) Track() {
	TrackField[T](f)
}

// Notify fires this field's own trigger.
func (f Subfield[Prev, T]) Notify() {
	NotifyField[T](f)
}
