package stores

// AtIndex provides access to the element at some index of an inner
// slice-valued accessor. Out-of-bounds access is a caller contract
// violation and panics like slice indexing does, rather than silently
// corrupting state.
//
// Two AtIndex values over the same inner accessor and index have equal
// paths and therefore route to the same trigger.
type AtIndex[T any] struct {
	inner StoreField[[]T]
	index int
}

// At creates an accessor for the element of the inner collection at the
// given index.
func At[T any](inner StoreField[[]T], index int) AtIndex[T] {
	return AtIndex[T]{inner: inner, index: index}
}

// Path implements StoreField: the inner path plus the index segment.
func (a AtIndex[T]) Path() StorePath {
	return a.inner.Path().WithSegment(StorePathSegment(a.index))
}

// GetTrigger implements StoreField by delegating to the root's trigger map.
func (a AtIndex[T]) GetTrigger(path StorePath) StoreFieldTrigger {
	return a.inner.GetTrigger(path)
}

// Index returns the collection index this accessor denotes.
func (a AtIndex[T]) Index() int {
	return a.index
}

// Reader implements StoreField: the inner reader projected onto the
// element.
func (a AtIndex[T]) Reader() (*ReadGuard[T], bool) {
	inner, ok := a.inner.Reader()
	if !ok {
		return nil, false
	}
	index := a.index
	return mapRead(inner, func(s *[]T) *T { return &(*s)[index] }), true
}

// Writer implements StoreField: the inner writer projected onto the
// element, with this path's children trigger added for ancestor
// observers.
func (a AtIndex[T]) Writer() (*WriteGuard[T], bool) {
	inner, ok := a.inner.Writer()
	if !ok {
		return nil, false
	}
	index := a.index
	guard := mapWrite(inner, func(s *[]T) *T { return &(*s)[index] })
	guard.addTrigger(a.GetTrigger(a.Path()).Children)
	return guard, true
}

// Keys implements StoreField, forwarded from the inner accessor.
func (a AtIndex[T]) Keys() (*KeyMap, bool) {
	return a.inner.Keys()
}

// Track registers a dependency on this element's exact path.
func (a AtIndex[T]) Track() {
	TrackField[T](a)
}

// Notify fires this element's own trigger.
func (a AtIndex[T]) Notify() {
	NotifyField[T](a)
}
