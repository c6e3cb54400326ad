package stores

import "iter"

// IterUnkeyed returns a reactive iterator over the elements of a
// slice-valued accessor.
//
// Calling IterUnkeyed tracks both the collection path's own trigger and
// its children trigger, so any push, pop, or replacement of the
// collection invalidates the caller, not just mutations it reaches
// through a yielded element. The current length is snapshotted once with
// an untracked read; the iterator then yields one AtIndex per position
// lazily, without tracking any individual element.
//
// The iterator is finite and single-pass: it consumes the captured
// length and is not restartable.
func IterUnkeyed[T any](f StoreField[[]T]) *StoreFieldIter[T] {
	f.GetTrigger(f.Path()).Track()

	length := 0
	if guard, ok := f.Reader(); ok {
		length = len(*guard.Value())
		guard.Release()
	}

	return &StoreFieldIter[T]{inner: f, idx: 0, len: length}
}

// StoreFieldIter is a double-ended iterator producing reactive element
// accessors. Next walks ascending from index 0; NextBack walks descending
// from the captured length. Mixed consumption is safe: each index is
// yielded exactly once, and the iterator is exhausted when the two
// cursors meet.
type StoreFieldIter[T any] struct {
	inner StoreField[[]T]
	idx   int
	len   int
}

// Len returns the number of elements not yet yielded.
func (it *StoreFieldIter[T]) Len() int {
	return it.len - it.idx
}

// Next yields the accessor for the next element from the front, or false
// when the iterator is exhausted.
func (it *StoreFieldIter[T]) Next() (AtIndex[T], bool) {
	if it.idx < it.len {
		field := At(it.inner, it.idx)
		it.idx++
		return field, true
	}
	return AtIndex[T]{}, false
}

// NextBack yields the accessor for the next element from the back, or
// false when the iterator is exhausted.
func (it *StoreFieldIter[T]) NextBack() (AtIndex[T], bool) {
	if it.len > it.idx {
		it.len--
		return At(it.inner, it.len), true
	}
	return AtIndex[T]{}, false
}

// All consumes the rest of the iterator front-to-back as a range-over-func
// sequence.
//
//	for item := range stores.IterUnkeyed(todos).All() {
//	    label, _ := stores.Get(stores.NewSubfield(item, 0, labelOf))
//	    ...
//	}
func (it *StoreFieldIter[T]) All() iter.Seq[AtIndex[T]] {
	return func(yield func(AtIndex[T]) bool) {
		for {
			field, ok := it.Next()
			if !ok {
				return
			}
			if !yield(field) {
				return
			}
		}
	}
}
