package reactive

// Batch groups multiple trigger notifications into a single notification
// phase. All notifications within the batch function are collected,
// deduplicated by listener, and then all affected listeners are marked
// dirty once when the batch completes.
//
// This is what makes a single store write that touches several triggers
// (a field's own trigger plus its ancestors') mark each subscriber dirty
// exactly once.
//
// Batches can be nested. Notifications only fire when the outermost batch
// completes.
//
// Example:
//
//	reactive.Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
//	// Each subscriber is marked dirty once for both changes
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	// Deduplicate by listener ID
	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))

	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}

// Untracked runs a function without tracking reads as dependencies.
// This is useful when you need to read a reactive value without creating
// a subscription.
//
// Example:
//
//	reactive.Untracked(func() {
//	    value := count.Get() // does not subscribe the current listener
//	})
//
// Note: For single signal reads, use signal.Peek() instead, which is more
// efficient and clearer in intent.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
