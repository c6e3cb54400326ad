package stores

import (
	"fmt"
	"hash/fnv"
	"reflect"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

// PatchValue replaces a field's whole value with newValue, notifying only
// the triggers for paths whose subtree actually differs. Equal fields and
// elements notify nothing, so replacing an aggregate (for example from a
// server push) preserves the same fine-grained subscriber semantics as
// direct field mutation.
//
// Old and new values are compared structurally: structs exported field by
// exported field (numbered in declaration order, skipping unexported
// fields, matching NewSubfield ids), slices index by index
// with a length change notifying the collection path itself, maps key by
// key, and everything else by deep equality. Reports false, with no
// mutation and no notification, if the root has been disposed.
func PatchValue[T any](f StoreField[T], newValue T) bool {
	guard, ok := f.Writer()
	if !ok {
		return false
	}
	guard.Untrack()

	base := f.Path()
	var changed []StorePath
	diffValue(reflect.ValueOf(*guard.Value()), reflect.ValueOf(newValue), base, func(p StorePath) {
		changed = append(changed, p)
	})

	*guard.Value() = newValue
	guard.Release()

	if len(changed) == 0 {
		return true
	}
	patchedPaths.Add(float64(len(changed)))
	notifyChangedPaths(f.GetTrigger, changed)
	return true
}

// Patch applies PatchValue to the whole store.
func (s Store[T]) Patch(newValue T) bool {
	return PatchValue[T](s, newValue)
}

// Patch applies PatchValue to the whole store.
func (s ArcStore[T]) Patch(newValue T) bool {
	return PatchValue[T](s, newValue)
}

// notifyChangedPaths fires, deduplicated and batched: each changed path's
// own and children triggers, plus the children trigger of every proper
// ancestor, so subtree observers above a change learn about it while
// unrelated siblings stay quiet.
func notifyChangedPaths(getTrigger func(StorePath) StoreFieldTrigger, changed []StorePath) {
	seen := make(map[string]*reactive.Trigger)
	for _, p := range changed {
		trigger := getTrigger(p)
		key := p.Key()
		seen[key] = trigger.This
		seen[key+childrenSuffix] = trigger.Children

		for i := 0; i < len(p); i++ {
			ancestor := p[:i]
			akey := ancestor.Key() + childrenSuffix
			if _, ok := seen[akey]; !ok {
				seen[akey] = getTrigger(ancestor).Children
			}
		}
	}

	reactive.Batch(func() {
		for _, t := range seen {
			t.Notify()
		}
	})
}

// diffValue walks old and new in lockstep, emitting the deepest paths at
// which the two disagree.
func diffValue(old, new reflect.Value, path StorePath, emit func(StorePath)) {
	if !old.IsValid() || !new.IsValid() {
		if old.IsValid() != new.IsValid() {
			emit(path)
		}
		return
	}
	if old.Type() != new.Type() {
		emit(path)
		return
	}

	switch old.Kind() {
	case reflect.Struct:
		// Segments count exported fields only, so they line up with the
		// ids accessor call sites pass to NewSubfield.
		field := uint64(0)
		for i := 0; i < old.NumField(); i++ {
			if !old.Type().Field(i).IsExported() {
				continue
			}
			diffValue(old.Field(i), new.Field(i), path.WithSegment(StorePathSegment(field)), emit)
			field++
		}

	case reflect.Slice, reflect.Array:
		common := old.Len()
		if new.Len() < common {
			common = new.Len()
		}
		for i := 0; i < common; i++ {
			diffValue(old.Index(i), new.Index(i), path.WithSegment(StorePathSegment(i)), emit)
		}
		if old.Len() != new.Len() {
			// Elements appeared or disappeared: the collection itself changed.
			emit(path)
		}

	case reflect.Map:
		if old.IsNil() != new.IsNil() {
			emit(path)
			return
		}
		keysChanged := false
		iter := old.MapRange()
		for iter.Next() {
			nv := new.MapIndex(iter.Key())
			if !nv.IsValid() {
				keysChanged = true
				continue
			}
			diffValue(iter.Value(), nv, path.WithSegment(mapKeySegment(iter.Key())), emit)
		}
		iter = new.MapRange()
		for iter.Next() {
			if !old.MapIndex(iter.Key()).IsValid() {
				keysChanged = true
			}
		}
		if keysChanged {
			emit(path)
		}

	case reflect.Pointer:
		if old.IsNil() || new.IsNil() {
			if old.IsNil() != new.IsNil() {
				emit(path)
			}
			return
		}
		// A pointer is transparent: changing the pointee changes this path.
		diffValue(old.Elem(), new.Elem(), path, emit)

	case reflect.Interface:
		if old.IsNil() || new.IsNil() {
			if old.IsNil() != new.IsNil() {
				emit(path)
			}
			return
		}
		diffValue(old.Elem(), new.Elem(), path, emit)

	default:
		if !reflect.DeepEqual(old.Interface(), new.Interface()) {
			emit(path)
		}
	}
}

// mapKeySegment hashes a map key into a path segment. Deterministic
// across runs so key-addressed triggers are stable for the life of the
// process and beyond.
func mapKeySegment(key reflect.Value) StorePathSegment {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v", key.Interface())
	return StorePathSegment(h.Sum64())
}
