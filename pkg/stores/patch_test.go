package stores

import (
	"testing"

	"github.com/reflow-dev/reflow/pkg/reactive"
)

func TestPatchingOnlyNotifiesChangedField(t *testing.T) {
	store := NewStore(Todos{User: "Alice"})
	defer store.Dispose()
	todos := todosOf(store)

	runs := 0
	reactive.NewEffect(func() reactive.Cleanup {
		_, _ = Get[[]Todo](todos)
		runs++
		return nil
	})

	store.Patch(Todos{User: "Bob"})
	store.Patch(Todos{User: "Carol"})
	if runs != 1 {
		t.Errorf("user-only patches re-ran todos effect: %d runs", runs)
	}

	store.Patch(Todos{User: "Carol", Todos: []Todo{{Label: "First Todo"}}})
	if runs != 2 {
		t.Errorf("expected 2 runs after todos patch, got %d", runs)
	}
}

func TestPatchNotifiesUserObserver(t *testing.T) {
	store := NewStore(Todos{User: "Alice"})
	defer store.Dispose()
	user := userOf(store)

	runs := 0
	var observed string
	reactive.NewEffect(func() reactive.Cleanup {
		observed, _ = Get[string](user)
		runs++
		return nil
	})

	store.Patch(Todos{User: "Bob"})
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	if observed != "Bob" {
		t.Errorf("expected observed Bob, got %q", observed)
	}
}

func TestPatchIdenticalValueNotifiesNothing(t *testing.T) {
	store := NewStore(data())
	defer store.Dispose()

	runs := 0
	reactive.NewEffect(func() reactive.Cleanup {
		TrackField[Todos](store)
		runs++
		return nil
	})

	store.Patch(data())
	if runs != 1 {
		t.Errorf("identical patch notified: %d runs", runs)
	}
}

func TestPatchElementChangeStaysAtElementPath(t *testing.T) {
	store := NewStore(data())
	defer store.Dispose()
	todos := todosOf(store)

	firstLabel := labelOf(At[Todo](todos, 0))
	secondLabel := labelOf(At[Todo](todos, 1))

	firstRuns := 0
	reactive.NewEffect(func() reactive.Cleanup {
		_, _ = Get[string](firstLabel)
		firstRuns++
		return nil
	})
	secondRuns := 0
	reactive.NewEffect(func() reactive.Cleanup {
		_, _ = Get[string](secondLabel)
		secondRuns++
		return nil
	})

	next := data()
	next.Todos[1].Label = "!!!"
	store.Patch(next)

	if firstRuns != 1 {
		t.Errorf("untouched element re-ran: %d runs", firstRuns)
	}
	if secondRuns != 2 {
		t.Errorf("changed element should re-run once more: %d runs", secondRuns)
	}
}

func TestPatchLengthChangeNotifiesCollection(t *testing.T) {
	store := NewStore(data())
	defer store.Dispose()
	todos := todosOf(store)
	user := userOf(store)

	todosRuns := 0
	reactive.NewEffect(func() reactive.Cleanup {
		_, _ = Get[[]Todo](todos)
		todosRuns++
		return nil
	})
	userRuns := 0
	reactive.NewEffect(func() reactive.Cleanup {
		_, _ = Get[string](user)
		userRuns++
		return nil
	})

	next := data()
	next.Todos = append(next.Todos, Todo{Label: "new"})
	store.Patch(next)

	if todosRuns != 2 {
		t.Errorf("expected todos effect to re-run: %d runs", todosRuns)
	}
	if userRuns != 1 {
		t.Errorf("user effect re-ran on todos patch: %d runs", userRuns)
	}
}

func TestPatchSubfieldValue(t *testing.T) {
	store := NewStore(data())
	defer store.Dispose()
	todos := todosOf(store)

	runs := 0
	reactive.NewEffect(func() reactive.Cleanup {
		TrackField[[]Todo](todos)
		runs++
		return nil
	})

	// Patch the collection subfield directly: same diff semantics,
	// rooted at the subfield's path.
	next := []Todo{
		{Label: "Create reactive store", Completed: true},
		{Label: "???", Completed: false},
		{Label: "Profit", Completed: true},
	}
	if !PatchValue[[]Todo](todos, next) {
		t.Fatal("patch failed")
	}

	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	v, _ := GetUntracked[Todos](store)
	if !v.Todos[2].Completed {
		t.Error("patched element not applied")
	}
}

func TestPatchMapValue(t *testing.T) {
	type Prefs struct {
		Flags map[string]bool
	}
	store := NewStore(Prefs{Flags: map[string]bool{"dark": true, "beta": false}})
	defer store.Dispose()
	flags := NewSubfield(store, 0, func(p *Prefs) *map[string]bool { return &p.Flags })

	runs := 0
	reactive.NewEffect(func() reactive.Cleanup {
		TrackField[map[string]bool](flags)
		runs++
		return nil
	})

	// Same content: no notification.
	store.Patch(Prefs{Flags: map[string]bool{"dark": true, "beta": false}})
	if runs != 1 {
		t.Errorf("identical map patch notified: %d runs", runs)
	}

	// Changed value under one key notifies the flags subtree.
	store.Patch(Prefs{Flags: map[string]bool{"dark": false, "beta": false}})
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}

	// Added key notifies the map path itself.
	store.Patch(Prefs{Flags: map[string]bool{"dark": false, "beta": false, "new": true}})
	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
}

func TestPatchDisposedStore(t *testing.T) {
	store := NewStore(data())
	store.Dispose()

	if store.Patch(Todos{User: "Bob"}) {
		t.Error("patch on disposed store should report absence")
	}
}

type annotated struct {
	revision int
	Name     string
}

func TestPatchSkipsUnexportedFieldsInNumbering(t *testing.T) {
	store := NewStore(annotated{revision: 1, Name: "Alice"})
	defer store.Dispose()

	// Name is exported field 0 even though it is declared second; a
	// patch must reach the same trigger a direct write does.
	name := NewSubfield(store, 0, func(a *annotated) *string { return &a.Name })

	runs := 0
	var observed string
	reactive.NewEffect(func() reactive.Cleanup {
		if v, ok := Get[string](name); ok {
			observed = v
		}
		runs++
		return nil
	})

	Set(name, "Bob")
	if runs != 2 || observed != "Bob" {
		t.Fatalf("after direct write: runs=%d observed=%q, want 2/Bob", runs, observed)
	}

	store.Patch(annotated{revision: 2, Name: "Carol"})
	if runs != 3 {
		t.Errorf("patch changing Name did not re-run its observer: %d runs", runs)
	}
	if observed != "Carol" {
		t.Errorf("observed = %q, want Carol", observed)
	}

	// The unexported field alone is invisible to the diff.
	store.Patch(annotated{revision: 3, Name: "Carol"})
	if runs != 3 {
		t.Errorf("patch touching only the unexported field re-ran the observer: %d runs", runs)
	}
}
