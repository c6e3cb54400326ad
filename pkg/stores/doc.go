// Package stores provides fine-grained, path-addressable reactive state
// on top of the reactive runtime.
//
// A store owns one large nested value (structs, slices, maps) and a side
// table of notification triggers keyed by path. Accessors derived from the
// store are cheap, copyable handles denoting a location inside the value
// tree; they never copy the underlying data. Reading through an accessor
// registers a dependency on exactly that path, and writing through one
// notifies that path and the "children changed" triggers of its ancestors,
// leaving unrelated siblings untouched.
//
//	type Todo struct {
//	    Label     string
//	    Completed bool
//	}
//	type Todos struct {
//	    User  string
//	    Todos []Todo
//	}
//
//	store := stores.NewStore(Todos{User: "Bob"})
//	user := stores.NewSubfield(store, 0, func(t *Todos) *string { return &t.User })
//	todos := stores.NewSubfield(store, 1, func(t *Todos) *[]Todo { return &t.Todos })
//
//	reactive.NewEffect(func() reactive.Cleanup {
//	    name, _ := stores.Get(user) // tracks only the User path
//	    fmt.Println("user:", name)
//	    return nil
//	})
//
//	stores.Set(user, "Greg")                          // re-runs the effect
//	stores.Update(todos, func(ts *[]Todo) {           // does not
//	    *ts = append(*ts, Todo{Label: "write docs"})
//	})
//
// Collection accessors come from At and IterUnkeyed, and whole-aggregate
// replacement with minimal notifications from PatchValue and Store.Patch.
//
// The subfield projection functions play the role a code generator fills
// in other frameworks: generated per-field accessors are expected to call
// NewSubfield with a stable field id. Field ids must match the exported
// struct field order for the patch walker to reach the same triggers.
package stores
