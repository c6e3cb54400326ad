package stores

import "testing"

func TestPathEqual(t *testing.T) {
	a := StorePath{1, 2, 3}
	b := StorePath{1, 2, 3}
	c := StorePath{1, 2}
	d := StorePath{1, 2, 4}

	if !a.Equal(b) {
		t.Error("equal paths reported unequal")
	}
	if a.Equal(c) || a.Equal(d) {
		t.Error("unequal paths reported equal")
	}
	if !StorePath(nil).Equal(StorePath{}) {
		t.Error("nil and empty paths are the same location")
	}
}

func TestPathKeyInjective(t *testing.T) {
	paths := []StorePath{
		nil,
		{0},
		{1},
		{0, 0},
		{0, 1},
		{1, 0},
		{1 << 40},
		{0, 0, 0},
	}

	seen := make(map[string]int)
	for i, p := range paths {
		key := p.Key()
		if j, dup := seen[key]; dup {
			t.Errorf("paths %v and %v share key", paths[j], paths[i])
		}
		seen[key] = i
	}
}

func TestWithSegmentDoesNotAliasParent(t *testing.T) {
	parent := make(StorePath, 1, 4)
	parent[0] = 7

	a := parent.WithSegment(1)
	b := parent.WithSegment(2)

	if a[1] != 1 || b[1] != 2 {
		t.Errorf("sibling paths clobbered each other: %v %v", a, b)
	}
	if !a.Equal(StorePath{7, 1}) || !b.Equal(StorePath{7, 2}) {
		t.Errorf("unexpected paths: %v %v", a, b)
	}
}

func TestAccessorPathComposition(t *testing.T) {
	store := NewStore(data())
	defer store.Dispose()

	label := labelOf(At[Todo](todosOf(store), 2))
	if !label.Path().Equal(StorePath{1, 2, 0}) {
		t.Errorf("expected path [1 2 0], got %v", label.Path())
	}
}

func TestKeyMap(t *testing.T) {
	km := NewKeyMap()
	path := StorePath{3}

	pos, existed := km.GetOrInsert(path, 100, 0)
	if existed || pos != 0 {
		t.Errorf("expected fresh insert at 0, got (%d, %v)", pos, existed)
	}

	pos, existed = km.GetOrInsert(path, 100, 5)
	if !existed || pos != 0 {
		t.Errorf("expected existing position 0, got (%d, %v)", pos, existed)
	}

	// Reorder: the key keeps its identity at a new position.
	km.Update(path, 100, 2)
	pos, existed = km.GetOrInsert(path, 100, 9)
	if !existed || pos != 2 {
		t.Errorf("expected moved position 2, got (%d, %v)", pos, existed)
	}

	if !km.Remove(path, 100) {
		t.Error("expected key to exist")
	}
	if km.Remove(path, 100) {
		t.Error("expected key to be gone")
	}
}
