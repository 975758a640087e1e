package ecs

import "testing"

func TestEntityPoolLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ids := make([]EntityID, 0, c.create)
			for i := 0; i < c.create; i++ {
				id := w.CreateEntity()
				if id.IsZero() {
					t.Fatalf("created entity %d has zero id", i)
				}
				ids = append(ids, id)
			}
			if w.Pool().Len() != c.create {
				t.Fatalf("expected %d live entities, got %d", c.create, w.Pool().Len())
			}
			if c.destroyIndex >= 0 {
				w.Destroy(ids[c.destroyIndex])
				if w.Alive(ids[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.Pool().Len() != c.create-1 {
					t.Fatalf("expected %d live entities, got %d", c.create-1, w.Pool().Len())
				}
			}
		})
	}
}

func TestStaleHandleAfterDestroy(t *testing.T) {
	w := NewWorld()
	first := w.CreateEntity()
	w.Destroy(first)

	second := w.CreateEntity()
	if second.Index() == first.Index() {
		t.Fatalf("index %d reused", first.Index())
	}
	if w.Alive(first) {
		t.Fatalf("stale handle must not be alive")
	}
	if w.Alive(NewEntityID(first.Index(), first.Generation()+1)) {
		t.Fatalf("destroyed index must stay dead for every generation")
	}
	if !w.Alive(second) {
		t.Fatalf("new handle must be alive")
	}
	if w.Alive(0) {
		t.Fatalf("zero handle must never be alive")
	}
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	w := NewWorld()
	s := NewStore[string](w)
	names := []string{"scene", "ship", "camera", "path"}
	ids := make([]EntityID, len(names))
	for i := range names {
		ids[i] = w.CreateEntity()
		s.Set(ids[i], &names[i])
	}

	replacement := "ship_b"
	s.Set(ids[1], &replacement)
	w.Destroy(ids[2])

	var got []string
	s.Each(func(_ EntityID, v *string) { got = append(got, *v) })
	want := []string{"scene", "ship_b", "path"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if v, ok := s.Get(ids[3]); !ok || *v != "path" {
		t.Fatalf("Get after removal = %v, %v", v, ok)
	}
	if order := s.IDs(); len(order) != 3 || order[2] != ids[3] {
		t.Fatalf("IDs = %v", order)
	}
}

func TestDestroyClearsTrackedStores(t *testing.T) {
	w := NewWorld()
	names := NewStore[string](w)
	values := NewStore[int](w)

	id := w.CreateEntity()
	name, value := "camera", 7
	names.Set(id, &name)
	values.Set(id, &value)

	w.Destroy(id)
	if names.Has(id) || values.Has(id) {
		t.Fatalf("expected stores to be cleared on destroy")
	}

	// destroying twice is harmless
	w.Destroy(id)
	if w.Pool().Len() != 0 {
		t.Fatalf("expected no live entities, got %d", w.Pool().Len())
	}
}
