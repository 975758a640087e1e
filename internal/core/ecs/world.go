package ecs

// World owns the entity pool and the component stores holding per-entity
// payloads. Entities are created at cutscene construction and only
// destroyed when the whole cutscene is released.
type World struct {
	pool   *EntityPool
	stores []Removable
}

func NewWorld() *World {
	return &World{
		pool:   NewEntityPool(),
		stores: make([]Removable, 0, 8),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }

// Track registers a store so Destroy clears it.
func (w *World) Track(store Removable) {
	w.stores = append(w.stores, store)
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy clears the entity from every tracked store and invalidates its
// handle. Destroying a stale handle is a no-op.
func (w *World) Destroy(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	for _, s := range w.stores {
		s.Remove(id)
	}
	w.pool.Destroy(id)
}

// NewStore creates a store and tracks it in one step.
func NewStore[T any](w *World) *Store[T] {
	s := NewComponentStore[T]()
	w.Track(s)
	return s
}
