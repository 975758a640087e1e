package ecs

// Removable is implemented by all component stores so the World can clear
// an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store holds one payload per entity and iterates in insertion order, so
// scene graph and light list order follow the script.
type Store[T any] struct {
	index map[EntityID]int
	ids   []EntityID
	items []*T
}

func NewComponentStore[T any]() *Store[T] {
	return &Store[T]{index: make(map[EntityID]int, 32)}
}

// Set stores c for id. Replacing an existing payload keeps its position.
func (s *Store[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.items[i] = c
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.items = append(s.items, c)
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

// Remove deletes the payload of id and closes the gap, keeping the order of
// the remaining entries.
func (s *Store[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	copy(s.ids[i:], s.ids[i+1:])
	copy(s.items[i:], s.items[i+1:])
	last := len(s.ids) - 1
	s.ids = s.ids[:last]
	s.items[last] = nil
	s.items = s.items[:last]
	for j := i; j < last; j++ {
		s.index[s.ids[j]] = j
	}
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Store[T]) Len() int { return len(s.ids) }

// IDs returns a copy of the stored handles in insertion order.
func (s *Store[T]) IDs() []EntityID {
	return append([]EntityID(nil), s.ids...)
}

// Each visits every payload in insertion order. fn must not add or remove
// entries.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i, id := range s.ids {
		fn(id, s.items[i])
	}
}
