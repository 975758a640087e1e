package ecs

// EntityID packs a 32-bit index in the low bits and a 32-bit generation in
// the high bits. The zero EntityID never refers to a live entity, so it
// doubles as "no entity" in weak references.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool hands out handles for one cutscene. Indices are never reused:
// a cutscene's entity set is built once and released as a whole, so a
// destroyed handle only needs its generation bumped to go stale.
type EntityPool struct {
	generations []uint32
	dead        []bool
	live        int
}

func NewEntityPool() *EntityPool {
	// index 0 is reserved for the zero handle
	return &EntityPool{
		generations: make([]uint32, 1, 64),
		dead:        []bool{true},
	}
}

func (p *EntityPool) Create() EntityID {
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	p.dead = append(p.dead, false)
	p.live++
	return NewEntityID(idx, 1)
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if int(idx) >= len(p.generations) || p.dead[idx] {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Destroy invalidates id. Stale handles are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return
	}
	idx := id.Index()
	p.generations[idx]++
	p.dead[idx] = true
	p.live--
}

// Len returns the number of live entities.
func (p *EntityPool) Len() int { return p.live }
