package thn

import (
	"fmt"

	"github.com/thnplay/thnplay/internal/core/ecs"
	"golang.org/x/text/cases"
)

// Registry maps entity names to entities and holds every role payload. The
// set of names is fixed after construction; payload fields stay mutable.
// Lookups by name are case-insensitive.
type Registry struct {
	world *ecs.World
	fold  cases.Caser
	names map[string]ecs.EntityID

	// stores iterate in construction order; objects is the scene graph order
	entities *ecs.Store[Entity]
	objects  *ecs.Store[ObjectNode]
	lights   *ecs.Store[DynamicLight]
	cameras  *ecs.Store[CameraTransform]
	paths    *ecs.Store[Path]
}

func newRegistry() *Registry {
	w := ecs.NewWorld()
	return &Registry{
		world:    w,
		fold:     cases.Fold(),
		names:    make(map[string]ecs.EntityID),
		entities: ecs.NewStore[Entity](w),
		objects:  ecs.NewStore[ObjectNode](w),
		lights:   ecs.NewStore[DynamicLight](w),
		cameras:  ecs.NewStore[CameraTransform](w),
		paths:    ecs.NewStore[Path](w),
	}
}

func (r *Registry) key(name string) string {
	return r.fold.String(name)
}

// add allocates a handle for e and indexes it by name.
func (r *Registry) add(e *Entity) error {
	k := r.key(e.Name)
	if _, dup := r.names[k]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateEntity, e.Name)
	}
	e.ID = r.world.CreateEntity()
	r.entities.Set(e.ID, e)
	r.names[k] = e.ID
	return nil
}

func (r *Registry) setObject(id ecs.EntityID, n *ObjectNode) {
	r.objects.Set(id, n)
}

// Get returns the entity with the given name, ignoring case.
func (r *Registry) Get(name string) (*Entity, error) {
	id, ok := r.names[r.key(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	e, ok := r.entities.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return e, nil
}

// Lookup resolves a handle. Stale handles report false.
func (r *Registry) Lookup(id ecs.EntityID) (*Entity, bool) {
	if !r.world.Alive(id) {
		return nil, false
	}
	return r.entities.Get(id)
}

func (r *Registry) Object(id ecs.EntityID) (*ObjectNode, bool) {
	return r.objects.Get(id)
}

func (r *Registry) Light(id ecs.EntityID) (*DynamicLight, bool) {
	return r.lights.Get(id)
}

func (r *Registry) Camera(id ecs.EntityID) (*CameraTransform, bool) {
	return r.cameras.Get(id)
}

func (r *Registry) Path(id ecs.EntityID) (*Path, bool) {
	return r.paths.Get(id)
}

// Len returns the number of registered entities.
func (r *Registry) Len() int { return r.entities.Len() }

// Entities returns the handles of all entities in construction order.
func (r *Registry) Entities() []ecs.EntityID {
	return r.entities.IDs()
}

// Objects returns the scene graph handles in registration order.
func (r *Registry) Objects() []ecs.EntityID {
	return r.objects.IDs()
}

// release destroys every entity; outstanding handles become stale.
func (r *Registry) release() {
	for _, id := range r.entities.IDs() {
		r.world.Destroy(id)
	}
}
