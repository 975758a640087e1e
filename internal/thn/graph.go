package thn

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/core/ecs"
)

// maxGraphDepth bounds parent chains when resolving world transforms.
const maxGraphDepth = 64

// worldOf resolves the world transform of an object from its current local
// transform and parent chain: parent world × attachment × local. Objects
// with a stale or missing parent are treated as roots.
func (c *Cutscene) worldOf(id ecs.EntityID) mgl64.Mat4 {
	return c.resolveWorld(id, 0)
}

func (c *Cutscene) resolveWorld(id ecs.EntityID, depth int) mgl64.Mat4 {
	node, ok := c.registry.Object(id)
	if !ok {
		return mgl64.Ident4()
	}
	if node.Parent.IsZero() || depth >= maxGraphDepth {
		return node.Local
	}
	if _, ok := c.registry.Lookup(node.Parent); !ok {
		return node.Local
	}
	world := c.resolveWorld(node.Parent, depth+1)
	if node.Attachment != nil {
		world = world.Mul4(node.Attachment.Transform)
	}
	return world.Mul4(node.Local)
}

// propagate recomputes every object's world transform and advances the
// clips and particle effects of the graph.
func (c *Cutscene) propagate(dt float64) {
	c.registry.objects.Each(func(id ecs.EntityID, node *ObjectNode) {
		node.World = c.worldOf(id)
		if node.Animator != nil {
			node.Animator.Advance(dt)
		}
		if node.Effect != nil {
			node.Effect.Advance(dt)
		}
	})
}
