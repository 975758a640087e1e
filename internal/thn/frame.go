package thn

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/core/ecs"
)

// Renderer consumes a frame snapshot. Implementations must not retain the
// frame past the call.
type Renderer interface {
	Draw(f *Frame)
}

// ObjectState is the render state of one scene graph node.
type ObjectState struct {
	Name         string
	Kind         ObjectKind
	Template     string
	Parent       string
	World        mgl64.Mat4
	LightGroup   int
	EffectActive bool
	Clip         string
	ClipTime     float64
}

// Fog is the global fog state.
type Fog struct {
	Mode    FogMode
	Color   mgl64.Vec3
	Range   mgl64.Vec2
	Density float64
}

// Frame is a read-only snapshot of everything the renderer needs.
type Frame struct {
	Name    string
	Clock   float64
	Objects []ObjectState
	Camera  CameraView
	Ambient mgl64.Vec3
	Lights  []DynamicLight
	Fog     Fog
	Layers  []Layer
	Tasks   int

	// NextEvent is the time of the next pending event; HasNextEvent is false
	// once the timeline is drained.
	NextEvent    float64
	HasNextEvent bool
}

// Frame snapshots the current state.
func (c *Cutscene) Frame() *Frame {
	f := &Frame{
		Name:    c.name,
		Clock:   c.clock,
		Camera:  c.rig.View(),
		Ambient: c.lighting.Ambient,
		Fog: Fog{
			Mode:    c.lighting.FogMode,
			Color:   c.lighting.FogColor,
			Range:   c.lighting.FogRange,
			Density: c.lighting.FogDensity,
		},
		Layers: c.Layers(),
		Tasks:  c.scheduler.Len(),
	}
	f.NextEvent, f.HasNextEvent = c.dispatcher.Next()

	f.Objects = make([]ObjectState, 0, c.registry.objects.Len())
	c.registry.objects.Each(func(id ecs.EntityID, node *ObjectNode) {
		e, ok := c.registry.Lookup(id)
		if !ok {
			return
		}
		st := ObjectState{
			Name:       e.Name,
			Kind:       node.Kind,
			World:      node.World,
			LightGroup: node.LightGroup,
		}
		if node.Template != nil {
			st.Template = node.Template.Name
		}
		if p, ok := c.registry.Lookup(node.Parent); ok {
			st.Parent = p.Name
		}
		if node.Effect != nil {
			st.EffectActive = node.Effect.Active
			if node.Effect.Template != nil {
				st.Template = node.Effect.Template.Name
			}
		}
		if node.Animator != nil && node.Animator.Playing {
			st.Clip = node.Animator.Current
			st.ClipTime = node.Animator.Time
		}
		f.Objects = append(f.Objects, st)
	})

	f.Lights = make([]DynamicLight, len(c.lighting.Lights))
	for i, l := range c.lighting.Lights {
		f.Lights[i] = *l
	}
	return f
}
