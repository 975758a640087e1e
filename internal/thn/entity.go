package thn

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/core/ecs"
)

// Role is the closed set of payload kinds an entity carries.
type Role int

const (
	RoleNone Role = iota
	RoleObject
	RoleLight
	RoleCamera
	RolePath
	RoleScene
	RoleBackground
)

func (r Role) String() string {
	switch r {
	case RoleObject:
		return "object"
	case RoleLight:
		return "light"
	case RoleCamera:
		return "camera"
	case RolePath:
		return "path"
	case RoleScene:
		return "scene"
	case RoleBackground:
		return "background"
	}
	return "none"
}

// Entity is one named timeline actor. Its role payload lives in the
// registry's store for that role.
type Entity struct {
	ID        ecs.EntityID
	Name      string
	Type      EntityType
	Role      Role
	Translate mgl64.Vec3
	Rotate    mgl64.Mat4
}

// ObjectKind distinguishes object-role entities.
type ObjectKind int

const (
	ObjectModel ObjectKind = iota
	ObjectEffect
	ObjectMarker
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectModel:
		return "model"
	case ObjectEffect:
		return "effect"
	}
	return "marker"
}

// ObjectNode is a scene graph node. Parent is a weak handle; Attachment is
// the hardpoint or part of the parent the node hangs from.
type ObjectNode struct {
	Kind       ObjectKind
	Template   *ModelTemplate
	LightGroup int
	Local      mgl64.Mat4
	World      mgl64.Mat4
	Parent     ecs.EntityID
	Attachment *Hardpoint
	Animator   *Animator
	Effect     *ParticleEffect
}

// ParticleEffect is the playback flag of a PSys object.
type ParticleEffect struct {
	Template *EffectTemplate
	Active   bool
	Elapsed  float64
}

func (p *ParticleEffect) Start() {
	p.Active = true
	p.Elapsed = 0
}

func (p *ParticleEffect) Advance(dt float64) {
	if !p.Active {
		return
	}
	p.Elapsed += dt
	if p.Template != nil && p.Template.Duration > 0 && p.Elapsed >= p.Template.Duration {
		if p.Template.Loop {
			for p.Elapsed >= p.Template.Duration {
				p.Elapsed -= p.Template.Duration
			}
			return
		}
		p.Active = false
	}
}

// Animator plays the clips of a model template.
type Animator struct {
	clips   map[string]Clip
	Current string
	Time    float64
	Playing bool
}

func newAnimator(t *ModelTemplate) *Animator {
	if t == nil || len(t.Clips) == 0 {
		return nil
	}
	return &Animator{clips: t.Clips}
}

// Start begins playback of the named clip from its first frame. It reports
// false when the model has no such clip.
func (a *Animator) Start(name string) bool {
	clip, ok := a.clips[lowerKey(name)]
	if !ok {
		return false
	}
	a.Current = clip.Name
	a.Time = 0
	a.Playing = true
	return true
}

func (a *Animator) Advance(dt float64) {
	if !a.Playing {
		return
	}
	clip, ok := a.clips[lowerKey(a.Current)]
	if !ok {
		a.Playing = false
		return
	}
	a.Time += dt
	if clip.Length <= 0 || a.Time < clip.Length {
		return
	}
	if clip.Loop {
		for a.Time >= clip.Length {
			a.Time -= clip.Length
		}
		return
	}
	a.Time = clip.Length
	a.Playing = false
}
