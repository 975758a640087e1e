package thn

import "github.com/go-gl/mathgl/mgl64"

// DynamicLight is a light-role entity's render state. The same pointer is
// held by the registry and the lighting light list.
type DynamicLight struct {
	Name        string
	Kind        LightKind
	Active      bool
	Color       mgl64.Vec3
	Position    mgl64.Vec3
	Direction   mgl64.Vec3
	Range       float64
	Attenuation mgl64.Vec3
	LightGroup  int
}

// Lighting is the global light and fog state read by the renderer.
type Lighting struct {
	Ambient    mgl64.Vec3
	Lights     []*DynamicLight
	FogMode    FogMode
	FogColor   mgl64.Vec3
	FogRange   mgl64.Vec2
	FogDensity float64
}

func newLighting() *Lighting {
	return &Lighting{
		FogMode:  FogNone,
		FogColor: mgl64.Vec3{1, 1, 1},
	}
}

func colorFrom255(v mgl64.Vec3) mgl64.Vec3 {
	return v.Mul(1.0 / 255)
}
