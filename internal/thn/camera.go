package thn

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/core/ecs"
)

const (
	defaultFovH   = 70.0
	defaultAspect = 4.0 / 3.0
	cameraZNear   = 2.5
	cameraZFar    = 100000
)

// CameraTransform is the state of a camera-role entity. LookAt is a weak
// handle to the object the camera keeps facing.
type CameraTransform struct {
	Position    mgl64.Vec3
	Orientation mgl64.Mat4
	FovH        float64
	AspectRatio float64
	LookAt      ecs.EntityID
}

func newCameraTransform() *CameraTransform {
	return &CameraTransform{
		Orientation: mgl64.Ident4(),
		FovH:        defaultFovH,
		AspectRatio: defaultAspect,
	}
}

// CameraView is the resolved camera the renderer draws from.
type CameraView struct {
	Camera      string
	Position    mgl64.Vec3
	Orientation mgl64.Mat4
	FovH        float64
	AspectRatio float64
	LookAt      string
	View        mgl64.Mat4
	Projection  mgl64.Mat4
}

// CameraRig tracks the active camera entity and resolves its view once per
// tick. The rig references the camera entity rather than copying it, so
// tasks animating that camera stay visible after SetCamera.
type CameraRig struct {
	active ecs.EntityID
	view   CameraView
}

func newCameraRig() *CameraRig {
	rig := &CameraRig{}
	rig.view = resolveView(newCameraTransform(), mgl64.Vec3{}, false)
	return rig
}

func (r *CameraRig) Active() ecs.EntityID { return r.active }
func (r *CameraRig) View() CameraView     { return r.view }

func (r *CameraRig) set(id ecs.EntityID) {
	r.active = id
}

func (r *CameraRig) update(c *Cutscene) {
	if r.active.IsZero() {
		return
	}
	ent, ok := c.registry.Lookup(r.active)
	if !ok {
		return
	}
	cam, ok := c.registry.Camera(r.active)
	if !ok {
		return
	}
	var target mgl64.Vec3
	var hasTarget bool
	var targetName string
	if !cam.LookAt.IsZero() {
		if te, ok := c.registry.Lookup(cam.LookAt); ok {
			target = translationOf(c.worldOf(cam.LookAt))
			hasTarget = true
			targetName = te.Name
		}
	}
	view := resolveView(cam, target, hasTarget)
	view.Camera = ent.Name
	view.LookAt = targetName
	r.view = view
}

func resolveView(cam *CameraTransform, target mgl64.Vec3, hasTarget bool) CameraView {
	orient := rotationOf(cam.Orientation)
	if hasTarget {
		dir := target.Sub(cam.Position)
		if dir.Len() > 1e-6 {
			orient = LookRotation(dir, WorldUp).Mat4()
		}
	}
	aspect := cam.AspectRatio
	if aspect <= 0 {
		aspect = defaultAspect
	}
	fovh := cam.FovH
	if fovh <= 0 {
		fovh = defaultFovH
	}
	fovy := 2 * math.Atan(math.Tan(mgl64.DegToRad(fovh)/2)/aspect)

	world := mgl64.Translate3D(cam.Position.X(), cam.Position.Y(), cam.Position.Z()).Mul4(orient)
	return CameraView{
		Position:    cam.Position,
		Orientation: orient,
		FovH:        fovh,
		AspectRatio: aspect,
		View:        world.Inv(),
		Projection:  mgl64.Perspective(fovy, aspect, cameraZNear, cameraZFar),
	}
}
