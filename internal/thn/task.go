package thn

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/core/ecs"
)

// Task is an active animation. The set of variants is closed: the scheduler
// steps each one through an explicit type switch.
type Task interface {
	Kind() string
	Target() ecs.EntityID
	task()
}

// taskClock is the elapsed/duration pair every task carries.
type taskClock struct {
	elapsed  float64
	duration float64
}

// advance adds delta and reports whether the task has run past its end.
func (t *taskClock) advance(delta float64) bool {
	t.elapsed += delta
	return t.elapsed > t.duration
}

// finish moves the clock past its end, so the next step applies the
// endpoint and reports done.
func (t *taskClock) finish() {
	t.elapsed = math.Nextafter(t.duration, math.Inf(1))
}

// progress returns the eased parameter for the current tick; on the
// finishing tick it is the curve's value at t = duration.
func (t *taskClock) progress(curve *Curve, done bool) float64 {
	elapsed := t.elapsed
	if done {
		elapsed = t.duration
	}
	if curve != nil {
		return curve.Value(elapsed, t.duration)
	}
	if t.duration <= 0 {
		return 1
	}
	return elapsed / t.duration
}

// attachCameraTask copies an object's (or one of its hardpoints') transform
// into a camera for its duration.
type attachCameraTask struct {
	taskClock
	camera      ecs.EntityID
	object      ecs.EntityID
	part        *Hardpoint
	position    bool
	orientation bool
	lookAt      bool
}

func (t *attachCameraTask) Kind() string         { return "AttachCameraToObject" }
func (t *attachCameraTask) Target() ecs.EntityID { return t.camera }
func (*attachCameraTask) task()                  {}

// fogPropTask interpolates the fields of the global fog that the event set.
type fogPropTask struct {
	taskClock
	curve *Curve

	color   *mgl64.Vec3
	start   *float64
	end     *float64
	density *float64

	origColor   mgl64.Vec3
	origStart   float64
	origEnd     float64
	origDensity float64
}

func (t *fogPropTask) Kind() string       { return "FogPropAnim" }
func (*fogPropTask) Target() ecs.EntityID { return 0 }
func (*fogPropTask) task()                {}

// pathMotion is the state shared by object and camera path animations.
type pathMotion struct {
	taskClock
	curve        *Curve
	path         ecs.EntityID
	startPercent float64
	stopPercent  float64
	flags        AttachFlags
}

type objectPathTask struct {
	pathMotion
	object ecs.EntityID
}

func (t *objectPathTask) Kind() string         { return "ObjectPathAnimation" }
func (t *objectPathTask) Target() ecs.EntityID { return t.object }
func (*objectPathTask) task()                  {}

type cameraPathTask struct {
	pathMotion
	camera ecs.EntityID
}

func (t *cameraPathTask) Kind() string         { return "CameraPathAnimation" }
func (t *cameraPathTask) Target() ecs.EntityID { return t.camera }
func (*cameraPathTask) task()                  {}
