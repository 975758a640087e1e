package thn

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const epsilon = 1e-6

func zeroDuration(d float64) bool { return math.Abs(d) < epsilon }

// apply routes one event to its handler. Unknown kinds are ignored.
func (c *Cutscene) apply(ev *Event) error {
	switch ev.Kind {
	case EventSetCamera:
		return c.setCamera(ev)
	case EventAttachEntity:
		return c.attachEntity(ev)
	case EventStartPSys:
		return c.startPSys(ev)
	case EventStartMotion:
		return c.startMotion(ev)
	case EventStartFogPropAnim:
		return c.startFogPropAnim(ev)
	case EventStartPathAnimation:
		return c.startPathAnimation(ev)
	}
	c.log.Debug("ignoring event", zap.String("type", ev.Type), zap.Float64("time", ev.Time))
	return nil
}

// target resolves the i-th target of ev to an entity.
func (c *Cutscene) target(ev *Event, i int) (*Entity, error) {
	name, err := ev.Target(i)
	if err != nil {
		return nil, err
	}
	e, err := c.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%s at %.3fs: %w", ev.Type, ev.Time, err)
	}
	return e, nil
}

func wrongRole(ev *Event, e *Entity, want Role) error {
	return fmt.Errorf("%w: %s at %.3fs: %q is %s, want %s", ErrWrongRole, ev.Type, ev.Time, e.Name, e.Role, want)
}

func (c *Cutscene) setCamera(ev *Event) error {
	cam, err := c.target(ev, 1)
	if err != nil {
		return err
	}
	if cam.Role != RoleCamera {
		return wrongRole(ev, cam, RoleCamera)
	}
	c.rig.set(cam.ID)
	return nil
}

func (c *Cutscene) startPSys(ev *Event) error {
	e, err := c.target(ev, 0)
	if err != nil {
		return err
	}
	node, ok := c.registry.Object(e.ID)
	if !ok || node.Effect == nil {
		return wrongRole(ev, e, RoleObject)
	}
	node.Effect.Start()
	return nil
}

func (c *Cutscene) startMotion(ev *Event) error {
	e, err := c.target(ev, 0)
	if err != nil {
		return err
	}
	node, ok := c.registry.Object(e.ID)
	if !ok || node.Animator == nil {
		return nil
	}
	name, err := ev.Props.String("animation")
	if err != nil {
		return malformed(ev, "%v", err)
	}
	if !node.Animator.Start(name) {
		return malformed(ev, "%q has no animation %q", e.Name, name)
	}
	return nil
}

func (c *Cutscene) startFogPropAnim(ev *Event) error {
	props, err := ev.Props.Table("fogprops")
	if err != nil {
		return malformed(ev, "%v", err)
	}
	on, hasOn, err := props.OptBool("fogon")
	if err != nil {
		return malformed(ev, "%v", err)
	}
	mode := FogLinear
	if m, ok, err := props.OptNumber("fogmode"); err != nil {
		return malformed(ev, "%v", err)
	} else if ok {
		mode = FogMode(int(m))
		if mode < FogNone || mode > FogLinear {
			return malformed(ev, "unknown fog mode %v", m)
		}
	}

	t := &fogPropTask{taskClock: taskClock{duration: ev.Duration}, curve: ev.Curve}
	if v, ok, err := props.OptVec3("fogcolor"); err != nil {
		return malformed(ev, "%v", err)
	} else if ok {
		col := colorFrom255(v)
		t.color = &col
	}
	for key, dst := range map[string]**float64{
		"fogstart":   &t.start,
		"fogend":     &t.end,
		"fogdensity": &t.density,
	} {
		v, ok, err := props.OptNumber(key)
		if err != nil {
			return malformed(ev, "%v", err)
		}
		if ok {
			*dst = &v
		}
	}

	fog := c.lighting
	if hasOn {
		if on {
			fog.FogMode = mode
		} else {
			fog.FogMode = FogNone
		}
	}

	if zeroDuration(ev.Duration) {
		t.apply(fog, 1)
		return nil
	}
	t.origColor = fog.FogColor
	t.origStart = fog.FogRange.X()
	t.origEnd = fog.FogRange.Y()
	t.origDensity = fog.FogDensity
	c.scheduler.Add(t)
	return nil
}

// apply sets the fields the event named, interpolated at t from the values
// captured when the task started.
func (t *fogPropTask) apply(l *Lighting, p float64) {
	if t.color != nil {
		l.FogColor = lerpVec3(t.origColor, *t.color, p)
	}
	if t.start != nil {
		l.FogRange[0] = lerp(t.origStart, *t.start, p)
	}
	if t.end != nil {
		l.FogRange[1] = lerp(t.origEnd, *t.end, p)
	}
	if t.density != nil {
		l.FogDensity = lerp(t.origDensity, *t.density, p)
	}
}

func (c *Cutscene) startPathAnimation(ev *Event) error {
	e, err := c.target(ev, 0)
	if err != nil {
		return err
	}
	pathEnt, err := c.target(ev, 1)
	if err != nil {
		return err
	}
	if pathEnt.Role != RolePath {
		return wrongRole(ev, pathEnt, RolePath)
	}
	start, err := ev.Props.Number("start_percent")
	if err != nil {
		return malformed(ev, "%v", err)
	}
	stop, err := ev.Props.Number("stop_percent")
	if err != nil {
		return malformed(ev, "%v", err)
	}
	flags, err := ev.Props.Flags("flags", AttachPosition)
	if err != nil {
		return malformed(ev, "%v", err)
	}
	motion := pathMotion{
		taskClock:    taskClock{duration: ev.Duration},
		curve:        ev.Curve,
		path:         pathEnt.ID,
		startPercent: start,
		stopPercent:  stop,
		flags:        flags,
	}
	zero := zeroDuration(ev.Duration)
	if zero {
		motion.finish()
	}

	var t Task
	switch e.Role {
	case RoleObject:
		t = &objectPathTask{pathMotion: motion, object: e.ID}
	case RoleCamera:
		t = &cameraPathTask{pathMotion: motion, camera: e.ID}
	default:
		return wrongRole(ev, e, RoleObject)
	}
	if zero {
		c.runTask(t, 0)
		return nil
	}
	c.scheduler.Add(t)
	return nil
}

// pathSample is the pose a path animation produces for one tick.
type pathSample struct {
	position    mgl64.Vec3
	orientation mgl64.Mat4
	setPosition bool
	setOrient   bool
}

func (c *Cutscene) samplePath(m *pathMotion, t float64) (pathSample, bool) {
	path, ok := c.registry.Path(m.path)
	if !ok {
		return pathSample{}, false
	}
	base, ok := c.registry.Lookup(m.path)
	if !ok {
		return pathSample{}, false
	}
	pct := lerp(m.startPercent, m.stopPercent, t)
	pos := path.Position(pct).Add(base.Translate)

	var s pathSample
	switch {
	case m.flags.Has(AttachLookAt):
		s.orientation = LookRotation(path.Direction(pct), WorldUp).Mat4()
		s.setOrient = true
		if m.flags.Has(AttachPosition) {
			s.position = pos
			s.setPosition = true
		}
	case m.flags.Has(AttachOrientation):
		// no orientation-only path mode
	case m.flags.Has(AttachPosition):
		s.position = pos
		s.setPosition = true
	}
	return s, true
}

func (c *Cutscene) stepObjectPath(t *objectPathTask, delta float64) bool {
	done := t.advance(delta)
	s, ok := c.samplePath(&t.pathMotion, t.progress(t.curve, done))
	if !ok {
		return !done
	}
	node, ok := c.registry.Object(t.object)
	if !ok {
		return !done
	}
	switch {
	case s.setPosition && s.setOrient:
		node.Local = compose(s.position, s.orientation)
	case s.setOrient:
		node.Local = compose(translationOf(node.Local), s.orientation)
	case s.setPosition:
		node.Local = compose(s.position, node.Local)
	}
	return !done
}

func (c *Cutscene) stepCameraPath(t *cameraPathTask, delta float64) bool {
	done := t.advance(delta)
	s, ok := c.samplePath(&t.pathMotion, t.progress(t.curve, done))
	if !ok {
		return !done
	}
	cam, ok := c.registry.Camera(t.camera)
	if !ok {
		return !done
	}
	if s.setPosition {
		cam.Position = s.position
	}
	if s.setOrient {
		cam.Orientation = s.orientation
	}
	return !done
}

func (c *Cutscene) stepFog(t *fogPropTask, delta float64) bool {
	done := t.advance(delta)
	t.apply(c.lighting, t.progress(t.curve, done))
	return !done
}
