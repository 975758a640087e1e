package thn

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/core/ecs"
	"github.com/thnplay/thnplay/internal/core/event"
	coresys "github.com/thnplay/thnplay/internal/core/system"
	"go.uber.org/zap"
)

// Layer is a starsphere background layer, drawn behind the scene in
// ascending sort group order.
type Layer struct {
	Name      string
	SortGroup int
	Template  *ModelTemplate
	Transform mgl64.Mat4
}

// Diagnostic records a timeline event that failed and was skipped.
type Diagnostic struct {
	Time    float64
	Clock   float64
	Type    string
	Targets []string
	Err     error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%.3fs %s %v: %v", d.Time, d.Type, d.Targets, d.Err)
}

// Cutscene plays one Thn script. It is driven by Update from a single
// goroutine; the renderer reads its state through Draw.
type Cutscene struct {
	name     string
	checksum string
	duration float64
	log      *zap.Logger

	registry   *Registry
	rig        *CameraRig
	lighting   *Lighting
	layers     []Layer
	scheduler  *Scheduler
	dispatcher *Dispatcher
	runner     *coresys.Runner
	bus        *event.Bus

	clock       float64
	delta       float64
	diagnostics []Diagnostic
}

// New builds a cutscene from a resolved script. Construction errors
// (ErrDuplicateScene, ErrMissingTemplate, ErrUnsupportedEntityKind,
// ErrDuplicateEntity) are fatal.
func New(script *Script, templates TemplateSource, log *zap.Logger) (*Cutscene, error) {
	if script == nil {
		return nil, fmt.Errorf("thn: nil script")
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cutscene{
		name:       script.Name,
		checksum:   script.Checksum,
		duration:   script.Duration,
		log:        log.With(zap.String("cutscene", script.Name)),
		registry:   newRegistry(),
		rig:        newCameraRig(),
		lighting:   newLighting(),
		scheduler:  newScheduler(),
		dispatcher: NewDispatcher(script.Events),
		runner:     coresys.NewRunner(),
		bus:        event.NewBus(),
	}

	b := builder{c: c, templates: templates}
	for i := range script.Entities {
		def := &script.Entities[i]
		if err := b.build(def); err != nil {
			return nil, fmt.Errorf("entity %q: %w", def.Name, err)
		}
	}
	sort.SliceStable(c.layers, func(i, j int) bool {
		return c.layers[i].SortGroup < c.layers[j].SortGroup
	})

	c.runner.Register(&NotifySystem{bus: c.bus})
	c.runner.Register(&ClockSystem{c: c})
	c.runner.Register(&TaskSystem{c: c})
	c.runner.Register(&EventSystem{c: c})
	c.runner.Register(&CameraSystem{c: c})
	c.runner.Register(&GraphSystem{c: c})

	c.propagate(0)
	c.log.Debug("cutscene built",
		zap.Int("entities", c.registry.Len()),
		zap.Int("events", c.dispatcher.Pending()),
		zap.Int("layers", len(c.layers)),
	)
	return c, nil
}

type builder struct {
	c         *Cutscene
	templates TemplateSource
	scene     bool
}

func (b *builder) build(def *EntityDef) error {
	c := b.c
	e := &Entity{Name: def.Name, Type: def.Type, Rotate: mgl64.Ident4()}
	if def.Position != nil {
		e.Translate = *def.Position
	}
	if def.Rotation != nil {
		e.Rotate = *def.Rotation
	}

	switch def.Type {
	case EntityCompound:
		tmpl, err := b.model(def)
		if err != nil {
			return err
		}
		if def.Starsphere() {
			e.Role = RoleBackground
			if err := c.registry.add(e); err != nil {
				return err
			}
			c.layers = append(c.layers, Layer{
				Name:      e.Name,
				SortGroup: def.SortGroup,
				Template:  tmpl,
				Transform: compose(e.Translate, e.Rotate),
			})
			return nil
		}
		return b.object(e, &ObjectNode{
			Kind:       ObjectModel,
			Template:   tmpl,
			LightGroup: def.LightGroup,
			Animator:   newAnimator(tmpl),
		})

	case EntityPSys:
		var fx *EffectTemplate
		ok := false
		if b.templates != nil {
			fx, ok = b.templates.Effect(def.Template)
		}
		if !ok {
			return fmt.Errorf("%w: effect %q", ErrMissingTemplate, def.Template)
		}
		return b.object(e, &ObjectNode{
			Kind:       ObjectEffect,
			LightGroup: def.LightGroup,
			Effect:     &ParticleEffect{Template: fx},
		})

	case EntityMarker:
		return b.object(e, &ObjectNode{Kind: ObjectMarker})

	case EntityScene:
		if b.scene {
			return ErrDuplicateScene
		}
		b.scene = true
		e.Role = RoleScene
		if def.Ambient != nil {
			c.lighting.Ambient = colorFrom255(*def.Ambient)
		}
		return c.registry.add(e)

	case EntityLight:
		if def.Light == nil {
			return fmt.Errorf("%w: light without light props", ErrUnsupportedEntityKind)
		}
		e.Role = RoleLight
		if err := c.registry.add(e); err != nil {
			return err
		}
		lp := def.Light
		dir := e.Rotate.Mul4x1(lp.Direction.Vec4(0)).Vec3()
		if dir.Len() > epsilon {
			dir = dir.Normalize()
		}
		l := &DynamicLight{
			Name:        e.Name,
			Kind:        lp.Kind,
			Active:      lp.On,
			Color:       lp.Color,
			Position:    e.Translate,
			Direction:   dir,
			Range:       lp.Range,
			Attenuation: lp.Attenuation,
			LightGroup:  def.LightGroup,
		}
		c.registry.lights.Set(e.ID, l)
		c.lighting.Lights = append(c.lighting.Lights, l)
		return nil

	case EntityCamera:
		e.Role = RoleCamera
		if err := c.registry.add(e); err != nil {
			return err
		}
		cam := newCameraTransform()
		cam.Position = e.Translate
		cam.Orientation = rotationOf(e.Rotate)
		if def.Camera != nil {
			if def.Camera.FovH != nil {
				cam.FovH = *def.Camera.FovH
			}
			if def.Camera.HVAspect != nil {
				cam.AspectRatio = *def.Camera.HVAspect
			}
		}
		c.registry.cameras.Set(e.ID, cam)
		return nil

	case EntityMotionPath:
		if def.Path == nil {
			return fmt.Errorf("%w: motion path without points", ErrUnsupportedEntityKind)
		}
		path, err := NewPath(def.Path.Kind, def.Path.Points, def.Path.Closed)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedEntityKind, err)
		}
		e.Role = RolePath
		if err := c.registry.add(e); err != nil {
			return err
		}
		c.registry.paths.Set(e.ID, path)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedEntityKind, def.Type)
}

func (b *builder) model(def *EntityDef) (*ModelTemplate, error) {
	category := strings.ToLower(def.MeshCategory)
	switch category {
	case CategorySolar, CategorySpaceship, CategoryProp:
	default:
		return nil, fmt.Errorf("%w: mesh category %q", ErrUnsupportedEntityKind, def.MeshCategory)
	}
	var tmpl *ModelTemplate
	ok := false
	if b.templates != nil {
		tmpl, ok = b.templates.Model(category, def.Template)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrMissingTemplate, category, def.Template)
	}
	return tmpl, nil
}

func (b *builder) object(e *Entity, n *ObjectNode) error {
	e.Role = RoleObject
	if err := b.c.registry.add(e); err != nil {
		return err
	}
	n.Local = compose(e.Translate, e.Rotate)
	n.World = n.Local
	b.c.registry.setObject(e.ID, n)
	return nil
}

// Update advances playback by delta: clock, tasks, events, camera and
// graph, in that order. Negative deltas are treated as zero.
func (c *Cutscene) Update(delta time.Duration) {
	if delta < 0 {
		delta = 0
	}
	c.runner.Tick(delta)
}

// Draw hands a snapshot of the current state to the renderer.
func (c *Cutscene) Draw(r Renderer) {
	if r == nil {
		return
	}
	r.Draw(c.Frame())
}

// runTask steps one task by delta seconds and reports whether it continues.
func (c *Cutscene) runTask(t Task, delta float64) bool {
	switch t := t.(type) {
	case *attachCameraTask:
		return c.stepAttachCamera(t, delta)
	case *fogPropTask:
		return c.stepFog(t, delta)
	case *objectPathTask:
		return c.stepObjectPath(t, delta)
	case *cameraPathTask:
		return c.stepCameraPath(t, delta)
	}
	return false
}

func (c *Cutscene) applyEvent(ev *Event) error {
	if err := c.apply(ev); err != nil {
		return err
	}
	event.Emit(c.bus, event.EventApplied{Time: ev.Time, Type: ev.Type, Targets: ev.Targets})
	return nil
}

func (c *Cutscene) skipEvent(ev *Event, err error) {
	c.log.Warn("event skipped",
		zap.String("type", ev.Type),
		zap.Float64("time", ev.Time),
		zap.Strings("targets", ev.Targets),
		zap.Error(err),
	)
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Time:    ev.Time,
		Clock:   c.clock,
		Type:    ev.Type,
		Targets: ev.Targets,
		Err:     err,
	})
	event.Emit(c.bus, event.EventSkipped{Time: ev.Time, Type: ev.Type, Targets: ev.Targets, Err: err})
}

func (c *Cutscene) Name() string          { return c.name }
func (c *Cutscene) Checksum() string      { return c.checksum }
func (c *Cutscene) Duration() float64     { return c.duration }
func (c *Cutscene) Clock() float64        { return c.clock }
func (c *Cutscene) Registry() *Registry   { return c.registry }
func (c *Cutscene) Rig() *CameraRig       { return c.rig }
func (c *Cutscene) Lighting() *Lighting   { return c.lighting }
func (c *Cutscene) Bus() *event.Bus       { return c.bus }
func (c *Cutscene) ActiveTasks() int      { return c.scheduler.Len() }
func (c *Cutscene) PendingEvents() int    { return c.dispatcher.Pending() }
func (c *Cutscene) DispatchedEvents() int { return c.dispatcher.Dispatched() }

// Layers returns the background layers in draw order.
func (c *Cutscene) Layers() []Layer {
	return append([]Layer(nil), c.layers...)
}

// Diagnostics returns the events skipped so far.
func (c *Cutscene) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), c.diagnostics...)
}

// NextEvent returns the time of the next event still to be dispatched.
func (c *Cutscene) NextEvent() (float64, bool) { return c.dispatcher.Next() }

// Done reports whether the script duration has elapsed and no events or
// tasks remain.
func (c *Cutscene) Done() bool {
	return c.clock >= c.duration && c.dispatcher.Pending() == 0 && c.scheduler.Len() == 0
}

// Close delivers outstanding notifications and invalidates every entity
// handle. The cutscene must not be updated afterwards.
func (c *Cutscene) Close() {
	c.log.Debug("cutscene closed",
		zap.Float64("clock", c.clock),
		zap.Int("notifications", c.bus.Pending()),
	)
	c.bus.Flush()
	c.registry.release()
}

// Lookup returns the entity handle for name, or the zero handle.
func (c *Cutscene) Lookup(name string) ecs.EntityID {
	e, err := c.registry.Get(name)
	if err != nil {
		return 0
	}
	return e.ID
}
