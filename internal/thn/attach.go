package thn

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/core/ecs"
)

func (c *Cutscene) attachEntity(ev *Event) error {
	a, err := c.target(ev, 0)
	if err != nil {
		return err
	}
	b, err := c.target(ev, 1)
	if err != nil {
		return err
	}
	if a.ID == b.ID {
		return malformed(ev, "%q attached to itself", a.Name)
	}
	targetType, err := ev.Props.TargetType("target_type")
	if err != nil {
		return malformed(ev, "%v", err)
	}
	flags, err := ev.Props.Flags("flags", AttachPosition|AttachOrientation)
	if err != nil {
		return malformed(ev, "%v", err)
	}
	offset, _, err := ev.Props.OptVec3("offset")
	if err != nil {
		return malformed(ev, "%v", err)
	}

	parent, ok := c.registry.Object(b.ID)
	if !ok {
		// object to camera and the other pairings carry no behavior
		return nil
	}
	attachment, err := c.resolveAttachment(ev, b, parent, targetType)
	if err != nil {
		return err
	}

	switch a.Role {
	case RoleObject:
		child, _ := c.registry.Object(a.ID)
		if c.wouldCycle(a.ID, b.ID) {
			return malformed(ev, "attaching %q to %q forms a cycle", a.Name, b.Name)
		}
		child.Parent = b.ID
		child.Attachment = attachment
		child.Local = mgl64.Translate3D(offset.X(), offset.Y(), offset.Z())
	case RoleCamera:
		cam, _ := c.registry.Camera(a.ID)
		lookAt := flags.Has(AttachLookAt)
		if lookAt {
			cam.LookAt = b.ID
		}
		t := &attachCameraTask{
			taskClock:   taskClock{duration: ev.Duration},
			camera:      a.ID,
			object:      b.ID,
			part:        attachment,
			position:    flags.Has(AttachPosition),
			orientation: flags.Has(AttachOrientation),
			lookAt:      lookAt,
		}
		if zeroDuration(ev.Duration) {
			c.copyToCamera(t)
			return nil
		}
		c.scheduler.Add(t)
	}
	return nil
}

// resolveAttachment finds the hardpoint or part of b named by target_part.
// Root attachments return nil.
func (c *Cutscene) resolveAttachment(ev *Event, b *Entity, node *ObjectNode, tt TargetType) (*Hardpoint, error) {
	if tt == TargetRoot {
		return nil, nil
	}
	name, err := ev.Props.String("target_part")
	if err != nil {
		return nil, malformed(ev, "%v", err)
	}
	var hp Hardpoint
	var ok bool
	if tt == TargetHardpoint {
		hp, ok = node.Template.Hardpoint(name)
	} else {
		hp, ok = node.Template.Part(name)
	}
	if !ok {
		return nil, malformed(ev, "%q has no %s %q", b.Name, targetTypeName(tt), name)
	}
	return &hp, nil
}

func targetTypeName(tt TargetType) string {
	if tt == TargetPart {
		return "part"
	}
	return "hardpoint"
}

// wouldCycle reports whether parenting child under parent makes child its
// own ancestor.
func (c *Cutscene) wouldCycle(child, parent ecs.EntityID) bool {
	for id, depth := parent, 0; !id.IsZero() && depth < maxGraphDepth; depth++ {
		if id == child {
			return true
		}
		node, ok := c.registry.Object(id)
		if !ok {
			return false
		}
		id = node.Parent
	}
	return false
}

func (c *Cutscene) stepAttachCamera(t *attachCameraTask, delta float64) bool {
	done := t.advance(delta)
	c.copyToCamera(t)
	if done && t.lookAt {
		if cam, ok := c.registry.Camera(t.camera); ok {
			cam.LookAt = 0
		}
	}
	return !done
}

// copyToCamera copies the object's (or its attachment point's) world
// position and orientation into the camera, per the task flags.
func (c *Cutscene) copyToCamera(t *attachCameraTask) {
	cam, ok := c.registry.Camera(t.camera)
	if !ok {
		return
	}
	if _, ok := c.registry.Lookup(t.object); !ok {
		return
	}
	world := c.worldOf(t.object)
	if t.part != nil {
		world = world.Mul4(t.part.Transform)
	}
	if t.position {
		cam.Position = translationOf(world)
	}
	if t.orientation {
		cam.Orientation = rotationOf(world)
	}
}
