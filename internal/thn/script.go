package thn

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// EntityType is the entity "type" field of a Thn script.
type EntityType string

const (
	EntityCompound   EntityType = "COMPOUND"
	EntityPSys       EntityType = "PSYS"
	EntityScene      EntityType = "SCENE"
	EntityLight      EntityType = "LIGHT"
	EntityCamera     EntityType = "CAMERA"
	EntityMarker     EntityType = "MARKER"
	EntityMotionPath EntityType = "MOTION_PATH"
)

// Script is a resolved timeline: the entity definitions and events of one
// cutscene, as produced by a loader.
type Script struct {
	Name     string
	Checksum string
	Duration float64
	Entities []EntityDef
	Events   []Event
}

// EntityDef is one resolved entity definition. Optional fields are nil when
// the script leaves them out.
type EntityDef struct {
	Name         string
	Type         EntityType
	Template     string
	MeshCategory string
	UserFlag     int
	SortGroup    int
	LightGroup   int

	Position *mgl64.Vec3
	Rotation *mgl64.Mat4

	// Ambient is the scene ambient color in 0-255 components.
	Ambient *mgl64.Vec3
	Light   *LightProps
	Camera  *CameraProps
	Path    *PathProps
}

// Starsphere reports whether the entity is a background layer.
func (d *EntityDef) Starsphere() bool {
	return d.Type == EntityCompound && d.UserFlag == 1
}

type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
)

type LightProps struct {
	On          bool
	Kind        LightKind
	Color       mgl64.Vec3
	Direction   mgl64.Vec3
	Range       float64
	Attenuation mgl64.Vec3
}

type CameraProps struct {
	FovH     *float64
	HVAspect *float64
}

type PathProps struct {
	Kind   PathKind
	Points []mgl64.Vec3
	Closed bool
}

// EventKind is the closed set of event kinds the engine acts on.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventSetCamera
	EventAttachEntity
	EventStartPSys
	EventStartMotion
	EventStartFogPropAnim
	EventStartPathAnimation
)

var eventKindNames = map[string]EventKind{
	"SET_CAMERA":           EventSetCamera,
	"ATTACH_ENTITY":        EventAttachEntity,
	"START_PSYS":           EventStartPSys,
	"START_MOTION":         EventStartMotion,
	"START_FOG_PROP_ANIM":  EventStartFogPropAnim,
	"START_PATH_ANIMATION": EventStartPathAnimation,
}

// ParseEventKind maps a script event type name to its kind. Names the
// engine does not know map to EventUnknown.
func ParseEventKind(name string) EventKind {
	return eventKindNames[strings.ToUpper(strings.TrimSpace(name))]
}

func (k EventKind) String() string {
	for name, kind := range eventKindNames {
		if kind == k {
			return name
		}
	}
	return "UNKNOWN"
}

// EventKindNames lists the event type names the engine understands.
func EventKindNames() []string {
	names := make([]string, 0, len(eventKindNames))
	for name := range eventKindNames {
		names = append(names, name)
	}
	return names
}

// Event is one scheduled timeline event. Events are immutable once queued.
type Event struct {
	Time     float64
	Kind     EventKind
	Type     string
	Targets  []string
	Props    Props
	Duration float64
	Curve    *Curve
}

// Target returns the i-th target name or an ErrMalformedEvent.
func (e *Event) Target(i int) (string, error) {
	if i >= len(e.Targets) || e.Targets[i] == "" {
		return "", malformed(e, "missing target %d", i)
	}
	return e.Targets[i], nil
}

// AttachFlags is the flags property of attach and path events.
type AttachFlags uint32

const (
	AttachPosition            AttachFlags = 1
	AttachOrientation         AttachFlags = 2
	AttachLookAt              AttachFlags = 4
	AttachEntityRelative      AttachFlags = 8
	AttachOrientationRelative AttachFlags = 16
	AttachParentChild         AttachFlags = 32
)

func (f AttachFlags) Has(flag AttachFlags) bool { return f&flag == flag }

// TargetType selects what part of the target an attachment binds to.
type TargetType int

const (
	TargetRoot TargetType = iota
	TargetHardpoint
	TargetPart
)

var targetTypeNames = map[string]TargetType{
	"ROOT":      TargetRoot,
	"HARDPOINT": TargetHardpoint,
	"PART":      TargetPart,
}

type FogMode int

const (
	FogNone FogMode = iota
	FogExp
	FogExp2
	FogLinear
)

func (m FogMode) String() string {
	switch m {
	case FogNone:
		return "none"
	case FogExp:
		return "exp"
	case FogExp2:
		return "exp2"
	case FogLinear:
		return "linear"
	}
	return "unknown"
}
