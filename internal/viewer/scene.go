package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/thnplay/thnplay/internal/thn"
)

// marker is one projected scene graph node.
type marker struct {
	x, y   float32
	kind   thn.ObjectKind
	label  string
	active bool
}

type link struct {
	x1, y1, x2, y2 float32
}

type lamp struct {
	x, y float32
	on   bool
}

// scene is a frame projected into top-down screen space. World X maps to
// screen x and world Z to screen y; Y is dropped.
type scene struct {
	width, height int
	scale         float64

	markers []marker
	links   []link
	lamps   []lamp
	camX    float32
	camY    float32
	camDirX float32
	camDirY float32
	hud     []string
}

func newScene(width, height int, scale float64) *scene {
	if scale <= 0 {
		scale = 1
	}
	return &scene{width: width, height: height, scale: scale}
}

func (s *scene) project(v mgl64.Vec3) (float32, float32) {
	x := float64(s.width)/2 + v.X()/s.scale
	y := float64(s.height)/2 + v.Z()/s.scale
	return float32(x), float32(y)
}

// Draw rebuilds the projection from f. Nothing from f is kept.
func (s *scene) Draw(f *thn.Frame) {
	s.markers = s.markers[:0]
	s.links = s.links[:0]
	s.lamps = s.lamps[:0]

	pos := make(map[string][2]float32, len(f.Objects))
	for _, o := range f.Objects {
		x, y := s.project(o.World.Col(3).Vec3())
		pos[o.Name] = [2]float32{x, y}
		label := o.Name
		if o.Clip != "" {
			label = fmt.Sprintf("%s [%s %.1f]", o.Name, o.Clip, o.ClipTime)
		}
		s.markers = append(s.markers, marker{
			x:      x,
			y:      y,
			kind:   o.Kind,
			label:  label,
			active: o.EffectActive,
		})
	}
	for _, o := range f.Objects {
		if o.Parent == "" {
			continue
		}
		p, ok := pos[o.Parent]
		if !ok {
			continue
		}
		c := pos[o.Name]
		s.links = append(s.links, link{x1: p[0], y1: p[1], x2: c[0], y2: c[1]})
	}
	for _, l := range f.Lights {
		x, y := s.project(l.Position)
		s.lamps = append(s.lamps, lamp{x: x, y: y, on: l.Active})
	}

	s.camX, s.camY = s.project(f.Camera.Position)
	fwd := f.Camera.Orientation.Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3()
	if fwd.Len() > 0 {
		fwd = fwd.Normalize()
	}
	s.camDirX = float32(fwd.X() * 24)
	s.camDirY = float32(fwd.Z() * 24)

	camera := f.Camera.Camera
	if camera == "" {
		camera = "-"
	}
	if f.Camera.LookAt != "" {
		camera += " -> " + f.Camera.LookAt
	}
	s.hud = append(s.hud[:0],
		fmt.Sprintf("%s  t=%.2f", f.Name, f.Clock),
		fmt.Sprintf("camera: %s  fov %.0f", camera, f.Camera.FovH),
		fmt.Sprintf("tasks: %d  objects: %d  lights: %d", f.Tasks, len(f.Objects), len(f.Lights)),
		fmt.Sprintf("fog: %s", f.Fog.Mode),
		nextEventLine(f),
	)
}

func nextEventLine(f *thn.Frame) string {
	if !f.HasNextEvent {
		return "next event: -"
	}
	return fmt.Sprintf("next event: %.2f (in %.2f)", f.NextEvent, f.NextEvent-f.Clock)
}

var _ thn.Renderer = (*scene)(nil)
