package thn

import (
	"errors"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// PathKind selects how a motion path interpolates its points.
type PathKind int

const (
	PathLinear PathKind = iota
	PathCatmullRom
)

// ParsePathKind maps a path type name to its kind; unknown names are linear.
func ParsePathKind(name string) PathKind {
	switch strings.ToLower(name) {
	case "catmull", "catmullrom", "catmull_rom", "spline", "cv_crspline", "cv_crorientationspline":
		return PathCatmullRom
	}
	return PathLinear
}

var defaultForward = mgl64.Vec3{0, 0, 1}

// Path is an immutable motion path sampled by percent along its length.
// Linear paths are parameterized by arc length, Catmull-Rom paths uniformly
// per segment.
type Path struct {
	kind   PathKind
	points []mgl64.Vec3
	closed bool
	cum    []float64
	length float64
}

func NewPath(kind PathKind, points []mgl64.Vec3, closed bool) (*Path, error) {
	if len(points) == 0 {
		return nil, errors.New("path has no points")
	}
	p := &Path{
		kind:   kind,
		points: append([]mgl64.Vec3(nil), points...),
		closed: closed && len(points) > 2,
	}
	n := p.segments()
	p.cum = make([]float64, n+1)
	for i := 0; i < n; i++ {
		a, b := p.segment(i)
		p.cum[i+1] = p.cum[i] + b.Sub(a).Len()
	}
	p.length = p.cum[n]
	return p, nil
}

func (p *Path) Length() float64 { return p.length }

func (p *Path) segments() int {
	if p.closed {
		return len(p.points)
	}
	return len(p.points) - 1
}

func (p *Path) point(i int) mgl64.Vec3 {
	n := len(p.points)
	if p.closed {
		return p.points[((i%n)+n)%n]
	}
	if i < 0 {
		return p.points[0]
	}
	if i >= n {
		return p.points[n-1]
	}
	return p.points[i]
}

func (p *Path) segment(i int) (mgl64.Vec3, mgl64.Vec3) {
	return p.point(i), p.point(i + 1)
}

// locate maps pct to a segment index and the local parameter within it.
func (p *Path) locate(pct float64) (int, float64) {
	n := p.segments()
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if p.kind == PathLinear && p.length > 0 {
		d := pct * p.length
		for i := 0; i < n; i++ {
			if d <= p.cum[i+1] || i == n-1 {
				seg := p.cum[i+1] - p.cum[i]
				if seg <= 0 {
					return i, 1
				}
				return i, (d - p.cum[i]) / seg
			}
		}
	}
	f := pct * float64(n)
	i := int(f)
	if i >= n {
		return n - 1, 1
	}
	return i, f - float64(i)
}

// Position returns the point at pct (0..1) along the path.
func (p *Path) Position(pct float64) mgl64.Vec3 {
	if p.segments() < 1 {
		return p.points[0]
	}
	i, t := p.locate(pct)
	if p.kind == PathCatmullRom {
		p0, p1, p2, p3 := p.point(i-1), p.point(i), p.point(i+1), p.point(i+2)
		return catmullRom(p0, p1, p2, p3, t)
	}
	a, b := p.segment(i)
	return a.Add(b.Sub(a).Mul(t))
}

// Direction returns the normalized tangent at pct. Degenerate tangents fall
// back to +Z.
func (p *Path) Direction(pct float64) mgl64.Vec3 {
	if p.segments() < 1 {
		return defaultForward
	}
	i, t := p.locate(pct)
	var d mgl64.Vec3
	if p.kind == PathCatmullRom {
		p0, p1, p2, p3 := p.point(i-1), p.point(i), p.point(i+1), p.point(i+2)
		d = catmullRomTangent(p0, p1, p2, p3, t)
	} else {
		a, b := p.segment(i)
		d = b.Sub(a)
	}
	if d.Len() < 1e-9 {
		return defaultForward
	}
	return d.Normalize()
}

func catmullRom(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	t3 := t2 * t
	out := p1.Mul(2)
	out = out.Add(p2.Sub(p0).Mul(t))
	out = out.Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(t2))
	out = out.Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(t3))
	return out.Mul(0.5)
}

func catmullRomTangent(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	out := p2.Sub(p0)
	out = out.Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(2 * t))
	out = out.Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(3 * t2))
	return out.Mul(0.5)
}
