package thn

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// CurveKind selects the easing shape of a Curve.
type CurveKind int

const (
	CurveLinear CurveKind = iota
	CurveEaseIn
	CurveEaseOut
	CurveEaseInOut
	CurveStep
	CurveFreeForm
)

var curveKindNames = map[string]CurveKind{
	"linear":      CurveLinear,
	"ease_in":     CurveEaseIn,
	"ease_out":    CurveEaseOut,
	"ease_in_out": CurveEaseInOut,
	"smooth":      CurveEaseInOut,
	"step":        CurveStep,
	"freeform":    CurveFreeForm,
}

// ParseCurveKind maps a curve name to its kind.
func ParseCurveKind(name string) (CurveKind, bool) {
	k, ok := curveKindNames[name]
	return k, ok
}

// CurvePoint is a Hermite key of a free-form curve: X is normalized time,
// Y the value, In and Out the incoming and outgoing slopes.
type CurvePoint struct {
	X, Y    float64
	In, Out float64
}

// Curve maps time within a task's duration to an eased parameter. It is a
// pure value; Value has no side effects.
type Curve struct {
	Kind   CurveKind
	Points []CurvePoint
	// Period, when positive, repeats the curve every Period seconds.
	Period float64
}

// NewFreeFormCurve builds a free-form curve with points sorted by X.
func NewFreeFormCurve(points ...CurvePoint) *Curve {
	pts := append([]CurvePoint(nil), points...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return &Curve{Kind: CurveFreeForm, Points: pts}
}

// Value evaluates the curve at elapsed seconds of a task lasting duration
// seconds. At or past the duration the curve is evaluated at its end.
func (c *Curve) Value(elapsed, duration float64) float64 {
	x := normalizedTime(elapsed, duration)
	if c == nil {
		return x
	}
	if c.Period > 0 && x < 1 {
		x = math.Mod(elapsed, c.Period) / c.Period
	}
	return c.eval(x)
}

func normalizedTime(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	x := elapsed / duration
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func (c *Curve) eval(x float64) float64 {
	switch c.Kind {
	case CurveEaseIn:
		return x * x * x
	case CurveEaseOut:
		inv := 1 - x
		return 1 - inv*inv*inv
	case CurveEaseInOut:
		if x < 0.5 {
			return 4 * x * x * x
		}
		return 1 - math.Pow(-2*x+2, 3)/2
	case CurveStep:
		if x < 1 {
			return 0
		}
		return 1
	case CurveFreeForm:
		return c.hermite(x)
	}
	return x
}

func (c *Curve) hermite(x float64) float64 {
	pts := c.Points
	switch {
	case len(pts) == 0:
		return x
	case x <= pts[0].X:
		return pts[0].Y
	case x >= pts[len(pts)-1].X:
		return pts[len(pts)-1].Y
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X > x }) - 1
	p0, p1 := pts[i], pts[i+1]
	h := p1.X - p0.X
	if h <= 0 {
		return p1.Y
	}
	s := (x - p0.X) / h
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*p0.Y + h10*h*p0.Out + h01*p1.Y + h11*h*p1.In
}

func lerp(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + (b-a)*t
}

func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t)}
}
