package thn

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldUp is the up vector used for look rotations.
var WorldUp = mgl64.Vec3{0, 1, 0}

// LookRotation returns the rotation that maps +Z onto direction with +Y as
// close to up as possible. up is orthonormalized against the normalized
// direction and right = up x forward. The quaternion is derived assuming a
// positive W; antiparallel or degenerate inputs are not defended against.
func LookRotation(direction, up mgl64.Vec3) mgl64.Quat {
	forward := direction.Normalize()
	up = up.Sub(forward.Mul(up.Dot(forward))).Normalize()
	right := up.Cross(forward)

	w := math.Sqrt(1+right.X()+up.Y()+forward.Z()) * 0.5
	w4recip := 1 / (4 * w)
	return mgl64.Quat{
		W: w,
		V: mgl64.Vec3{
			(up.Z() - forward.Y()) * w4recip,
			(forward.X() - right.Z()) * w4recip,
			(right.Y() - up.X()) * w4recip,
		},
	}
}

// rotationOf strips translation and scale from m, leaving a pure rotation.
func rotationOf(m mgl64.Mat4) mgl64.Mat4 {
	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	z := m.Col(2).Vec3()
	if l := x.Len(); l > 0 {
		x = x.Mul(1 / l)
	}
	if l := y.Len(); l > 0 {
		y = y.Mul(1 / l)
	}
	if l := z.Len(); l > 0 {
		z = z.Mul(1 / l)
	}
	return mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
}

func translationOf(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// compose builds a transform that rotates by rot and then translates to pos.
func compose(pos mgl64.Vec3, rot mgl64.Mat4) mgl64.Mat4 {
	return mgl64.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(rotationOf(rot))
}
