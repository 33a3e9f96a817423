package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// QuatFromRotVec converts an axis-angle rotation vector (axis scaled by the
// angle in radians) into a unit quaternion. Below one radian of half-angle the
// linearized form (1, v/2) is accurate to well under a percent and avoids the
// trig calls; past that the exact construction takes over.
func QuatFromRotVec(v mgl32.Vec3) mgl32.Quat {
	half := v.Mul(0.5)
	if half.LenSqr() <= 1 {
		return mgl32.Quat{W: 1, V: half}.Normalize()
	}

	angle := v.Len()
	axis := v.Mul(1 / angle)
	s := math32.Sin(angle / 2)
	q := mgl32.Quat{W: math32.Cos(angle / 2), V: axis.Mul(s)}
	return q.Normalize()
}

// QuatFacing builds the orientation that turns local -Z onto dir with the
// given up hint. It reports false when dir is zero length or parallel to up,
// where no facing is defined.
func QuatFacing(dir, up mgl32.Vec3) (mgl32.Quat, bool) {
	if dir.LenSqr() < 1e-12 {
		return mgl32.QuatIdent(), false
	}
	f := dir.Normalize()

	s := f.Cross(up)
	if s.LenSqr() < 1e-12 {
		return mgl32.QuatIdent(), false
	}
	s = s.Normalize()
	u := s.Cross(f)

	m := mgl32.Mat3FromCols(s, u, f.Mul(-1))
	return mgl32.Mat4ToQuat(m.Mat4()).Normalize(), true
}
