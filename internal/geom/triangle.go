package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Triangle is a single triangle with its precomputed unit normal.
type Triangle struct {
	A, B, C mgl32.Vec3
	Normal  mgl32.Vec3
}

// NewTriangle builds a triangle and computes its normal from the winding
// order (counter-clockwise front face).
func NewTriangle(a, b, c mgl32.Vec3) Triangle {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 1e-12 {
		n = n.Mul(1 / l)
	}
	return Triangle{A: a, B: b, C: c, Normal: n}
}

func (t Triangle) Centroid() mgl32.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

func (t Triangle) Bounds() AABB {
	return AABBFromPoints(t.A, t.B, t.C)
}

// TransformedBy maps the triangle through an affine transform. The normal is
// recomputed from the transformed vertices, so non-uniform scale stays exact.
func (t Triangle) TransformedBy(m mgl32.Mat4) Triangle {
	return NewTriangle(
		mgl32.TransformCoordinate(t.A, m),
		mgl32.TransformCoordinate(t.B, m),
		mgl32.TransformCoordinate(t.C, m),
	)
}

// Distances below this are flushed to zero so vertices sitting numerically on
// a plane don't flip the interval test.
const triEps = 1e-6

// TriTriIntersect runs the Möller interval test between two triangles and
// returns the midpoint of their intersection segment. Coplanar triangles and
// single-point touches report no intersection.
func TriTriIntersect(a, b Triangle) (mgl32.Vec3, bool) {
	var zero mgl32.Vec3

	// Signed distances of a's vertices to b's plane.
	d2 := -b.Normal.Dot(b.A)
	da0 := flushEps(b.Normal.Dot(a.A) + d2)
	da1 := flushEps(b.Normal.Dot(a.B) + d2)
	da2 := flushEps(b.Normal.Dot(a.C) + d2)
	if (da0 > 0 && da1 > 0 && da2 > 0) || (da0 < 0 && da1 < 0 && da2 < 0) {
		return zero, false
	}
	if da0 == 0 && da1 == 0 && da2 == 0 {
		return zero, false // coplanar
	}

	// Signed distances of b's vertices to a's plane.
	d1 := -a.Normal.Dot(a.A)
	db0 := flushEps(a.Normal.Dot(b.A) + d1)
	db1 := flushEps(a.Normal.Dot(b.B) + d1)
	db2 := flushEps(a.Normal.Dot(b.C) + d1)
	if (db0 > 0 && db1 > 0 && db2 > 0) || (db0 < 0 && db1 < 0 && db2 < 0) {
		return zero, false
	}

	p1a, p1b, ok := planeCrossing(a, da0, da1, da2)
	if !ok {
		return zero, false
	}
	p2a, p2b, ok := planeCrossing(b, db0, db1, db2)
	if !ok {
		return zero, false
	}

	// Both segments lie on the planes' intersection line; compare them on the
	// line's dominant axis.
	axis := dominantAxis(a.Normal.Cross(b.Normal))
	s1a, s1b := p1a[axis], p1b[axis]
	if s1a > s1b {
		s1a, s1b = s1b, s1a
		p1a, p1b = p1b, p1a
	}
	s2a, s2b := p2a[axis], p2b[axis]
	if s2a > s2b {
		s2a, s2b = s2b, s2a
	}

	lo := math32.Max(s1a, s2a)
	hi := math32.Min(s1b, s2b)
	if lo > hi {
		return zero, false
	}

	if s1b-s1a < triEps {
		return p1a, true
	}
	t := ((lo+hi)/2 - s1a) / (s1b - s1a)
	return p1a.Add(p1b.Sub(p1a).Mul(t)), true
}

// planeCrossing returns the two points where the triangle's edges cross the
// plane its vertex distances d0..d2 were measured against.
func planeCrossing(tri Triangle, d0, d1, d2 float32) (mgl32.Vec3, mgl32.Vec3, bool) {
	v := [3]mgl32.Vec3{tri.A, tri.B, tri.C}
	d := [3]float32{d0, d1, d2}

	var pts [4]mgl32.Vec3
	n := 0
	for i := 0; i < 3 && n < len(pts); i++ {
		j := (i + 1) % 3
		if d[i] == 0 {
			pts[n] = v[i]
			n++
			continue
		}
		if (d[i] > 0) != (d[j] > 0) && d[j] != 0 {
			t := d[i] / (d[i] - d[j])
			pts[n] = v[i].Add(v[j].Sub(v[i]).Mul(t))
			n++
		}
	}
	if n < 2 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return pts[0], pts[1], true
}

func dominantAxis(v mgl32.Vec3) int {
	ax, ay, az := math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

func flushEps(d float32) float32 {
	if math32.Abs(d) < triEps {
		return 0
	}
	return d
}
