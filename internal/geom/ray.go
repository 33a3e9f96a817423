package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// NewRay normalizes dir; a zero direction yields a degenerate ray that hits
// nothing.
func NewRay(origin, dir mgl32.Vec3) Ray {
	if l := dir.Len(); l > 1e-12 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: origin, Dir: dir}
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectAABB runs the slab test and returns the entry distance. A ray
// starting inside the box reports t = 0.
func (r Ray) IntersectAABB(box AABB) (float32, bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for i := 0; i < 3; i++ {
		if r.Dir[i] != 0 {
			t1 := (box.Min[i] - r.Origin[i]) / r.Dir[i]
			t2 := (box.Max[i] - r.Origin[i]) / r.Dir[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
			return 0, false
		}
	}

	if tmin > tmax || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// IntersectSphere returns the nearest non-negative hit distance.
func (r Ray) IntersectSphere(s Sphere) (float32, bool) {
	oc := r.Origin.Sub(s.Center)
	b := 2 * oc.Dot(r.Dir)
	c := oc.LenSqr() - s.Radius*s.Radius

	disc := b*b - 4*c
	if disc < 0 {
		return 0, false
	}
	root := math32.Sqrt(disc)
	t := (-b - root) / 2
	if t < 0 {
		t = (-b + root) / 2
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectTriangle is the Möller–Trumbore test. Back faces count as hits.
func (r Ray) IntersectTriangle(tri Triangle) (float32, bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)

	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < 1e-9 {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(tri.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
