// Package geom holds the small float32 geometry vocabulary shared by the
// collision and physics packages: axis-aligned boxes, spheres, triangles,
// rays, and quaternion helpers. Everything is built on mgl32 vectors.
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABBFromCenter builds an AABB from a center point and full size.
func NewAABBFromCenter(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// AABBFromPoints returns the tightest box around the given points.
func AABBFromPoints(pts ...mgl32.Vec3) AABB {
	box := AABB{
		Min: mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for _, p := range pts {
		box = box.ExtendPoint(p)
	}
	return box
}

// AABBFromTriangles returns the tightest box around a triangle soup.
func AABBFromTriangles(tris ...Triangle) AABB {
	box := AABB{
		Min: mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: mgl32.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for _, t := range tris {
		box = box.ExtendPoint(t.A).ExtendPoint(t.B).ExtendPoint(t.C)
	}
	return box
}

// ExtendPoint grows the box to include p.
func (a AABB) ExtendPoint(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] {
			a.Min[i] = p[i]
		}
		if p[i] > a.Max[i] {
			a.Max[i] = p[i]
		}
	}
	return a
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return a.ExtendPoint(b.Min).ExtendPoint(b.Max)
}

func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// Volume returns the enclosed volume. Degenerate boxes report 0.
func (a AABB) Volume() float32 {
	s := a.Size()
	if s.X() < 0 || s.Y() < 0 || s.Z() < 0 {
		return 0
	}
	return s.X() * s.Y() * s.Z()
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

func (a AABB) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= a.Min.X() && p.X() <= a.Max.X() &&
		p.Y() >= a.Min.Y() && p.Y() <= a.Max.Y() &&
		p.Z() >= a.Min.Z() && p.Z() <= a.Max.Z()
}

// TransformedBy re-fits the box under an affine transform. The result is the
// tightest axis-aligned box around the transformed corners, computed with the
// absolute-matrix trick rather than by visiting all eight corners.
func (a AABB) TransformedBy(m mgl32.Mat4) AABB {
	center := a.Center()
	half := a.Size().Mul(0.5)

	wc := mgl32.TransformCoordinate(center, m)
	var wh mgl32.Vec3
	for row := 0; row < 3; row++ {
		wh[row] = math32.Abs(m.At(row, 0))*half.X() +
			math32.Abs(m.At(row, 1))*half.Y() +
			math32.Abs(m.At(row, 2))*half.Z()
	}
	return AABB{Min: wc.Sub(wh), Max: wc.Add(wh)}
}
