package collision

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
	"github.com/stephenverderame/ProjectOort-sub001/internal/transform"
)

// cubeTris builds the 12-triangle surface of an axis-aligned cube with
// outward-facing normals.
func cubeTris(center mgl32.Vec3, size float32) []geom.Triangle {
	h := size / 2
	p := func(x, y, z float32) mgl32.Vec3 {
		return mgl32.Vec3{center.X() + x*h, center.Y() + y*h, center.Z() + z*h}
	}
	quad := func(a, b, c, d mgl32.Vec3) []geom.Triangle {
		return []geom.Triangle{geom.NewTriangle(a, b, c), geom.NewTriangle(a, c, d)}
	}

	var tris []geom.Triangle
	tris = append(tris, quad(p(1, -1, -1), p(1, 1, -1), p(1, 1, 1), p(1, -1, 1))...)
	tris = append(tris, quad(p(-1, -1, 1), p(-1, 1, 1), p(-1, 1, -1), p(-1, -1, -1))...)
	tris = append(tris, quad(p(-1, 1, -1), p(-1, 1, 1), p(1, 1, 1), p(1, 1, -1))...)
	tris = append(tris, quad(p(-1, -1, 1), p(-1, -1, -1), p(1, -1, -1), p(1, -1, 1))...)
	tris = append(tris, quad(p(-1, -1, 1), p(1, -1, 1), p(1, 1, 1), p(-1, 1, 1))...)
	tris = append(tris, quad(p(1, -1, -1), p(-1, -1, -1), p(-1, 1, -1), p(1, 1, -1))...)
	return tris
}

// plateTris builds an n x n quad grid in the XZ plane at y=0, centered on
// the origin, useful for forcing deeper BVH splits.
func plateTris(n int, size float32) []geom.Triangle {
	step := size / float32(n)
	half := size / 2
	var tris []geom.Triangle
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0 := -half + float32(i)*step
			z0 := -half + float32(j)*step
			x1 := x0 + step
			z1 := z0 + step
			a := mgl32.Vec3{x0, 0, z0}
			b := mgl32.Vec3{x1, 0, z0}
			c := mgl32.Vec3{x1, 0, z1}
			d := mgl32.Vec3{x0, 0, z1}
			// Wound so the face normals point up.
			tris = append(tris, geom.NewTriangle(a, c, b), geom.NewTriangle(a, d, c))
		}
	}
	return tris
}

// cubeObject places a shared size-sized cube mesh at a world position. The
// mesh is registered once per (name, size) and shared between calls.
func cubeObject(name string, size float32, at mgl32.Vec3) *Object {
	mesh := Build(fmt.Sprintf("%s_%g", name, size), cubeTris(mgl32.Vec3{}, size), StopCriterion{})
	return NewObject(transform.NewNodeAt(at), mesh)
}
