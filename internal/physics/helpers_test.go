package physics

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/collision"
	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
	"github.com/stephenverderame/ProjectOort-sub001/internal/transform"
)

// boxTris builds the 12-triangle surface of a size-sized cube centered on
// the origin, outward normals. The workhorse fixture of these tests.
func boxTris(size float32) []geom.Triangle {
	h := size / 2
	p := func(x, y, z float32) mgl32.Vec3 {
		return mgl32.Vec3{x * h, y * h, z * h}
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

// boxBody builds a rigid body around a shared cube mesh. Bodies created
// with the same name and size share geometry.
func boxBody(name string, size float32, typ BodyType, at mgl32.Vec3) *RigidBody[string] {
	mesh := collision.Build(fmt.Sprintf("phys_%s_%g", name, size), boxTris(size), collision.StopCriterion{})
	return NewBody(transform.NewNodeAt(at), typ, name).WithBuiltMesh(mesh)
}

func near(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

func vecNear(a, b mgl32.Vec3, eps float32) bool {
	return near(a.X(), b.X(), eps) && near(a.Y(), b.Y(), eps) && near(a.Z(), b.Z(), eps)
}
