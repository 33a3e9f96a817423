package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/collision"
	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// bodyAttrs is the per-geometry record shared by every body instancing the
// same mesh: the mass-independent inertia tensor and the collision method
// tag.
type bodyAttrs struct {
	unitInertia mgl32.Mat3
	inertiaSet  bool
	method      collision.Method
}

// sharedBodies is process-wide and unlocked. Single-thread access is part of
// the package contract, like the collision registry.
var sharedBodies = make(map[uint64]*bodyAttrs)

func attrsFor(id uint64) *bodyAttrs {
	a, ok := sharedBodies[id]
	if !ok {
		a = &bodyAttrs{}
		sharedBodies[id] = a
	}
	return a
}

func setMethod(id uint64, m collision.Method) { attrsFor(id).method = m }
func methodOf(id uint64) collision.Method     { return attrsFor(id).method }

// unitInertia returns the cached unit tensor for the mesh's geometry,
// computing it on first reference.
func unitInertia(mesh *collision.Mesh) mgl32.Mat3 {
	a := attrsFor(mesh.ID())
	if !a.inertiaSet {
		a.unitInertia = computeUnitInertia(mesh.Triangles())
		a.inertiaSet = true
	}
	return a.unitInertia
}

// computeUnitInertia sums the symmetric second moments over every triangle
// vertex, off-diagonal terms negated, normalized by the vertex count so the
// result does not depend on tessellation density.
func computeUnitInertia(tris []geom.Triangle) mgl32.Mat3 {
	var xx, yy, zz, xy, xz, yz float32
	n := 0
	for _, t := range tris {
		for _, v := range [3]mgl32.Vec3{t.A, t.B, t.C} {
			x, y, z := v.X(), v.Y(), v.Z()
			xx += y*y + z*z
			yy += x*x + z*z
			zz += x*x + y*y
			xy -= x * y
			xz -= x * z
			yz -= y * z
			n++
		}
	}
	if n == 0 {
		return mgl32.Mat3{}
	}
	inv := 1 / float32(n)
	return mgl32.Mat3FromCols(
		mgl32.Vec3{xx, xy, xz}.Mul(inv),
		mgl32.Vec3{xy, yy, yz}.Mul(inv),
		mgl32.Vec3{xz, yz, zz}.Mul(inv),
	)
}
