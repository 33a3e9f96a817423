package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
	"github.com/stephenverderame/ProjectOort-sub001/internal/transform"
)

// scaleEpsilon bounds how far the squared scale columns may drift before the
// cached world radius is rebuilt.
const scaleEpsilon = 1e-4

// Object places one shared mesh in the world through a transform node. Its
// identity is the owning node, never value equality; two objects wrapping
// the same node are the same object to the octree and the pair cache.
type Object struct {
	node *transform.Node
	mesh *Mesh

	cell *cell // octree back-reference, nil while untracked

	// World bounding sphere cache. The center follows every matrix version;
	// the radius only recomputes when the scale columns drift past
	// scaleEpsilon, keeping the sqrt off the per-frame path.
	sphereOK    bool
	sphereVer   uint64
	worldSphere geom.Sphere
	scaleSq     [3]float32
	radius      float32
}

// NewObject wraps mesh at node. Both must be non-nil; the object keeps
// referencing them for its lifetime.
func NewObject(node *transform.Node, mesh *Mesh) *Object {
	return &Object{node: node, mesh: mesh}
}

func (o *Object) Node() *transform.Node { return o.node }
func (o *Object) Mesh() *Mesh           { return o.mesh }

// Tracked reports whether the object currently sits in an octree cell.
func (o *Object) Tracked() bool { return o.cell != nil }

// WorldSphere returns the world-space bounding sphere for the current
// transform.
func (o *Object) WorldSphere() geom.Sphere {
	mat := o.node.Mat()
	ver := o.node.Version()
	if o.sphereOK && ver == o.sphereVer {
		return o.worldSphere
	}

	sq := colLenSq(mat)
	if !o.sphereOK || scaleDrifted(sq, o.scaleSq) {
		o.scaleSq = sq
		o.radius = o.mesh.sphere.Radius * math32.Sqrt(max3(sq))
	}
	o.worldSphere = geom.Sphere{
		Center: mgl32.TransformCoordinate(o.mesh.sphere.Center, mat),
		Radius: o.radius,
	}
	o.sphereVer = ver
	o.sphereOK = true
	return o.worldSphere
}

// Center is the world-space bounding sphere center.
func (o *Object) Center() mgl32.Vec3 { return o.WorldSphere().Center }

// Extents is the half-size of the world-aligned box around the transformed
// local bounds.
func (o *Object) Extents() mgl32.Vec3 {
	return o.mesh.bounds.TransformedBy(o.node.Mat()).Size().Mul(0.5)
}

// Collide tests this object against another through the given narrow phase.
// Pairs whose bounding spheres stay apart return HitNone without touching
// either BVH.
func (o *Object) Collide(other *Object, phase NarrowPhase) (HitResult, error) {
	if !o.WorldSphere().Intersects(other.WorldSphere()) {
		return HitResult{Kind: HitNone}, nil
	}
	return o.mesh.Collision(o.node.Mat(), other.mesh, other.node.Mat(), phase)
}

// RayIntersect reports the closest mesh hit along a world-space ray with a
// normalized direction, as a distance in world units.
func (o *Object) RayIntersect(r geom.Ray) (float32, bool) {
	inv := o.node.Mat().Inv()
	// The local direction stays unnormalized so the local hit parameter is
	// already the world distance.
	local := geom.Ray{
		Origin: mgl32.TransformCoordinate(r.Origin, inv),
		Dir:    mgl32.TransformNormal(r.Dir, inv),
	}
	return o.mesh.rayHit(local)
}

func scaleDrifted(a, b [3]float32) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(a[i]-b[i]) > scaleEpsilon {
			return true
		}
	}
	return false
}
