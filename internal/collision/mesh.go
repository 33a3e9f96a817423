package collision

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// Mesh is immutable collision geometry plus its BVH, shared by every object
// built from the same (path, criterion) registry key. Meshes only come out
// of a Registry; the registry key guarantees one instance per geometry.
type Mesh struct {
	id     uint64
	tris   []geom.Triangle
	root   *bvhNode
	sphere geom.Sphere
	bounds geom.AABB
}

func newMesh(id uint64, tris []geom.Triangle, crit StopCriterion) *Mesh {
	m := &Mesh{id: id}
	if len(tris) == 0 {
		return m
	}

	m.tris = make([]geom.Triangle, len(tris))
	copy(m.tris, tris)

	pts := make([]mgl32.Vec3, 0, len(m.tris)*3)
	for _, t := range m.tris {
		pts = append(pts, t.A, t.B, t.C)
	}
	m.bounds = geom.AABBFromPoints(pts...)
	m.sphere = geom.BoundingSphereOf(pts...)
	m.root = buildBVH(m.tris, 0, crit.normalized())
	return m
}

// ID is the opaque geometry identity used for cache keys and equality.
func (m *Mesh) ID() uint64 { return m.id }

// Triangles exposes the local-space soup. Callers must not mutate it.
func (m *Mesh) Triangles() []geom.Triangle { return m.tris }

// Bounds is the local-space AABB.
func (m *Mesh) Bounds() geom.AABB { return m.bounds }

// BoundingSphere is the local-space bounding sphere.
func (m *Mesh) BoundingSphere() geom.Sphere { return m.sphere }

// Volume is the AABB volume estimate, the default mass for bodies built on
// this geometry.
func (m *Mesh) Volume() float32 { return m.bounds.Volume() }

// WorldSphere places the bounding sphere under a world transform. The radius
// scales by the longest matrix column, conservative under nonuniform scale.
func (m *Mesh) WorldSphere(mat mgl32.Mat4) geom.Sphere {
	return geom.Sphere{
		Center: mgl32.TransformCoordinate(m.sphere.Center, mat),
		Radius: m.sphere.Radius * math32.Sqrt(max3(colLenSq(mat))),
	}
}

// Collision prunes both hierarchies against each other in world space and
// hands the surviving triangles to the narrow phase. A HitNone outcome
// upgrades to HitNoData when one world bounding sphere swallows the other,
// since nested volumes produce no surface intersections at all.
func (m *Mesh) Collision(selfMat mgl32.Mat4, other *Mesh, otherMat mgl32.Mat4, phase NarrowPhase) (HitResult, error) {
	wa, wb := m.candidates(selfMat, other, otherMat)
	res, err := phase.Collide(wa, wb)
	if err != nil || res.Kind != HitNone {
		return res, err
	}
	sa := m.WorldSphere(selfMat)
	sb := other.WorldSphere(otherMat)
	if sa.ContainsSphere(sb) || sb.ContainsSphere(sa) {
		return HitResult{Kind: HitNoData}, nil
	}
	return res, nil
}

// candidates walks both trees together, descending wherever the transformed
// node boxes overlap, and returns the world-space triangles of the surviving
// leaves on each side.
func (m *Mesh) candidates(selfMat mgl32.Mat4, other *Mesh, otherMat mgl32.Mat4) ([]geom.Triangle, []geom.Triangle) {
	if m.root == nil || other.root == nil {
		return nil, nil
	}

	la := newLeafSet()
	lb := newLeafSet()
	var walk func(a, b *bvhNode)
	walk = func(a, b *bvhNode) {
		if !a.bounds.TransformedBy(selfMat).Intersects(b.bounds.TransformedBy(otherMat)) {
			return
		}
		switch {
		case a.isLeaf() && b.isLeaf():
			la.add(a)
			lb.add(b)
		case a.isLeaf():
			walk(a, b.left)
			walk(a, b.right)
		case b.isLeaf():
			walk(a.left, b)
			walk(a.right, b)
		case a.bounds.Volume() >= b.bounds.Volume():
			walk(a.left, b)
			walk(a.right, b)
		default:
			walk(a, b.left)
			walk(a, b.right)
		}
	}
	walk(m.root, other.root)
	return worldTris(la.list, selfMat), worldTris(lb.list, otherMat)
}

// rayHit finds the closest triangle hit in mesh-local space. The ray may
// carry an unnormalized direction; the returned distance shares its
// parameterization.
func (m *Mesh) rayHit(r geom.Ray) (float32, bool) {
	if m.root == nil {
		return 0, false
	}
	best := float32(math32.MaxFloat32)
	found := false
	var walk func(n *bvhNode)
	walk = func(n *bvhNode) {
		d, ok := r.IntersectAABB(n.bounds)
		if !ok || d > best {
			return
		}
		if n.isLeaf() {
			for _, t := range n.tris {
				if td, ok := r.IntersectTriangle(t); ok && td < best {
					best = td
					found = true
				}
			}
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(m.root)
	return best, found
}

type bvhNode struct {
	bounds geom.AABB
	left   *bvhNode
	right  *bvhNode
	tris   []geom.Triangle
}

func (n *bvhNode) isLeaf() bool { return n.left == nil }

// buildBVH median-splits along the longest axis until the criterion stops
// it. Children partition the parent's triangles; only leaves hold geometry.
func buildBVH(tris []geom.Triangle, depth int, crit StopCriterion) *bvhNode {
	node := &bvhNode{bounds: geom.AABBFromTriangles(tris...)}
	if depth >= crit.MaxDepth || len(tris) <= crit.MinTris {
		node.tris = tris
		return node
	}

	axis := longestAxis(node.bounds)
	sort.Slice(tris, func(i, j int) bool {
		return tris[i].Centroid()[axis] < tris[j].Centroid()[axis]
	})
	mid := len(tris) / 2
	node.left = buildBVH(tris[:mid], depth+1, crit)
	node.right = buildBVH(tris[mid:], depth+1, crit)
	return node
}

func longestAxis(b geom.AABB) int {
	size := b.Size()
	axis := 0
	if size.Y() > size.X() {
		axis = 1
	}
	if size.Z() > size[axis] {
		axis = 2
	}
	return axis
}

// leafSet keeps BVH leaves unique while preserving visit order, so a leaf
// overlapping several partner nodes contributes its triangles once.
type leafSet struct {
	seen map[*bvhNode]bool
	list []*bvhNode
}

func newLeafSet() *leafSet {
	return &leafSet{seen: make(map[*bvhNode]bool)}
}

func (s *leafSet) add(n *bvhNode) {
	if !s.seen[n] {
		s.seen[n] = true
		s.list = append(s.list, n)
	}
}

func worldTris(leaves []*bvhNode, mat mgl32.Mat4) []geom.Triangle {
	var out []geom.Triangle
	for _, l := range leaves {
		for _, t := range l.tris {
			out = append(out, t.TransformedBy(mat))
		}
	}
	return out
}

// colLenSq is the squared length of each upper-3x3 column: the squared scale
// the matrix applies along each local axis.
func colLenSq(m mgl32.Mat4) [3]float32 {
	var out [3]float32
	for c := 0; c < 3; c++ {
		out[c] = m.At(0, c)*m.At(0, c) + m.At(1, c)*m.At(1, c) + m.At(2, c)*m.At(2, c)
	}
	return out
}

func max3(v [3]float32) float32 {
	best := v[0]
	if v[1] > best {
		best = v[1]
	}
	if v[2] > best {
		best = v[2]
	}
	return best
}
