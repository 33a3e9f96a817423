package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

const (
	defaultOctreeDepth     = 8
	defaultOctreeOccupancy = 8
)

// Octree is the broad phase: a recursive center/half-width partition holding
// non-owning references to tracked objects. An object lives in the smallest
// cell that fully contains its world bounding sphere; straddlers stay at the
// smallest enclosing ancestor instead of being split across children.
// Queries over-approximate, never under-approximate; the narrow phase does
// the exact filtering.
type Octree struct {
	root      *cell
	maxDepth  int
	occupancy int
}

type cell struct {
	tree     *Octree
	parent   *cell
	children []*cell // nil until split, then always 8
	objs     []*Object

	center mgl32.Vec3
	half   float32
	depth  int
}

// NewOctree builds an empty tree over the cube at center with the given half
// width. Zero maxDepth or occupancy picks the package defaults.
func NewOctree(center mgl32.Vec3, halfWidth float32, maxDepth, occupancy int) *Octree {
	if maxDepth <= 0 {
		maxDepth = defaultOctreeDepth
	}
	if occupancy <= 0 {
		occupancy = defaultOctreeOccupancy
	}
	t := &Octree{maxDepth: maxDepth, occupancy: occupancy}
	t.root = &cell{tree: t, center: center, half: halfWidth}
	return t
}

// Insert places obj into the tree and records its cell. Objects already
// tracked are left alone; objects too large for any cell stay at the root.
func (t *Octree) Insert(obj *Object) {
	if obj.cell != nil {
		return
	}
	t.root.insert(obj, obj.WorldSphere())
}

// Remove detaches obj from its recorded cell. Untracked objects are a no-op.
func (t *Octree) Remove(obj *Object) {
	c := obj.cell
	if c == nil {
		return
	}
	for i, o := range c.objs {
		if o == obj {
			last := len(c.objs) - 1
			c.objs[i] = c.objs[last]
			c.objs[last] = nil
			c.objs = c.objs[:last]
			break
		}
	}
	obj.cell = nil
}

// Update re-homes obj after movement. While the sphere still fits the
// recorded cell nothing happens; otherwise the object climbs to the first
// ancestor that contains it and sinks back down from there.
func (t *Octree) Update(obj *Object) {
	c := obj.cell
	if c == nil {
		t.root.insert(obj, obj.WorldSphere())
		return
	}
	s := obj.WorldSphere()
	if c.contains(s) {
		return
	}
	t.Remove(obj)
	start := c.parent
	for start != nil && !start.contains(s) {
		start = start.parent
	}
	if start == nil {
		start = t.root
	}
	start.insert(obj, s)
}

// Colliders returns every other tracked object whose world bounding sphere
// intersects obj's. Self is excluded; false positives are the narrow phase's
// problem, false negatives do not happen. Objects too large or too far out
// for any cell sit at the root and are scanned on every query.
func (t *Octree) Colliders(obj *Object) []*Object {
	var out []*Object
	t.root.query(obj.WorldSphere(), obj, &out)
	return out
}

// RayQuery returns the tracked objects whose bounding spheres the ray may
// hit within maxDist.
func (t *Octree) RayQuery(r geom.Ray, maxDist float32) []*Object {
	var out []*Object
	t.root.rayQuery(r, maxDist, &out)
	return out
}

func (c *cell) insert(obj *Object, s geom.Sphere) {
	if c.children == nil && len(c.objs) >= c.tree.occupancy && c.depth < c.tree.maxDepth {
		c.split()
	}
	if c.children != nil {
		if idx := c.childFor(s); idx >= 0 {
			c.children[idx].insert(obj, s)
			return
		}
	}
	c.objs = append(c.objs, obj)
	obj.cell = c
}

// split subdivides the cell and sinks every occupant that fully fits a
// child; straddlers keep their spot here.
func (c *cell) split() {
	q := c.half / 2
	c.children = make([]*cell, 8)
	for i := 0; i < 8; i++ {
		off := mgl32.Vec3{-q, -q, -q}
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				off[axis] = q
			}
		}
		c.children[i] = &cell{
			tree:   c.tree,
			parent: c,
			center: c.center.Add(off),
			half:   q,
			depth:  c.depth + 1,
		}
	}

	old := c.objs
	c.objs = nil
	for _, o := range old {
		s := o.WorldSphere()
		if idx := c.childFor(s); idx >= 0 {
			c.children[idx].insert(o, s)
			continue
		}
		c.objs = append(c.objs, o)
		o.cell = c
	}
}

// childFor picks the octant whose cube fully contains s, or -1 when the
// sphere straddles a boundary.
func (c *cell) childFor(s geom.Sphere) int {
	q := c.half / 2
	idx := 0
	off := mgl32.Vec3{-q, -q, -q}
	for axis := 0; axis < 3; axis++ {
		if s.Center[axis] >= c.center[axis] {
			idx |= 1 << axis
			off[axis] = q
		}
	}
	childCenter := c.center.Add(off)
	for axis := 0; axis < 3; axis++ {
		if math32.Abs(s.Center[axis]-childCenter[axis])+s.Radius > q {
			return -1
		}
	}
	return idx
}

func (c *cell) contains(s geom.Sphere) bool {
	for axis := 0; axis < 3; axis++ {
		if math32.Abs(s.Center[axis]-c.center[axis])+s.Radius > c.half {
			return false
		}
	}
	return true
}

func (c *cell) query(s geom.Sphere, skip *Object, out *[]*Object) {
	// Objects that fit no cell sit at the root, possibly outside its cube,
	// so the root's occupants are scanned regardless of the cube bounds.
	if c.parent != nil && !c.overlapsSphere(s) {
		return
	}
	for _, o := range c.objs {
		if o != skip && o.WorldSphere().Intersects(s) {
			*out = append(*out, o)
		}
	}
	for _, ch := range c.children {
		ch.query(s, skip, out)
	}
}

// overlapsSphere clamps the sphere center to the cell cube and compares the
// residual distance against the radius.
func (c *cell) overlapsSphere(s geom.Sphere) bool {
	d := float32(0)
	for axis := 0; axis < 3; axis++ {
		lo := c.center[axis] - c.half
		hi := c.center[axis] + c.half
		if v := s.Center[axis]; v < lo {
			d += (lo - v) * (lo - v)
		} else if v > hi {
			d += (v - hi) * (v - hi)
		}
	}
	return d <= s.Radius*s.Radius
}

func (c *cell) rayQuery(r geom.Ray, maxDist float32, out *[]*Object) {
	// Same root exemption as query: out-of-bounds objects live there.
	if c.parent != nil {
		ext := mgl32.Vec3{c.half, c.half, c.half}
		box := geom.AABB{Min: c.center.Sub(ext), Max: c.center.Add(ext)}
		if d, ok := r.IntersectAABB(box); !ok || d > maxDist {
			return
		}
	}
	for _, o := range c.objs {
		if d, ok := r.IntersectSphere(o.WorldSphere()); ok && d <= maxDist {
			*out = append(*out, o)
		}
	}
	for _, ch := range c.children {
		ch.rayQuery(r, maxDist, out)
	}
}
