// Package transform provides hierarchical scene transforms with lazily
// rebuilt, version-stamped world matrices. Nodes are not safe for concurrent
// mutation; the whole scene graph belongs to one goroutine.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is a single transform in the hierarchy. The local matrix composes as
// translate(anchor) * translate(pos) * rotation * scale * translate(-anchor),
// so rotation and scaling pivot about the anchor point rather than the local
// origin. World matrices are cached and rebuilt only when this node or an
// ancestor changed since the last query.
type Node struct {
	pos    mgl32.Vec3
	scale  mgl32.Vec3
	rot    mgl32.Quat
	anchor mgl32.Vec3
	parent *Node

	cache matCache
}

type matCache struct {
	valid bool
	world mgl32.Mat4
	// version counts world matrix rebuilds. It never moves between
	// mutations, so callers can key their own derived caches off it.
	version    uint64
	parentSeen uint64
}

// NewNode returns an identity transform with no parent.
func NewNode() *Node {
	return &Node{
		scale: mgl32.Vec3{1, 1, 1},
		rot:   mgl32.QuatIdent(),
	}
}

// NewNodeAt returns an identity transform positioned at pos.
func NewNodeAt(pos mgl32.Vec3) *Node {
	n := NewNode()
	n.pos = pos
	return n
}

func (n *Node) Position() mgl32.Vec3 { return n.pos }
func (n *Node) Scale() mgl32.Vec3    { return n.scale }
func (n *Node) Rotation() mgl32.Quat { return n.rot }
func (n *Node) Anchor() mgl32.Vec3   { return n.anchor }
func (n *Node) Parent() *Node        { return n.parent }

func (n *Node) SetPosition(p mgl32.Vec3) {
	n.pos = p
	n.cache.valid = false
}

func (n *Node) SetScale(s mgl32.Vec3) {
	n.scale = s
	n.cache.valid = false
}

func (n *Node) SetUniformScale(s float32) {
	n.SetScale(mgl32.Vec3{s, s, s})
}

func (n *Node) SetRotation(q mgl32.Quat) {
	n.rot = q
	n.cache.valid = false
}

func (n *Node) SetAnchor(a mgl32.Vec3) {
	n.anchor = a
	n.cache.valid = false
}

// SetParent attaches n under parent without adjusting the local transform;
// the node keeps its local values and moves in world space. A nil parent
// detaches the node. The caller must not create cycles.
func (n *Node) SetParent(parent *Node) {
	n.parent = parent
	n.cache.valid = false
}

func (n *Node) Translate(delta mgl32.Vec3) {
	n.pos = n.pos.Add(delta)
	n.cache.valid = false
}

// RotateWorld applies q after the current rotation, spinning the node about
// parent-space axes.
func (n *Node) RotateWorld(q mgl32.Quat) {
	n.rot = q.Mul(n.rot).Normalize()
	n.cache.valid = false
}

// RotateLocal applies q before the current rotation, spinning the node about
// its own axes.
func (n *Node) RotateLocal(q mgl32.Quat) {
	n.rot = n.rot.Mul(q).Normalize()
	n.cache.valid = false
}

func (n *Node) localMat() mgl32.Mat4 {
	// translate(anchor) * translate(pos) folds into one translation.
	t := mgl32.Translate3D(
		n.anchor.X()+n.pos.X(),
		n.anchor.Y()+n.pos.Y(),
		n.anchor.Z()+n.pos.Z(),
	)
	r := n.rot.Mat4()
	s := mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z())
	back := mgl32.Translate3D(-n.anchor.X(), -n.anchor.Y(), -n.anchor.Z())
	return t.Mul4(r).Mul4(s).Mul4(back)
}

func (n *Node) needsRebuild() bool {
	if !n.cache.valid {
		return true
	}
	if n.parent == nil {
		return false
	}
	return n.parent.needsRebuild() || n.parent.cache.version != n.cache.parentSeen
}

// Mat returns the world matrix, rebuilding the cached copy if this node or
// any ancestor changed. Repeated calls without mutation return the same
// matrix and leave the version untouched.
func (n *Node) Mat() mgl32.Mat4 {
	if n.needsRebuild() {
		world := n.localMat()
		if n.parent != nil {
			world = n.parent.Mat().Mul4(world)
			n.cache.parentSeen = n.parent.cache.version
		}
		n.cache.world = world
		n.cache.valid = true
		n.cache.version++
	}
	return n.cache.world
}

// Version identifies the current world matrix build. It settles the cache
// first, so repeated queries without mutation return the same value.
func (n *Node) Version() uint64 {
	n.Mat()
	return n.cache.version
}

// WorldPos is the node origin in world space.
func (n *Node) WorldPos() mgl32.Vec3 {
	return n.TransformPoint(mgl32.Vec3{0, 0, 0})
}

// TransformPoint maps a local-space point to world space.
func (n *Node) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, n.Mat())
}

// TransformDir maps a local-space direction to world space, ignoring
// translation.
func (n *Node) TransformDir(d mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformNormal(d, n.Mat())
}

// InvTransformPoint maps a world-space point back to local space.
func (n *Node) InvTransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, n.Mat().Inv())
}
