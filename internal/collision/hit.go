// Package collision implements the spatial collision pipeline: shared
// triangle meshes with BVH pruning, an octree broad phase over collision
// objects, and pluggable narrow-phase colliders (CPU and GPU). Everything in
// this package is single-threaded; the shared mesh registry carries no locks.
package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// HitKind tags the three possible narrow-phase outcomes.
type HitKind int

const (
	// HitNone means the pair does not touch.
	HitNone HitKind = iota
	// HitNoData means the pair overlaps but no contact point could be
	// located, typically one volume fully nested inside the other.
	HitNoData
	// HitContact means a contact point and per-side normals are available.
	HitContact
)

func (k HitKind) String() string {
	switch k {
	case HitNone:
		return "none"
	case HitNoData:
		return "nodata"
	case HitContact:
		return "contact"
	}
	return "unknown"
}

// PosNorm is a world-space contact point with the surface normal at it.
type PosNorm struct {
	Pos  mgl32.Vec3
	Norm mgl32.Vec3
}

// HitResult is the outcome of one narrow-phase test. A and B are only
// meaningful when Kind is HitContact; A describes the contact on the first
// object's surface, B on the second's.
type HitResult struct {
	Kind HitKind
	A, B PosNorm
}

// NarrowPhase is the exact triangle-level test. Implementations receive the
// world-space candidate triangles that survived BVH pruning and report an
// averaged contact, or HitNone when nothing intersects. Nested-volume
// detection happens above this contract.
type NarrowPhase interface {
	Collide(worldA, worldB []geom.Triangle) (HitResult, error)
}

// Collider runs the whole mid+narrow phase for one candidate pair whose
// bounding spheres already overlap. The simulation picks a Collider per
// pair from the bodies' collision methods.
type Collider interface {
	Collide(a, b *Object) (HitResult, error)
}

// Method tags how a body wants its narrow phase run. When the two sides of a
// pair disagree, the coarser method wins.
type Method int

const (
	// MethodTriangle runs BVH pruning plus exact triangle tests.
	MethodTriangle Method = iota
	// MethodSphere only tests world bounding spheres.
	MethodSphere
)

func (m Method) String() string {
	switch m {
	case MethodTriangle:
		return "triangle"
	case MethodSphere:
		return "sphere"
	}
	return "unknown"
}

// CoarserMethod resolves the method for a pair: a sphere side downgrades the
// whole pair, exact triangle tests run only when both sides ask for them.
func CoarserMethod(a, b Method) Method {
	if a == MethodSphere || b == MethodSphere {
		return MethodSphere
	}
	return MethodTriangle
}
