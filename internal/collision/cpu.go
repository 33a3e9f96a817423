package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// CPUNarrowPhase runs the exact triangle tests on the CPU. It honors the
// same contract as the GPU variant, making it both the default path and the
// reference the stress harness compares the kernel against.
type CPUNarrowPhase struct{}

func (CPUNarrowPhase) Collide(worldA, worldB []geom.Triangle) (HitResult, error) {
	var acc contactAccum
	for _, ta := range worldA {
		for _, tb := range worldB {
			if p, ok := geom.TriTriIntersect(ta, tb); ok {
				acc.add(p, ta.Normal, tb.Normal)
			}
		}
	}
	return acc.result(), nil
}

// MeshCollider is the triangle-method pair collider: bounding-sphere gate,
// BVH pruning, then whatever narrow phase it was built with.
type MeshCollider struct {
	Phase NarrowPhase
}

func (c MeshCollider) Collide(a, b *Object) (HitResult, error) {
	return a.Collide(b, c.Phase)
}

// SphereCollider resolves a pair on world bounding spheres alone. Bodies
// opt into it through MethodSphere when triangle accuracy is not worth the
// cost.
type SphereCollider struct{}

func (SphereCollider) Collide(a, b *Object) (HitResult, error) {
	sa := a.WorldSphere()
	sb := b.WorldSphere()
	axis := sb.Center.Sub(sa.Center)
	dist := axis.Len()

	// A swallowed or concentric pair overlaps with no usable contact axis.
	if dist+sb.Radius <= sa.Radius || dist+sa.Radius <= sb.Radius || dist < 1e-6 {
		return HitResult{Kind: HitNoData}, nil
	}
	if dist >= sa.Radius+sb.Radius {
		return HitResult{Kind: HitNone}, nil
	}

	axis = axis.Mul(1 / dist)
	onA := sa.Center.Add(axis.Mul(sa.Radius))
	onB := sb.Center.Sub(axis.Mul(sb.Radius))
	p := onA.Add(onB).Mul(0.5)
	return HitResult{
		Kind: HitContact,
		A:    PosNorm{Pos: p, Norm: axis},
		B:    PosNorm{Pos: p, Norm: axis.Mul(-1)},
	}, nil
}

// contactAccum folds raw triangle-pair contacts into one averaged
// HitResult per side.
type contactAccum struct {
	pos   mgl32.Vec3
	normA mgl32.Vec3
	normB mgl32.Vec3
	n     int
}

func (a *contactAccum) add(p, na, nb mgl32.Vec3) {
	a.pos = a.pos.Add(p)
	a.normA = a.normA.Add(na)
	a.normB = a.normB.Add(nb)
	a.n++
}

func (a *contactAccum) result() HitResult {
	if a.n == 0 {
		return HitResult{Kind: HitNone}
	}
	inv := 1 / float32(a.n)
	p := a.pos.Mul(inv)
	return HitResult{
		Kind: HitContact,
		A:    PosNorm{Pos: p, Norm: safeUnit(a.normA)},
		B:    PosNorm{Pos: p, Norm: safeUnit(a.normB)},
	}
}

// safeUnit normalizes the averaged normal. Opposite-facing contributions can
// cancel to zero; +Y stands in so downstream math never sees a zero normal.
func safeUnit(v mgl32.Vec3) mgl32.Vec3 {
	if v.LenSqr() < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}
