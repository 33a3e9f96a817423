package physics

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/collision"
	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
	"github.com/stephenverderame/ProjectOort-sub001/internal/transform"
)

// Hooks are the gameplay callbacks consulted during Step. OnHit fires for
// every detected contact. DoResolve decides whether the contact also feeds
// the resolver; nil means always resolve.
type Hooks[T any] struct {
	OnHit     func(a, b *RigidBody[T], hit collision.HitResult)
	DoResolve func(a, b *RigidBody[T], hit collision.HitResult) bool
}

// testedPair dedups mirror-order candidates within one step, keyed by the
// bodies' transform nodes with the smaller pointer first.
type testedPair struct {
	a, b *transform.Node
}

func makePair(a, b *transform.Node) testedPair {
	pa, pb := uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(b))
	if pa > pb {
		return testedPair{a: b, b: a}
	}
	return testedPair{a: a, b: b}
}

// resolution is one body's pending response, accumulated over all of its
// contacts in the current step.
type resolution struct {
	dv    mgl32.Vec3
	dw    mgl32.Vec3
	shift mgl32.Vec3
}

// Simulation owns the rigid bodies and advances them in discrete steps. A
// Step call runs detection, hooks and resolution to completion before
// returning. Not safe for concurrent use, like the caches underneath it.
type Simulation[T any] struct {
	tuning Tuning
	hooks  Hooks[T]

	bodies   []*RigidBody[T]
	byObject map[*collision.Object]*RigidBody[T]

	octree    *collision.Octree
	colliders map[collision.Method]collision.Collider
	gpu       *collision.GPUNarrowPhase

	tested map[testedPair]bool
	accum  map[*RigidBody[T]]*resolution
}

// NewSimulation builds a simulation running the triangle method on the CPU.
func NewSimulation[T any](tuning Tuning, hooks Hooks[T]) *Simulation[T] {
	return newSimulation[T](tuning, hooks, collision.MeshCollider{Phase: collision.CPUNarrowPhase{}})
}

// NewGPUSimulation builds a simulation whose triangle method runs on the
// compute kernel. Construction fails when no adapter is available; there is
// no silent CPU fallback.
func NewGPUSimulation[T any](tuning Tuning, hooks Hooks[T]) (*Simulation[T], error) {
	phase, err := collision.NewGPUNarrowPhase()
	if err != nil {
		return nil, fmt.Errorf("physics: %w", err)
	}
	s := newSimulation[T](tuning, hooks, collision.MeshCollider{Phase: phase})
	s.gpu = phase
	return s, nil
}

func newSimulation[T any](tuning Tuning, hooks Hooks[T], tri collision.Collider) *Simulation[T] {
	return &Simulation[T]{
		tuning:   tuning,
		hooks:    hooks,
		byObject: make(map[*collision.Object]*RigidBody[T]),
		octree: collision.NewOctree(mgl32.Vec3{}, tuning.OctreeHalfWidth,
			tuning.OctreeDepth, tuning.OctreeOccupancy),
		colliders: map[collision.Method]collision.Collider{
			collision.MethodTriangle: tri,
			collision.MethodSphere:   collision.SphereCollider{},
		},
		tested: make(map[testedPair]bool),
		accum:  make(map[*RigidBody[T]]*resolution),
	}
}

// Release frees the compute resources of a GPU-backed simulation.
func (s *Simulation[T]) Release() {
	if s.gpu != nil {
		s.gpu.Release()
		s.gpu = nil
	}
}

// Add registers a body. Attach the collision shape before adding; shaped
// bodies enter the octree on the next Step.
func (s *Simulation[T]) Add(b *RigidBody[T]) {
	s.bodies = append(s.bodies, b)
	if b.obj != nil {
		s.byObject[b.obj] = b
	}
}

// Remove forgets a body and pulls its collider out of the octree.
func (s *Simulation[T]) Remove(b *RigidBody[T]) {
	for i, bb := range s.bodies {
		if bb == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
	if b.obj != nil {
		delete(s.byObject, b.obj)
		if b.obj.Tracked() {
			s.octree.Remove(b.obj)
		}
	}
}

// ForEach visits every tracked body. The render and AI layers read
// transforms and velocities through this.
func (s *Simulation[T]) ForEach(fn func(*RigidBody[T])) {
	for _, b := range s.bodies {
		fn(b)
	}
}

func (s *Simulation[T]) Len() int { return len(s.bodies) }

// Step advances the world by dt seconds: new colliders enter the octree,
// velocities integrate into transforms, the octree proposes pairs, the
// narrow phase confirms them, hooks run, and the accumulated resolution is
// applied per body type.
func (s *Simulation[T]) Step(dt float32) error {
	if dt <= 0 {
		return nil
	}
	s.insertNew()
	s.integrate(dt)
	if err := s.detect(dt); err != nil {
		return err
	}
	s.apply(dt)
	for _, b := range s.bodies {
		if b.typ == Dynamic && b.obj != nil {
			s.octree.Update(b.obj)
		}
	}
	return nil
}

func (s *Simulation[T]) insertNew() {
	for _, b := range s.bodies {
		if b.obj != nil && !b.obj.Tracked() {
			s.octree.Insert(b.obj)
			s.byObject[b.obj] = b
		}
	}
}

func (s *Simulation[T]) integrate(dt float32) {
	for _, b := range s.bodies {
		if b.typ == Static {
			continue
		}
		if b.Velocity != (mgl32.Vec3{}) {
			b.node.Translate(b.Velocity.Mul(dt))
		}
		if b.RotVelocity != (mgl32.Vec3{}) {
			b.node.RotateLocal(geom.QuatFromRotVec(b.RotVelocity.Mul(dt)))
		}
		if b.obj != nil {
			s.octree.Update(b.obj)
		}
	}
}

func (s *Simulation[T]) detect(dt float32) error {
	for k := range s.tested {
		delete(s.tested, k)
	}
	for k := range s.accum {
		delete(s.accum, k)
	}

	for _, a := range s.bodies {
		if a.obj == nil || (a.typ != Dynamic && a.typ != Controlled) {
			continue
		}
		for _, cand := range s.octree.Colliders(a.obj) {
			b, ok := s.byObject[cand]
			if !ok {
				continue
			}
			pair := makePair(a.node, b.node)
			if s.tested[pair] {
				continue
			}
			s.tested[pair] = true

			method := collision.CoarserMethod(a.Method(), b.Method())
			collider := s.colliders[method]
			if collider == nil {
				log.Panicf("Physics: no collider for method %v", method)
			}
			hit, err := collider.Collide(a.obj, b.obj)
			if err != nil {
				return fmt.Errorf("physics: pair collision: %w", err)
			}
			if hit.Kind == collision.HitNone {
				continue
			}
			if s.hooks.OnHit != nil {
				s.hooks.OnHit(a, b, hit)
			}
			if s.hooks.DoResolve != nil && !s.hooks.DoResolve(a, b, hit) {
				continue
			}
			s.accumulate(a, b, hit, dt)
		}
	}
	return nil
}

// accumulate folds one confirmed contact into both bodies' pending
// resolutions. Each side responds along the other side's surface normal.
func (s *Simulation[T]) accumulate(a, b *RigidBody[T], hit collision.HitResult, dt float32) {
	// An unlocatable overlap still separates, along the center axis since
	// there is no contact normal to use.
	if hit.Kind == collision.HitNoData {
		axis := safeAxis(a.center().Sub(b.center()))
		s.addShift(a, axis.Mul(s.tuning.SeparationBias))
		s.addShift(b, axis.Mul(-s.tuning.SeparationBias))
		return
	}

	rest := a.Velocity.Len() < s.tuning.RestEpsilon && b.Velocity.Len() < s.tuning.RestEpsilon
	mEff := effectiveMass(a.Mass, b.Mass)
	s.accumulateBody(a, b, hit.A, hit.B, mEff, rest, dt)
	s.accumulateBody(b, a, hit.B, hit.A, mEff, rest, dt)
}

func (s *Simulation[T]) accumulateBody(x, other *RigidBody[T], own, opp collision.PosNorm, mEff float32, rest bool, dt float32) {
	if x.typ == Static {
		return
	}
	r := s.resolutionFor(x)
	n := opp.Norm

	// Overlapping bodies with no meaningful motion get pushed apart
	// positionally; the impulse below is zero for them anyway.
	if rest {
		r.shift = r.shift.Add(n.Mul(s.tuning.SeparationBias))
	}
	if x.Mass <= 0 {
		return
	}
	rel := x.Velocity.Sub(other.Velocity)
	vn := rel.Dot(n)
	if vn >= 0 {
		return
	}
	impulse := s.tuning.Restitution * mEff * vn
	r.dv = r.dv.Add(n.Mul(-impulse / x.Mass))
	lever := own.Pos.Sub(x.center())
	r.dw = r.dw.Add(lever.Cross(n).Mul(impulse / dt / x.Mass))
}

func (s *Simulation[T]) resolutionFor(b *RigidBody[T]) *resolution {
	r, ok := s.accum[b]
	if !ok {
		r = &resolution{}
		s.accum[b] = r
	}
	return r
}

func (s *Simulation[T]) addShift(b *RigidBody[T], delta mgl32.Vec3) {
	if b.typ == Static {
		return
	}
	r := s.resolutionFor(b)
	r.shift = r.shift.Add(delta)
}

// apply flushes the accumulated resolutions. Dynamic bodies take velocity
// changes, Controlled bodies take an equivalent transform nudge so steering
// input never fights runaway velocity.
func (s *Simulation[T]) apply(dt float32) {
	for b, r := range s.accum {
		switch b.typ {
		case Dynamic:
			b.Velocity = b.Velocity.Add(r.dv)
			b.RotVelocity = b.RotVelocity.Add(r.dw)
			if r.shift != (mgl32.Vec3{}) {
				b.node.Translate(r.shift)
			}
		case Controlled:
			if nudge := r.dv.Mul(dt).Add(r.shift); nudge != (mgl32.Vec3{}) {
				b.node.Translate(nudge)
			}
			if r.dw != (mgl32.Vec3{}) {
				b.node.RotateLocal(geom.QuatFromRotVec(r.dw.Mul(dt)))
			}
		}
	}
}

// Raycast returns the closest body whose collision geometry the ray hits
// within maxDist. A zero direction reports no hit.
func (s *Simulation[T]) Raycast(origin, dir mgl32.Vec3, maxDist float32) (*RigidBody[T], float32, bool) {
	if dir.LenSqr() < 1e-12 {
		return nil, 0, false
	}
	ray := geom.NewRay(origin, dir)
	var best *RigidBody[T]
	bestDist := maxDist
	for _, cand := range s.octree.RayQuery(ray, maxDist) {
		b, ok := s.byObject[cand]
		if !ok {
			continue
		}
		if d, hit := cand.RayIntersect(ray); hit && d <= bestDist {
			best = b
			bestDist = d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

func effectiveMass(ma, mb float32) float32 {
	if ma <= 0 || mb <= 0 {
		return 0
	}
	return 1 / (1/ma + 1/mb)
}

// safeAxis normalizes a separation axis, falling back to +Y when the
// centers coincide.
func safeAxis(v mgl32.Vec3) mgl32.Vec3 {
	if v.LenSqr() < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}
