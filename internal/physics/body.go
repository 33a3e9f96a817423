// Package physics runs impulse-based rigid-body dynamics over the collision
// subsystem. A Simulation owns the tracked bodies and advances them in
// discrete steps; bodies carry game-specific metadata through the type
// parameter. Everything here shares the collision registry's single-thread
// contract.
package physics

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/collision"
	"github.com/stephenverderame/ProjectOort-sub001/internal/transform"
)

// BodyType decides how a body reacts to contacts.
type BodyType int

const (
	// Static bodies never move and never accumulate resolution.
	Static BodyType = iota
	// Dynamic bodies integrate velocity and receive impulse responses.
	Dynamic
	// Controlled bodies are steered externally; contacts nudge their
	// transform directly instead of feeding back into velocity.
	Controlled
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Controlled:
		return "controlled"
	}
	return "unknown"
}

// RigidBody is the physical state bound to one transform node. Velocity,
// angular velocity and mass are exported for gameplay code to steer; the
// collision shape and method tag are managed through the builder methods.
type RigidBody[T any] struct {
	node *transform.Node
	obj  *collision.Object
	typ  BodyType

	Velocity    mgl32.Vec3
	RotVelocity mgl32.Vec3
	Mass        float32

	// Meta carries whatever the game attaches to this body.
	Meta T
}

// NewBody wraps a transform node in a rigid body with no collision shape
// and zero mass. Attach geometry with WithCollisionMesh or WithBuiltMesh.
func NewBody[T any](node *transform.Node, typ BodyType, meta T) *RigidBody[T] {
	if node == nil {
		log.Panicf("Physics: rigid body needs a transform node")
	}
	return &RigidBody[T]{node: node, typ: typ, Meta: meta}
}

func (b *RigidBody[T]) Node() *transform.Node       { return b.node }
func (b *RigidBody[T]) Type() BodyType              { return b.typ }
func (b *RigidBody[T]) Collider() *collision.Object { return b.obj }

// WithCollisionMesh loads (or reuses) the mesh at path and attaches it as
// this body's collision shape. The mass defaults to the mesh's AABB volume
// until WithDensity overrides it.
func (b *RigidBody[T]) WithCollisionMesh(path string, crit collision.StopCriterion) (*RigidBody[T], error) {
	mesh, err := collision.Load(path, crit)
	if err != nil {
		return nil, err
	}
	return b.WithBuiltMesh(mesh), nil
}

// WithBuiltMesh attaches an already registered mesh, for geometry produced
// in code rather than loaded from disk.
func (b *RigidBody[T]) WithBuiltMesh(mesh *collision.Mesh) *RigidBody[T] {
	b.obj = collision.NewObject(b.node, mesh)
	b.Mass = mesh.Volume()
	return b
}

// WithDensity sets mass = density x AABB volume x scale product. It needs an
// attached mesh for the volume and a non-negative density.
func (b *RigidBody[T]) WithDensity(density float32) *RigidBody[T] {
	if density < 0 {
		log.Panicf("Physics: negative density %v", density)
	}
	if b.obj == nil {
		log.Panicf("Physics: WithDensity needs a collision mesh")
	}
	s := b.node.Scale()
	b.Mass = density * b.obj.Mesh().Volume() * s.X() * s.Y() * s.Z()
	return b
}

// WithMethod tags this body's geometry with a collision method. The tag is
// shared by every body using the same geometry.
func (b *RigidBody[T]) WithMethod(m collision.Method) *RigidBody[T] {
	if b.obj == nil {
		log.Panicf("Physics: WithMethod needs a collision mesh")
	}
	setMethod(b.obj.Mesh().ID(), m)
	return b
}

// Method returns the collision method tag of this body's geometry. Bodies
// without geometry never reach the narrow phase, so they report the zero
// method.
func (b *RigidBody[T]) Method() collision.Method {
	if b.obj == nil {
		return collision.MethodTriangle
	}
	return methodOf(b.obj.Mesh().ID())
}

// MomentInertia is the world-scale inertia tensor: mass times the unit
// tensor cached per geometry. A body without geometry reports zero.
func (b *RigidBody[T]) MomentInertia() mgl32.Mat3 {
	if b.obj == nil {
		return mgl32.Mat3{}
	}
	return unitInertia(b.obj.Mesh()).Mul(b.Mass)
}

// center is the reference point for lever arms.
func (b *RigidBody[T]) center() mgl32.Vec3 {
	if b.obj != nil {
		return b.obj.Center()
	}
	return b.node.WorldPos()
}
