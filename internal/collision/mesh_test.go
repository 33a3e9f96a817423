package collision

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

func vec3Near(a, b mgl32.Vec3, eps float32) bool {
	return math32.Abs(a.X()-b.X()) <= eps &&
		math32.Abs(a.Y()-b.Y()) <= eps &&
		math32.Abs(a.Z()-b.Z()) <= eps
}

func TestCPUNarrowPhaseSinglePair(t *testing.T) {
	a := geom.NewTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 0, 0}, mgl32.Vec3{0, 4, 0})
	b := geom.NewTriangle(mgl32.Vec3{1, 1, -1}, mgl32.Vec3{3, 1, -1}, mgl32.Vec3{2, 1, 2})

	hit, err := CPUNarrowPhase{}.Collide([]geom.Triangle{a}, []geom.Triangle{b})
	if err != nil {
		t.Fatalf("Collide: %v", err)
	}
	if hit.Kind != HitContact {
		t.Fatalf("hit kind = %v, want %v", hit.Kind, HitContact)
	}
	if !vec3Near(hit.A.Pos, mgl32.Vec3{2, 1, 0}, 1e-4) {
		t.Errorf("contact point = %v, want (2,1,0)", hit.A.Pos)
	}
	if !vec3Near(hit.A.Norm, mgl32.Vec3{0, 0, 1}, 1e-4) {
		t.Errorf("first normal = %v, want +Z", hit.A.Norm)
	}
	if !vec3Near(hit.B.Norm, mgl32.Vec3{0, -1, 0}, 1e-4) {
		t.Errorf("second normal = %v, want -Y", hit.B.Norm)
	}
}

func TestCPUNarrowPhaseEmptyInput(t *testing.T) {
	hit, err := CPUNarrowPhase{}.Collide(nil, nil)
	if err != nil {
		t.Fatalf("Collide: %v", err)
	}
	if hit.Kind != HitNone {
		t.Errorf("hit kind = %v, want %v", hit.Kind, HitNone)
	}
}

func TestMeshCollisionContact(t *testing.T) {
	reg := NewRegistry()
	tris := cubeTris(mgl32.Vec3{}, 2)
	ma := reg.Build("box_a", tris, StopCriterion{})
	mb := reg.Build("box_b", tris, StopCriterion{})

	hit, err := ma.Collision(mgl32.Ident4(), mb, mgl32.Translate3D(1.5, 0, 0), CPUNarrowPhase{})
	if err != nil {
		t.Fatalf("Collision: %v", err)
	}
	if hit.Kind != HitContact {
		t.Fatalf("hit kind = %v, want %v", hit.Kind, HitContact)
	}
	if hit.A.Norm.X() <= 0 {
		t.Errorf("first body normal %v should face +X", hit.A.Norm)
	}
	if hit.B.Norm.X() >= 0 {
		t.Errorf("second body normal %v should face -X", hit.B.Norm)
	}
	if hit.A.Pos.X() < 0.4 || hit.A.Pos.X() > 1.1 {
		t.Errorf("contact x = %v, want within the overlap band", hit.A.Pos.X())
	}
}

func TestMeshCollisionSeparated(t *testing.T) {
	reg := NewRegistry()
	tris := cubeTris(mgl32.Vec3{}, 2)
	ma := reg.Build("far_a", tris, StopCriterion{})
	mb := reg.Build("far_b", tris, StopCriterion{})

	hit, err := ma.Collision(mgl32.Ident4(), mb, mgl32.Translate3D(10, 0, 0), CPUNarrowPhase{})
	if err != nil {
		t.Fatalf("Collision: %v", err)
	}
	if hit.Kind != HitNone {
		t.Errorf("hit kind = %v, want %v", hit.Kind, HitNone)
	}
}

func TestMeshCollisionNestedReportsNoData(t *testing.T) {
	reg := NewRegistry()
	big := reg.Build("shell", cubeTris(mgl32.Vec3{}, 10), StopCriterion{})
	small := reg.Build("pebble", cubeTris(mgl32.Vec3{}, 1), StopCriterion{})

	hit, err := small.Collision(mgl32.Ident4(), big, mgl32.Ident4(), CPUNarrowPhase{})
	if err != nil {
		t.Fatalf("Collision: %v", err)
	}
	if hit.Kind != HitNoData {
		t.Errorf("nested meshes report %v, want %v", hit.Kind, HitNoData)
	}

	hit, err = big.Collision(mgl32.Ident4(), small, mgl32.Ident4(), CPUNarrowPhase{})
	if err != nil {
		t.Fatalf("Collision: %v", err)
	}
	if hit.Kind != HitNoData {
		t.Errorf("containment is symmetric, got %v, want %v", hit.Kind, HitNoData)
	}
}

func TestMeshCollisionAgainstPlate(t *testing.T) {
	reg := NewRegistry()
	plate := reg.Build("plate16", plateTris(8, 16), StopCriterion{MaxDepth: 12, MinTris: 4})
	box := reg.Build("probe", cubeTris(mgl32.Vec3{}, 2), StopCriterion{})

	hit, err := plate.Collision(mgl32.Ident4(), box, mgl32.Translate3D(3, 0, -2), CPUNarrowPhase{})
	if err != nil {
		t.Fatalf("Collision: %v", err)
	}
	if hit.Kind != HitContact {
		t.Fatalf("hit kind = %v, want %v", hit.Kind, HitContact)
	}
	if !vec3Near(hit.A.Norm, mgl32.Vec3{0, 1, 0}, 1e-3) {
		t.Errorf("plate normal = %v, want +Y", hit.A.Norm)
	}
	if math32.Abs(hit.A.Pos.Y()) > 0.1 {
		t.Errorf("contact y = %v, want on the plate plane", hit.A.Pos.Y())
	}
	if math32.Abs(hit.A.Pos.X()-3) > 1.2 || math32.Abs(hit.A.Pos.Z()+2) > 1.2 {
		t.Errorf("contact point %v strayed from the box footprint", hit.A.Pos)
	}
}

func TestSphereColliderContact(t *testing.T) {
	a := cubeObject("orb", 2, mgl32.Vec3{0, 0, 0})
	b := cubeObject("orb", 2, mgl32.Vec3{1.5, 0, 0})

	hit, err := SphereCollider{}.Collide(a, b)
	if err != nil {
		t.Fatalf("Collide: %v", err)
	}
	if hit.Kind != HitContact {
		t.Fatalf("hit kind = %v, want %v", hit.Kind, HitContact)
	}
	if !vec3Near(hit.A.Pos, mgl32.Vec3{0.75, 0, 0}, 1e-3) {
		t.Errorf("contact point = %v, want (0.75,0,0)", hit.A.Pos)
	}
	if !vec3Near(hit.A.Norm, mgl32.Vec3{1, 0, 0}, 1e-4) {
		t.Errorf("first normal = %v, want +X", hit.A.Norm)
	}
	if !vec3Near(hit.B.Norm, mgl32.Vec3{-1, 0, 0}, 1e-4) {
		t.Errorf("second normal = %v, want -X", hit.B.Norm)
	}
}

func TestSphereColliderContainmentAndMiss(t *testing.T) {
	big := cubeObject("orb_big", 10, mgl32.Vec3{0, 0, 0})
	small := cubeObject("orb_small", 1, mgl32.Vec3{0, 0, 0})
	far := cubeObject("orb_far", 1, mgl32.Vec3{30, 0, 0})

	hit, err := SphereCollider{}.Collide(big, small)
	if err != nil {
		t.Fatalf("Collide: %v", err)
	}
	if hit.Kind != HitNoData {
		t.Errorf("contained spheres report %v, want %v", hit.Kind, HitNoData)
	}

	hit, err = SphereCollider{}.Collide(big, far)
	if err != nil {
		t.Fatalf("Collide: %v", err)
	}
	if hit.Kind != HitNone {
		t.Errorf("separated spheres report %v, want %v", hit.Kind, HitNone)
	}
}
