package physics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/collision"
	"github.com/stephenverderame/ProjectOort-sub001/internal/transform"
)

func TestMassDefaultsToVolume(t *testing.T) {
	b := boxBody("mass", 2, Dynamic, mgl32.Vec3{})
	if !near(b.Mass, 8, 1e-4) {
		t.Errorf("mass = %v, want the AABB volume 8", b.Mass)
	}
	if b.Collider() == nil {
		t.Error("built body has no collision object")
	}
}

func TestWithDensityScalesMass(t *testing.T) {
	b := boxBody("dense", 2, Dynamic, mgl32.Vec3{}).WithDensity(2)
	if !near(b.Mass, 16, 1e-3) {
		t.Errorf("mass = %v, want density 2 x volume 8 = 16", b.Mass)
	}

	scaled := boxBody("dense_scaled", 2, Dynamic, mgl32.Vec3{})
	scaled.Node().SetUniformScale(2)
	scaled.WithDensity(2)
	if !near(scaled.Mass, 128, 1e-2) {
		t.Errorf("scaled mass = %v, want 2 x 8 x 8 = 128", scaled.Mass)
	}
}

func TestWithDensityRejectsBadInput(t *testing.T) {
	t.Run("negative", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("negative density should abort")
			}
		}()
		boxBody("neg", 2, Dynamic, mgl32.Vec3{}).WithDensity(-1)
	})
	t.Run("no mesh", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("density without geometry should abort")
			}
		}()
		NewBody(transform.NewNode(), Dynamic, "bare").WithDensity(1)
	})
}

func TestWithCollisionMeshFromFile(t *testing.T) {
	const tetra = `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`
	path := filepath.Join(t.TempDir(), "tetra.obj")
	if err := os.WriteFile(path, []byte(tetra), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := NewBody(transform.NewNode(), Dynamic, "tetra").
		WithCollisionMesh(path, collision.StopCriterion{})
	if err != nil {
		t.Fatalf("WithCollisionMesh: %v", err)
	}
	if !near(b.Mass, 1, 1e-4) {
		t.Errorf("tetra mass = %v, want its unit AABB volume 1", b.Mass)
	}

	if _, err := NewBody(transform.NewNode(), Dynamic, "x").
		WithCollisionMesh(filepath.Join(t.TempDir(), "absent.obj"), collision.StopCriterion{}); err == nil {
		t.Error("missing mesh file should report an error")
	}
}

func TestMomentInertiaOfCube(t *testing.T) {
	b := boxBody("tensor", 2, Dynamic, mgl32.Vec3{})
	inertia := b.MomentInertia()

	// A size-2 cube has every vertex at distance-squared 2 from each axis,
	// so the unit tensor is 2*I and mass 8 scales it to 16*I.
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			want := float32(0)
			if row == col {
				want = 16
			}
			if got := inertia.At(row, col); !near(got, want, 1e-3) {
				t.Errorf("inertia[%d][%d] = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestGeometryAttributesAreShared(t *testing.T) {
	a := boxBody("share", 2, Dynamic, mgl32.Vec3{})
	b := boxBody("share", 2, Dynamic, mgl32.Vec3{5, 0, 0})
	if a.Collider().Mesh() != b.Collider().Mesh() {
		t.Fatal("same name and size should share one mesh")
	}

	a.WithMethod(collision.MethodSphere)
	if got := b.Method(); got != collision.MethodSphere {
		t.Errorf("method tag on shared geometry = %v, want %v", got, collision.MethodSphere)
	}
}

func TestBodyWithoutGeometry(t *testing.T) {
	b := NewBody(transform.NewNode(), Dynamic, "ghost")
	if b.MomentInertia() != (mgl32.Mat3{}) {
		t.Error("body without geometry should report a zero inertia tensor")
	}
	if b.Method() != collision.MethodTriangle {
		t.Errorf("method = %v, want the zero method", b.Method())
	}
	if b.Mass != 0 {
		t.Errorf("mass = %v, want 0", b.Mass)
	}
}
