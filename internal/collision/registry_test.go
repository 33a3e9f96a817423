package collision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tetraOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

func TestBuildSharesMeshPerCriterion(t *testing.T) {
	reg := NewRegistry()
	tris := cubeTris(mgl32.Vec3{}, 2)

	a := reg.Build("crate", tris, StopCriterion{})
	b := reg.Build("crate", tris, StopCriterion{})
	if a != b {
		t.Fatalf("same name and criterion returned distinct meshes")
	}
	if a.ID() != b.ID() {
		t.Errorf("shared mesh reports distinct ids %d and %d", a.ID(), b.ID())
	}

	c := reg.Build("crate", tris, StopCriterion{MaxDepth: 4, MinTris: 2})
	if c == a {
		t.Errorf("different criterion should build a separate mesh")
	}
	if c.ID() == a.ID() {
		t.Errorf("separate mesh reused geometry id %d", a.ID())
	}
	if reg.Len() != 2 {
		t.Errorf("registry holds %d meshes, want 2", reg.Len())
	}
}

func TestLoadSharesMeshPerPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tetra.obj")
	if err := os.WriteFile(path, []byte(tetraOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	a, err := reg.Load(path, StopCriterion{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := reg.Load(path, StopCriterion{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a != b {
		t.Errorf("same path and criterion returned distinct meshes")
	}
	if len(a.Triangles()) != 4 {
		t.Errorf("tetra mesh has %d triangles, want 4", len(a.Triangles()))
	}

	c, err := reg.Load(path, StopCriterion{MaxDepth: 2, MinTris: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c == a {
		t.Errorf("different criterion should not share the cached mesh")
	}
}

func TestLoadMissingFile(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Load(filepath.Join(t.TempDir(), "absent.obj"), StopCriterion{}); err == nil {
		t.Fatal("expected an error for a missing mesh file")
	}
}
