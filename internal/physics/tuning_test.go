package physics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTuning(t *testing.T) {
	d := DefaultTuning()
	if !near(d.Restitution, 1.52, 1e-6) {
		t.Errorf("restitution = %v, want 1.52", d.Restitution)
	}
	if !near(d.SeparationBias, 0.1, 1e-6) {
		t.Errorf("separation bias = %v, want 0.1", d.SeparationBias)
	}
	if !near(d.RestEpsilon, 0.05, 1e-6) {
		t.Errorf("rest epsilon = %v, want 0.05", d.RestEpsilon)
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	got, err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if got != DefaultTuning() {
		t.Errorf("missing file yielded %+v, want defaults", got)
	}
}

func TestLoadTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	data := "restitution: 2.5\noctree_depth: 5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if !near(got.Restitution, 2.5, 1e-6) {
		t.Errorf("restitution = %v, want the file's 2.5", got.Restitution)
	}
	if got.OctreeDepth != 5 {
		t.Errorf("octree depth = %d, want the file's 5", got.OctreeDepth)
	}
	if !near(got.SeparationBias, 0.1, 1e-6) {
		t.Errorf("separation bias = %v, want the default kept", got.SeparationBias)
	}
}

func TestLoadTuningUnreadablePath(t *testing.T) {
	// A directory is present but not readable as a file; unlike a missing
	// file this must surface the failure instead of silently defaulting.
	got, err := LoadTuning(t.TempDir())
	if err == nil {
		t.Error("unreadable tuning path should report an error")
	}
	if got != DefaultTuning() {
		t.Errorf("unreadable path yielded %+v, want defaults", got)
	}
}

func TestLoadTuningMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("restitution: [not a number\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTuning(path)
	if err == nil {
		t.Error("malformed file should report an error")
	}
	if got != DefaultTuning() {
		t.Errorf("malformed file yielded %+v, want defaults", got)
	}
}
