package collision

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

func hasObject(list []*Object, o *Object) bool {
	for _, c := range list {
		if c == o {
			return true
		}
	}
	return false
}

// gridObjects places a 3x3x3 lattice of size-2 cubes at the given spacing.
// At spacing 3 the face neighbors overlap and the diagonal ones do not.
func gridObjects(name string, spacing float32) []*Object {
	var objs []*Object
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				at := mgl32.Vec3{float32(x), float32(y), float32(z)}.Mul(spacing)
				objs = append(objs, cubeObject(name, 2, at))
			}
		}
	}
	return objs
}

func checkAgainstBruteForce(t *testing.T, tree *Octree, objs []*Object) {
	t.Helper()
	for i, obj := range objs {
		got := tree.Colliders(obj)
		if hasObject(got, obj) {
			t.Errorf("object %d lists itself as a collider", i)
		}
		seen := make(map[*Object]int, len(got))
		for _, c := range got {
			seen[c]++
		}
		for _, n := range seen {
			if n > 1 {
				t.Errorf("object %d lists a collider %d times", i, n)
			}
		}
		for j, other := range objs {
			if other == obj || !other.Tracked() {
				continue
			}
			want := obj.WorldSphere().Intersects(other.WorldSphere())
			if want && seen[other] == 0 {
				t.Errorf("object %d misses overlapping object %d", i, j)
			}
			if !want && seen[other] != 0 {
				t.Errorf("object %d lists non-overlapping object %d", i, j)
			}
		}
	}
}

func TestOctreeCollidersMatchBruteForce(t *testing.T) {
	tree := NewOctree(mgl32.Vec3{}, 100, 0, 0)
	objs := gridObjects("grid", 3)
	for _, o := range objs {
		tree.Insert(o)
		if !o.Tracked() {
			t.Fatal("inserted object is not tracked")
		}
	}
	checkAgainstBruteForce(t, tree, objs)
}

func TestOctreeInsertIsIdempotent(t *testing.T) {
	tree := NewOctree(mgl32.Vec3{}, 100, 0, 0)
	a := cubeObject("dup", 2, mgl32.Vec3{0, 0, 0})
	b := cubeObject("dup", 2, mgl32.Vec3{1, 0, 0})
	tree.Insert(a)
	tree.Insert(a)
	tree.Insert(b)

	got := tree.Colliders(b)
	n := 0
	for _, c := range got {
		if c == a {
			n++
		}
	}
	if n != 1 {
		t.Errorf("neighbor listed %d times after double insert, want 1", n)
	}
}

func TestOctreeUpdateFollowsMovement(t *testing.T) {
	tree := NewOctree(mgl32.Vec3{}, 100, 0, 0)
	objs := gridObjects("roam", 3)
	for _, o := range objs {
		tree.Insert(o)
	}

	mover := objs[13]
	mover.Node().SetPosition(mgl32.Vec3{60, 60, 60})
	tree.Update(mover)

	if got := tree.Colliders(mover); len(got) != 0 {
		t.Errorf("moved object still reports %d colliders", len(got))
	}
	checkAgainstBruteForce(t, tree, objs)

	mover.Node().SetPosition(mgl32.Vec3{0, 0, 0})
	tree.Update(mover)
	checkAgainstBruteForce(t, tree, objs)
}

func TestOctreeRemove(t *testing.T) {
	tree := NewOctree(mgl32.Vec3{}, 100, 0, 0)
	a := cubeObject("gone", 2, mgl32.Vec3{0, 0, 0})
	b := cubeObject("gone", 2, mgl32.Vec3{1.5, 0, 0})
	tree.Insert(a)
	tree.Insert(b)

	tree.Remove(a)
	if a.Tracked() {
		t.Error("removed object still tracked")
	}
	if got := tree.Colliders(b); hasObject(got, a) {
		t.Error("removed object still returned by queries")
	}
}

func TestOctreeSplitKeepsStraddlers(t *testing.T) {
	tree := NewOctree(mgl32.Vec3{}, 64, 0, 0)
	var objs []*Object
	// Eight per octant pushes every cell past occupancy while one big
	// straddler spans the root planes throughout.
	straddler := cubeObject("strad", 24, mgl32.Vec3{0, 0, 0})
	objs = append(objs, straddler)
	tree.Insert(straddler)
	i := 0
	for x := -1; x <= 1; x += 2 {
		for y := -1; y <= 1; y += 2 {
			for z := -1; z <= 1; z += 2 {
				for k := 0; k < 8; k++ {
					at := mgl32.Vec3{
						float32(x) * (10 + float32(k)*3),
						float32(y) * 12,
						float32(z) * 12,
					}
					o := cubeObject(fmt.Sprintf("oct%d", i), 2, at)
					i++
					objs = append(objs, o)
					tree.Insert(o)
				}
			}
		}
	}
	checkAgainstBruteForce(t, tree, objs)
	if !hasObject(tree.Colliders(objs[1]), straddler) {
		t.Error("straddling object lost after splits")
	}
}

func TestOctreeOutOfBoundsObjectsStillCollide(t *testing.T) {
	tree := NewOctree(mgl32.Vec3{}, 10, 0, 0)
	a := cubeObject("oob", 2, mgl32.Vec3{50, 0, 0})
	b := cubeObject("oob", 2, mgl32.Vec3{50.5, 0, 0})
	inside := cubeObject("oob", 2, mgl32.Vec3{0, 0, 0})
	tree.Insert(a)
	tree.Insert(b)
	tree.Insert(inside)

	if !a.Tracked() {
		t.Fatal("object beyond the tree bounds is not tracked")
	}
	got := tree.Colliders(a)
	if !hasObject(got, b) {
		t.Error("overlapping pair outside the tree bounds was missed")
	}
	if hasObject(got, inside) {
		t.Error("distant in-bounds object returned for an out-of-bounds query")
	}
	checkAgainstBruteForce(t, tree, []*Object{a, b, inside})

	ray := geom.NewRay(mgl32.Vec3{40, 0, 0}, mgl32.Vec3{1, 0, 0})
	if got := tree.RayQuery(ray, 100); !hasObject(got, a) {
		t.Error("ray query missed an object outside the tree bounds")
	}
}

func TestOctreeRayQuery(t *testing.T) {
	tree := NewOctree(mgl32.Vec3{}, 100, 0, 0)
	var line []*Object
	for i := 1; i <= 6; i++ {
		o := cubeObject("beam", 1, mgl32.Vec3{float32(i) * 5, 0, 0})
		line = append(line, o)
		tree.Insert(o)
	}
	off := cubeObject("beam_off", 1, mgl32.Vec3{10, 50, 0})
	tree.Insert(off)

	got := tree.RayQuery(geom.NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}), 17)
	for i, o := range line {
		want := i < 3
		if hasObject(got, o) != want {
			t.Errorf("object at x=%v in result = %v, want %v", float32(i+1)*5, !want, want)
		}
	}
	if hasObject(got, off) {
		t.Error("ray query returned an object far off the ray")
	}
}
