package collision

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/compute"
	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// GPUNarrowPhase offloads the exact triangle tests to a WebGPU compute
// kernel. Candidate counts after BVH pruning still multiply out to n*m pair
// tests, which is where the parallelism pays off once many instanced objects
// overlap at once.
type GPUNarrowPhase struct {
	phase *compute.TrianglePhase
}

// NewGPUNarrowPhase acquires the compute device and compiles the kernel,
// failing fast when either is unavailable. There is no silent CPU fallback;
// callers that want one construct a CPUNarrowPhase themselves.
func NewGPUNarrowPhase() (*GPUNarrowPhase, error) {
	info, err := compute.Initialize()
	if err != nil {
		return nil, fmt.Errorf("gpu narrow phase: %w", err)
	}
	phase, err := compute.NewTrianglePhase(compute.Get())
	if err != nil {
		return nil, fmt.Errorf("gpu narrow phase: %w", err)
	}
	log.Printf("Collision: GPU narrow phase on %s (%s)", info.Name, info.Backend)
	return &GPUNarrowPhase{phase: phase}, nil
}

func (g *GPUNarrowPhase) Collide(worldA, worldB []geom.Triangle) (HitResult, error) {
	if len(worldA) == 0 || len(worldB) == 0 {
		return HitResult{Kind: HitNone}, nil
	}
	contacts, err := g.phase.Collide(packTriangles(worldA), packTriangles(worldB))
	if err != nil {
		return HitResult{}, err
	}
	var acc contactAccum
	for _, c := range contacts {
		acc.add(unpack(c.Point), unpack(c.NormalA), unpack(c.NormalB))
	}
	return acc.result(), nil
}

// Release frees the kernel's GPU buffers.
func (g *GPUNarrowPhase) Release() {
	g.phase.Release()
}

func packTriangles(tris []geom.Triangle) []compute.Triangle {
	out := make([]compute.Triangle, len(tris))
	for i, t := range tris {
		out[i] = compute.Triangle{
			A: [4]float32{t.A.X(), t.A.Y(), t.A.Z(), 0},
			B: [4]float32{t.B.X(), t.B.Y(), t.B.Z(), 0},
			C: [4]float32{t.C.X(), t.C.Y(), t.C.Z(), 0},
		}
	}
	return out
}

func unpack(v [4]float32) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}
