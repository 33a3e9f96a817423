// Stress test comparing CPU vs GPU narrow-phase collision detection
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/compute"
	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

func main() {
	// Initialize compute
	info, err := compute.Initialize()
	if err != nil {
		panic(fmt.Sprintf("Failed to init compute: %v", err))
	}
	fmt.Printf("GPU: %s | %s | %s\n\n", info.Backend, info.Vendor, info.Name)

	phase, err := compute.NewTrianglePhase(compute.Get())
	if err != nil {
		panic(fmt.Sprintf("Failed to create triangle kernel: %v", err))
	}
	defer phase.Release()

	// Test various mesh resolutions
	testSegments := []int{4, 8, 12, 16, 24, 32}

	for _, seg := range testSegments {
		testNarrowPhase(phase, seg)
	}
}

func testNarrowPhase(phase *compute.TrianglePhase, segments int) {
	rand.Seed(42) // Consistent results

	// Two overlapping asteroid shells so the crossing band yields contacts
	meshA := asteroidTris(segments, 2*segments, mgl32.Vec3{})
	meshB := asteroidTris(segments, 2*segments, mgl32.Vec3{0.6, 0.2, 0.1})
	count := len(meshA)

	kernelA := toKernel(meshA)
	kernelB := toKernel(meshB)

	// Warm up
	if _, err := phase.Collide(kernelA, kernelB); err != nil {
		fmt.Printf("%5d tris/side: GPU ERROR: %v\n", count, err)
		return
	}

	// Time GPU
	gpuStart := time.Now()
	const gpuIterations = 10
	var gpuContacts []compute.Contact
	for i := 0; i < gpuIterations; i++ {
		gpuContacts, _ = phase.Collide(kernelA, kernelB)
	}
	gpuTime := time.Since(gpuStart) / gpuIterations

	// Time CPU (naive all-pairs)
	cpuStart := time.Now()
	const cpuIterations = 10
	var cpuContacts int
	for iter := 0; iter < cpuIterations; iter++ {
		cpuContacts = 0
		for i := range meshA {
			for j := range meshB {
				if _, ok := geom.TriTriIntersect(meshA[i], meshB[j]); ok {
					cpuContacts++
				}
			}
		}
	}
	cpuTime := time.Since(cpuStart) / cpuIterations

	// Calculate speedup
	speedup := float64(cpuTime) / float64(gpuTime)

	fmt.Printf("%5d tris/side: GPU %8v (%4d contacts) | CPU %10v (%4d contacts) | %.1fx speedup\n",
		count, gpuTime.Round(time.Microsecond), len(gpuContacts),
		cpuTime.Round(time.Microsecond), cpuContacts, speedup)
}

// asteroidTris builds a lat-long sphere of roughly unit radius with the
// radius jittered per vertex, centered at offset.
func asteroidTris(rings, sectors int, offset mgl32.Vec3) []geom.Triangle {
	grid := make([][]mgl32.Vec3, rings+1)
	for r := 0; r <= rings; r++ {
		grid[r] = make([]mgl32.Vec3, sectors)
		theta := math32.Pi * float32(r) / float32(rings)
		for s := 0; s < sectors; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(sectors)
			radius := 0.9 + rand.Float32()*0.2
			grid[r][s] = mgl32.Vec3{
				radius * math32.Sin(theta) * math32.Cos(phi),
				radius * math32.Cos(theta),
				radius * math32.Sin(theta) * math32.Sin(phi),
			}.Add(offset)
		}
	}

	tris := make([]geom.Triangle, 0, 2*rings*sectors)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			sn := (s + 1) % sectors
			tris = append(tris,
				geom.NewTriangle(grid[r][s], grid[r+1][s], grid[r+1][sn]),
				geom.NewTriangle(grid[r][s], grid[r+1][sn], grid[r][sn]),
			)
		}
	}
	return tris
}

func toKernel(tris []geom.Triangle) []compute.Triangle {
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
