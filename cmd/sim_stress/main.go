// Stress test stepping the full rigid-body pipeline on an asteroid field
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stephenverderame/ProjectOort-sub001/internal/collision"
	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
	"github.com/stephenverderame/ProjectOort-sub001/internal/physics"
	"github.com/stephenverderame/ProjectOort-sub001/internal/transform"
)

const (
	stepCount = 120
	stepDt    = 1.0 / 60.0
)

func main() {
	testCounts := []int{50, 100, 250, 500, 1000}

	for _, count := range testCounts {
		testSimulation(count)
	}
}

func testSimulation(count int) {
	cpuHits := 0
	cpuSim := physics.NewSimulation(physics.DefaultTuning(), physics.Hooks[int]{
		OnHit: func(a, b *physics.RigidBody[int], hit collision.HitResult) { cpuHits++ },
	})
	defer cpuSim.Release()

	cpuStep, err := runField(cpuSim, count)
	if err != nil {
		fmt.Printf("%5d bodies: CPU step error: %v\n", count, err)
		return
	}

	gpuHits := 0
	gpuSim, err := physics.NewGPUSimulation(physics.DefaultTuning(), physics.Hooks[int]{
		OnHit: func(a, b *physics.RigidBody[int], hit collision.HitResult) { gpuHits++ },
	})
	if err != nil {
		fmt.Printf("%5d bodies: CPU %8v/step (%5d hits) | GPU unavailable: %v\n",
			count, cpuStep.Round(time.Microsecond), cpuHits, err)
		return
	}
	defer gpuSim.Release()

	gpuStep, err := runField(gpuSim, count)
	if err != nil {
		fmt.Printf("%5d bodies: GPU step error: %v\n", count, err)
		return
	}

	fmt.Printf("%5d bodies: CPU %8v/step (%5d hits) | GPU %8v/step (%5d hits) | %.1fx speedup\n",
		count, cpuStep.Round(time.Microsecond), cpuHits,
		gpuStep.Round(time.Microsecond), gpuHits,
		float64(cpuStep)/float64(gpuStep))
}

// runField spawns a collapsing shell of asteroids around a static core and
// steps it, returning the mean step duration.
func runField(sim *physics.Simulation[int], count int) (time.Duration, error) {
	rand.Seed(42) // Consistent results

	// One shared cube mesh; the registry hands every body the same BVH
	asteroid := collision.Build("stress_asteroid", cubeTris(2), collision.StopCriterion{})

	for i := 0; i < count; i++ {
		dir := mgl32.Vec3{
			rand.Float32()*2 - 1,
			rand.Float32()*2 - 1,
			rand.Float32()*2 - 1,
		}.Normalize()
		radius := 10 + rand.Float32()*20

		body := physics.NewBody(transform.NewNodeAt(dir.Mul(radius)), physics.Dynamic, i).
			WithBuiltMesh(asteroid)
		body.Velocity = dir.Mul(-(3 + rand.Float32()*5))
		body.RotVelocity = mgl32.Vec3{rand.Float32(), rand.Float32(), rand.Float32()}
		sim.Add(body)
	}

	core := physics.NewBody(transform.NewNodeAt(mgl32.Vec3{}), physics.Static, -1).
		WithBuiltMesh(collision.Build("stress_core", cubeTris(8), collision.StopCriterion{}))
	sim.Add(core)

	start := time.Now()
	for i := 0; i < stepCount; i++ {
		if err := sim.Step(stepDt); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / stepCount, nil
}

func cubeTris(size float32) []geom.Triangle {
	h := size / 2
	quad := func(a, b, c, d mgl32.Vec3) []geom.Triangle {
		return []geom.Triangle{geom.NewTriangle(a, b, c), geom.NewTriangle(a, c, d)}
	}
	var tris []geom.Triangle
	tris = append(tris, quad(mgl32.Vec3{-h, -h, h}, mgl32.Vec3{h, -h, h}, mgl32.Vec3{h, h, h}, mgl32.Vec3{-h, h, h})...)
	tris = append(tris, quad(mgl32.Vec3{h, -h, -h}, mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{-h, h, -h}, mgl32.Vec3{h, h, -h})...)
	tris = append(tris, quad(mgl32.Vec3{h, -h, h}, mgl32.Vec3{h, -h, -h}, mgl32.Vec3{h, h, -h}, mgl32.Vec3{h, h, h})...)
	tris = append(tris, quad(mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{-h, -h, h}, mgl32.Vec3{-h, h, h}, mgl32.Vec3{-h, h, -h})...)
	tris = append(tris, quad(mgl32.Vec3{-h, h, h}, mgl32.Vec3{h, h, h}, mgl32.Vec3{h, h, -h}, mgl32.Vec3{-h, h, -h})...)
	tris = append(tris, quad(mgl32.Vec3{-h, -h, -h}, mgl32.Vec3{h, -h, -h}, mgl32.Vec3{h, -h, h}, mgl32.Vec3{-h, -h, h})...)
	return tris
}
