// Smoke test for the compute backend: runs a trivial kernel through the
// generic pipeline path, then a known-answer pair through the triangle phase
package main

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/stephenverderame/ProjectOort-sub001/internal/compute"
)

// Doubles every number in a buffer
const doubleShader = `
@group(0) @binding(0)
var<storage, read_write> data: array<f32>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < arrayLength(&data)) {
        data[idx] = data[idx] * 2.0;
    }
}
`

func main() {
	info, err := compute.Initialize()
	if err != nil {
		panic(fmt.Sprintf("Failed to init compute: %v", err))
	}
	fmt.Printf("Using GPU: %s (%s)\n", info.Name, info.Backend)

	sys := compute.Get()

	// Generic pipeline path: upload, double, read back
	pipeline, err := sys.CreatePipeline("double", doubleShader, "main")
	if err != nil {
		panic(fmt.Sprintf("Failed to create pipeline: %v", err))
	}

	input := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	buf, err := sys.CreateBufferWithData("probe_data", compute.ToBytes(input),
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	if err != nil {
		panic(fmt.Sprintf("Failed to create buffer: %v", err))
	}
	defer buf.Release()

	err = sys.Dispatch(compute.DispatchParams{
		Pipeline:    pipeline,
		Buffers:     []*compute.Buffer{buf},
		WorkgroupsX: uint32((len(input) + 63) / 64),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to dispatch: %v", err))
	}

	raw, err := sys.ReadBuffer(buf)
	if err != nil {
		panic(fmt.Sprintf("Failed to read buffer: %v", err))
	}
	output := compute.FromBytes[float32](raw)

	fmt.Printf("Input:  %v\n", input)
	fmt.Printf("Output: %v\n", output)

	// Triangle kernel with a known answer: these two cross at (2, 1, 0)
	phase, err := compute.NewTrianglePhase(sys)
	if err != nil {
		panic(fmt.Sprintf("Failed to create triangle kernel: %v", err))
	}
	defer phase.Release()

	a := []compute.Triangle{{
		A: [4]float32{0, 0, 0},
		B: [4]float32{4, 0, 0},
		C: [4]float32{0, 4, 0},
	}}
	b := []compute.Triangle{{
		A: [4]float32{1, 1, -1},
		B: [4]float32{3, 1, -1},
		C: [4]float32{2, 1, 2},
	}}

	contacts, err := phase.Collide(a, b)
	if err != nil {
		panic(fmt.Sprintf("Failed to run triangle phase: %v", err))
	}
	fmt.Printf("Contacts: %d\n", len(contacts))
	for _, c := range contacts {
		fmt.Printf("  point (%.2f, %.2f, %.2f) normals (%.2f, %.2f, %.2f) / (%.2f, %.2f, %.2f)\n",
			c.Point[0], c.Point[1], c.Point[2],
			c.NormalA[0], c.NormalA[1], c.NormalA[2],
			c.NormalB[0], c.NormalB[1], c.NormalB[2])
	}
}
