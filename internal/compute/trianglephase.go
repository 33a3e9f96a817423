// GPU-accelerated exact narrow phase over candidate triangle pairs.
package compute

import (
	"fmt"
	"log"

	"github.com/cogentcore/webgpu/wgpu"
)

// Triangle is one input triangle in the kernel's storage layout: three
// 16-byte aligned vertices, w unused. Normals are recomputed on the GPU from
// the winding, matching the CPU path.
type Triangle struct {
	A [4]float32
	B [4]float32
	C [4]float32
}

// Contact is one raw triangle-pair intersection as the kernel reports it:
// the contact point plus the unit normal of the triangle on each side.
type Contact struct {
	Point   [4]float32
	NormalA [4]float32
	NormalB [4]float32
}

type phaseParams struct {
	CountA uint32
	CountB uint32
	Pad0   uint32
	Pad1   uint32
}

const (
	triangleStride = 48 // 3 * vec4<f32>
	contactStride  = 48

	// Hard cap per side; a candidate list this long means pruning failed
	// upstream and the n*m pair count would no longer be dispatchable.
	maxTrianglesPerSide = 1 << 20

	// Contacts past this are dropped by the kernel's bounds check. The
	// consumer averages contacts, so losing overflow entries shifts the
	// average slightly instead of breaking anything.
	maxContacts = 4096

	initialTriCapacity = 1024

	// One dispatch dimension holds at most 65535 workgroups; pair counts
	// beyond that spill into Y.
	maxGroupsPerDim = 65535
)

// TrianglePhase owns the persistent GPU resources for the triangle-triangle
// kernel: two input buffers, the contact output, an atomic contact counter
// and the pair-count uniform. Buffers grow as larger candidate sets arrive
// and are reused across dispatches.
type TrianglePhase struct {
	system *System
	pipe   *Pipeline

	triA     *Buffer
	triB     *Buffer
	contacts *Buffer
	count    *Buffer
	params   *Buffer

	capA int
	capB int
}

// NewTrianglePhase compiles the kernel and allocates the initial buffers on
// an already initialized system.
func NewTrianglePhase(sys *System) (*TrianglePhase, error) {
	if sys == nil {
		return nil, fmt.Errorf("compute system not initialized")
	}

	storage := func(binding uint32, typ wgpu.BufferBindingType) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageCompute,
			Buffer:     wgpu.BufferBindingLayout{Type: typ},
		}
	}
	pipe, err := sys.CreatePipelineExplicit("trianglephase", trianglePhaseShader, "main",
		[]wgpu.BindGroupLayoutEntry{
			storage(0, wgpu.BufferBindingTypeReadOnlyStorage),
			storage(1, wgpu.BufferBindingTypeReadOnlyStorage),
			storage(2, wgpu.BufferBindingTypeStorage),
			storage(3, wgpu.BufferBindingTypeStorage),
			storage(4, wgpu.BufferBindingTypeUniform),
		})
	if err != nil {
		return nil, err
	}

	tp := &TrianglePhase{system: sys, pipe: pipe}
	if err := tp.allocate(); err != nil {
		tp.Release()
		return nil, err
	}
	return tp, nil
}

func (tp *TrianglePhase) allocate() error {
	var err error
	tp.capA, tp.capB = initialTriCapacity, initialTriCapacity

	tp.triA, err = tp.system.CreateBuffer("tri_a", uint64(tp.capA*triangleStride),
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	tp.triB, err = tp.system.CreateBuffer("tri_b", uint64(tp.capB*triangleStride),
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	tp.contacts, err = tp.system.CreateBuffer("contacts", uint64(maxContacts*contactStride),
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	tp.count, err = tp.system.CreateBuffer("contact_count", 4,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	tp.params, err = tp.system.CreateBuffer("phase_params", 16,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	return err
}

// Collide uploads both candidate sets, runs one pair test per invocation and
// reads the contacts back. The call blocks until the GPU finishes.
func (tp *TrianglePhase) Collide(a, b []Triangle) ([]Contact, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}
	if len(a) > maxTrianglesPerSide || len(b) > maxTrianglesPerSide {
		return nil, fmt.Errorf("candidate set too large: %d x %d triangles", len(a), len(b))
	}

	if err := tp.ensureCapacity(len(a), len(b)); err != nil {
		return nil, err
	}

	tp.system.WriteBuffer(tp.triA, 0, ToBytes(a))
	tp.system.WriteBuffer(tp.triB, 0, ToBytes(b))
	tp.system.WriteBuffer(tp.count, 0, ToBytes([]uint32{0}))
	tp.system.WriteBuffer(tp.params, 0, ToBytes([]phaseParams{{
		CountA: uint32(len(a)),
		CountB: uint32(len(b)),
	}}))

	if err := tp.dispatch(len(a) * len(b)); err != nil {
		return nil, err
	}

	countData, err := tp.system.ReadBuffer(tp.count)
	if err != nil {
		return nil, err
	}
	n := int(FromBytes[uint32](countData)[0])
	if n == 0 {
		return nil, nil
	}
	if n > maxContacts {
		n = maxContacts
	}

	contactData, err := tp.system.ReadBuffer(tp.contacts)
	if err != nil {
		return nil, err
	}
	raw := FromBytes[Contact](contactData)
	out := make([]Contact, n)
	copy(out, raw[:n])
	return out, nil
}

// ensureCapacity grows an input buffer when a candidate set outsizes it.
func (tp *TrianglePhase) ensureCapacity(na, nb int) error {
	grow := func(buf **Buffer, capacity *int, need int, label string) error {
		if need <= *capacity {
			return nil
		}
		next := *capacity
		for next < need {
			next *= 2
		}
		created, err := tp.system.CreateBuffer(label, uint64(next*triangleStride),
			wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		(*buf).Release()
		*buf = created
		*capacity = next
		log.Printf("Compute: %s buffer grown to %d triangles", label, next)
		return nil
	}
	if err := grow(&tp.triA, &tp.capA, na, "tri_a"); err != nil {
		return err
	}
	return grow(&tp.triB, &tp.capB, nb, "tri_b")
}

func (tp *TrianglePhase) dispatch(pairs int) error {
	groups := (pairs + 255) / 256
	wx := groups
	wy := 1
	if wx > maxGroupsPerDim {
		wx = maxGroupsPerDim
		wy = (groups + maxGroupsPerDim - 1) / maxGroupsPerDim
	}
	return tp.system.Dispatch(DispatchParams{
		Pipeline:    tp.pipe,
		Buffers:     []*Buffer{tp.triA, tp.triB, tp.contacts, tp.count, tp.params},
		WorkgroupsX: uint32(wx),
		WorkgroupsY: uint32(wy),
	})
}

// Release frees the kernel's buffers. The compiled pipeline lives in the
// system cache and is released with the system.
func (tp *TrianglePhase) Release() {
	for _, b := range []*Buffer{tp.triA, tp.triB, tp.contacts, tp.count, tp.params} {
		if b != nil {
			b.Release()
		}
	}
}

// The kernel mirrors the CPU interval triangle test step for step: flush
// near-zero plane distances, reject same-side and coplanar pairs, intersect
// the edge-crossing segments on the plane intersection line and report the
// overlap midpoint, reconstructed on triangle a's segment.
const trianglePhaseShader = `
struct Tri {
    a: vec4<f32>,
    b: vec4<f32>,
    c: vec4<f32>,
}

struct Contact {
    point: vec4<f32>,
    normal_a: vec4<f32>,
    normal_b: vec4<f32>,
}

struct Params {
    count_a: u32,
    count_b: u32,
    pad0: u32,
    pad1: u32,
}

@group(0) @binding(0) var<storage, read> tris_a: array<Tri>;
@group(0) @binding(1) var<storage, read> tris_b: array<Tri>;
@group(0) @binding(2) var<storage, read_write> contacts: array<Contact>;
@group(0) @binding(3) var<storage, read_write> contact_count: atomic<u32>;
@group(0) @binding(4) var<uniform> params: Params;

const EPS: f32 = 1e-6;

fn flush_eps(d: f32) -> f32 {
    if (abs(d) < EPS) {
        return 0.0;
    }
    return d;
}

fn tri_normal(a: vec3<f32>, b: vec3<f32>, c: vec3<f32>) -> vec3<f32> {
    let n = cross(b - a, c - a);
    let l = length(n);
    if (l > 1e-12) {
        return n / l;
    }
    return vec3<f32>(0.0, 0.0, 0.0);
}

struct Seg {
    n: u32,
    p0: vec3<f32>,
    p1: vec3<f32>,
}

// Collects where the triangle's edges cross the plane its vertex distances
// were measured against. Only the first two points matter downstream.
fn plane_crossings(v0: vec3<f32>, v1: vec3<f32>, v2: vec3<f32>,
                   d0: f32, d1: f32, d2: f32) -> Seg {
    var v = array<vec3<f32>, 3>(v0, v1, v2);
    var d = array<f32, 3>(d0, d1, d2);
    var s: Seg;
    s.n = 0u;
    for (var i = 0u; i < 3u; i = i + 1u) {
        let j = (i + 1u) % 3u;
        if (d[i] == 0.0) {
            if (s.n == 0u) {
                s.p0 = v[i];
            } else if (s.n == 1u) {
                s.p1 = v[i];
            }
            s.n = s.n + 1u;
            continue;
        }
        if (d[j] != 0.0 && ((d[i] > 0.0) != (d[j] > 0.0))) {
            let t = d[i] / (d[i] - d[j]);
            let p = v[i] + (v[j] - v[i]) * t;
            if (s.n == 0u) {
                s.p0 = p;
            } else if (s.n == 1u) {
                s.p1 = p;
            }
            s.n = s.n + 1u;
        }
    }
    return s;
}

fn dominant_axis(v: vec3<f32>) -> u32 {
    let a = abs(v);
    if (a.x >= a.y && a.x >= a.z) {
        return 0u;
    }
    if (a.y >= a.z) {
        return 1u;
    }
    return 2u;
}

fn axis_value(p: vec3<f32>, axis: u32) -> f32 {
    if (axis == 0u) {
        return p.x;
    }
    if (axis == 1u) {
        return p.y;
    }
    return p.z;
}

struct TriHit {
    hit: bool,
    point: vec3<f32>,
}

fn tri_tri(a0: vec3<f32>, a1: vec3<f32>, a2: vec3<f32>,
           b0: vec3<f32>, b1: vec3<f32>, b2: vec3<f32>,
           na: vec3<f32>, nb: vec3<f32>) -> TriHit {
    var out: TriHit;
    out.hit = false;

    // Distances of a's vertices to b's plane.
    let d2 = -dot(nb, b0);
    let da0 = flush_eps(dot(nb, a0) + d2);
    let da1 = flush_eps(dot(nb, a1) + d2);
    let da2 = flush_eps(dot(nb, a2) + d2);
    if ((da0 > 0.0 && da1 > 0.0 && da2 > 0.0) || (da0 < 0.0 && da1 < 0.0 && da2 < 0.0)) {
        return out;
    }
    if (da0 == 0.0 && da1 == 0.0 && da2 == 0.0) {
        return out; // coplanar
    }

    // Distances of b's vertices to a's plane.
    let d1 = -dot(na, a0);
    let db0 = flush_eps(dot(na, b0) + d1);
    let db1 = flush_eps(dot(na, b1) + d1);
    let db2 = flush_eps(dot(na, b2) + d1);
    if ((db0 > 0.0 && db1 > 0.0 && db2 > 0.0) || (db0 < 0.0 && db1 < 0.0 && db2 < 0.0)) {
        return out;
    }

    let seg_a = plane_crossings(a0, a1, a2, da0, da1, da2);
    if (seg_a.n < 2u) {
        return out;
    }
    let seg_b = plane_crossings(b0, b1, b2, db0, db1, db2);
    if (seg_b.n < 2u) {
        return out;
    }

    let axis = dominant_axis(cross(na, nb));
    var p1a = seg_a.p0;
    var p1b = seg_a.p1;
    var s1a = axis_value(p1a, axis);
    var s1b = axis_value(p1b, axis);
    if (s1a > s1b) {
        let ts = s1a; s1a = s1b; s1b = ts;
        let tp = p1a; p1a = p1b; p1b = tp;
    }
    var s2a = axis_value(seg_b.p0, axis);
    var s2b = axis_value(seg_b.p1, axis);
    if (s2a > s2b) {
        let ts = s2a; s2a = s2b; s2b = ts;
    }

    let lo = max(s1a, s2a);
    let hi = min(s1b, s2b);
    if (lo > hi) {
        return out;
    }

    out.hit = true;
    if (s1b - s1a < EPS) {
        out.point = p1a;
        return out;
    }
    let t = ((lo + hi) * 0.5 - s1a) / (s1b - s1a);
    out.point = p1a + (p1b - p1a) * t;
    return out;
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    // 16776960 = 65535 workgroups * 256 invocations, the X span of one row.
    let idx = gid.x + gid.y * 16776960u;
    let total = params.count_a * params.count_b;
    if (idx >= total) {
        return;
    }
    let i = idx / params.count_b;
    let j = idx % params.count_b;

    let ta = tris_a[i];
    let tb = tris_b[j];
    let a0 = ta.a.xyz; let a1 = ta.b.xyz; let a2 = ta.c.xyz;
    let b0 = tb.a.xyz; let b1 = tb.b.xyz; let b2 = tb.c.xyz;
    let na = tri_normal(a0, a1, a2);
    let nb = tri_normal(b0, b1, b2);

    let r = tri_tri(a0, a1, a2, b0, b1, b2, na, nb);
    if (!r.hit) {
        return;
    }

    let slot = atomicAdd(&contact_count, 1u);
    if (slot < arrayLength(&contacts)) {
        contacts[slot] = Contact(
            vec4<f32>(r.point, 1.0),
            vec4<f32>(na, 0.0),
            vec4<f32>(nb, 0.0));
    }
}
`
