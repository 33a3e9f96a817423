package collision

import (
	"log"

	"github.com/pkg/errors"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
	"github.com/stephenverderame/ProjectOort-sub001/internal/meshio"
)

// Registry deduplicates collision meshes by (path, criterion). Every object
// built from the same key shares one Mesh and one geometry id. The registry
// owns its meshes for the lifetime of the process and is single-threaded
// like the rest of the pipeline.
type Registry struct {
	meshes map[meshKey]*Mesh
	nextID uint64
}

type meshKey struct {
	path string
	crit StopCriterion
}

func NewRegistry() *Registry {
	return &Registry{meshes: make(map[meshKey]*Mesh)}
}

// DefaultRegistry is the process-wide cache the convenience functions and
// the rigid-body builders go through.
var DefaultRegistry = NewRegistry()

// Load returns the shared mesh for path built with crit, reading and
// triangulating the file only on first use.
func (r *Registry) Load(path string, crit StopCriterion) (*Mesh, error) {
	key := meshKey{path: path, crit: crit}
	if m, ok := r.meshes[key]; ok {
		return m, nil
	}
	tris, err := meshio.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "collision mesh %s", path)
	}
	m := r.insert(key, tris, crit)
	log.Printf("Collision: loaded %s (%d triangles, geometry %d)", path, len(tris), m.id)
	return m, nil
}

// Build registers an in-memory triangle soup under a synthetic name, with
// the same sharing rules as Load. Procedural geometry and tests use this
// instead of going through a file.
func (r *Registry) Build(name string, tris []geom.Triangle, crit StopCriterion) *Mesh {
	key := meshKey{path: name, crit: crit}
	if m, ok := r.meshes[key]; ok {
		return m
	}
	return r.insert(key, tris, crit)
}

// Len is the number of distinct meshes held.
func (r *Registry) Len() int { return len(r.meshes) }

func (r *Registry) insert(key meshKey, tris []geom.Triangle, crit StopCriterion) *Mesh {
	r.nextID++
	m := newMesh(r.nextID, tris, crit)
	r.meshes[key] = m
	return m
}

// Load fetches from the default registry.
func Load(path string, crit StopCriterion) (*Mesh, error) {
	return DefaultRegistry.Load(path, crit)
}

// Build registers with the default registry.
func Build(name string, tris []geom.Triangle, crit StopCriterion) *Mesh {
	return DefaultRegistry.Build(name, tris, crit)
}
