package meshio

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// LoadGLTF reads every triangle primitive out of a .gltf or .glb file. Scene
// node transforms are ignored; collision meshes are expected to be authored
// in object space.
func LoadGLTF(path string) ([]geom.Triangle, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %s", path)
	}

	var tris []geom.Triangle
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "read positions in %s", path)
			}

			if prim.Indices == nil {
				for i := 0; i+2 < len(pos); i += 3 {
					tris = append(tris, triAt(pos, uint32(i), uint32(i+1), uint32(i+2)))
				}
				continue
			}
			ind, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "read indices in %s", path)
			}
			for i := 0; i+2 < len(ind); i += 3 {
				a, b, c := ind[i], ind[i+1], ind[i+2]
				if int(a) >= len(pos) || int(b) >= len(pos) || int(c) >= len(pos) {
					return nil, errors.Errorf("index out of range in %s", path)
				}
				tris = append(tris, triAt(pos, a, b, c))
			}
		}
	}
	if len(tris) == 0 {
		return nil, errors.Errorf("no triangle data in %s", path)
	}
	return tris, nil
}

func triAt(pos [][3]float32, a, b, c uint32) geom.Triangle {
	return geom.NewTriangle(
		mgl32.Vec3(pos[a]),
		mgl32.Vec3(pos[b]),
		mgl32.Vec3(pos[c]),
	)
}
