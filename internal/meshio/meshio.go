// Package meshio reads triangle geometry for collision meshes. Only vertex
// positions survive loading; materials, normals and texture data are dropped.
package meshio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// Load reads the triangle soup from an .obj, .gltf or .glb file. Any other
// extension is an error.
func Load(path string) ([]geom.Triangle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open mesh")
		}
		defer f.Close()
		tris, err := DecodeOBJ(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
		return tris, nil
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, errors.Errorf("unsupported mesh format %q", filepath.Ext(path))
	}
}
