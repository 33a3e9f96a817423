package meshio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/stephenverderame/ProjectOort-sub001/internal/geom"
)

// DecodeOBJ parses Wavefront OBJ geometry. Faces with more than three
// vertices are fan-triangulated; negative indices count back from the most
// recent vertex. Everything except v and f records is skipped.
func DecodeOBJ(r io.Reader) ([]geom.Triangle, error) {
	var verts []mgl32.Vec3
	var tris []geom.Triangle

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var v mgl32.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: bad coordinate", lineNo)
				}
				v[i] = float32(f)
			}
			verts = append(verts, v)

		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, fld := range fields[1:] {
				i, err := faceIndex(fld, len(verts))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNo)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				tris = append(tris, geom.NewTriangle(verts[idx[0]], verts[idx[k]], verts[idx[k+1]]))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read obj")
	}
	return tris, nil
}

// faceIndex resolves one face vertex reference to a zero-based index,
// dropping any /vt/vn suffix.
func faceIndex(s string, nverts int) (int, error) {
	ref := s
	if j := strings.IndexByte(ref, '/'); j >= 0 {
		ref = ref[:j]
	}
	v, err := strconv.Atoi(ref)
	if err != nil {
		return 0, errors.Wrapf(err, "bad face vertex %q", s)
	}
	if v < 0 {
		v += nverts
	} else {
		v--
	}
	if v < 0 || v >= nverts {
		return 0, errors.Errorf("face vertex %q out of range", s)
	}
	return v, nil
}
