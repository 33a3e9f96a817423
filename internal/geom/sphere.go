package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) Intersects(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.Sub(o.Center).LenSqr() <= r*r
}

func (s Sphere) ContainsPoint(p mgl32.Vec3) bool {
	return s.Center.Sub(p).LenSqr() <= s.Radius*s.Radius
}

// ContainsSphere reports whether o lies entirely inside s.
func (s Sphere) ContainsSphere(o Sphere) bool {
	if o.Radius > s.Radius {
		return false
	}
	return s.Center.Sub(o.Center).Len()+o.Radius <= s.Radius
}

// BoundingSphereOf returns a sphere around the given points, centered on
// their bounding-box center. Not minimal, but cheap and conservative.
func BoundingSphereOf(pts ...mgl32.Vec3) Sphere {
	if len(pts) == 0 {
		return Sphere{}
	}
	center := AABBFromPoints(pts...).Center()
	var maxSq float32
	for _, p := range pts {
		if d := p.Sub(center).LenSqr(); d > maxSq {
			maxSq = d
		}
	}
	return Sphere{Center: center, Radius: math32.Sqrt(maxSq)}
}
