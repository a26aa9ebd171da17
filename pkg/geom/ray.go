package geom

import (
	"image/color"

	"github.com/taigrr/raycast/pkg/math3d"
)

// DefaultBackground is the color a ray carries until it hits something.
var DefaultBackground = color.RGBA{255, 255, 255, 255}

// Ray is the parametric line Start + t·(End-Start). Color holds the color
// resolved for the ray, the background until a hit is stamped on it.
type Ray struct {
	Start math3d.Vec3
	End   math3d.Vec3
	Color color.RGBA
}

// NewRay creates a ray from start through end colored with DefaultBackground.
func NewRay(start, end math3d.Vec3) Ray {
	return Ray{Start: start, End: end, Color: DefaultBackground}
}

// Direction returns End - Start (not normalized).
func (r Ray) Direction() math3d.Vec3 {
	return r.End.Sub(r.Start)
}

// At returns the point at parameter t.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Start.Lerp(r.End, t)
}

// IntersectPlane returns the parameter where the ray meets p.
func (r Ray) IntersectPlane(p Plane) (float64, bool) {
	return p.Intersect(r)
}
