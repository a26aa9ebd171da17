// Package geom provides the ray casting primitives: planes, rays, triangles
// and nearest-hit resolution over a triangle list.
package geom

import (
	"errors"
	"math"

	"github.com/taigrr/raycast/pkg/math3d"
)

// ErrDegenerateNormal is returned when three points do not span a plane.
var ErrDegenerateNormal = errors.New("geom: collinear points have no normal")

// degenerateRatio bounds |e1 × e2| relative to |e1|·|e2| below which the
// edges are treated as parallel.
const degenerateRatio = 1e-12

// Plane is the implicit plane A·x + B·y + C·z + D = 0 where (A, B, C) is the
// unit normal.
type Plane struct {
	A, B, C, D float64
}

// PlaneFromPoints builds the plane through v1, v2 and v3, with its normal
// oriented by (v2-v1) × (v3-v1).
func PlaneFromPoints(v1, v2, v3 math3d.Vec3) (Plane, error) {
	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)
	cross := e1.Cross(e2)

	l := cross.Len()
	if l == 0 || l <= degenerateRatio*e1.Len()*e2.Len() {
		return Plane{}, ErrDegenerateNormal
	}

	n := cross.Div(l)
	return Plane{
		A: n.X,
		B: n.Y,
		C: n.Z,
		D: -n.Dot(v1),
	}, nil
}

// Normal returns (A, B, C).
func (p Plane) Normal() math3d.Vec3 {
	return math3d.V3(p.A, p.B, p.C)
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.A*point.X + p.B*point.Y + p.C*point.Z + p.D
}

// Intersect solves start + t·(end-start) for the point on the plane.
// It reports false when the ray runs parallel to the plane. t is not
// range-checked.
func (p Plane) Intersect(r Ray) (float64, bool) {
	dir := r.Direction()
	denom := p.A*dir.X + p.B*dir.Y + p.C*dir.Z
	if denom == 0 {
		return 0, false
	}
	t := -p.DistanceToPoint(r.Start) / denom
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}
