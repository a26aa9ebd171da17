package geom

import (
	"image/color"
	"math"

	"github.com/taigrr/raycast/pkg/math3d"
)

// ToleranceScale is the constant K of the area-sum inside test. A point is
// inside when (area1+area2+area3)·K <= area + area·K, so a larger K is a
// tighter test.
type ToleranceScale float64

// DefaultToleranceScale is the K used when none is configured.
const DefaultToleranceScale ToleranceScale = 1e7

// Accepts reports whether the sub-triangle area sum matches area.
func (k ToleranceScale) Accepts(sum, area float64) bool {
	s := float64(k)
	return sum*s <= area+area*s
}

// Triangle is an immutable colored triangle. Its plane, perimeter and area
// are derived once in NewTriangle; Transform returns a new Triangle.
type Triangle struct {
	a, b, c   math3d.Vec3
	color     color.RGBA
	plane     Plane
	perimeter float64
	area      float64
	err       error
}

// NewTriangle creates a triangle and derives its plane and area.
// A degenerate triangle is still returned; see Err.
func NewTriangle(a, b, c math3d.Vec3, col color.RGBA) Triangle {
	t := Triangle{a: a, b: b, c: c, color: col}
	t.plane, t.err = PlaneFromPoints(a, b, c)
	t.perimeter, t.area = heron(a, b, c)
	return t
}

// A returns the first vertex.
func (t Triangle) A() math3d.Vec3 { return t.a }

// B returns the second vertex.
func (t Triangle) B() math3d.Vec3 { return t.b }

// C returns the third vertex.
func (t Triangle) C() math3d.Vec3 { return t.c }

// Vertices returns a, b and c.
func (t Triangle) Vertices() [3]math3d.Vec3 { return [3]math3d.Vec3{t.a, t.b, t.c} }

// Color returns the fill color.
func (t Triangle) Color() color.RGBA { return t.color }

// Plane returns the supporting plane.
func (t Triangle) Plane() Plane { return t.plane }

// Perimeter returns the sum of the edge lengths.
func (t Triangle) Perimeter() float64 { return t.perimeter }

// Area returns the area computed with Heron's formula.
func (t Triangle) Area() float64 { return t.area }

// Err returns ErrDegenerateNormal for collinear or coincident vertices.
func (t Triangle) Err() error { return t.err }

// Degenerate reports whether the triangle has no plane.
func (t Triangle) Degenerate() bool { return t.err != nil }

// Transform returns a new triangle with every vertex mapped through m.
func (t Triangle) Transform(m math3d.Matrix) Triangle {
	return NewTriangle(m.MulVec3(t.a), m.MulVec3(t.b), m.MulVec3(t.c), t.color)
}

// Hit is an accepted ray-triangle intersection.
type Hit struct {
	T     float64     // ray parameter
	Point math3d.Vec3 // intersection point on the triangle's plane
}

// Intersect casts r against the triangle. The candidate point on the plane
// is inside when the three sub-triangles it forms with the edges add up to
// the triangle's area within k. Degenerate triangles and rays parallel to
// the plane never hit. Any finite t is returned; callers choose which
// parameters count.
//
// Points within the tolerance of an edge may flip between accepted and
// rejected from one frame to the next.
func (t Triangle) Intersect(r Ray, k ToleranceScale) (Hit, bool) {
	if t.err != nil {
		return Hit{}, false
	}
	tt, ok := t.plane.Intersect(r)
	if !ok {
		return Hit{}, false
	}
	p := r.At(tt)
	if !p.IsFinite() {
		return Hit{}, false
	}

	_, a1 := heron(p, t.a, t.b)
	_, a2 := heron(p, t.b, t.c)
	_, a3 := heron(p, t.c, t.a)
	if !k.Accepts(a1+a2+a3, t.area) {
		return Hit{}, false
	}
	return Hit{T: tt, Point: p}, true
}

// heron returns the perimeter and area of the triangle abc. Rounding can
// make the radicand slightly negative for flat triangles; that is area 0.
func heron(a, b, c math3d.Vec3) (perimeter, area float64) {
	la := a.Distance(b)
	lb := b.Distance(c)
	lc := c.Distance(a)
	perimeter = la + lb + lc
	s := perimeter / 2
	r := s * (s - la) * (s - lb) * (s - lc)
	if r <= 0 {
		return perimeter, 0
	}
	return perimeter, math.Sqrt(r)
}
