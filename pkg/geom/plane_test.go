package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/raycast/pkg/math3d"
)

func TestPlaneFromPoints(t *testing.T) {
	tests := []struct {
		name       string
		v1, v2, v3 math3d.Vec3
		normal     math3d.Vec3
		d          float64
	}{
		{"xy plane ccw", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1), 0},
		{"xy plane cw", math3d.V3(0, 0, 0), math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), 0},
		{"offset z", math3d.V3(0, 0, 5), math3d.V3(2, 0, 5), math3d.V3(0, 3, 5), math3d.V3(0, 0, 1), -5},
		{"x = 2", math3d.V3(2, 0, 0), math3d.V3(2, 1, 0), math3d.V3(2, 0, 1), math3d.V3(1, 0, 0), -2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PlaneFromPoints(tc.v1, tc.v2, tc.v3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !p.Normal().ApproxEqual(tc.normal, 1e-12) {
				t.Errorf("normal = %v, want %v", p.Normal(), tc.normal)
			}
			if math.Abs(p.D-tc.d) > 1e-12 {
				t.Errorf("D = %v, want %v", p.D, tc.d)
			}
			for _, v := range []math3d.Vec3{tc.v1, tc.v2, tc.v3} {
				if dist := p.DistanceToPoint(v); math.Abs(dist) > 1e-12 {
					t.Errorf("defining point %v is %v away from the plane", v, dist)
				}
			}
		})
	}
}

func TestPlaneFromPointsDegenerate(t *testing.T) {
	tests := []struct {
		name       string
		v1, v2, v3 math3d.Vec3
	}{
		{"coincident", math3d.V3(1, 1, 1), math3d.V3(1, 1, 1), math3d.V3(1, 1, 1)},
		{"two equal", math3d.V3(0, 0, 0), math3d.V3(0, 0, 0), math3d.V3(1, 2, 3)},
		{"collinear", math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), math3d.V3(3, 3, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PlaneFromPoints(tc.v1, tc.v2, tc.v3)
			if !errors.Is(err, ErrDegenerateNormal) {
				t.Errorf("got %v, want ErrDegenerateNormal", err)
			}
		})
	}
}

func TestPlaneIntersect(t *testing.T) {
	p, err := PlaneFromPoints(math3d.V3(0, 0, 10), math3d.V3(1, 0, 10), math3d.V3(0, 1, 10))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		ray   Ray
		t     float64
		found bool
	}{
		{"segment end on plane", NewRay(math3d.V3(0, 0, 0), math3d.V3(0, 0, 10)), 1, true},
		{"beyond end", NewRay(math3d.V3(0, 0, 0), math3d.V3(0, 0, 5)), 2, true},
		{"behind start", NewRay(math3d.V3(0, 0, 20), math3d.V3(0, 0, 30)), -1, true},
		{"oblique", NewRay(math3d.V3(0, 0, 0), math3d.V3(4, 4, 4)), 2.5, true},
		{"parallel", NewRay(math3d.V3(0, 0, 0), math3d.V3(1, 1, 0)), 0, false},
		{"parallel in plane", NewRay(math3d.V3(0, 0, 10), math3d.V3(5, 0, 10)), 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.ray.IntersectPlane(p)
			if ok != tc.found {
				t.Fatalf("found = %v, want %v", ok, tc.found)
			}
			if ok && math.Abs(got-tc.t) > 1e-12 {
				t.Errorf("t = %v, want %v", got, tc.t)
			}
		})
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(math3d.V3(1, 2, 3), math3d.V3(3, 2, -1))

	if r.Color != DefaultBackground {
		t.Errorf("new ray color = %v, want background %v", r.Color, DefaultBackground)
	}
	if got := r.At(0); got != r.Start {
		t.Errorf("At(0) = %v, want start", got)
	}
	if got := r.At(1); got != r.End {
		t.Errorf("At(1) = %v, want end", got)
	}
	if got := r.At(2); !got.ApproxEqual(math3d.V3(5, 2, -5), 1e-12) {
		t.Errorf("At(2) = %v, want (5, 2, -5)", got)
	}
	if got := r.Direction(); got != math3d.V3(2, 0, -4) {
		t.Errorf("Direction = %v, want (2, 0, -4)", got)
	}
}
