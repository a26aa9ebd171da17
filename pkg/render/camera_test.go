package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/raycast/pkg/math3d"
)

func testFilm(t testing.TB, cfg FilmConfig) *Film {
	t.Helper()
	f, err := NewFilm(cfg)
	if err != nil {
		t.Fatalf("NewFilm: %v", err)
	}
	return f
}

func TestCameraTrace(t *testing.T) {
	film := testFilm(t, FilmConfig{Width: 4, Height: 2, PixelSize: 1, ZOffset: 99})
	pose := math3d.Translation(1, 2, 3).RotateY(math3d.Radians(30))
	cam := NewCamera(pose, film, 10)

	if cam.Len() != film.Len() {
		t.Fatalf("Len = %d, want %d", cam.Len(), film.Len())
	}
	for i := range cam.Len() {
		r := cam.Trace(i)
		if r.Start != math3d.V3(1, 2, 3) {
			t.Errorf("ray %d starts at %v, want the camera position", i, r.Start)
		}
		p := film.Space(i)
		want := pose.MulVec3(math3d.V3(p.X, p.Y, 10))
		if !r.End.ApproxEqual(want, 1e-12) {
			t.Errorf("ray %d ends at %v, want %v", i, r.End, want)
		}
	}
}

func TestCameraCacheCoherence(t *testing.T) {
	film := testFilm(t, FilmConfig{Width: 6, Height: 6, PixelSize: 2})
	cam := NewCamera(math3d.Identity(), film, 5)

	for i := range cam.Len() {
		if a, b := cam.Trace(i), cam.Trace(i); a != b {
			t.Fatalf("Trace(%d) changed between calls: %v then %v", i, a, b)
		}
	}

	moved := math3d.Translation(0, 0, -20).RotateX(math3d.Radians(45))
	next := cam.WithPose(moved)
	for i := range next.Len() {
		p := film.Space(i)
		if got, want := next.Trace(i).End, moved.MulVec3(math3d.V3(p.X, p.Y, 5)); !got.ApproxEqual(want, 1e-12) {
			t.Errorf("after WithPose ray %d ends at %v, want %v", i, got, want)
		}
		if got := cam.Trace(i).End; got != math3d.V3(p.X, p.Y, 5) {
			t.Errorf("WithPose changed the original camera: ray %d ends at %v", i, got)
		}
	}
	if next.Film() != cam.Film() || next.Distance() != cam.Distance() {
		t.Error("WithPose should keep the film and focal distance")
	}
	if next.Position() != math3d.V3(0, 0, -20) {
		t.Errorf("Position = %v, want (0, 0, -20)", next.Position())
	}
}

func TestCameraRayBounds(t *testing.T) {
	cam := NewCamera(math3d.Identity(), testFilm(t, FilmConfig{Width: 2, Height: 2, PixelSize: 1}), 1)

	tests := []struct {
		name  string
		index int
		ok    bool
	}{
		{"first", 0, true},
		{"last", cam.Len() - 1, true},
		{"negative", -1, false},
		{"past end", cam.Len(), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := cam.Ray(tc.index)
			if tc.ok {
				if err != nil {
					t.Fatalf("Ray(%d): %v", tc.index, err)
				}
				if r != cam.Trace(tc.index) {
					t.Errorf("Ray(%d) differs from Trace", tc.index)
				}
				return
			}
			if !errors.Is(err, ErrSampleIndex) {
				t.Errorf("Ray(%d) err = %v, want ErrSampleIndex", tc.index, err)
			}
		})
	}
}

func TestCameraDolly(t *testing.T) {
	film := testFilm(t, FilmConfig{Width: 2, Height: 2, PixelSize: 1})

	tests := []struct {
		name string
		pose math3d.Matrix
		d    float64
	}{
		{"identity forward", math3d.Identity(), 5},
		{"identity back", math3d.Identity(), -3},
		{"turned", math3d.Translation(4, 0, 0).RotateY(math3d.Radians(90)), 2},
		{"tilted", math3d.Translation(0, 1, -7).RotateX(math3d.Radians(-20)).RotateZ(1), 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera(tc.pose, film, 1)
			moved := cam.Dolly(tc.d)
			delta := moved.Position().Sub(cam.Position())
			if math.Abs(delta.Len()-math.Abs(tc.d)) > 1e-9 {
				t.Errorf("moved %v, want %v", delta.Len(), math.Abs(tc.d))
			}
			if want := cam.Forward().Scale(tc.d); !delta.ApproxEqual(want, 1e-9) {
				t.Errorf("moved along %v, want %v", delta, want)
			}
			i, j, k := moved.Basis()
			ci, cj, ck := tc.pose.Basis()
			if i != ci || j != cj || k != ck {
				t.Error("Dolly must not rotate the camera")
			}
		})
	}

	if f := NewCamera(math3d.Identity(), film, 1).Forward(); f != math3d.V3(0, 0, 1) {
		t.Errorf("identity camera looks along %v, want +z", f)
	}
}

func BenchmarkNewCamera(b *testing.B) {
	film := testFilm(b, DefaultConfig().Film)
	pose := math3d.Translation(0, 0, -10).RotateY(0.3)
	for b.Loop() {
		_ = NewCamera(pose, film, 600)
	}
}
