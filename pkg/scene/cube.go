package scene

import (
	"image/color"

	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
)

// Face indexes the six faces of a cube, in mesh order.
type Face int

const (
	FaceFront  Face = iota // z = -h
	FaceTop                // y = +h
	FaceRight              // x = +h
	FaceBottom             // y = -h
	FaceLeft               // x = -h
	FaceBack               // z = +h
)

// cubeFaces lists two triangles per face on the unit cube (half-size 1),
// in the same order as Face.
var cubeFaces = [6][2][3]math3d.Vec3{
	FaceFront: {
		{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}},
		{{X: -1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}},
	},
	FaceTop: {
		{{X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}},
		{{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}},
	},
	FaceRight: {
		{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}},
		{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}},
	},
	FaceBottom: {
		{{X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}},
		{{X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}},
	},
	FaceLeft: {
		{{X: -1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}},
		{{X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1}},
	},
	FaceBack: {
		{{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}},
		{{X: -1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}},
	},
}

// Cube returns the 12 triangles of an axis-aligned cube centered at the
// origin with the given half-size. Both triangles of a face share
// colors[face].
func Cube(half float64, colors [6]color.RGBA) []geom.Triangle {
	var tc [12]color.RGBA
	for f, c := range colors {
		tc[2*f], tc[2*f+1] = c, c
	}
	return cube(half, tc)
}

// CubeTriangles is like Cube with one color per triangle, two per face in
// Face order.
func CubeTriangles(half float64, colors [12]color.RGBA) []geom.Triangle {
	return cube(half, colors)
}

func cube(half float64, colors [12]color.RGBA) []geom.Triangle {
	tris := make([]geom.Triangle, 0, 12)
	for f, face := range cubeFaces {
		for i, v := range face {
			tris = append(tris, geom.NewTriangle(
				v[0].Scale(half),
				v[1].Scale(half),
				v[2].Scale(half),
				colors[2*f+i],
			))
		}
	}
	return tris
}

// Demo face colors.
var (
	Tomato      = color.RGBA{255, 99, 71, 255}
	Violet      = color.RGBA{238, 130, 238, 255}
	Blue        = color.RGBA{0, 0, 255, 255}
	Yellow      = color.RGBA{255, 255, 0, 255}
	Lime        = color.RGBA{0, 255, 0, 255}
	Cyan        = color.RGBA{0, 255, 255, 255}
	SpringGreen = color.RGBA{0, 255, 127, 255}
)

// Tint mixes c toward white by amount (0 = c, 1 = white).
func Tint(c color.RGBA, amount float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*amount)
	}
	return color.RGBA{mix(c.R), mix(c.G), mix(c.B), 255}
}

// Demo returns the spinning cube: half-size 150 at z = 1000, pre-rotated
// 30° about X, 50° about Y and 90° about Z, spinning by -0.05°, -0.01° and
// +0.05° per frame. Every distance is multiplied by scale. The second
// triangle of each face is a lighter tint of the first.
func Demo(scale float64) (MeshConfig, Animation) {
	colors := [12]color.RGBA{
		Tomato, Tint(Tomato, 0.5),
		Violet, Tint(Violet, 0.5),
		Blue, Tint(Blue, 0.5),
		Yellow, Tint(Yellow, 0.5),
		Lime, Tint(Lime, 0.5),
		Cyan, Tint(SpringGreen, 0.5),
	}
	pose := math3d.Translation(0, 0, 1000*scale).
		RotateX(math3d.Radians(30)).
		RotateY(math3d.Radians(50)).
		RotateZ(math3d.Radians(90))

	return MeshConfig{
			Triangles: CubeTriangles(150*scale, colors),
			Pose:      pose,
		}, Animation{
			VelocityX: math3d.Radians(-0.05),
			VelocityY: math3d.Radians(-0.01),
			VelocityZ: math3d.Radians(0.05),
		}
}
