// Package models loads triangle meshes from files and turns them into the
// colored triangles the ray caster renders.
package models

import (
	"image/color"
	"math"

	"github.com/taigrr/raycast/pkg/geom"
	"github.com/taigrr/raycast/pkg/math3d"
	"github.com/taigrr/raycast/pkg/scene"
)

// Mesh is an indexed triangle mesh with per-face materials.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face represents a triangle face with vertex indices and material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the part of a glTF material the ray caster uses.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// Color converts the base color to 8-bit RGB. Translucency is drawn as a
// tint toward white.
func (m Material) Color() color.RGBA {
	c := color.RGBA{
		R: unit8(m.BaseColor[0]),
		G: unit8(m.BaseColor[1]),
		B: unit8(m.BaseColor[2]),
		A: 255,
	}
	if a := m.BaseColor[3]; a < 1 {
		c = scene.Tint(c, 1-math.Max(a, 0))
	}
	return c
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// DefaultPalette colors faces that have no material, cycling by face index.
var DefaultPalette = []color.RGBA{
	scene.Tomato, scene.Violet, scene.Blue, scene.Yellow, scene.Lime, scene.Cyan,
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform maps every vertex through mat.
func (m *Mesh) Transform(mat math3d.Matrix) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(v)
	}
	m.CalculateBounds()
}

// Fit moves the mesh so its bounding box is centered on the origin and
// scales it so the largest side measures size. An empty or flat-to-a-point
// mesh is only recentered.
func (m *Mesh) Fit(size float64) {
	m.CalculateBounds()
	center := m.Center()
	dims := m.Size()
	largest := math.Max(dims.X, math.Max(dims.Y, dims.Z))

	scale := 1.0
	if largest > 0 {
		scale = size / largest
	}
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Sub(center).Scale(scale)
	}
	m.CalculateBounds()
}

// Triangles builds one geom.Triangle per face. Faces with a material take
// its color; the rest take palette[face % len(palette)], or DefaultPalette
// when palette is empty.
func (m *Mesh) Triangles(palette []color.RGBA) []geom.Triangle {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	tris := make([]geom.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		c := palette[i%len(palette)]
		if mat := m.GetMaterial(f.Material); mat != nil {
			c = mat.Color()
		}
		tris[i] = geom.NewTriangle(m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]], c)
	}
	return tris
}

// SceneConfig places a fitted copy of the mesh where the demo cube sits:
// largest side 300*scale, centered 1000*scale down the +z axis.
func (m *Mesh) SceneConfig(scale float64, palette []color.RGBA) scene.MeshConfig {
	fitted := m.Clone()
	fitted.Fit(300 * scale)
	return scene.MeshConfig{
		Triangles: fitted.Triangles(palette),
		Pose:      math3d.Translation(0, 0, 1000*scale),
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}
