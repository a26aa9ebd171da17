package models

import (
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/raycast/pkg/math3d"
)

// testPrimitive describes one primitive for testDocument.
type testPrimitive struct {
	positions [][3]float32
	indices   []uint16 // nil for non-indexed geometry
	material  *int
	mode      gltf.PrimitiveMode
}

// testDocument packs the primitives into a single embedded buffer.
func testDocument(materials []*gltf.Material, prims ...testPrimitive) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Materials = materials
	bufIdx := len(doc.Buffers)

	var data []byte
	view := func(start int) int {
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     bufIdx,
			ByteOffset: start,
			ByteLength: len(data) - start,
		})
		return len(doc.BufferViews) - 1
	}

	mesh := &gltf.Mesh{Name: "test"}
	for _, p := range prims {
		start := len(data)
		for _, v := range p.positions {
			for _, f := range v {
				data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
			}
		}
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    gltf.Index(view(start)),
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec3,
			Count:         len(p.positions),
		})
		prim := &gltf.Primitive{
			Attributes: map[string]int{gltf.POSITION: len(doc.Accessors) - 1},
			Material:   p.material,
			Mode:       p.mode,
		}

		if p.indices != nil {
			start = len(data)
			for _, i := range p.indices {
				data = binary.LittleEndian.AppendUint16(data, i)
			}
			for len(data)%4 != 0 {
				data = append(data, 0)
			}
			doc.Accessors = append(doc.Accessors, &gltf.Accessor{
				BufferView:    gltf.Index(view(start)),
				ComponentType: gltf.ComponentUshort,
				Type:          gltf.AccessorScalar,
				Count:         len(p.indices),
			})
			prim.Indices = gltf.Index(len(doc.Accessors) - 1)
		}
		mesh.Primitives = append(mesh.Primitives, prim)
	}

	doc.Buffers = append(doc.Buffers, &gltf.Buffer{ByteLength: len(data), Data: data})
	doc.Meshes = append(doc.Meshes, mesh)
	return doc
}

func baseColor(name string, c [4]float64) *gltf.Material {
	return &gltf.Material{
		Name:                 name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &c},
	}
}

var quad = [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestFromDocument(t *testing.T) {
	doc := testDocument(
		[]*gltf.Material{baseColor("red", [4]float64{1, 0, 0, 1}), {Name: "plain"}},
		testPrimitive{positions: quad, indices: []uint16{0, 1, 2, 0, 2, 3}, material: gltf.Index(0)},
		testPrimitive{positions: [][3]float32{{0, 0, 5}, {2, 0, 5}, {0, 2, 5}}},
		testPrimitive{positions: quad, indices: []uint16{0, 1, 1, 2}, mode: gltf.PrimitiveLines},
	)

	mesh, err := FromDocument(doc, "quad.glb")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if mesh.Name != "quad.glb" {
		t.Errorf("Name = %q", mesh.Name)
	}
	if mesh.TriangleCount() != 3 {
		t.Fatalf("TriangleCount = %d, want 3 (line primitive skipped)", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 7 {
		t.Errorf("VertexCount = %d, want 7", mesh.VertexCount())
	}

	if mesh.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("face 1 = %v, want [0 2 3]", mesh.Faces[1].V)
	}
	// Non-indexed primitive is offset past the first primitive's vertices.
	if mesh.Faces[2].V != [3]int{4, 5, 6} {
		t.Errorf("face 2 = %v, want [4 5 6]", mesh.Faces[2].V)
	}

	if len(mesh.Materials) != 2 {
		t.Fatalf("materials = %d, want 2", len(mesh.Materials))
	}
	if got := mesh.Materials[0].BaseColor; got != [4]float64{1, 0, 0, 1} {
		t.Errorf("red base color = %v", got)
	}
	if got := mesh.Materials[1].BaseColor; got != [4]float64{1, 1, 1, 1} {
		t.Errorf("material without PBR block = %v, want opaque white", got)
	}
	if mesh.Faces[0].Material != 0 || mesh.Faces[2].Material != -1 {
		t.Errorf("face materials = %d, %d, want 0, -1", mesh.Faces[0].Material, mesh.Faces[2].Material)
	}

	if mesh.BoundsMin != math3d.V3(0, 0, 0) || mesh.BoundsMax != math3d.V3(2, 2, 5) {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestFromDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  func() *gltf.Document
		want error
	}{
		{
			name: "no meshes",
			doc:  gltf.NewDocument,
			want: ErrNoTriangles,
		},
		{
			name: "only lines",
			doc: func() *gltf.Document {
				return testDocument(nil, testPrimitive{positions: quad, indices: []uint16{0, 1}, mode: gltf.PrimitiveLines})
			},
			want: ErrNoTriangles,
		},
		{
			name: "index out of range",
			doc: func() *gltf.Document {
				return testDocument(nil, testPrimitive{positions: quad, indices: []uint16{0, 1, 9}})
			},
		},
		{
			name: "truncated buffer",
			doc: func() *gltf.Document {
				doc := testDocument(nil, testPrimitive{positions: quad})
				doc.Buffers[len(doc.Buffers)-1].Data = doc.Buffers[len(doc.Buffers)-1].Data[:20]
				return doc
			},
		},
		{
			name: "missing buffer data",
			doc: func() *gltf.Document {
				doc := testDocument(nil, testPrimitive{positions: quad})
				doc.Buffers[len(doc.Buffers)-1].Data = nil
				return doc
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromDocument(tc.doc(), tc.name)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoadGLBRoundTrip(t *testing.T) {
	doc := testDocument(
		[]*gltf.Material{baseColor("teal", [4]float64{0, 0.5, 0.5, 1})},
		testPrimitive{positions: quad, indices: []uint16{0, 1, 2, 0, 2, 3}, material: gltf.Index(0)},
	)
	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if mesh.Name != "quad.glb" || mesh.TriangleCount() != 2 {
		t.Fatalf("loaded %q with %d triangles", mesh.Name, mesh.TriangleCount())
	}
	if mesh.Vertices[2] != math3d.V3(1, 1, 0) {
		t.Errorf("vertex 2 = %v, want (1, 1, 0)", mesh.Vertices[2])
	}

	tris := mesh.Triangles(nil)
	want := Material{BaseColor: [4]float64{0, 0.5, 0.5, 1}}.Color()
	for i, tri := range tris {
		if tri.Color() != want {
			t.Errorf("triangle %d color = %v, want %v", i, tri.Color(), want)
		}
		if math.Abs(tri.Area()-0.5) > 1e-9 {
			t.Errorf("triangle %d area = %v, want 0.5", i, tri.Area())
		}
	}
}
