// Package models provides the in-memory model representation and the
// Wavefront OBJ/MTL parsers feeding the converter.
package models

import (
	"math"

	"github.com/taigrr/obj2three/pkg/geometry"
	"github.com/taigrr/obj2three/pkg/math3d"
)

// Mesh holds a parsed OBJ model. Positions, texture coordinates and
// normals are separate streams indexed independently by each face, the
// way the OBJ format stores them.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	UVs      []math3d.Vec2
	Normals  []math3d.Vec3
	Faces    []Face

	Materials []Material

	// MTL library file names referenced by mtllib directives,
	// relative to the OBJ file.
	MTLLibs []string
}

// Face is a polygon with per-corner indices into the mesh streams.
// T and N are either empty or the same length as V.
type Face struct {
	V        []int // vertex indices
	T        []int // uv indices
	N        []int // normal indices
	Material int   // index into Mesh.Materials, -1 for none
}

// IsQuad reports whether the face has exactly four corners.
func (f Face) IsQuad() bool {
	return len(f.V) == 4
}

// HasUVs reports whether the face carries texture coordinate indices.
func (f Face) HasUVs() bool {
	return len(f.T) == len(f.V) && len(f.T) > 0
}

// HasNormals reports whether the face carries normal indices.
func (f Face) HasNormals() bool {
	return len(f.N) == len(f.V) && len(f.N) > 0
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
func (m *Mesh) Bounds() geometry.Box {
	return geometry.BoundingBox(m.Vertices)
}

// Align repositions the mesh in place per the alignment policy and
// returns the translation that was applied, so callers can apply the
// same offset to morph targets.
func (m *Mesh) Align(policy geometry.Alignment) math3d.Vec3 {
	offset := geometry.AlignOffset(m.Vertices, policy)
	geometry.Translate(m.Vertices, offset)
	return offset
}

// NormalizeNormals rescales all vertex normals to unit length in place.
// Degenerate normals (zero or non-finite) are left as they are.
func (m *Mesh) NormalizeNormals() {
	geometry.NormalizeAll(m.Normals)
}

// DropNormals removes the normal stream and all face normal indices,
// used for flat shading where the loader computes face normals itself.
func (m *Mesh) DropNormals() {
	m.Normals = nil
	for i := range m.Faces {
		m.Faces[i].N = nil
	}
}

// Quantize snaps every vertex coordinate to a 1/scale grid. A scale of
// 10 keeps one decimal digit. Non-positive scales are ignored.
func (m *Mesh) Quantize(scale float64) {
	if scale <= 0 {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i].X = math.Round(m.Vertices[i].X*scale) / scale
		m.Vertices[i].Y = math.Round(m.Vertices[i].Y*scale) / scale
		m.Vertices[i].Z = math.Round(m.Vertices[i].Z*scale) / scale
	}
}

// QuantizeVertices applies the same grid snapping to a standalone vertex
// list (morph targets share the base model's scale).
func QuantizeVertices(vertices []math3d.Vec3, scale float64) {
	if scale <= 0 {
		return
	}
	for i := range vertices {
		vertices[i].X = math.Round(vertices[i].X*scale) / scale
		vertices[i].Y = math.Round(vertices[i].Y*scale) / scale
		vertices[i].Z = math.Round(vertices[i].Z*scale) / scale
	}
}

// VertexCount returns the number of vertex positions.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// TriangleCount returns the face count with quads counted as two.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		if f.IsQuad() {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// MaterialIndex returns the index of the named material, creating a
// placeholder entry the first time a name is seen. usemtl can legally
// appear before the material library has been read.
func (m *Mesh) MaterialIndex(name string) int {
	for i := range m.Materials {
		if m.Materials[i].Name == name {
			return i
		}
	}
	m.Materials = append(m.Materials, NewMaterial(name))
	return len(m.Materials) - 1
}

// MergeMaterials overlays parsed MTL definitions onto the placeholder
// materials created by usemtl references, matching by name. Materials
// defined in the library but never referenced are appended so they stay
// available for morph color baking.
func (m *Mesh) MergeMaterials(defs []Material) {
	for _, def := range defs {
		found := false
		for i := range m.Materials {
			if m.Materials[i].Name == def.Name {
				m.Materials[i] = def
				found = true
				break
			}
		}
		if !found {
			m.Materials = append(m.Materials, def)
		}
	}
}

// GetMaterial returns the material at index i, or nil when out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}
