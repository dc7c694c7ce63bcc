// Package gltfexport writes meshes as glTF 2.0 documents, the format
// current three.js loaders consume directly.
package gltfexport

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/obj2three/pkg/models"
)

// Options control the exported document.
type Options struct {
	// Smooth exports vertex normals. Flat models leave normal
	// generation to the viewer.
	Smooth bool

	// InvertTransparency treats dissolve values as inverted.
	InvertTransparency bool

	// Binary selects the packed .glb container instead of JSON.
	Binary bool
}

// corner identifies one OBJ face corner. OBJ indexes positions, uvs
// and normals independently; glTF uses a single index stream, so equal
// corners are folded into one unified vertex.
type corner struct {
	v, t, n int
}

// Write builds a glTF document from the mesh and encodes it to w.
func Write(w io.Writer, mesh *models.Mesh, opts Options) error {
	doc, err := BuildDocument(mesh, opts)
	if err != nil {
		return err
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = opts.Binary
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode gltf: %w", err)
	}
	return nil
}

// BuildDocument converts the mesh into a single-node document with one
// primitive per referenced material, all sharing a unified vertex pool.
func BuildDocument(mesh *models.Mesh, opts Options) (*gltf.Document, error) {
	doc := gltf.NewDocument()

	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		seen      = map[corner]int{}
	)

	// All faces must agree on which attribute streams exist, otherwise
	// primitives sharing the pool would disagree on accessor layout.
	// Faces missing a stream that others carry degrade the whole
	// export to the common subset.
	hasUVs, hasNormals := len(mesh.Faces) > 0, opts.Smooth && len(mesh.Faces) > 0
	for _, f := range mesh.Faces {
		if !f.HasUVs() {
			hasUVs = false
		}
		if !f.HasNormals() {
			hasNormals = false
		}
	}

	unify := func(f models.Face, i int) (int, error) {
		c := corner{v: f.V[i], t: -1, n: -1}
		if hasUVs {
			c.t = f.T[i]
		}
		if hasNormals {
			c.n = f.N[i]
		}

		if idx, ok := seen[c]; ok {
			return idx, nil
		}

		if c.v >= len(mesh.Vertices) {
			return 0, fmt.Errorf("vertex index %d out of range", c.v)
		}
		v := mesh.Vertices[c.v]
		positions = append(positions, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)})
		if hasUVs {
			uv := mesh.UVs[c.t]
			// OBJ uv origin is bottom-left, glTF top-left.
			uvs = append(uvs, [2]float32{float32(uv.X), float32(1 - uv.Y)})
		}
		if hasNormals {
			n := mesh.Normals[c.n]
			normals = append(normals, [3]float32{float32(n.X), float32(n.Y), float32(n.Z)})
		}

		idx := len(positions) - 1
		seen[c] = idx
		return idx, nil
	}

	// Index lists per material, quads split into two triangles.
	indices := map[int][]uint32{}
	var materialOrder []int
	for _, f := range mesh.Faces {
		key := f.Material
		if _, ok := indices[key]; !ok {
			materialOrder = append(materialOrder, key)
		}

		unified := make([]uint32, len(f.V))
		for i := range f.V {
			idx, err := unify(f, i)
			if err != nil {
				return nil, err
			}
			unified[i] = uint32(idx)
		}

		tris := [][3]uint32{{unified[0], unified[1], unified[2]}}
		if f.IsQuad() {
			tris = append(tris, [3]uint32{unified[0], unified[2], unified[3]})
		}
		for _, tri := range tris {
			indices[key] = append(indices[key], tri[0], tri[1], tri[2])
		}
	}

	if len(positions) == 0 {
		return nil, fmt.Errorf("no faces to export")
	}

	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}
	if hasNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}
	if hasUVs {
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	}

	materialIndex := writeMaterials(doc, mesh, opts)

	gltfMesh := &gltf.Mesh{Name: mesh.Name}
	for _, key := range materialOrder {
		prim := &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices[key])),
			Attributes: attrs,
		}
		if idx, ok := materialIndex[key]; ok {
			prim.Material = gltf.Index(idx)
		}
		gltfMesh.Primitives = append(gltfMesh.Primitives, prim)
	}

	doc.Meshes = append(doc.Meshes, gltfMesh)
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: mesh.Name,
		Mesh: gltf.Index(len(doc.Meshes) - 1),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)

	return doc, nil
}

// writeMaterials appends the mesh materials to the document and returns
// the mesh index to document index mapping. Faces without a material
// get no entry and stay unbound.
func writeMaterials(doc *gltf.Document, mesh *models.Mesh, opts Options) map[int]int {
	mapping := make(map[int]int, len(mesh.Materials))
	for i, mat := range mesh.Materials {
		opacity := mat.EffectiveOpacity(opts.InvertTransparency)
		color := &[4]float64{
			mat.Diffuse[0],
			mat.Diffuse[1],
			mat.Diffuse[2],
			opacity,
		}

		gm := &gltf.Material{
			Name: mat.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: color,
			},
		}
		if opacity < 1 {
			gm.AlphaMode = gltf.AlphaBlend
		}

		mapping[i] = len(doc.Materials)
		doc.Materials = append(doc.Materials, gm)
	}
	return mapping
}
