package three

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/taigrr/obj2three/pkg/math3d"
	"github.com/taigrr/obj2three/pkg/models"
)

// Face type bits of the JSON model format, version 3. A face entry is
// the type value followed by the index groups the set bits announce, in
// bit order.
const (
	faceQuad         = 1 << 0
	faceMaterial     = 1 << 1
	faceVertexUV     = 1 << 3
	faceVertexNormal = 1 << 5
	faceColor        = 1 << 6
)

// Options control what the writers emit beyond the raw geometry.
type Options struct {
	// SourceFile is recorded in the metadata block.
	SourceFile string

	// Smooth exports vertex normals. When unset no normals are written
	// and the loader computes flat face normals itself.
	Smooth bool

	// BakeColors bakes each face's material diffuse color into a face
	// color entry.
	BakeColors bool

	// InvertTransparency treats dissolve values as inverted.
	InvertTransparency bool
}

type metadata struct {
	FormatVersion float64 `json:"formatVersion"`
	SourceFile    string  `json:"sourceFile"`
	GeneratedBy   string  `json:"generatedBy"`
	Vertices      int     `json:"vertices"`
	Faces         int     `json:"faces"`
	Normals       int     `json:"normals"`
	Colors        int     `json:"colors"`
	UVs           int     `json:"uvs"`
	Materials     int     `json:"materials"`
	MorphTargets  int     `json:"morphTargets"`
}

type morphTargetJSON struct {
	Name     string    `json:"name"`
	Vertices []float64 `json:"vertices"`
}

type morphColorJSON struct {
	Name   string    `json:"name"`
	Colors []float64 `json:"colors"`
}

type document struct {
	Metadata     metadata          `json:"metadata"`
	Scale        float64           `json:"scale"`
	Materials    []MaterialJSON    `json:"materials"`
	Vertices     []float64         `json:"vertices"`
	MorphTargets []morphTargetJSON `json:"morphTargets"`
	MorphColors  []morphColorJSON  `json:"morphColors"`
	Normals      []float64         `json:"normals"`
	Colors       []int             `json:"colors"`
	UVs          [][]float64       `json:"uvs"`
	Faces        []int             `json:"faces"`
}

// WriteASCII writes the mesh as a single self-contained JSON model file.
func WriteASCII(w io.Writer, mesh *models.Mesh, targets []models.MorphTarget, colorSets []models.MorphColorSet, opts Options) error {
	doc := document{
		Scale:        1,
		Materials:    BuildMaterials(mesh, opts.InvertTransparency),
		Vertices:     flattenVec3(mesh.Vertices),
		MorphTargets: []morphTargetJSON{},
		MorphColors:  []morphColorJSON{},
		Normals:      []float64{},
		Colors:       []int{},
		UVs:          [][]float64{},
		Faces:        []int{},
	}

	for _, target := range targets {
		doc.MorphTargets = append(doc.MorphTargets, morphTargetJSON{
			Name:     target.Name,
			Vertices: flattenVec3(target.Vertices),
		})
	}
	for _, set := range colorSets {
		doc.MorphColors = append(doc.MorphColors, morphColorJSON{
			Name:   set.Name,
			Colors: unpackColors(set.Colors),
		})
	}

	if opts.Smooth {
		doc.Normals = flattenVec3(mesh.Normals)
	}
	if len(mesh.UVs) > 0 {
		layer := make([]float64, 0, 2*len(mesh.UVs))
		for _, uv := range mesh.UVs {
			layer = append(layer, uv.X, uv.Y)
		}
		doc.UVs = [][]float64{layer}
	}

	// Baked face colors are deduplicated: the colors array holds each
	// distinct packed color once and faces reference it by index.
	colorIndex := map[int]int{}
	for _, face := range mesh.Faces {
		doc.Faces = appendFaceJSON(doc.Faces, face, mesh, opts, colorIndex, &doc.Colors)
	}

	doc.Metadata = metadata{
		FormatVersion: 3,
		SourceFile:    opts.SourceFile,
		GeneratedBy:   "obj2three",
		Vertices:      mesh.VertexCount(),
		Faces:         mesh.FaceCount(),
		Normals:       len(doc.Normals) / 3,
		Colors:        len(doc.Colors),
		UVs:           len(mesh.UVs),
		Materials:     len(doc.Materials),
		MorphTargets:  len(targets),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

func appendFaceJSON(out []int, face models.Face, mesh *models.Mesh, opts Options, colorIndex map[int]int, colors *[]int) []int {
	hasUV := face.HasUVs()
	hasNormal := opts.Smooth && face.HasNormals()
	hasMaterial := face.Material >= 0
	hasColor := opts.BakeColors

	kind := 0
	if face.IsQuad() {
		kind |= faceQuad
	}
	if hasMaterial {
		kind |= faceMaterial
	}
	if hasUV {
		kind |= faceVertexUV
	}
	if hasNormal {
		kind |= faceVertexNormal
	}
	if hasColor {
		kind |= faceColor
	}

	out = append(out, kind)
	out = append(out, face.V...)
	if hasMaterial {
		out = append(out, face.Material)
	}
	if hasUV {
		out = append(out, face.T...)
	}
	if hasNormal {
		out = append(out, face.N...)
	}
	if hasColor {
		packed := models.BakedColor(mesh.GetMaterial(face.Material))
		idx, ok := colorIndex[packed]
		if !ok {
			idx = len(*colors)
			*colors = append(*colors, packed)
			colorIndex[packed] = idx
		}
		out = append(out, idx)
	}
	return out
}

func flattenVec3(vs []math3d.Vec3) []float64 {
	out := make([]float64, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}

// unpackColors expands packed 0xRRGGBB values back to normalized float
// triples the way the morph color loader expects them.
func unpackColors(packed []int) []float64 {
	out := make([]float64, 0, 3*len(packed))
	for _, c := range packed {
		out = append(out,
			float64(c>>16&0xff)/255,
			float64(c>>8&0xff)/255,
			float64(c&0xff)/255,
		)
	}
	return out
}
