package models

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/taigrr/obj2three/pkg/math3d"
)

// MorphTarget is one animation frame: a full replacement vertex list for
// the base model.
type MorphTarget struct {
	Name     string
	Vertices []math3d.Vec3
}

// MorphColorSet carries per-face colors sampled from one morph color
// frame, packed as 0xRRGGBB like the face color palette.
type MorphColorSet struct {
	Name   string
	Colors []int
}

// ExpandPatterns expands space-separated glob patterns into a sorted
// file list, then keeps every step-th file. A step of 1 (or less) keeps
// everything.
func ExpandPatterns(patterns string, step int) ([]string, error) {
	var files []string
	for _, pattern := range strings.Fields(patterns) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if step <= 1 {
		return files, nil
	}
	sampled := files[:0]
	for i := 0; i < len(files); i += step {
		sampled = append(sampled, files[i])
	}
	return sampled, nil
}

// morphName derives the frame name from its file name, extension
// stripped.
func morphName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadMorphTargets reads each morph OBJ file and validates that its
// vertex count matches the base model; a frame of a different topology
// cannot be interpolated.
func LoadMorphTargets(paths []string, wantVertices int) ([]MorphTarget, error) {
	var targets []MorphTarget
	for _, path := range paths {
		mesh, err := LoadOBJ(path)
		if err != nil {
			return nil, err
		}
		if mesh.VertexCount() != wantVertices {
			return nil, fmt.Errorf("morph target %s has %d vertices, base model has %d",
				path, mesh.VertexCount(), wantVertices)
		}
		targets = append(targets, MorphTarget{
			Name:     morphName(path),
			Vertices: mesh.Vertices,
		})
	}
	return targets, nil
}

// LoadMorphColors reads each morph color OBJ file and bakes the diffuse
// color of every face's material into a packed color list, one entry per
// face in face order.
func LoadMorphColors(paths []string) ([]MorphColorSet, error) {
	var sets []MorphColorSet
	for _, path := range paths {
		mesh, err := LoadOBJ(path)
		if err != nil {
			return nil, err
		}

		colors := make([]int, 0, len(mesh.Faces))
		for _, face := range mesh.Faces {
			colors = append(colors, BakedColor(mesh.GetMaterial(face.Material)))
		}
		sets = append(sets, MorphColorSet{Name: morphName(path), Colors: colors})
	}
	return sets, nil
}

// BakedColor packs a material's diffuse color into 0xRRGGBB. Faces
// without a material bake to white.
func BakedColor(mat *Material) int {
	if mat == nil {
		return 0xffffff
	}
	return packColor(mat.Diffuse)
}

// packColor converts an RGB triple in 0-1 range to 0xRRGGBB, clamping
// out-of-range components.
func packColor(c [3]float64) int {
	channel := func(v float64) int {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return int(v*255 + 0.5)
	}
	return channel(c[0])<<16 | channel(c[1])<<8 | channel(c[2])
}
