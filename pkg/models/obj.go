package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/obj2three/pkg/math3d"
)

// ParseOBJ reads a Wavefront OBJ model from r. Material libraries named
// by mtllib directives are recorded in Mesh.MTLLibs but not loaded;
// LoadOBJ resolves them relative to the file.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	currentMaterial := -1
	lineno := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keyword, rest, _ := strings.Cut(line, " ")
		if i := strings.IndexByte(keyword, '\t'); i >= 0 {
			// Some exporters separate the keyword with a tab.
			keyword, rest = line[:i], line[i+1:]
		}
		rest = strings.TrimSpace(rest)

		switch keyword {
		case "v":
			v, err := parseVec3(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineno, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case "vt":
			uv, err := parseVec2(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", lineno, err)
			}
			mesh.UVs = append(mesh.UVs, uv)

		case "vn":
			n, err := parseVec3(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineno, err)
			}
			mesh.Normals = append(mesh.Normals, n)

		case "f":
			if err := mesh.appendFace(rest, currentMaterial); err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineno, err)
			}

		case "usemtl":
			currentMaterial = mesh.MaterialIndex(rest)

		case "mtllib":
			// A single mtllib line may name several libraries.
			mesh.MTLLibs = append(mesh.MTLLibs, strings.Fields(rest)...)

		case "o", "g", "s":
			// Object names, groups and smoothing groups do not affect
			// the exported geometry.

		default:
			// Unknown directives (curves, merging groups, ...) are
			// skipped like most OBJ consumers do.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return mesh, nil
}

// LoadOBJ reads an OBJ file along with the material libraries it
// references. Material files live next to the OBJ file, per convention.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, lib := range mesh.MTLLibs {
		defs, err := LoadMTL(filepath.Join(dir, lib))
		if err != nil {
			return nil, err
		}
		mesh.MergeMaterials(defs)
	}

	return mesh, nil
}

// appendFace parses one face directive and appends it, fan-triangulating
// polygons with more than four corners. Triangles and quads pass through
// unchanged since the output format encodes both.
func (m *Mesh) appendFace(rest string, material int) error {
	corners := strings.Fields(rest)
	if len(corners) < 3 {
		return fmt.Errorf("%d corners", len(corners))
	}

	face := Face{Material: material}
	hasUV := true
	hasNormal := true

	for _, corner := range corners {
		vi, ti, ni, err := parseFaceCorner(corner)
		if err != nil {
			return err
		}

		v, ok := resolveIndex(vi, len(m.Vertices))
		if !ok {
			return fmt.Errorf("vertex index %d out of range", vi)
		}
		face.V = append(face.V, v)

		if ti != 0 {
			t, ok := resolveIndex(ti, len(m.UVs))
			if !ok {
				return fmt.Errorf("uv index %d out of range", ti)
			}
			face.T = append(face.T, t)
		} else {
			hasUV = false
		}

		if ni != 0 {
			n, ok := resolveIndex(ni, len(m.Normals))
			if !ok {
				return fmt.Errorf("normal index %d out of range", ni)
			}
			face.N = append(face.N, n)
		} else {
			hasNormal = false
		}
	}

	// Mixed corners (some with uv/normal, some without) degrade to none.
	if !hasUV {
		face.T = nil
	}
	if !hasNormal {
		face.N = nil
	}

	if len(face.V) <= 4 {
		m.Faces = append(m.Faces, face)
		return nil
	}

	for i := 1; i+1 < len(face.V); i++ {
		tri := Face{
			Material: material,
			V:        []int{face.V[0], face.V[i], face.V[i+1]},
		}
		if face.T != nil {
			tri.T = []int{face.T[0], face.T[i], face.T[i+1]}
		}
		if face.N != nil {
			tri.N = []int{face.N[0], face.N[i], face.N[i+1]}
		}
		m.Faces = append(m.Faces, tri)
	}
	return nil
}

// parseFaceCorner splits one face corner of the form v, v/vt, v//vn or
// v/vt/vn. Missing parts come back as zero, which is never a valid OBJ
// index.
func parseFaceCorner(s string) (vi, ti, ni int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("malformed corner %q", s)
	}

	vi, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed corner %q", s)
	}
	if len(parts) > 1 && parts[1] != "" {
		ti, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("malformed corner %q", s)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("malformed corner %q", s)
		}
	}
	return vi, ti, ni, nil
}

// resolveIndex converts a 1-based OBJ index (negative counts from the
// end) to a 0-based slice index.
func resolveIndex(i, n int) (int, bool) {
	switch {
	case i > 0:
		i--
	case i < 0:
		i = n + i
	default:
		return 0, false
	}
	return i, i >= 0 && i < n
}

func parseVec3(s string) (math3d.Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}

	var c [3]float64
	for i := range 3 {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("component %q: %w", fields[i], err)
		}
		c[i] = v
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

func parseVec2(s string) (math3d.Vec2, error) {
	fields := strings.Fields(s)
	if len(fields) < 1 {
		return math3d.Vec2{}, fmt.Errorf("empty texture coordinate")
	}

	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math3d.Vec2{}, fmt.Errorf("component %q: %w", fields[0], err)
	}
	v := 0.0
	if len(fields) > 1 {
		v, err = strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return math3d.Vec2{}, fmt.Errorf("component %q: %w", fields[1], err)
		}
	}
	return math3d.V2(u, v), nil
}
