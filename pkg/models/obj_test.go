package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/obj2three/pkg/geometry"
	"github.com/taigrr/obj2three/pkg/math3d"
)

const sampleOBJ = `# simple model
mtllib sample.mtl
o Plane
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl Body
f 1/1/1 2/2/1 3/3/1 4/4/1
f 1 2 3
`

func TestParseOBJ(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(sampleOBJ), "sample.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if mesh.VertexCount() != 4 {
		t.Errorf("vertices = %d, want 4", mesh.VertexCount())
	}
	if len(mesh.UVs) != 4 {
		t.Errorf("uvs = %d, want 4", len(mesh.UVs))
	}
	if len(mesh.Normals) != 1 {
		t.Errorf("normals = %d, want 1", len(mesh.Normals))
	}
	if mesh.FaceCount() != 2 {
		t.Fatalf("faces = %d, want 2", mesh.FaceCount())
	}

	quad := mesh.Faces[0]
	if !quad.IsQuad() || !quad.HasUVs() || !quad.HasNormals() {
		t.Errorf("quad face flags wrong: %+v", quad)
	}
	if quad.V[0] != 0 || quad.V[3] != 3 {
		t.Errorf("quad indices = %v, want 0..3", quad.V)
	}
	if quad.Material != 0 {
		t.Errorf("quad material = %d, want 0", quad.Material)
	}

	tri := mesh.Faces[1]
	if tri.IsQuad() || tri.HasUVs() || tri.HasNormals() {
		t.Errorf("bare triangle flags wrong: %+v", tri)
	}

	if len(mesh.MTLLibs) != 1 || mesh.MTLLibs[0] != "sample.mtl" {
		t.Errorf("mtllibs = %v", mesh.MTLLibs)
	}
	if len(mesh.Materials) != 1 || mesh.Materials[0].Name != "Body" {
		t.Errorf("materials = %v", mesh.Materials)
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	input := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"

	mesh, err := ParseOBJ(strings.NewReader(input), "neg.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(mesh.Faces) != 1 {
		t.Fatalf("faces = %d, want 1", len(mesh.Faces))
	}
	if got := mesh.Faces[0].V; got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("resolved indices = %v, want [0 1 2]", got)
	}
}

func TestParseOBJFanTriangulation(t *testing.T) {
	input := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0.5 1.5 0\nv 0 1 0\nf 1 2 3 4 5\n"

	mesh, err := ParseOBJ(strings.NewReader(input), "pent.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(mesh.Faces) != 3 {
		t.Fatalf("pentagon should fan into 3 triangles, got %d", len(mesh.Faces))
	}
	for i, f := range mesh.Faces {
		if len(f.V) != 3 || f.V[0] != 0 {
			t.Errorf("triangle %d = %v, want fan anchored at 0", i, f.V)
		}
	}
}

func TestParseOBJNormalsOnlyCorners(t *testing.T) {
	input := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"

	mesh, err := ParseOBJ(strings.NewReader(input), "n.obj")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	f := mesh.Faces[0]
	if f.HasUVs() {
		t.Errorf("face should have no uvs: %+v", f)
	}
	if !f.HasNormals() || f.N[0] != 0 {
		t.Errorf("face should use normal 0: %+v", f)
	}
}

func TestParseOBJBadFace(t *testing.T) {
	if _, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 9 1\n"), "bad.obj"); err == nil {
		t.Error("out-of-range index should fail")
	}
	if _, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 x 1\n"), "bad.obj"); err == nil {
		t.Error("non-numeric index should fail")
	}
	if _, err := ParseOBJ(strings.NewReader("v 0 0\n"), "bad.obj"); err == nil {
		t.Error("two-component vertex should fail")
	}
}

func TestLoadOBJWithMaterials(t *testing.T) {
	dir := t.TempDir()

	obj := "mtllib cube.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl Red\nf 1 2 3\n"
	mtl := "newmtl Red\nKd 1 0 0\nd 0.5\n"
	if err := os.WriteFile(filepath.Join(dir, "cube.obj"), []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cube.mtl"), []byte(mtl), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadOBJ(filepath.Join(dir, "cube.obj"))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	if len(mesh.Materials) != 1 {
		t.Fatalf("materials = %d, want 1", len(mesh.Materials))
	}
	mat := mesh.Materials[0]
	if mat.Name != "Red" || mat.Diffuse != [3]float64{1, 0, 0} || mat.Opacity != 0.5 {
		t.Errorf("merged material = %+v", mat)
	}
	if mesh.Faces[0].Material != 0 {
		t.Errorf("face material = %d, want 0", mesh.Faces[0].Material)
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOBJMissingMTL(t *testing.T) {
	dir := t.TempDir()
	obj := "mtllib gone.mtl\nv 0 0 0\n"
	if err := os.WriteFile(filepath.Join(dir, "m.obj"), []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOBJ(filepath.Join(dir, "m.obj")); err == nil {
		t.Error("unopenable material library should be fatal")
	}
}

func TestMeshAlignAndBounds(t *testing.T) {
	mesh := NewMesh("m")
	mesh.Vertices = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(2, 2, 2),
		math3d.V3(4, 4, 4),
	}

	offset := mesh.Align(geometry.AlignCenter)
	if offset != math3d.V3(-2, -2, -2) {
		t.Errorf("offset = %v, want (-2, -2, -2)", offset)
	}
	box := mesh.Bounds()
	if box.Min != math3d.V3(-2, -2, -2) || box.Max != math3d.V3(2, 2, 2) {
		t.Errorf("bounds after centering = %+v", box)
	}
}

func TestMeshQuantize(t *testing.T) {
	mesh := NewMesh("m")
	mesh.Vertices = []math3d.Vec3{math3d.V3(0.123, 4.567, -8.949)}

	mesh.Quantize(10)

	want := math3d.V3(0.1, 4.6, -8.9)
	got := mesh.Vertices[0]
	if got != want {
		t.Errorf("quantized = %v, want %v", got, want)
	}

	// Non-positive scale is a no-op.
	mesh.Quantize(0)
	if mesh.Vertices[0] != want {
		t.Errorf("zero scale modified vertices: %v", mesh.Vertices[0])
	}
}

func TestMeshTriangleCount(t *testing.T) {
	mesh := NewMesh("m")
	mesh.Faces = []Face{
		{V: []int{0, 1, 2}},
		{V: []int{0, 1, 2, 3}},
	}
	if got := mesh.TriangleCount(); got != 3 {
		t.Errorf("TriangleCount = %d, want 3", got)
	}
}
